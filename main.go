package main

import "github.com/frahmantamala/job-board/cmd"

func main() {
	cmd.Execute()
}
