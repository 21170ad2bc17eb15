// Package storagetest holds the behaviour shared by every storage.Storage
// implementation, expressed as ginkgo specs so each backend suite can run it.
package storagetest

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/job-board/internal/core/datamodel/application"
	"github.com/frahmantamala/job-board/internal/core/datamodel/category"
	"github.com/frahmantamala/job-board/internal/core/datamodel/job"
	"github.com/frahmantamala/job-board/internal/core/datamodel/user"
	"github.com/frahmantamala/job-board/internal/storage"
)

func ptr[T any](v T) *T { return &v }

// DescribeContract registers the storage contract specs. newStore must return
// a fresh, empty store on every call.
func DescribeContract(name string, newStore func() storage.Storage) bool {
	return Describe(name+" storage contract", func() {
		var (
			ctx   context.Context
			store storage.Storage
		)

		BeforeEach(func() {
			ctx = context.Background()
			store = newStore()
		})

		createUser := func(username string, role user.Role, active bool) *user.User {
			u, err := store.CreateUser(ctx, user.User{
				Username:  username,
				Email:     username + "@example.com",
				Password:  "secret",
				FirstName: "First",
				LastName:  "Last",
				Role:      role,
				IsActive:  active,
			})
			Expect(err).NotTo(HaveOccurred())
			return u
		}

		Describe("users", func() {
			It("assigns ids and creation fields", func() {
				u := createUser("alice", user.RoleAdmin, true)
				Expect(u.ID).To(BeNumerically(">", 0))
				Expect(u.CreatedAt).NotTo(BeZero())
				Expect(u.LastLogin).To(BeNil())

				other := createUser("bob", user.RoleEmployee, true)
				Expect(other.ID).NotTo(Equal(u.ID))
			})

			It("stores isActive exactly as given", func() {
				u, err := store.CreateUser(ctx, user.User{
					Username: "dormant", Email: "dormant@example.com", Password: "x",
					FirstName: "Dor", LastName: "Mant", Role: user.RoleApplicant,
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(u.IsActive).To(BeFalse())

				stored, err := store.GetUser(ctx, u.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(stored.IsActive).To(BeFalse())
			})

			It("derives the full name when absent", func() {
				u, err := store.CreateUser(ctx, user.User{
					Username: "jdoe", Email: "jdoe@example.com", Password: "x",
					FirstName: "John", LastName: "Doe", Role: user.RoleApplicant, IsActive: true,
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(u.FullName).To(Equal("John Doe"))

				q, err := store.CreateUser(ctx, user.User{
					Username: "jqdoe", Email: "jqdoe@example.com", Password: "x",
					FirstName: "John", MiddleName: ptr("Q"), LastName: "Doe", Role: user.RoleApplicant, IsActive: true,
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(q.FullName).To(Equal("John Q Doe"))
			})

			It("keeps an explicit full name", func() {
				u, err := store.CreateUser(ctx, user.User{
					Username: "jd", Email: "jd@example.com", Password: "x",
					FirstName: "John", LastName: "Doe", FullName: "Johnny D", Role: user.RoleApplicant, IsActive: true,
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(u.FullName).To(Equal("Johnny D"))
			})

			It("looks users up by username and email case-insensitively", func() {
				created := createUser("admin", user.RoleAdmin, true)

				upper, err := store.GetUserByUsername(ctx, "Admin")
				Expect(err).NotTo(HaveOccurred())
				lower, err := store.GetUserByUsername(ctx, "admin")
				Expect(err).NotTo(HaveOccurred())
				Expect(upper).NotTo(BeNil())
				Expect(lower).NotTo(BeNil())
				Expect(upper.ID).To(Equal(created.ID))
				Expect(lower.ID).To(Equal(created.ID))

				byEmail, err := store.GetUserByEmail(ctx, "ADMIN@example.com")
				Expect(err).NotTo(HaveOccurred())
				Expect(byEmail).NotTo(BeNil())
				Expect(byEmail.ID).To(Equal(created.ID))
			})

			It("returns nil for unknown users", func() {
				u, err := store.GetUser(ctx, 999)
				Expect(err).NotTo(HaveOccurred())
				Expect(u).To(BeNil())

				u, err = store.GetUserByUsername(ctx, "nobody")
				Expect(err).NotTo(HaveOccurred())
				Expect(u).To(BeNil())
			})

			Context("filtering", func() {
				BeforeEach(func() {
					createUser("admin", user.RoleAdmin, true)
					createUser("employee", user.RoleEmployee, true)
					createUser("applicant", user.RoleApplicant, false)
				})

				It("returns everything without filters", func() {
					users, err := store.GetUsers(ctx, storage.UserFilter{})
					Expect(err).NotTo(HaveOccurred())
					Expect(users).To(HaveLen(3))
				})

				It("filters by role", func() {
					users, err := store.GetUsers(ctx, storage.UserFilter{Role: ptr(user.RoleEmployee)})
					Expect(err).NotTo(HaveOccurred())
					Expect(users).To(HaveLen(1))
					Expect(users[0].Username).To(Equal("employee"))
				})

				It("filters by active flag", func() {
					users, err := store.GetUsers(ctx, storage.UserFilter{IsActive: ptr(false)})
					Expect(err).NotTo(HaveOccurred())
					Expect(users).To(HaveLen(1))
					Expect(users[0].Username).To(Equal("applicant"))
				})

				It("combines filters conjunctively", func() {
					users, err := store.GetUsers(ctx, storage.UserFilter{Role: ptr(user.RoleApplicant), IsActive: ptr(true)})
					Expect(err).NotTo(HaveOccurred())
					Expect(users).To(BeEmpty())

					users, err = store.GetUsers(ctx, storage.UserFilter{Role: ptr(user.RoleAdmin), IsActive: ptr(true)})
					Expect(err).NotTo(HaveOccurred())
					Expect(users).To(HaveLen(1))
				})
			})

			Context("updating", func() {
				It("merges partial updates and keeps other fields", func() {
					u := createUser("carol", user.RoleEmployee, true)

					updated, err := store.UpdateUser(ctx, u.ID, storage.UserUpdate{Department: ptr("Engineering")}, nil)
					Expect(err).NotTo(HaveOccurred())
					Expect(updated.Department).To(HaveValue(Equal("Engineering")))
					Expect(updated.Username).To(Equal("carol"))
					Expect(updated.Role).To(Equal(user.RoleEmployee))

					reloaded, err := store.GetUser(ctx, u.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(reloaded.Department).To(HaveValue(Equal("Engineering")))
				})

				It("re-derives the full name when a name part changes", func() {
					u := createUser("dave", user.RoleEmployee, true)

					updated, err := store.UpdateUser(ctx, u.ID, storage.UserUpdate{FirstName: ptr("Dave")}, nil)
					Expect(err).NotTo(HaveOccurred())
					Expect(updated.FullName).To(Equal("Dave Last"))
				})

				It("returns nil for a missing user", func() {
					updated, err := store.UpdateUser(ctx, 4242, storage.UserUpdate{FirstName: ptr("x")}, nil)
					Expect(err).NotTo(HaveOccurred())
					Expect(updated).To(BeNil())
				})

				It("guards super admin protected fields", func() {
					root, err := store.CreateUser(ctx, user.User{
						Username: "root", Email: "root@example.com", Password: "x",
						FirstName: "Root", LastName: "User", Role: user.RoleAdmin, IsActive: true, IsSuperAdmin: true,
					})
					Expect(err).NotTo(HaveOccurred())
					otherRoot, err := store.CreateUser(ctx, user.User{
						Username: "root2", Email: "root2@example.com", Password: "x",
						FirstName: "Root", LastName: "Two", Role: user.RoleAdmin, IsActive: true, IsSuperAdmin: true,
					})
					Expect(err).NotTo(HaveOccurred())
					admin := createUser("plainadmin", user.RoleAdmin, true)

					_, err = store.UpdateUser(ctx, root.ID, storage.UserUpdate{Role: ptr(user.RoleEmployee)}, &admin.ID)
					Expect(err).To(MatchError(storage.ErrPrivilege))

					unchanged, err := store.GetUser(ctx, root.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(unchanged.Role).To(Equal(user.RoleAdmin))

					updated, err := store.UpdateUser(ctx, root.ID, storage.UserUpdate{Role: ptr(user.RoleEmployee)}, &otherRoot.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(updated.Role).To(Equal(user.RoleEmployee))

					persisted, err := store.GetUser(ctx, root.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(persisted.Role).To(Equal(user.RoleEmployee))
				})

				It("lets a regular admin edit unprotected fields of a super admin", func() {
					root, err := store.CreateUser(ctx, user.User{
						Username: "root", Email: "root@example.com", Password: "x",
						FirstName: "Root", LastName: "User", Role: user.RoleAdmin, IsActive: true, IsSuperAdmin: true,
					})
					Expect(err).NotTo(HaveOccurred())
					admin := createUser("plainadmin", user.RoleAdmin, true)

					updated, err := store.UpdateUser(ctx, root.ID, storage.UserUpdate{Department: ptr("Ops")}, &admin.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(updated.Department).To(HaveValue(Equal("Ops")))
				})

				It("stops a regular admin from changing their own role", func() {
					admin := createUser("selfadmin", user.RoleAdmin, true)

					_, err := store.UpdateUser(ctx, admin.ID, storage.UserUpdate{Role: ptr(user.RoleEmployee)}, &admin.ID)
					Expect(err).To(MatchError(storage.ErrPrivilege))

					_, err = store.UpdateUser(ctx, admin.ID, storage.UserUpdate{IsSuperAdmin: ptr(true)}, &admin.ID)
					Expect(err).To(MatchError(storage.ErrPrivilege))
				})
			})
		})

		Describe("categories", func() {
			BeforeEach(func() {
				_, err := store.CreateCategory(ctx, category.Category{Name: "Engineering", Status: category.StatusActive})
				Expect(err).NotTo(HaveOccurred())
				_, err = store.CreateCategory(ctx, category.Category{Name: "Legacy", Status: category.StatusInactive})
				Expect(err).NotTo(HaveOccurred())
			})

			It("defaults the status to active", func() {
				c, err := store.CreateCategory(ctx, category.Category{Name: "Design"})
				Expect(err).NotTo(HaveOccurred())
				Expect(c.Status).To(Equal(category.StatusActive))
				Expect(c.CreatedAt).NotTo(BeZero())
			})

			It("hides inactive categories unless asked", func() {
				active, err := store.GetCategories(ctx, false)
				Expect(err).NotTo(HaveOccurred())
				Expect(active).To(HaveLen(1))
				for _, c := range active {
					Expect(c.Status).NotTo(Equal(category.StatusInactive))
				}

				all, err := store.GetCategories(ctx, true)
				Expect(err).NotTo(HaveOccurred())
				Expect(all).To(HaveLen(2))
			})

			It("deactivates through an update", func() {
				all, err := store.GetCategories(ctx, true)
				Expect(err).NotTo(HaveOccurred())

				updated, err := store.UpdateCategory(ctx, all[0].ID, storage.CategoryUpdate{Status: ptr(category.StatusInactive)})
				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Status).To(Equal(category.StatusInactive))
				Expect(updated.Name).To(Equal(all[0].Name))

				active, err := store.GetCategories(ctx, false)
				Expect(err).NotTo(HaveOccurred())
				Expect(active).To(BeEmpty())
			})

			It("returns nil when updating a missing category", func() {
				updated, err := store.UpdateCategory(ctx, 999, storage.CategoryUpdate{Name: ptr("x")})
				Expect(err).NotTo(HaveOccurred())
				Expect(updated).To(BeNil())
			})
		})

		Describe("jobs", func() {
			var owner *user.User

			newJob := func(title string) job.Job {
				return job.Job{
					Title:            title,
					Department:       "Engineering",
					EmployeeID:       owner.ID,
					ShortDescription: "Build things",
					FullDescription:  "Build many things with Go",
					Requirements:     "Go",
					Type:             job.TypeFullTime,
					Location:         job.LocationRemote,
				}
			}

			BeforeEach(func() {
				owner = createUser("owner", user.RoleEmployee, true)
			})

			It("round-trips a created job", func() {
				input := newJob("Backend Engineer")
				input.City = ptr("Jakarta")
				input.SalaryRange = ptr("10-20")

				created, err := store.CreateJob(ctx, input)
				Expect(err).NotTo(HaveOccurred())
				Expect(created.ID).To(BeNumerically(">", 0))
				Expect(created.PostedDate).NotTo(BeZero())
				Expect(created.Status).To(Equal(job.StatusDraft))

				got, err := store.GetJob(ctx, created.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(got).NotTo(BeNil())
				Expect(got.ID).To(Equal(created.ID))
				Expect(got.Title).To(Equal(input.Title))
				Expect(got.Department).To(Equal(input.Department))
				Expect(got.EmployeeID).To(Equal(input.EmployeeID))
				Expect(got.ShortDescription).To(Equal(input.ShortDescription))
				Expect(got.FullDescription).To(Equal(input.FullDescription))
				Expect(got.Requirements).To(Equal(input.Requirements))
				Expect(got.Type).To(Equal(input.Type))
				Expect(got.Location).To(Equal(input.Location))
				Expect(got.City).To(HaveValue(Equal("Jakarta")))
				Expect(got.SalaryRange).To(HaveValue(Equal("10-20")))
				Expect(got.CategoryID).To(BeNil())
				Expect(got.ExpiryDate).To(BeNil())
				Expect(got.PostedDate).NotTo(BeZero())
			})

			It("returns nil for a missing job", func() {
				got, err := store.GetJob(ctx, 12345)
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(BeNil())
			})

			Context("filtering", func() {
				var cat *category.Category

				BeforeEach(func() {
					var err error
					cat, err = store.CreateCategory(ctx, category.Category{Name: "Engineering"})
					Expect(err).NotTo(HaveOccurred())

					a := newJob("Go Developer")
					a.Status = job.StatusActive
					a.CategoryID = &cat.ID
					a.City = ptr("Bandung")
					a.State = ptr("West Java")
					_, err = store.CreateJob(ctx, a)
					Expect(err).NotTo(HaveOccurred())

					b := newJob("Product Designer")
					b.Department = "Design"
					b.Status = job.StatusPaused
					b.Location = job.LocationOnsite
					b.ShortDescription = "Design products"
					b.FullDescription = "Figma all day"
					b.City = ptr("Surabaya")
					_, err = store.CreateJob(ctx, b)
					Expect(err).NotTo(HaveOccurred())

					c := newJob("Intern")
					c.Type = job.TypeInternship
					c.ShortDescription = "Learn"
					c.FullDescription = "Learn a lot"
					_, err = store.CreateJob(ctx, c)
					Expect(err).NotTo(HaveOccurred())
				})

				It("returns all jobs without filters", func() {
					jobs, err := store.GetJobs(ctx, storage.JobFilter{})
					Expect(err).NotTo(HaveOccurred())
					Expect(jobs).To(HaveLen(3))
				})

				It("filters by status", func() {
					jobs, err := store.GetJobs(ctx, storage.JobFilter{Status: ptr(job.StatusActive)})
					Expect(err).NotTo(HaveOccurred())
					Expect(jobs).To(HaveLen(1))
					Expect(jobs[0].Title).To(Equal("Go Developer"))
				})

				It("filters by category and employee", func() {
					jobs, err := store.GetJobs(ctx, storage.JobFilter{CategoryID: &cat.ID, EmployeeID: &owner.ID})
					Expect(err).NotTo(HaveOccurred())
					Expect(jobs).To(HaveLen(1))

					other := int64(9999)
					jobs, err = store.GetJobs(ctx, storage.JobFilter{EmployeeID: &other})
					Expect(err).NotTo(HaveOccurred())
					Expect(jobs).To(BeEmpty())
				})

				It("searches across text fields case-insensitively", func() {
					jobs, err := store.GetJobs(ctx, storage.JobFilter{Search: ptr("figma")})
					Expect(err).NotTo(HaveOccurred())
					Expect(jobs).To(HaveLen(1))
					Expect(jobs[0].Title).To(Equal("Product Designer"))

					jobs, err = store.GetJobs(ctx, storage.JobFilter{Search: ptr("west")})
					Expect(err).NotTo(HaveOccurred())
					Expect(jobs).To(HaveLen(1))
					Expect(jobs[0].Title).To(Equal("Go Developer"))
				})

				It("matches city and state by substring", func() {
					jobs, err := store.GetJobs(ctx, storage.JobFilter{City: ptr("band")})
					Expect(err).NotTo(HaveOccurred())
					Expect(jobs).To(HaveLen(1))

					jobs, err = store.GetJobs(ctx, storage.JobFilter{State: ptr("JAVA")})
					Expect(err).NotTo(HaveOccurred())
					Expect(jobs).To(HaveLen(1))
				})

				It("filters by department and location", func() {
					jobs, err := store.GetJobs(ctx, storage.JobFilter{Department: ptr("Design")})
					Expect(err).NotTo(HaveOccurred())
					Expect(jobs).To(HaveLen(1))

					jobs, err = store.GetJobs(ctx, storage.JobFilter{Location: ptr(job.LocationRemote)})
					Expect(err).NotTo(HaveOccurred())
					Expect(jobs).To(HaveLen(2))
				})
			})

			It("updates status without touching other fields", func() {
				created, err := store.CreateJob(ctx, newJob("SRE"))
				Expect(err).NotTo(HaveOccurred())

				updated, err := store.UpdateJob(ctx, created.ID, storage.JobUpdate{Status: ptr(job.StatusActive)})
				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Status).To(Equal(job.StatusActive))
				Expect(updated.Title).To(Equal("SRE"))

				missing, err := store.UpdateJob(ctx, 777, storage.JobUpdate{Status: ptr(job.StatusActive)})
				Expect(err).NotTo(HaveOccurred())
				Expect(missing).To(BeNil())
			})

			Describe("tags", func() {
				It("adds and removes tags", func() {
					created, err := store.CreateJob(ctx, newJob("Frontend"))
					Expect(err).NotTo(HaveOccurred())

					_, err = store.AddJobTag(ctx, job.Tag{JobID: created.ID, Tag: "React"})
					Expect(err).NotTo(HaveOccurred())

					tags, err := store.GetJobTags(ctx, created.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(tags).To(HaveLen(1))
					Expect(tags[0].Tag).To(Equal("React"))

					removed, err := store.RemoveJobTag(ctx, created.ID, "React")
					Expect(err).NotTo(HaveOccurred())
					Expect(removed).To(BeTrue())

					tags, err = store.GetJobTags(ctx, created.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(tags).To(BeEmpty())

					removed, err = store.RemoveJobTag(ctx, created.ID, "React")
					Expect(err).NotTo(HaveOccurred())
					Expect(removed).To(BeFalse())
				})

				It("only lists tags of the requested job", func() {
					a, err := store.CreateJob(ctx, newJob("A"))
					Expect(err).NotTo(HaveOccurred())
					b, err := store.CreateJob(ctx, newJob("B"))
					Expect(err).NotTo(HaveOccurred())

					_, err = store.AddJobTag(ctx, job.Tag{JobID: a.ID, Tag: "Go"})
					Expect(err).NotTo(HaveOccurred())
					_, err = store.AddJobTag(ctx, job.Tag{JobID: b.ID, Tag: "Rust"})
					Expect(err).NotTo(HaveOccurred())

					tags, err := store.GetJobTags(ctx, a.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(tags).To(HaveLen(1))
					Expect(tags[0].Tag).To(Equal("Go"))
				})
			})
		})

		Describe("applications", func() {
			var (
				posting   *job.Job
				applicant *user.User
			)

			BeforeEach(func() {
				owner := createUser("hr", user.RoleEmployee, true)
				applicant = createUser("seeker", user.RoleApplicant, true)

				var err error
				posting, err = store.CreateJob(ctx, job.Job{
					Title: "QA", Department: "Quality", EmployeeID: owner.ID,
					ShortDescription: "s", FullDescription: "f", Requirements: "r",
					Type: job.TypeContract, Location: job.LocationHybrid, Status: job.StatusActive,
				})
				Expect(err).NotTo(HaveOccurred())
			})

			It("creates applications with defaults", func() {
				a, err := store.CreateApplication(ctx, application.Application{
					JobID: posting.ID, ApplicantID: &applicant.ID, Name: "Seeker", Email: "seeker@example.com",
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(a.ID).To(BeNumerically(">", 0))
				Expect(a.Status).To(Equal(application.StatusNew))
				Expect(a.AppliedDate).NotTo(BeZero())
				Expect(a.LastUpdated).NotTo(BeZero())
			})

			It("accepts anonymous applications", func() {
				a, err := store.CreateApplication(ctx, application.Application{
					JobID: posting.ID, Name: "Guest", Email: "guest@example.com",
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(a.ApplicantID).To(BeNil())
			})

			It("filters and counts applications", func() {
				_, err := store.CreateApplication(ctx, application.Application{
					JobID: posting.ID, ApplicantID: &applicant.ID, Name: "Seeker", Email: "seeker@example.com",
				})
				Expect(err).NotTo(HaveOccurred())
				_, err = store.CreateApplication(ctx, application.Application{
					JobID: posting.ID, Name: "Guest", Email: "guest@example.com", Status: application.StatusReviewing,
				})
				Expect(err).NotTo(HaveOccurred())

				count, err := store.GetApplicationCount(ctx, posting.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(count).To(Equal(2))

				mine, err := store.GetApplications(ctx, storage.ApplicationFilter{ApplicantID: &applicant.ID})
				Expect(err).NotTo(HaveOccurred())
				Expect(mine).To(HaveLen(1))

				reviewing, err := store.GetApplications(ctx, storage.ApplicationFilter{
					JobID: &posting.ID, Status: ptr(application.StatusReviewing),
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(reviewing).To(HaveLen(1))
				Expect(reviewing[0].Name).To(Equal("Guest"))

				none, err := store.GetApplicationCount(ctx, posting.ID+100)
				Expect(err).NotTo(HaveOccurred())
				Expect(none).To(Equal(0))
			})

			It("bumps lastUpdated on update", func() {
				a, err := store.CreateApplication(ctx, application.Application{
					JobID: posting.ID, Name: "Seeker", Email: "seeker@example.com",
				})
				Expect(err).NotTo(HaveOccurred())

				updated, err := store.UpdateApplication(ctx, a.ID, storage.ApplicationUpdate{
					Status: ptr(application.StatusInterviewed), Notes: ptr("strong candidate"),
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Status).To(Equal(application.StatusInterviewed))
				Expect(updated.Notes).To(HaveValue(Equal("strong candidate")))
				Expect(updated.LastUpdated).To(BeTemporally(">=", a.LastUpdated))
				Expect(updated.Name).To(Equal("Seeker"))

				missing, err := store.UpdateApplication(ctx, 999, storage.ApplicationUpdate{Notes: ptr("x")})
				Expect(err).NotTo(HaveOccurred())
				Expect(missing).To(BeNil())
			})
		})
	})
}
