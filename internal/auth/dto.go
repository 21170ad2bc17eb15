package auth

// LoginDTO accepts either a username or an email in Username.
type LoginDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterDTO is the self-service applicant sign-up request.
type RegisterDTO struct {
	Username      string  `json:"username" validate:"required,min=3,max=50"`
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password" validate:"required,min=8,max=72"`
	FirstName     string  `json:"firstName" validate:"required,max=100"`
	LastName      string  `json:"lastName" validate:"required,max=100"`
	MiddleName    *string `json:"middleName,omitempty" validate:"omitempty,max=100"`
	PreferredName *string `json:"preferredName,omitempty" validate:"omitempty,max=100"`
}
