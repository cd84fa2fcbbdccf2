package models

// Typed form inputs for the server-rendered pages. Each handler parses the
// request body into one of these and validates it with go-playground/validator
// before handing it to a service.

// RegisterForm carries a new account submission.
type RegisterForm struct {
	Username        string `form:"username" validate:"required,min=2,max=20"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

// LoginForm carries a login submission.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Remember bool   `form:"remember"`
}

// AccountForm carries a profile edit. The optional picture upload travels
// separately as a multipart file, not as a struct field.
type AccountForm struct {
	Username string `form:"username" validate:"required,min=2,max=20"`
	Email    string `form:"email" validate:"required,email"`
}

// PostForm carries a post create or update submission.
type PostForm struct {
	Title   string `form:"title" validate:"required,max=100"`
	Content string `form:"content" validate:"required"`
}
