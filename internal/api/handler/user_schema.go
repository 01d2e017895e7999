package handler

type createUserRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email,max=100"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"omitempty,oneof=User Admin"`
}

// updateUserRequest replaces username, email and role. Password is optional.
type updateUserRequest struct {
	ID       int64  `json:"id"       validate:"required,gt=0"`
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email,max=100"`
	Password string `json:"password"`
	Role     string `json:"role"     validate:"required,oneof=User Admin"`
}
