package dto

import "github.com/hongminglow/auth-smoke/internal/models"

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=50,personname"`
	Nick     string `json:"nick" validate:"required,min=3,max=20,nick"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strongpassword"`
	Gang     string `json:"gang" validate:"required,oneof=potatoes tomatoes"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,min=2"`
	Password   string `json:"password" validate:"required,strongpassword"`
}

type AnonymousRequest struct {
	Nick string `json:"nick" validate:"required,min=3,max=20,nick"`
}

type LoginResponse struct {
	Token string            `json:"token" validate:"required"`
	User  models.UserRecord `json:"user" validate:"required"`
}

type ProfileResponse struct {
	User models.UserRecord `json:"user" validate:"required"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string        `json:"error"`
	Details []FieldDetail `json:"details,omitempty"`
}

type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
