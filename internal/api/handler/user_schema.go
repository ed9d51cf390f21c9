package handler

import (
	"github.com/taskmanager/task-manager-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type createUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Age      *int   `json:"age"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// updateUserRequest lists the only fields a profile update may touch.
// Unknown keys are rejected while decoding.
type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Age      *int    `json:"age"`
}

type createTaskRequest struct {
	Description string `json:"description" validate:"required"`
	Completed   bool   `json:"completed"`
}

// authResponse pairs the safe user projection with a freshly issued token.
// Token is empty when signup stored the account but could not issue one.
type authResponse struct {
	User  domain.PublicUser `json:"user"`
	Token string            `json:"token,omitempty"`
}
