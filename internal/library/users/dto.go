package users

import "time"

// ===== Requests =====

type CreateUserRequest struct {
	Username string  `json:"username" binding:"required" validate:"required"`
	Email    string  `json:"email" binding:"required" validate:"required,email"`
	Name     *string `json:"name,omitempty"`
	Password string  `json:"password" binding:"required" validate:"required,min=4"`
}

// UpdateUserRequest restricts mutable fields to name and email; username is
// immutable after creation and there is no rename operation.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ===== Responses =====

type UserResponse struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	MemberSince time.Time `json:"member_since"`
	Role        string    `json:"role"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
