package api

import (
	"github.com/google/uuid"
)

// Common request/response structures

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// AuthResponse defines the successful response for the login and register
// endpoints. Field names follow the established wire contract.
type AuthResponse struct {
	// Message is set on registration ("User created successfully").
	Message string `json:"message,omitempty"`

	// Access is the JWT access token used for API authorization.
	Access string `json:"access"`

	// Refresh is the JWT refresh token used to obtain new access tokens.
	Refresh string `json:"refresh"`

	// UserID is the unique identifier for the authenticated user.
	UserID uuid.UUID `json:"user_id"`

	// Username echoes the authenticated user's name for display.
	Username string `json:"username"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint.
type RefreshTokenResponse struct {
	Access string `json:"access"`
}

// TaskRequest defines the payload for task create and edit endpoints.
// Status accepts any casing and spaces ("In progress"); it is normalized
// server-side before validation against the status enum. An empty status
// defaults to NEW.
type TaskRequest struct {
	Name         string     `json:"name"          validate:"required,max=100"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	AssignedUser *uuid.UUID `json:"assigned_user"`
}
