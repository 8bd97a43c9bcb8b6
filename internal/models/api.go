package models

import (
	"time"

	"github.com/google/uuid"
)

// --- Request Structs ---

// TurnRequest defines the body of the POST /v1/chat turn endpoint.
// SessionID is optional: absent means "start a new session with Topic".
// Mode selects the guidance ladder; unrecognized or absent values fall back to
// normal tutoring.
type TurnRequest struct {
	SessionID   *uuid.UUID `json:"sessionId,omitempty"`
	Topic       string     `json:"topic"`
	UserMessage string     `json:"userMessage"`
	Mode        string     `json:"mode,omitempty"`
}

// SignupRequest defines the expected body for the signup endpoint.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest defines the expected body for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- Response Structs ---

// TurnResponse defines the body returned by a successful turn.
type TurnResponse struct {
	SessionID uuid.UUID `json:"sessionId"`
	Assistant string    `json:"assistant"`
}

// UserResponse defines the user information returned by the API.
// Avoid returning sensitive info like HashedPassword.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// AuthResponse defines the response body for successful authentication.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// SessionResponse defines the session information returned by the API.
type SessionResponse struct {
	ID        uuid.UUID `json:"id"`
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListSessionsResponse wraps the session list endpoint payload.
type ListSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

// MessageResponse defines one transcript entry returned by the API.
type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ListMessagesResponse wraps the transcript endpoint payload.
type ListMessagesResponse struct {
	SessionID uuid.UUID         `json:"session_id"`
	Messages  []MessageResponse `json:"messages"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
