package store

import (
	"context"
	"errors"

	db_models "tutorchat-backend/internal/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// CreateSessionParams contains parameters for creating a session.
// UserID is nil for anonymous sessions.
type CreateSessionParams struct {
	ID     uuid.UUID
	Topic  string
	UserID *uuid.UUID
}

// AppendMessageParams contains parameters for appending a message to a session.
// CreatedAt and Seq are assigned by the store.
type AppendMessageParams struct {
	SessionID uuid.UUID
	Role      string
	Content   string
}

// Store defines the interface for database operations.
// This allows for mocking in tests and potential DB backend switching.
type Store interface {
	// User operations
	GetUserByEmail(ctx context.Context, email string) (*db_models.User, error)
	CreateUser(ctx context.Context, user *db_models.User) error

	// Session operations
	CreateSession(ctx context.Context, arg CreateSessionParams) (*db_models.Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*db_models.Session, error)
	ListSessionsByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Session, error)

	// Message operations
	AppendMessage(ctx context.Context, arg AppendMessageParams) (*db_models.Message, error)
	// ListRecentMessages returns the `limit` most recent messages of a session,
	// ordered ascending by (created_at, seq). This is the conversation window
	// replayed to the completion service.
	ListRecentMessages(ctx context.Context, sessionID uuid.UUID, limit int) ([]db_models.Message, error)
	// ListMessages returns the full transcript of a session, ascending.
	ListMessages(ctx context.Context, sessionID uuid.UUID) ([]db_models.Message, error)
}
