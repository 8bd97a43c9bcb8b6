package models

import (
	"time"

	"github.com/google/uuid"
)

// Message roles persisted in the messages table. The "system" role exists only
// inside composed prompts and is never stored.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// User represents a user in the database.
type User struct {
	ID             uuid.UUID `db:"id"`
	Email          string    `db:"email"`
	HashedPassword string    `db:"hashed_password"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Session represents one tutoring conversation in the database.
// UserID is nil for anonymous sessions; the session id itself is the capability
// the browser client replays on later turns.
type Session struct {
	ID        uuid.UUID  `db:"id"`
	Topic     string     `db:"topic"`
	UserID    *uuid.UUID `db:"user_id"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// Message represents a single stored utterance of a session.
// Ordering within a session is (created_at, seq); seq breaks created_at ties
// with insertion order so reads are stable.
type Message struct {
	ID        uuid.UUID `db:"id"`
	SessionID uuid.UUID `db:"session_id"`
	Seq       int64     `db:"seq"`
	Role      string    `db:"role"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}
