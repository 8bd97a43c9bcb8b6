package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	db_models "tutorchat-backend/internal/models"
	"tutorchat-backend/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// foreignKeyViolation is the PostgreSQL error code raised when a message
// references a session that does not exist.
const foreignKeyViolation = "23503"

const createSession = `-- name: CreateSession :one
INSERT INTO sessions (id, topic, user_id)
VALUES ($1, $2, $3)
RETURNING id, topic, user_id, created_at, updated_at;
`

func (s *PostgresStore) CreateSession(ctx context.Context, arg store.CreateSessionParams) (*db_models.Session, error) {
	row := s.db.QueryRow(ctx, createSession,
		arg.ID,
		arg.Topic,
		arg.UserID, // pgx handles *uuid.UUID to NULL automatically
	)

	var sess db_models.Session
	err := row.Scan(
		&sess.ID,
		&sess.Topic,
		&sess.UserID,
		&sess.CreatedAt,
		&sess.UpdatedAt,
	)
	if err != nil {
		log.Printf("ERROR [PostgresStore] CreateSession: failed to insert session %s: %v", arg.ID, err)
		return nil, fmt.Errorf("database error creating session: %w", err)
	}

	return &sess, nil
}

const getSession = `-- name: GetSession :one
SELECT id, topic, user_id, created_at, updated_at
FROM sessions
WHERE id = $1;
`

// GetSession retrieves a session by id.
// Returns store.ErrNotFound if the session does not exist.
func (s *PostgresStore) GetSession(ctx context.Context, id uuid.UUID) (*db_models.Session, error) {
	row := s.db.QueryRow(ctx, getSession, id)

	var sess db_models.Session
	err := row.Scan(
		&sess.ID,
		&sess.Topic,
		&sess.UserID,
		&sess.CreatedAt,
		&sess.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] GetSession: failed to query session %s: %v", id, err)
		return nil, fmt.Errorf("database error fetching session: %w", err)
	}

	return &sess, nil
}

const listSessionsByUser = `-- name: ListSessionsByUser :many
SELECT id, topic, user_id, created_at, updated_at
FROM sessions
WHERE user_id = $1
ORDER BY updated_at DESC;
`

func (s *PostgresStore) ListSessionsByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Session, error) {
	rows, err := s.db.Query(ctx, listSessionsByUser, userID)
	if err != nil {
		log.Printf("ERROR [PostgresStore] ListSessionsByUser: query failed for user %s: %v", userID, err)
		return nil, fmt.Errorf("database error listing sessions: %w", err)
	}
	defer rows.Close()

	sessions := []db_models.Session{}
	for rows.Next() {
		var sess db_models.Session
		if err := rows.Scan(
			&sess.ID,
			&sess.Topic,
			&sess.UserID,
			&sess.CreatedAt,
			&sess.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("database error scanning session row: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error iterating session rows: %w", err)
	}

	return sessions, nil
}

const appendMessage = `-- name: AppendMessage :one
INSERT INTO messages (id, session_id, role, content)
VALUES ($1, $2, $3, $4)
RETURNING id, session_id, seq, role, content, created_at;
`

const touchSession = `-- name: TouchSession :exec
UPDATE sessions SET updated_at = NOW() WHERE id = $1;
`

// AppendMessage persists one utterance at the end of a session.
// The database assigns created_at and the seq tie-breaker.
// Returns store.ErrNotFound if the session does not exist.
func (s *PostgresStore) AppendMessage(ctx context.Context, arg store.AppendMessageParams) (*db_models.Message, error) {
	row := s.db.QueryRow(ctx, appendMessage,
		uuid.New(),
		arg.SessionID,
		arg.Role,
		arg.Content,
	)

	var msg db_models.Message
	err := row.Scan(
		&msg.ID,
		&msg.SessionID,
		&msg.Seq,
		&msg.Role,
		&msg.Content,
		&msg.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] AppendMessage: failed to insert %s message for session %s: %v", arg.Role, arg.SessionID, err)
		return nil, fmt.Errorf("database error appending message: %w", err)
	}

	if _, err := s.db.Exec(ctx, touchSession, arg.SessionID); err != nil {
		// Non-fatal: the message is durable, only the ordering hint is stale.
		log.Printf("WARN [PostgresStore] AppendMessage: failed to touch session %s: %v", arg.SessionID, err)
	}

	return &msg, nil
}

const listRecentMessages = `-- name: ListRecentMessages :many
SELECT id, session_id, seq, role, content, created_at FROM (
	SELECT id, session_id, seq, role, content, created_at
	FROM messages
	WHERE session_id = $1
	ORDER BY created_at DESC, seq DESC
	LIMIT $2
) recent
ORDER BY created_at ASC, seq ASC;
`

// ListRecentMessages returns the `limit` most recent messages of a session in
// ascending order. The inner query selects the window from the tail; the outer
// query restores chronological order for prompt replay.
func (s *PostgresStore) ListRecentMessages(ctx context.Context, sessionID uuid.UUID, limit int) ([]db_models.Message, error) {
	rows, err := s.db.Query(ctx, listRecentMessages, sessionID, limit)
	if err != nil {
		log.Printf("ERROR [PostgresStore] ListRecentMessages: query failed for session %s: %v", sessionID, err)
		return nil, fmt.Errorf("database error listing recent messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

const listMessages = `-- name: ListMessages :many
SELECT id, session_id, seq, role, content, created_at
FROM messages
WHERE session_id = $1
ORDER BY created_at ASC, seq ASC;
`

func (s *PostgresStore) ListMessages(ctx context.Context, sessionID uuid.UUID) ([]db_models.Message, error) {
	rows, err := s.db.Query(ctx, listMessages, sessionID)
	if err != nil {
		log.Printf("ERROR [PostgresStore] ListMessages: query failed for session %s: %v", sessionID, err)
		return nil, fmt.Errorf("database error listing messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

func scanMessages(rows pgx.Rows) ([]db_models.Message, error) {
	messages := []db_models.Message{}
	for rows.Next() {
		var msg db_models.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.SessionID,
			&msg.Seq,
			&msg.Role,
			&msg.Content,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("database error scanning message row: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error iterating message rows: %w", err)
	}

	return messages, nil
}
