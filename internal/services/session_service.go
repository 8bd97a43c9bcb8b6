package services

import (
	"context"
	"fmt"

	"tutorchat-backend/internal/models"
	"tutorchat-backend/internal/store"

	"github.com/google/uuid"
)

// SessionService handles session browsing: listing a user's sessions and
// fetching a session transcript.
type SessionService struct {
	store store.Store
}

// NewSessionService creates a new SessionService.
func NewSessionService(s store.Store) *SessionService {
	return &SessionService{store: s}
}

// ListSessions returns the caller's sessions, most recently active first.
func (s *SessionService) ListSessions(ctx context.Context, userID uuid.UUID) (*models.ListSessionsResponse, error) {
	sessions, err := s.store.ListSessionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions from store: %w", err)
	}

	resp := &models.ListSessionsResponse{Sessions: make([]models.SessionResponse, 0, len(sessions))}
	for _, sess := range sessions {
		resp.Sessions = append(resp.Sessions, models.SessionResponse{
			ID:        sess.ID,
			Topic:     sess.Topic,
			CreatedAt: sess.CreatedAt,
			UpdatedAt: sess.UpdatedAt,
		})
	}

	return resp, nil
}

// GetTranscript returns the full stored message list of a session in
// chronological order. Returns store.ErrNotFound for an unknown session.
func (s *SessionService) GetTranscript(ctx context.Context, sessionID uuid.UUID) (*models.ListMessagesResponse, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}

	messages, err := s.store.ListMessages(ctx, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages from store: %w", err)
	}

	resp := &models.ListMessagesResponse{
		SessionID: sess.ID,
		Messages:  make([]models.MessageResponse, 0, len(messages)),
	}
	for _, msg := range messages {
		resp.Messages = append(resp.Messages, models.MessageResponse{
			ID:        msg.ID,
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		})
	}

	return resp, nil
}
