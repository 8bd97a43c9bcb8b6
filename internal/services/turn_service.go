package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"tutorchat-backend/internal/llm"
	"tutorchat-backend/internal/models"
	"tutorchat-backend/internal/prompt"
	"tutorchat-backend/internal/store"

	"github.com/google/uuid"
)

// Custom errors for the turn service
var (
	// ErrEmptyMessage rejects a blank user message before any side effect.
	ErrEmptyMessage = errors.New("empty user message")
	// ErrCompletionFailed wraps failures of the external completion call. The
	// user message written before the call stays persisted; a retry on the same
	// session continues from correct history.
	ErrCompletionFailed = errors.New("completion failed")
)

const (
	// HistoryWindow bounds the conversation context replayed to the model.
	// Older history stays stored but is not sent.
	HistoryWindow = 12

	// FallbackAssistantText is stored and returned when the model call
	// succeeds but yields no usable content.
	FallbackAssistantText = "I'm not sure. Try again."

	// DefaultTopic labels sessions created without a topic.
	DefaultTopic = "General"
)

// TurnService orchestrates one conversation turn: session resolution, user
// message persistence, bounded history, prompt assembly, a single completion
// call, assistant message persistence.
//
// Steps are durable in order but not transactional: a completion failure
// leaves the user message stored with no assistant reply. Concurrent turns on
// the same session are not serialized; their writes may interleave.
type TurnService struct {
	store  store.Store
	client llm.Client
}

// NewTurnService creates a new TurnService. The completion client is injected
// so tests can substitute a fake.
func NewTurnService(s store.Store, client llm.Client) *TurnService {
	return &TurnService{
		store:  s,
		client: client,
	}
}

// HandleTurn processes one turn and returns the session id and assistant text.
// userID is non-nil when the caller presented a valid token; it only stamps
// ownership on newly created sessions.
func (s *TurnService) HandleTurn(ctx context.Context, userID *uuid.UUID, req models.TurnRequest) (*models.TurnResponse, error) {
	userMessage := strings.TrimSpace(req.UserMessage)
	if userMessage == "" {
		return nil, ErrEmptyMessage
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		topic = DefaultTopic
	}
	mode := prompt.ParseMode(req.Mode)

	// Resolve or create the session. An unresolvable id fails the turn rather
	// than silently starting a new conversation.
	var sess *models.Session
	var err error
	if req.SessionID != nil {
		sess, err = s.store.GetSession(ctx, *req.SessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve session %s: %w", *req.SessionID, err)
		}
	} else {
		sess, err = s.store.CreateSession(ctx, store.CreateSessionParams{
			ID:     uuid.New(),
			Topic:  topic,
			UserID: userID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
	}

	if _, err := s.store.AppendMessage(ctx, store.AppendMessageParams{
		SessionID: sess.ID,
		Role:      models.RoleUser,
		Content:   userMessage,
	}); err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}

	// The window includes the user message just written.
	recent, err := s.store.ListRecentMessages(ctx, sess.ID, HistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load history window: %w", err)
	}

	history := make([]llm.Message, 0, len(recent))
	for _, m := range recent {
		history = append(history, llm.Message{Role: m.Role, Content: m.Content})
	}

	messages := prompt.Compose(sess.Topic, mode, history)

	assistant, err := s.client.Complete(ctx, messages)
	if err != nil {
		log.Printf("Completion call failed for session %s: %v", sess.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}
	if strings.TrimSpace(assistant) == "" {
		assistant = FallbackAssistantText
	}

	if _, err := s.store.AppendMessage(ctx, store.AppendMessageParams{
		SessionID: sess.ID,
		Role:      models.RoleAssistant,
		Content:   assistant,
	}); err != nil {
		return nil, fmt.Errorf("failed to store assistant message: %w", err)
	}

	return &models.TurnResponse{
		SessionID: sess.ID,
		Assistant: assistant,
	}, nil
}
