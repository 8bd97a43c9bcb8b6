package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"tutorchat-backend/internal/llm"
	"tutorchat-backend/internal/models"
	"tutorchat-backend/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory store.Store for orchestrator tests.
type fakeStore struct {
	users    map[string]*models.User
	sessions map[uuid.UUID]*models.Session
	messages map[uuid.UUID][]models.Message
	seq      int64
	clock    time.Time
}

var _ store.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*models.User),
		sessions: make(map[uuid.UUID]*models.Session),
		messages: make(map[uuid.UUID][]models.Message),
		clock:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) error {
	f.users[user.Email] = user
	return nil
}

func (f *fakeStore) CreateSession(_ context.Context, arg store.CreateSessionParams) (*models.Session, error) {
	sess := &models.Session{
		ID:        arg.ID,
		Topic:     arg.Topic,
		UserID:    arg.UserID,
		CreatedAt: f.clock,
		UpdatedAt: f.clock,
	}
	f.sessions[sess.ID] = sess
	return sess, nil
}

func (f *fakeStore) GetSession(_ context.Context, id uuid.UUID) (*models.Session, error) {
	sess, ok := f.sessions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return sess, nil
}

func (f *fakeStore) ListSessionsByUser(_ context.Context, userID uuid.UUID) ([]models.Session, error) {
	sessions := []models.Session{}
	for _, sess := range f.sessions {
		if sess.UserID != nil && *sess.UserID == userID {
			sessions = append(sessions, *sess)
		}
	}
	return sessions, nil
}

func (f *fakeStore) AppendMessage(_ context.Context, arg store.AppendMessageParams) (*models.Message, error) {
	if _, ok := f.sessions[arg.SessionID]; !ok {
		return nil, store.ErrNotFound
	}
	f.seq++
	f.clock = f.clock.Add(time.Second)
	msg := models.Message{
		ID:        uuid.New(),
		SessionID: arg.SessionID,
		Seq:       f.seq,
		Role:      arg.Role,
		Content:   arg.Content,
		CreatedAt: f.clock,
	}
	f.messages[arg.SessionID] = append(f.messages[arg.SessionID], msg)
	return &msg, nil
}

func (f *fakeStore) ListRecentMessages(_ context.Context, sessionID uuid.UUID, limit int) ([]models.Message, error) {
	all := f.messages[sessionID]
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]models.Message, len(all))
	copy(out, all)
	return out, nil
}

func (f *fakeStore) ListMessages(_ context.Context, sessionID uuid.UUID) ([]models.Message, error) {
	all := f.messages[sessionID]
	out := make([]models.Message, len(all))
	copy(out, all)
	return out, nil
}

func (f *fakeStore) totalMessages() int {
	n := 0
	for _, msgs := range f.messages {
		n += len(msgs)
	}
	return n
}

// fakeClient is a canned llm.Client that records the last prompt it was given.
type fakeClient struct {
	reply      string
	err        error
	lastPrompt []llm.Message
	calls      int
}

func (f *fakeClient) Complete(_ context.Context, messages []llm.Message) (string, error) {
	f.calls++
	f.lastPrompt = messages
	return f.reply, f.err
}

func TestHandleTurnRejectsEmptyInput(t *testing.T) {
	fs := newFakeStore()
	fc := &fakeClient{reply: "should not be called"}
	svc := NewTurnService(fs, fc)

	for _, input := range []string{"", "   ", "\n\t "} {
		_, err := svc.HandleTurn(context.Background(), nil, models.TurnRequest{
			Topic:       "Algebra",
			UserMessage: input,
		})
		require.ErrorIs(t, err, ErrEmptyMessage)
	}

	// No side effects of any kind: no session, no message, no model call.
	assert.Empty(t, fs.sessions)
	assert.Zero(t, fs.totalMessages())
	assert.Zero(t, fc.calls)
}

func TestHandleTurnCreatesNewSessionPerCall(t *testing.T) {
	fs := newFakeStore()
	svc := NewTurnService(fs, &fakeClient{reply: "ok"})

	first, err := svc.HandleTurn(context.Background(), nil, models.TurnRequest{UserMessage: "hi"})
	require.NoError(t, err)
	second, err := svc.HandleTurn(context.Background(), nil, models.TurnRequest{UserMessage: "hi again"})
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionID, second.SessionID)
	assert.Len(t, fs.sessions, 2)
}

func TestHandleTurnDefaultsBlankTopic(t *testing.T) {
	fs := newFakeStore()
	svc := NewTurnService(fs, &fakeClient{reply: "ok"})

	resp, err := svc.HandleTurn(context.Background(), nil, models.TurnRequest{
		Topic:       "   ",
		UserMessage: "hello",
	})
	require.NoError(t, err)

	sess := fs.sessions[resp.SessionID]
	require.NotNil(t, sess)
	assert.Equal(t, DefaultTopic, sess.Topic)
}

func TestHandleTurnUnknownSessionFails(t *testing.T) {
	fs := newFakeStore()
	fc := &fakeClient{reply: "ok"}
	svc := NewTurnService(fs, fc)

	missing := uuid.New()
	_, err := svc.HandleTurn(context.Background(), nil, models.TurnRequest{
		SessionID:   &missing,
		UserMessage: "hello?",
	})
	require.ErrorIs(t, err, store.ErrNotFound)

	// Failing the turn must not write anything or call the model.
	assert.Zero(t, fs.totalMessages())
	assert.Zero(t, fc.calls)
}

func TestHandleTurnHistoryWindowBound(t *testing.T) {
	fs := newFakeStore()
	fc := &fakeClient{reply: "windowed"}
	svc := NewTurnService(fs, fc)

	sess, err := fs.CreateSession(context.Background(), store.CreateSessionParams{ID: uuid.New(), Topic: "Algebra"})
	require.NoError(t, err)

	// 14 stored messages before the turn; with the new user message that is 15.
	for i := 0; i < 14; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		_, err := fs.AppendMessage(context.Background(), store.AppendMessageParams{
			SessionID: sess.ID,
			Role:      role,
			Content:   fmt.Sprintf("msg-%d", i),
		})
		require.NoError(t, err)
	}

	_, err = svc.HandleTurn(context.Background(), nil, models.TurnRequest{
		SessionID:   &sess.ID,
		UserMessage: "latest question",
	})
	require.NoError(t, err)

	// Prompt = 2 system segments + exactly HistoryWindow history entries.
	require.Len(t, fc.lastPrompt, 2+HistoryWindow)

	history := fc.lastPrompt[2:]
	// The window is the most recent slice, ascending: it starts past the
	// oldest messages and ends with the user message of this turn.
	assert.Equal(t, "msg-3", history[0].Content)
	assert.Equal(t, "latest question", history[len(history)-1].Content)
	assert.Equal(t, llm.RoleUser, history[len(history)-1].Role)
}

func TestHandleTurnFallbackOnEmptyCompletion(t *testing.T) {
	fs := newFakeStore()
	svc := NewTurnService(fs, &fakeClient{reply: "  \n"})

	resp, err := svc.HandleTurn(context.Background(), nil, models.TurnRequest{UserMessage: "hard one"})
	require.NoError(t, err)
	assert.Equal(t, FallbackAssistantText, resp.Assistant)

	msgs := fs.messages[resp.SessionID]
	require.Len(t, msgs, 2)
	assert.Equal(t, FallbackAssistantText, msgs[1].Content)
}

func TestHandleTurnCompletionFailureKeepsUserMessage(t *testing.T) {
	fs := newFakeStore()
	svc := NewTurnService(fs, &fakeClient{err: errors.New("upstream timeout")})

	_, err := svc.HandleTurn(context.Background(), nil, models.TurnRequest{UserMessage: "hello"})
	require.ErrorIs(t, err, ErrCompletionFailed)

	// Partial-turn state: the user message stays durable, no assistant reply.
	require.Len(t, fs.sessions, 1)
	for id := range fs.sessions {
		msgs := fs.messages[id]
		require.Len(t, msgs, 1)
		assert.Equal(t, models.RoleUser, msgs[0].Role)
		assert.Equal(t, "hello", msgs[0].Content)
	}
}

func TestHandleTurnPersistenceOrdering(t *testing.T) {
	fs := newFakeStore()
	svc := NewTurnService(fs, &fakeClient{reply: "first answer"})

	resp, err := svc.HandleTurn(context.Background(), nil, models.TurnRequest{UserMessage: "q1"})
	require.NoError(t, err)

	resp2, err := svc.HandleTurn(context.Background(), nil, models.TurnRequest{
		SessionID:   &resp.SessionID,
		UserMessage: "q2",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.SessionID, resp2.SessionID)

	msgs := fs.messages[resp.SessionID]
	require.Len(t, msgs, 4)
	// Each successful turn ends with exactly one user message immediately
	// followed by one assistant message.
	assert.Equal(t, models.RoleUser, msgs[2].Role)
	assert.Equal(t, "q2", msgs[2].Content)
	assert.Equal(t, models.RoleAssistant, msgs[3].Role)
	assert.True(t, msgs[3].CreatedAt.After(msgs[2].CreatedAt))
}

func TestHandleTurnExistingSessionKeepsTopic(t *testing.T) {
	fs := newFakeStore()
	fc := &fakeClient{reply: "ok"}
	svc := NewTurnService(fs, fc)

	sess, err := fs.CreateSession(context.Background(), store.CreateSessionParams{ID: uuid.New(), Topic: "Geometry"})
	require.NoError(t, err)

	_, err = svc.HandleTurn(context.Background(), nil, models.TurnRequest{
		SessionID:   &sess.ID,
		Topic:       "Algebra",
		UserMessage: "what about triangles?",
	})
	require.NoError(t, err)

	// The request topic is ignored for existing sessions, in storage and in
	// the composed prompt alike.
	assert.Equal(t, "Geometry", fs.sessions[sess.ID].Topic)
	assert.Contains(t, fc.lastPrompt[1].Content, "Topic: Geometry.")
}

func TestHandleTurnStampsOwnerOnNewSession(t *testing.T) {
	fs := newFakeStore()
	svc := NewTurnService(fs, &fakeClient{reply: "ok"})

	userID := uuid.New()
	resp, err := svc.HandleTurn(context.Background(), &userID, models.TurnRequest{UserMessage: "hi"})
	require.NoError(t, err)

	sess := fs.sessions[resp.SessionID]
	require.NotNil(t, sess.UserID)
	assert.Equal(t, userID, *sess.UserID)
}

func TestHandleTurnEndToEndHint1(t *testing.T) {
	fs := newFakeStore()
	fc := &fakeClient{reply: "Think about inverse operations."}
	svc := NewTurnService(fs, fc)

	resp, err := svc.HandleTurn(context.Background(), nil, models.TurnRequest{
		Topic:       "Algebra",
		UserMessage: "Solve 2x+3=7",
		Mode:        "hint1",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, resp.SessionID)
	assert.Equal(t, "Think about inverse operations.", resp.Assistant)

	msgs := fs.messages[resp.SessionID]
	require.NotEmpty(t, msgs)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, "Solve 2x+3=7", msgs[0].Content)

	require.GreaterOrEqual(t, len(fc.lastPrompt), 2)
	assert.Equal(t, llm.RoleSystem, fc.lastPrompt[1].Role)
	assert.Equal(t, "Topic: Algebra. Give ONLY Hint 1.", fc.lastPrompt[1].Content)
}
