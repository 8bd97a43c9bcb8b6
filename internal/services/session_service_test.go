package services

import (
	"context"
	"testing"

	"tutorchat-backend/internal/models"
	"tutorchat-backend/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSessionsFiltersByOwner(t *testing.T) {
	fs := newFakeStore()
	svc := NewSessionService(fs)

	owner := uuid.New()
	other := uuid.New()
	_, err := fs.CreateSession(context.Background(), store.CreateSessionParams{ID: uuid.New(), Topic: "Algebra", UserID: &owner})
	require.NoError(t, err)
	_, err = fs.CreateSession(context.Background(), store.CreateSessionParams{ID: uuid.New(), Topic: "History", UserID: &other})
	require.NoError(t, err)
	_, err = fs.CreateSession(context.Background(), store.CreateSessionParams{ID: uuid.New(), Topic: "Anonymous"})
	require.NoError(t, err)

	resp, err := svc.ListSessions(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, resp.Sessions, 1)
	assert.Equal(t, "Algebra", resp.Sessions[0].Topic)
}

func TestGetTranscriptUnknownSession(t *testing.T) {
	svc := NewSessionService(newFakeStore())

	_, err := svc.GetTranscript(context.Background(), uuid.New())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetTranscriptChronological(t *testing.T) {
	fs := newFakeStore()
	svc := NewSessionService(fs)

	sess, err := fs.CreateSession(context.Background(), store.CreateSessionParams{ID: uuid.New(), Topic: "Algebra"})
	require.NoError(t, err)

	for _, m := range []struct{ role, content string }{
		{models.RoleUser, "Solve 2x+3=7"},
		{models.RoleAssistant, "What have you tried?"},
		{models.RoleUser, "x=2?"},
	} {
		_, err := fs.AppendMessage(context.Background(), store.AppendMessageParams{SessionID: sess.ID, Role: m.role, Content: m.content})
		require.NoError(t, err)
	}

	resp, err := svc.GetTranscript(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, resp.SessionID)
	require.Len(t, resp.Messages, 3)
	assert.Equal(t, "Solve 2x+3=7", resp.Messages[0].Content)
	assert.Equal(t, models.RoleAssistant, resp.Messages[1].Role)
	assert.Equal(t, "x=2?", resp.Messages[2].Content)
}
