package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"tutorchat-backend/internal/auth"
	"tutorchat-backend/internal/models"
	"tutorchat-backend/internal/store"
	"tutorchat-backend/pkg/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// SessionService defines the interface expected from the session service.
type SessionService interface {
	ListSessions(ctx context.Context, userID uuid.UUID) (*models.ListSessionsResponse, error)
	GetTranscript(ctx context.Context, sessionID uuid.UUID) (*models.ListMessagesResponse, error)
}

// SessionHandlers handles session browsing endpoints.
type SessionHandlers struct {
	sessionService SessionService
}

// NewSessionHandlers creates a new SessionHandlers instance.
func NewSessionHandlers(sessionSvc SessionService) *SessionHandlers {
	return &SessionHandlers{sessionService: sessionSvc}
}

// HandleListSessions handles GET /v1/sessions (JWT required): the caller's
// sessions, most recently active first.
func (h *SessionHandlers) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	resp, err := h.sessionService.ListSessions(r.Context(), userID)
	if err != nil {
		log.Printf("List sessions handler failed for user %s: %v", userID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleGetSessionMessages handles GET /v1/sessions/{sessionID}/messages.
// Public: the opaque session id is the capability the browser client holds.
func (h *SessionHandlers) HandleGetSessionMessages(w http.ResponseWriter, r *http.Request) {
	sessionIDStr := chi.URLParam(r, "sessionID")
	sessionID, err := uuid.Parse(sessionIDStr)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	resp, err := h.sessionService.GetTranscript(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Session not found")
			return
		}
		log.Printf("Get session messages handler failed for session %s: %v", sessionID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to get session messages")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}
