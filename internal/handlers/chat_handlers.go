package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"tutorchat-backend/internal/auth"
	"tutorchat-backend/internal/models"
	"tutorchat-backend/internal/services"
	"tutorchat-backend/internal/store"
	"tutorchat-backend/pkg/httputil"

	"github.com/google/uuid"
)

// TurnService defines the interface expected from the turn orchestrator.
// This promotes loose coupling and testability.
type TurnService interface {
	HandleTurn(ctx context.Context, userID *uuid.UUID, req models.TurnRequest) (*models.TurnResponse, error)
}

// ChatHandlers handles the turn endpoint.
type ChatHandlers struct {
	turnService TurnService
	jwtSecret   string
}

// NewChatHandlers creates a new ChatHandlers instance.
func NewChatHandlers(turnSvc TurnService, jwtSecret string) *ChatHandlers {
	return &ChatHandlers{
		turnService: turnSvc,
		jwtSecret:   jwtSecret,
	}
}

// HandleTurn handles POST /v1/chat: one full conversation turn.
// The endpoint is public; a valid Bearer token is honored but not required
// (it stamps ownership on sessions created by this turn).
func (h *ChatHandlers) HandleTurn(w http.ResponseWriter, r *http.Request) {
	var req models.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	defer r.Body.Close()

	userID := optionalUserID(r, h.jwtSecret)

	resp, err := h.turnService.HandleTurn(r.Context(), userID, req)
	if err != nil {
		// Error Mapping: Map service errors to HTTP status codes
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			httputil.RespondError(w, http.StatusBadRequest, "Empty message") // 400
		case errors.Is(err, store.ErrNotFound):
			httputil.RespondError(w, http.StatusNotFound, "Session not found") // 404
		case errors.Is(err, services.ErrCompletionFailed):
			log.Printf("Turn handler: completion failure: %v", err)
			httputil.RespondError(w, http.StatusBadGateway, "Completion service unavailable") // 502
		default:
			log.Printf("Turn handler: internal error: %v", err)
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to process message") // 500
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// optionalUserID extracts the user id from a Bearer token when one is present
// and valid. Missing or invalid tokens are treated as anonymous, not as an
// error; this endpoint works without an account.
func optionalUserID(r *http.Request, jwtSecret string) *uuid.UUID {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil
	}
	claims, err := auth.ParseAccessToken(parts[1], jwtSecret)
	if err != nil {
		return nil
	}
	userID := claims.UserID
	return &userID
}
