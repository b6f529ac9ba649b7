package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"support-assistant/internal/chat"
	"support-assistant/internal/contextutil"
	"support-assistant/internal/links"
)

// ChatHandler handles HTTP requests for conversation turns.
type ChatHandler struct {
	engine chat.Engine
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(engine chat.Engine) *ChatHandler {
	return &ChatHandler{engine: engine}
}

// ChatRequest represents the HTTP request payload for a turn.
type ChatRequest struct {
	UserQuery string `json:"user_query"`
	SessionID string `json:"session_id,omitempty"`
	Intent    string `json:"intent,omitempty"`
}

// ChatResponse represents the HTTP response payload for a turn.
type ChatResponse struct {
	Response     string       `json:"response"`
	Links        []links.Link `json:"links,omitempty"`
	Options      []string     `json:"options,omitempty"`
	SessionID    string       `json:"session_id"`
	ModeSelected string       `json:"mode_selected,omitempty"`
	NextAction   string       `json:"next_action,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error    string `json:"error"`
	Received string `json:"received,omitempty"`
}

// ServeHTTP handles HTTP requests for conversation turns.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.WarnContext(ctx, "failed to read request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Failed to read request body", "")
		return
	}

	var req ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		// The raw body is echoed back so misconfigured clients can see what
		// the server actually received.
		logger.WarnContext(ctx, "invalid request body", "error", err)
		h.writeError(w, http.StatusUnprocessableEntity, "Invalid request body", string(body))
		return
	}

	turn := h.engine.HandleTurn(ctx, chat.TurnRequest{
		SessionID: req.SessionID,
		Query:     req.UserQuery,
		Intent:    chat.ParseIntent(req.Intent),
	})

	resp := ChatResponse{
		Response:     turn.Response,
		Links:        turn.Links,
		Options:      turn.Options,
		SessionID:    turn.SessionID,
		ModeSelected: turn.ModeSelected,
		NextAction:   turn.NextAction,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func (h *ChatHandler) writeError(w http.ResponseWriter, statusCode int, message, received string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message, Received: received})
}
