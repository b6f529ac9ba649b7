package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"support-assistant/internal/contextutil"
	"support-assistant/internal/indexer"
)

// ReindexHandler handles HTTP requests for triggering re-indexing of the
// documentation libraries.
type ReindexHandler struct {
	pipeline *indexer.Pipeline
}

// NewReindexHandler creates a new ReindexHandler.
func NewReindexHandler(pipeline *indexer.Pipeline) *ReindexHandler {
	return &ReindexHandler{pipeline: pipeline}
}

// ReindexResponse represents the response from the reindex endpoint.
type ReindexResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ServeHTTP handles HTTP requests for triggering re-indexing. The run happens
// in the background; unchanged files are skipped by content hash.
func (h *ReindexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "Method not allowed"})
		return
	}

	logger.InfoContext(ctx, "re-indexing triggered via API")

	// Background context so indexing survives the HTTP request.
	go func() {
		indexCtx := context.Background()
		if err := h.pipeline.IndexAll(indexCtx); err != nil {
			logger.ErrorContext(indexCtx, "re-indexing completed with errors", "error", err)
		} else {
			logger.InfoContext(indexCtx, "re-indexing completed successfully")
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(ReindexResponse{
		Message: "Indexing started. Check server logs for progress.",
		Status:  "accepted",
	})
}
