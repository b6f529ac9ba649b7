package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"support-assistant/internal/chat"
	"support-assistant/internal/handlers"
	"support-assistant/internal/indexer"
	"support-assistant/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine          chat.Engine
	IndexerPipeline *indexer.Pipeline
	VectorStore     vectorstore.VectorStore
	CollectionName  string
	IndexHTML       string // Embedded HTML content for the chat page
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	chatHandler := handlers.NewChatHandler(deps.Engine)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.CollectionName)
	reindexHandler := handlers.NewReindexHandler(deps.IndexerPipeline)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Method(http.MethodPost, "/reindex", reindexHandler)
	})

	// Serve the chat page at root
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(deps.IndexHTML))
	})

	return r
}
