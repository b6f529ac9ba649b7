package main

import (
	"context"
	_ "embed"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"support-assistant/internal/chat"
	"support-assistant/internal/config"
	"support-assistant/internal/docs"
	"support-assistant/internal/http"
	"support-assistant/internal/indexer"
	"support-assistant/internal/links"
	"support-assistant/internal/llm"
	"support-assistant/internal/retrieval"
	"support-assistant/internal/search"
	"support-assistant/internal/session"
	"support-assistant/internal/storage"
	"support-assistant/internal/ticketing"
	"support-assistant/internal/vectorstore"
)

//go:embed index.html
var indexHTML string

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	employeeRepo := storage.NewEmployeeRepo(db)
	documentRepo := storage.NewDocumentRepo(db)
	chunkRepo := storage.NewChunkRepo(db)

	ctx := context.Background()

	// Seed the employee directory used for identity verification
	if cfg.EmployeeDataPath != "" {
		count, err := employeeRepo.SeedFromJSON(ctx, cfg.EmployeeDataPath)
		if err != nil {
			slog.Warn("Failed to seed employee directory", "path", cfg.EmployeeDataPath, "error", err)
		} else {
			slog.Info("Employee directory seeded", "path", cfg.EmployeeDataPath, "count", count)
		}
	}

	// Documentation libraries for both departments
	library, err := docs.NewLibrary(cfg.DocsITPath, cfg.DocsHRPath)
	if err != nil {
		log.Fatalf("Failed to initialize documentation library: %v", err)
	}
	slog.Info("Documentation library initialized", "it", cfg.DocsITPath, "hr", cfg.DocsHRPath)

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Ensure collection exists with correct vector size
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.EmbeddingVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.EmbeddingVectorSize)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingVectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.EmbeddingVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.EmbeddingVectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.EmbeddingVectorSize)

	// Create indexing pipeline
	pipeline := indexer.NewPipeline(
		library,
		documentRepo,
		chunkRepo,
		embedder,
		vectorStore,
		cfg.QdrantCollection,
		cfg.ForceReindex,
	)

	// LLM gateway over the chat-completions client
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)
	gateway := llm.NewGateway(llmClient)

	retriever := retrieval.NewRetriever(embedder, vectorStore, cfg.QdrantCollection, chunkRepo)
	searcher := search.NewDuckDuckGoSearcher("")
	linkProcessor := links.NewProcessor(links.NewTitleFetcher())
	ticketer := ticketing.NewJiraClient(cfg.Jira)
	if !cfg.Jira.Configured() {
		slog.Warn("Jira is not configured; IT ticketing operations will be skipped")
	}

	engine := chat.NewEngine(
		session.NewMemoryStore(),
		gateway,
		retriever,
		searcher,
		linkProcessor,
		ticketer,
		employeeRepo,
		cfg.RequireIdentity,
	)
	slog.Info("Conversation engine initialized", "require_identity", cfg.RequireIdentity)

	// Create router with dependencies
	deps := &http.Deps{
		Engine:          engine,
		IndexerPipeline: pipeline,
		VectorStore:     vectorStore,
		CollectionName:  cfg.QdrantCollection,
		IndexHTML:       indexHTML,
	}
	router := http.NewRouter(deps)

	// Start indexing in background after router is ready
	go func() {
		indexCtx := context.Background()
		slog.Info("Starting background indexing of documentation")
		if err := pipeline.IndexAll(indexCtx); err != nil {
			slog.Error("Indexing completed with errors", "error", err)
		} else {
			slog.Info("Indexing completed successfully")
		}
	}()

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
