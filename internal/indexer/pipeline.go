package indexer

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"support-assistant/internal/contextutil"
	"support-assistant/internal/docs"
	"support-assistant/internal/llm"
	"support-assistant/internal/storage"
	"support-assistant/internal/vectorstore"
)

// Pipeline orchestrates the indexing of documentation files into SQLite and Qdrant.
type Pipeline struct {
	library      *docs.Library
	documentRepo storage.DocumentStore
	chunkRepo    storage.ChunkStore
	embedder     *llm.EmbeddingsClient
	vectorStore  vectorstore.VectorStore
	collection   string
	chunker      *MarkdownChunker
	force        bool
}

// NewPipeline creates a new indexing pipeline. When force is true every file
// is re-indexed regardless of its stored hash.
func NewPipeline(
	library *docs.Library,
	documentRepo storage.DocumentStore,
	chunkRepo storage.ChunkStore,
	embedder *llm.EmbeddingsClient,
	vectorStore vectorstore.VectorStore,
	collection string,
	force bool,
) *Pipeline {
	return &Pipeline{
		library:      library,
		documentRepo: documentRepo,
		chunkRepo:    chunkRepo,
		embedder:     embedder,
		vectorStore:  vectorStore,
		collection:   collection,
		chunker:      NewMarkdownChunker(),
		force:        force,
	}
}

// IndexFile indexes a single documentation file. It skips unchanged files by
// comparing the stored content hash, chunks the file, generates embeddings,
// and stores chunks in both SQLite and the vector store.
func (p *Pipeline) IndexFile(ctx context.Context, department, relPath string) error {
	logger := contextutil.LoggerFromContext(ctx)

	absPath := p.library.AbsPath(department, relPath)
	if absPath == "" {
		return fmt.Errorf("failed to resolve path for %s document %s", department, relPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", absPath, err)
	}

	hash := fmt.Sprintf("%x", sha256.Sum256(content))

	existing, err := p.documentRepo.GetByPath(ctx, department, relPath)
	exists := err == nil
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to check existing document: %w", err)
	}

	if exists && existing.Hash == hash && !p.force {
		logger.DebugContext(ctx, "skipping unchanged file", "department", department, "rel_path", relPath)
		return nil
	}

	filename := filepath.Base(relPath)

	var title string
	var chunks []Chunk
	if strings.EqualFold(filepath.Ext(relPath), ".md") {
		title, chunks, err = p.chunker.ChunkMarkdown(content, filename)
		if err != nil {
			return fmt.Errorf("failed to chunk markdown: %w", err)
		}
	} else {
		title, chunks = ChunkText(content, filename)
	}

	if len(chunks) == 0 {
		logger.WarnContext(ctx, "no chunks generated", "department", department, "rel_path", relPath)
		return nil
	}

	documentID := uuid.New().String()
	if exists {
		documentID = existing.ID
	}

	doc := storage.Document{
		ID:         documentID,
		Department: department,
		RelPath:    relPath,
		Title:      title,
		Hash:       hash,
	}
	if err := p.documentRepo.Upsert(ctx, doc); err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	// Remove stale vectors before writing the new chunk set
	if exists {
		oldIDs, err := p.chunkRepo.IDsForDocument(ctx, documentID)
		if err != nil {
			return fmt.Errorf("failed to list old chunk ids: %w", err)
		}
		if len(oldIDs) > 0 {
			if err := p.vectorStore.Delete(ctx, p.collection, oldIDs); err != nil {
				logger.WarnContext(ctx, "failed to delete old vectors", "error", err, "count", len(oldIDs))
			}
		}
	}

	chunkTexts := make([]string, len(chunks))
	for i, chunk := range chunks {
		chunkTexts[i] = chunk.Text
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, chunkTexts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	chunkRecords := make([]storage.Chunk, len(chunks))
	points := make([]vectorstore.Point, len(chunks))
	for i, chunk := range chunks {
		chunkID := uuid.New().String()
		chunkRecords[i] = storage.Chunk{
			ID:          chunkID,
			DocumentID:  documentID,
			ChunkIndex:  chunk.Index,
			HeadingPath: chunk.HeadingPath,
			Text:        chunk.Text,
		}
		points[i] = vectorstore.Point{
			ID:  chunkID,
			Vec: embeddings[i],
			Meta: map[string]any{
				"department":   department,
				"document_id":  documentID,
				"rel_path":     relPath,
				"heading_path": chunk.HeadingPath,
				"chunk_index":  chunk.Index,
				"doc_title":    title,
			},
		}
	}

	if err := p.chunkRepo.ReplaceForDocument(ctx, documentID, chunkRecords); err != nil {
		return fmt.Errorf("failed to store chunks: %w", err)
	}

	if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}

	logger.InfoContext(ctx, "indexed document",
		"department", department, "rel_path", relPath, "chunks", len(chunks), "title", title)
	return nil
}

// IndexAll scans every department root and indexes all documentation files.
// Errors for individual files are logged but do not stop the run.
func (p *Pipeline) IndexAll(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	scannedFiles, err := p.library.ScanAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan documentation: %w", err)
	}

	logger.InfoContext(ctx, "starting indexing", "total_files", len(scannedFiles))

	var successCount, errorCount int
	for _, file := range scannedFiles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := p.IndexFile(ctx, file.Department, file.RelPath); err != nil {
			errorCount++
			logger.ErrorContext(ctx, "failed to index file",
				"department", file.Department, "rel_path", file.RelPath, "error", err)
			continue
		}
		successCount++
	}

	logger.InfoContext(ctx, "indexing completed",
		"total_files", len(scannedFiles), "success", successCount, "errors", errorCount)

	if errorCount > 0 {
		return fmt.Errorf("indexing completed with %d errors", errorCount)
	}
	return nil
}
