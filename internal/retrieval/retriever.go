package retrieval

import (
	"context"
	"fmt"
	"strings"

	"support-assistant/internal/contextutil"
	"support-assistant/internal/llm"
	"support-assistant/internal/storage"
	"support-assistant/internal/vectorstore"
)

// Result captures what a similarity search produced for a query.
type Result struct {
	Context string      // Formatted context text for the LLM
	Sources []Reference // Documents the context came from, best match first
	Found   bool        // False when nothing was retrieved
}

// Reference identifies a retrieved document section.
type Reference struct {
	Department  string
	RelPath     string
	Title       string
	HeadingPath string
	Score       float32
}

// Retriever fetches documentation context for a department-scoped query.
type Retriever interface {
	Retrieve(ctx context.Context, department, query string) (Result, error)
}

type docRetriever struct {
	embedder    *llm.EmbeddingsClient
	vectorStore vectorstore.VectorStore
	collection  string
	chunkRepo   storage.ChunkStore
}

// NewRetriever creates a retriever over the shared documentation collection.
func NewRetriever(
	embedder *llm.EmbeddingsClient,
	vectorStore vectorstore.VectorStore,
	collection string,
	chunkRepo storage.ChunkStore,
) Retriever {
	return &docRetriever{
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		chunkRepo:   chunkRepo,
	}
}

// topK returns how many chunks to retrieve for a department. IT documentation
// is broader so it gets a larger budget.
func topK(department string) int {
	if department == "IT" {
		return 5
	}
	return 3
}

// Retrieve embeds the query, searches the department's slice of the index,
// and formats the matching chunks into a context string.
func (r *docRetriever) Retrieve(ctx context.Context, department, query string) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	embeddings, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return Result{}, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return Result{}, fmt.Errorf("no embedding returned for query")
	}

	k := topK(department)
	hits, err := r.vectorStore.Search(ctx, r.collection, embeddings[0], k, department)
	if err != nil {
		return Result{}, fmt.Errorf("failed to search vector store: %w", err)
	}

	logger.DebugContext(ctx, "vector search completed",
		"department", department, "k", k, "hits", len(hits))

	if len(hits) == 0 {
		return Result{Found: false}, nil
	}

	var contextBuilder strings.Builder
	sources := make([]Reference, 0, len(hits))

	for _, hit := range hits {
		chunk, err := r.chunkRepo.GetByID(ctx, hit.PointID)
		if err != nil {
			logger.WarnContext(ctx, "failed to fetch chunk text", "chunk_id", hit.PointID, "error", err)
			continue
		}

		relPath, _ := hit.Meta["rel_path"].(string)
		title, _ := hit.Meta["doc_title"].(string)
		headingPath, _ := hit.Meta["heading_path"].(string)

		if contextBuilder.Len() > 0 {
			contextBuilder.WriteString("\n\n")
		}
		contextBuilder.WriteString(fmt.Sprintf("Source: %s (%s)\n", title, relPath))
		if headingPath != "" && headingPath != title {
			contextBuilder.WriteString(fmt.Sprintf("Section: %s\n", headingPath))
		}
		contextBuilder.WriteString(chunk.Text)

		sources = append(sources, Reference{
			Department:  department,
			RelPath:     relPath,
			Title:       title,
			HeadingPath: headingPath,
			Score:       hit.Score,
		})
	}

	if len(sources) == 0 {
		return Result{Found: false}, nil
	}

	return Result{
		Context: contextBuilder.String(),
		Sources: sources,
		Found:   true,
	}, nil
}
