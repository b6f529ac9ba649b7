package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks support-assistant/internal/vectorstore VectorStore

import "context"

// Point is a vector plus metadata destined for the index.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult is a single nearest-neighbor hit.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// VectorStore abstracts the similarity index. The only filter the application
// uses is the department tag ("IT" or "HR") stamped on every point.
type VectorStore interface {
	Upsert(ctx context.Context, collection string, points []Point) error
	Search(ctx context.Context, collection string, query []float32, k int, department string) ([]SearchResult, error)
	Delete(ctx context.Context, collection string, ids []string) error
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error
	CollectionExists(ctx context.Context, collection string) (bool, error)
}
