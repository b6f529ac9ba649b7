package indexer

// Chunk represents a piece of a document produced by chunking.
type Chunk struct {
	Index       int
	HeadingPath string
	Text        string
}
