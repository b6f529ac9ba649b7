package storage

import "time"

// Employee is a row of the verified-employee directory.
type Employee struct {
	ID        int
	Name      string
	CreatedAt time.Time
}

// Document represents an ingested source document for one department.
type Document struct {
	ID         string // UUID
	Department string // "IT" or "HR"
	RelPath    string // Relative path from the department docs root
	Title      string
	UpdatedAt  time.Time
	Hash       string // SHA256 hex string of file content
}

// Chunk is a slice of document text, indexed for vector search.
// The chunk ID doubles as the Qdrant point ID.
type Chunk struct {
	ID          string
	DocumentID  string
	ChunkIndex  int
	HeadingPath string
	Text        string
}
