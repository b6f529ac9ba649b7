package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks support-assistant/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"fmt"
)

// DocumentStore persists ingested document records.
type DocumentStore interface {
	GetByPath(ctx context.Context, department, relPath string) (Document, error)
	Upsert(ctx context.Context, doc Document) error
	Delete(ctx context.Context, id string) error
}

// DocumentRepo provides methods for document operations.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// GetByPath fetches a document record by its department and relative path.
func (r *DocumentRepo) GetByPath(ctx context.Context, department, relPath string) (Document, error) {
	var doc Document
	err := r.db.QueryRowContext(ctx,
		"SELECT id, department, rel_path, title, hash FROM documents WHERE department = ? AND rel_path = ?",
		department, relPath,
	).Scan(&doc.ID, &doc.Department, &doc.RelPath, &doc.Title, &doc.Hash)
	if err == sql.ErrNoRows {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to query document %s/%s: %w", department, relPath, err)
	}
	return doc, nil
}

// Upsert inserts or replaces a document record.
func (r *DocumentRepo) Upsert(ctx context.Context, doc Document) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, department, rel_path, title, hash, updated_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(department, rel_path) DO UPDATE SET
			title = excluded.title, hash = excluded.hash, updated_at = CURRENT_TIMESTAMP`,
		doc.ID, doc.Department, doc.RelPath, doc.Title, doc.Hash,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document %s: %w", doc.RelPath, err)
	}
	return nil
}

// Delete removes a document and, via cascade, its chunks.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	return nil
}
