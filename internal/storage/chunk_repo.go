package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks support-assistant/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"fmt"
)

// ChunkStore persists and resolves chunk texts by id.
type ChunkStore interface {
	GetByID(ctx context.Context, id string) (Chunk, error)
	ReplaceForDocument(ctx context.Context, documentID string, chunks []Chunk) error
	IDsForDocument(ctx context.Context, documentID string) ([]string, error)
}

// ChunkRepo provides methods for chunk operations.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// GetByID fetches a chunk by its id (which is also the vector point id).
func (r *ChunkRepo) GetByID(ctx context.Context, id string) (Chunk, error) {
	var c Chunk
	err := r.db.QueryRowContext(ctx,
		"SELECT id, document_id, chunk_index, heading_path, text FROM chunks WHERE id = ?", id,
	).Scan(&c.ID, &c.DocumentID, &c.ChunkIndex, &c.HeadingPath, &c.Text)
	if err == sql.ErrNoRows {
		return Chunk{}, ErrNotFound
	}
	if err != nil {
		return Chunk{}, fmt.Errorf("failed to query chunk %s: %w", id, err)
	}
	return c, nil
}

// IDsForDocument returns the chunk ids currently stored for a document.
func (r *ChunkRepo) IDsForDocument(ctx context.Context, documentID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id FROM chunks WHERE document_id = ? ORDER BY chunk_index", documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk ids for %s: %w", documentID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ReplaceForDocument atomically swaps the chunk set of a document.
func (r *ChunkRepo) ReplaceForDocument(ctx context.Context, documentID string, chunks []Chunk) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("failed to clear chunks for %s: %w", documentID, err)
	}

	for _, c := range chunks {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO chunks (id, document_id, chunk_index, heading_path, text) VALUES (?, ?, ?, ?, ?)",
			c.ID, documentID, c.ChunkIndex, c.HeadingPath, c.Text,
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}
