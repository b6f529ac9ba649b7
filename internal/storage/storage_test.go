package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func TestEmployeeRepo_GetByID(t *testing.T) {
	db := testDB(t)
	repo := NewEmployeeRepo(db)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, "INSERT INTO employees (id, name) VALUES (1001, 'Ana Silva')")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	emp, err := repo.GetByID(ctx, 1001)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if emp.Name != "Ana Silva" {
		t.Errorf("GetByID() name = %q, want %q", emp.Name, "Ana Silva")
	}

	_, err = repo.GetByID(ctx, 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestEmployeeRepo_SeedFromJSON(t *testing.T) {
	db := testDB(t)
	repo := NewEmployeeRepo(db)
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "employees.json")
	data := `[
		{"Employee ID": 1, "Employee Name": "Ana"},
		{"id": 2, "firstName": "Bruno"},
		{"Employee Name": "missing id"}
	]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	n, err := repo.SeedFromJSON(ctx, path)
	if err != nil {
		t.Fatalf("SeedFromJSON() error = %v", err)
	}
	if n != 2 {
		t.Errorf("SeedFromJSON() seeded = %d, want 2", n)
	}

	emp, err := repo.GetByID(ctx, 2)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if emp.Name != "Bruno" {
		t.Errorf("GetByID() name = %q, want %q", emp.Name, "Bruno")
	}
}

func TestDocumentRepo_UpsertAndGet(t *testing.T) {
	db := testDB(t)
	repo := NewDocumentRepo(db)
	ctx := context.Background()

	doc := Document{
		ID:         "doc-1",
		Department: "IT",
		RelPath:    "vpn/setup.md",
		Title:      "VPN Setup",
		Hash:       "abc123",
	}
	if err := repo.Upsert(ctx, doc); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := repo.GetByPath(ctx, "IT", "vpn/setup.md")
	if err != nil {
		t.Fatalf("GetByPath() error = %v", err)
	}
	if got.Hash != "abc123" {
		t.Errorf("GetByPath() hash = %q, want %q", got.Hash, "abc123")
	}

	doc.Hash = "def456"
	if err := repo.Upsert(ctx, doc); err != nil {
		t.Fatalf("Upsert() update error = %v", err)
	}
	got, err = repo.GetByPath(ctx, "IT", "vpn/setup.md")
	if err != nil {
		t.Fatalf("GetByPath() after update error = %v", err)
	}
	if got.Hash != "def456" {
		t.Errorf("GetByPath() hash after update = %q, want %q", got.Hash, "def456")
	}

	_, err = repo.GetByPath(ctx, "HR", "vpn/setup.md")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByPath() error = %v, want ErrNotFound", err)
	}
}

func TestChunkRepo_ReplaceForDocument(t *testing.T) {
	db := testDB(t)
	docs := NewDocumentRepo(db)
	chunks := NewChunkRepo(db)
	ctx := context.Background()

	doc := Document{ID: "doc-1", Department: "IT", RelPath: "a.md", Title: "A", Hash: "h1"}
	if err := docs.Upsert(ctx, doc); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	first := []Chunk{
		{ID: "c1", DocumentID: "doc-1", ChunkIndex: 0, HeadingPath: "A", Text: "first"},
		{ID: "c2", DocumentID: "doc-1", ChunkIndex: 1, HeadingPath: "A > B", Text: "second"},
	}
	if err := chunks.ReplaceForDocument(ctx, "doc-1", first); err != nil {
		t.Fatalf("ReplaceForDocument() error = %v", err)
	}

	got, err := chunks.GetByID(ctx, "c2")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Text != "second" {
		t.Errorf("GetByID() text = %q, want %q", got.Text, "second")
	}

	second := []Chunk{
		{ID: "c3", DocumentID: "doc-1", ChunkIndex: 0, HeadingPath: "A", Text: "replaced"},
	}
	if err := chunks.ReplaceForDocument(ctx, "doc-1", second); err != nil {
		t.Fatalf("ReplaceForDocument() replace error = %v", err)
	}

	ids, err := chunks.IDsForDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("IDsForDocument() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != "c3" {
		t.Errorf("IDsForDocument() = %v, want [c3]", ids)
	}

	_, err = chunks.GetByID(ctx, "c1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after replace error = %v, want ErrNotFound", err)
	}
}
