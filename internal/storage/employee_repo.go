package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_employee_store.go -package=mocks support-assistant/internal/storage EmployeeStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"support-assistant/internal/contextutil"
)

// EmployeeStore is the directory lookup the identity-capture step uses.
type EmployeeStore interface {
	GetByID(ctx context.Context, id int) (Employee, error)
}

// EmployeeRepo provides access to the employee directory table.
type EmployeeRepo struct {
	db *sql.DB
}

// NewEmployeeRepo creates a new EmployeeRepo.
func NewEmployeeRepo(db *sql.DB) *EmployeeRepo {
	return &EmployeeRepo{db: db}
}

// GetByID looks up an employee by numeric id.
// Returns ErrNotFound if the id is not in the directory.
func (r *EmployeeRepo) GetByID(ctx context.Context, id int) (Employee, error) {
	var emp Employee
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name FROM employees WHERE id = ?", id,
	).Scan(&emp.ID, &emp.Name)
	if err == sql.ErrNoRows {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, fmt.Errorf("failed to query employee %d: %w", id, err)
	}
	return emp, nil
}

// Count returns the number of directory entries.
func (r *EmployeeRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM employees").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return n, nil
}

// employeeRecord mirrors the two key spellings the directory export uses.
type employeeRecord struct {
	EmployeeID   *int    `json:"Employee ID"`
	EmployeeName *string `json:"Employee Name"`
	AltID        *int    `json:"id"`
	AltName      *string `json:"firstName"`
}

// SeedFromJSON loads the employee directory from a JSON export and upserts it.
// Records with a missing or non-numeric id are skipped with a warning rather
// than failing the whole load.
func (r *EmployeeRepo) SeedFromJSON(ctx context.Context, path string) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read employee data %s: %w", path, err)
	}

	var records []employeeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("failed to parse employee data %s: %w", path, err)
	}

	loaded := 0
	for _, rec := range records {
		id, name := rec.EmployeeID, rec.EmployeeName
		if id == nil {
			id = rec.AltID
		}
		if name == nil {
			name = rec.AltName
		}
		if id == nil || name == nil || *name == "" {
			logger.WarnContext(ctx, "skipping employee record with missing id or name")
			continue
		}

		_, err := r.db.ExecContext(ctx,
			"INSERT INTO employees (id, name) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET name = excluded.name",
			*id, *name,
		)
		if err != nil {
			return loaded, fmt.Errorf("failed to upsert employee %d: %w", *id, err)
		}
		loaded++
	}

	logger.InfoContext(ctx, "employee directory seeded", "path", path, "records", loaded)
	return loaded, nil
}
