package docs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ScannedFile represents a documentation file found during scanning.
type ScannedFile struct {
	Department string // Owning department ("IT" or "HR")
	RelPath    string // Relative path from the department root
	AbsPath    string // Absolute file path
}

func isDocFile(path string) bool {
	switch filepath.Ext(path) {
	case ".md", ".txt":
		return true
	}
	return false
}

// ScanAll walks every department root and returns the documentation files found.
func (l *Library) ScanAll(ctx context.Context) ([]ScannedFile, error) {
	var scannedFiles []ScannedFile

	for _, department := range l.Departments() {
		// Check for context cancellation between departments
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		root := l.roots[department]
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return fmt.Errorf("failed to access path %s: %w", path, err)
			}

			if info.IsDir() {
				// Skip hidden directories
				if name := info.Name(); len(name) > 1 && name[0] == '.' {
					return filepath.SkipDir
				}
				return nil
			}

			if !isDocFile(path) {
				return nil
			}

			relPath, err := filepath.Rel(root, path)
			if err != nil {
				return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
			}

			scannedFiles = append(scannedFiles, ScannedFile{
				Department: department,
				RelPath:    filepath.ToSlash(relPath),
				AbsPath:    path,
			})
			return nil
		})

		if err != nil {
			return scannedFiles, fmt.Errorf("failed to scan %s documentation: %w", department, err)
		}
	}

	return scannedFiles, nil
}
