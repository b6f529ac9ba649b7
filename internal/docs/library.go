package docs

import (
	"fmt"
	"path/filepath"
)

// Library maps support departments to their documentation roots.
type Library struct {
	roots map[string]string // department -> root path
}

// NewLibrary creates a library for the IT and HR documentation trees.
func NewLibrary(itPath, hrPath string) (*Library, error) {
	if itPath == "" || hrPath == "" {
		return nil, fmt.Errorf("documentation roots must not be empty")
	}
	return &Library{
		roots: map[string]string{
			"IT": itPath,
			"HR": hrPath,
		},
	}, nil
}

// Departments returns all department names with a documentation root.
func (l *Library) Departments() []string {
	return []string{"IT", "HR"}
}

// Root returns the documentation root for a department.
func (l *Library) Root(department string) (string, error) {
	root, ok := l.roots[department]
	if !ok {
		return "", fmt.Errorf("unknown department: %s", department)
	}
	return root, nil
}

// AbsPath returns the absolute path for a file given its department and relative path.
func (l *Library) AbsPath(department, relPath string) string {
	root, ok := l.roots[department]
	if !ok {
		return ""
	}
	return filepath.Join(root, relPath)
}
