package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// CSVStore persists generated CSV artifacts and returns where they live.
type CSVStore interface {
	Save(name string, content []byte) (string, error)
}

// LocalStore keeps CSV artifacts on the local filesystem, one file per
// processed document, with a short uuid prefix so repeated uploads of the
// same statement never collide.
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates the base directory if needed.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Save writes the content and returns the stored file path.
func (s *LocalStore) Save(name string, content []byte) (string, error) {
	stored := fmt.Sprintf("%s_%s", uuid.New().String()[:8], sanitizeFilename(name))
	path := filepath.Join(s.baseDir, stored)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "statement.csv"
	}
	return b.String()
}
