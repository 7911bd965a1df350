package cache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/misrafix/misrafix/internal/domain"
)

// Store is a file-based implementation of domain.BatchStore. Each analysis
// run replaces the persisted batch wholesale, so separate CLI invocations
// share the same last-writer-wins snapshot the in-memory session does.
type Store struct{}

// New creates a new file-based batch store.
func New() *Store {
	return &Store{}
}

// Load reads the persisted batch. Returns (nil, nil) when none exists.
func (s *Store) Load(workspaceRoot string) (*domain.Batch, error) {
	data, err := os.ReadFile(batchPath(workspaceRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // no batch is not an error
		}
		return nil, err
	}

	var batch domain.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// Save writes the batch, creating directories as needed.
func (s *Store) Save(workspaceRoot string, batch *domain.Batch) error {
	dir := cacheDir(workspaceRoot)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(batchPath(workspaceRoot), data, 0644)
}

// Invalidate removes the persisted batch.
func (s *Store) Invalidate(workspaceRoot string) error {
	if err := os.Remove(batchPath(workspaceRoot)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func cacheDir(workspaceRoot string) string {
	return filepath.Join(workspaceRoot, ".misrafix", "cache")
}

func batchPath(workspaceRoot string) string {
	return filepath.Join(cacheDir(workspaceRoot), "batch.json")
}
