package history

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/misrafix/misrafix/internal/domain"
)

const historyFile = ".misrafix/history/fixes.json"

// FileHistory implements domain.FixHistory using JSON file storage.
type FileHistory struct{}

func New() *FileHistory {
	return &FileHistory{}
}

// Append adds one applied-fix entry to the ledger.
func (h *FileHistory) Append(workspaceRoot string, entry domain.FixEntry) error {
	entries, err := h.Load(workspaceRoot)
	if err != nil {
		return err
	}

	entries = append(entries, entry)

	fp := filepath.Join(workspaceRoot, historyFile)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fp, data, 0644)
}

// Load returns the full ledger, nil when none exists yet.
func (h *FileHistory) Load(workspaceRoot string) ([]domain.FixEntry, error) {
	data, err := os.ReadFile(filepath.Join(workspaceRoot, historyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.FixEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
