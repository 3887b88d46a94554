package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultFilePerms = 0o600
	defaultDirPerms  = 0o750

	// DocumentHistoryFilename stores recently generated-from documents.
	DocumentHistoryFilename = "document_history.json"
	// MaxDocumentHistory bounds the number of remembered documents.
	MaxDocumentHistory = 20
)

// StateDir returns the directory holding the document history, following
// XDG_STATE_HOME. It is empty when no home directory can be found.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "lazyfeatures")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "lazyfeatures")
}

// LoadDocumentHistory loads the recent document paths, newest first.
// A missing file yields an empty history.
func LoadDocumentHistory(dir string) ([]string, error) {
	historyPath := filepath.Join(dir, DocumentHistoryFilename)
	// #nosec G304 -- historyPath is constructed from the config directory and a constant filename
	data, err := os.ReadFile(historyPath)
	if err != nil {
		return []string{}, nil
	}

	var payload struct {
		Documents []string `json:"documents"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return []string{}, err
	}
	if payload.Documents == nil {
		return []string{}, nil
	}
	return payload.Documents, nil
}

// SaveDocumentHistory writes the recent document paths.
func SaveDocumentHistory(dir string, documents []string) error {
	if err := os.MkdirAll(dir, defaultDirPerms); err != nil {
		return err
	}

	historyData := struct {
		Documents []string `json:"documents"`
	}{
		Documents: documents,
	}
	data, err := json.Marshal(historyData)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, DocumentHistoryFilename), data, defaultFilePerms)
}

// AddDocument moves path to the front of history, dropping duplicates and
// anything past MaxDocumentHistory.
func AddDocument(history []string, path string) []string {
	path = strings.TrimSpace(path)
	if path == "" {
		return history
	}
	out := make([]string, 0, len(history)+1)
	out = append(out, path)
	for _, h := range history {
		if h == path {
			continue
		}
		out = append(out, h)
		if len(out) == MaxDocumentHistory {
			break
		}
	}
	return out
}
