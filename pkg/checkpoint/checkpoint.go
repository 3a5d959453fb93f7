// Package checkpoint persists a processor's resume point as a small JSON
// file. Writes go through a temp file and rename so a crash mid-write can
// never leave a half-written checkpoint behind.
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// State is the durable resume point: the highest successfully scored news
// id and when the processor last ran.
type State struct {
	LastProcessedNewsID int64     `json:"last_processed_news_id"`
	LastRun             time.Time `json:"last_run"`
}

// Store reads and writes the checkpoint file.
type Store struct {
	path string
}

// NewStore creates a store for the given file path. The file need not
// exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the checkpoint. A missing file is a fresh start and returns a
// zero state with no error. A corrupt file also returns a zero state, with
// the parse error so the caller can log the reset.
func (s *Store) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("corrupt checkpoint, starting from zero: %w", err)
	}
	return st, nil
}

// Save atomically overwrites the checkpoint with st.
func (s *Store) Save(st State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create checkpoint dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".checkpoint-*")
	if err != nil {
		return fmt.Errorf("failed to create temp checkpoint: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp checkpoint: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp checkpoint: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace checkpoint: %w", err)
	}
	return nil
}

// Path returns the checkpoint file location.
func (s *Store) Path() string {
	return s.path
}
