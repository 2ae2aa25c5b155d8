// Package fs persists display state between runs.
package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
)

const stateFileName = "state.json"

// State is what the screen remembers across restarts.
type State struct {
	Brightness uint8 `json:"brightness"`
}

// StateFile stores State as JSON in a directory.
type StateFile struct {
	dir string
}

// NewStateFile creates a StateFile for dir.
func NewStateFile(dir string) *StateFile {
	return &StateFile{dir: dir}
}

// Load returns the saved state. A missing file is an empty state and
// no error.
func (r *StateFile) Load(ctx context.Context) (State, error) {
	data, err := os.ReadFile(r.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, err
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, err
	}
	return st, nil
}

// Save writes st to a temp file and renames it into place.
func (r *StateFile) Save(ctx context.Context, st State) error {
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	path := r.Path()
	tmp := path + ".tmp"

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Path returns the full path to the state file.
func (r *StateFile) Path() string {
	return filepath.Join(r.dir, stateFileName)
}
