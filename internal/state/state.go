// Package state persists the sync baseline between invocations.
//
// The state file is a small JSON record holding the last published-branch
// revision this tool processed and when. It is local ephemeral cache, kept
// out of version control via .gitignore, written only after a successful
// sync pass and read at the start of every invocation. Its absence simply
// means "never synced" and triggers a full resync.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultFileName is the repository-relative location of the state file.
const DefaultFileName = ".wikibridge-state.json"

// State records the last processed published-branch revision.
// Nil fields mean the repository has never been synced.
type State struct {
	// LastRevision is the published-branch commit hash recorded after
	// the last successful sync pass.
	LastRevision *string `json:"last_published_revision"`

	// LastSyncTime is when that pass finished.
	LastSyncTime *time.Time `json:"last_sync_time"`
}

// Synced returns true if a prior sync has been recorded.
func (s *State) Synced() bool {
	return s.LastRevision != nil
}

// Load reads the state file at path. A missing file is not an error; it
// returns the zero state, which callers treat as "never synced".
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", path, err)
	}

	return &s, nil
}

// Save overwrites the state file at path with the given revision and
// timestamp. The file is written indented for human readability, via a
// temp file and rename so a crash never leaves a truncated record.
func Save(path string, revision string, at time.Time) error {
	s := State{
		LastRevision: &revision,
		LastSyncTime: &at,
	}

	data, err := json.MarshalIndent(&s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".wikibridge-state-*")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close state file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}
