package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"menace/game"
	"menace/menace"
)

// JSONStore keeps the table in a single JSON document mapping each state
// to its list of {"action": [row, col], "count": n} bead sets.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// jsonBead mirrors menace.Bead with pointers so missing fields can be told
// apart from zero values.
type jsonBead struct {
	Action *game.Cell `json:"action"`
	Count  *int       `json:"count"`
}

func (s *JSONStore) Load(ctx context.Context) (menace.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("reading table %s: %w", s.path, err)
	}

	table, err := decodeTable(data)
	if err != nil {
		return nil, fmt.Errorf("loading table %s: %w", s.path, err)
	}
	return table, nil
}

func decodeTable(data []byte) (menace.Table, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, malformed("document is not a state map: %v", err)
	}
	if doc == nil {
		return nil, malformed("document is null")
	}

	table := make(menace.Table, len(doc))
	for state, raw := range doc {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, malformed("state %q has no bead list", state)
		}

		var beads []jsonBead
		decoder := json.NewDecoder(bytes.NewReader(raw))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&beads); err != nil {
			return nil, malformed("state %q: %v", state, err)
		}

		matchbox := make(menace.Matchbox, 0, len(beads))
		for i, bead := range beads {
			switch {
			case bead.Action == nil:
				return nil, malformed("state %q bead %d is missing its action", state, i)
			case bead.Count == nil:
				return nil, malformed("state %q bead %d is missing its count", state, i)
			case *bead.Count < 0:
				return nil, malformed("state %q bead %d has negative count %d", state, i, *bead.Count)
			}
			matchbox = append(matchbox, menace.Bead{Action: *bead.Action, Count: *bead.Count})
		}
		table[game.StateKey(state)] = matchbox
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return table, nil
}

// Save writes the table to a temporary file next to the target and renames
// it into place, so readers see either the old table or the new one. The
// file keeps the mode of the table it replaces, or 0644 for a new one.
func (s *JSONStore) Save(ctx context.Context, table menace.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling table: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", s.path, err)
	}
	tmpPath := tmp.Name()

	mode := fs.FileMode(0644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("setting mode of temp file for %s: %w", s.path, err)
	}

	if err := writeAndSync(tmp, data); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file for %s: %w", s.path, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		// Clean up temp file on rename failure.
		os.Remove(tmpPath)
		return fmt.Errorf("renaming table file: %w", err)
	}
	return nil
}

func writeAndSync(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SetAside renames an unreadable table to "<path>.bad" so the next save
// does not overwrite it, and returns the new name.
func (s *JSONStore) SetAside(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	aside := s.path + ".bad"
	if err := os.Rename(s.path, aside); err != nil {
		return "", fmt.Errorf("setting aside table %s: %w", s.path, err)
	}
	return aside, nil
}

// Clear removes the saved table. It is not an error if none exists.
func (s *JSONStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing table %s: %w", s.path, err)
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}
