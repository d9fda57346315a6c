package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"menace/game"
	"menace/menace"

	"github.com/stretchr/testify/require"
)

func sampleTable() menace.Table {
	return menace.Table{
		"---------": {
			{Action: game.Cell{Row: 0, Col: 0}, Count: 5},
			{Action: game.Cell{Row: 1, Col: 1}, Count: 0},
		},
		"X---O----": {
			{Action: game.Cell{Row: 2, Col: 2}, Count: 2},
		},
		"XOXOXOOXO": {},
	}
}

func TestJSONStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewJSONStore(filepath.Join(t.TempDir(), "menace.json"))

	require.NoError(t, s.Save(ctx, sampleTable()))
	got, err := s.Load(ctx)

	require.NoError(t, err)
	require.Equal(t, sampleTable(), got, "Loaded table should match the saved one")
}

func TestJSONStoreLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("reporting a missing file", func(t *testing.T) {
		s := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))

		_, err := s.Load(ctx)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("reading a hand-written document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "menace.json")
		doc := `{
  "---------": [
    { "action": [0, 0], "count": 2 },
    { "action": [0, 1], "count": 7 }
  ]
}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

		got, err := NewJSONStore(path).Load(ctx)

		require.NoError(t, err)
		require.Equal(t, menace.Table{"---------": {
			{Action: game.Cell{Row: 0, Col: 0}, Count: 2},
			{Action: game.Cell{Row: 0, Col: 1}, Count: 7},
		}}, got)
	})

	malformedDocs := map[string]string{
		"invalid json":     `{"---------": [`,
		"array root":       `[]`,
		"null root":        `null`,
		"null bead list":   `{"---------": null}`,
		"bead list object": `{"---------": {"action": [0, 0], "count": 1}}`,
		"missing action":   `{"---------": [{"count": 1}]}`,
		"missing count":    `{"---------": [{"action": [0, 0]}]}`,
		"null bead":        `{"---------": [null]}`,
		"string count":     `{"---------": [{"action": [0, 0], "count": "1"}]}`,
		"fractional count": `{"---------": [{"action": [0, 0], "count": 1.5}]}`,
		"negative count":   `{"---------": [{"action": [0, 0], "count": -1}]}`,
		"oversized count":  `{"---------": [{"action": [0, 0], "count": 9223372036854775807}]}`,
		"short action":     `{"---------": [{"action": [0], "count": 1}]}`,
		"off-board action": `{"---------": [{"action": [3, 0], "count": 1}]}`,
		"unknown field":    `{"---------": [{"action": [0, 0], "count": 1, "weight": 2}]}`,
		"duplicate action": `{"---------": [{"action": [0, 0], "count": 1}, {"action": [0, 0], "count": 2}]}`,
	}
	for name, doc := range malformedDocs {
		t.Run("rejecting "+name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "menace.json")
			require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

			_, err := NewJSONStore(path).Load(ctx)

			require.ErrorIs(t, err, ErrMalformed, "Document %s should be rejected", doc)
		})
	}
}

func TestJSONStoreSave(t *testing.T) {
	ctx := context.Background()

	t.Run("replacing the previous table without leftovers", func(t *testing.T) {
		dir := t.TempDir()
		s := NewJSONStore(filepath.Join(dir, "menace.json"))
		require.NoError(t, s.Save(ctx, sampleTable()))

		smaller := menace.Table{"---------": {{Action: game.Cell{Row: 1, Col: 2}, Count: 9}}}
		require.NoError(t, s.Save(ctx, smaller))

		got, err := s.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, smaller, got)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1, "Temp files should not be left behind")
	})

	t.Run("failing without creating the target", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "menace.json")
		s := NewJSONStore(path)

		require.Error(t, s.Save(ctx, sampleTable()))

		_, err := os.Stat(path)
		require.True(t, os.IsNotExist(err), "Failed save should not expose a file")
	})

	t.Run("creating a world-readable file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "menace.json")
		require.NoError(t, NewJSONStore(path).Save(ctx, sampleTable()))

		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0644), info.Mode().Perm())
	})

	t.Run("keeping the mode of the replaced file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "menace.json")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0600))
		require.NoError(t, os.Chmod(path, 0640))

		require.NoError(t, NewJSONStore(path).Save(ctx, sampleTable()))

		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0640), info.Mode().Perm())
	})

	t.Run("respecting a cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		s := NewJSONStore(filepath.Join(t.TempDir(), "menace.json"))

		require.ErrorIs(t, s.Save(cancelled, sampleTable()), context.Canceled)
	})
}

func TestJSONStoreSetAside(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "menace.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0644))
	s := NewJSONStore(path)

	aside, err := s.SetAside(ctx)

	require.NoError(t, err)
	require.Equal(t, path+".bad", aside)
	data, err := os.ReadFile(aside)
	require.NoError(t, err)
	require.Equal(t, "{oops", string(data), "The damaged table should be kept as it was")
	_, err = s.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestJSONStoreClear(t *testing.T) {
	ctx := context.Background()
	s := NewJSONStore(filepath.Join(t.TempDir(), "menace.json"))
	require.NoError(t, s.Save(ctx, sampleTable()))

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx), "Clearing twice should not fail")

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("defaulting to json", func(t *testing.T) {
		s, err := Open(ctx, "", filepath.Join(dir, "menace.json"))
		require.NoError(t, err)
		require.IsType(t, &JSONStore{}, s)
	})

	t.Run("opening sqlite", func(t *testing.T) {
		s, err := Open(ctx, BackendSQLite, filepath.Join(dir, "menace.db"))
		require.NoError(t, err)
		defer s.Close()
		require.IsType(t, &SQLiteStore{}, s)
	})

	t.Run("rejecting unknown backends", func(t *testing.T) {
		_, err := Open(ctx, "redis", "")
		require.Error(t, err)
	})
}
