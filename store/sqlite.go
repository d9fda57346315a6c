package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"menace/game"
	"menace/menace"

	_ "modernc.org/sqlite" // SQLite driver
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS matchboxes (
    state TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS beads (
    state TEXT NOT NULL REFERENCES matchboxes(state) ON DELETE CASCADE,
    idx INTEGER NOT NULL,
    cell_row INTEGER NOT NULL,
    cell_col INTEGER NOT NULL,
    bead_count INTEGER NOT NULL,
    PRIMARY KEY (state, idx)
);

-- One row, present once a table has been saved
CREATE TABLE IF NOT EXISTS saves (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    schema_version INTEGER NOT NULL,
    saved_at TEXT NOT NULL
);
`

// SQLiteStore keeps the table in a SQLite database, one row per bead set.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with single writer
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaV1); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (menace.Table, error) {
	var version int
	err := s.db.QueryRowContext(ctx, `SELECT schema_version FROM saves WHERE id = 1`).Scan(&version)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save marker: %w", err)
	}
	if version != SchemaVersion {
		return nil, malformed("unsupported schema version %d", version)
	}

	table := menace.Table{}

	states, err := s.db.QueryContext(ctx, `SELECT state FROM matchboxes`)
	if err != nil {
		return nil, fmt.Errorf("failed to query matchboxes: %w", err)
	}
	for states.Next() {
		var state string
		if err := states.Scan(&state); err != nil {
			states.Close()
			return nil, fmt.Errorf("failed to scan matchbox: %w", err)
		}
		table[game.StateKey(state)] = menace.Matchbox{}
	}
	if err := states.Close(); err != nil {
		return nil, fmt.Errorf("failed to read matchboxes: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT state, idx, cell_row, cell_col, bead_count FROM beads ORDER BY state, idx`)
	if err != nil {
		return nil, fmt.Errorf("failed to query beads: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			state string
			idx   int
			bead  menace.Bead
		)
		if err := rows.Scan(&state, &idx, &bead.Action.Row, &bead.Action.Col, &bead.Count); err != nil {
			return nil, malformed("bead row: %v", err)
		}

		key := game.StateKey(state)
		if idx != len(table[key]) {
			return nil, malformed("state %q has bead index %d where %d was expected", state, idx, len(table[key]))
		}
		table[key] = append(table[key], bead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read beads: %w", err)
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return table, nil
}

// Save replaces the stored table inside a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, table menace.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM beads`, `DELETE FROM matchboxes`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear table: %w", err)
		}
	}

	insertBox, err := tx.PrepareContext(ctx, `INSERT INTO matchboxes (state) VALUES (?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare matchbox insert: %w", err)
	}
	defer insertBox.Close()

	insertBead, err := tx.PrepareContext(ctx, `INSERT INTO beads (state, idx, cell_row, cell_col, bead_count) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare bead insert: %w", err)
	}
	defer insertBead.Close()

	for state, beads := range table {
		if _, err := insertBox.ExecContext(ctx, string(state)); err != nil {
			return fmt.Errorf("failed to insert matchbox %s: %w", state, err)
		}
		for i, bead := range beads {
			if _, err := insertBead.ExecContext(ctx, string(state), i, bead.Action.Row, bead.Action.Col, bead.Count); err != nil {
				return fmt.Errorf("failed to insert bead %d of %s: %w", i, state, err)
			}
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO saves (id, schema_version, saved_at) VALUES (1, ?, ?)`,
		SchemaVersion, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to mark save: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit table: %w", err)
	}
	return nil
}

// Clear deletes the stored table and the save marker.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM beads`, `DELETE FROM matchboxes`, `DELETE FROM saves`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear table: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
