package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"doto/internal/model"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

const (
	sqliteFileName = "doto.sqlite"

	// legacyJSONFileName is imported once into an empty SQLite db.
	legacyJSONFileName = DefaultKey + ".json"
)

// sqliteBackend stores categories and todos as JSON blob rows ordered by position.
type sqliteBackend struct {
	store  Store
	logger *log.Logger
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL lets the TUI and a CLI invocation share the db; busy_timeout avoids "database is locked".
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (b *sqliteBackend) Load(ctx context.Context) (model.State, bool, error) {
	db, err := b.store.openSQLite(ctx)
	if err != nil {
		return model.State{}, false, err
	}
	defer db.Close()

	initialized, err := sqliteStateInitialized(ctx, db)
	if err != nil {
		return model.State{}, false, err
	}
	if !initialized {
		// One-time import from categories.json if present.
		raw, err := os.ReadFile(filepath.Join(b.store.Dir, legacyJSONFileName))
		if err != nil || len(raw) == 0 {
			return model.State{}, false, nil
		}
		legacy, err := decodeState(raw)
		if err != nil {
			return model.State{}, false, err
		}
		if err := saveStateSQLite(ctx, db, legacy); err != nil {
			return model.State{}, false, err
		}
		b.logger.Info("imported legacy state into sqlite", "file", legacyJSONFileName, "categories", len(legacy.Categories), "todos", len(legacy.Todos))
	}

	st, err := loadStateFromSQLite(ctx, db)
	if err != nil {
		return model.State{}, false, err
	}
	return st, true, nil
}

func (b *sqliteBackend) Save(ctx context.Context, st model.State) error {
	db, err := b.store.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return saveStateSQLite(ctx, db, st)
}

func (b *sqliteBackend) Close() error { return nil }

func saveStateSQLite(ctx context.Context, db *sql.DB, st model.State) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	active := ""
	if st.ActiveCategoryIndex != nil {
		active = strconv.Itoa(*st.ActiveCategoryIndex)
	}
	meta := [][2]string{
		{"version", "1"},
		{"initialized", "1"},
		{"active_category_index", active},
	}
	for _, kv := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, kv[0], kv[1]); err != nil {
			return err
		}
	}

	// Replace-all: the record is small and always written whole.
	for _, t := range []string{"categories", "todos"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()
	for i, c := range st.Categories {
		raw, _ := json.Marshal(c)
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories(position, name, color, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			i, c.Name, string(c.Color), string(raw), nowMs); err != nil {
			return err
		}
	}
	for i, t := range st.Todos {
		raw, _ := json.Marshal(t)
		if _, err := tx.ExecContext(ctx, `INSERT INTO todos(position, id, category_index, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			i, t.ID, t.CategoryIndex, string(raw), nowMs); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			position INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			color TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS todos (
			position INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			category_index INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_todos_id ON todos(id);`,
		`CREATE INDEX IF NOT EXISTS idx_todos_category ON todos(category_index);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func sqliteStateInitialized(ctx context.Context, db *sql.DB) (bool, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = 'initialized'`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(v) == "1", nil
}

func loadStateFromSQLite(ctx context.Context, db *sql.DB) (model.State, error) {
	out := model.State{}

	var active string
	err := db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = 'active_category_index'`).Scan(&active)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return model.State{}, fmt.Errorf("load active category index: %w", err)
	}
	if active = strings.TrimSpace(active); active != "" {
		n, err := strconv.Atoi(active)
		if err != nil {
			return model.State{}, errors.Join(ErrCorruptState, err)
		}
		out.ActiveCategoryIndex = &n
	}

	cats, err := readJSONRows[model.Category](ctx, db, `SELECT json FROM categories ORDER BY position`)
	if err != nil {
		return model.State{}, err
	}
	todos, err := readJSONRows[model.Todo](ctx, db, `SELECT json FROM todos ORDER BY position`)
	if err != nil {
		return model.State{}, err
	}
	out.Categories = cats
	out.Todos = todos
	out = out.Clone()

	if err := ValidateState(out); err != nil {
		return model.State{}, err
	}
	return out, nil
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, errors.Join(ErrCorruptState, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
