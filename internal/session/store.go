package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	"jendo-cli/internal/model"
)

const storeFileName = "session.sqlite"

// Store persists the signed-in session so the CLI and TUI share one login.
type Store struct {
	Path string
}

func NewStore(dir string) Store {
	return Store{Path: filepath.Join(dir, storeFileName)}
}

// Snapshot is what survives between runs. Banner and unread count are
// runtime-only.
type Snapshot struct {
	Token string
	User  *model.User
}

func (s Store) open(ctx context.Context) (*sql.DB, error) {
	if s.Path == "" {
		return nil, errors.New("session store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, err
	}
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
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS session_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	_, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO session_meta(k, v) VALUES('schema_version', ?)`, strconv.Itoa(1))
	return err
}

// Load returns an empty snapshot when nothing was saved yet.
func (s Store) Load(ctx context.Context) (Snapshot, error) {
	if _, err := os.Stat(s.Path); errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, nil
	}
	db, err := s.open(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	defer db.Close()

	get := func(k string) (string, error) {
		var v string
		err := db.QueryRowContext(ctx, `SELECT v FROM session_meta WHERE k = ?`, k).Scan(&v)
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return v, err
	}

	var snap Snapshot
	if snap.Token, err = get("token"); err != nil {
		return Snapshot{}, err
	}
	userJSON, err := get("user_json")
	if err != nil {
		return Snapshot{}, err
	}
	if userJSON != "" {
		var u model.User
		if err := json.Unmarshal([]byte(userJSON), &u); err != nil {
			return Snapshot{}, fmt.Errorf("decode stored user: %w", err)
		}
		snap.User = &u
	}
	return snap, nil
}

func (s Store) Save(ctx context.Context, snap Snapshot) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	userJSON := ""
	if snap.User != nil {
		b, err := json.Marshal(snap.User)
		if err != nil {
			return err
		}
		userJSON = string(b)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO session_meta(k, v) VALUES(?, ?)`, "token", snap.Token); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO session_meta(k, v) VALUES(?, ?)`, "user_json", userJSON); err != nil {
		return err
	}
	return tx.Commit()
}

func (s Store) Clear(ctx context.Context) error {
	if _, err := os.Stat(s.Path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, `DELETE FROM session_meta WHERE k IN ('token', 'user_json')`)
	return err
}
