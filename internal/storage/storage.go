package storage

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"todoclient/internal/todo"
)

// Entry is one journaled operation outcome.
type Entry struct {
	ID     string
	Op     string
	TodoID todo.ID
	Task   string
	OK     bool
	Error  string
	At     time.Time
}

// Store is an append-only journal of list operations.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS journal (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	op TEXT NOT NULL,
	todo_id TEXT NOT NULL DEFAULT '',
	task TEXT NOT NULL DEFAULT '',
	ok INTEGER NOT NULL DEFAULT 1,
	error TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS journal_todo_id ON journal (todo_id);`
	_, err := s.db.Exec(ddl)
	return err
}

// Record appends an operation outcome. opErr is nil for a success.
func (s *Store) Record(ctx context.Context, op string, id todo.ID, task string, opErr error) error {
	ok := 1
	msg := ""
	if opErr != nil {
		ok = 0
		msg = opErr.Error()
	}
	at := s.now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO journal (id, op, todo_id, task, ok, error, created_at) VALUES (?, ?, ?, ?, ?, ?, ?);`,
		uuid.NewString(), op, id.String(), task, ok, msg, at)
	return err
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return []Entry{}, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, op, todo_id, task, ok, error, created_at FROM journal ORDER BY seq DESC LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// History returns every entry for one todo, oldest first.
func (s *Store) History(ctx context.Context, id todo.ID) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, op, todo_id, task, ok, error, created_at FROM journal WHERE todo_id = ? ORDER BY seq;`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var todoID, createdStr string
		var okInt int
		if err := rows.Scan(&e.ID, &e.Op, &todoID, &e.Task, &okInt, &e.Error, &createdStr); err != nil {
			return nil, err
		}
		e.TodoID = todo.ID(todoID)
		e.OK = okInt == 1
		if at, err := time.Parse(time.RFC3339Nano, createdStr); err == nil {
			e.At = at
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
