// Package history keeps recent searches and usage counters in sqlite.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// RecentLimit is the number of distinct queries Recent returns by default.
const RecentLimit = 10

const (
	EventGitPull    = "git_pull"
	EventDetailView = "detail_view"
	EventReload     = "reload"
)

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func initDB(db *sql.DB) error {
	for _, s := range strings.Split(schemaSQL, ";") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Open opens or creates the database at path. Use ":memory:" for a
// throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := initDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if _, err := db.Exec(
		`INSERT OR IGNORE INTO meta (key, value) VALUES ('first_used', ?)`,
		strconv.FormatInt(s.now().Unix(), 10),
	); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) incr(ctx context.Context, tx *sql.Tx, name string) error {
	_, err := tx.ExecContext(
		ctx,
		`INSERT INTO counters (name, value) VALUES (?, 1)
		 ON CONFLICT(name) DO UPDATE SET value = value + 1`,
		name,
	)
	return err
}

// Record stores a finished search and bumps its counters.
func (s *Store) Record(ctx context.Context, kind, query, lang string, results int, failed bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	f := 0
	if failed {
		f = 1
	}
	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO searches (kind, query, lang, results, failed, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		kind, query, lang, results, f, s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("record search: %w", err)
	}

	names := []string{"kind:" + kind}
	if lang != "" {
		names = append(names, "lang:"+lang)
	}
	if failed {
		names = append(names, "failed:"+kind)
	}
	for _, n := range names {
		if err := s.incr(ctx, tx, n); err != nil {
			return fmt.Errorf("record search: %w", err)
		}
	}

	return tx.Commit()
}

// Track counts an event that is not a search, e.g. EventGitPull.
func (s *Store) Track(ctx context.Context, event string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := s.incr(ctx, tx, "event:"+event); err != nil {
		return fmt.Errorf("track %s: %w", event, err)
	}
	return tx.Commit()
}

type Entry struct {
	Kind  string    `json:"kind"`
	Query string    `json:"query"`
	Lang  string    `json:"lang,omitempty"`
	At    time.Time `json:"at"`
}

// Recent returns the last n distinct non-empty queries, most recent first.
// Each entry carries the kind and language of its latest run.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = RecentLimit
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT kind, query, lang, MAX(id) AS last, created_at FROM searches
		 WHERE query != ''
		 GROUP BY query
		 ORDER BY last DESC
		 LIMIT ?`,
		n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	l := make([]Entry, 0, n)
	for rows.Next() {
		var e Entry
		var id, at int64
		if err := rows.Scan(&e.Kind, &e.Query, &e.Lang, &id, &at); err != nil {
			return nil, err
		}
		e.At = time.Unix(0, at)
		l = append(l, e)
	}
	return l, rows.Err()
}

type Stats struct {
	FirstUsed time.Time      `json:"firstUsed"`
	Searches  int            `json:"searches"`
	ByKind    map[string]int `json:"byKind"`
	ByLang    map[string]int `json:"byLang"`
	Failed    map[string]int `json:"failed"`
	Events    map[string]int `json:"events"`
}

func (s *Store) Stats(ctx context.Context) (Stats, error) {
	st := Stats{
		ByKind: make(map[string]int),
		ByLang: make(map[string]int),
		Failed: make(map[string]int),
		Events: make(map[string]int),
	}

	var first string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'first_used'`).Scan(&first)
	if err != nil && err != sql.ErrNoRows {
		return st, err
	}
	if sec, err := strconv.ParseInt(first, 10, 64); err == nil {
		st.FirstUsed = time.Unix(sec, 0)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name, value FROM counters`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var v int
		if err := rows.Scan(&name, &v); err != nil {
			return st, err
		}
		p := strings.SplitN(name, ":", 2)
		if len(p) != 2 {
			continue
		}
		switch p[0] {
		case "kind":
			st.ByKind[p[1]] = v
			st.Searches += v
		case "lang":
			st.ByLang[p[1]] = v
		case "failed":
			st.Failed[p[1]] = v
		case "event":
			st.Events[p[1]] = v
		}
	}

	return st, rows.Err()
}

// Reset clears all searches and counters.
func (s *Store) Reset(ctx context.Context) error {
	for _, q := range []string{`DELETE FROM searches`, `DELETE FROM counters`} {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
