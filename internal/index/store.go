package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Store locates the published index file and hands out short-lived read
// connections. Each query opens a fresh handle with a bounded busy timeout
// and releases it on every exit path; no connection is held across requests.
type Store struct {
	Path string
}

// NewStore returns a Store for the index at path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Exists reports whether a published index file is present.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.Path)
	return err == nil && !info.IsDir()
}

// Open opens a read connection to the published index with a 5s busy
// timeout. The caller must Close it when the query completes.
func (s *Store) Open() (*sqlx.DB, error) {
	if !s.Exists() {
		return nil, fmt.Errorf("index not found at %s", s.Path)
	}
	db, err := sqlx.Open("sqlite", s.Path+"?_pragma=busy_timeout(5000)&_pragma=case_sensitive_like(on)")
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return db, nil
}

// CountryAvailable reports whether the index holds any marks for the given
// resolved country set.
func (s *Store) CountryAvailable(db *sqlx.DB, countries []string) (bool, error) {
	query, args, err := sqlx.In("SELECT 1 FROM marks WHERE country IN (?) LIMIT 1", countries)
	if err != nil {
		return false, fmt.Errorf("build country query: %w", err)
	}
	var one int
	err = db.Get(&one, db.Rebind(query), args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check country coverage: %w", err)
	}
	return true, nil
}
