// Package session persists completed design-scan sessions to SQLite so
// repeated checks of a design tree can be inspected later. It keeps an
// in-memory cache over the database with dirty tracking, flushed on
// close.
package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrSessionNotFound indicates the requested session doesn't exist in
// the database.
var ErrSessionNotFound = errors.New("session not found")

// Session is one recorded design scan.
type Session struct {
	ID          string              `json:"-"` // DB key, not serialized
	Design      string              `json:"design"`
	CreatedAt   string              `json:"created_at"` // RFC3339
	Diagnostics []string            `json:"diagnostics"`
	Namespaces  map[string][]int    `json:"namespaces"`
	Subdesigns  map[string]string   `json:"subdesigns"`
	Statements  map[string][]string `json:"statements,omitempty"`
}

// cacheEntry holds a cached session and its metadata.
type cacheEntry struct {
	session    *Session
	dirty      bool
	loadedAt   time.Time
	accessedAt time.Time
}

// Store manages session persistence.
type Store struct {
	db     *sql.DB
	dbPath string
	cache  map[string]*cacheEntry
	mu     sync.RWMutex
}

// Config holds store configuration options.
type Config struct {
	DBPath string // Path to the sessions database (defaults to ~/.vbscan/sessions.db)
}

// Open creates a Store with the given configuration. If cfg is nil,
// defaults are used.
func Open(cfg *Config) (*Store, error) {
	s := &Store{cache: make(map[string]*cacheEntry)}

	if cfg != nil && cfg.DBPath != "" {
		s.dbPath = cfg.DBPath
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home dir: %w", err)
		}
		dir := filepath.Join(home, ".vbscan")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating state dir: %w", err)
		}
		s.dbPath = filepath.Join(dir, "sessions.db")
	}

	db, err := sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s.db = db

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS sessions (id TEXT PRIMARY KEY, data TEXT)"); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sessions table: %w", err)
	}

	return s, nil
}

// Close flushes dirty cache entries and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.cache {
		if entry.dirty {
			if err := s.saveLocked(id, entry.session); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save dirty session %s: %v\n", id, err)
			}
		}
	}
	s.cache = nil

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record creates and persists a session for one design scan, returning
// its new ID.
func (s *Store) Record(design string, diagnostics []string, namespaces map[string][]int, subdesigns map[string]string) (string, error) {
	id := strings.ToLower(design) + "_" + uuid.New().String()
	session := &Session{
		ID:          id,
		Design:      design,
		CreatedAt:   time.Now().Format(time.RFC3339),
		Diagnostics: diagnostics,
		Namespaces:  namespaces,
		Subdesigns:  subdesigns,
	}
	if err := s.Save(session); err != nil {
		return "", err
	}
	return id, nil
}

// Save persists a session and marks its cache entry clean.
func (s *Store) Save(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveLocked(session.ID, session); err != nil {
		return err
	}

	if entry, ok := s.cache[session.ID]; ok {
		entry.session = session
		entry.dirty = false
		entry.accessedAt = time.Now()
	} else {
		s.cache[session.ID] = &cacheEntry{
			session:    session,
			loadedAt:   time.Now(),
			accessedAt: time.Now(),
		}
	}
	return nil
}

// saveLocked writes to the DB without acquiring locks (caller must hold
// the lock).
func (s *Store) saveLocked(id string, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO sessions (id, data) VALUES (?, json(?))",
		id, string(data),
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Load returns a session from cache or database.
func (s *Store) Load(id string) (*Session, error) {
	s.mu.RLock()
	if entry, ok := s.cache[id]; ok {
		entry.accessedAt = time.Now()
		s.mu.RUnlock()
		return entry.session, nil
	}
	s.mu.RUnlock()

	var data string
	err := s.db.QueryRow("SELECT data FROM sessions WHERE id = ?", id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("querying session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("unmarshaling session: %w", err)
	}
	session.ID = id

	s.mu.Lock()
	s.cache[id] = &cacheEntry{
		session:    &session,
		loadedAt:   time.Now(),
		accessedAt: time.Now(),
	}
	s.mu.Unlock()

	return &session, nil
}

// Delete removes a session from the database and cache.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	delete(s.cache, id)
	s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// FindByDesign returns all session IDs recorded for a design.
func (s *Store) FindByDesign(design string) ([]string, error) {
	rows, err := s.db.Query("SELECT id FROM sessions WHERE json_extract(data, '$.design') = ?", design)
	if err != nil {
		return nil, fmt.Errorf("querying sessions by design: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MarkDirty marks a cached session as modified (needs saving).
func (s *Store) MarkDirty(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.cache[id]; ok {
		entry.dirty = true
	}
}

// Flush writes all dirty cache entries to the database.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.cache {
		if entry.dirty {
			if err := s.saveLocked(id, entry.session); err != nil {
				return fmt.Errorf("flushing %s: %w", id, err)
			}
			entry.dirty = false
		}
	}
	return nil
}

// IsCached returns whether a session is currently in the cache.
func (s *Store) IsCached(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.cache[id]
	return ok
}

// CacheStats returns statistics about the session cache.
func (s *Store) CacheStats() (size int, dirty int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	size = len(s.cache)
	for _, entry := range s.cache {
		if entry.dirty {
			dirty++
		}
	}
	return
}
