// Package history keeps a best-effort local journal of study activity:
// completed pomodoro phases, quiz scores, tool usage. The database is opened
// lazily and created on first use. If opening the DB or executing queries
// fails, the package falls back to in-memory storage. Chat sessions are not
// journaled here; the backend owns those.
package history

import (
	"database/sql"
	"os"
	"sync"

	_ "github.com/glebarez/go-sqlite"

	"github.com/dev-Amann/AI-StudyBuddy/internal/logger"
)

// Journal records activity entries.
type Journal struct {
	path string

	mu      sync.Mutex
	entries []Entry // in-memory fallback

	dbOnce  sync.Once
	db      *sql.DB
	initErr error
}

// Open creates a journal at the given path. An empty path falls back to
// STUDYBUDDY_DB_PATH and then to studybuddy.db in the working directory. The
// database itself is opened on first use.
func Open(path string) *Journal {
	if path == "" {
		path = os.Getenv("STUDYBUDDY_DB_PATH")
	}
	if path == "" {
		path = "studybuddy.db"
	}
	return &Journal{path: path}
}

// initDB lazily opens the SQLite database and creates the activity table if it doesn't exist.
func (j *Journal) initDB() {
	var err error
	j.db, err = sql.Open("sqlite", "file:"+j.path+"?_busy_timeout=10000&_fk=1")
	if err != nil {
		j.initErr = err
		logger.L.Warn("sqlite open failed; using in-memory journal", "error", err)
		return
	}
	if _, err = j.db.Exec(`CREATE TABLE IF NOT EXISTS activity (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        kind TEXT,
        detail TEXT,
        created_at DATETIME
    );`); err != nil {
		j.initErr = err
		logger.L.Warn("sqlite table creation failed; using in-memory journal", "error", err)
		return
	}
	logger.L.Debug("activity journal initialized", "path", j.path)
}

// Record persists an entry when the database is available and always keeps an
// in-memory copy as fallback.
func (j *Journal) Record(e Entry) {
	j.dbOnce.Do(j.initDB)

	if j.initErr == nil && j.db != nil {
		_, err := j.db.Exec(`INSERT INTO activity (kind, detail, created_at) VALUES (?,?,?);`,
			e.Kind, e.Detail, e.CreatedAt)
		if err != nil {
			logger.L.Error("failed to store activity in sqlite; falling back to memory", "error", err)
		}
	}

	j.mu.Lock()
	j.entries = append(j.entries, e)
	j.mu.Unlock()
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(limit int) []Entry {
	j.dbOnce.Do(j.initDB)

	if j.initErr == nil && j.db != nil {
		rows, err := j.db.Query(`SELECT id, kind, detail, created_at FROM activity ORDER BY id DESC LIMIT ?;`, limit)
		if err == nil {
			defer rows.Close()
			var out []Entry
			for rows.Next() {
				var e Entry
				if err := rows.Scan(&e.ID, &e.Kind, &e.Detail, &e.CreatedAt); err == nil {
					out = append(out, e)
				}
			}
			return out
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	var out []Entry
	for i := len(j.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.entries[i])
	}
	return out
}

// Close releases the database handle if one was opened.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}
