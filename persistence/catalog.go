package persistence

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SessionRecord summarizes one completed session for the history view.
type SessionRecord struct {
	Stamp      string
	Prompt     string
	PlaylistID string
	Added      int
	Failed     int
	CreatedAt  time.Time
}

// SessionCatalog keeps a durable index of past sessions in SQLite, so the
// per-session artifact directories stay discoverable without walking the
// filesystem.
type SessionCatalog struct {
	db *sql.DB
}

// OpenSessionCatalog opens/creates the catalog database at dbPath.
func OpenSessionCatalog(dbPath string) (*SessionCatalog, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	catalog := &SessionCatalog{db: db}
	if err := catalog.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return catalog, nil
}

func (c *SessionCatalog) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		stamp TEXT PRIMARY KEY,
		prompt TEXT NOT NULL,
		playlist_id TEXT,
		added INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	);`
	_, err := c.db.Exec(schema)
	return err
}

// Record inserts one session summary. The stamp is the primary key, so a
// session is recorded at most once.
func (c *SessionCatalog) Record(ctx context.Context, rec SessionRecord) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO sessions (stamp, prompt, playlist_id, added, failed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Stamp, rec.Prompt, rec.PlaylistID, rec.Added, rec.Failed, rec.CreatedAt.UTC())
	return err
}

// List returns every recorded session, newest first.
func (c *SessionCatalog) List(ctx context.Context) ([]SessionRecord, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT stamp, prompt, playlist_id, added, failed, created_at
		 FROM sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var playlistID sql.NullString
		if err := rows.Scan(&rec.Stamp, &rec.Prompt, &playlistID, &rec.Added, &rec.Failed, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.PlaylistID = playlistID.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close releases the database handle.
func (c *SessionCatalog) Close() error { return c.db.Close() }
