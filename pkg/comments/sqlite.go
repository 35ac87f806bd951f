package comments

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps comments in a local SQLite file, for development and tests.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path. ":memory:" keeps it in memory.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database dir: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single connection; it also keeps an
	// in-memory database alive across calls
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS gallery_comments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			object_id TEXT NOT NULL,
			name TEXT NOT NULL,
			comment TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_comment_object ON gallery_comments(object_id);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) List(ctx context.Context, objectID string) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, object_id, name, comment, created_at
		FROM gallery_comments WHERE object_id = ? ORDER BY id ASC
	`, objectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.ObjectID, &c.Name, &c.Comment, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Add(ctx context.Context, objectID, name, comment string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO gallery_comments (object_id, name, comment, created_at) VALUES (?, ?, ?, ?)`,
		objectID, name, comment, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert comment: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{Top: []ObjectCount{}}
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT object_id) FROM gallery_comments`,
	).Scan(&stats.Comments, &stats.Objects)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT object_id, COUNT(*) AS count FROM gallery_comments
		GROUP BY object_id ORDER BY count DESC, object_id ASC LIMIT ?
	`, TopObjects)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var oc ObjectCount
		if err := rows.Scan(&oc.ObjectID, &oc.Count); err != nil {
			return nil, err
		}
		stats.Top = append(stats.Top, oc)
	}
	return stats, rows.Err()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
