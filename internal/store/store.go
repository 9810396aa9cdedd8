// Package store archives publish and reply outcomes to a local sqlite
// database for later inspection. The durable audit trail is the CSV
// engagement record; the archive is a queryable convenience.
package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store handles all database operations
type Store struct {
	db *sql.DB
}

// New creates a new Store with SQLite backend
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS published_posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		post_id TEXT,
		text TEXT NOT NULL,
		has_image BOOLEAN NOT NULL,
		media_id TEXT,
		status TEXT NOT NULL,
		posted_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS replies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		candidate_id TEXT NOT NULL,
		candidate_text TEXT,
		reply_text TEXT,
		status TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_published_posts_posted_at ON published_posts(posted_at);
	CREATE INDEX IF NOT EXISTS idx_replies_created_at ON replies(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SavePublishedPost records one publish attempt outcome
func (s *Store) SavePublishedPost(p *PublishedPost) error {
	if p.PostedAt.IsZero() {
		p.PostedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO published_posts (post_id, text, has_image, media_id, status, posted_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.PostID, p.Text, p.HasImage, p.MediaID, p.Status, p.PostedAt)

	return err
}

// SaveReply records one reply attempt outcome
func (s *Store) SaveReply(r *Reply) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO replies (candidate_id, candidate_text, reply_text, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, r.CandidateID, r.CandidateText, r.ReplyText, r.Status, r.CreatedAt)

	return err
}

// RecentPosts returns the most recently archived publish attempts
func (s *Store) RecentPosts(limit int) ([]PublishedPost, error) {
	rows, err := s.db.Query(`
		SELECT post_id, text, has_image, media_id, status, posted_at
		FROM published_posts
		ORDER BY posted_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []PublishedPost
	for rows.Next() {
		var p PublishedPost
		if err := rows.Scan(&p.PostID, &p.Text, &p.HasImage, &p.MediaID, &p.Status, &p.PostedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
