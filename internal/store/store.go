package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"feedwatch/internal/model"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a post id is absent from the collection.
var ErrNotFound = errors.New("post not found")

// Store holds the posts of one collection ("list") in its own SQLite file.
// It assumes a single logical writer per collection per run.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database file at path and ensures the
// schema exists. Initialization failure is fatal to the run; there is no
// retry.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	s := &Store{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		source_handle TEXT NOT NULL,
		created_at TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		replies INTEGER NOT NULL DEFAULT 0,
		reposts INTEGER NOT NULL DEFAULT 0,
		likes INTEGER NOT NULL DEFAULT 0,
		engagement_score REAL NOT NULL DEFAULT 0,
		kind TEXT NOT NULL,
		reference_id TEXT,
		reference_handle TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_posts_handle_ts ON posts(source_handle, timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

const postColumns = `id, text, source_handle, created_at, timestamp, replies, reposts, likes, engagement_score, kind, reference_id, reference_handle`

// InsertPost inserts the post unless its id is already present. Re-ingesting
// an existing id is a no-op, never an overwrite.
func (s *Store) InsertPost(ctx context.Context, p model.Post) error {
	query := `
	INSERT OR IGNORE INTO posts (` + postColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query, insertArgs(p)...)
	return err
}

// InsertPosts inserts a batch in one transaction: either every non-duplicate
// row is persisted or none are.
func (s *Store) InsertPosts(ctx context.Context, posts []model.Post) error {
	if len(posts) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	query := `
	INSERT OR IGNORE INTO posts (` + postColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, p := range posts {
		if _, err := tx.ExecContext(ctx, query, insertArgs(p)...); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// GetByID returns the post with the given id, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (model.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, ErrNotFound
	}
	return p, err
}

// GetAll returns every post in the collection in unspecified order.
func (s *Store) GetAll(ctx context.Context) ([]model.Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

// Update overwrites the full row for p.ID. It returns ErrNotFound when the
// id does not exist; updating is never an implicit insert.
func (s *Store) Update(ctx context.Context, p model.Post) error {
	query := `
	UPDATE posts SET
		text = ?,
		source_handle = ?,
		created_at = ?,
		timestamp = ?,
		replies = ?,
		reposts = ?,
		likes = ?,
		engagement_score = ?,
		kind = ?,
		reference_id = ?,
		reference_handle = ?
	WHERE id = ?
	`
	refID, refHandle := refColumns(p)
	res, err := s.db.ExecContext(ctx, query,
		p.Text, p.SourceHandle, p.CreatedAt, p.Timestamp,
		p.Replies, p.Reposts, p.Likes, p.EngagementScore, p.Kind,
		refID, refHandle, p.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row if present; deleting an absent id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	return err
}

// TopByEngagement returns, for every source handle that posted within the
// last windowDays, up to perSourceLimit posts from that handle in the same
// window ordered by engagement score descending (id breaks ties). The
// concatenated result carries no cross-handle ordering.
func (s *Store) TopByEngagement(ctx context.Context, windowDays, perSourceLimit int) ([]model.Post, error) {
	cutoff := s.now().Unix() - int64(windowDays)*86400

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT source_handle FROM posts WHERE timestamp >= ?`, cutoff)
	if err != nil {
		return nil, err
	}
	var handles []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			rows.Close()
			return nil, err
		}
		handles = append(handles, h)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	query := `
	SELECT ` + postColumns + ` FROM posts
	WHERE source_handle = ? AND timestamp >= ?
	ORDER BY engagement_score DESC, id ASC
	LIMIT ?
	`
	var out []model.Post
	for _, h := range handles {
		rows, err := s.db.QueryContext(ctx, query, h, cutoff, perSourceLimit)
		if err != nil {
			return nil, err
		}
		posts, err := collectPosts(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, posts...)
	}
	return out, nil
}

func insertArgs(p model.Post) []any {
	refID, refHandle := refColumns(p)
	return []any{
		p.ID, p.Text, p.SourceHandle, p.CreatedAt, p.Timestamp,
		p.Replies, p.Reposts, p.Likes, p.EngagementScore, p.Kind,
		refID, refHandle,
	}
}

func refColumns(p model.Post) (any, any) {
	if p.Reference == nil {
		return nil, nil
	}
	return p.Reference.ID, p.Reference.SourceHandle
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (model.Post, error) {
	var p model.Post
	var refID, refHandle sql.NullString
	err := row.Scan(
		&p.ID, &p.Text, &p.SourceHandle, &p.CreatedAt, &p.Timestamp,
		&p.Replies, &p.Reposts, &p.Likes, &p.EngagementScore, &p.Kind,
		&refID, &refHandle,
	)
	if err != nil {
		return model.Post{}, err
	}
	if refID.Valid && refHandle.Valid {
		p.Reference = &model.Reference{ID: refID.String, SourceHandle: refHandle.String}
	}
	return p, nil
}

func collectPosts(rows *sql.Rows) ([]model.Post, error) {
	var out []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
