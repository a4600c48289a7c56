package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mdkeep/mdkeep/internal/models"
	"github.com/mdkeep/mdkeep/internal/storage"
)

// CreateTag creates a tag, or returns the existing one when the name is
// already taken.
func (s *Store) CreateTag(ctx context.Context, name, color string) (*models.Tag, error) {
	if color == "" {
		color = models.DefaultTagColor
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (name, color, created_at) VALUES (?, ?, ?) ON CONFLICT(name) DO NOTHING`,
		name, color, fmtTime(storage.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return scanTag(s.db.QueryRowContext(ctx,
		`SELECT id, name, color, created_at FROM tags WHERE name = ?`, name))
}

// GetTag retrieves a tag by ID.
func (s *Store) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	return scanTag(s.db.QueryRowContext(ctx,
		`SELECT id, name, color, created_at FROM tags WHERE id = ?`, id))
}

// ListTags returns all tags ordered by ID.
func (s *Store) ListTags(ctx context.Context) ([]*models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color, created_at FROM tags ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var out []*models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteTag removes the tag and strips it from every document. Idempotent.
func (s *Store) DeleteTag(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM document_tags WHERE tag_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete tag associations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	return tx.Commit()
}

// AddDocumentTag associates a tag with a document. Idempotent; fails only
// when the document does not exist. The tag ID is recorded as given even if
// no such tag exists.
func (s *Store) AddDocumentTag(ctx context.Context, docID, tagID int64) error {
	if err := s.requireDocument(ctx, docID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO document_tags (document_id, tag_id) VALUES (?, ?)`, docID, tagID)
	if err != nil {
		return fmt.Errorf("failed to add tag: %w", err)
	}
	return nil
}

// RemoveDocumentTag removes a tag association. Idempotent; fails only when
// the document does not exist.
func (s *Store) RemoveDocumentTag(ctx context.Context, docID, tagID int64) error {
	if err := s.requireDocument(ctx, docID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM document_tags WHERE document_id = ? AND tag_id = ?`, docID, tagID)
	if err != nil {
		return fmt.Errorf("failed to remove tag: %w", err)
	}
	return nil
}

func (s *Store) requireDocument(ctx context.Context, docID int64) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM documents WHERE id = ?`, docID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

func scanTag(row rowScanner) (*models.Tag, error) {
	var t models.Tag
	var created string
	err := row.Scan(&t.ID, &t.Name, &t.Color, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.CreatedAt = parseTime(created)
	return &t, nil
}
