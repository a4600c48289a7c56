package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mdkeep/mdkeep/internal/models"
	"github.com/mdkeep/mdkeep/internal/storage"
)

// CreateCategory creates a category, or returns the existing one when the
// name is already taken.
func (s *Store) CreateCategory(ctx context.Context, name, color, icon string) (*models.Category, error) {
	if color == "" {
		color = models.DefaultCategoryColor
	}
	if icon == "" {
		icon = models.DefaultCategoryIcon
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, color, icon, created_at) VALUES (?, ?, ?, ?) ON CONFLICT(name) DO NOTHING`,
		name, color, icon, fmtTime(storage.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return scanCategory(s.db.QueryRowContext(ctx,
		`SELECT id, name, color, icon, created_at FROM categories WHERE name = ?`, name))
}

// GetCategory retrieves a category by ID.
func (s *Store) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	return scanCategory(s.db.QueryRowContext(ctx,
		`SELECT id, name, color, icon, created_at FROM categories WHERE id = ?`, id))
}

// ListCategories returns all categories ordered by ID.
func (s *Store) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color, icon, created_at FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var out []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCategory removes the category and strips it from every document.
// Idempotent.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM document_categories WHERE category_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete category associations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return tx.Commit()
}

// AddDocumentCategory associates a category with a document. Idempotent;
// fails only when the document does not exist. The category ID is recorded
// as given even if no such category exists.
func (s *Store) AddDocumentCategory(ctx context.Context, docID, catID int64) error {
	if err := s.requireDocument(ctx, docID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO document_categories (document_id, category_id) VALUES (?, ?)`, docID, catID)
	if err != nil {
		return fmt.Errorf("failed to add category: %w", err)
	}
	return nil
}

// RemoveDocumentCategory removes a category association. Idempotent; fails
// only when the document does not exist.
func (s *Store) RemoveDocumentCategory(ctx context.Context, docID, catID int64) error {
	if err := s.requireDocument(ctx, docID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM document_categories WHERE document_id = ? AND category_id = ?`, docID, catID)
	if err != nil {
		return fmt.Errorf("failed to remove category: %w", err)
	}
	return nil
}

func scanCategory(row rowScanner) (*models.Category, error) {
	var c models.Category
	var created string
	err := row.Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.CreatedAt = parseTime(created)
	return &c, nil
}
