package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mdkeep/mdkeep/internal/models"
	"github.com/mdkeep/mdkeep/internal/storage"
)

// CreateFolder creates a folder. Position defaults to the current folder
// count.
func (s *Store) CreateFolder(ctx context.Context, name string, parentID *int64, color, icon string) (*models.Folder, error) {
	if color == "" {
		color = models.DefaultFolderColor
	}
	if icon == "" {
		icon = models.DefaultFolderIcon
	}
	if parentID != nil {
		if _, err := s.GetFolder(ctx, *parentID); err != nil {
			return nil, storage.ErrInvalidParent
		}
	}
	now := storage.Now()
	var position int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM folders`).Scan(&position); err != nil {
		return nil, fmt.Errorf("failed to count folders: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO folders (name, parent_id, color, icon, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		name, nullID(parentID), color, icon, position, fmtTime(now), fmtTime(now))
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetFolder(ctx, id)
}

// GetFolder retrieves a folder by ID.
func (s *Store) GetFolder(ctx context.Context, id int64) (*models.Folder, error) {
	return scanFolder(s.db.QueryRowContext(ctx,
		`SELECT id, name, parent_id, color, icon, position, created_at, updated_at FROM folders WHERE id = ?`, id))
}

// ListFolders returns all folders ordered by ID.
func (s *Store) ListFolders(ctx context.Context) ([]*models.Folder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, parent_id, color, icon, position, created_at, updated_at FROM folders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var out []*models.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// UpdateFolder merges patch into the folder, validating a parent change
// against missing targets and cycles.
func (s *Store) UpdateFolder(ctx context.Context, id int64, patch models.FolderPatch) (*models.Folder, error) {
	f, err := s.GetFolder(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.ParentID.Present && patch.ParentID.Value != nil {
		if err := s.validateParent(ctx, id, *patch.ParentID.Value); err != nil {
			return nil, err
		}
	}
	storage.ApplyFolderPatch(f, patch)
	_, err = s.db.ExecContext(ctx,
		`UPDATE folders SET name = ?, parent_id = ?, color = ?, icon = ?, position = ?, updated_at = ? WHERE id = ?`,
		f.Name, nullID(f.ParentID), f.Color, f.Icon, f.Position, fmtTime(f.UpdatedAt), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update folder: %w", err)
	}
	return f, nil
}

// validateParent rejects a parent assignment that would point at a missing
// folder or create a cycle through id.
func (s *Store) validateParent(ctx context.Context, id, parentID int64) error {
	if parentID == id {
		return storage.ErrInvalidParent
	}
	cur := parentID
	seen := map[int64]bool{}
	for {
		var parent sql.NullInt64
		err := s.db.QueryRowContext(ctx, `SELECT parent_id FROM folders WHERE id = ?`, cur).Scan(&parent)
		if errors.Is(err, sql.ErrNoRows) {
			if cur == parentID {
				return storage.ErrInvalidParent
			}
			// Broken chain above an existing parent: relation absent, not
			// fatal.
			return nil
		}
		if err != nil {
			return err
		}
		if !parent.Valid {
			return nil
		}
		next := parent.Int64
		if next == id || seen[next] {
			return storage.ErrInvalidParent
		}
		seen[next] = true
		cur = next
	}
}

// DeleteFolder removes the folder and all descendants in one transaction:
// direct documents are detached, descendant folders' documents deleted (the
// join tables and recency log follow via ON DELETE CASCADE).
func (s *Store) DeleteFolder(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx, `
		WITH RECURSIVE subtree(id) AS (
			SELECT id FROM folders WHERE id = ?
			UNION ALL
			SELECT f.id FROM folders f JOIN subtree s ON f.parent_id = s.id
		)
		SELECT id FROM subtree`, id)
	if err != nil {
		return fmt.Errorf("failed to collect subtree: %w", err)
	}
	var all []int64
	for rows.Next() {
		var fid int64
		if err := rows.Scan(&fid); err != nil {
			_ = rows.Close()
			return err
		}
		all = append(all, fid)
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if len(all) == 0 {
		return nil
	}

	var descendants []int64
	for _, fid := range all {
		if fid != id {
			descendants = append(descendants, fid)
		}
	}
	if len(descendants) > 0 {
		q, args := inClause(descendants)
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE folder_id IN `+q, args...); err != nil {
			return fmt.Errorf("failed to delete subtree documents: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, `UPDATE documents SET folder_id = NULL WHERE folder_id = ?`, id); err != nil {
		return fmt.Errorf("failed to detach documents: %w", err)
	}
	q, args := inClause(all)
	if _, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE id IN `+q, args...); err != nil {
		return fmt.Errorf("failed to delete folders: %w", err)
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFolder(row rowScanner) (*models.Folder, error) {
	var f models.Folder
	var parent sql.NullInt64
	var created, updated string
	err := row.Scan(&f.ID, &f.Name, &parent, &f.Color, &f.Icon, &f.Position, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if parent.Valid {
		f.ParentID = &parent.Int64
	}
	f.CreatedAt = parseTime(created)
	f.UpdatedAt = parseTime(updated)
	return &f, nil
}

func inClause(ids []int64) (string, []any) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return "(" + strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",") + ")", args
}
