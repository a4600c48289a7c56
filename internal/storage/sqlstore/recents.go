package sqlstore

import (
	"context"
	"fmt"

	"github.com/mdkeep/mdkeep/internal/models"
	"github.com/mdkeep/mdkeep/internal/storage"
)

// RecordAccess appends an access-log entry for the document and trims the
// physical log to the newest models.RecentLogCap entries by insertion order.
func (s *Store) RecordAccess(ctx context.Context, docID int64) (*models.RecentFile, error) {
	if err := s.requireDocument(ctx, docID); err != nil {
		return nil, err
	}
	now := storage.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO recent_files (document_id, accessed_at) VALUES (?, ?)`, docID, fmtTime(now))
	if err != nil {
		return nil, fmt.Errorf("failed to record access: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM recent_files WHERE id NOT IN (SELECT id FROM recent_files ORDER BY id DESC LIMIT ?)`,
		models.RecentLogCap); err != nil {
		return nil, fmt.Errorf("failed to trim access log: %w", err)
	}
	return &models.RecentFile{ID: id, DocumentID: docID, AccessedAt: now}, nil
}

// ListRecent returns up to limit entries ordered by accessed_at descending.
// Entries cannot dangle here; ON DELETE CASCADE drops them with their
// document.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]*models.RecentFile, error) {
	query := `SELECT id, document_id, accessed_at FROM recent_files ORDER BY accessed_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent files: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var out []*models.RecentFile
	for rows.Next() {
		var r models.RecentFile
		var accessed string
		if err := rows.Scan(&r.ID, &r.DocumentID, &accessed); err != nil {
			return nil, err
		}
		r.AccessedAt = parseTime(accessed)
		out = append(out, &r)
	}
	return out, rows.Err()
}
