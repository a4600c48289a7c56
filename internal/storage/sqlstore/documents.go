package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mdkeep/mdkeep/internal/models"
	"github.com/mdkeep/mdkeep/internal/storage"
)

const documentColumns = `id, filename, content, folder_id, is_favorite, is_pinned, created_at, updated_at, last_opened_at`

// CreateDocument creates a document.
func (s *Store) CreateDocument(ctx context.Context, filename, content string, folderID *int64) (*models.Document, error) {
	now := storage.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (filename, content, folder_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		filename, content, nullID(folderID), fmtTime(now), fmtTime(now))
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetDocument(ctx, id)
}

// GetDocument retrieves a document by ID, including its tag and category
// associations.
func (s *Store) GetDocument(ctx context.Context, id int64) (*models.Document, error) {
	d, err := scanDocument(s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := s.attachAssociations(ctx, []*models.Document{d}); err != nil {
		return nil, err
	}
	return d, nil
}

// ListDocuments returns all documents ordered by ID. Callers sort.
func (s *Store) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	return s.queryDocuments(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY id`)
}

// ListDocumentsByFolder returns the documents directly inside a folder.
func (s *Store) ListDocumentsByFolder(ctx context.Context, folderID int64) ([]*models.Document, error) {
	return s.queryDocuments(ctx, `SELECT `+documentColumns+` FROM documents WHERE folder_id = ? ORDER BY id`, folderID)
}

// UpdateDocument merges patch into the document.
func (s *Store) UpdateDocument(ctx context.Context, id int64, patch models.DocumentPatch) (*models.Document, error) {
	d, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	storage.ApplyDocumentPatch(d, patch)
	if err := s.writeDocument(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Store) writeDocument(ctx context.Context, d *models.Document) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE documents SET filename = ?, content = ?, folder_id = ?, is_favorite = ?, is_pinned = ?, updated_at = ?, last_opened_at = ? WHERE id = ?`,
		d.Filename, d.Content, nullID(d.FolderID), boolToInt(d.IsFavorite), boolToInt(d.IsPinned),
		fmtTime(d.UpdatedAt), fmtNullTime(d.LastOpenedAt), d.ID)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	return nil
}

// DeleteDocument removes the document. Associations and recency entries
// follow via ON DELETE CASCADE. Idempotent.
func (s *Store) DeleteDocument(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// SaveDocument implements the editor's upsert; see storage.SaveRequest.
func (s *Store) SaveDocument(ctx context.Context, req storage.SaveRequest) (*models.Document, error) {
	now := storage.Now()
	if req.DocumentID != nil {
		res, err := s.db.ExecContext(ctx,
			`UPDATE documents SET filename = ?, content = ?, folder_id = ?, updated_at = ? WHERE id = ?`,
			req.Filename, req.Content, nullID(req.FolderID), fmtTime(now), *req.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("failed to save document: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return s.GetDocument(ctx, *req.DocumentID)
		}
		return s.CreateDocument(ctx, req.Filename, req.Content, req.FolderID)
	}

	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM documents WHERE filename = ? AND folder_id IS ?`,
		req.Filename, nullID(req.FolderID)).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return s.CreateDocument(ctx, req.Filename, req.Content, req.FolderID)
	case err != nil:
		return nil, fmt.Errorf("failed to look up document: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE documents SET content = ?, updated_at = ? WHERE id = ?`,
		req.Content, fmtTime(now), id); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	return s.GetDocument(ctx, id)
}

// SearchDocuments linearly scans all documents against q. The collection is
// small by contract; no index is kept.
func (s *Store) SearchDocuments(ctx context.Context, q storage.SearchQuery) ([]*models.Document, error) {
	docs, err := s.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	var out []*models.Document
	for _, d := range docs {
		if storage.MatchesQuery(d, q) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Store) queryDocuments(ctx context.Context, query string, args ...any) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var out []*models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachAssociations(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachAssociations fills TagIDs and CategoryIDs for the given documents.
func (s *Store) attachAssociations(ctx context.Context, docs []*models.Document) error {
	if len(docs) == 0 {
		return nil
	}
	byID := make(map[int64]*models.Document, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	fill := func(query string, assign func(d *models.Document, id int64)) error {
		rows, err := s.db.QueryContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to query associations: %w", err)
		}
		defer func() {
			_ = rows.Close()
		}()
		for rows.Next() {
			var docID, otherID int64
			if err := rows.Scan(&docID, &otherID); err != nil {
				return err
			}
			if d := byID[docID]; d != nil {
				assign(d, otherID)
			}
		}
		return rows.Err()
	}
	if err := fill(`SELECT document_id, tag_id FROM document_tags ORDER BY rowid`,
		func(d *models.Document, id int64) { d.TagIDs = append(d.TagIDs, id) }); err != nil {
		return err
	}
	return fill(`SELECT document_id, category_id FROM document_categories ORDER BY rowid`,
		func(d *models.Document, id int64) { d.CategoryIDs = append(d.CategoryIDs, id) })
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var d models.Document
	var folder sql.NullInt64
	var favorite, pinned int
	var created, updated string
	var opened sql.NullString
	err := row.Scan(&d.ID, &d.Filename, &d.Content, &folder, &favorite, &pinned, &created, &updated, &opened)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if folder.Valid {
		d.FolderID = &folder.Int64
	}
	d.IsFavorite = favorite != 0
	d.IsPinned = pinned != 0
	d.CreatedAt = parseTime(created)
	d.UpdatedAt = parseTime(updated)
	if opened.Valid {
		t := parseTime(opened.String)
		d.LastOpenedAt = &t
	}
	d.TagIDs = []int64{}
	d.CategoryIDs = []int64{}
	return &d, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
