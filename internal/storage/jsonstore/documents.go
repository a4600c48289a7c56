package jsonstore

import (
	"context"

	"github.com/mdkeep/mdkeep/internal/jsondb"
	"github.com/mdkeep/mdkeep/internal/models"
	"github.com/mdkeep/mdkeep/internal/storage"
)

// CreateDocument creates a document.
func (s *Store) CreateDocument(ctx context.Context, filename, content string, folderID *int64) (*models.Document, error) {
	var created *models.Document
	err := s.documents.Modify(func(x *jsondb.Txn[*models.Document]) error {
		created = newDocument(x, filename, content, folderID)
		x.Rows = append(x.Rows, created)
		x.Dirty = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created.Clone(), nil
}

func newDocument(x *jsondb.Txn[*models.Document], filename, content string, folderID *int64) *models.Document {
	now := storage.Now()
	return &models.Document{
		ID:          x.NextID(),
		Filename:    filename,
		Content:     content,
		FolderID:    folderID,
		CreatedAt:   now,
		UpdatedAt:   now,
		TagIDs:      []int64{},
		CategoryIDs: []int64{},
	}
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id int64) (*models.Document, error) {
	if d := s.documents.Get(id); d != nil {
		return d, nil
	}
	return nil, storage.ErrNotFound
}

// ListDocuments returns all documents in insertion order. Callers sort.
func (s *Store) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	return s.documents.Snapshot(), nil
}

// ListDocumentsByFolder returns the documents directly inside a folder.
func (s *Store) ListDocumentsByFolder(ctx context.Context, folderID int64) ([]*models.Document, error) {
	var out []*models.Document
	for d := range s.documents.All() {
		if d.FolderID != nil && *d.FolderID == folderID {
			out = append(out, d)
		}
	}
	return out, nil
}

// UpdateDocument merges patch into the document.
func (s *Store) UpdateDocument(ctx context.Context, id int64, patch models.DocumentPatch) (*models.Document, error) {
	var updated *models.Document
	err := s.documents.Modify(func(x *jsondb.Txn[*models.Document]) error {
		d := findDocument(x.Rows, id)
		if d == nil {
			return storage.ErrNotFound
		}
		storage.ApplyDocumentPatch(d, patch)
		updated = d
		x.Dirty = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

// DeleteDocument removes the document, then purges its recency entries. The
// tag/category associations live on the document row and vanish with it.
func (s *Store) DeleteDocument(ctx context.Context, id int64) error {
	err := s.documents.Modify(func(x *jsondb.Txn[*models.Document]) error {
		kept := x.Rows[:0]
		for _, d := range x.Rows {
			if d.ID == id {
				x.Dirty = true
				continue
			}
			kept = append(kept, d)
		}
		x.Rows = kept
		return nil
	})
	if err != nil {
		return err
	}
	return s.purgeRecents([]int64{id})
}

// SaveDocument implements the editor's upsert. With an ID it updates that
// document, falling back to create when the ID is stale. Without an ID it is
// keyed by (filename, folder_id): an existing match only gets its content
// rewritten.
func (s *Store) SaveDocument(ctx context.Context, req storage.SaveRequest) (*models.Document, error) {
	var saved *models.Document
	err := s.documents.Modify(func(x *jsondb.Txn[*models.Document]) error {
		x.Dirty = true
		if req.DocumentID != nil {
			if d := findDocument(x.Rows, *req.DocumentID); d != nil {
				d.Filename = req.Filename
				d.Content = req.Content
				d.FolderID = req.FolderID
				d.UpdatedAt = storage.Now()
				saved = d
				return nil
			}
		} else {
			for _, d := range x.Rows {
				if d.Filename == req.Filename && storage.SameFolder(d.FolderID, req.FolderID) {
					d.Content = req.Content
					d.UpdatedAt = storage.Now()
					saved = d
					return nil
				}
			}
		}
		saved = newDocument(x, req.Filename, req.Content, req.FolderID)
		x.Rows = append(x.Rows, saved)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved.Clone(), nil
}

// SearchDocuments linearly scans all documents against q.
func (s *Store) SearchDocuments(ctx context.Context, q storage.SearchQuery) ([]*models.Document, error) {
	var out []*models.Document
	for d := range s.documents.All() {
		if storage.MatchesQuery(d, q) {
			out = append(out, d)
		}
	}
	return out, nil
}

func findDocument(rows []*models.Document, id int64) *models.Document {
	for _, d := range rows {
		if d.ID == id {
			return d
		}
	}
	return nil
}
