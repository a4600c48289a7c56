package jsonstore

import (
	"context"

	"github.com/mdkeep/mdkeep/internal/jsondb"
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
	var cat *models.Category
	err := s.categories.Modify(func(x *jsondb.Txn[*models.Category]) error {
		for _, c := range x.Rows {
			if c.Name == name {
				cat = c
				return nil
			}
		}
		cat = &models.Category{
			ID:        x.NextID(),
			Name:      name,
			Color:     color,
			Icon:      icon,
			CreatedAt: storage.Now(),
		}
		x.Rows = append(x.Rows, cat)
		x.Dirty = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cat.Clone(), nil
}

// GetCategory retrieves a category by ID.
func (s *Store) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	if c := s.categories.Get(id); c != nil {
		return c, nil
	}
	return nil, storage.ErrNotFound
}

// ListCategories returns all categories in insertion order.
func (s *Store) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.categories.Snapshot(), nil
}

// DeleteCategory removes the category, then strips it from every document.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	err := s.categories.Modify(func(x *jsondb.Txn[*models.Category]) error {
		kept := x.Rows[:0]
		for _, c := range x.Rows {
			if c.ID == id {
				x.Dirty = true
				continue
			}
			kept = append(kept, c)
		}
		x.Rows = kept
		return nil
	})
	if err != nil {
		return err
	}
	return s.documents.Modify(func(x *jsondb.Txn[*models.Document]) error {
		for _, d := range x.Rows {
			if d.HasCategory(id) {
				d.CategoryIDs = removeID(d.CategoryIDs, id)
				x.Dirty = true
			}
		}
		return nil
	})
}

// AddDocumentCategory associates a category with a document. Idempotent;
// fails only when the document does not exist.
func (s *Store) AddDocumentCategory(ctx context.Context, docID, catID int64) error {
	return s.documents.Modify(func(x *jsondb.Txn[*models.Document]) error {
		d := findDocument(x.Rows, docID)
		if d == nil {
			return storage.ErrNotFound
		}
		if !d.HasCategory(catID) {
			d.CategoryIDs = append(d.CategoryIDs, catID)
			x.Dirty = true
		}
		return nil
	})
}

// RemoveDocumentCategory removes a category association. Idempotent; fails
// only when the document does not exist.
func (s *Store) RemoveDocumentCategory(ctx context.Context, docID, catID int64) error {
	return s.documents.Modify(func(x *jsondb.Txn[*models.Document]) error {
		d := findDocument(x.Rows, docID)
		if d == nil {
			return storage.ErrNotFound
		}
		if d.HasCategory(catID) {
			d.CategoryIDs = removeID(d.CategoryIDs, catID)
			x.Dirty = true
		}
		return nil
	})
}
