package jsonstore

import (
	"context"

	"github.com/mdkeep/mdkeep/internal/jsondb"
	"github.com/mdkeep/mdkeep/internal/models"
	"github.com/mdkeep/mdkeep/internal/storage"
)

// CreateTag creates a tag, or returns the existing tag when the name is
// already taken. Names are globally unique.
func (s *Store) CreateTag(ctx context.Context, name, color string) (*models.Tag, error) {
	if color == "" {
		color = models.DefaultTagColor
	}
	var tag *models.Tag
	err := s.tags.Modify(func(x *jsondb.Txn[*models.Tag]) error {
		for _, t := range x.Rows {
			if t.Name == name {
				tag = t
				return nil
			}
		}
		tag = &models.Tag{
			ID:        x.NextID(),
			Name:      name,
			Color:     color,
			CreatedAt: storage.Now(),
		}
		x.Rows = append(x.Rows, tag)
		x.Dirty = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tag.Clone(), nil
}

// GetTag retrieves a tag by ID.
func (s *Store) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	if t := s.tags.Get(id); t != nil {
		return t, nil
	}
	return nil, storage.ErrNotFound
}

// ListTags returns all tags in insertion order.
func (s *Store) ListTags(ctx context.Context) ([]*models.Tag, error) {
	return s.tags.Snapshot(), nil
}

// DeleteTag removes the tag, then strips it from every document's tag set.
func (s *Store) DeleteTag(ctx context.Context, id int64) error {
	err := s.tags.Modify(func(x *jsondb.Txn[*models.Tag]) error {
		kept := x.Rows[:0]
		for _, t := range x.Rows {
			if t.ID == id {
				x.Dirty = true
				continue
			}
			kept = append(kept, t)
		}
		x.Rows = kept
		return nil
	})
	if err != nil {
		return err
	}
	return s.documents.Modify(func(x *jsondb.Txn[*models.Document]) error {
		for _, d := range x.Rows {
			if d.HasTag(id) {
				d.TagIDs = removeID(d.TagIDs, id)
				x.Dirty = true
			}
		}
		return nil
	})
}

// AddDocumentTag associates a tag with a document. Idempotent; fails only
// when the document does not exist.
func (s *Store) AddDocumentTag(ctx context.Context, docID, tagID int64) error {
	return s.documents.Modify(func(x *jsondb.Txn[*models.Document]) error {
		d := findDocument(x.Rows, docID)
		if d == nil {
			return storage.ErrNotFound
		}
		if !d.HasTag(tagID) {
			d.TagIDs = append(d.TagIDs, tagID)
			x.Dirty = true
		}
		return nil
	})
}

// RemoveDocumentTag removes a tag association. Idempotent; fails only when
// the document does not exist.
func (s *Store) RemoveDocumentTag(ctx context.Context, docID, tagID int64) error {
	return s.documents.Modify(func(x *jsondb.Txn[*models.Document]) error {
		d := findDocument(x.Rows, docID)
		if d == nil {
			return storage.ErrNotFound
		}
		if d.HasTag(tagID) {
			d.TagIDs = removeID(d.TagIDs, tagID)
			x.Dirty = true
		}
		return nil
	})
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
