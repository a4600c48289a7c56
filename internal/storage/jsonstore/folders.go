package jsonstore

import (
	"context"

	"github.com/mdkeep/mdkeep/internal/jsondb"
	"github.com/mdkeep/mdkeep/internal/models"
	"github.com/mdkeep/mdkeep/internal/storage"
)

// CreateFolder creates a folder. Position defaults to the current folder
// count, so siblings keep insertion order until reordered.
func (s *Store) CreateFolder(ctx context.Context, name string, parentID *int64, color, icon string) (*models.Folder, error) {
	if color == "" {
		color = models.DefaultFolderColor
	}
	if icon == "" {
		icon = models.DefaultFolderIcon
	}
	var created *models.Folder
	err := s.folders.Modify(func(x *jsondb.Txn[*models.Folder]) error {
		if parentID != nil && findFolder(x.Rows, *parentID) == nil {
			return storage.ErrInvalidParent
		}
		now := storage.Now()
		created = &models.Folder{
			ID:        x.NextID(),
			Name:      name,
			ParentID:  parentID,
			Color:     color,
			Icon:      icon,
			Position:  len(x.Rows),
			CreatedAt: now,
			UpdatedAt: now,
		}
		x.Rows = append(x.Rows, created)
		x.Dirty = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created.Clone(), nil
}

// GetFolder retrieves a folder by ID.
func (s *Store) GetFolder(ctx context.Context, id int64) (*models.Folder, error) {
	if f := s.folders.Get(id); f != nil {
		return f, nil
	}
	return nil, storage.ErrNotFound
}

// ListFolders returns all folders in insertion order.
func (s *Store) ListFolders(ctx context.Context) ([]*models.Folder, error) {
	return s.folders.Snapshot(), nil
}

// UpdateFolder merges patch into the folder. A parent change is validated:
// the new parent must exist and must not be the folder itself or one of its
// descendants.
func (s *Store) UpdateFolder(ctx context.Context, id int64, patch models.FolderPatch) (*models.Folder, error) {
	var updated *models.Folder
	err := s.folders.Modify(func(x *jsondb.Txn[*models.Folder]) error {
		f := findFolder(x.Rows, id)
		if f == nil {
			return storage.ErrNotFound
		}
		if patch.ParentID.Present && patch.ParentID.Value != nil {
			if err := validateParent(x.Rows, id, *patch.ParentID.Value); err != nil {
				return err
			}
		}
		storage.ApplyFolderPatch(f, patch)
		updated = f
		x.Dirty = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

// DeleteFolder removes the folder and all of its descendants, then detaches
// the folder's direct documents and deletes the documents of the deleted
// descendants. Each collection is its own critical section.
func (s *Store) DeleteFolder(ctx context.Context, id int64) error {
	descendants := map[int64]bool{}
	err := s.folders.Modify(func(x *jsondb.Txn[*models.Folder]) error {
		if findFolder(x.Rows, id) == nil {
			return nil
		}
		descendants = collectDescendants(x.Rows, id)
		kept := x.Rows[:0]
		for _, f := range x.Rows {
			if f.ID != id && !descendants[f.ID] {
				kept = append(kept, f)
			}
		}
		x.Rows = kept
		x.Dirty = true
		return nil
	})
	if err != nil {
		return err
	}

	var deletedDocs []int64
	err = s.documents.Modify(func(x *jsondb.Txn[*models.Document]) error {
		kept := x.Rows[:0]
		for _, d := range x.Rows {
			switch {
			case d.FolderID != nil && *d.FolderID == id:
				d.FolderID = nil
				x.Dirty = true
				kept = append(kept, d)
			case d.FolderID != nil && descendants[*d.FolderID]:
				deletedDocs = append(deletedDocs, d.ID)
				x.Dirty = true
			default:
				kept = append(kept, d)
			}
		}
		x.Rows = kept
		return nil
	})
	if err != nil {
		return err
	}
	if len(deletedDocs) == 0 {
		return nil
	}
	return s.purgeRecents(deletedDocs)
}

func findFolder(rows []*models.Folder, id int64) *models.Folder {
	for _, f := range rows {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// validateParent rejects a parent assignment that would orphan or cycle the
// tree: the parent must exist and the chain from it to the root must not
// pass through the folder being updated.
func validateParent(rows []*models.Folder, id, parentID int64) error {
	if parentID == id {
		return storage.ErrInvalidParent
	}
	seen := map[int64]bool{}
	cur := findFolder(rows, parentID)
	if cur == nil {
		return storage.ErrInvalidParent
	}
	for cur != nil {
		if cur.ID == id || seen[cur.ID] {
			return storage.ErrInvalidParent
		}
		seen[cur.ID] = true
		if cur.ParentID == nil {
			return nil
		}
		cur = findFolder(rows, *cur.ParentID)
	}
	// Broken chain: the parent resolves to a missing ancestor. Treat the
	// relation as absent rather than fatal.
	return nil
}

// collectDescendants returns the IDs of every folder below root, excluding
// root itself.
func collectDescendants(rows []*models.Folder, root int64) map[int64]bool {
	out := map[int64]bool{}
	frontier := []int64{root}
	for len(frontier) > 0 {
		next := frontier[:0:0]
		for _, f := range rows {
			if f.ParentID == nil || out[f.ID] {
				continue
			}
			for _, p := range frontier {
				if *f.ParentID == p {
					out[f.ID] = true
					next = append(next, f.ID)
					break
				}
			}
		}
		frontier = next
	}
	delete(out, root)
	return out
}
