package jsonstore

import (
	"context"
	"sort"

	"github.com/mdkeep/mdkeep/internal/jsondb"
	"github.com/mdkeep/mdkeep/internal/models"
	"github.com/mdkeep/mdkeep/internal/storage"
)

// RecordAccess appends an access-log entry for the document and trims the
// physical log to the newest models.RecentLogCap entries by insertion order.
func (s *Store) RecordAccess(ctx context.Context, docID int64) (*models.RecentFile, error) {
	if s.documents.Get(docID) == nil {
		return nil, storage.ErrNotFound
	}
	var entry *models.RecentFile
	err := s.recents.Modify(func(x *jsondb.Txn[*models.RecentFile]) error {
		entry = &models.RecentFile{
			ID:         x.NextID(),
			DocumentID: docID,
			AccessedAt: storage.Now(),
		}
		x.Rows = append(x.Rows, entry)
		if len(x.Rows) > models.RecentLogCap {
			x.Rows = x.Rows[len(x.Rows)-models.RecentLogCap:]
		}
		x.Dirty = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry.Clone(), nil
}

// ListRecent returns up to limit entries ordered by accessed_at descending.
// Entries whose document no longer exists are filtered out; they can occur
// after a crash between the document-delete and recency-purge sections.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]*models.RecentFile, error) {
	alive := map[int64]bool{}
	for d := range s.documents.All() {
		alive[d.ID] = true
	}
	var out []*models.RecentFile
	for r := range s.recents.All() {
		if alive[r.DocumentID] {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AccessedAt.Equal(out[j].AccessedAt) {
			return out[i].AccessedAt.After(out[j].AccessedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// purgeRecents drops every log entry referencing one of the deleted
// documents.
func (s *Store) purgeRecents(docIDs []int64) error {
	dead := map[int64]bool{}
	for _, id := range docIDs {
		dead[id] = true
	}
	return s.recents.Modify(func(x *jsondb.Txn[*models.RecentFile]) error {
		kept := x.Rows[:0]
		for _, r := range x.Rows {
			if dead[r.DocumentID] {
				x.Dirty = true
				continue
			}
			kept = append(kept, r)
		}
		x.Rows = kept
		return nil
	})
}
