package storage

import (
	"strings"
	"time"

	"github.com/mdkeep/mdkeep/internal/models"
)

// Now returns the current time in UTC truncated to whole seconds, matching
// the RFC3339 precision the stores persist.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// ApplyFolderPatch merges patch into f and re-stamps UpdatedAt. Both backends
// share it so partial-update semantics cannot drift apart. Parent validation
// is the caller's job.
func ApplyFolderPatch(f *models.Folder, patch models.FolderPatch) {
	if patch.Name != nil {
		f.Name = *patch.Name
	}
	if patch.ParentID.Present {
		f.ParentID = patch.ParentID.Value
	}
	if patch.Color != nil {
		f.Color = *patch.Color
	}
	if patch.Icon != nil {
		f.Icon = *patch.Icon
	}
	if patch.Position != nil {
		f.Position = *patch.Position
	}
	f.UpdatedAt = Now()
}

// ApplyDocumentPatch merges patch into d and re-stamps UpdatedAt.
func ApplyDocumentPatch(d *models.Document, patch models.DocumentPatch) {
	if patch.Filename != nil {
		d.Filename = *patch.Filename
	}
	if patch.Content != nil {
		d.Content = *patch.Content
	}
	if patch.FolderID.Present {
		d.FolderID = patch.FolderID.Value
	}
	if patch.IsFavorite != nil {
		d.IsFavorite = *patch.IsFavorite
	}
	if patch.IsPinned != nil {
		d.IsPinned = *patch.IsPinned
	}
	if patch.LastOpenedAt.Present {
		d.LastOpenedAt = patch.LastOpenedAt.Value
	}
	d.UpdatedAt = Now()
}

// MatchesQuery reports whether doc satisfies q: the text predicate plus all
// set filters, ANDed together.
func MatchesQuery(doc *models.Document, q SearchQuery) bool {
	if q.Text != "" {
		needle := strings.ToLower(q.Text)
		if !strings.Contains(strings.ToLower(doc.Filename), needle) &&
			!strings.Contains(strings.ToLower(doc.Content), needle) {
			return false
		}
	}
	if q.TagID != nil && !doc.HasTag(*q.TagID) {
		return false
	}
	if q.CategoryID != nil && !doc.HasCategory(*q.CategoryID) {
		return false
	}
	if q.Favorite != nil && doc.IsFavorite != *q.Favorite {
		return false
	}
	if q.Pinned != nil && doc.IsPinned != *q.Pinned {
		return false
	}
	return true
}

// SameFolder compares two nullable folder references.
func SameFolder(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
