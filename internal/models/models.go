// Package models defines the core entities of the note store.
package models

import (
	"time"
)

// Default appearance values, applied when a create request leaves them empty.
const (
	DefaultFolderColor   = "#6366f1"
	DefaultFolderIcon    = "folder"
	DefaultTagColor      = "#6366f1"
	DefaultCategoryColor = "#ec4899"
	DefaultCategoryIcon  = "bookmark"
)

// RecentLogCap is the maximum number of entries retained in the recent-files
// log. Oldest entries are trimmed on insert.
const RecentLogCap = 50

// Folder is a node in the self-referential folder tree.
type Folder struct {
	ID        int64     `json:"id" jsonschema:"description=Unique folder identifier"`
	Name      string    `json:"name" jsonschema:"description=Folder display name"`
	ParentID  *int64    `json:"parent_id" jsonschema:"description=Parent folder ID; null for root folders"`
	Color     string    `json:"color" jsonschema:"description=Display color as a hex string"`
	Icon      string    `json:"icon" jsonschema:"description=Display icon name"`
	Position  int       `json:"position" jsonschema:"description=Sibling ordering position"`
	CreatedAt time.Time `json:"created_at" jsonschema:"description=Creation timestamp (RFC3339 UTC)"`
	UpdatedAt time.Time `json:"updated_at" jsonschema:"description=Last modification timestamp (RFC3339 UTC)"`
}

// Clone returns a deep copy of the Folder.
func (f *Folder) Clone() *Folder {
	c := *f
	if f.ParentID != nil {
		v := *f.ParentID
		c.ParentID = &v
	}
	return &c
}

// GetID returns the Folder's ID.
func (f *Folder) GetID() int64 {
	return f.ID
}

// Document is a markdown document.
type Document struct {
	ID           int64      `json:"id" jsonschema:"description=Unique document identifier"`
	Filename     string     `json:"filename" jsonschema:"description=Document filename; unique per folder on the save path"`
	Content      string     `json:"content" jsonschema:"description=Markdown source"`
	FolderID     *int64     `json:"folder_id" jsonschema:"description=Containing folder ID; null when unfiled"`
	IsFavorite   bool       `json:"is_favorite" jsonschema:"description=Favorite flag"`
	IsPinned     bool       `json:"is_pinned" jsonschema:"description=Pinned flag"`
	CreatedAt    time.Time  `json:"created_at" jsonschema:"description=Creation timestamp (RFC3339 UTC)"`
	UpdatedAt    time.Time  `json:"updated_at" jsonschema:"description=Last modification timestamp (RFC3339 UTC)"`
	LastOpenedAt *time.Time `json:"last_opened_at" jsonschema:"description=Last opened timestamp; null if never opened"`
	TagIDs       []int64    `json:"tag_ids" jsonschema:"description=IDs of associated tags"`
	CategoryIDs  []int64    `json:"category_ids" jsonschema:"description=IDs of associated categories"`
}

// Clone returns a deep copy of the Document.
func (d *Document) Clone() *Document {
	c := *d
	if d.FolderID != nil {
		v := *d.FolderID
		c.FolderID = &v
	}
	if d.LastOpenedAt != nil {
		v := *d.LastOpenedAt
		c.LastOpenedAt = &v
	}
	// Association slices stay non-nil so callers and JSON output always see
	// arrays, never null.
	c.TagIDs = append(make([]int64, 0, len(d.TagIDs)), d.TagIDs...)
	c.CategoryIDs = append(make([]int64, 0, len(d.CategoryIDs)), d.CategoryIDs...)
	return &c
}

// GetID returns the Document's ID.
func (d *Document) GetID() int64 {
	return d.ID
}

// Size returns the UTF-8 byte length of the document content.
func (d *Document) Size() int {
	return len(d.Content)
}

// HasTag reports whether the document is associated with the tag.
func (d *Document) HasTag(tagID int64) bool {
	for _, id := range d.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// HasCategory reports whether the document is associated with the category.
func (d *Document) HasCategory(catID int64) bool {
	for _, id := range d.CategoryIDs {
		if id == catID {
			return true
		}
	}
	return false
}

// Tag is a label attached to documents. Names are globally unique.
type Tag struct {
	ID        int64     `json:"id" jsonschema:"description=Unique tag identifier"`
	Name      string    `json:"name" jsonschema:"description=Globally unique tag name"`
	Color     string    `json:"color" jsonschema:"description=Display color as a hex string"`
	CreatedAt time.Time `json:"created_at" jsonschema:"description=Creation timestamp (RFC3339 UTC)"`
}

// Clone returns a copy of the Tag.
func (t *Tag) Clone() *Tag {
	c := *t
	return &c
}

// GetID returns the Tag's ID.
func (t *Tag) GetID() int64 {
	return t.ID
}

// Category groups documents. Same shape as Tag plus an icon.
type Category struct {
	ID        int64     `json:"id" jsonschema:"description=Unique category identifier"`
	Name      string    `json:"name" jsonschema:"description=Globally unique category name"`
	Color     string    `json:"color" jsonschema:"description=Display color as a hex string"`
	Icon      string    `json:"icon" jsonschema:"description=Display icon name"`
	CreatedAt time.Time `json:"created_at" jsonschema:"description=Creation timestamp (RFC3339 UTC)"`
}

// Clone returns a copy of the Category.
func (c *Category) Clone() *Category {
	d := *c
	return &d
}

// GetID returns the Category's ID.
func (c *Category) GetID() int64 {
	return c.ID
}

// RecentFile is one access-log entry. The log is append-only but bounded to
// [RecentLogCap] entries.
type RecentFile struct {
	ID         int64     `json:"id" jsonschema:"description=Unique entry identifier"`
	DocumentID int64     `json:"document_id" jsonschema:"description=Accessed document ID"`
	AccessedAt time.Time `json:"accessed_at" jsonschema:"description=Access timestamp (RFC3339 UTC)"`
}

// Clone returns a copy of the RecentFile.
func (r *RecentFile) Clone() *RecentFile {
	c := *r
	return &c
}

// GetID returns the RecentFile's ID.
func (r *RecentFile) GetID() int64 {
	return r.ID
}
