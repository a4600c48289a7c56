// Package views builds the external JSON representations of the core
// entities. Views carry computed fields (sizes, counts, resolved names,
// embedded associations) that the stored models do not.
package views

import (
	"sort"
	"time"

	"github.com/mdkeep/mdkeep/internal/models"
)

// TagView is the external form of a tag.
type TagView struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Color         string `json:"color"`
	CreatedAt     string `json:"created_at"`
	DocumentCount int    `json:"document_count"`
}

// CategoryView is the external form of a category.
type CategoryView struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Color         string `json:"color"`
	Icon          string `json:"icon"`
	CreatedAt     string `json:"created_at"`
	DocumentCount int    `json:"document_count"`
}

// DocumentView is the external form of a document. Content is omitted unless
// the builder is asked for it; Size always reflects the full content.
type DocumentView struct {
	ID           int64          `json:"id"`
	Filename     string         `json:"filename"`
	Content      *string        `json:"content,omitempty"`
	Size         int            `json:"size"`
	FolderID     *int64         `json:"folder_id"`
	FolderName   *string        `json:"folder_name"`
	IsFavorite   bool           `json:"is_favorite"`
	IsPinned     bool           `json:"is_pinned"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
	LastOpenedAt *string        `json:"last_opened_at"`
	Tags         []TagView      `json:"tags"`
	Categories   []CategoryView `json:"categories"`
}

// FolderView is the external form of a folder, carrying its subtree.
type FolderView struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	ParentID      *int64       `json:"parent_id"`
	Color         string       `json:"color"`
	Icon          string       `json:"icon"`
	Position      int          `json:"position"`
	CreatedAt     string       `json:"created_at"`
	UpdatedAt     string       `json:"updated_at"`
	DocumentCount int          `json:"document_count"`
	Children      []FolderView `json:"children"`
}

// RecentView is one recent-files entry with its document embedded.
type RecentView struct {
	ID         int64        `json:"id"`
	AccessedAt string       `json:"accessed_at"`
	Document   DocumentView `json:"document"`
}

// Builder resolves cross-entity references while building views. It holds a
// point-in-time snapshot of the collections; build one per request.
type Builder struct {
	folders    []*models.Folder
	documents  []*models.Document
	folderByID map[int64]*models.Folder
	tagByID    map[int64]*models.Tag
	catByID    map[int64]*models.Category
}

// NewBuilder creates a Builder over snapshots of all four collections.
func NewBuilder(folders []*models.Folder, documents []*models.Document, tags []*models.Tag, categories []*models.Category) *Builder {
	b := &Builder{
		folders:    folders,
		documents:  documents,
		folderByID: make(map[int64]*models.Folder, len(folders)),
		tagByID:    make(map[int64]*models.Tag, len(tags)),
		catByID:    make(map[int64]*models.Category, len(categories)),
	}
	for _, f := range folders {
		b.folderByID[f.ID] = f
	}
	for _, t := range tags {
		b.tagByID[t.ID] = t
	}
	for _, c := range categories {
		b.catByID[c.ID] = c
	}
	return b
}

// Document builds the view for d. Content is only carried when includeContent
// is set; list endpoints leave it out to keep payloads small.
func (b *Builder) Document(d *models.Document, includeContent bool) DocumentView {
	v := DocumentView{
		ID:         d.ID,
		Filename:   d.Filename,
		Size:       d.Size(),
		FolderID:   d.FolderID,
		IsFavorite: d.IsFavorite,
		IsPinned:   d.IsPinned,
		CreatedAt:  fmtTime(d.CreatedAt),
		UpdatedAt:  fmtTime(d.UpdatedAt),
		Tags:       []TagView{},
		Categories: []CategoryView{},
	}
	if includeContent {
		content := d.Content
		v.Content = &content
	}
	if d.FolderID != nil {
		if f := b.folderByID[*d.FolderID]; f != nil {
			name := f.Name
			v.FolderName = &name
		}
	}
	if d.LastOpenedAt != nil {
		s := fmtTime(*d.LastOpenedAt)
		v.LastOpenedAt = &s
	}
	for _, id := range d.TagIDs {
		if t := b.tagByID[id]; t != nil {
			v.Tags = append(v.Tags, b.Tag(t))
		}
	}
	for _, id := range d.CategoryIDs {
		if c := b.catByID[id]; c != nil {
			v.Categories = append(v.Categories, b.Category(c))
		}
	}
	return v
}

// Documents builds views for a document list.
func (b *Builder) Documents(docs []*models.Document, includeContent bool) []DocumentView {
	out := make([]DocumentView, 0, len(docs))
	for _, d := range docs {
		out = append(out, b.Document(d, includeContent))
	}
	return out
}

// Folder builds the view for f including its full subtree. Children are
// ordered by position, then by ID for stability.
func (b *Builder) Folder(f *models.Folder) FolderView {
	v := FolderView{
		ID:        f.ID,
		Name:      f.Name,
		ParentID:  f.ParentID,
		Color:     f.Color,
		Icon:      f.Icon,
		Position:  f.Position,
		CreatedAt: fmtTime(f.CreatedAt),
		UpdatedAt: fmtTime(f.UpdatedAt),
		Children:  []FolderView{},
	}
	for _, d := range b.documents {
		if d.FolderID != nil && *d.FolderID == f.ID {
			v.DocumentCount++
		}
	}
	var children []*models.Folder
	for _, c := range b.folders {
		if c.ParentID != nil && *c.ParentID == f.ID {
			children = append(children, c)
		}
	}
	sortFolders(children)
	for _, c := range children {
		v.Children = append(v.Children, b.Folder(c))
	}
	return v
}

// FolderTree builds views for all root folders, ordered by position.
func (b *Builder) FolderTree() []FolderView {
	var roots []*models.Folder
	for _, f := range b.folders {
		if f.ParentID == nil {
			roots = append(roots, f)
		}
	}
	sortFolders(roots)
	out := make([]FolderView, 0, len(roots))
	for _, f := range roots {
		out = append(out, b.Folder(f))
	}
	return out
}

// Tag builds the view for t, counting its documents.
func (b *Builder) Tag(t *models.Tag) TagView {
	v := TagView{
		ID:        t.ID,
		Name:      t.Name,
		Color:     t.Color,
		CreatedAt: fmtTime(t.CreatedAt),
	}
	for _, d := range b.documents {
		if d.HasTag(t.ID) {
			v.DocumentCount++
		}
	}
	return v
}

// Tags builds views for a tag list.
func (b *Builder) Tags(tags []*models.Tag) []TagView {
	out := make([]TagView, 0, len(tags))
	for _, t := range tags {
		out = append(out, b.Tag(t))
	}
	return out
}

// Category builds the view for c, counting its documents.
func (b *Builder) Category(c *models.Category) CategoryView {
	v := CategoryView{
		ID:        c.ID,
		Name:      c.Name,
		Color:     c.Color,
		Icon:      c.Icon,
		CreatedAt: fmtTime(c.CreatedAt),
	}
	for _, d := range b.documents {
		if d.HasCategory(c.ID) {
			v.DocumentCount++
		}
	}
	return v
}

// Categories builds views for a category list.
func (b *Builder) Categories(cats []*models.Category) []CategoryView {
	out := make([]CategoryView, 0, len(cats))
	for _, c := range cats {
		out = append(out, b.Category(c))
	}
	return out
}

// Recent builds the view for r. The second return is false when the
// document no longer exists; callers skip those entries.
func (b *Builder) Recent(r *models.RecentFile) (RecentView, bool) {
	for _, d := range b.documents {
		if d.ID == r.DocumentID {
			return RecentView{
				ID:         r.ID,
				AccessedAt: fmtTime(r.AccessedAt),
				Document:   b.Document(d, false),
			}, true
		}
	}
	return RecentView{}, false
}

// Recents builds views for a recent-files list, dropping dangling entries.
func (b *Builder) Recents(entries []*models.RecentFile) []RecentView {
	out := make([]RecentView, 0, len(entries))
	for _, r := range entries {
		if v, ok := b.Recent(r); ok {
			out = append(out, v)
		}
	}
	return out
}

func sortFolders(fs []*models.Folder) {
	sort.Slice(fs, func(i, j int) bool {
		if fs[i].Position != fs[j].Position {
			return fs[i].Position < fs[j].Position
		}
		return fs[i].ID < fs[j].ID
	})
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
