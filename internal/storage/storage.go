// Package storage defines the contract shared by the persistence backends.
//
// Two implementations exist: a flat-file JSON store (jsonstore) and a SQLite
// store (sqlstore). They must behave identically from the caller's
// perspective; the storetest package holds the shared contract suite that
// both run.
package storage

import (
	"context"
	"errors"

	"github.com/mdkeep/mdkeep/internal/models"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	// Deletes never return it: deleting an unknown ID is a no-op.
	ErrNotFound = errors.New("not found")

	// ErrInvalidParent is returned when a folder update points parent_id at
	// a missing folder, the folder itself, or one of its descendants.
	ErrInvalidParent = errors.New("invalid parent folder")
)

// SearchQuery selects documents. Text matches when it is a case-insensitive
// substring of the filename or the content; the remaining filters are
// conjunctive.
type SearchQuery struct {
	Text       string
	TagID      *int64
	CategoryID *int64
	Favorite   *bool
	Pinned     *bool
}

// SaveRequest is the upsert used by the editor's save path. When DocumentID
// is set, it updates that document (or creates a fresh one if the ID is
// stale). Otherwise the document is keyed by (filename, folder_id): an
// existing match gets only its content rewritten, else a new document is
// created.
type SaveRequest struct {
	DocumentID *int64
	Filename   string
	Content    string
	FolderID   *int64
}

// Store is the full capability set of a persistence backend.
//
// Reads return ErrNotFound for unknown IDs; deletes are idempotent and never
// fail on unknown IDs. Each entity collection mutation is atomic; cascades
// spanning collections are sequential per-collection steps and may leave
// orphaned references after a crash mid-cascade, which readers tolerate.
type Store interface {
	// Folders.
	CreateFolder(ctx context.Context, name string, parentID *int64, color, icon string) (*models.Folder, error)
	GetFolder(ctx context.Context, id int64) (*models.Folder, error)
	ListFolders(ctx context.Context) ([]*models.Folder, error)
	UpdateFolder(ctx context.Context, id int64, patch models.FolderPatch) (*models.Folder, error)
	// DeleteFolder deletes the folder and every descendant folder. Documents
	// directly inside the deleted folder are detached (folder_id set to
	// null); documents inside descendant folders are deleted along with
	// their associations and recency entries.
	DeleteFolder(ctx context.Context, id int64) error

	// Documents. A folder_id with no matching folder is recorded as given,
	// never rejected; readers resolve it as absent.
	CreateDocument(ctx context.Context, filename, content string, folderID *int64) (*models.Document, error)
	GetDocument(ctx context.Context, id int64) (*models.Document, error)
	ListDocuments(ctx context.Context) ([]*models.Document, error)
	ListDocumentsByFolder(ctx context.Context, folderID int64) ([]*models.Document, error)
	UpdateDocument(ctx context.Context, id int64, patch models.DocumentPatch) (*models.Document, error)
	DeleteDocument(ctx context.Context, id int64) error
	SaveDocument(ctx context.Context, req SaveRequest) (*models.Document, error)
	SearchDocuments(ctx context.Context, q SearchQuery) ([]*models.Document, error)

	// Tags. Create is idempotent by name: an existing name returns the
	// existing tag unchanged.
	CreateTag(ctx context.Context, name, color string) (*models.Tag, error)
	GetTag(ctx context.Context, id int64) (*models.Tag, error)
	ListTags(ctx context.Context) ([]*models.Tag, error)
	DeleteTag(ctx context.Context, id int64) error

	// Categories. Same idempotent-create behavior as tags.
	CreateCategory(ctx context.Context, name, color, icon string) (*models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	// Associations. Adds and removes are idempotent; ErrNotFound only when
	// the document does not exist. A tag or category ID with no matching
	// entity is recorded as given, never rejected; readers resolve it as
	// absent.
	AddDocumentTag(ctx context.Context, docID, tagID int64) error
	RemoveDocumentTag(ctx context.Context, docID, tagID int64) error
	AddDocumentCategory(ctx context.Context, docID, catID int64) error
	RemoveDocumentCategory(ctx context.Context, docID, catID int64) error

	// Recents. RecordAccess appends a timestamped entry and trims the
	// physical log to the newest models.RecentLogCap entries. ListRecent
	// returns entries ordered by accessed_at descending, filtering out
	// entries whose document no longer exists.
	RecordAccess(ctx context.Context, docID int64) (*models.RecentFile, error)
	ListRecent(ctx context.Context, limit int) ([]*models.RecentFile, error)

	Close() error
}
