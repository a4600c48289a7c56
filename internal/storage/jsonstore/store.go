// Package jsonstore implements storage.Store on flat JSON files.
//
// Each entity collection lives in its own JSON array file under the data
// directory (folders.json, documents.json, tags.json, categories.json,
// recent_files.json), guarded by its own lock and rewritten whole on every
// mutation. Cross-collection cascades run as sequential independently-locked
// sections, not as one transaction; a crash between sections can leave
// orphaned references, which readers treat as "relation absent".
package jsonstore

import (
	"fmt"
	"path/filepath"

	"github.com/mdkeep/mdkeep/internal/jsondb"
	"github.com/mdkeep/mdkeep/internal/models"
)

// Store is the flat-file implementation of storage.Store.
type Store struct {
	folders    *jsondb.Table[*models.Folder]
	documents  *jsondb.Table[*models.Document]
	tags       *jsondb.Table[*models.Tag]
	categories *jsondb.Table[*models.Category]
	recents    *jsondb.Table[*models.RecentFile]
}

// New opens (or initializes) a store rooted at dataDir.
func New(dataDir string) (*Store, error) {
	s := &Store{}
	var err error
	if s.folders, err = jsondb.NewTable[*models.Folder](filepath.Join(dataDir, "folders.json")); err != nil {
		return nil, fmt.Errorf("failed to open folders table: %w", err)
	}
	if s.documents, err = jsondb.NewTable[*models.Document](filepath.Join(dataDir, "documents.json")); err != nil {
		return nil, fmt.Errorf("failed to open documents table: %w", err)
	}
	if s.tags, err = jsondb.NewTable[*models.Tag](filepath.Join(dataDir, "tags.json")); err != nil {
		return nil, fmt.Errorf("failed to open tags table: %w", err)
	}
	if s.categories, err = jsondb.NewTable[*models.Category](filepath.Join(dataDir, "categories.json")); err != nil {
		return nil, fmt.Errorf("failed to open categories table: %w", err)
	}
	if s.recents, err = jsondb.NewTable[*models.RecentFile](filepath.Join(dataDir, "recent_files.json")); err != nil {
		return nil, fmt.Errorf("failed to open recent files table: %w", err)
	}
	return s, nil
}

// Reload re-reads every collection from disk. Called when the data directory
// was modified outside the process.
func (s *Store) Reload() {
	s.folders.Reload()
	s.documents.Reload()
	s.tags.Reload()
	s.categories.Reload()
	s.recents.Reload()
}

// Close implements storage.Store. The tables hold no open handles.
func (s *Store) Close() error {
	return nil
}
