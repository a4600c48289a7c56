// Defines shared dependencies for handlers.

package handlers

import (
	"context"

	"github.com/mdkeep/mdkeep/internal/storage"
	"github.com/mdkeep/mdkeep/internal/views"
)

// Handler holds the dependencies shared by all endpoint handlers.
type Handler struct {
	store       storage.Store
	exportsDir  string
	version     string
	recentLimit int
}

// New creates a Handler. recentLimit is the default page size for the
// recently-opened list when the request does not carry one.
func New(store storage.Store, exportsDir, version string, recentLimit int) *Handler {
	return &Handler{
		store:       store,
		exportsDir:  exportsDir,
		version:     version,
		recentLimit: recentLimit,
	}
}

// builder snapshots all collections into a views.Builder so computed fields
// (counts, folder names, embedded associations) resolve consistently within
// one request.
func (h *Handler) builder(ctx context.Context) (*views.Builder, error) {
	folders, err := h.store.ListFolders(ctx)
	if err != nil {
		return nil, err
	}
	docs, err := h.store.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := h.store.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	cats, err := h.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return views.NewBuilder(folders, docs, tags, cats), nil
}
