// Package server implements the HTTP server and routing logic.
package server

import (
	"net/http"

	"github.com/mdkeep/mdkeep/internal/server/handlers"
	"github.com/mdkeep/mdkeep/internal/storage"
)

// NewRouter creates and configures the HTTP router over the given store.
func NewRouter(store storage.Store, exportsDir, version string, recentLimit int) http.Handler {
	h := handlers.New(store, exportsDir, version, recentLimit)
	mux := &http.ServeMux{}

	// Health and schema
	mux.Handle("GET /api/health", Wrap(h.Health))
	mux.Handle("GET /api/schema", Wrap(h.Schema))

	// Editor endpoints
	mux.Handle("POST /api/save", Wrap(h.SaveDocument))
	mux.Handle("POST /api/open/{id}", Wrap(h.OpenDocument))
	mux.Handle("GET /api/files", Wrap(h.ListDocuments))

	// Documents
	mux.Handle("GET /api/documents", Wrap(h.ListDocuments))
	mux.Handle("GET /api/documents/{id}", Wrap(h.GetDocument))
	mux.Handle("POST /api/documents", Wrap(h.CreateDocument))
	mux.Handle("PUT /api/documents/{id}", Wrap(h.UpdateDocument))
	mux.Handle("DELETE /api/documents/{id}", Wrap(h.DeleteDocument))
	mux.Handle("GET /api/search", Wrap(h.SearchDocuments))

	// Folders
	mux.Handle("GET /api/folders", Wrap(h.ListFolders))
	mux.Handle("GET /api/folders/{id}", Wrap(h.GetFolder))
	mux.Handle("POST /api/folders", Wrap(h.CreateFolder))
	mux.Handle("PUT /api/folders/{id}", Wrap(h.UpdateFolder))
	mux.Handle("DELETE /api/folders/{id}", Wrap(h.DeleteFolder))

	// Tags
	mux.Handle("GET /api/tags", Wrap(h.ListTags))
	mux.Handle("POST /api/tags", Wrap(h.CreateTag))
	mux.Handle("DELETE /api/tags/{id}", Wrap(h.DeleteTag))
	mux.Handle("POST /api/documents/{id}/tags/{tagID}", Wrap(h.AddDocumentTag))
	mux.Handle("DELETE /api/documents/{id}/tags/{tagID}", Wrap(h.RemoveDocumentTag))

	// Categories
	mux.Handle("GET /api/categories", Wrap(h.ListCategories))
	mux.Handle("POST /api/categories", Wrap(h.CreateCategory))
	mux.Handle("DELETE /api/categories/{id}", Wrap(h.DeleteCategory))
	mux.Handle("POST /api/documents/{id}/categories/{categoryID}", Wrap(h.AddDocumentCategory))
	mux.Handle("DELETE /api/documents/{id}/categories/{categoryID}", Wrap(h.RemoveDocumentCategory))

	// Recents
	mux.Handle("GET /api/recent", Wrap(h.ListRecent))

	// Exports (raw file downloads)
	mux.HandleFunc("GET /api/export/{id}/html", h.ExportHTML)
	mux.HandleFunc("GET /api/export/{id}/txt", h.ExportTXT)

	return recoverPanics(logRequests(mux))
}
