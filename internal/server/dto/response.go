// Defines API response envelopes.

package dto

import (
	"github.com/mdkeep/mdkeep/internal/views"
)

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// MessageResponse carries a human-readable confirmation for deletes and
// association changes.
type MessageResponse struct {
	Message string `json:"message"`
}

// FolderListResponse is the folder tree.
type FolderListResponse struct {
	Folders []views.FolderView `json:"folders"`
}

// DocumentListResponse is a list of documents.
type DocumentListResponse struct {
	Documents []views.DocumentView `json:"documents"`
	Total     int                  `json:"total"`
}

// TagListResponse is a list of tags.
type TagListResponse struct {
	Tags []views.TagView `json:"tags"`
}

// CategoryListResponse is a list of categories.
type CategoryListResponse struct {
	Categories []views.CategoryView `json:"categories"`
}

// RecentListResponse is the recently-opened list.
type RecentListResponse struct {
	Recent []views.RecentView `json:"recent"`
}
