package handlers

import (
	"context"

	"github.com/mdkeep/mdkeep/internal/server/dto"
	"github.com/mdkeep/mdkeep/internal/views"
)

// ListFolders returns the full folder tree, roots ordered by position.
func (h *Handler) ListFolders(ctx context.Context, req *dto.ListFoldersRequest) (*dto.FolderListResponse, error) {
	b, err := h.builder(ctx)
	if err != nil {
		return nil, mapErr(err, "folder")
	}
	return &dto.FolderListResponse{Folders: b.FolderTree()}, nil
}

// GetFolder returns one folder with its subtree.
func (h *Handler) GetFolder(ctx context.Context, req *dto.GetFolderRequest) (*views.FolderView, error) {
	f, err := h.store.GetFolder(ctx, req.ID)
	if err != nil {
		return nil, mapErr(err, "folder")
	}
	b, err := h.builder(ctx)
	if err != nil {
		return nil, mapErr(err, "folder")
	}
	v := b.Folder(f)
	return &v, nil
}

// CreateFolder creates a folder.
func (h *Handler) CreateFolder(ctx context.Context, req *dto.CreateFolderRequest) (*views.FolderView, error) {
	f, err := h.store.CreateFolder(ctx, req.Name, req.ParentID, req.Color, req.Icon)
	if err != nil {
		return nil, mapErr(err, "parent folder")
	}
	b, err := h.builder(ctx)
	if err != nil {
		return nil, mapErr(err, "folder")
	}
	v := b.Folder(f)
	return &v, nil
}

// UpdateFolder partially updates a folder.
func (h *Handler) UpdateFolder(ctx context.Context, req *dto.UpdateFolderRequest) (*views.FolderView, error) {
	f, err := h.store.UpdateFolder(ctx, req.ID, req.FolderPatch)
	if err != nil {
		return nil, mapErr(err, "folder")
	}
	b, err := h.builder(ctx)
	if err != nil {
		return nil, mapErr(err, "folder")
	}
	v := b.Folder(f)
	return &v, nil
}

// DeleteFolder deletes a folder and its descendants. Documents directly
// inside move to the root; documents in descendant folders are deleted.
func (h *Handler) DeleteFolder(ctx context.Context, req *dto.DeleteFolderRequest) (*dto.MessageResponse, error) {
	if err := h.store.DeleteFolder(ctx, req.ID); err != nil {
		return nil, mapErr(err, "folder")
	}
	return &dto.MessageResponse{Message: "Folder deleted"}, nil
}
