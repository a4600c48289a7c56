package handlers

import (
	"context"

	"github.com/mdkeep/mdkeep/internal/server/dto"
	"github.com/mdkeep/mdkeep/internal/views"
)

// ListTags returns all tags with their document counts.
func (h *Handler) ListTags(ctx context.Context, req *dto.ListTagsRequest) (*dto.TagListResponse, error) {
	tags, err := h.store.ListTags(ctx)
	if err != nil {
		return nil, mapErr(err, "tag")
	}
	b, err := h.builder(ctx)
	if err != nil {
		return nil, mapErr(err, "tag")
	}
	return &dto.TagListResponse{Tags: b.Tags(tags)}, nil
}

// CreateTag creates a tag; an existing name returns the existing tag.
func (h *Handler) CreateTag(ctx context.Context, req *dto.CreateTagRequest) (*views.TagView, error) {
	t, err := h.store.CreateTag(ctx, req.Name, req.Color)
	if err != nil {
		return nil, mapErr(err, "tag")
	}
	b, err := h.builder(ctx)
	if err != nil {
		return nil, mapErr(err, "tag")
	}
	v := b.Tag(t)
	return &v, nil
}

// DeleteTag removes a tag and strips it from every document.
func (h *Handler) DeleteTag(ctx context.Context, req *dto.DeleteTagRequest) (*dto.MessageResponse, error) {
	if err := h.store.DeleteTag(ctx, req.ID); err != nil {
		return nil, mapErr(err, "tag")
	}
	return &dto.MessageResponse{Message: "Tag deleted"}, nil
}

// AddDocumentTag tags a document. Idempotent.
func (h *Handler) AddDocumentTag(ctx context.Context, req *dto.TagDocumentRequest) (*dto.MessageResponse, error) {
	if err := h.store.AddDocumentTag(ctx, req.DocumentID, req.TagID); err != nil {
		return nil, mapErr(err, "document")
	}
	return &dto.MessageResponse{Message: "Tag added"}, nil
}

// RemoveDocumentTag untags a document. Idempotent.
func (h *Handler) RemoveDocumentTag(ctx context.Context, req *dto.TagDocumentRequest) (*dto.MessageResponse, error) {
	if err := h.store.RemoveDocumentTag(ctx, req.DocumentID, req.TagID); err != nil {
		return nil, mapErr(err, "document")
	}
	return &dto.MessageResponse{Message: "Tag removed"}, nil
}
