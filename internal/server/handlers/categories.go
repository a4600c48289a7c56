package handlers

import (
	"context"

	"github.com/mdkeep/mdkeep/internal/server/dto"
	"github.com/mdkeep/mdkeep/internal/views"
)

// ListCategories returns all categories with their document counts.
func (h *Handler) ListCategories(ctx context.Context, req *dto.ListCategoriesRequest) (*dto.CategoryListResponse, error) {
	cats, err := h.store.ListCategories(ctx)
	if err != nil {
		return nil, mapErr(err, "category")
	}
	b, err := h.builder(ctx)
	if err != nil {
		return nil, mapErr(err, "category")
	}
	return &dto.CategoryListResponse{Categories: b.Categories(cats)}, nil
}

// CreateCategory creates a category; an existing name returns the existing
// category.
func (h *Handler) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*views.CategoryView, error) {
	c, err := h.store.CreateCategory(ctx, req.Name, req.Color, req.Icon)
	if err != nil {
		return nil, mapErr(err, "category")
	}
	b, err := h.builder(ctx)
	if err != nil {
		return nil, mapErr(err, "category")
	}
	v := b.Category(c)
	return &v, nil
}

// DeleteCategory removes a category and strips it from every document.
func (h *Handler) DeleteCategory(ctx context.Context, req *dto.DeleteCategoryRequest) (*dto.MessageResponse, error) {
	if err := h.store.DeleteCategory(ctx, req.ID); err != nil {
		return nil, mapErr(err, "category")
	}
	return &dto.MessageResponse{Message: "Category deleted"}, nil
}

// AddDocumentCategory files a document under a category. Idempotent.
func (h *Handler) AddDocumentCategory(ctx context.Context, req *dto.CategorizeDocumentRequest) (*dto.MessageResponse, error) {
	if err := h.store.AddDocumentCategory(ctx, req.DocumentID, req.CategoryID); err != nil {
		return nil, mapErr(err, "document")
	}
	return &dto.MessageResponse{Message: "Category added"}, nil
}

// RemoveDocumentCategory removes a document from a category. Idempotent.
func (h *Handler) RemoveDocumentCategory(ctx context.Context, req *dto.CategorizeDocumentRequest) (*dto.MessageResponse, error) {
	if err := h.store.RemoveDocumentCategory(ctx, req.DocumentID, req.CategoryID); err != nil {
		return nil, mapErr(err, "document")
	}
	return &dto.MessageResponse{Message: "Category removed"}, nil
}
