package handlers

import (
	"context"
	"strings"

	"github.com/mdkeep/mdkeep/internal/models"
	"github.com/mdkeep/mdkeep/internal/server/dto"
	"github.com/mdkeep/mdkeep/internal/storage"
	"github.com/mdkeep/mdkeep/internal/views"
)

// ListDocuments lists documents, optionally scoped to a folder. Content is
// omitted unless include_content is set.
func (h *Handler) ListDocuments(ctx context.Context, req *dto.ListDocumentsRequest) (*dto.DocumentListResponse, error) {
	var docs []*models.Document
	var err error
	if req.FolderID != 0 {
		docs, err = h.store.ListDocumentsByFolder(ctx, req.FolderID)
	} else {
		docs, err = h.store.ListDocuments(ctx)
	}
	if err != nil {
		return nil, mapErr(err, "document")
	}
	b, err := h.builder(ctx)
	if err != nil {
		return nil, mapErr(err, "document")
	}
	out := b.Documents(docs, req.IncludeContent)
	return &dto.DocumentListResponse{Documents: out, Total: len(out)}, nil
}

// GetDocument returns one document with its content.
func (h *Handler) GetDocument(ctx context.Context, req *dto.GetDocumentRequest) (*views.DocumentView, error) {
	d, err := h.store.GetDocument(ctx, req.ID)
	if err != nil {
		return nil, mapErr(err, "document")
	}
	return h.documentView(ctx, d)
}

// CreateDocument creates a document.
func (h *Handler) CreateDocument(ctx context.Context, req *dto.CreateDocumentRequest) (*views.DocumentView, error) {
	d, err := h.store.CreateDocument(ctx, req.Filename, req.Content, req.FolderID)
	if err != nil {
		return nil, mapErr(err, "document")
	}
	return h.documentView(ctx, d)
}

// UpdateDocument partially updates a document.
func (h *Handler) UpdateDocument(ctx context.Context, req *dto.UpdateDocumentRequest) (*views.DocumentView, error) {
	d, err := h.store.UpdateDocument(ctx, req.ID, req.DocumentPatch)
	if err != nil {
		return nil, mapErr(err, "document")
	}
	return h.documentView(ctx, d)
}

// DeleteDocument deletes a document.
func (h *Handler) DeleteDocument(ctx context.Context, req *dto.DeleteDocumentRequest) (*dto.MessageResponse, error) {
	if err := h.store.DeleteDocument(ctx, req.ID); err != nil {
		return nil, mapErr(err, "document")
	}
	return &dto.MessageResponse{Message: "Document deleted"}, nil
}

// SaveDocument is the editor's save path: an upsert keyed by document_id or
// (filename, folder_id). A missing .md extension is appended.
func (h *Handler) SaveDocument(ctx context.Context, req *dto.SaveDocumentRequest) (*views.DocumentView, error) {
	filename := req.Filename
	if !strings.HasSuffix(filename, ".md") {
		filename += ".md"
	}
	d, err := h.store.SaveDocument(ctx, storage.SaveRequest{
		DocumentID: req.DocumentID,
		Filename:   filename,
		Content:    req.Content,
		FolderID:   req.FolderID,
	})
	if err != nil {
		return nil, mapErr(err, "document")
	}
	return h.documentView(ctx, d)
}

// OpenDocument returns a document with content, stamps last_opened_at and
// records the access in the recent-files log.
func (h *Handler) OpenDocument(ctx context.Context, req *dto.OpenDocumentRequest) (*views.DocumentView, error) {
	d, err := h.store.UpdateDocument(ctx, req.ID, models.DocumentPatch{
		LastOpenedAt: models.Set(storage.Now()),
	})
	if err != nil {
		return nil, mapErr(err, "document")
	}
	if _, err := h.store.RecordAccess(ctx, d.ID); err != nil {
		return nil, mapErr(err, "document")
	}
	return h.documentView(ctx, d)
}

// SearchDocuments filters documents by text and the optional conjunctive
// filters. Results carry no content.
func (h *Handler) SearchDocuments(ctx context.Context, req *dto.SearchRequest) (*dto.DocumentListResponse, error) {
	q := storage.SearchQuery{Text: req.Q}
	if req.TagID != 0 {
		q.TagID = &req.TagID
	}
	if req.CategoryID != 0 {
		q.CategoryID = &req.CategoryID
	}
	if req.Favorite != "" {
		v := req.Favorite == "true"
		q.Favorite = &v
	}
	if req.Pinned != "" {
		v := req.Pinned == "true"
		q.Pinned = &v
	}
	docs, err := h.store.SearchDocuments(ctx, q)
	if err != nil {
		return nil, mapErr(err, "document")
	}
	b, err := h.builder(ctx)
	if err != nil {
		return nil, mapErr(err, "document")
	}
	out := b.Documents(docs, false)
	return &dto.DocumentListResponse{Documents: out, Total: len(out)}, nil
}

func (h *Handler) documentView(ctx context.Context, d *models.Document) (*views.DocumentView, error) {
	b, err := h.builder(ctx)
	if err != nil {
		return nil, mapErr(err, "document")
	}
	v := b.Document(d, true)
	return &v, nil
}
