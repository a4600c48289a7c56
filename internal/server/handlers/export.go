package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/mdkeep/mdkeep/internal/export"
	"github.com/mdkeep/mdkeep/internal/server/dto"
	"github.com/mdkeep/mdkeep/internal/storage"
)

// ExportHTML renders a document as a standalone HTML page, writes it under
// the exports directory and serves it as a download. Raw handler: the body
// is the file, not JSON.
func (h *Handler) ExportHTML(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "html", "text/html; charset=utf-8", func(title, content string) ([]byte, error) {
		return export.ToHTML(title, content)
	})
}

// ExportTXT serves a document's raw markdown source as a .txt download.
func (h *Handler) ExportTXT(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "txt", "text/plain; charset=utf-8", func(title, content string) ([]byte, error) {
		return export.ToText(content), nil
	})
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request, ext, contentType string, render func(title, content string) ([]byte, error)) {
	ctx := r.Context()
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeRawError(w, dto.BadRequest("Invalid document ID"))
		return
	}
	doc, err := h.store.GetDocument(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		writeRawError(w, dto.NotFound("document"))
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "Export failed", "err", err, "id", id)
		writeRawError(w, dto.Internal("Export failed"))
		return
	}

	data, err := render(doc.Filename, doc.Content)
	if err != nil {
		slog.ErrorContext(ctx, "Export render failed", "err", err, "id", id)
		writeRawError(w, dto.Internal("Export failed"))
		return
	}

	name := export.SanitizeFilename(strings.TrimSuffix(doc.Filename, ".md")) + "." + ext
	path, err := export.SafeJoin(h.exportsDir, name)
	if err != nil {
		writeRawError(w, dto.UnsafePath())
		return
	}
	if err := os.MkdirAll(h.exportsDir, 0o755); err != nil {
		slog.ErrorContext(ctx, "Failed to create exports directory", "err", err, "dir", h.exportsDir)
	} else if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.ErrorContext(ctx, "Failed to write export file", "err", err, "path", path)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if _, err := w.Write(data); err != nil {
		slog.ErrorContext(ctx, "Failed to write export response", "err", err)
	}
}

// writeRawError writes the standard JSON error envelope from a raw handler.
func writeRawError(w http.ResponseWriter, apiErr *dto.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.StatusCode())
	resp := dto.ErrorResponse{
		Error: dto.ErrorDetails{
			Code:    apiErr.Code(),
			Message: apiErr.Error(),
		},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}
