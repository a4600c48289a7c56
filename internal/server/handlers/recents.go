package handlers

import (
	"context"

	"github.com/mdkeep/mdkeep/internal/server/dto"
)

// ListRecent returns the recently-opened documents, newest first. When the
// request carries no limit the handler's configured default applies.
func (h *Handler) ListRecent(ctx context.Context, req *dto.ListRecentRequest) (*dto.RecentListResponse, error) {
	limit := req.Limit
	if limit == 0 {
		limit = h.recentLimit
	}
	entries, err := h.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, mapErr(err, "document")
	}
	b, err := h.builder(ctx)
	if err != nil {
		return nil, mapErr(err, "document")
	}
	return &dto.RecentListResponse{Recent: b.Recents(entries)}, nil
}
