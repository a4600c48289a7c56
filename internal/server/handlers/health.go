package handlers

import (
	"context"

	"github.com/mdkeep/mdkeep/internal/server/dto"
)

// Health handles health check requests.
func (h *Handler) Health(ctx context.Context, req *dto.HealthRequest) (*dto.HealthResponse, error) {
	return &dto.HealthResponse{
		Status:  "ok",
		Version: h.version,
	}, nil
}
