package handlers

import (
	"context"

	"github.com/invopop/jsonschema"

	"github.com/mdkeep/mdkeep/internal/models"
	"github.com/mdkeep/mdkeep/internal/server/dto"
)

// SchemaResponse maps entity names to their JSON schemas.
type SchemaResponse struct {
	Schemas map[string]*jsonschema.Schema `json:"schemas"`
}

// Schema returns JSON schemas for the stored entity types, generated by
// reflection over the model structs.
func (h *Handler) Schema(ctx context.Context, req *dto.SchemaRequest) (*SchemaResponse, error) {
	r := &jsonschema.Reflector{DoNotReference: true}
	return &SchemaResponse{
		Schemas: map[string]*jsonschema.Schema{
			"folder":      r.Reflect(&models.Folder{}),
			"document":    r.Reflect(&models.Document{}),
			"tag":         r.Reflect(&models.Tag{}),
			"category":    r.Reflect(&models.Category{}),
			"recent_file": r.Reflect(&models.RecentFile{}),
		},
	}, nil
}
