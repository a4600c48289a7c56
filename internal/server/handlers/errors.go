// Maps storage errors onto API errors.

package handlers

import (
	"errors"

	"github.com/mdkeep/mdkeep/internal/export"
	"github.com/mdkeep/mdkeep/internal/server/dto"
	"github.com/mdkeep/mdkeep/internal/storage"
)

// mapErr converts a storage or export error into an API error carrying the
// right status code. resource names the entity for not-found messages.
func mapErr(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return dto.NotFound(resource)
	case errors.Is(err, storage.ErrInvalidParent):
		return dto.InvalidParent()
	case errors.Is(err, export.ErrUnsafePath):
		return dto.UnsafePath()
	default:
		return dto.InternalWithError("storage operation failed", err)
	}
}
