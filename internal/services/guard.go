package services

import (
	"context"
	"errors"

	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
)

// OwnerLookup resolves the owner of a playlist.
type OwnerLookup interface {
	OwnerOf(ctx context.Context, id string) (string, error)
}

// VerifyOwnership reports whether identityID owns resourceID.
// A missing resource and a foreign owner both report false; only store failures return an error.
func VerifyOwnership(ctx context.Context, store OwnerLookup, resourceID, identityID string) (bool, error) {
	if resourceID == "" || identityID == "" {
		return false, nil
	}

	owner, err := store.OwnerOf(ctx, resourceID)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, shared.Persistence("verify ownership", err)
	}
	return owner == identityID, nil
}
