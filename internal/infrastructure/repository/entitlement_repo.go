package repository

import (
	"context"

	"github.com/waste3d/pianoplatform-api/internal/domain"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/storage"
)

// EntitlementRepository reads the flags written by the purchase flow.
// It never writes.
type EntitlementRepository struct {
	store storage.Store
}

func NewEntitlementRepository(store storage.Store) *EntitlementRepository {
	return &EntitlementRepository{store: store}
}

// Get returns the raw stored flag. A missing key is domain.ErrNotFound.
func (r *EntitlementRepository) Get(ctx context.Context, courseID, userID string) (string, error) {
	return r.store.Get(ctx, domain.EntitlementKey(courseID, userID))
}
