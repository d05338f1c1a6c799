package repository

import (
	"context"

	"github.com/waste3d/pianoplatform-api/internal/domain"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/storage"
)

type ProgressRepository struct {
	store storage.Store
}

func NewProgressRepository(store storage.Store) *ProgressRepository {
	return &ProgressRepository{store: store}
}

// Get returns the stored record. Missing keys yield domain.ErrNotFound and
// corrupt JSON yields a parse error; callers decide on the fallback.
func (r *ProgressRepository) Get(ctx context.Context, userID, courseID string) (domain.ProgressRecord, error) {
	raw, err := r.store.Get(ctx, domain.ProgressKey(userID, courseID))
	if err != nil {
		return domain.ProgressRecord{}, err
	}
	return domain.ParseProgress(raw)
}

func (r *ProgressRepository) Save(ctx context.Context, userID, courseID string, rec domain.ProgressRecord) error {
	raw, err := rec.Encode()
	if err != nil {
		return err
	}
	return r.store.Set(ctx, domain.ProgressKey(userID, courseID), raw)
}
