package repository

import (
	"context"

	"github.com/waste3d/pianoplatform-api/internal/domain"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/storage"
)

type ReviewRepository struct {
	store storage.Store
}

func NewReviewRepository(store storage.Store) *ReviewRepository {
	return &ReviewRepository{store: store}
}

// List returns the public review list in insertion order.
func (r *ReviewRepository) List(ctx context.Context) ([]domain.Review, error) {
	raw, err := r.store.Get(ctx, domain.PublicReviewsKey)
	if err != nil {
		return nil, err
	}
	return domain.ParseReviews(raw)
}

// Save writes the list together with its average and count in one atomic
// write so readers never see an aggregate that disagrees with the list.
func (r *ReviewRepository) Save(ctx context.Context, s domain.ReviewSummary) error {
	list, avg, total, err := domain.EncodeSummary(s)
	if err != nil {
		return err
	}
	return r.store.SetMany(ctx, []storage.Entry{
		{Key: domain.PublicReviewsKey, Value: list},
		{Key: domain.AverageRatingKey, Value: avg},
		{Key: domain.TotalRatingsKey, Value: total},
	})
}
