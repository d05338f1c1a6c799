package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/waste3d/pianoplatform-api/internal/domain"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/events"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/logger"
)

type ReviewStore interface {
	List(ctx context.Context) ([]domain.Review, error)
	Save(ctx context.Context, s domain.ReviewSummary) error
}

type ReviewAggregator struct {
	mu        sync.Mutex
	repo      ReviewStore
	publisher events.Publisher
	course    string
	now       func() time.Time
	log       *logger.Logger
}

func NewReviewAggregator(repo ReviewStore, publisher events.Publisher, courseLabel string, log *logger.Logger) *ReviewAggregator {
	return &ReviewAggregator{
		repo:      repo,
		publisher: publisher,
		course:    courseLabel,
		now:       time.Now,
		log:       log,
	}
}

// Summary reads the list and derives the aggregate from it. The cached
// averageRating/totalRatings keys are written for other readers but never
// trusted here. A storage failure is returned rather than shown as an
// empty list.
func (a *ReviewAggregator) Summary(ctx context.Context) (domain.ReviewSummary, error) {
	list, err := a.load(ctx)
	if err != nil {
		return domain.ReviewSummary{}, err
	}
	return domain.Summarize(list), nil
}

// load treats a missing or corrupt list as empty. Any other read error is
// returned so callers never rewrite the list from a view they could not read.
func (a *ReviewAggregator) load(ctx context.Context) ([]domain.Review, error) {
	list, err := a.repo.List(ctx)
	switch {
	case err == nil:
		return list, nil
	case errors.Is(err, domain.ErrNotFound):
		return nil, nil
	case errors.Is(err, domain.ErrCorruptRecord):
		a.log.Warn("review list unreadable, treating as empty", "error", err)
		return nil, nil
	default:
		a.log.Error("review list read failed", "error", err)
		return nil, err
	}
}

// Submit appends a review and rewrites list, average and count together.
func (a *ReviewAggregator) Submit(ctx context.Context, user *domain.UserIdentity, rating int, feedback string) (domain.ReviewSummary, error) {
	if rating == 0 {
		return domain.ReviewSummary{}, domain.ErrRatingRequired
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	existing, err := a.load(ctx)
	if err != nil {
		return domain.ReviewSummary{}, fmt.Errorf("%w: %w", domain.ErrSubmitFailed, err)
	}
	review := domain.NewReview(user, rating, feedback, a.course, a.now(), domain.LastReviewID(existing))
	summary := domain.AppendReview(existing, review)

	if err := a.repo.Save(ctx, summary); err != nil {
		a.log.Error("review write failed", "user_id", review.UserID, "error", err)
		return domain.ReviewSummary{}, fmt.Errorf("%w: %w", domain.ErrSubmitFailed, err)
	}

	a.publisher.Publish(ctx, events.Event{
		Type:    events.TypeReviewSubmitted,
		UserID:  review.UserID,
		Payload: review,
		At:      a.now().UTC(),
	})
	return summary, nil
}
