package usecase

import (
	"context"
	"errors"

	"github.com/waste3d/pianoplatform-api/internal/domain"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/logger"
)

type ProgressStore interface {
	Get(ctx context.Context, userID, courseID string) (domain.ProgressRecord, error)
	Save(ctx context.Context, userID, courseID string, rec domain.ProgressRecord) error
}

// ProgressLedger is best-effort: it never surfaces storage errors.
type ProgressLedger struct {
	repo ProgressStore
	log  *logger.Logger
}

func NewProgressLedger(repo ProgressStore, log *logger.Logger) *ProgressLedger {
	return &ProgressLedger{repo: repo, log: log}
}

// Load returns the stored record, or the all-false record when the key is
// missing or corrupt. ok is false only when the store could not be read, in
// which case the returned record must not be saved over what is stored.
func (l *ProgressLedger) Load(ctx context.Context, userID, courseID string) (rec domain.ProgressRecord, ok bool) {
	rec, err := l.repo.Get(ctx, userID, courseID)
	switch {
	case err == nil:
		return rec, true
	case errors.Is(err, domain.ErrNotFound):
		return domain.ProgressRecord{}, true
	case errors.Is(err, domain.ErrCorruptRecord):
		l.log.Warn("progress record corrupt, starting empty", "user_id", userID, "course_id", courseID, "error", err)
		return domain.ProgressRecord{}, true
	default:
		l.log.Warn("progress read failed", "user_id", userID, "course_id", courseID, "error", err)
		return domain.ProgressRecord{}, false
	}
}

// Save persists rec for entitled users only. It reports whether a write was
// attempted and succeeded.
func (l *ProgressLedger) Save(ctx context.Context, access domain.AccessDecision, userID, courseID string, rec domain.ProgressRecord) bool {
	if !access.Granted() {
		return false
	}
	if err := l.repo.Save(ctx, userID, courseID, rec); err != nil {
		l.log.Warn("progress write failed", "user_id", userID, "course_id", courseID, "error", err)
		return false
	}
	return true
}
