package usecase

import (
	"context"
	"errors"

	"github.com/waste3d/pianoplatform-api/internal/domain"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/logger"
)

type EntitlementReader interface {
	Get(ctx context.Context, courseID, userID string) (string, error)
}

type EntitlementChecker struct {
	repo     EntitlementReader
	courseID string
	log      *logger.Logger
}

func NewEntitlementChecker(repo EntitlementReader, courseID string, log *logger.Logger) *EntitlementChecker {
	return &EntitlementChecker{repo: repo, courseID: courseID, log: log}
}

func (c *EntitlementChecker) CourseID() string { return c.courseID }

// CheckAccess decides whether user may view the paid course. The admin
// context overrides the stored flag without touching storage, and any read
// failure denies.
func (c *EntitlementChecker) CheckAccess(ctx context.Context, user *domain.UserIdentity, isAdminContext bool) domain.AccessDecision {
	if user == nil || user.ID == "" {
		return domain.AccessDenied
	}
	if isAdminContext {
		return domain.AccessGranted
	}

	raw, err := c.repo.Get(ctx, c.courseID, user.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			c.log.Warn("entitlement read failed", "user_id", user.ID, "course_id", c.courseID, "error", err)
		}
		return domain.AccessDenied
	}
	if domain.EntitlementGranted(raw) {
		return domain.AccessGranted
	}
	return domain.AccessDenied
}
