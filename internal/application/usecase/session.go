package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/waste3d/pianoplatform-api/internal/domain"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/events"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/logger"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/scheduler"
)

const (
	RedirectDelay     = 2000 * time.Millisecond
	ReviewPromptDelay = 1000 * time.Millisecond

	EventRedirect     = "redirect"
	EventReviewPrompt = "review_prompt"

	eventBuffer = 8
)

type SessionEvent struct {
	Type   string `json:"type"`
	Target string `json:"target,omitempty"`
}

// SessionDeps are shared by every session of a Manager.
type SessionDeps struct {
	Entitlements *EntitlementChecker
	Ledger       *ProgressLedger
	Reviews      *ReviewAggregator
	Publisher    events.Publisher
	Scheduler    scheduler.Scheduler
	Log          *logger.Logger
	Now          func() time.Time
}

func (d *SessionDeps) clock() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Session is the state of one open view of the course: who is looking, what
// they may see, how far they got, and the timers that belong to the view.
type Session struct {
	ID       uuid.UUID
	user     *domain.UserIdentity
	courseID string
	admin    bool
	deps     *SessionDeps
	timers   *scheduler.Group
	events   chan SessionEvent
	log      *logger.Logger

	mu         sync.Mutex
	access     domain.AccessDecision
	progress   domain.ProgressRecord
	synced     bool
	dialogOpen bool
	redirectTo string
	closed     bool
	lastSeen   time.Time
}

type SessionState struct {
	ID                string                `json:"sessionId"`
	UserID            string                `json:"userId,omitempty"`
	CourseID          string                `json:"courseId"`
	Admin             bool                  `json:"admin"`
	Access            domain.AccessDecision `json:"access"`
	Progress          domain.ProgressRecord `json:"progress"`
	CompletedSections int                   `json:"completedSections"`
	TotalSections     int                   `json:"totalSections"`
	FullyCompleted    bool                  `json:"fullyCompleted"`
	ReviewDialogOpen  bool                  `json:"reviewDialogOpen"`
	RedirectTo        string                `json:"redirectTo,omitempty"`
}

type MarkResult struct {
	State           SessionState `json:"state"`
	Saved           bool         `json:"saved"`
	PromptScheduled bool         `json:"promptScheduled"`
}

func openSession(ctx context.Context, deps *SessionDeps, user *domain.UserIdentity, isAdminContext bool) *Session {
	s := &Session{
		ID:       uuid.New(),
		user:     user,
		courseID: deps.Entitlements.CourseID(),
		admin:    isAdminContext,
		deps:     deps,
		timers:   scheduler.NewGroup(deps.Scheduler),
		events:   make(chan SessionEvent, eventBuffer),
		lastSeen: deps.clock(),
	}
	s.log = deps.Log.With("session_id", s.ID.String())

	s.access = deps.Entitlements.CheckAccess(ctx, user, isAdminContext)
	switch {
	case s.access.Granted():
		s.progress, s.synced = deps.Ledger.Load(ctx, user.ID, s.courseID)
	case user != nil && !isAdminContext:
		s.timers.Schedule(RedirectDelay, s.fire(SessionEvent{Type: EventRedirect, Target: domain.PricingPath}, func() {
			s.redirectTo = domain.PricingPath
		}))
	}
	return s
}

// fire wraps a timer callback so it does nothing once the view is gone.
func (s *Session) fire(ev SessionEvent, apply func()) func() {
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		if apply != nil {
			apply()
		}
		select {
		case s.events <- ev:
		default:
			s.log.Warn("session event dropped", "type", ev.Type)
		}
	}
}

// Events delivers redirect and review-prompt notifications. The channel is
// closed by Close.
func (s *Session) Events() <-chan SessionEvent {
	return s.events
}

func (s *Session) User() *domain.UserIdentity { return s.user }

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() SessionState {
	st := SessionState{
		ID:                s.ID.String(),
		CourseID:          s.courseID,
		Admin:             s.admin,
		Access:            s.access,
		Progress:          s.progress,
		CompletedSections: s.progress.CompletedCount(),
		TotalSections:     len(domain.Sections),
		FullyCompleted:    s.progress.IsFullyCompleted(),
		ReviewDialogOpen:  s.dialogOpen,
		RedirectTo:        s.redirectTo,
	}
	if s.user != nil {
		st.UserID = s.user.ID
	}
	return st
}

// MarkCompleted records a finished section. Persistence and the completion
// check run on every call, even for sections that were already done; the
// review prompt is scheduled only on the call that completes the course.
//
// If the stored record could not be read when the session opened, it is
// re-read and merged first. While it stays unreadable nothing is saved and
// no prompt is scheduled, so stored completions are never overwritten.
func (s *Session) MarkCompleted(ctx context.Context, section domain.Section) (MarkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return MarkResult{}, domain.ErrSessionClosed
	}
	if !s.access.Granted() {
		return MarkResult{}, domain.ErrAccessDenied
	}
	s.touchLocked()

	wasComplete := s.progress.IsFullyCompleted()
	if !s.synced {
		if stored, ok := s.deps.Ledger.Load(ctx, s.user.ID, s.courseID); ok {
			wasComplete = stored.IsFullyCompleted()
			s.progress = stored.Merge(s.progress)
			s.synced = true
		}
	}
	s.progress = s.progress.MarkCompleted(section)
	saved := false
	if s.synced {
		saved = s.deps.Ledger.Save(ctx, s.access, s.user.ID, s.courseID, s.progress)
	} else {
		s.log.Warn("progress not saved, stored record unreadable", "user_id", s.user.ID, "section", section)
	}

	s.deps.Publisher.Publish(ctx, events.Event{
		Type:     events.TypeSectionCompleted,
		UserID:   s.user.ID,
		CourseID: s.courseID,
		Payload:  map[string]string{"section": string(section)},
	})

	res := MarkResult{Saved: saved}
	if s.synced && !wasComplete && s.progress.IsFullyCompleted() {
		s.timers.Schedule(ReviewPromptDelay, s.fire(SessionEvent{Type: EventReviewPrompt}, func() {
			s.dialogOpen = true
		}))
		res.PromptScheduled = true
		s.deps.Publisher.Publish(ctx, events.Event{
			Type:     events.TypeCourseCompleted,
			UserID:   s.user.ID,
			CourseID: s.courseID,
		})
		s.log.Info("course completed, review prompt scheduled", "user_id", s.user.ID)
	}
	res.State = s.stateLocked()
	return res, nil
}

// SubmitReview sends a rating from the feedback dialog. The dialog closes on
// success and is left as it was on failure so the user can retry.
func (s *Session) SubmitReview(ctx context.Context, rating int, feedback string) (domain.ReviewSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ReviewSummary{}, domain.ErrSessionClosed
	}
	s.touchLocked()

	summary, err := s.deps.Reviews.Submit(ctx, s.user, rating, feedback)
	if err != nil {
		return domain.ReviewSummary{}, err
	}
	s.dialogOpen = false
	return summary, nil
}

func (s *Session) SetReviewDialogOpen(open bool) (SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return SessionState{}, domain.ErrSessionClosed
	}
	s.touchLocked()
	s.dialogOpen = open
	return s.stateLocked(), nil
}

// Close tears the view down: pending timers are cancelled unconditionally and
// the events channel is closed. It reports false if already closed.
func (s *Session) Close() bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.closed = true
	close(s.events)
	s.mu.Unlock()

	if n := s.timers.CancelAll(); n > 0 {
		s.log.Debug("cancelled pending session timers", "count", n)
	}
	return true
}

func (s *Session) touchLocked() {
	s.lastSeen = s.deps.clock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
