package scheduler

import (
	"sync"
	"time"
)

// Handle cancels a scheduled task. Cancel after the task fired, or a second
// Cancel, does nothing and returns false.
type Handle interface {
	Cancel() bool
}

type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Handle
}

// TimerScheduler runs tasks on time.AfterFunc goroutines.
type TimerScheduler struct{}

func New() *TimerScheduler {
	return &TimerScheduler{}
}

func (TimerScheduler) Schedule(delay time.Duration, fn func()) Handle {
	return timerHandle{t: time.AfterFunc(delay, fn)}
}

type timerHandle struct {
	t *time.Timer
}

func (h timerHandle) Cancel() bool {
	return h.t.Stop()
}

// Group tracks the handles owned by one view so they can all be cancelled
// at teardown.
type Group struct {
	mu      sync.Mutex
	s       Scheduler
	handles []Handle
	closed  bool
}

func NewGroup(s Scheduler) *Group {
	return &Group{s: s}
}

// Schedule registers fn with the underlying scheduler. After CancelAll it
// returns nil and schedules nothing.
func (g *Group) Schedule(delay time.Duration, fn func()) Handle {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	h := g.s.Schedule(delay, fn)
	g.handles = append(g.handles, h)
	return h
}

// CancelAll cancels every handle and returns how many were still pending.
func (g *Group) CancelAll() int {
	g.mu.Lock()
	handles := g.handles
	g.handles = nil
	g.closed = true
	g.mu.Unlock()

	n := 0
	for _, h := range handles {
		if h.Cancel() {
			n++
		}
	}
	return n
}
