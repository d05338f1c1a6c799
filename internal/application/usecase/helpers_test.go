package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waste3d/pianoplatform-api/internal/domain"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/events"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/logger"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/repository"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/scheduler"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/storage"
)

var errDiskFull = errors.New("quota exceeded")

// flakyStore wraps a real store and can be told to fail reads or writes.
// failPrefix fails reads of matching keys only.
type flakyStore struct {
	storage.Store
	mu         sync.Mutex
	failGets   bool
	failSets   bool
	failPrefix string
	gets       int
	sets       int
}

func (f *flakyStore) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	f.gets++
	fail := f.failGets || (f.failPrefix != "" && strings.HasPrefix(key, f.failPrefix))
	f.mu.Unlock()
	if fail {
		return "", errDiskFull
	}
	return f.Store.Get(ctx, key)
}

func (f *flakyStore) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	f.sets++
	fail := f.failSets
	f.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return f.Store.Set(ctx, key, value)
}

func (f *flakyStore) SetMany(ctx context.Context, entries []storage.Entry) error {
	f.mu.Lock()
	f.sets++
	fail := f.failSets
	f.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return f.Store.SetMany(ctx, entries)
}

func (f *flakyStore) setFailGets(v bool) {
	f.mu.Lock()
	f.failGets = v
	f.mu.Unlock()
}

func (f *flakyStore) setFailPrefix(prefix string) {
	f.mu.Lock()
	f.failPrefix = prefix
	f.mu.Unlock()
}

func (f *flakyStore) setFailSets(v bool) {
	f.mu.Lock()
	f.failSets = v
	f.mu.Unlock()
}

func (f *flakyStore) counts() (gets, sets int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets, f.sets
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	store     *flakyStore
	clock     *scheduler.Manual
	publisher *recordingPublisher
	deps      SessionDeps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	base, err := storage.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = base.Close() })

	store := &flakyStore{Store: base}
	log := logger.NewNop()
	pub := &recordingPublisher{}
	clock := scheduler.NewManual()

	return &fixture{
		store:     store,
		clock:     clock,
		publisher: pub,
		deps: SessionDeps{
			Entitlements: NewEntitlementChecker(repository.NewEntitlementRepository(store), domain.DefaultCourseID, log),
			Ledger:       NewProgressLedger(repository.NewProgressRepository(store), log),
			Reviews:      NewReviewAggregator(repository.NewReviewRepository(store), pub, "Intermediate Piano Course", log),
			Publisher:    pub,
			Scheduler:    clock,
			Log:          log,
		},
	}
}

func (f *fixture) seed(t *testing.T, key, value string) {
	t.Helper()
	require.NoError(t, f.store.Store.Set(context.Background(), key, value))
}

func drain(ch <-chan SessionEvent) []SessionEvent {
	var out []SessionEvent
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}
