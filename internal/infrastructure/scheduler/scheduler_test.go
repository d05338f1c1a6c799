package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTimerSchedulerFires(t *testing.T) {
	done := make(chan struct{})
	New().Schedule(5*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not fire")
	}
}

func TestTimerSchedulerCancel(t *testing.T) {
	var fired atomic.Bool
	h := New().Schedule(50*time.Millisecond, func() { fired.Store(true) })

	require.True(t, h.Cancel())
	require.False(t, h.Cancel())

	time.Sleep(80 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestGroupCancelAll(t *testing.T) {
	m := NewManual()
	g := NewGroup(m)

	var calls int
	g.Schedule(time.Second, func() { calls++ })
	g.Schedule(2*time.Second, func() { calls++ })

	m.Advance(time.Second)
	require.Equal(t, 1, calls)

	assert.Equal(t, 1, g.CancelAll(), "only the unfired task is pending")
	assert.Equal(t, 0, g.CancelAll())
	assert.Nil(t, g.Schedule(time.Second, func() { calls++ }))

	m.Advance(time.Hour)
	assert.Equal(t, 1, calls)
}

func TestManualOrdering(t *testing.T) {
	m := NewManual()
	var order []string
	m.Schedule(2*time.Second, func() { order = append(order, "redirect") })
	m.Schedule(time.Second, func() { order = append(order, "prompt") })

	assert.Equal(t, []time.Duration{2 * time.Second, time.Second}, m.Deadlines())

	m.Advance(999 * time.Millisecond)
	assert.Empty(t, order)
	assert.Equal(t, 2, m.Pending())

	m.Advance(5 * time.Second)
	assert.Equal(t, []string{"prompt", "redirect"}, order)
	assert.Zero(t, m.Pending())
}
