package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_EmitsInRegistrationOrder(t *testing.T) {
	var r registry[int]
	var got []string
	r.add(func(int) { got = append(got, "first") })
	r.add(func(int) { got = append(got, "second") })

	r.emit(1, func(any) {})

	assert.Equal(t, []string{"first", "second"}, got)
}

func TestRegistry_UnsubscribeIsIdempotent(t *testing.T) {
	var r registry[int]
	calls := 0
	unsub := r.add(func(int) { t.Fatal("unsubscribed listener called") })
	r.add(func(int) { calls++ })

	unsub()
	unsub()
	r.emit(1, func(any) {})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, r.len())
}

func TestRegistry_PanickingListenerDoesNotStopOthers(t *testing.T) {
	var r registry[int]
	var panics []any
	calls := 0
	r.add(func(int) { panic("boom") })
	r.add(func(v int) { calls += v })

	r.emit(3, func(p any) { panics = append(panics, p) })

	assert.Equal(t, 3, calls)
	assert.Equal(t, []any{"boom"}, panics)
}

func TestRegistry_ListenerMayUnsubscribeDuringEmit(t *testing.T) {
	var r registry[int]
	calls := 0
	var unsub func()
	unsub = r.add(func(int) {
		calls++
		unsub()
	})

	r.emit(1, func(any) {})
	r.emit(1, func(any) {})

	assert.Equal(t, 1, calls)
}

func TestEngine_SubscriberPanicIsContained(t *testing.T) {
	h := newHarness(t)
	h.engine.Subscribe(func(State) { panic("listener bug") })

	assert.NotPanics(t, func() { h.engine.SetVolume(0.5) })
	assert.Equal(t, 1, h.notifications())
}

func TestEngine_UnsubscribeStopsNotifications(t *testing.T) {
	h := newHarness(t)
	calls := 0
	unsub := h.engine.Subscribe(func(State) { calls++ })

	h.engine.SetVolume(0.5)
	unsub()
	unsub()
	h.engine.SetVolume(0.6)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, h.notifications())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Stopped", Stopped.String())
	assert.Equal(t, "Playing", Playing.String())
	assert.Equal(t, "Paused", Paused.String())
	assert.Equal(t, "Unknown", Status(42).String())
	assert.True(t, Playing.CanPause())
	assert.True(t, Paused.CanResume())
	assert.False(t, Stopped.IsActive())
}
