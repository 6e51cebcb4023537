package playback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavescope/internal/audio"
	"github.com/llehouerou/wavescope/internal/engine"
	"github.com/llehouerou/wavescope/internal/playlist"
	"github.com/llehouerou/wavescope/internal/track"
	"github.com/llehouerou/wavescope/internal/updater"
)

var (
	song1 = track.New("one.mp3", []byte("1"))
	song2 = track.New("two.mp3", []byte("2"))
	song3 = track.New("three.mp3", []byte("3"))
)

type fixture struct {
	host   *audio.MockContext
	sched  *updater.ManualScheduler
	engine *engine.Engine
	queue  *playlist.Queue
	svc    Service
	sub    *Subscription
}

func newFixture(t *testing.T, tracks ...track.Track) *fixture {
	t.Helper()
	host := audio.NewMockContext()
	factory := func(context.Context) (audio.Context, error) { return host, nil }
	sched := &updater.ManualScheduler{}
	eng := engine.New(factory, engine.WithScheduler(sched))
	q := playlist.NewQueue(tracks...)
	svc := New(eng, q, zerolog.Nop())
	t.Cleanup(func() {
		_ = svc.Close()
		_ = eng.Cleanup()
	})
	return &fixture{host: host, sched: sched, engine: eng, queue: q, svc: svc, sub: svc.Subscribe()}
}

func (f *fixture) playingPath() string {
	if tr := f.engine.Track(); tr != nil {
		return tr.Path
	}
	return ""
}

func drainTracks(sub *Subscription) []TrackChange {
	var out []TrackChange
	for {
		select {
		case e := <-sub.TrackChanged:
			out = append(out, e)
		default:
			return out
		}
	}
}

func drainPositions(sub *Subscription) []time.Duration {
	var out []time.Duration
	for {
		select {
		case e := <-sub.PositionChanged:
			out = append(out, e.Position)
		default:
			return out
		}
	}
}

func drainStates(sub *Subscription) []StateChange {
	var out []StateChange
	for {
		select {
		case e := <-sub.StateChanged:
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestService_PlayEmptyQueue(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Play()

	require.ErrorIs(t, err, ErrEmptyQueue)
	assert.Equal(t, engine.Stopped, f.svc.Status())
}

func TestService_PlayStartsFirstTrack(t *testing.T) {
	f := newFixture(t, song1, song2)

	require.NoError(t, f.svc.Play())

	assert.Equal(t, engine.Playing, f.svc.Status())
	assert.Equal(t, "one.mp3", f.playingPath())
	assert.Equal(t, 0, f.svc.QueueCurrentIndex())

	changes := drainTracks(f.sub)
	require.Len(t, changes, 1)
	assert.Nil(t, changes[0].Previous)
	assert.Equal(t, "one.mp3", changes[0].Current.Path)
	assert.Equal(t, -1, changes[0].PreviousIndex)
	assert.Equal(t, 0, changes[0].Index)

	states := drainStates(f.sub)
	require.NotEmpty(t, states)
	assert.Equal(t, StateChange{Previous: engine.Stopped, Current: engine.Playing}, states[len(states)-1])
}

func TestService_PlayResumesWhenPaused(t *testing.T) {
	f := newFixture(t, song1)
	require.NoError(t, f.svc.Play())
	f.host.Advance(4)
	f.svc.Pause()
	require.Equal(t, engine.Paused, f.svc.Status())
	drainTracks(f.sub)

	require.NoError(t, f.svc.Play())

	assert.Equal(t, engine.Playing, f.svc.Status())
	assert.InDelta(t, 4, f.svc.Position().Seconds(), 1e-6)
	assert.Empty(t, drainTracks(f.sub), "resume does not change track")
}

func TestService_Toggle(t *testing.T) {
	f := newFixture(t, song1)

	require.NoError(t, f.svc.Toggle())
	assert.Equal(t, engine.Playing, f.svc.Status())

	require.NoError(t, f.svc.Toggle())
	assert.Equal(t, engine.Paused, f.svc.Status())

	require.NoError(t, f.svc.Toggle())
	assert.Equal(t, engine.Playing, f.svc.Status())
}

func TestService_NextWhilePlaying(t *testing.T) {
	f := newFixture(t, song1, song2)
	require.NoError(t, f.svc.Play())
	drainTracks(f.sub)

	require.NoError(t, f.svc.Next())

	assert.Equal(t, "two.mp3", f.playingPath())
	changes := drainTracks(f.sub)
	require.Len(t, changes, 1)
	assert.Equal(t, "one.mp3", changes[0].Previous.Path)
	assert.Equal(t, 1, changes[0].Index)
}

func TestService_NextWhileStoppedOnlyMovesCursor(t *testing.T) {
	f := newFixture(t, song1, song2)
	f.queue.JumpTo(0)

	require.NoError(t, f.svc.Next())

	assert.Equal(t, engine.Stopped, f.svc.Status())
	assert.Equal(t, 1, f.svc.QueueCurrentIndex())
	assert.Empty(t, f.host.Sources())
	select {
	case e := <-f.sub.QueueChanged:
		assert.Equal(t, 1, e.Index)
	default:
		t.Fatal("expected queue change")
	}
}

func TestService_NextAtEndIsNoop(t *testing.T) {
	f := newFixture(t, song1)
	require.NoError(t, f.svc.Play())

	require.NoError(t, f.svc.Next())

	assert.Equal(t, "one.mp3", f.playingPath())
	assert.Equal(t, 0, f.svc.QueueCurrentIndex())
}

func TestService_PreviousRestartsAfterThreshold(t *testing.T) {
	f := newFixture(t, song1, song2)
	require.NoError(t, f.svc.Play())
	require.NoError(t, f.svc.Next())
	f.host.Advance(10)

	require.NoError(t, f.svc.Previous())

	assert.Equal(t, "two.mp3", f.playingPath())
	assert.Zero(t, f.svc.Position())
	assert.Equal(t, 1, f.svc.QueueCurrentIndex())
}

func TestService_PreviousGoesBackEarlyInTrack(t *testing.T) {
	f := newFixture(t, song1, song2)
	require.NoError(t, f.svc.Play())
	require.NoError(t, f.svc.Next())
	f.host.Advance(1)

	require.NoError(t, f.svc.Previous())

	assert.Equal(t, "one.mp3", f.playingPath())
	assert.Equal(t, 0, f.svc.QueueCurrentIndex())
}

func TestService_PreviousAtStartRestarts(t *testing.T) {
	f := newFixture(t, song1, song2)
	require.NoError(t, f.svc.Play())
	f.host.Advance(1)

	require.NoError(t, f.svc.Previous())

	assert.Equal(t, "one.mp3", f.playingPath())
	assert.Zero(t, f.svc.Position())
}

func TestService_JumpTo(t *testing.T) {
	f := newFixture(t, song1, song2, song3)
	require.NoError(t, f.svc.Play())

	require.NoError(t, f.svc.JumpTo(2))
	assert.Equal(t, "three.mp3", f.playingPath())

	require.NoError(t, f.svc.JumpTo(7))
	assert.Equal(t, "three.mp3", f.playingPath(), "out of range is ignored")
}

func TestService_AdvancesOnNaturalEnd(t *testing.T) {
	f := newFixture(t, song1, song2)
	require.NoError(t, f.svc.Play())
	drainTracks(f.sub)

	f.host.LastSource().End()

	assert.Equal(t, "two.mp3", f.playingPath())
	assert.Equal(t, engine.Playing, f.svc.Status())
	changes := drainTracks(f.sub)
	require.Len(t, changes, 1)
	assert.Equal(t, 1, changes[0].Index)
}

func TestService_StopsAtEndOfQueue(t *testing.T) {
	f := newFixture(t, song1)
	require.NoError(t, f.svc.Play())

	f.host.LastSource().End()

	assert.Equal(t, engine.Stopped, f.svc.Status())
	assert.Equal(t, 0, f.svc.QueueCurrentIndex())
}

func TestService_StopDoesNotAdvance(t *testing.T) {
	f := newFixture(t, song1, song2)
	require.NoError(t, f.svc.Play())

	f.svc.Stop()

	assert.Equal(t, engine.Stopped, f.svc.Status())
	assert.Equal(t, 0, f.svc.QueueCurrentIndex())
	assert.Equal(t, 1, f.host.StartCount())
}

func TestService_SupersededPlayReportsOnlyWinner(t *testing.T) {
	f := newFixture(t, song1, song2)
	f.host.HoldDecodes(true)

	first := make(chan error, 1)
	go func() { first <- f.svc.Play() }()
	f.host.WaitPending(1)

	// Nothing is playing yet, so JumpTo only moves the cursor.
	require.NoError(t, f.svc.JumpTo(1))
	second := make(chan error, 1)
	go func() { second <- f.svc.Play() }()
	f.host.WaitPending(2)
	f.host.ResolveAll()

	require.NoError(t, <-first)
	require.NoError(t, <-second)

	assert.Equal(t, "two.mp3", f.playingPath())
	changes := drainTracks(f.sub)
	require.Len(t, changes, 1)
	assert.Equal(t, "two.mp3", changes[0].Current.Path)
}

func TestService_DecodeFailureEmitsError(t *testing.T) {
	f := newFixture(t, song1)
	f.host.SetDecodeError(errors.New("bad frame"))

	err := f.svc.Play()

	require.ErrorIs(t, err, engine.ErrDecode)
	select {
	case e := <-f.sub.Error:
		assert.Equal(t, "play", e.Operation)
		assert.Equal(t, "one.mp3", e.Path)
		assert.ErrorIs(t, e.Err, engine.ErrDecode)
	default:
		t.Fatal("expected error event")
	}
	assert.Empty(t, drainTracks(f.sub))
}

func TestService_SeekClampsAtZero(t *testing.T) {
	f := newFixture(t, song1)
	require.NoError(t, f.svc.Play())
	f.host.Advance(5)
	drainPositions(f.sub)

	f.svc.Seek(-10 * time.Second)

	assert.Zero(t, f.svc.Position())
	assert.Equal(t, []time.Duration{0}, drainPositions(f.sub))

	f.svc.Seek(30 * time.Second)
	assert.InDelta(t, 30, f.svc.Position().Seconds(), 1e-6)
}

func TestService_ForwardsPlaybackPosition(t *testing.T) {
	f := newFixture(t, song1)
	require.NoError(t, f.svc.Play())
	drainPositions(f.sub)

	f.host.Advance(2)
	require.True(t, f.sched.Step())

	assert.Equal(t, []time.Duration{2 * time.Second}, drainPositions(f.sub))

	f.svc.Stop()
	drainPositions(f.sub)
	f.svc.SeekTo(time.Second)
	assert.Empty(t, drainPositions(f.sub), "no position without a loaded track")
}

func TestService_SupersededDuplicateReportsWinnerIndex(t *testing.T) {
	f := newFixture(t, song1, song2, song1)
	f.host.HoldDecodes(true)

	first := make(chan error, 1)
	go func() { first <- f.svc.Play() }()
	f.host.WaitPending(1)

	require.NoError(t, f.svc.JumpTo(2))
	second := make(chan error, 1)
	go func() { second <- f.svc.Play() }()
	f.host.WaitPending(2)
	f.host.ResolveAll()

	require.NoError(t, <-first)
	require.NoError(t, <-second)

	changes := drainTracks(f.sub)
	require.Len(t, changes, 1)
	assert.Equal(t, 2, changes[0].Index)
	assert.Equal(t, "one.mp3", changes[0].Current.Path)
}

func TestService_QueueMutations(t *testing.T) {
	f := newFixture(t)

	f.svc.AddTracks(song1, song2)
	assert.Equal(t, 2, f.svc.QueueLen())
	assert.Nil(t, f.svc.CurrentTrack())

	first := f.svc.ReplaceTracks(song3)
	require.NotNil(t, first)
	assert.Equal(t, "three.mp3", first.Path)
	assert.Equal(t, "three.mp3", f.svc.CurrentTrack().Path)
	assert.Len(t, f.svc.QueueTracks(), 1)

	require.NoError(t, f.svc.Play())
	f.svc.ClearQueue()

	assert.Equal(t, engine.Stopped, f.svc.Status())
	assert.Zero(t, f.svc.QueueLen())
	assert.Equal(t, -1, f.svc.QueueCurrentIndex())
}

func TestService_CloseClosesSubscriptions(t *testing.T) {
	f := newFixture(t, song1, song2)
	require.NoError(t, f.svc.Play())

	require.NoError(t, f.svc.Close())
	require.NoError(t, f.svc.Close())

	select {
	case <-f.sub.Done:
	default:
		t.Fatal("subscription not closed")
	}

	f.host.LastSource().End()
	assert.Equal(t, engine.Stopped, f.svc.Status())
	assert.Equal(t, 0, f.queue.CurrentIndex(), "closed service does not advance")
}
