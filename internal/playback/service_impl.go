package playback

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/wavescope/internal/engine"
	"github.com/llehouerou/wavescope/internal/playlist"
	"github.com/llehouerou/wavescope/internal/track"
)

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	player Player
	logger zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	queue     *playlist.Queue
	lastTrack *track.Track
	lastIndex int
	playSeq   uint64
	closed    bool

	statusMu   sync.Mutex
	lastStatus engine.Status

	subs   []*Subscription
	subsMu sync.RWMutex

	unsubscribe []func()
}

// New creates a playback service driving p through q.
func New(p Player, q *playlist.Queue, logger zerolog.Logger) Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &serviceImpl{
		player:     p,
		queue:      q,
		logger:     logger.With().Str("component", "playback").Logger(),
		ctx:        ctx,
		cancel:     cancel,
		lastIndex:  -1,
		lastStatus: p.State().Status(),
	}
	s.unsubscribe = []func(){
		p.Subscribe(s.handleState),
		p.OnTrackEnd(s.handleTrackFinished),
	}
	return s
}

// Play starts the selected track, or the first one if none is selected.
// A paused track is resumed.
func (s *serviceImpl) Play() error {
	if s.player.State().Status() == engine.Paused {
		s.player.ResumePlayback()
		return nil
	}

	s.mu.Lock()
	cur := s.queue.Current()
	if cur == nil {
		cur = s.queue.JumpTo(0)
	}
	if cur == nil {
		s.mu.Unlock()
		return ErrEmptyQueue
	}
	t, idx := *cur, s.queue.CurrentIndex()
	s.mu.Unlock()

	return s.playTrack(t, idx, "play")
}

func (s *serviceImpl) Pause() {
	s.player.PausePlayback()
}

func (s *serviceImpl) Stop() {
	s.player.StopPlayback()
}

// Toggle pauses, resumes or starts playback depending on the status.
func (s *serviceImpl) Toggle() error {
	switch s.player.State().Status() {
	case engine.Playing:
		s.player.PausePlayback()
		return nil
	case engine.Paused:
		s.player.ResumePlayback()
		return nil
	default:
		return s.Play()
	}
}

// Next moves to the following track. It is a no-op at the end of the queue.
func (s *serviceImpl) Next() error {
	s.mu.Lock()
	next := s.queue.Next()
	return s.moveLocked(next, "next")
}

// Previous restarts the current track when it has played for more than
// restartThreshold, and otherwise moves to the preceding track.
func (s *serviceImpl) Previous() error {
	if s.player.CurrentTime() > restartThreshold {
		s.SeekTo(0)
		return nil
	}
	s.mu.Lock()
	prev := s.queue.Previous()
	if prev == nil {
		s.mu.Unlock()
		s.SeekTo(0)
		return nil
	}
	return s.moveLocked(prev, "previous")
}

// JumpTo selects index, starting it if playback is active.
func (s *serviceImpl) JumpTo(index int) error {
	s.mu.Lock()
	t := s.queue.JumpTo(index)
	return s.moveLocked(t, "jump")
}

// moveLocked plays t when playback is active and otherwise only reports the
// new cursor. It releases s.mu.
func (s *serviceImpl) moveLocked(t *track.Track, op string) error {
	if t == nil {
		s.mu.Unlock()
		return nil
	}
	tr, idx := *t, s.queue.CurrentIndex()
	if !s.player.State().Status().IsActive() {
		change := QueueChange{Tracks: s.queue.Tracks(), Index: idx}
		s.mu.Unlock()
		s.broadcast(func(sub *Subscription) { sub.sendQueue(change) })
		return nil
	}
	s.mu.Unlock()
	return s.playTrack(tr, idx, op)
}

// Seek moves the position by delta.
func (s *serviceImpl) Seek(delta time.Duration) {
	s.SeekTo(max(s.player.CurrentTime()+delta, 0))
}

// SeekTo moves the position. The new position reaches subscribers through
// the engine notification that follows the seek.
func (s *serviceImpl) SeekTo(position time.Duration) {
	s.player.SeekTo(position)
}

func (s *serviceImpl) AddTracks(tracks ...track.Track) {
	s.mu.Lock()
	s.queue.Add(tracks...)
	change := QueueChange{Tracks: s.queue.Tracks(), Index: s.queue.CurrentIndex()}
	s.mu.Unlock()
	s.broadcast(func(sub *Subscription) { sub.sendQueue(change) })
}

// ReplaceTracks swaps the queue contents and returns the new first track.
// Playback is not affected until Play.
func (s *serviceImpl) ReplaceTracks(tracks ...track.Track) *track.Track {
	s.mu.Lock()
	first := s.queue.Replace(tracks...)
	change := QueueChange{Tracks: s.queue.Tracks(), Index: s.queue.CurrentIndex()}
	var out *track.Track
	if first != nil {
		t := *first
		out = &t
	}
	s.mu.Unlock()
	s.broadcast(func(sub *Subscription) { sub.sendQueue(change) })
	return out
}

// ClearQueue stops playback and empties the queue.
func (s *serviceImpl) ClearQueue() {
	s.player.StopPlayback()
	s.mu.Lock()
	s.queue.Clear()
	s.mu.Unlock()
	s.broadcast(func(sub *Subscription) { sub.sendQueue(QueueChange{Index: -1}) })
}

func (s *serviceImpl) Status() engine.Status {
	return s.player.State().Status()
}

func (s *serviceImpl) Position() time.Duration {
	return s.player.CurrentTime()
}

func (s *serviceImpl) Duration() time.Duration {
	return s.player.Duration()
}

// CurrentTrack returns a copy of the selected track, or nil.
func (s *serviceImpl) CurrentTrack() *track.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.queue.Current()
	if cur == nil {
		return nil
	}
	t := *cur
	return &t
}

func (s *serviceImpl) QueueTracks() []track.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Tracks()
}

func (s *serviceImpl) QueueCurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.CurrentIndex()
}

func (s *serviceImpl) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// Subscribe creates a new event subscription.
func (s *serviceImpl) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Close detaches from the player, cancels pending decodes and closes every
// subscription.
func (s *serviceImpl) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	for _, unsub := range s.unsubscribe {
		unsub()
	}
	s.cancel()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()
	return nil
}

// playTrack hands t to the player and reports the track change if no later
// play replaced it. The queue may hold the same file twice, so the path alone
// does not identify the winner.
func (s *serviceImpl) playTrack(t track.Track, idx int, op string) error {
	s.mu.Lock()
	s.playSeq++
	seq := s.playSeq
	s.mu.Unlock()

	err := s.player.PlayTrack(s.ctx, t, 0)
	if err != nil {
		if errors.Is(err, context.Canceled) && s.ctx.Err() != nil {
			return nil
		}
		s.logger.Warn().Err(err).Str("op", op).Str("track", t.Path).Msg("playback failed")
		s.broadcast(func(sub *Subscription) {
			sub.sendError(ErrorEvent{Operation: op, Path: t.Path, Err: err})
		})
		return err
	}

	playing := s.player.Track()
	if playing == nil || playing.Path != t.Path {
		return nil
	}

	s.mu.Lock()
	if seq != s.playSeq {
		s.mu.Unlock()
		return nil
	}
	change := TrackChange{
		Previous:      s.lastTrack,
		Current:       &t,
		PreviousIndex: s.lastIndex,
		Index:         idx,
	}
	s.lastTrack, s.lastIndex = &t, idx
	s.mu.Unlock()

	s.broadcast(func(sub *Subscription) { sub.sendTrack(change) })
	return nil
}

// handleTrackFinished advances to the next queued track after a natural end.
// At the end of the queue playback stays stopped.
func (s *serviceImpl) handleTrackFinished() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	next := s.queue.Next()
	if next == nil {
		s.mu.Unlock()
		s.logger.Debug().Msg("end of queue")
		return
	}
	t, idx := *next, s.queue.CurrentIndex()
	s.mu.Unlock()

	_ = s.playTrack(t, idx, "advance")
}

// handleState forwards status transitions, and the position of every engine
// notification while a track is loaded. The engine throttles those
// notifications, so the position stream needs no limiting of its own.
func (s *serviceImpl) handleState(st engine.State) {
	status := st.Status()
	s.statusMu.Lock()
	prev := s.lastStatus
	s.lastStatus = status
	s.statusMu.Unlock()

	if prev != status {
		s.broadcast(func(sub *Subscription) {
			sub.sendState(StateChange{Previous: prev, Current: status})
		})
	}
	if status.IsActive() {
		pos := st.CurrentTime
		s.broadcast(func(sub *Subscription) { sub.sendPosition(pos) })
	}
}

func (s *serviceImpl) broadcast(fn func(*Subscription)) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		fn(sub)
	}
}
