package playback

import "time"

const eventBufferSize = 16

// Subscription provides event channels for a subscriber. Sends never block:
// events are dropped when a channel's buffer is full.
type Subscription struct {
	StateChanged    <-chan StateChange
	TrackChanged    <-chan TrackChange
	PositionChanged <-chan PositionChange
	QueueChanged    <-chan QueueChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	stateCh    chan StateChange
	trackCh    chan TrackChange
	positionCh chan PositionChange
	queueCh    chan QueueChange
	errorCh    chan ErrorEvent
	doneCh     chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan StateChange, eventBufferSize),
		trackCh:    make(chan TrackChange, eventBufferSize),
		positionCh: make(chan PositionChange, eventBufferSize),
		queueCh:    make(chan QueueChange, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.TrackChanged = s.trackCh
	s.PositionChanged = s.positionCh
	s.QueueChanged = s.queueCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

func send[T any](ch chan T, e T) {
	select {
	case ch <- e:
	default:
	}
}

func (s *Subscription) sendState(e StateChange) { send(s.stateCh, e) }
func (s *Subscription) sendTrack(e TrackChange) { send(s.trackCh, e) }
func (s *Subscription) sendQueue(e QueueChange) { send(s.queueCh, e) }
func (s *Subscription) sendError(e ErrorEvent)  { send(s.errorCh, e) }
func (s *Subscription) sendPosition(pos time.Duration) {
	send(s.positionCh, PositionChange{Position: pos})
}
