package audio

import (
	"context"
	"errors"
	"sync"
)

// DefaultMockDuration is the buffer duration, in seconds, of payloads with no
// duration registered through SetDuration.
const DefaultMockDuration = 180.0

var errNotStarted = errors.New("audio: source not started")

// MockContext is a test double for Context with a hand-driven clock and
// decodes that can be held until the test releases them.
type MockContext struct {
	mu   sync.Mutex
	cond *sync.Cond

	now       float64
	hold      bool
	pending   []*pendingDecode
	durations map[string]float64
	decodeErr error
	resumeErr error

	sources   []*MockSource
	gains     []*MockGain
	analysers []*MockAnalyser
	media     []*MockMediaSource
	dest      *mockNode
	resumes   int
	closed    bool
}

type pendingDecode struct {
	done chan struct{}
	buf  Buffer
	err  error
}

// NewMockContext creates a mock context whose clock starts at 0.
func NewMockContext() *MockContext {
	m := &MockContext{
		durations: make(map[string]float64),
		dest:      &mockNode{},
	}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Verify MockContext implements Context at compile time.
var _ Context = (*MockContext)(nil)

func (m *MockContext) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *MockContext) Resume(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumes++
	return m.resumeErr
}

// Decode returns a MockBuffer for data. When decodes are held it blocks until
// ResolveNext, FailNext or ResolveAll releases it, or ctx is done.
func (m *MockContext) Decode(ctx context.Context, data []byte) (Buffer, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	var buf Buffer
	err := m.decodeErr
	if err == nil {
		buf = m.bufferLocked(data)
	}
	if !m.hold {
		m.mu.Unlock()
		return buf, err
	}
	p := &pendingDecode{done: make(chan struct{}), buf: buf, err: err}
	m.pending = append(m.pending, p)
	m.cond.Broadcast()
	m.mu.Unlock()

	select {
	case <-p.done:
		if p.err != nil {
			return nil, p.err
		}
		return p.buf, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *MockContext) bufferLocked(data []byte) *MockBuffer {
	d, ok := m.durations[string(data)]
	if !ok {
		d = DefaultMockDuration
	}
	return &MockBuffer{Data: string(data), Seconds: d, Rate: 44100}
}

func (m *MockContext) NewSource(buf Buffer) (Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	s := &MockSource{buf: buf}
	m.sources = append(m.sources, s)
	return s, nil
}

func (m *MockContext) NewGain() (Gain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	g := &MockGain{value: 1}
	m.gains = append(m.gains, g)
	return g, nil
}

func (m *MockContext) NewAnalyser(fftSize int) (Analyser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	a := &MockAnalyser{size: fftSize}
	m.analysers = append(m.analysers, a)
	return a, nil
}

func (m *MockContext) NewMediaStreamSource(stream MediaStream) (MediaSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	s := &MockMediaSource{stream: stream}
	m.media = append(m.media, s)
	return s, nil
}

func (m *MockContext) Destination() Node { return m.dest }

func (m *MockContext) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

// SetTime sets the context clock.
func (m *MockContext) SetTime(t float64) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Advance moves the context clock forward by d seconds.
func (m *MockContext) Advance(d float64) {
	m.mu.Lock()
	m.now += d
	m.mu.Unlock()
}

// SetDuration registers the decoded duration, in seconds, of a payload.
func (m *MockContext) SetDuration(data []byte, seconds float64) {
	m.mu.Lock()
	m.durations[string(data)] = seconds
	m.mu.Unlock()
}

// SetDecodeError makes every following decode fail with err.
func (m *MockContext) SetDecodeError(err error) {
	m.mu.Lock()
	m.decodeErr = err
	m.mu.Unlock()
}

// SetResumeError makes Resume fail with err.
func (m *MockContext) SetResumeError(err error) {
	m.mu.Lock()
	m.resumeErr = err
	m.mu.Unlock()
}

// HoldDecodes makes Decode block until released.
func (m *MockContext) HoldDecodes(hold bool) {
	m.mu.Lock()
	m.hold = hold
	m.mu.Unlock()
}

// WaitPending blocks until at least n decodes are held.
func (m *MockContext) WaitPending(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.pending) < n {
		m.cond.Wait()
	}
}

// ResolveNext releases the oldest held decode. It reports false if none is held.
func (m *MockContext) ResolveNext() bool {
	return m.release(nil)
}

// FailNext releases the oldest held decode with err.
func (m *MockContext) FailNext(err error) bool {
	return m.release(err)
}

// ResolveAll releases every held decode in submission order.
func (m *MockContext) ResolveAll() {
	for m.ResolveNext() {
	}
}

func (m *MockContext) release(err error) bool {
	m.mu.Lock()
	if len(m.pending) == 0 {
		m.mu.Unlock()
		return false
	}
	p := m.pending[0]
	m.pending = m.pending[1:]
	m.mu.Unlock()

	if err != nil {
		p.err = err
	}
	close(p.done)
	return true
}

// Sources returns every source created so far.
func (m *MockContext) Sources() []*MockSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockSource(nil), m.sources...)
}

// StartCount returns how many sources were started.
func (m *MockContext) StartCount() int {
	n := 0
	for _, s := range m.Sources() {
		if s.Started() {
			n++
		}
	}
	return n
}

// LastSource returns the most recently created source, or nil.
func (m *MockContext) LastSource() *MockSource {
	srcs := m.Sources()
	if len(srcs) == 0 {
		return nil
	}
	return srcs[len(srcs)-1]
}

// MediaSources returns every media stream source created so far.
func (m *MockContext) MediaSources() []*MockMediaSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockMediaSource(nil), m.media...)
}

// Resumes returns how many times Resume was called.
func (m *MockContext) Resumes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resumes
}

// Closed reports whether Close was called.
func (m *MockContext) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MockBuffer is the Buffer produced by MockContext.
type MockBuffer struct {
	Data    string
	Seconds float64
	Rate    int
}

func (b *MockBuffer) Duration() float64 { return b.Seconds }

func (b *MockBuffer) SampleRate() int { return b.Rate }

type mockNode struct {
	mu        sync.Mutex
	connected Node
}

func (n *mockNode) Connect(dst Node) error {
	n.mu.Lock()
	n.connected = dst
	n.mu.Unlock()
	return nil
}

func (n *mockNode) Disconnect() {
	n.mu.Lock()
	n.connected = nil
	n.mu.Unlock()
}

// Target returns the node this one is connected to.
func (n *mockNode) Target() Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.connected
}

// MockSource is the Source produced by MockContext.
type MockSource struct {
	mockNode
	buf Buffer

	stateMu      sync.Mutex
	onEnded      func()
	started      bool
	stopped      bool
	ended        bool
	disconnected bool
	offset       float64
}

func (s *MockSource) SetOnEnded(fn func()) {
	s.stateMu.Lock()
	s.onEnded = fn
	s.stateMu.Unlock()
}

func (s *MockSource) Start(offset float64) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.started {
		return errors.New("audio: source already started")
	}
	s.started = true
	s.offset = offset
	return nil
}

// Stop invokes the ended callback synchronously when it is still set.
func (s *MockSource) Stop() error {
	s.stateMu.Lock()
	if !s.started {
		s.stateMu.Unlock()
		return errNotStarted
	}
	fire := !s.stopped && !s.ended
	s.stopped = true
	cb := s.onEnded
	s.stateMu.Unlock()

	if fire && cb != nil {
		cb()
	}
	return nil
}

func (s *MockSource) Disconnect() {
	s.mockNode.Disconnect()
	s.stateMu.Lock()
	s.disconnected = true
	s.stateMu.Unlock()
}

// End simulates the source reaching the end of its buffer.
func (s *MockSource) End() {
	s.stateMu.Lock()
	if !s.started || s.stopped || s.ended {
		s.stateMu.Unlock()
		return
	}
	s.ended = true
	cb := s.onEnded
	s.stateMu.Unlock()

	if cb != nil {
		cb()
	}
}

func (s *MockSource) Buffer() Buffer { return s.buf }

func (s *MockSource) Started() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.started
}

func (s *MockSource) Stopped() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.stopped
}

func (s *MockSource) Disconnected() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.disconnected
}

func (s *MockSource) Offset() float64 {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.offset
}

func (s *MockSource) HasOnEnded() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.onEnded != nil
}

// MockGain is the Gain produced by MockContext.
type MockGain struct {
	mockNode
	valueMu sync.Mutex
	value   float64
}

func (g *MockGain) Value() float64 {
	g.valueMu.Lock()
	defer g.valueMu.Unlock()
	return g.value
}

func (g *MockGain) SetValue(v float64) {
	g.valueMu.Lock()
	g.value = v
	g.valueMu.Unlock()
}

// MockAnalyser is the Analyser produced by MockContext. It reports silence.
type MockAnalyser struct {
	mockNode
	size int
}

func (a *MockAnalyser) FFTSize() int { return a.size }

func (a *MockAnalyser) FrequencyData() []byte {
	return make([]byte, a.size/2)
}

func (a *MockAnalyser) TimeData() []byte {
	out := make([]byte, a.size)
	for i := range out {
		out[i] = 128
	}
	return out
}

// MockMediaSource is the MediaSource produced by MockContext.
type MockMediaSource struct {
	mockNode
	stream       MediaStream
	disconnected bool
}

func (s *MockMediaSource) Stream() MediaStream { return s.stream }

func (s *MockMediaSource) Disconnect() {
	s.mockNode.Disconnect()
	s.mu.Lock()
	s.disconnected = true
	s.mu.Unlock()
}

func (s *MockMediaSource) Disconnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disconnected
}

// MockStream is a MediaStream whose tracks record being stopped.
type MockStream struct {
	Inputs []*MockTrack
}

// NewMockStream creates a stream with n tracks.
func NewMockStream(n int) *MockStream {
	s := &MockStream{}
	for range n {
		s.Inputs = append(s.Inputs, &MockTrack{})
	}
	return s
}

func (s *MockStream) Tracks() []MediaTrack {
	out := make([]MediaTrack, len(s.Inputs))
	for i, t := range s.Inputs {
		out[i] = t
	}
	return out
}

// MockTrack is a MediaTrack of MockStream.
type MockTrack struct {
	mu      sync.Mutex
	stopped bool
}

func (t *MockTrack) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *MockTrack) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}
