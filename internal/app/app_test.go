package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavescope/internal/audio"
	"github.com/llehouerou/wavescope/internal/engine"
	"github.com/llehouerou/wavescope/internal/playback"
	"github.com/llehouerou/wavescope/internal/playlist"
	"github.com/llehouerou/wavescope/internal/state"
	"github.com/llehouerou/wavescope/internal/track"
	"github.com/llehouerou/wavescope/internal/ui/spectrum"
	"github.com/llehouerou/wavescope/internal/updater"
)

type fixture struct {
	host   *audio.MockContext
	engine *engine.Engine
	svc    playback.Service
	state  *state.Mock
	model  Model
}

func newFixture(t *testing.T, open MicOpener, tracks ...track.Track) *fixture {
	t.Helper()
	host := audio.NewMockContext()
	factory := func(context.Context) (audio.Context, error) { return host, nil }
	eng := engine.New(factory, engine.WithScheduler(&updater.ManualScheduler{}))
	svc := playback.New(eng, playlist.NewQueue(tracks...), zerolog.Nop())
	st := state.NewMock()
	t.Cleanup(func() {
		_ = svc.Close()
		_ = eng.Cleanup()
	})
	m := New(context.Background(), Options{
		Playback: svc,
		Engine:   eng,
		State:    st,
		OpenMic:  open,
		Logger:   zerolog.Nop(),
	})
	return &fixture{host: host, engine: eng, svc: svc, state: st, model: m}
}

func keyMsg(k string) tea.KeyMsg {
	if k == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends a key and runs the resulting command once, feeding its message
// back into the model.
func (f *fixture) press(t *testing.T, k string) {
	t.Helper()
	next, cmd := f.model.Update(keyMsg(k))
	f.model = next.(Model)
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		next, _ = f.model.Update(msg)
		f.model = next.(Model)
	}
}

func TestStepVolume(t *testing.T) {
	tests := []struct {
		name     string
		v, delta float64
		want     float64
	}{
		{"up", 0.5, 0.05, 0.55},
		{"down", 0.5, -0.05, 0.45},
		{"clamps high", 0.98, 0.05, 1},
		{"clamps low", 0.02, -0.05, 0},
		{"snaps drift", 0.15000000001, 0.05, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stepVolume(tt.v, tt.delta); got != tt.want {
				t.Errorf("stepVolume(%v, %v) = %v, want %v", tt.v, tt.delta, got, tt.want)
			}
		})
	}
}

func TestKeys_PlayPause(t *testing.T) {
	f := newFixture(t, nil, track.New("a.mp3", []byte("a")))

	f.press(t, " ")
	assert.Equal(t, engine.Playing, f.svc.Status())

	f.press(t, " ")
	assert.Equal(t, engine.Paused, f.svc.Status())
}

func TestKeys_PlayEmptyQueueShowsError(t *testing.T) {
	f := newFixture(t, nil)

	f.press(t, " ")

	assert.Equal(t, engine.Stopped, f.svc.Status())
	assert.Contains(t, f.model.ErrorMsg, "queue is empty")
}

func TestKeys_NextAndSeek(t *testing.T) {
	f := newFixture(t, nil, track.New("a.mp3", []byte("a")), track.New("b.mp3", []byte("b")))
	f.press(t, " ")

	f.press(t, "n")
	require.NotNil(t, f.engine.Track())
	assert.Equal(t, "b.mp3", f.engine.Track().Path)

	f.press(t, "l")
	assert.InDelta(t, 5, f.svc.Position().Seconds(), 1e-6)

	f.press(t, "h")
	assert.Zero(t, f.svc.Position())
}

func TestKeys_Stop(t *testing.T) {
	f := newFixture(t, nil, track.New("a.mp3", []byte("a")))
	f.press(t, " ")

	f.press(t, "s")

	assert.Equal(t, engine.Stopped, f.svc.Status())
}

func TestKeys_VolumeIsSaved(t *testing.T) {
	f := newFixture(t, nil)

	f.press(t, "-")
	assert.InDelta(t, 0.95, f.engine.Volume(), 1e-9)

	f.press(t, "m")
	assert.True(t, f.engine.IsMuted())

	saved, err := f.state.GetVolume()
	require.NoError(t, err)
	assert.True(t, saved.Muted)
	assert.Zero(t, saved.Level())
	assert.Equal(t, 2, f.state.VolumeSaves())

	f.press(t, "m")
	assert.InDelta(t, 1.0, f.engine.Volume(), 1e-9, "unmute restores the default volume")
}

func TestKeys_MicrophoneToggle(t *testing.T) {
	stream := audio.NewMockStream(1)
	f := newFixture(t, func() (audio.MediaStream, error) { return stream, nil }, track.New("a.mp3", []byte("a")))
	f.press(t, " ")

	f.press(t, "i")
	assert.True(t, f.engine.IsMicrophoneActive())
	assert.Equal(t, engine.Stopped, f.svc.Status(), "microphone stops track playback")
	assert.Empty(t, f.model.ErrorMsg)

	f.press(t, "i")
	assert.False(t, f.engine.IsMicrophoneActive())
	assert.True(t, stream.Inputs[0].Stopped())
}

func TestKeys_MicrophoneOpenFailure(t *testing.T) {
	f := newFixture(t, func() (audio.MediaStream, error) { return nil, errors.New("no device") })

	f.press(t, "i")

	assert.False(t, f.engine.IsMicrophoneActive())
	assert.Contains(t, f.model.ErrorMsg, "open microphone")
	assert.Contains(t, f.model.ErrorMsg, "no device")
}

func TestKeys_CycleVisualizerAndHelp(t *testing.T) {
	f := newFixture(t, nil)

	f.press(t, "v")
	assert.Equal(t, spectrum.ModeWave, f.model.Visualizer)

	f.press(t, "?")
	assert.True(t, f.model.Help.ShowAll)
}

func TestKeys_UnboundKeyIsIgnored(t *testing.T) {
	f := newFixture(t, nil)
	f.model.ErrorMsg = "previous error"

	next, cmd := f.model.Update(keyMsg("z"))

	assert.Nil(t, cmd)
	assert.Equal(t, "previous error", next.(Model).ErrorMsg)
}

func TestQuit(t *testing.T) {
	f := newFixture(t, nil)

	_, cmd := f.model.Update(keyMsg("q"))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestFrame_StopsWhenIdle(t *testing.T) {
	f := newFixture(t, nil)

	next, cmd := f.model.Update(FrameMsg{})

	assert.Nil(t, cmd)
	assert.False(t, next.(Model).ticking)
}

func TestFrame_RestartsOnStateChange(t *testing.T) {
	f := newFixture(t, nil, track.New("a.mp3", []byte("a")))
	next, _ := f.model.Update(FrameMsg{})
	f.model = next.(Model)
	require.NoError(t, f.svc.Play())

	next, cmd := f.model.Update(ServiceStateChangedMsg{Previous: engine.Stopped, Current: engine.Playing})

	assert.NotNil(t, cmd)
	assert.True(t, next.(Model).ticking)
}

func TestFrame_StopsWhilePaused(t *testing.T) {
	f := newFixture(t, nil, track.New("a.mp3", []byte("a")))
	require.NoError(t, f.svc.Play())
	f.svc.Pause()

	next, cmd := f.model.Update(FrameMsg{})

	assert.Nil(t, cmd)
	assert.False(t, next.(Model).ticking)
}

func TestFrame_StopsWithVisualizerOff(t *testing.T) {
	f := newFixture(t, nil, track.New("a.mp3", []byte("a")))
	require.NoError(t, f.svc.Play())
	f.model.Visualizer = spectrum.ModeOff

	next, cmd := f.model.Update(FrameMsg{})
	assert.Nil(t, cmd)
	f.model = next.(Model)

	f.press(t, "v")
	assert.Equal(t, spectrum.ModeBars, f.model.Visualizer)
	assert.True(t, f.model.ticking, "turning the visualizer back on restarts frames")
}

func TestPositionEvent_MovesSeekBar(t *testing.T) {
	f := newFixture(t, nil, track.New("a.mp3", []byte("a")))
	require.NoError(t, f.svc.Play())
	next, _ := f.model.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	f.model = next.(Model)

	next, cmd := f.model.Update(ServicePositionChangedMsg{Position: 75 * time.Second})
	f.model = next.(Model)

	assert.NotNil(t, cmd, "watcher is re-armed")
	assert.Equal(t, 75*time.Second, f.model.Position)
	assert.Contains(t, ansi.Strip(f.model.View()), "1:15")

	f.svc.Stop()
	next, _ = f.model.Update(ServiceStateChangedMsg{Previous: engine.Playing, Current: engine.Stopped})
	f.model = next.(Model)
	assert.Zero(t, f.model.Position)

	next, _ = f.model.Update(ServicePositionChangedMsg{Position: 10 * time.Second})
	assert.Zero(t, next.(Model).Position, "late position after stop is ignored")
}

func TestWatchServiceEvents(t *testing.T) {
	f := newFixture(t, nil, track.New("a.mp3", []byte("a")))
	require.NoError(t, f.svc.Play())

	var got ServiceTrackChangedMsg
	for range 10 {
		if m, ok := f.model.WatchServiceEvents()().(ServiceTrackChangedMsg); ok {
			got = m
			break
		}
	}
	require.NotNil(t, got.Track)
	assert.Equal(t, "a.mp3", got.Track.Path)

	next, _ := f.model.Update(got)
	saved, err := f.state.GetQueue()
	require.NoError(t, err)
	assert.Equal(t, 0, saved.CurrentIndex)
	require.Len(t, saved.Tracks, 1)
	assert.Equal(t, "a.mp3", saved.Tracks[0].Path)
	assert.Empty(t, next.(Model).ErrorMsg)
}

func TestServiceError_Formatted(t *testing.T) {
	f := newFixture(t, nil)

	next, _ := f.model.Update(ServiceErrorMsg{Operation: "advance", Path: "b.mp3", Err: engine.ErrDecode})

	assert.Equal(t, "Failed to advance to next track 'b.mp3': "+engine.ErrDecode.Error(), next.(Model).ErrorMsg)
}

func TestView(t *testing.T) {
	f := newFixture(t, nil)
	f.svc.ReplaceTracks(track.New("a.mp3", make([]byte, 2048)))
	next, _ := f.model.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	f.model = next.(Model)

	out := ansi.Strip(f.model.View())

	assert.Contains(t, out, "wavescope")
	assert.Contains(t, out, "1 queued")
	assert.Contains(t, out, "2.0 kB")
	assert.Contains(t, out, "a.mp3")
	assert.Contains(t, out, "0:00 / 0:00")
	assert.LessOrEqual(t, len(strings.Split(out, "\n")), 20)
}

func TestView_ZeroSize(t *testing.T) {
	f := newFixture(t, nil)
	assert.Empty(t, f.model.View())
}

func TestRestoreQueue(t *testing.T) {
	dir := t.TempDir()
	paths := []string{filepath.Join(dir, "a.wav"), filepath.Join(dir, "gone.wav"), filepath.Join(dir, "c.wav")}
	for _, p := range []string{paths[0], paths[2]} {
		require.NoError(t, os.WriteFile(p, []byte("data"), 0o600))
	}

	f := newFixture(t, nil)
	require.NoError(t, f.state.SaveQueue(state.QueueState{
		CurrentIndex: 2,
		Tracks: []state.QueueTrack{
			{Path: paths[0]}, {Path: paths[1]}, {Path: paths[2]},
		},
	}))

	n, err := RestoreQueue(context.Background(), f.svc, f.state, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, f.svc.QueueLen())
	assert.Equal(t, 1, f.svc.QueueCurrentIndex())
	assert.Equal(t, paths[2], f.svc.CurrentTrack().Path)
	assert.Equal(t, engine.Stopped, f.svc.Status(), "restoring does not start playback")

	saved := QueueState(f.svc)
	assert.Equal(t, 1, saved.CurrentIndex)
	assert.Len(t, saved.Tracks, 2)
}

func TestRestoreQueue_Empty(t *testing.T) {
	f := newFixture(t, nil)

	n, err := RestoreQueue(context.Background(), f.svc, f.state, zerolog.Nop())

	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, f.svc.QueueLen())
}
