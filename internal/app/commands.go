package app

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavescope/internal/playback"
)

// FrameCmd returns a command that sends FrameMsg after interval.
func FrameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// WatchServiceEvents returns a command that waits for the next playback
// service event and converts it to a tea.Msg.
func (m Model) WatchServiceEvents() tea.Cmd {
	sub := m.playbackSub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return ServiceStateChangedMsg{Previous: e.Previous, Current: e.Current}
		case e := <-sub.TrackChanged:
			return ServiceTrackChangedMsg{Index: e.Index, Track: e.Current}
		case e := <-sub.QueueChanged:
			return ServiceQueueChangedMsg{Index: e.Index}
		case e := <-sub.PositionChanged:
			return ServicePositionChangedMsg{Position: e.Position}
		case e := <-sub.Error:
			return ServiceErrorMsg{Operation: e.Operation, Path: e.Path, Err: e.Err}
		case <-sub.Done:
			return ServiceClosedMsg{}
		}
	}
}

// playbackCmd runs a transport call off the update loop, since starting a
// track waits for its decode. Track failures arrive through the service
// subscription; only an empty queue is reported here.
func playbackCmd(operation string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); errors.Is(err, playback.ErrEmptyQueue) {
			return PlaybackFailedMsg{Operation: operation, Err: err}
		}
		return nil
	}
}

// startMicrophoneCmd opens the capture device and routes it into the engine.
func startMicrophoneCmd(ctx context.Context, eng Engine, open MicOpener) tea.Cmd {
	return func() tea.Msg {
		stream, err := open()
		if err != nil {
			return MicrophoneStartedMsg{Err: err}
		}
		return MicrophoneStartedMsg{Err: eng.StartMicrophone(ctx, stream)}
	}
}
