package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavescope/internal/engine"
	"github.com/llehouerou/wavescope/internal/errmsg"
	"github.com/llehouerou/wavescope/internal/state"
	"github.com/llehouerou/wavescope/internal/ui/spectrum"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case PlaybackMessage:
		return m.handlePlaybackMsg(msg)
	}
	return m, nil
}

// handlePlaybackMsg routes playback-related messages. Every service event
// re-arms the watcher.
func (m Model) handlePlaybackMsg(msg PlaybackMessage) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		if !m.needsFrames() {
			m.ticking = false
			return m, nil
		}
		return m, FrameCmd(m.frameInterval)

	case ServiceStateChangedMsg:
		m.logger.Debug().
			Stringer("from", msg.Previous).
			Stringer("to", msg.Current).
			Msg("status changed")
		if msg.Current == engine.Stopped {
			m.Position = 0
		}
		tick := m.ensureTicking()
		return m, tea.Batch(m.WatchServiceEvents(), tick)

	case ServiceTrackChangedMsg:
		m.ErrorMsg = ""
		m.SaveQueueState()
		return m, m.WatchServiceEvents()

	case ServiceQueueChangedMsg:
		m.SaveQueueState()
		return m, m.WatchServiceEvents()

	case ServicePositionChangedMsg:
		if m.Playback.Status() != engine.Stopped {
			m.Position = msg.Position
		}
		return m, m.WatchServiceEvents()

	case ServiceErrorMsg:
		m.ErrorMsg = errmsg.FormatWith(errmsg.ForEvent(msg.Operation), msg.Path, msg.Err)
		return m, m.WatchServiceEvents()

	case PlaybackFailedMsg:
		m.ErrorMsg = errmsg.Format(errmsg.ForEvent(msg.Operation), msg.Err)
		return m, nil

	case ServiceClosedMsg:
		return m, nil

	case MicrophoneStartedMsg:
		if msg.Err != nil {
			m.logger.Warn().Err(msg.Err).Msg("microphone unavailable")
			m.ErrorMsg = errmsg.Format(errmsg.OpMicrophoneOpen, msg.Err)
			return m, nil
		}
		m.ErrorMsg = ""
		tick := m.ensureTicking()
		return m, tick
	}
	return m, nil
}

// needsFrames reports whether the visualizer has live data to redraw. The
// seek bar and time labels follow position events instead.
func (m Model) needsFrames() bool {
	if m.Visualizer == spectrum.ModeOff {
		return false
	}
	return m.Engine.IsMicrophoneActive() || m.Playback.Status() == engine.Playing
}

// ensureTicking starts the frame loop unless it is already running.
func (m *Model) ensureTicking() tea.Cmd {
	if m.ticking || !m.needsFrames() {
		return nil
	}
	m.ticking = true
	return FrameCmd(m.frameInterval)
}

// SaveQueueState persists the queue so the next run starts where this one
// left off.
func (m Model) SaveQueueState() {
	if m.StateMgr == nil {
		return
	}
	if err := m.StateMgr.SaveQueue(QueueState(m.Playback)); err != nil {
		m.logger.Warn().Err(err).Msg("save queue failed")
	}
}

// saveVolume persists the current gain. Saves are debounced by the state
// manager.
func (m Model) saveVolume() {
	if m.StateMgr == nil {
		return
	}
	v := m.Engine.Volume()
	m.StateMgr.SaveVolume(state.VolumeState{Volume: v, Muted: v == 0})
}
