package app

import (
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavescope/internal/keymap"
)

// handleKey resolves a key press to an action and runs it.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.Keys.Resolve(msg.String())
	if action == "" {
		return m, nil
	}
	if action != keymap.ActionHelp {
		m.ErrorMsg = ""
	}

	switch action {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.Help.ShowAll = !m.Help.ShowAll
	case keymap.ActionCycleVisualizer:
		m.Visualizer = m.Visualizer.Next()
		cmd := m.ensureTicking()
		return m, cmd

	case keymap.ActionPlayPause:
		if m.Engine.IsMicrophoneActive() {
			m.Engine.StopMicrophone()
		}
		return m, playbackCmd("play", m.Playback.Toggle)
	case keymap.ActionStop:
		m.Engine.StopMicrophone()
		m.Playback.Stop()
	case keymap.ActionNextTrack:
		return m, playbackCmd("next", m.Playback.Next)
	case keymap.ActionPrevTrack:
		return m, playbackCmd("previous", m.Playback.Previous)
	case keymap.ActionFirstTrack:
		return m, playbackCmd("jump", func() error { return m.Playback.JumpTo(0) })
	case keymap.ActionSeekForward:
		m.Playback.Seek(m.seekStep)
	case keymap.ActionSeekBack:
		m.Playback.Seek(-m.seekStep)
	case keymap.ActionRestart:
		m.Playback.SeekTo(0)

	case keymap.ActionVolumeUp:
		m.Engine.SetVolume(stepVolume(m.Engine.Volume(), volumeStep))
		m.saveVolume()
	case keymap.ActionVolumeDown:
		m.Engine.SetVolume(stepVolume(m.Engine.Volume(), -volumeStep))
		m.saveVolume()
	case keymap.ActionToggleMute:
		m.Engine.ToggleMute()
		m.saveVolume()

	case keymap.ActionToggleMicrophone:
		if m.Engine.IsMicrophoneActive() {
			m.Engine.StopMicrophone()
			return m, nil
		}
		if m.openMic == nil {
			return m, nil
		}
		return m, startMicrophoneCmd(m.ctx, m.Engine, m.openMic)
	}
	return m, nil
}

// stepVolume adds delta and snaps to whole percents so repeated steps do
// not drift.
func stepVolume(v, delta float64) float64 {
	return min(max(math.Round((v+delta)*100)/100, 0), 1)
}
