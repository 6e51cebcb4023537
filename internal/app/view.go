package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/wavescope/internal/engine"
	"github.com/llehouerou/wavescope/internal/ui/playerbar"
	"github.com/llehouerou/wavescope/internal/ui/render"
	"github.com/llehouerou/wavescope/internal/ui/spectrum"
	"github.com/llehouerou/wavescope/internal/ui/styles"
)

const (
	appTitle        = "wavescope"
	headerHeight    = 1
	minSpectrumRows = 2
)

// View implements tea.Model.
func (m Model) View() string {
	if m.Width <= 0 || m.Height <= 0 {
		return ""
	}

	header := m.renderHeader()
	bar := playerbar.Render(m.playerBarState(), m.Width)
	footer := m.renderFooter()

	rows := m.Height - headerHeight - playerbar.Height - lipgloss.Height(footer)
	sections := []string{header}
	if rows >= minSpectrumRows {
		sections = append(sections, m.renderVisualizer(rows))
	}
	sections = append(sections, bar, footer)
	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := styles.ApplyBoldGradient(appTitle, styles.T().Primary, styles.T().Secondary)

	var right string
	switch {
	case m.Engine.IsMicrophoneActive():
		right = styles.T().S().Live.Render("microphone")
	default:
		if t := m.Playback.CurrentTrack(); t != nil {
			right = styles.T().S().Muted.Render(t.Size())
		}
	}
	if n := m.Playback.QueueLen(); n > 0 && !m.Engine.IsMicrophoneActive() {
		right = styles.T().S().Subtle.Render(humanize.Comma(int64(n))+" queued") + "  " + right
	}
	return render.Row(" "+title, strings.TrimSpace(right)+" ", m.Width)
}

func (m Model) renderVisualizer(rows int) string {
	var freq, wave []byte
	switch m.Visualizer {
	case spectrum.ModeBars:
		freq = m.Engine.GetFrequencyData()
	case spectrum.ModeWave:
		wave = m.Engine.GetTimeData()
	case spectrum.ModeOff:
	}
	return spectrum.Render(m.Visualizer, freq, wave, m.Width, rows)
}

func (m Model) renderFooter() string {
	helpView := m.Help.View(m.Keys)
	if m.ErrorMsg == "" {
		return helpView
	}
	errLine := styles.T().S().Error.Render(render.TruncateStyled(m.ErrorMsg, m.Width))
	return errLine + "\n" + helpView
}

func (m Model) playerBarState() playerbar.State {
	s := playerbar.State{
		Status:   m.Playback.Status(),
		Index:    m.Playback.QueueCurrentIndex(),
		QueueLen: m.Playback.QueueLen(),
		Position: m.Position,
		Duration: m.Playback.Duration(),
		Volume:   m.Engine.Volume(),
		Muted:    m.Engine.IsMuted(),
		Mic:      m.Engine.IsMicrophoneActive(),
	}
	if s.Mic {
		s.Status = engine.Stopped
		return s
	}
	if t := m.Playback.CurrentTrack(); t != nil {
		s.Title = t.Title
		s.Artist = t.Artist
		s.Album = t.Album
	}
	return s
}
