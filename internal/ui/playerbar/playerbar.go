// Package playerbar renders the one-line transport bar.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/wavescope/internal/engine"
	"github.com/llehouerou/wavescope/internal/ui/render"
	"github.com/llehouerou/wavescope/internal/ui/styles"
)

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	stopSymbol  = "■"
	separator   = "   "
)

// Height is the rendered height including the border.
const Height = 3

// State holds everything needed to render the player bar.
type State struct {
	Status   engine.Status
	Title    string
	Artist   string
	Album    string
	Index    int // position in the queue, -1 when nothing is selected
	QueueLen int
	Position time.Duration
	Duration time.Duration
	Volume   float64
	Muted    bool
	Mic      bool
}

// Render returns the player bar for the given total width.
func Render(s State, width int) string {
	innerWidth := max(width-6, 0) // border and padding

	right := rightSide(s)
	rightWidth := ansi.StringWidth(right)

	left := statusSymbol(s)
	if s.Mic {
		left += " " + styles.T().S().Live.Render("LIVE")
	}
	leftWidth := ansi.StringWidth(left) + 2

	var content strings.Builder
	content.WriteString(left)
	content.WriteString("  ")

	if s.Mic || (s.Status == engine.Stopped && s.Title == "") {
		msg := "microphone input"
		if !s.Mic {
			msg = "nothing playing"
		}
		content.WriteString(infoStyle().Render(msg))
		line := render.Row(content.String(), right, innerWidth)
		return barStyle().Padding(0, 2).Width(max(width-2, 0)).Render(line)
	}

	title := render.Sanitize(s.Title)
	if title == "" {
		title = "Unknown Track"
	}
	info := trackInfo(s)
	counter := queueCounter(s)

	counterWidth := 0
	if counter != "" {
		counterWidth = ansi.StringWidth(counter) + len(separator)
	}
	available := innerWidth - leftWidth - rightWidth - counterWidth - len(separator)*2 - minBarWidth*3

	titleWidth := ansi.StringWidth(title)
	infoWidth := ansi.StringWidth(info)
	var used int
	switch {
	case info != "" && titleWidth+len(separator)+infoWidth <= available:
		content.WriteString(titleStyle().Render(title))
		content.WriteString(separator)
		content.WriteString(infoStyle().Render(info))
		used = titleWidth + len(separator) + infoWidth
	case info != "" && titleWidth+len(separator)+minBarWidth < available:
		maxInfo := available - titleWidth - len(separator)
		cut := render.Truncate(info, maxInfo)
		content.WriteString(titleStyle().Render(title))
		content.WriteString(separator)
		content.WriteString(infoStyle().Render(cut))
		used = titleWidth + len(separator) + ansi.StringWidth(cut)
	default:
		cut := render.Truncate(title, max(available, 10))
		content.WriteString(titleStyle().Render(cut))
		used = ansi.StringWidth(cut)
	}
	if counter != "" {
		content.WriteString(separator)
		content.WriteString(metaStyle().Render(counter))
	}

	barWidth := max(innerWidth-leftWidth-used-counterWidth-rightWidth-len(separator)*2, minBarWidth)
	content.WriteString(separator)
	content.WriteString(ProgressBar(s.Position, s.Duration, barWidth))
	content.WriteString(separator)
	content.WriteString(right)

	line := render.TruncateStyled(content.String(), innerWidth)
	return barStyle().Padding(0, 2).Width(max(width-2, 0)).Render(line)
}

func statusSymbol(s State) string {
	st := styles.T().S()
	switch s.Status {
	case engine.Playing:
		return st.Playing.Render(playSymbol)
	case engine.Paused:
		return st.Paused.Render(pauseSymbol)
	default:
		return st.Muted.Render(stopSymbol)
	}
}

func trackInfo(s State) string {
	var parts []string
	if a := render.Sanitize(s.Artist); a != "" {
		parts = append(parts, a)
	}
	if a := render.Sanitize(s.Album); a != "" {
		parts = append(parts, a)
	}
	return strings.Join(parts, " · ")
}

func queueCounter(s State) string {
	if s.QueueLen <= 1 || s.Index < 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", s.Index+1, s.QueueLen)
}

func rightSide(s State) string {
	vol := Volume(s.Volume, s.Muted)
	if s.Mic {
		return vol
	}
	times := timeStyle().Render(FormatDuration(s.Position) + " / " + FormatDuration(s.Duration))
	return lipgloss.JoinHorizontal(lipgloss.Top, times, "  ", vol)
}
