package playerbar

import (
	"fmt"
	"strings"
	"time"
)

const (
	filledBlock = "━"
	emptyBlock  = "─"
)

// minBarWidth is the narrowest bar worth drawing.
const minBarWidth = 3

// ProgressBar renders position within duration as a bar of exactly width
// cells. An unknown duration draws an empty bar.
func ProgressBar(position, duration time.Duration, width int) string {
	if width <= 0 {
		return ""
	}
	filled := filledCells(position, duration, width)
	return progressFilledStyle().Render(strings.Repeat(filledBlock, filled)) +
		progressEmptyStyle().Render(strings.Repeat(emptyBlock, width-filled))
}

func filledCells(position, duration time.Duration, width int) int {
	if duration <= 0 || position <= 0 {
		return 0
	}
	ratio := float64(position) / float64(duration)
	return min(int(float64(width)*ratio), width)
}

// FormatDuration renders d as m:ss, or h:mm:ss from one hour on.
func FormatDuration(d time.Duration) string {
	d = max(d, 0).Truncate(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
