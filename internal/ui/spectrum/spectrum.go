// Package spectrum draws analyser output as terminal graphics.
package spectrum

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavescope/internal/ui/styles"
)

// Mode selects what the visualizer draws.
type Mode int

const (
	ModeBars Mode = iota
	ModeWave
	ModeOff
	modeCount
)

func (m Mode) String() string {
	switch m {
	case ModeBars:
		return "bars"
	case ModeWave:
		return "wave"
	case ModeOff:
		return "off"
	default:
		return "unknown"
	}
}

// Next cycles bars, wave, off.
func (m Mode) Next() Mode {
	return (m + 1) % modeCount
}

var levels = []rune(" ▁▂▃▄▅▆▇█")

// Render draws data for mode in a width x height block. freq is analyser
// frequency data and wave is time-domain data.
func Render(mode Mode, freq, wave []byte, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	switch mode {
	case ModeBars:
		return Bars(freq, width, height)
	case ModeWave:
		return Waveform(wave, width, height)
	default:
		return blank(width, height)
	}
}

// Bars draws one column per cell. Bins are grouped on a log scale so low
// frequencies get as much room as high ones. Bin 0 (DC) is skipped.
func Bars(freq []byte, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	cols := Columns(freq, width)
	colors := styles.Gradient(width, styles.T().SpectrumLow, styles.T().SpectrumHigh)

	steps := height * (len(levels) - 1)
	rows := make([]strings.Builder, height)
	for x, v := range cols {
		fill := int(math.Round(float64(v) / 255 * float64(steps)))
		style := lipgloss.NewStyle().Foreground(colors[x])
		for y := range height {
			// y counts from the bottom row.
			cell := min(max(fill-y*(len(levels)-1), 0), len(levels)-1)
			r := string(levels[cell])
			if cell > 0 {
				r = style.Render(r)
			}
			rows[height-1-y].WriteString(r)
		}
	}
	return joinRows(rows)
}

// Columns reduces freq to width values by taking the peak of each log-spaced
// group of bins.
func Columns(freq []byte, width int) []byte {
	out := make([]byte, width)
	n := len(freq)
	if n < 2 || width <= 0 {
		return out
	}
	lo := 1.0
	ratio := math.Pow(float64(n)/lo, 1/float64(width))
	for x := range out {
		start := int(lo * math.Pow(ratio, float64(x)))
		end := int(lo * math.Pow(ratio, float64(x+1)))
		if x == width-1 {
			end = n
		}
		start = min(max(start, 1), n-1)
		end = min(max(end, start+1), n)
		var peak byte
		for _, v := range freq[start:end] {
			peak = max(peak, v)
		}
		out[x] = peak
	}
	return out
}

// Waveform draws time data as a trace, one sample column per cell.
func Waveform(wave []byte, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	grid := make([][]rune, height)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", width))
	}
	if len(wave) > 0 {
		for x := range width {
			v := wave[x*len(wave)/width]
			y := (255 - int(v)) * height / 256
			grid[y][x] = '•'
		}
	}

	style := lipgloss.NewStyle().Foreground(styles.T().Primary)
	rows := make([]strings.Builder, height)
	for y, line := range grid {
		rows[y].WriteString(style.Render(string(line)))
	}
	return joinRows(rows)
}

func blank(width, height int) string {
	rows := make([]strings.Builder, height)
	for y := range rows {
		rows[y].WriteString(strings.Repeat(" ", width))
	}
	return joinRows(rows)
}

func joinRows(rows []strings.Builder) string {
	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = rows[i].String()
	}
	return strings.Join(lines, "\n")
}
