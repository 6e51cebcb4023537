package styles

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// ApplyGradient renders text with a horizontal color gradient.
func ApplyGradient(text string, from, to lipgloss.Color) string {
	return applyGradient(text, false, from, to)
}

// ApplyBoldGradient renders bold text with a horizontal color gradient.
func ApplyBoldGradient(text string, from, to lipgloss.Color) string {
	return applyGradient(text, true, from, to)
}

func applyGradient(text string, bold bool, from, to lipgloss.Color) string {
	if text == "" {
		return ""
	}

	// Grapheme clusters, so combined emoji get one color
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	colors := Gradient(len(clusters), from, to)

	var b strings.Builder
	for i, cluster := range clusters {
		style := lipgloss.NewStyle().Foreground(colors[i])
		if bold {
			style = style.Bold(true)
		}
		b.WriteString(style.Render(cluster))
	}

	return b.String()
}

// Gradient returns size colors blended from from to to in HCL space. The
// endpoints are from and to themselves. A size of 1 yields from.
func Gradient(size int, from, to lipgloss.Color) []lipgloss.Color {
	if size <= 0 {
		return nil
	}
	if size == 1 {
		return []lipgloss.Color{from}
	}

	c1, _ := colorful.MakeColor(lipglossToColor(from))
	c2, _ := colorful.MakeColor(lipglossToColor(to))

	colors := make([]lipgloss.Color, size)
	for i := range size {
		t := float64(i) / float64(size-1)
		colors[i] = lipgloss.Color(c1.BlendHcl(c2, t).Clamped().Hex())
	}
	colors[0], colors[size-1] = from, to
	return colors
}

// lipglossToColor converts a hex lipgloss.Color to a color.Color.
func lipglossToColor(c lipgloss.Color) color.Color {
	hex := string(c)
	if len(hex) == 7 && hex[0] == '#' {
		col, err := colorful.Hex(hex)
		if err == nil {
			return col
		}
	}
	// ANSI palette colors have no RGB value here
	return color.RGBA{R: 128, G: 128, B: 128, A: 255}
}
