package spectrum

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMode_Next(t *testing.T) {
	assert.Equal(t, ModeWave, ModeBars.Next())
	assert.Equal(t, ModeOff, ModeWave.Next())
	assert.Equal(t, ModeBars, ModeOff.Next())
	assert.Equal(t, "wave", ModeWave.String())
}

func TestColumns(t *testing.T) {
	t.Run("short input", func(t *testing.T) {
		assert.Equal(t, []byte{0, 0, 0}, Columns([]byte{200}, 3))
	})

	t.Run("skips dc bin", func(t *testing.T) {
		freq := make([]byte, 64)
		freq[0] = 255
		for _, v := range Columns(freq, 8) {
			assert.Zero(t, v)
		}
	})

	t.Run("peak per group", func(t *testing.T) {
		freq := make([]byte, 1024)
		freq[1] = 90
		freq[1023] = 250
		cols := Columns(freq, 16)
		require.Len(t, cols, 16)
		assert.Equal(t, byte(90), cols[0])
		assert.Equal(t, byte(250), cols[15])
	})

	t.Run("low bins get more columns than high bins", func(t *testing.T) {
		freq := make([]byte, 1024)
		for i := 1; i < 32; i++ {
			freq[i] = 100
		}
		cols := Columns(freq, 20)
		lit := 0
		for _, v := range cols {
			if v > 0 {
				lit++
			}
		}
		// 31 of 1023 bins is half the log range.
		assert.GreaterOrEqual(t, lit, 9)
	})
}

func TestBars_Shape(t *testing.T) {
	freq := make([]byte, 256)
	for i := range freq {
		freq[i] = 255
	}

	out := Bars(freq, 10, 4)

	assert.Equal(t, 4, lipgloss.Height(out))
	assert.Equal(t, 10, lipgloss.Width(out))
	for _, line := range strings.Split(ansi.Strip(out), "\n") {
		assert.Equal(t, strings.Repeat("█", 10), line)
	}
}

func TestBars_Silence(t *testing.T) {
	out := ansi.Strip(Bars(make([]byte, 256), 6, 2))

	assert.Equal(t, "      \n      ", out)
}

func TestBars_PartialLevel(t *testing.T) {
	freq := []byte{0, 128, 128, 128}

	lines := strings.Split(ansi.Strip(Bars(freq, 1, 2)), "\n")

	require.Len(t, lines, 2)
	assert.Equal(t, " ", lines[0])
	assert.Equal(t, "█", lines[1])
}

func TestWaveform_Silence(t *testing.T) {
	wave := make([]byte, 512)
	for i := range wave {
		wave[i] = 128
	}

	lines := strings.Split(ansi.Strip(Waveform(wave, 8, 3)), "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, strings.Repeat(" ", 8), lines[0])
	assert.Equal(t, strings.Repeat("•", 8), lines[1])
	assert.Equal(t, strings.Repeat(" ", 8), lines[2])
}

func TestRender_Off(t *testing.T) {
	out := Render(ModeOff, []byte{1, 2}, []byte{3}, 4, 2)
	assert.Equal(t, "    \n    ", out)
	assert.Empty(t, Render(ModeBars, nil, nil, 0, 2))
}
