// Package keymap defines key bindings for the application.
package keymap

// Binding maps keys to an action, with a description for help.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "volume", "input"
}

// All contains every key binding.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Toggle help", "global"},
	{ActionCycleVisualizer, []string{"v"}, "Spectrum/waveform", "global"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},
	{ActionNextTrack, []string{"n", "pgdown"}, "Next track", "playback"},
	{ActionPrevTrack, []string{"p", "pgup"}, "Previous track", "playback"},
	{ActionFirstTrack, []string{"home"}, "First track", "playback"},
	{ActionSeekBack, []string{"left", "h"}, "Seek back", "playback"},
	{ActionSeekForward, []string{"right", "l"}, "Seek forward", "playback"},
	{ActionRestart, []string{"0"}, "Restart track", "playback"},

	// Volume
	{ActionVolumeUp, []string{"+", "="}, "Volume up", "volume"},
	{ActionVolumeDown, []string{"-"}, "Volume down", "volume"},
	{ActionToggleMute, []string{"m"}, "Mute/unmute", "volume"},

	// Input
	{ActionToggleMicrophone, []string{"i"}, "Microphone on/off", "input"},
}

// Contexts lists binding contexts in help display order.
var Contexts = []string{"playback", "volume", "input", "global"}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
