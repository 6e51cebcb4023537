// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Playback actions
	ActionPlayPause   Action = "play_pause"
	ActionStop        Action = "stop"
	ActionNextTrack   Action = "next_track"
	ActionPrevTrack   Action = "prev_track"
	ActionFirstTrack  Action = "first_track"
	ActionSeekForward Action = "seek_forward"
	ActionSeekBack    Action = "seek_back"
	ActionRestart     Action = "restart" // seek to 0

	// Volume actions
	ActionVolumeUp   Action = "volume_up"
	ActionVolumeDown Action = "volume_down"
	ActionToggleMute Action = "toggle_mute"

	// Input
	ActionToggleMicrophone Action = "toggle_microphone"

	// Display
	ActionCycleVisualizer Action = "cycle_visualizer" // spectrum / waveform
)
