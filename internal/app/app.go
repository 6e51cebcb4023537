package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavescope/internal/keymap"
	"github.com/llehouerou/wavescope/internal/playback"
	"github.com/llehouerou/wavescope/internal/state"
	"github.com/llehouerou/wavescope/internal/ui/spectrum"
)

const (
	volumeStep           = 0.05
	defaultSeekStep      = 5 * time.Second
	defaultFrameInterval = time.Second / 30
)

// Options configures the model. Playback and Engine are required.
type Options struct {
	Playback  playback.Service
	Engine    Engine
	State     state.Interface
	OpenMic   MicOpener
	Logger    zerolog.Logger
	SeekStep  time.Duration
	FrameRate int
}

// Model is the root application model.
type Model struct {
	Playback playback.Service
	Engine   Engine
	StateMgr state.Interface
	Keys     *keymap.Resolver
	Help     help.Model

	Visualizer spectrum.Mode
	Position   time.Duration // last position reported by the service
	ErrorMsg   string
	Width      int
	Height     int

	openMic       MicOpener
	logger        zerolog.Logger
	ctx           context.Context
	playbackSub   *playback.Subscription
	seekStep      time.Duration
	frameInterval time.Duration
	ticking       bool
}

// New creates the application model and subscribes to the playback service.
func New(ctx context.Context, opts Options) Model {
	seekStep := opts.SeekStep
	if seekStep <= 0 {
		seekStep = defaultSeekStep
	}
	frameInterval := defaultFrameInterval
	if opts.FrameRate > 0 {
		frameInterval = time.Second / time.Duration(opts.FrameRate)
	}
	return Model{
		Playback:      opts.Playback,
		Engine:        opts.Engine,
		StateMgr:      opts.State,
		Keys:          keymap.NewResolver(keymap.All),
		Help:          help.New(),
		Visualizer:    spectrum.ModeBars,
		openMic:       opts.OpenMic,
		logger:        opts.Logger.With().Str("component", "tui").Logger(),
		ctx:           ctx,
		playbackSub:   opts.Playback.Subscribe(),
		seekStep:      seekStep,
		frameInterval: frameInterval,
		ticking:       true, // Init starts the frame loop
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.WatchServiceEvents(), FrameCmd(m.frameInterval))
}
