package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavescope/internal/app"
	"github.com/llehouerou/wavescope/internal/audio"
	"github.com/llehouerou/wavescope/internal/beepaudio"
	"github.com/llehouerou/wavescope/internal/config"
	"github.com/llehouerou/wavescope/internal/engine"
	"github.com/llehouerou/wavescope/internal/errmsg"
	"github.com/llehouerou/wavescope/internal/logging"
	"github.com/llehouerou/wavescope/internal/mic"
	"github.com/llehouerou/wavescope/internal/mpris"
	"github.com/llehouerou/wavescope/internal/notify"
	"github.com/llehouerou/wavescope/internal/playback"
	"github.com/llehouerou/wavescope/internal/playlist"
	"github.com/llehouerou/wavescope/internal/state"
	"github.com/llehouerou/wavescope/internal/track"
	"github.com/llehouerou/wavescope/internal/updater"
)

// micChannels is the capture channel count.
const micChannels = 1

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}

	logCfg := cfg.GetLogConfig()
	logger, logCloser, err := logging.New(logging.Options{
		File:       logCfg.File,
		Level:      logCfg.Level,
		MaxSizeMB:  logCfg.MaxSizeMB,
		MaxBackups: logCfg.MaxBackups,
	})
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer logCloser.Close()

	// Audio backends print to stderr, which would corrupt the TUI.
	restoreStderr, err := logging.CaptureStderr(logger)
	if err != nil {
		logger.Warn().Err(err).Msg("stderr capture unavailable")
	} else {
		defer restoreStderr()
	}

	stateMgr, err := state.Open()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpStateOpen, err))
	}
	defer stateMgr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := newEngine(cfg, stateMgr, logger)
	defer eng.Cleanup()

	svc := playback.New(eng, playlist.NewQueue(), logger)
	defer svc.Close()

	if err := loadQueue(ctx, svc, stateMgr, args, cfg.DefaultFolder, logger); err != nil {
		return err
	}

	if cfg.NotificationsEnabled() {
		go notify.Watch(ctx, svc.Subscribe(), notify.New(), logger)
	}

	adapter, err := mpris.New(svc, eng, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("mpris unavailable")
	} else {
		defer adapter.Close()
	}

	sampleRate := cfg.GetAudioConfig().SampleRate
	m := app.New(ctx, app.Options{
		Playback: svc,
		Engine:   eng,
		State:    stateMgr,
		OpenMic: func() (audio.MediaStream, error) {
			s, err := mic.Open(sampleRate, micChannels)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		Logger:    logger,
		SeekStep:  cfg.GetPlaybackConfig().SeekStep(),
		FrameRate: cfg.GetPlaybackConfig().FrameRate,
	})

	logger.Info().Int("tracks", svc.QueueLen()).Msg("starting")
	_, runErr := tea.NewProgram(m, tea.WithAltScreen()).Run()

	if err := stateMgr.SaveQueue(app.QueueState(svc)); err != nil {
		logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpQueueSave, err))
	}
	return runErr
}

func newEngine(cfg *config.Config, stateMgr state.Interface, logger zerolog.Logger) *engine.Engine {
	pb := cfg.GetPlaybackConfig()
	au := cfg.GetAudioConfig()

	volume := *pb.DefaultVolume
	if saved, err := stateMgr.GetVolume(); err != nil {
		logger.Warn().Err(err).Msg("could not read saved volume")
	} else if saved != nil {
		volume = saved.Level()
	}

	factory := func(context.Context) (audio.Context, error) {
		return beepaudio.NewContext(beepaudio.Options{
			SampleRate: au.SampleRate,
			BufferSize: au.BufferSize(),
		})
	}

	return engine.New(factory,
		engine.WithLogger(logger),
		engine.WithScheduler(updater.NewFrameScheduler(pb.FrameRate)),
		engine.WithDefaultVolume(*pb.DefaultVolume),
		engine.WithVolume(volume),
		engine.WithThrottle(pb.Throttle()),
		engine.WithFFTSize(au.FFTSize),
	)
}

// loadQueue fills the queue from the command line, then the configured
// default folder, then the queue saved by the previous run.
func loadQueue(
	ctx context.Context,
	svc playback.Service,
	stateMgr state.Interface,
	args []string,
	defaultFolder string,
	logger zerolog.Logger,
) error {
	roots := args
	if len(roots) == 0 && defaultFolder != "" {
		roots = []string{defaultFolder}
	}

	if len(roots) == 0 {
		n, err := app.RestoreQueue(ctx, svc, stateMgr, logger)
		if err != nil {
			logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpQueueLoad, err))
			return nil
		}
		logger.Debug().Int("tracks", n).Msg("restored queue")
		return nil
	}

	paths, err := track.Collect(roots...)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpTrackLoad, err))
	}
	tracks, err := track.LoadAll(ctx, paths)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpTrackLoad, err))
	}
	svc.ReplaceTracks(tracks...)
	return nil
}
