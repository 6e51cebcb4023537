package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/llehouerou/wavescope/internal/playback"
	"github.com/llehouerou/wavescope/internal/state"
	"github.com/llehouerou/wavescope/internal/track"
)

// QueueState captures the service queue for persistence. Audio data is not
// stored; tracks are reloaded from their paths.
func QueueState(svc playback.Service) state.QueueState {
	tracks := svc.QueueTracks()
	out := state.QueueState{
		CurrentIndex: svc.QueueCurrentIndex(),
		Tracks:       make([]state.QueueTrack, len(tracks)),
	}
	for i, t := range tracks {
		out.Tracks[i] = state.QueueTrack{
			Path:        t.Path,
			Title:       t.Title,
			Artist:      t.Artist,
			Album:       t.Album,
			TrackNumber: t.TrackNumber,
		}
	}
	return out
}

// RestoreQueue reloads the saved queue into svc. Files that can no longer be
// read are skipped and the cursor follows the track it pointed at. It
// returns the number of tracks restored.
func RestoreQueue(ctx context.Context, svc playback.Service, st state.Interface, logger zerolog.Logger) (int, error) {
	saved, err := st.GetQueue()
	if err != nil {
		return 0, err
	}
	if saved == nil || len(saved.Tracks) == 0 {
		return 0, nil
	}

	tracks := make([]track.Track, 0, len(saved.Tracks))
	index := -1
	for i, qt := range saved.Tracks {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		t, err := track.Load(qt.Path)
		if err != nil {
			logger.Warn().Err(err).Str("path", qt.Path).Msg("skipping saved track")
			continue
		}
		if i <= saved.CurrentIndex {
			index = len(tracks)
		}
		tracks = append(tracks, t)
	}
	if len(tracks) == 0 {
		return 0, nil
	}

	svc.ReplaceTracks(tracks...)
	if index > 0 {
		if err := svc.JumpTo(index); err != nil {
			return len(tracks), err
		}
	}
	return len(tracks), nil
}
