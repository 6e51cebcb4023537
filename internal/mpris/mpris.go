//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavescope/internal/engine"
	"github.com/llehouerou/wavescope/internal/playback"
	"github.com/llehouerou/wavescope/internal/track"
)

// Mixer is the volume control exposed over MPRIS.
type Mixer interface {
	Volume() float64
	SetVolume(v float64)
}

// Adapter connects the playback service to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter.
func New(service playback.Service, mixer Mixer, logger zerolog.Logger) (*Adapter, error) {
	if service == nil || mixer == nil {
		return nil, fmt.Errorf("mpris: nil service or mixer")
	}
	player := &playerAdapter{service: service, mixer: mixer}
	a := &Adapter{server: server.NewServer("wavescope", &rootAdapter{}, player)}

	go func() {
		if err := a.server.Listen(); err != nil {
			logger.Warn().Err(err).Msg("mpris server stopped")
		}
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error { return nil }
func (r *rootAdapter) Quit() error  { return nil }

func (r *rootAdapter) CanQuit() (bool, error)      { return false, nil }
func (r *rootAdapter) CanRaise() (bool, error)     { return false, nil }
func (r *rootAdapter) HasTrackList() (bool, error) { return false, nil }

func (r *rootAdapter) Identity() (string, error) {
	return "Wavescope", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav", "audio/ogg"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	service playback.Service
	mixer   Mixer
}

func (p *playerAdapter) Next() error {
	return p.service.Next()
}

func (p *playerAdapter) Previous() error {
	return p.service.Previous()
}

func (p *playerAdapter) Pause() error {
	p.service.Pause()
	return nil
}

func (p *playerAdapter) PlayPause() error {
	return p.service.Toggle()
}

func (p *playerAdapter) Stop() error {
	p.service.Stop()
	return nil
}

func (p *playerAdapter) Play() error {
	if p.service.Status() == engine.Playing {
		return nil
	}
	return p.service.Play()
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	p.service.Seek(time.Duration(offset) * time.Microsecond)
	return nil
}

func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	cur := p.service.CurrentTrack()
	if cur == nil || formatTrackID(cur.Path) != trackID {
		return nil // stale request for another track
	}
	p.service.SeekTo(time.Duration(position) * time.Microsecond)
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.service.Status() {
	case engine.Playing:
		return types.PlaybackStatusPlaying, nil
	case engine.Paused:
		return types.PlaybackStatusPaused, nil
	case engine.Stopped:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	t := p.service.CurrentTrack()
	if t == nil {
		return types.Metadata{}, nil
	}

	length := t.Duration
	if d := p.service.Duration(); d > 0 && p.service.Status() != engine.Stopped {
		length = d
	}

	meta := types.Metadata{
		TrackId:     dbus.ObjectPath(formatTrackID(t.Path)),
		Length:      types.Microseconds(length.Microseconds()),
		Title:       t.Title,
		Album:       t.Album,
		TrackNumber: t.TrackNumber,
	}
	if t.Artist != "" {
		meta.Artist = []string{t.Artist}
	}
	if artPath := track.FindAlbumArt(t.Path); artPath != "" {
		meta.ArtUrl = "file://" + artPath
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return p.mixer.Volume(), nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	p.mixer.SetVolume(v)
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.service.Position().Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.service.QueueCurrentIndex() < p.service.QueueLen()-1, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.service.QueueCurrentIndex() > 0, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.service.QueueLen() > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.service.Status().CanPause(), nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.service.Status() != engine.Stopped, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(path string) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
