package notify

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/llehouerou/wavescope/internal/errmsg"
	"github.com/llehouerou/wavescope/internal/playback"
	"github.com/llehouerou/wavescope/internal/track"
)

const (
	trackTimeout = 5000
	errorTimeout = -1
)

// nopNotifier drops every notification.
type nopNotifier struct{}

func (nopNotifier) Notify(Notification) (uint32, error) { return 0, nil }
func (nopNotifier) Close(uint32) error                  { return nil }

// Watch shows a notification for every track change and playback error on
// sub until ctx is done or the subscription closes. Each track notification
// replaces the previous one. Watch blocks; run it in its own goroutine.
func Watch(ctx context.Context, sub *playback.Subscription, n Notifier, logger zerolog.Logger) {
	logger = logger.With().Str("component", "notify").Logger()
	var lastID uint32
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case e := <-sub.TrackChanged:
			if e.Current == nil {
				continue
			}
			notif := ForTrack(*e.Current)
			notif.ReplacesID = lastID
			id, err := n.Notify(notif)
			if err != nil {
				logger.Debug().Err(err).Msg("track notification failed")
				continue
			}
			lastID = id
		case e := <-sub.Error:
			if _, err := n.Notify(ForError(e)); err != nil {
				logger.Debug().Err(err).Msg("error notification failed")
			}
		}
	}
}

// ForTrack builds the "now playing" notification for t.
func ForTrack(t track.Track) Notification {
	var body []string
	if t.Artist != "" {
		body = append(body, t.Artist)
	}
	if t.Album != "" {
		body = append(body, t.Album)
	}
	return Notification{
		Title:   t.Title,
		Body:    strings.Join(body, " - "),
		Icon:    track.FindAlbumArt(t.Path),
		Timeout: trackTimeout,
		Urgency: UrgencyLow,
	}
}

// ForError builds the notification for a failed playback operation.
func ForError(e playback.ErrorEvent) Notification {
	return Notification{
		Title:   "Playback error",
		Body:    errmsg.FormatWith(errmsg.ForEvent(e.Operation), e.Path, e.Err),
		Timeout: errorTimeout,
		Urgency: UrgencyCritical,
	}
}
