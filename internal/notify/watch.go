package notify

import (
	"context"
	"log/slog"

	"github.com/llehouerou/eqwaves/internal/playback"
)

const nowPlayingTimeout = 4000 // ms

// Watch posts a "Now playing" notification each time a newly requested
// track starts, replacing the previous one. Resuming a paused track does
// not notify. It returns when ctx ends or the service closes.
//
// sub must come from svc.Subscribe and be taken before the first track is
// requested; events sent before it exists are never seen.
func Watch(ctx context.Context, sub *playback.Subscription, svc playback.Service, n Notifier, log *slog.Logger) {
	var lastID uint32
	pending := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case <-sub.TrackChanged:
			pending = true
		case e := <-sub.StateChanged:
			// A track request always precedes the state change it causes.
			pending = drainTracks(sub) || pending
			if !pending || e.Current != playback.StatePlaying {
				continue
			}
			pending = false
			t := svc.CurrentTrack()
			if t == nil {
				continue
			}
			id, err := n.Notify(Notification{
				Title:      "Now playing",
				Body:       nowPlayingBody(t),
				Icon:       "audio-x-generic",
				Timeout:    nowPlayingTimeout,
				ReplacesID: lastID,
				Urgency:    UrgencyLow,
			})
			if err != nil {
				log.Debug("Notification failed", "error", err)
				continue
			}
			lastID = id
		}
	}
}

func drainTracks(sub *playback.Subscription) bool {
	drained := false
	for {
		select {
		case <-sub.TrackChanged:
			drained = true
		default:
			return drained
		}
	}
}

func nowPlayingBody(t *playback.Track) string {
	if t.SizeLabel == "" {
		return t.Title
	}
	return t.Title + " · " + t.SizeLabel
}
