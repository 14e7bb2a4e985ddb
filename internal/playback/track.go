package playback

import "github.com/llehouerou/eqwaves/internal/playlist"

// Track is the display data of a queued track, without its audio bytes.
type Track struct {
	Name      string
	Title     string
	Size      int64
	SizeLabel string
}

func trackFrom(t *playlist.Track) *Track {
	if t == nil {
		return nil
	}
	return &Track{
		Name:      t.Name,
		Title:     t.Title(),
		Size:      t.Size,
		SizeLabel: t.SizeLabel(),
	}
}
