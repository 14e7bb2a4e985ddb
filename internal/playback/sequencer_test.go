package playback

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// constSource always yields the same value, so every draw lands on the
// same index.
type constSource uint64

func (c constSource) Uint64() uint64 { return uint64(c) }

func TestSequencer_NextSequential(t *testing.T) {
	q := NewSequencer(0, nil)

	tests := []struct {
		name    string
		current int
		length  int
		want    int
		wantOK  bool
	}{
		{"from nothing", -1, 3, 0, true},
		{"middle", 0, 3, 1, true},
		{"last", 2, 3, 0, false},
		{"empty playlist", -1, 0, 0, false},
		{"index past end", 5, 3, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := q.Next(tt.current, Sequential, tt.length)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSequencer_ShuffleNeverRepeatsCurrent(t *testing.T) {
	q := NewSequencer(DefaultShuffleAttempts, rand.NewPCG(1, 2))
	seen := map[int]bool{}

	current := 0
	for range 1000 {
		next, ok := q.Next(current, Shuffle, 4)
		assert.True(t, ok)
		assert.NotEqual(t, current, next)
		assert.GreaterOrEqual(t, next, 0)
		assert.Less(t, next, 4)
		seen[next] = true
		current = next
	}
	assert.Len(t, seen, 4)
}

func TestSequencer_ShuffleSingleTrackLoops(t *testing.T) {
	q := NewSequencer(DefaultShuffleAttempts, rand.NewPCG(1, 2))
	got, ok := q.Next(0, Shuffle, 1)
	assert.True(t, ok)
	assert.Equal(t, 0, got)

	_, ok = q.Next(0, Shuffle, 0)
	assert.False(t, ok)
}

func TestSequencer_ShuffleFallbackAfterCap(t *testing.T) {
	// With a power-of-two length every draw from this source is 0.
	q := NewSequencer(3, constSource(1<<63))
	got, ok := q.Next(0, Shuffle, 4)
	assert.True(t, ok)
	assert.NotEqual(t, 0, got)
}

func TestSequencer_PreviousIgnoresPolicy(t *testing.T) {
	q := NewSequencer(0, nil)

	got, ok := q.Previous(2)
	assert.True(t, ok)
	assert.Equal(t, 1, got)

	_, ok = q.Previous(0)
	assert.False(t, ok)
	_, ok = q.Previous(-1)
	assert.False(t, ok)
}

func TestIsNaturalEnd(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  time.Duration
		duration time.Duration
		want     bool
	}{
		{"exact", 3 * time.Minute, 3 * time.Minute, true},
		{"slightly late", 3*time.Minute + 200*time.Millisecond, 3 * time.Minute, true},
		{"slightly early", 3*time.Minute - 499*time.Millisecond, 3 * time.Minute, true},
		{"at tolerance", 3*time.Minute + 500*time.Millisecond, 3 * time.Minute, false},
		{"stopped early", 90 * time.Second, 3 * time.Minute, false},
		{"zero length", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNaturalEnd(tt.elapsed, tt.duration))
		})
	}
}

func TestStateAndPolicyStrings(t *testing.T) {
	assert.Equal(t, "Idle", StateIdle.String())
	assert.Equal(t, "Playing", StatePlaying.String())
	assert.Equal(t, "Paused", StatePaused.String())
	assert.Equal(t, "Unknown", State(9).String())
	assert.True(t, StatePaused.IsActive())
	assert.False(t, StateIdle.IsActive())
	assert.Equal(t, "Shuffle", Shuffle.String())
	assert.Equal(t, "Sequential", Sequential.String())
}
