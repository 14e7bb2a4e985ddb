package playback

import (
	"math/rand/v2"
	"sync"
	"time"
)

// DefaultShuffleAttempts bounds how many times a shuffle draw is retried
// to avoid landing on the current track.
const DefaultShuffleAttempts = 8

// NaturalEndTolerance is how far elapsed time may drift from the track
// duration for an end-of-source signal to count as the track finishing.
const NaturalEndTolerance = 500 * time.Millisecond

// IsNaturalEnd reports whether a track that stopped after elapsed ran to
// completion, as opposed to being cut short.
func IsNaturalEnd(elapsed, duration time.Duration) bool {
	d := elapsed - duration
	if d < 0 {
		d = -d
	}
	return d < NaturalEndTolerance
}

// Sequencer picks the next and previous playlist index.
type Sequencer struct {
	mu          sync.Mutex
	rng         *rand.Rand
	maxAttempts int
}

// NewSequencer creates a sequencer. A nil src seeds from the runtime.
func NewSequencer(maxAttempts int, src rand.Source) *Sequencer {
	if maxAttempts <= 0 {
		maxAttempts = DefaultShuffleAttempts
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Sequencer{rng: rand.New(src), maxAttempts: maxAttempts}
}

// Next returns the index to play after current, or false at the end of a
// sequential playlist or when the playlist is empty.
//
// Under Shuffle a playlist of more than one track never yields current;
// a single track loops.
func (q *Sequencer) Next(current int, policy Policy, length int) (int, bool) {
	if length <= 0 {
		return 0, false
	}
	if policy != Shuffle {
		next := current + 1
		if next < 0 || next >= length {
			return 0, false
		}
		return next, true
	}
	if length == 1 {
		return 0, true
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	for range q.maxAttempts {
		if i := q.rng.IntN(length); i != current {
			return i, true
		}
	}
	if current < 0 || current >= length {
		return q.rng.IntN(length), true
	}
	// Uniform over every index except current.
	return (current + 1 + q.rng.IntN(length-1)) % length, true
}

// Previous returns current-1, or false at the start. Shuffle does not
// affect going back.
func (q *Sequencer) Previous(current int) (int, bool) {
	if current <= 0 {
		return 0, false
	}
	return current - 1, true
}
