package playback

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/eqwaves/internal/errmsg"
	"github.com/llehouerou/eqwaves/internal/logger"
	"github.com/llehouerou/eqwaves/internal/player"
	"github.com/llehouerou/eqwaves/internal/playlist"
	"github.com/llehouerou/eqwaves/internal/settings"
)

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	mu sync.Mutex

	device   player.Device
	decoder  player.Decoder
	store    *playlist.Store
	kv       settings.KV
	logger   *slog.Logger
	seq      *Sequencer
	graphOpt player.GraphOptions

	state   State
	index   int
	token   uint64
	loading bool

	// graph is the only chain that may be attached to the device.
	graph *player.Graph
	audio *player.Audio

	startTime    time.Duration
	resumeOffset time.Duration

	// views caches the display data of the store; nil means stale.
	views []Track

	eq       player.Settings
	policy   Policy
	failures int

	subs   []*Subscription
	subsMu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// New creates a new playback service. Persisted settings are loaded before
// it returns.
func New(opts Options) Service {
	if opts.Decoder == nil {
		opts.Decoder = player.NewDecoder()
	}
	if opts.Store == nil {
		opts.Store, _ = playlist.Open(nil)
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if opts.Sequencer == nil {
		opts.Sequencer = NewSequencer(DefaultShuffleAttempts, nil)
	}

	values, err := settings.Load(opts.Settings)
	if err != nil {
		opts.Logger.Warn("Failed to load settings, using defaults", "error", err)
	}
	policy := Sequential
	if values.Shuffle {
		policy = Shuffle
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &serviceImpl{
		device:  opts.Device,
		decoder: opts.Decoder,
		store:   opts.Store,
		kv:      opts.Settings,
		logger:  opts.Logger,
		seq:     opts.Sequencer,
		graphOpt: player.GraphOptions{
			Device:          opts.Device,
			ResampleQuality: opts.ResampleQuality,
			Analyser:        opts.Analyser,
		},
		index:  -1,
		eq:     values.Equalizer,
		policy: policy,
		ctx:    ctx,
		cancel: cancel,
	}
}

// State returns the current playback state.
func (s *serviceImpl) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Loading reports whether a decode for the current track is pending.
func (s *serviceImpl) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Position returns the current playback position.
func (s *serviceImpl) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionLocked()
}

func (s *serviceImpl) positionLocked() time.Duration {
	switch s.state {
	case StatePlaying:
		return s.clampLocked(s.device.Now() - s.startTime)
	case StatePaused:
		return s.resumeOffset
	default:
		return 0
	}
}

func (s *serviceImpl) clampLocked(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if s.audio != nil && d > s.audio.Duration {
		return s.audio.Duration
	}
	return d
}

// Duration returns the current track duration, or 0 before it is decoded.
func (s *serviceImpl) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.audio == nil {
		return 0
	}
	return s.audio.Duration
}

// CurrentIndex returns the current playlist index (-1 if none).
func (s *serviceImpl) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// CurrentTrack returns the current track, or nil if none.
func (s *serviceImpl) CurrentTrack() *Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked(s.index)
}

// Tracks returns the display data of every playlist track.
func (s *serviceImpl) Tracks() []Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracksLocked()
}

func (s *serviceImpl) tracksLocked() []Track {
	s.refreshViewsLocked()
	result := make([]Track, len(s.views))
	copy(result, s.views)
	return result
}

// refreshViewsLocked rebuilds the display cache after the store changed.
// Titles come from tag parsing, so it only runs once per change.
func (s *serviceImpl) refreshViewsLocked() {
	if s.views != nil {
		return
	}
	tracks := s.store.Tracks()
	s.views = make([]Track, len(tracks))
	for i := range tracks {
		s.views[i] = *trackFrom(&tracks[i])
	}
}

func (s *serviceImpl) viewLocked(index int) *Track {
	s.refreshViewsLocked()
	if index < 0 || index >= len(s.views) {
		return nil
	}
	t := s.views[index]
	return &t
}

// Equalizer returns the current equalizer settings.
func (s *serviceImpl) Equalizer() player.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eq
}

// Shuffle returns whether shuffle is enabled.
func (s *serviceImpl) Shuffle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy == Shuffle
}

// Spectrum reads the live graph's analysis tap.
func (s *serviceImpl) Spectrum(dst []uint8) ([]uint8, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePlaying || s.graph == nil {
		return nil, false
	}
	out := s.graph.ByteFrequencyData(dst)
	return out, out != nil
}

// Subscribe creates a new event subscription.
func (s *serviceImpl) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	if s.ctx.Err() != nil {
		sub.close()
		return sub
	}
	s.subs = append(s.subs, sub)
	return sub
}

// Close stops playback, waits for pending decodes and ends subscriptions.
func (s *serviceImpl) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.stopLocked()
	s.closed = true
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()

	return nil
}

// PlayIndex starts the track at index. Resuming is used instead when index
// is the paused track.
func (s *serviceImpl) PlayIndex(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if index < 0 || index >= s.store.Len() {
		return ErrIndexOutOfRange
	}
	if index == s.index && s.state == StatePaused {
		return s.resumeLocked()
	}
	s.failures = 0
	s.requestLocked(index)
	return nil
}

// Play resumes a paused track, restarts the current one, or starts the
// first track of the playlist.
func (s *serviceImpl) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.playLocked()
}

func (s *serviceImpl) playLocked() error {
	switch {
	case s.state == StatePaused:
		return s.resumeLocked()
	case s.state == StatePlaying, s.loading:
		return nil
	}

	index := s.index
	if index < 0 || index >= s.store.Len() {
		if s.store.Len() == 0 {
			return nil
		}
		index = 0
	}
	s.failures = 0
	s.requestLocked(index)
	return nil
}

// Pause stops output and remembers the position. It does nothing unless
// a track is playing.
func (s *serviceImpl) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.pauseLocked()
	return nil
}

func (s *serviceImpl) pauseLocked() {
	if s.state != StatePlaying {
		return
	}
	s.resumeOffset = s.positionLocked()
	s.closeGraphLocked()
	s.setStateLocked(StatePaused)
}

// Toggle switches between playing and paused, starting playback when idle.
func (s *serviceImpl) Toggle() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.state == StatePlaying {
		s.pauseLocked()
		return nil
	}
	return s.playLocked()
}

// Stop tears down playback and forgets the decoded audio. Any pending
// decode is discarded when it completes.
func (s *serviceImpl) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.stopLocked()
	return nil
}

func (s *serviceImpl) stopLocked() {
	s.token++
	s.loading = false
	s.teardownLocked()
	s.setStateLocked(StateIdle)
}

// Next advances according to the current policy.
func (s *serviceImpl) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	next, ok := s.seq.Next(s.index, s.policy, s.store.Len())
	if !ok {
		return nil
	}
	s.failures = 0
	s.requestLocked(next)
	return nil
}

// Previous goes back one track.
func (s *serviceImpl) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	prev, ok := s.seq.Previous(s.index)
	if !ok || prev >= s.store.Len() {
		return nil
	}
	s.failures = 0
	s.requestLocked(prev)
	return nil
}

// Seek moves the position by delta.
func (s *serviceImpl) Seek(delta time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.seekLocked(s.positionLocked() + delta)
}

// SeekTo moves to an absolute position.
func (s *serviceImpl) SeekTo(position time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.seekLocked(position)
}

func (s *serviceImpl) seekLocked(position time.Duration) error {
	position = s.clampLocked(position)
	switch s.state {
	case StatePaused:
		s.resumeOffset = position
	case StatePlaying:
		s.closeGraphLocked()
		if err := s.startLocked(position); err != nil {
			s.deviceFailedLocked(errmsg.OpPlaybackSeek, err)
			return err
		}
	}
	return nil
}

// AddTracks appends tracks and starts the first one if the playlist was
// empty.
func (s *serviceImpl) AddTracks(tracks ...playlist.Track) error {
	if len(tracks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	wasEmpty := s.store.Len() == 0
	s.persistLocked(s.store.Add(tracks...))
	s.views = nil
	s.emitQueueLocked()

	if wasEmpty && s.state == StateIdle && !s.loading {
		s.failures = 0
		s.requestLocked(0)
	}
	return nil
}

// RemoveAt removes a track. Removing the current track stops playback;
// removing one before it keeps the current index on the same track.
func (s *serviceImpl) RemoveAt(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if index < 0 || index >= s.store.Len() {
		return ErrIndexOutOfRange
	}

	switch {
	case index == s.index:
		s.stopLocked()
		s.index = -1
	case index < s.index:
		s.index--
	}
	_, err := s.store.RemoveAt(index)
	s.persistLocked(err)
	s.views = nil
	s.emitQueueLocked()
	return nil
}

// Clear stops playback and empties the playlist.
func (s *serviceImpl) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.stopLocked()
	s.index = -1
	s.persistLocked(s.store.Clear())
	s.views = nil
	s.emitQueueLocked()
	return nil
}

// SetEqualizer updates the live graph and persists the new settings.
func (s *serviceImpl) SetEqualizer(eq player.Settings) {
	eq = eq.Clamp()

	s.mu.Lock()
	s.eq = eq
	if s.graph != nil {
		s.graph.Apply(eq)
	}
	s.emitEqualizerLocked()
	// Saved under the lock so the stored value is the last one applied.
	s.saveEqualizerLocked(eq)
	s.mu.Unlock()
}

func (s *serviceImpl) saveEqualizerLocked(eq player.Settings) {
	if s.kv == nil {
		return
	}
	if err := settings.SaveEqualizer(s.kv, eq); err != nil {
		s.logger.Warn("Failed to save equalizer", "error", err)
	}
}

// SetShuffle enables or disables shuffle.
func (s *serviceImpl) SetShuffle(enabled bool) {
	s.mu.Lock()
	s.setShuffleLocked(enabled)
	s.saveShuffleLocked(enabled)
	s.mu.Unlock()
}

// ToggleShuffle flips shuffle and returns the new value.
func (s *serviceImpl) ToggleShuffle() bool {
	s.mu.Lock()
	enabled := s.policy != Shuffle
	s.setShuffleLocked(enabled)
	s.saveShuffleLocked(enabled)
	s.mu.Unlock()
	return enabled
}

func (s *serviceImpl) setShuffleLocked(enabled bool) {
	policy := Sequential
	if enabled {
		policy = Shuffle
	}
	if policy == s.policy {
		return
	}
	s.policy = policy
	s.emitModeLocked()
}

func (s *serviceImpl) saveShuffleLocked(enabled bool) {
	if s.kv == nil {
		return
	}
	if err := settings.SaveShuffle(s.kv, enabled); err != nil {
		s.logger.Warn("Failed to save shuffle", "error", err)
	}
}

// requestLocked issues a new playback request for index. Whatever was
// playing is torn down before the decode starts.
func (s *serviceImpl) requestLocked(index int) {
	prevIndex := s.index
	prev := s.viewLocked(prevIndex)

	s.token++
	token := s.token
	s.teardownLocked()
	s.index = index
	s.loading = true
	s.setStateLocked(StateIdle)

	t := s.store.Track(index)
	s.emitTrackLocked(TrackChange{
		Previous:      prev,
		Current:       s.viewLocked(index),
		PreviousIndex: prevIndex,
		Index:         index,
	})

	s.wg.Add(1)
	go s.decode(token, *t)
}

func (s *serviceImpl) decode(token uint64, t playlist.Track) {
	defer s.wg.Done()

	audio, err := s.decoder.Decode(s.ctx, t.Name, t.Data)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || token != s.token {
		s.logger.Debug("Discarding stale decode", "track", t.Name, "token", token, "latest", s.token)
		return
	}
	s.loading = false

	if err != nil {
		s.decodeFailedLocked(t.Name, err)
		return
	}

	s.failures = 0
	s.audio = audio
	if err := s.startLocked(0); err != nil {
		s.deviceFailedLocked(errmsg.OpPlaybackStart, err)
		return
	}
	s.logger.Info("Playing track",
		"track", t.Name,
		"index", s.index,
		"codec", audio.Codec,
		"duration", audio.Duration,
		"size", humanize.Bytes(uint64(max(t.Size, 0))),
	)
}

// startLocked attaches a fresh graph for the retained audio at offset.
func (s *serviceImpl) startLocked(offset time.Duration) error {
	g := player.Build(s.audio, s.eq, s.graphOpt)
	g.OnEnded(func() { s.handleEnded(g) })
	if err := g.Start(offset); err != nil {
		g.Close()
		return err
	}
	s.graph = g
	s.startTime = s.device.Now() - offset
	s.setStateLocked(StatePlaying)
	return nil
}

func (s *serviceImpl) resumeLocked() error {
	if err := s.startLocked(s.resumeOffset); err != nil {
		s.deviceFailedLocked(errmsg.OpPlaybackStart, err)
		return err
	}
	return nil
}

// handleEnded runs when g's source has no more frames.
func (s *serviceImpl) handleEnded(g *player.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.graph != g || s.state != StatePlaying {
		return
	}
	elapsed := s.device.Now() - s.startTime
	if !IsNaturalEnd(elapsed, s.audio.Duration) {
		s.logger.Debug("Ignoring early end of source", "elapsed", elapsed, "duration", s.audio.Duration)
		return
	}

	next, ok := s.seq.Next(s.index, s.policy, s.store.Len())
	if !ok {
		s.teardownLocked()
		s.setStateLocked(StateIdle)
		return
	}
	s.failures = 0
	s.requestLocked(next)
}

func (s *serviceImpl) decodeFailedLocked(name string, err error) {
	s.failures++
	s.logger.Warn("Failed to decode track", "track", name, "error", err, "failures", s.failures)
	s.emitErrorLocked(ErrorEvent{Operation: errmsg.OpDecode, Name: name, Err: err})

	n := s.store.Len()
	next, ok := s.seq.Next(s.index, s.policy, n)
	if !ok || s.failures >= n {
		s.failures = 0
		s.setStateLocked(StateIdle)
		s.emitErrorLocked(ErrorEvent{Operation: errmsg.OpPlayNext, Err: ErrNoPlayableTrack})
		return
	}
	s.requestLocked(next)
}

func (s *serviceImpl) deviceFailedLocked(op errmsg.Op, err error) {
	s.logger.Error("Audio output failed", "error", err)
	s.teardownLocked()
	s.setStateLocked(StateIdle)

	var devErr *player.DeviceError
	if !errors.As(err, &devErr) {
		err = &player.DeviceError{Err: err}
	}
	s.emitErrorLocked(ErrorEvent{Operation: op, Err: err})
}

// closeGraphLocked is the single place a graph is disconnected.
func (s *serviceImpl) closeGraphLocked() {
	if s.graph == nil {
		return
	}
	s.graph.Close()
	s.graph = nil
}

// teardownLocked disconnects the graph and forgets the decoded audio.
func (s *serviceImpl) teardownLocked() {
	s.closeGraphLocked()
	s.audio = nil
	s.resumeOffset = 0
}

func (s *serviceImpl) persistLocked(err error) {
	if err == nil {
		return
	}
	s.logger.Warn("Playlist persistence failed", "error", err)
}

func (s *serviceImpl) setStateLocked(state State) {
	if s.state == state {
		return
	}
	prev := s.state
	s.state = state
	s.emitStateLocked(StateChange{Previous: prev, Current: state})
}
