package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	StateChanged     <-chan StateChange
	TrackChanged     <-chan TrackChange
	QueueChanged     <-chan QueueChange
	ModeChanged      <-chan ModeChange
	EqualizerChanged <-chan EqualizerChange
	Error            <-chan ErrorEvent
	Done             <-chan struct{}

	// Internal write channels
	stateCh chan StateChange
	trackCh chan TrackChange
	queueCh chan QueueChange
	modeCh  chan ModeChange
	eqCh    chan EqualizerChange
	errorCh chan ErrorEvent
	doneCh  chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		stateCh: make(chan StateChange, eventBufferSize),
		trackCh: make(chan TrackChange, eventBufferSize),
		queueCh: make(chan QueueChange, eventBufferSize),
		modeCh:  make(chan ModeChange, eventBufferSize),
		eqCh:    make(chan EqualizerChange, eventBufferSize),
		errorCh: make(chan ErrorEvent, eventBufferSize),
		doneCh:  make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.TrackChanged = s.trackCh
	s.QueueChanged = s.queueCh
	s.ModeChanged = s.modeCh
	s.EqualizerChanged = s.eqCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// send delivers e without blocking; events are dropped when the buffer is full.
func send[E any](ch chan E, e E) {
	select {
	case ch <- e:
	default:
	}
}

func (s *Subscription) sendState(e StateChange)         { send(s.stateCh, e) }
func (s *Subscription) sendTrack(e TrackChange)         { send(s.trackCh, e) }
func (s *Subscription) sendQueue(e QueueChange)         { send(s.queueCh, e) }
func (s *Subscription) sendMode(e ModeChange)           { send(s.modeCh, e) }
func (s *Subscription) sendEqualizer(e EqualizerChange) { send(s.eqCh, e) }
func (s *Subscription) sendError(e ErrorEvent)          { send(s.errorCh, e) }
