package playback

// Emitters are called with s.mu held. Sends never block, so a slow
// subscriber only loses events.

func (s *serviceImpl) forEachSub(fn func(*Subscription)) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		fn(sub)
	}
}

func (s *serviceImpl) emitStateLocked(e StateChange) {
	s.forEachSub(func(sub *Subscription) { sub.sendState(e) })
}

func (s *serviceImpl) emitTrackLocked(e TrackChange) {
	s.forEachSub(func(sub *Subscription) { sub.sendTrack(e) })
}

func (s *serviceImpl) emitQueueLocked() {
	e := QueueChange{Tracks: s.tracksLocked(), Index: s.index}
	s.forEachSub(func(sub *Subscription) { sub.sendQueue(e) })
}

func (s *serviceImpl) emitModeLocked() {
	e := ModeChange{Policy: s.policy}
	s.forEachSub(func(sub *Subscription) { sub.sendMode(e) })
}

func (s *serviceImpl) emitEqualizerLocked() {
	e := EqualizerChange{Settings: s.eq}
	s.forEachSub(func(sub *Subscription) { sub.sendEqualizer(e) })
}

func (s *serviceImpl) emitErrorLocked(e ErrorEvent) {
	s.forEachSub(func(sub *Subscription) { sub.sendError(e) })
}
