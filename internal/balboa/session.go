// SPDX-License-Identifier: Apache-2.0

package balboa

// Session glues the frame codec, handshake, scheduler and decoders
// into one cooperative, single-threaded controller. It owns every
// piece of state described in §3 and drives exactly one step per
// inbound byte or time tick; no method blocks, spawns a goroutine, or
// is safe to call concurrently with another.
type Session struct {
	decoder   *Decoder
	handshake *Handshake
	scheduler *Scheduler
	stats     *Statistics
	publisher Publisher

	pending Outbound

	config     SpaConfig
	haveConfig bool

	state      SpaState
	haveStatus bool

	faultLog     SpaFaultLog
	haveFaultLog bool

	filterSettings     SpaFilterSettings
	haveFilterSettings bool

	lastConfigCRC uint8
	lastStatusCRC uint8
	lastFaultCRC  uint8
	lastFilterCRC uint8
}

// NewSession returns a Session publishing to p. p may be nil, in
// which case events are silently discarded (useful for tests that
// only care about outbound bytes).
func NewSession(p Publisher) *Session {
	return &Session{
		decoder:   NewDecoder(),
		handshake: NewHandshake(),
		scheduler: NewScheduler(),
		stats:     NewStatistics(),
		publisher: p,
	}
}

// Statistics returns the session's frame/error counters.
func (s *Session) Statistics() *Statistics { return s.stats }

// SelfID returns the address assigned by the mainboard, or 0 if the
// handshake has not yet completed.
func (s *Session) SelfID() uint8 { return s.handshake.SelfID() }

// Config returns the most recently decoded ConfigReport and whether
// one has been received yet.
func (s *Session) Config() (SpaConfig, bool) { return s.config, s.haveConfig }

// State returns the most recently decoded StatusUpdate and whether
// one has been received yet.
func (s *Session) State() (SpaState, bool) { return s.state, s.haveStatus }

// FaultLog returns the most recently decoded FaultLogReport and
// whether one has been received yet.
func (s *Session) FaultLog() (SpaFaultLog, bool) { return s.faultLog, s.haveFaultLog }

// FilterSettings returns the most recently decoded FilterCycleReport
// and whether one has been received yet.
func (s *Session) FilterSettings() (SpaFilterSettings, bool) {
	return s.filterSettings, s.haveFilterSettings
}

// OnByte feeds one inbound byte into the frame codec. It returns the
// outbound frame bytes produced in direct response, or nil if the
// byte didn't complete a frame or the frame warranted no reply.
func (s *Session) OnByte(b byte) []byte {
	f, err := s.decoder.DecodeByte(b)
	if err != nil {
		s.stats.RecordCrcMismatch()
		return nil
	}
	if f == nil {
		return nil
	}
	s.stats.RecordFrame()
	return s.dispatch(f)
}

// OnTick advances stage timers only; it never produces bytes. minute
// is the spa-clock minute, used to edge-trigger the periodic resource
// refresh described in §4.6.
func (s *Session) OnTick(minute uint8) {
	s.scheduler.Refresh(minute)
}

// RequestToggle queues a ToggleItem command for the next
// Clear-To-Send slot, replacing any prior pending command.
func (s *Session) RequestToggle(item uint8) {
	s.pending = Outbound{Kind: OutboundToggle, Item: item}
}

// RequestSetTemp queues a SetTemperature command for the next
// Clear-To-Send slot, replacing any prior pending command.
func (s *Session) RequestSetTemp(raw uint8) {
	s.pending = Outbound{Kind: OutboundSetTemp, Temp: raw}
}
