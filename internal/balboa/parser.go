// SPDX-License-Identifier: Apache-2.0

package balboa

// dispatch routes one CRC-verified frame per §4.3: checks the magic
// byte, then dispatches by (channel, message-type). It returns the
// outbound frame bytes produced in direct response, or nil.
func (s *Session) dispatch(f *Frame) []byte {
	if f.MagicByte() != Magic {
		return nil
	}

	channel, mt := f.Channel(), f.Type()

	switch {
	case channel == ChannelNewClient && (mt == MtNewClientQuery || mt == MtAssignID):
		outbound, assigned := s.handshake.HandleFrame(f)
		if assigned {
			emitInt(s.publisher, TopicNodeID, int(s.handshake.SelfID()))
			s.stats.RecordPublish()
		}
		return outbound

	case channel == ChannelBroadcast && mt == MtStatusUpdate:
		s.handleStatus(f)
		return nil

	case s.handshake.State() == Assigned && channel == s.handshake.SelfID():
		return s.handleSelf(f)

	default:
		s.stats.RecordUnknownMessage()
		return nil
	}
}

func (s *Session) handleSelf(f *Frame) []byte {
	switch f.Type() {
	case MtClearToSend:
		s.handshake.MarkLive()
		outbound := s.scheduler.Next(s.handshake.SelfID(), s.pending)
		s.pending = Outbound{}
		return outbound

	case MtFilterCycle:
		s.handleFilterSettings(f)
		return nil

	case MtFaultLog:
		s.handleFaultLog(f)
		return nil

	case MtConfigReport:
		s.handleConfig(f)
		return nil

	default:
		s.stats.RecordUnknownMessage()
		return nil
	}
}

func (s *Session) handleConfig(f *Frame) {
	if f.CRC() == s.lastConfigCRC && s.haveConfig {
		return
	}
	cfg, err := DecodeConfigReport(f.Payload())
	if err != nil {
		s.stats.RecordPayloadTooShort()
		return
	}
	s.lastConfigCRC = f.CRC()
	s.config = cfg
	s.haveConfig = true
	s.stats.RecordAnomalies(ValidateConfig(cfg))
	PublishConfig(s.publisher, cfg)
	s.stats.RecordPublish()
	s.scheduler.MarkReceived(ResourceConfig)
	s.scheduler.MarkConsumed(ResourceConfig)
}

func (s *Session) handleStatus(f *Frame) {
	if f.CRC() == s.lastStatusCRC && s.haveStatus {
		return
	}
	scale := Fahrenheit
	if s.haveConfig {
		scale = s.config.TempScale
	}
	st, err := DecodeStatusUpdate(f.Payload(), scale)
	if err != nil {
		s.stats.RecordPayloadTooShort()
		return
	}
	s.lastStatusCRC = f.CRC()
	s.haveStatus = true
	s.state = st
	s.stats.RecordAnomalies(ValidateStatus(st))
	PublishStatus(s.publisher, st)
	s.stats.RecordPublish()
	s.scheduler.Refresh(st.Minute)
}

func (s *Session) handleFaultLog(f *Frame) {
	if f.CRC() == s.lastFaultCRC && s.haveFaultLog {
		return
	}
	log, err := DecodeFaultLogReport(f.Payload())
	if err != nil {
		s.stats.RecordPayloadTooShort()
		return
	}
	s.lastFaultCRC = f.CRC()
	s.haveFaultLog = true
	s.faultLog = log
	s.stats.RecordAnomalies(ValidateFaultLog(log))
	PublishFaultLog(s.publisher, log)
	s.stats.RecordPublish()
	s.scheduler.MarkReceived(ResourceFaultLog)
	s.scheduler.MarkConsumed(ResourceFaultLog)
}

func (s *Session) handleFilterSettings(f *Frame) {
	if f.CRC() == s.lastFilterCRC && s.haveFilterSettings {
		return
	}
	fs, err := DecodeFilterCycleReport(f.Payload())
	if err != nil {
		s.stats.RecordPayloadTooShort()
		return
	}
	s.lastFilterCRC = f.CRC()
	s.haveFilterSettings = true
	s.filterSettings = fs
	PublishFilterSettings(s.publisher, fs)
	s.stats.RecordPublish()
	s.scheduler.MarkReceived(ResourceFilterSettings)
	s.scheduler.MarkConsumed(ResourceFilterSettings)
}
