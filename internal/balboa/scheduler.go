// SPDX-License-Identifier: Apache-2.0

package balboa

// RequestInfo payloads, each selecting which resource the mainboard
// should report back.
var (
	requestInfoConfig  = []byte{0x00, 0x00, 0x01}
	requestInfoFault   = []byte{0x20, 0xFF, 0x00}
	requestInfoFilters = []byte{0x01, 0x00, 0x00}
)

// Scheduler picks exactly one outbound frame per Clear-To-Send slot,
// per the fixed priority in §4.6: pending user commands first, then
// resource acquisition in Config, FaultLog, FilterSettings order.
type Scheduler struct {
	config  AcqStage
	fault   AcqStage
	filters AcqStage

	lastRefreshMinute int
	haveRefreshed     bool
}

// NewScheduler returns a Scheduler with every resource in the Want
// stage.
func NewScheduler() *Scheduler {
	return &Scheduler{config: StageWant, fault: StageWant, filters: StageWant}
}

// Stage returns the current acquisition stage for a resource.
func (s *Scheduler) Stage(r Resource) AcqStage {
	switch r {
	case ResourceConfig:
		return s.config
	case ResourceFaultLog:
		return s.fault
	case ResourceFilterSettings:
		return s.filters
	default:
		return StageWant
	}
}

// MarkReceived advances a resource's stage from Requested to Received
// once its report has been decoded.
func (s *Scheduler) MarkReceived(r Resource) {
	s.setStage(r, StageReceived)
}

// MarkConsumed advances a resource's stage from Received to Consumed
// once its decode has been published downstream.
func (s *Scheduler) MarkConsumed(r Resource) {
	s.setStage(r, StageConsumed)
}

func (s *Scheduler) setStage(r Resource, stage AcqStage) {
	switch r {
	case ResourceConfig:
		s.config = stage
	case ResourceFaultLog:
		s.fault = stage
	case ResourceFilterSettings:
		s.filters = stage
	}
}

// Next selects the outbound frame to send for a Clear-To-Send
// addressed to selfID, given any queued user command. It mutates
// scheduler stage state only; pending is taken by value and never
// cleared here, so the caller clears its own pending command after
// each call.
func (s *Scheduler) Next(selfID uint8, pending Outbound) []byte {
	switch pending.Kind {
	case OutboundSetTemp:
		return Encode(selfID, MtSetTemperature, []byte{pending.Temp})
	case OutboundToggle:
		return Encode(selfID, MtToggleItem, []byte{pending.Item, 0x00})
	}

	if s.config == StageWant {
		s.config = StageRequested
		return Encode(selfID, MtRequestInfo, requestInfoConfig)
	}
	if s.fault == StageWant {
		s.fault = StageRequested
		return Encode(selfID, MtRequestInfo, requestInfoFault)
	}
	if s.filters == StageWant && s.fault >= StageReceived {
		s.filters = StageRequested
		return Encode(selfID, MtRequestInfo, requestInfoFilters)
	}

	return Encode(selfID, MtNothingToSend, nil)
}

// Refresh implements the periodic resource refresh: when minute is
// divisible by 5 and differs from the last minute a refresh happened
// for, it demotes FaultLog and FilterSettings from Consumed back to
// Want. Edge-triggered, not level-triggered: calling it repeatedly
// within the same minute is a no-op after the first call.
func (s *Scheduler) Refresh(minute uint8) {
	if minute%5 != 0 {
		return
	}
	if s.haveRefreshed && int(minute) == s.lastRefreshMinute {
		return
	}
	s.haveRefreshed = true
	s.lastRefreshMinute = int(minute)

	if s.fault == StageConsumed {
		s.fault = StageWant
	}
	if s.filters == StageConsumed {
		s.filters = StageWant
	}
}
