// SPDX-License-Identifier: Apache-2.0

package balboa

// HeatingMode is the mainboard's heating-mode enumeration, decoded
// from StatusUpdate offset 10.
type HeatingMode uint8

// Heating modes.
const (
	HeatingModeReady HeatingMode = iota
	HeatingModeRest
	HeatingModeReadyInRest
	HeatingModeUnknown
)

func decodeHeatingMode(b uint8) HeatingMode {
	switch b {
	case 0:
		return HeatingModeReady
	case 1:
		return HeatingModeRest
	case 3:
		return HeatingModeReadyInRest
	default:
		return HeatingModeUnknown
	}
}

// String renders the heating mode the way it appears on the panel.
func (m HeatingMode) String() string {
	switch m {
	case HeatingModeReady:
		return "Ready"
	case HeatingModeRest:
		return "Rest"
	case HeatingModeReadyInRest:
		return "ReadyInRest"
	default:
		return "Unknown"
	}
}

// HeatState reflects whether the heater element is currently running.
type HeatState uint8

// Heat states.
const (
	HeatStateOff HeatState = iota
	HeatStateHeating1
	HeatStateHeating2
)

// TempRange is the mainboard's low/high setpoint range selector.
type TempRange uint8

// Temperature ranges.
const (
	RangeLow TempRange = iota
	RangeHigh
)

// SpaConfig is the mainboard's immutable-for-the-session capability
// record, decoded from a ConfigReport.
type SpaConfig struct {
	TempScale Scale
	Pump1     uint8
	Pump2     uint8
	Pump3     uint8
	Pump4     uint8
	Pump5     uint8
	Pump6     uint8
	Light1    uint8
	Light2    uint8
	Circ      bool
	Blower    bool
	Mister    bool
	Aux1      uint8
	Aux2      bool
}

// SpaState is the most recent telemetry snapshot decoded from a
// StatusUpdate.
type SpaState struct {
	SetTemp     float64
	CurrentTemp float64
	Hour        uint8
	Minute      uint8
	HeatingMode HeatingMode
	HeatState   HeatState
	Range       TempRange
	Jet1        bool
	Jet2        bool
	Circ        bool
	Blower      bool
	Light       bool
}

// SpaFaultLog is the most recently decoded FaultLogReport entry.
type SpaFaultLog struct {
	TotalEntries uint8
	CurrentEntry uint8
	FaultCode    uint8
	Message      string
	DaysAgo      uint8
	Hour         uint8
	Minute       uint8
}

// FilterCycle is one filter-run schedule (start time plus duration).
type FilterCycle struct {
	StartHour   uint8
	StartMinute uint8
	DurHour     uint8
	DurMinute   uint8
}

// SpaFilterSettings is the most recently decoded FilterCycleReport.
type SpaFilterSettings struct {
	Filter1        FilterCycle
	Filter2Enabled bool
	Filter2        FilterCycle
}

// AcqStage is the lifecycle of a resource the scheduler polls for.
type AcqStage uint8

// Acquisition stages.
const (
	StageWant AcqStage = iota
	StageRequested
	StageReceived
	StageConsumed
)

// Resource identifies one of the three resources the scheduler
// acquires from the mainboard.
type Resource uint8

// Resources.
const (
	ResourceConfig Resource = iota
	ResourceFaultLog
	ResourceFilterSettings
)

// OutboundKind tags the single pending user-initiated command.
type OutboundKind uint8

// Outbound kinds.
const (
	OutboundNone OutboundKind = iota
	OutboundToggle
	OutboundSetTemp
)

// Outbound is a user-initiated command queued for the next
// Clear-To-Send slot. At most one is ever pending; a new request
// overwrites whatever was queued.
type Outbound struct {
	Kind OutboundKind
	Item uint8 // OutboundToggle: item code
	Temp uint8 // OutboundSetTemp: raw temperature byte
}
