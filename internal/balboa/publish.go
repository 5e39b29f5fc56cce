// SPDX-License-Identifier: Apache-2.0

package balboa

import "fmt"

// Topic names, exactly as published.
const (
	TopicNodeID            = "Spa/node/id"
	TopicNodeState         = "Spa/node/state"
	TopicNodeVersion       = "Spa/node/version"
	TopicNodeDebug         = "Spa/node/debug"
	TopicTargetTemp        = "Spa/target_temp/state"
	TopicTemperature       = "Spa/temperature/state"
	TopicTime              = "Spa/time/state"
	TopicHeatingMode       = "Spa/heatingmode/state"
	TopicHeatMode          = "Spa/heat_mode/state"
	TopicHeatState         = "Spa/heatstate/state"
	TopicHighRange         = "Spa/highrange/state"
	TopicJet1              = "Spa/jet_1/state"
	TopicJet2              = "Spa/jet_2/state"
	TopicCirc              = "Spa/circ/state"
	TopicBlower            = "Spa/blower/state"
	TopicLight             = "Spa/light/state"
	TopicRelay1            = "Spa/relay_1/state"
	TopicRelay2            = "Spa/relay_2/state"
	TopicFilter1           = "Spa/filter1/state"
	TopicFilter2           = "Spa/filter2/state"
	TopicFilter2Enabled    = "Spa/filter2_enabled/state"
	TopicFaultEntries      = "Spa/fault/Entries"
	TopicFaultEntry        = "Spa/fault/Entry"
	TopicFaultCode         = "Spa/fault/Code"
	TopicFaultMessage      = "Spa/fault/Message"
	TopicFaultDaysAgo      = "Spa/fault/DaysAgo"
	TopicFaultHours        = "Spa/fault/Hours"
	TopicFaultMinutes      = "Spa/fault/Minutes"
	TopicConfigPumps1      = "Spa/config/pumps1"
	TopicConfigPumps2      = "Spa/config/pumps2"
	TopicConfigPumps3      = "Spa/config/pumps3"
	TopicConfigPumps4      = "Spa/config/pumps4"
	TopicConfigPumps5      = "Spa/config/pumps5"
	TopicConfigPumps6      = "Spa/config/pumps6"
	TopicConfigLight1      = "Spa/config/light1"
	TopicConfigLight2      = "Spa/config/light2"
	TopicConfigCirc        = "Spa/config/circ"
	TopicConfigBlower      = "Spa/config/blower"
	TopicConfigMister      = "Spa/config/mister"
	TopicConfigAux1        = "Spa/config/aux1"
	TopicConfigAux2        = "Spa/config/aux2"
	TopicConfigTempScale   = "Spa/config/temp_scale"
)

// Event is one topic/value publish. Value is already formatted the
// way the wire contract expects (decimal integers, "ON"/"OFF" for
// booleans, two-decimal fixed point for fractional temperatures).
type Event struct {
	Topic string
	Value string
}

// Publisher receives publish events. Implementations (MQTT, stderr,
// a test harness) are supplied by the host; the core never buffers or
// retries a publish.
type Publisher interface {
	Publish(topic, value string)
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(topic, value string)

// Publish implements Publisher.
func (f PublisherFunc) Publish(topic, value string) { f(topic, value) }

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

func emit(p Publisher, topic string, value string) {
	if p == nil {
		return
	}
	p.Publish(topic, value)
}

func emitInt(p Publisher, topic string, value int) {
	emit(p, topic, fmt.Sprintf("%d", value))
}

func emitBool(p Publisher, topic string, value bool) {
	emit(p, topic, onOff(value))
}

func emitTemp(p Publisher, topic string, value float64) {
	emit(p, topic, fmt.Sprintf("%.2f", value))
}

func formatTime(hour, minute uint8) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
