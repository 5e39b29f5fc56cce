// SPDX-License-Identifier: Apache-2.0

package balboa

// faultMessages maps a fault code to its human-readable message, per
// the fixed lookup table the mainboard's fault log uses.
var faultMessages = map[uint8]string{
	15: "Sensors are out of sync",
	16: "The water flow is low",
	17: "The water flow has failed",
	18: "The settings have been reset",
	19: "Priming Mode",
	20: "The clock has failed",
	21: "The settings have been reset",
	22: "Program memory failure",
	26: "Sensors are out of sync -- Call for service",
	27: "The heater is dry",
	28: "The heater may be dry",
	29: "The water is too hot",
	30: "The heater is too hot",
	31: "Sensor A Fault",
	32: "Sensor B Fault",
	34: "A pump may be stuck on",
	35: "Hot fault",
	36: "The GFCI test failed",
	37: "Standby Mode (Hold Mode)",
}

// FaultMessage returns the human-readable message for a fault code,
// or "Unknown error" for any code not in the table.
func FaultMessage(code uint8) string {
	if msg, ok := faultMessages[code]; ok {
		return msg
	}
	return "Unknown error"
}
