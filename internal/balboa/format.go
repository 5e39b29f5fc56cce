// SPDX-License-Identifier: Apache-2.0

package balboa

import "fmt"

// FormatFrame formats a decoded frame into a human-readable line for
// the monitor command.
func FormatFrame(f *Frame) string {
	timestamp := f.Timestamp().Format("15:04:05.000")
	name := FormatMessageType(f.Type())

	result := fmt.Sprintf("[%s] ch=0x%02X %s (mt 0x%02X) len=%d", timestamp, f.Channel(), name, f.Type(), len(f.Payload()))
	if len(f.Payload()) > 0 {
		result += "\n" + FormatPayload(f.Payload())
	}
	return result
}

// FormatMessageType returns the human-readable name for a message type.
func FormatMessageType(mt uint8) string {
	switch mt {
	case MtNewClientQuery:
		return "NewClientQuery"
	case MtNewClientRequest:
		return "NewClientRequest"
	case MtAssignID:
		return "AssignId"
	case MtIDAck:
		return "IdAck"
	case MtClearToSend:
		return "ClearToSend"
	case MtNothingToSend:
		return "NothingToSend"
	case MtToggleItem:
		return "ToggleItem"
	case MtStatusUpdate:
		return "StatusUpdate"
	case MtSetTemperature:
		return "SetTemperature"
	case MtRequestInfo:
		return "RequestInfo"
	case MtFilterCycle:
		return "FilterCycleReport"
	case MtFaultLog:
		return "FaultLogReport"
	case MtConfigReport:
		return "ConfigReport"
	default:
		return "Unknown"
	}
}

// FormatPayload hex-dumps a payload, 16 bytes per line.
func FormatPayload(payload []byte) string {
	result := "  "
	for i, b := range payload {
		if i > 0 && i%16 == 0 {
			result += "\n  "
		}
		result += fmt.Sprintf("%02X ", b)
	}
	return result
}
