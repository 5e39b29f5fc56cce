// SPDX-License-Identifier: Apache-2.0

// Package balboa implements the client-side half of the Balboa hot-tub
// RS-485 mainboard protocol: frame synchronization, the mainboard's
// new-client handshake, a Clear-To-Send-gated outbound scheduler, and
// decoders for the mainboard's status, configuration, fault-log and
// filter-cycle broadcasts.
package balboa

// Frame delimiter. Balboa shares one byte for SOF and EOF; a frame
// boundary is resolved by buffer position, not by the byte value.
const (
	SOF   = 0x7E
	EOF   = 0x7E
	Magic = 0xBF
)

// Channel addresses.
const (
	ChannelNewClient = 0xFE // broadcast: new-client discovery / id assignment
	ChannelBroadcast = 0xFF // broadcast: status updates, everyone decodes

	clientChannelLo = 0x10
	clientChannelHi = 0x2F
)

// Message types, by direction.
const (
	MtNewClientQuery   = 0x00 // mainboard -> bcast
	MtNewClientRequest = 0x01 // client -> bcast
	MtAssignID         = 0x02 // mainboard -> bcast
	MtIDAck            = 0x03 // client -> bcast
	MtClearToSend      = 0x06 // mainboard -> self
	MtNothingToSend    = 0x07 // client -> mainboard
	MtToggleItem       = 0x11 // client -> mainboard
	MtStatusUpdate     = 0x13 // mainboard -> bcast
	MtSetTemperature   = 0x20 // client -> mainboard
	MtRequestInfo      = 0x22 // client -> mainboard
	MtFilterCycle      = 0x23 // mainboard -> self
	MtFaultLog         = 0x28 // mainboard -> self
	MtConfigReport     = 0x2E // mainboard -> self
)

// newClientRequestPayload is the fixed payload the mainboard expects
// in a NewClientRequest frame.
var newClientRequestPayload = []byte{0x02, 0xF1, 0x73}

// maxFrameBytes bounds the decoder's ring buffer: SOF + LEN..CRC (up
// to 250 bytes of payload plus 5 header/trailer bytes) + EOF would
// never actually occur on this bus, but 35 bytes covers every frame
// this protocol core ever needs to hold and matches spec's stated
// buffer capacity.
const maxFrameBytes = 35
