// SPDX-License-Identifier: Apache-2.0

package balboa

import "time"

// Frame is a decoded, CRC-verified Balboa bus frame.
type Frame struct {
	channel   uint8
	magic     uint8
	mt        uint8
	payload   []byte
	crc       uint8
	timestamp time.Time
}

// Channel returns the frame's address byte.
func (f *Frame) Channel() uint8 { return f.channel }

// MagicByte returns the frame's magic byte (expected 0xBF).
func (f *Frame) MagicByte() uint8 { return f.magic }

// Type returns the frame's message-type byte.
func (f *Frame) Type() uint8 { return f.mt }

// Payload returns the frame's payload bytes, excluding channel, magic
// and message type.
func (f *Frame) Payload() []byte { return f.payload }

// CRC returns the frame's on-wire CRC byte.
func (f *Frame) CRC() uint8 { return f.crc }

// Timestamp returns when the frame was accepted by the decoder.
func (f *Frame) Timestamp() time.Time { return f.timestamp }
