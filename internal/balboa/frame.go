// SPDX-License-Identifier: Apache-2.0

package balboa

import (
	"fmt"
	"time"
)

// minFrameLen is the smallest possible LEN value: LEN byte + CH +
// MAGIC + MT + CRC, with zero payload bytes.
const minFrameLen = 5

// Decoder is a stateful, byte-oriented Balboa frame synchronizer. It
// holds at most one frame's worth of bytes (maxFrameBytes) and never
// blocks.
type Decoder struct {
	buf []byte
}

// NewDecoder returns a Decoder ready to accept bytes.
func NewDecoder() *Decoder {
	return &Decoder{buf: make([]byte, 0, maxFrameBytes)}
}

// Reset discards any partially-accumulated frame.
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
}

// DecodeByte feeds one byte into the decoder. It returns a non-nil
// Frame once a complete, CRC-valid frame has been accepted. A non-nil
// error means a CRC mismatch was detected on an otherwise complete
// frame; the decoder has already resynchronized and the caller should
// simply drop the frame. Framing errors (bad sync, buffer overflow)
// are resolved silently and never returned as an error.
func (d *Decoder) DecodeByte(b byte) (*Frame, error) {
	if len(d.buf) >= maxFrameBytes {
		d.Reset()
	}
	d.buf = append(d.buf, b)

	for len(d.buf) > 0 && d.buf[0] != SOF {
		d.buf = d.buf[1:]
	}
	if len(d.buf) == 0 {
		return nil, nil
	}

	// Consecutive SOFs: the previous EOF doubled as this frame's SOF.
	if len(d.buf) >= 2 && d.buf[1] == SOF {
		d.buf = append(d.buf[:1], d.buf[2:]...)
	}

	if len(d.buf) <= 2 {
		return nil, nil
	}

	if d.buf[len(d.buf)-1] != EOF {
		return nil, nil
	}

	length := int(d.buf[1])
	wantLen := length + 2
	if length < minFrameLen || len(d.buf) != wantLen {
		// A stray EOF-valued byte that doesn't close a well-formed
		// frame is treated as the start of the next one.
		d.buf = append(d.buf[:0], SOF)
		return nil, nil
	}

	channel := d.buf[2]
	magic := d.buf[3]
	mt := d.buf[4]
	payload := append([]byte(nil), d.buf[5:len(d.buf)-2]...)
	crcByte := d.buf[len(d.buf)-2]
	computed := CRC8(d.buf[1 : len(d.buf)-2])
	d.buf = d.buf[:0]

	if computed != crcByte {
		return nil, fmt.Errorf("balboa: crc mismatch: got 0x%02X want 0x%02X", crcByte, computed)
	}

	return &Frame{
		channel:   channel,
		magic:     magic,
		mt:        mt,
		payload:   payload,
		crc:       crcByte,
		timestamp: time.Now(),
	}, nil
}

// Encode builds the wire bytes for an outbound frame addressed to
// channel, carrying message type mt and payload.
func Encode(channel, mt uint8, payload []byte) []byte {
	length := len(payload) + minFrameLen
	body := make([]byte, 0, length)
	body = append(body, uint8(length), channel, MagicByte(channel), mt)
	body = append(body, payload...)

	frame := make([]byte, 0, length+2)
	frame = append(frame, SOF)
	frame = append(frame, body...)
	frame = append(frame, CRC8(body))
	frame = append(frame, EOF)
	return frame
}
