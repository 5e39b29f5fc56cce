// SPDX-License-Identifier: Apache-2.0

package balboa

import "testing"

// feedBytes drives a fresh Decoder over every byte in data and returns
// the frames and errors it produced, in order.
func feedBytes(data []byte) (frames []*Frame, errs []error) {
	d := NewDecoder()
	for _, b := range data {
		f, err := d.DecodeByte(b)
		if err != nil {
			errs = append(errs, err)
		}
		if f != nil {
			frames = append(frames, f)
		}
	}
	return frames, errs
}

// ============================================================
// Encode / Decode round trip
// ============================================================

func TestEncode_Decode_RoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		channel uint8
		mt      uint8
		payload []byte
	}{
		{"no payload", 0x10, MtClearToSend, nil},
		{"new client request", ChannelNewClient, MtNewClientRequest, newClientRequestPayload},
		{"status broadcast", ChannelBroadcast, MtStatusUpdate, make([]byte, 26)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			wire := Encode(c.channel, c.mt, c.payload)

			frames, errs := feedBytes(wire)
			if len(errs) != 0 {
				t.Fatalf("unexpected decode errors: %v", errs)
			}
			if len(frames) != 1 {
				t.Fatalf("got %d frames, want 1", len(frames))
			}

			f := frames[0]
			if f.Channel() != c.channel {
				t.Errorf("channel = 0x%02X, want 0x%02X", f.Channel(), c.channel)
			}
			if f.Type() != c.mt {
				t.Errorf("type = 0x%02X, want 0x%02X", f.Type(), c.mt)
			}
			if len(c.payload) == 0 {
				if len(f.Payload()) != 0 {
					t.Errorf("payload = %X, want empty", f.Payload())
				}
			} else if string(f.Payload()) != string(c.payload) {
				t.Errorf("payload = %X, want %X", f.Payload(), c.payload)
			}
		})
	}
}

// ============================================================
// Framing and resync
// ============================================================

func TestDecoder_SkipsJunkBeforeSOF(t *testing.T) {
	wire := Encode(0x10, MtNothingToSend, nil)
	junk := append([]byte{0x01, 0x02, 0x03}, wire...)

	frames, errs := feedBytes(junk)
	if len(errs) != 0 {
		t.Fatalf("unexpected decode errors: %v", errs)
	}
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if frames[0].Type() != MtNothingToSend {
		t.Errorf("type = 0x%02X, want 0x%02X", frames[0].Type(), MtNothingToSend)
	}
}

func TestDecoder_BackToBackFrames(t *testing.T) {
	first := Encode(0x10, MtClearToSend, nil)
	second := Encode(0x10, MtNothingToSend, nil)

	var stream []byte
	stream = append(stream, first...)
	stream = append(stream, second...)

	frames, errs := feedBytes(stream)
	if len(errs) != 0 {
		t.Fatalf("unexpected decode errors: %v", errs)
	}
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if frames[0].Type() != MtClearToSend || frames[1].Type() != MtNothingToSend {
		t.Errorf("got types 0x%02X, 0x%02X", frames[0].Type(), frames[1].Type())
	}
}

func TestDecoder_DoubleSOF_CollapsesToOneFrame(t *testing.T) {
	wire := Encode(0x10, MtClearToSend, nil)
	// Insert a redundant leading SOF, as happens when a stray 0x7E
	// from line noise precedes a real frame.
	doubled := append([]byte{SOF}, wire...)

	frames, errs := feedBytes(doubled)
	if len(errs) != 0 {
		t.Fatalf("unexpected decode errors: %v", errs)
	}
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if frames[0].Type() != MtClearToSend {
		t.Errorf("type = 0x%02X, want 0x%02X", frames[0].Type(), MtClearToSend)
	}
}

func TestDecoder_CorruptedFrame_ReturnsErrorAndResyncs(t *testing.T) {
	wire := Encode(0x10, MtNothingToSend, nil)
	wire[2] ^= 0xFF // flip the channel byte inside the CRC-covered body

	good := Encode(0x10, MtClearToSend, nil)

	stream := append(append([]byte{}, wire...), good...)

	frames, errs := feedBytes(stream)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1 (only the frame after the corrupt one)", len(frames))
	}
	if frames[0].Type() != MtClearToSend {
		t.Errorf("surviving frame type = 0x%02X, want 0x%02X", frames[0].Type(), MtClearToSend)
	}
}

func TestDecoder_Reset_DiscardsPartialFrame(t *testing.T) {
	d := NewDecoder()
	wire := Encode(0x10, MtClearToSend, nil)
	for _, b := range wire[:len(wire)-2] {
		d.DecodeByte(b)
	}
	d.Reset()

	good := Encode(0x10, MtNothingToSend, nil)
	var frames []*Frame
	for _, b := range good {
		f, err := d.DecodeByte(b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f != nil {
			frames = append(frames, f)
		}
	}
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
}
