// SPDX-License-Identifier: Apache-2.0

package balboa

import "testing"

// feedSession drives every byte of wire through a Session and returns
// each outbound frame the bytes produced, as a list in order (OnByte
// only ever returns a non-nil slice on the byte that
// completes a frame, so there is at most one outbound frame per input
// frame here).
func feedSession(s *Session, wire []byte) [][]byte {
	var out [][]byte
	for _, b := range wire {
		if outbound := s.OnByte(b); outbound != nil {
			out = append(out, outbound)
		}
	}
	return out
}

// ============================================================
// Scenario: full handshake over a Session
// ============================================================

func TestSession_Handshake_RequestsThenAcksAssignedAddress(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewSession(pub)

	query := Encode(ChannelNewClient, MtNewClientQuery, nil)
	out := feedSession(s, query)
	if len(out) != 1 {
		t.Fatalf("got %d outbound frames for NewClientQuery, want 1", len(out))
	}
	req := mustDecodeOne(t, out[0])
	if req.Channel() != ChannelNewClient || req.Type() != MtNewClientRequest {
		t.Errorf("got channel 0x%02X type 0x%02X, want NewClientRequest", req.Channel(), req.Type())
	}

	assign := Encode(ChannelNewClient, MtAssignID, []byte{0x10})
	out = feedSession(s, assign)
	if len(out) != 1 {
		t.Fatalf("got %d outbound frames for AssignId, want 1", len(out))
	}
	ack := mustDecodeOne(t, out[0])
	if ack.Channel() != 0x10 || ack.Type() != MtIDAck {
		t.Errorf("got channel 0x%02X type 0x%02X, want IdAck from 0x10", ack.Channel(), ack.Type())
	}

	if s.SelfID() != 0x10 {
		t.Errorf("SelfID() = 0x%02X, want 0x10", s.SelfID())
	}
	got, ok := pub.value(TopicNodeID)
	if !ok {
		t.Fatalf("no publish for %s", TopicNodeID)
	}
	if got != "16" {
		t.Errorf("%s = %q, want %q", TopicNodeID, got, "16")
	}
}

// ============================================================
// Invariant: no outbound frame while unassigned, except the
// handshake's own NewClientRequest/IdAck.
// ============================================================

func TestSession_NoOutboundWhileUnassigned(t *testing.T) {
	s := NewSession(nil)

	// A broadcast status update addressed to nobody in particular.
	status := Encode(ChannelBroadcast, MtStatusUpdate, make([]byte, 26))
	if out := feedSession(s, status); len(out) != 0 {
		t.Errorf("got %d outbound frames for a status broadcast while unassigned, want 0", len(out))
	}

	// A CTS addressed to an address this session never claimed must
	// not be answered; only dispatch's third branch (already
	// Assigned, channel == SelfId) answers a CTS.
	cts := Encode(0x10, MtClearToSend, nil)
	if out := feedSession(s, cts); len(out) != 0 {
		t.Errorf("got %d outbound frames for a CTS while unassigned, want 0", len(out))
	}
}

// ============================================================
// Invariant: identical consecutive status frames publish at most
// once.
// ============================================================

func TestSession_DuplicateStatusFrame_PublishesOnlyOnce(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewSession(pub)

	status := Encode(ChannelBroadcast, MtStatusUpdate, make([]byte, 26))
	feedSession(s, status)
	firstCount := len(pub.events)
	if firstCount == 0 {
		t.Fatalf("first status frame published nothing")
	}

	feedSession(s, status)
	if len(pub.events) != firstCount {
		t.Errorf("second identical status frame published %d more events, want 0", len(pub.events)-firstCount)
	}
}

// ============================================================
// Scenario: a corrupted frame is dropped with no side effects.
// ============================================================

func TestSession_CorruptedConfigFrame_PublishesNothing(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewSession(pub)

	payload := make([]byte, 10)
	payload[3] = 0x01
	payload[5] = 0x21
	wire := Encode(testSelfID, MtConfigReport, payload)
	wire[2] ^= 0xFF // corrupt a CRC-covered byte

	feedSession(s, wire)

	if len(pub.events) != 0 {
		t.Errorf("got %d publish events for a CRC-invalid frame, want 0", len(pub.events))
	}
	if _, ok := s.Config(); ok {
		t.Errorf("Config() reports a value after a CRC-invalid ConfigReport")
	}
	if s.Statistics().CrcMismatches != 1 {
		t.Errorf("CrcMismatches = %d, want 1", s.Statistics().CrcMismatches)
	}
}

// ============================================================
// CTS handling once assigned: exactly one outbound frame, the
// scheduler's choice, with no pending command queued.
// ============================================================

func TestSession_ClearToSend_AnswersWithSchedulerChoice(t *testing.T) {
	s := NewSession(nil)
	feedSession(s, Encode(ChannelNewClient, MtAssignID, []byte{0x10}))

	out := feedSession(s, Encode(0x10, MtClearToSend, nil))
	if len(out) != 1 {
		t.Fatalf("got %d outbound frames for CTS, want 1", len(out))
	}
	reply := mustDecodeOne(t, out[0])
	if reply.Type() != MtRequestInfo {
		t.Errorf("type = 0x%02X, want 0x%02X (RequestInfo for config, nothing acquired yet)", reply.Type(), MtRequestInfo)
	}
}

func TestSession_RequestToggle_TakesNextCTS(t *testing.T) {
	s := NewSession(nil)
	feedSession(s, Encode(ChannelNewClient, MtAssignID, []byte{0x10}))
	s.RequestToggle(5)

	out := feedSession(s, Encode(0x10, MtClearToSend, nil))
	if len(out) != 1 {
		t.Fatalf("got %d outbound frames for CTS, want 1", len(out))
	}
	reply := mustDecodeOne(t, out[0])
	if reply.Type() != MtToggleItem {
		t.Fatalf("type = 0x%02X, want 0x%02X (ToggleItem)", reply.Type(), MtToggleItem)
	}
	if reply.Payload()[0] != 5 {
		t.Errorf("item = %d, want 5", reply.Payload()[0])
	}

	// The pending command is consumed; the following CTS falls back
	// to acquisition.
	out = feedSession(s, Encode(0x10, MtClearToSend, nil))
	reply = mustDecodeOne(t, out[0])
	if reply.Type() != MtRequestInfo {
		t.Errorf("type = 0x%02X, want 0x%02X after the queued toggle was consumed", reply.Type(), MtRequestInfo)
	}
}
