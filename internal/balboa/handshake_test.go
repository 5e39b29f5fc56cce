// SPDX-License-Identifier: Apache-2.0

package balboa

import "testing"

func mustDecodeOne(t *testing.T, wire []byte) *Frame {
	t.Helper()
	frames, errs := feedBytes(wire)
	if len(errs) != 0 {
		t.Fatalf("unexpected decode errors: %v", errs)
	}
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	return frames[0]
}

// ============================================================
// Handshake: new-client discovery and address assignment
// ============================================================

func TestHandshake_NewClientQuery_SendsNewClientRequest(t *testing.T) {
	h := NewHandshake()
	query := mustDecodeOne(t, Encode(ChannelNewClient, MtNewClientQuery, nil))

	outbound, assigned := h.HandleFrame(query)
	if assigned {
		t.Fatalf("assigned = true, want false")
	}
	if outbound == nil {
		t.Fatalf("outbound = nil, want a NewClientRequest")
	}

	got := mustDecodeOne(t, outbound)
	if got.Channel() != ChannelNewClient || got.Type() != MtNewClientRequest {
		t.Errorf("got channel 0x%02X type 0x%02X, want 0x%02X/0x%02X",
			got.Channel(), got.Type(), ChannelNewClient, MtNewClientRequest)
	}
	if string(got.Payload()) != string(newClientRequestPayload) {
		t.Errorf("payload = %X, want %X", got.Payload(), newClientRequestPayload)
	}
	if h.State() != Requesting {
		t.Errorf("state = %v, want Requesting", h.State())
	}
}

func TestHandshake_AssignId_SendsIdAckAndAdoptsAddress(t *testing.T) {
	h := NewHandshake()
	assign := mustDecodeOne(t, Encode(ChannelNewClient, MtAssignID, []byte{0x10}))

	outbound, assigned := h.HandleFrame(assign)
	if !assigned {
		t.Fatalf("assigned = false, want true")
	}
	if h.State() != Assigned {
		t.Errorf("state = %v, want Assigned", h.State())
	}
	if h.SelfID() != 0x10 {
		t.Errorf("SelfID() = 0x%02X, want 0x10", h.SelfID())
	}

	got := mustDecodeOne(t, outbound)
	if got.Channel() != 0x10 || got.Type() != MtIDAck {
		t.Errorf("got channel 0x%02X type 0x%02X, want 0x10/0x%02X", got.Channel(), got.Type(), MtIDAck)
	}
	if len(got.Payload()) != 0 {
		t.Errorf("payload = %X, want empty", got.Payload())
	}
}

func TestHandshake_SelfID_NeverChangesOnceAssigned(t *testing.T) {
	h := NewHandshake()
	h.HandleFrame(mustDecodeOne(t, Encode(ChannelNewClient, MtAssignID, []byte{0x10})))

	if h.SelfID() != 0x10 {
		t.Fatalf("SelfID() = 0x%02X, want 0x10", h.SelfID())
	}

	// Neither a later NewClientQuery nor a second AssignId carrying a
	// different address may move an already-assigned client.
	_, assigned := h.HandleFrame(mustDecodeOne(t, Encode(ChannelNewClient, MtNewClientQuery, nil)))
	if assigned {
		t.Fatalf("a NewClientQuery after assignment should not re-assign")
	}
	if h.SelfID() != 0x10 {
		t.Errorf("SelfID() changed to 0x%02X after a query while already assigned", h.SelfID())
	}

	outbound, assigned := h.HandleFrame(mustDecodeOne(t, Encode(ChannelNewClient, MtAssignID, []byte{0x11})))
	if assigned || outbound != nil {
		t.Fatalf("a second AssignId after assignment should be ignored")
	}
	if h.SelfID() != 0x10 {
		t.Errorf("SelfID() changed to 0x%02X after a second AssignId", h.SelfID())
	}
}

func TestHandshake_NewClientQuery_IgnoredOnceAssigned(t *testing.T) {
	h := NewHandshake()
	h.HandleFrame(mustDecodeOne(t, Encode(ChannelNewClient, MtAssignID, []byte{0x10})))

	outbound, assigned := h.HandleFrame(mustDecodeOne(t, Encode(ChannelNewClient, MtNewClientQuery, nil)))
	if outbound != nil {
		t.Errorf("outbound = %X, want nil (already assigned)", outbound)
	}
	if assigned {
		t.Errorf("assigned = true, want false")
	}
}
