// SPDX-License-Identifier: Apache-2.0

package balboa

// HandshakeState is the client's address-assignment lifecycle, per
// the mainboard's new-client discovery protocol.
type HandshakeState int

// Handshake states.
const (
	Unassigned HandshakeState = iota
	Requesting
	Assigned
)

// Handshake tracks address assignment against an unassigned, then
// requesting, then assigned mainboard client. Grounded on the
// upstream project's CTS state machine, collapsed from its
// trait-object states into a plain enum the way the Thermoquad
// decoder keeps its STATE_* constants.
type Handshake struct {
	state  HandshakeState
	selfID uint8
	acked  bool
}

// NewHandshake returns a Handshake in the Unassigned state.
func NewHandshake() *Handshake {
	return &Handshake{state: Unassigned}
}

// State returns the current handshake state.
func (h *Handshake) State() HandshakeState { return h.state }

// SelfID returns the assigned client address, or 0 if unassigned.
func (h *Handshake) SelfID() uint8 { return h.selfID }

// Live reports whether the handshake has completed and the session
// has seen at least one CTS addressed to it.
func (h *Handshake) Live() bool { return h.state == Assigned && h.acked }

// MarkLive records that an inbound frame whose channel equals SelfId
// carried mt 0x06 (Clear-To-Send), per §4.5: the session is then
// considered fully live. The scheduler, not the handshake, is what
// actually answers the CTS.
func (h *Handshake) MarkLive() { h.acked = true }

// HandleFrame reacts to one inbound frame and returns the outbound
// frame bytes to send in response (nil if no reply is warranted) and
// whether this call just completed address assignment, in which case
// the caller should publish the NodeId event. Once assigned, the
// address is fixed: a later AssignId is ignored and not re-acked.
func (h *Handshake) HandleFrame(f *Frame) (outbound []byte, assigned bool) {
	channel, mt := f.Channel(), f.Type()

	switch {
	case channel == ChannelNewClient && mt == MtNewClientQuery:
		if h.state != Assigned {
			h.state = Requesting
			return Encode(ChannelNewClient, MtNewClientRequest, newClientRequestPayload), false
		}
		return nil, false

	case channel == ChannelNewClient && mt == MtAssignID:
		if h.state == Assigned || len(f.Payload()) == 0 {
			return nil, false
		}
		h.selfID = ClampChannel(f.Payload()[0])
		h.state = Assigned
		h.acked = false
		return Encode(h.selfID, MtIDAck, nil), true

	default:
		return nil, false
	}
}
