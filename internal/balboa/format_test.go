// SPDX-License-Identifier: Apache-2.0

package balboa

import (
	"strings"
	"testing"
)

func TestFormatMessageType_KnownAndUnknown(t *testing.T) {
	if got := FormatMessageType(MtConfigReport); got != "ConfigReport" {
		t.Errorf("got %q, want %q", got, "ConfigReport")
	}
	if got := FormatMessageType(0x99); got != "Unknown" {
		t.Errorf("got %q, want %q", got, "Unknown")
	}
}

func TestFormatPayload_WrapsAtSixteenBytes(t *testing.T) {
	payload := make([]byte, 17)
	out := FormatPayload(payload)
	if strings.Count(out, "\n") != 1 {
		t.Errorf("got %d newlines, want 1 for a 17-byte payload", strings.Count(out, "\n"))
	}
}

func TestClassifyChannel(t *testing.T) {
	cases := []struct {
		addr uint8
		want Channel
	}{
		{ChannelNewClient, ChannelKindNewClient},
		{ChannelBroadcast, ChannelKindBroadcast},
		{0x10, ChannelKindClient},
		{0x2F, ChannelKindClient},
		{0x30, ChannelKindClientNoCTS},
		{0x3F, ChannelKindClientNoCTS},
		{0x05, ChannelKindUnknown},
	}
	for _, c := range cases {
		if got := ClassifyChannel(c.addr); got != c.want {
			t.Errorf("ClassifyChannel(0x%02X) = %v, want %v", c.addr, got, c.want)
		}
	}
}

func TestClampChannel(t *testing.T) {
	if got := ClampChannel(0x2F); got != 0x2F {
		t.Errorf("got 0x%02X, want 0x2F", got)
	}
	if got := ClampChannel(0xFF); got != clientChannelHi {
		t.Errorf("got 0x%02X, want 0x%02X", got, clientChannelHi)
	}
}

func TestFaultMessage_UnknownCodeFallsBack(t *testing.T) {
	if got := FaultMessage(16); got != "The water flow is low" {
		t.Errorf("got %q", got)
	}
	if got := FaultMessage(200); got != "Unknown error" {
		t.Errorf("got %q, want %q", got, "Unknown error")
	}
}
