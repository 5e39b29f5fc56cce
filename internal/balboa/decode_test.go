// SPDX-License-Identifier: Apache-2.0

package balboa

import "testing"

// recordingPublisher captures every Publish call in order.
type recordingPublisher struct {
	events []Event
}

func (r *recordingPublisher) Publish(topic, value string) {
	r.events = append(r.events, Event{Topic: topic, Value: value})
}

func (r *recordingPublisher) value(topic string) (string, bool) {
	for _, e := range r.events {
		if e.Topic == topic {
			return e.Value, true
		}
	}
	return "", false
}

// ============================================================
// ConfigReport decode and publish
// ============================================================

func TestDecodeConfigReport_PumpsAndTempScale(t *testing.T) {
	payload := make([]byte, 10)
	payload[3] = 0x01 // temp scale: Celsius
	payload[5] = 0x21 // pump1=1, pump2=0, pump3=2, pump4=0

	cfg, err := DecodeConfigReport(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TempScale != Celsius {
		t.Errorf("TempScale = %v, want Celsius", cfg.TempScale)
	}
	if cfg.Pump1 != 1 || cfg.Pump2 != 0 || cfg.Pump3 != 2 || cfg.Pump4 != 0 {
		t.Errorf("pumps = %d,%d,%d,%d, want 1,0,2,0", cfg.Pump1, cfg.Pump2, cfg.Pump3, cfg.Pump4)
	}

	pub := &recordingPublisher{}
	PublishConfig(pub, cfg)

	want := map[string]string{
		TopicConfigPumps1:    "1",
		TopicConfigPumps2:    "0",
		TopicConfigPumps3:    "2",
		TopicConfigPumps4:    "0",
		TopicConfigTempScale: "1",
	}
	for topic, wantVal := range want {
		got, ok := pub.value(topic)
		if !ok {
			t.Errorf("no publish for %s", topic)
			continue
		}
		if got != wantVal {
			t.Errorf("%s = %q, want %q", topic, got, wantVal)
		}
	}
}

func TestDecodeConfigReport_PayloadTooShort(t *testing.T) {
	if _, err := DecodeConfigReport(make([]byte, 2)); err != ErrPayloadTooShort {
		t.Errorf("err = %v, want ErrPayloadTooShort", err)
	}
}

// ============================================================
// StatusUpdate decode: scale-dependent temperature
// ============================================================

func TestDecodeStatusUpdate_CelsiusSetTemperature(t *testing.T) {
	payload := make([]byte, 26)
	payload[7] = 0xFF // current temperature unknown
	payload[25] = 0x55 // 85 half-degree units -> 42.5C

	st, err := DecodeStatusUpdate(payload, Celsius)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.SetTemp != 42.5 {
		t.Errorf("SetTemp = %v, want 42.5", st.SetTemp)
	}
	if st.CurrentTemp != 0 {
		t.Errorf("CurrentTemp = %v, want 0 (0xFF sentinel suppressed)", st.CurrentTemp)
	}

	pub := &recordingPublisher{}
	PublishStatus(pub, st)

	got, ok := pub.value(TopicTargetTemp)
	if !ok {
		t.Fatalf("no publish for %s", TopicTargetTemp)
	}
	if got != "42.50" {
		t.Errorf("%s = %q, want %q", TopicTargetTemp, got, "42.50")
	}
}

func TestDecodeStatusUpdate_FahrenheitIsWholeDegrees(t *testing.T) {
	payload := make([]byte, 26)
	payload[25] = 100

	st, err := DecodeStatusUpdate(payload, Fahrenheit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.SetTemp != 100 {
		t.Errorf("SetTemp = %v, want 100", st.SetTemp)
	}
}

func TestEncodeSetTemperature_RoundTripsWithDecode(t *testing.T) {
	cases := []struct {
		scale  Scale
		target float64
	}{
		{Fahrenheit, 101},
		{Celsius, 38.5},
	}
	for _, c := range cases {
		raw := EncodeSetTemperature(c.target, c.scale)
		got := DecodeTemperature(raw, c.scale)
		if got != c.target {
			t.Errorf("scale %v: round trip %v -> 0x%02X -> %v", c.scale, c.target, raw, got)
		}
	}
}
