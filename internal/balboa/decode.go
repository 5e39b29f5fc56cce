// SPDX-License-Identifier: Apache-2.0

package balboa

import "fmt"

// ErrPayloadTooShort is returned by a decoder when the payload is too
// short to hold a field at its expected offset. The caller drops the
// frame; no partial publish occurs.
var ErrPayloadTooShort = fmt.Errorf("balboa: payload too short")

// at returns the payload byte at the given decoder offset. Decoder
// offsets are indices into the payload itself (the same indexing the
// packed-struct field offsets in the upstream message definitions
// use), not positions in the framed wire buffer.
func at(payload []byte, offset int) (uint8, error) {
	if offset < 0 || offset >= len(payload) {
		return 0, ErrPayloadTooShort
	}
	return payload[offset], nil
}

// DecodeConfigReport decodes a ConfigReport payload (mt 0x2E).
func DecodeConfigReport(payload []byte) (SpaConfig, error) {
	var cfg SpaConfig

	b3, err := at(payload, 3)
	if err != nil {
		return cfg, err
	}
	cfg.TempScale = Scale(b3 & 0x01)

	b5, err := at(payload, 5)
	if err != nil {
		return cfg, err
	}
	cfg.Pump1 = b5 & 0x03
	cfg.Pump2 = (b5 >> 2) & 0x03
	cfg.Pump3 = (b5 >> 4) & 0x03
	cfg.Pump4 = (b5 >> 6) & 0x03

	b6, err := at(payload, 6)
	if err != nil {
		return cfg, err
	}
	cfg.Pump5 = b6 & 0x03
	cfg.Pump6 = (b6 & 0xC0) >> 6

	b7, err := at(payload, 7)
	if err != nil {
		return cfg, err
	}
	cfg.Light1 = b7 & 0x03
	cfg.Light2 = (b7 >> 2) & 0x03

	b8, err := at(payload, 8)
	if err != nil {
		return cfg, err
	}
	cfg.Circ = b8&0x80 != 0
	cfg.Blower = b8&0x03 != 0

	b9, err := at(payload, 9)
	if err != nil {
		return cfg, err
	}
	cfg.Mister = b9&0x30 != 0
	cfg.Aux1 = b9 & 0x01
	cfg.Aux2 = b9&0x02 != 0

	return cfg, nil
}

// PublishConfig emits one event per ConfigReport field, in field
// declaration order.
func PublishConfig(p Publisher, cfg SpaConfig) {
	emitInt(p, TopicConfigTempScale, int(cfg.TempScale))
	emitInt(p, TopicConfigPumps1, int(cfg.Pump1))
	emitInt(p, TopicConfigPumps2, int(cfg.Pump2))
	emitInt(p, TopicConfigPumps3, int(cfg.Pump3))
	emitInt(p, TopicConfigPumps4, int(cfg.Pump4))
	emitInt(p, TopicConfigPumps5, int(cfg.Pump5))
	emitInt(p, TopicConfigPumps6, int(cfg.Pump6))
	emitInt(p, TopicConfigLight1, int(cfg.Light1))
	emitInt(p, TopicConfigLight2, int(cfg.Light2))
	emitBool(p, TopicConfigCirc, cfg.Circ)
	emitBool(p, TopicConfigBlower, cfg.Blower)
	emitBool(p, TopicConfigMister, cfg.Mister)
	emitInt(p, TopicConfigAux1, int(cfg.Aux1))
	emitBool(p, TopicConfigAux2, cfg.Aux2)
}

// DecodeStatusUpdate decodes a StatusUpdate payload (mt 0x13). scale
// comes from the most recently received ConfigReport, or Fahrenheit
// if none has arrived yet.
func DecodeStatusUpdate(payload []byte, scale Scale) (SpaState, error) {
	var st SpaState

	setTempRaw, err := at(payload, 25)
	if err != nil {
		return st, err
	}
	st.SetTemp = DecodeTemperature(setTempRaw, scale)

	curTempRaw, err := at(payload, 7)
	if err != nil {
		return st, err
	}
	if curTempRaw != 0xFF {
		st.CurrentTemp = DecodeTemperature(curTempRaw, scale)
	}

	hour, err := at(payload, 8)
	if err != nil {
		return st, err
	}
	st.Hour = hour

	minute, err := at(payload, 9)
	if err != nil {
		return st, err
	}
	st.Minute = minute

	modeByte, err := at(payload, 10)
	if err != nil {
		return st, err
	}
	st.HeatingMode = decodeHeatingMode(modeByte)

	flag10, err := at(payload, 15)
	if err != nil {
		return st, err
	}
	switch (flag10 >> 4) & 0x03 {
	case 0:
		st.HeatState = HeatStateOff
	case 1:
		st.HeatState = HeatStateHeating1
	default:
		st.HeatState = HeatStateHeating2
	}
	if flag10&0x04 != 0 {
		st.Range = RangeHigh
	} else {
		st.Range = RangeLow
	}

	flag11, err := at(payload, 16)
	if err != nil {
		return st, err
	}
	st.Jet1 = flag11&0x02 != 0
	st.Jet2 = flag11&0x08 != 0

	flag13, err := at(payload, 18)
	if err != nil {
		return st, err
	}
	st.Circ = flag13&0x02 != 0
	st.Blower = flag13&0x04 != 0

	flag14, err := at(payload, 19)
	if err != nil {
		return st, err
	}
	st.Light = flag14 == 0x03

	return st, nil
}

// PublishStatus emits one event per StatusUpdate field, in field
// declaration order.
func PublishStatus(p Publisher, st SpaState) {
	emitTemp(p, TopicTargetTemp, st.SetTemp)
	emitTemp(p, TopicTemperature, st.CurrentTemp)
	emit(p, TopicTime, formatTime(st.Hour, st.Minute))
	emit(p, TopicHeatingMode, st.HeatingMode.String())
	if st.HeatState == HeatStateOff {
		emit(p, TopicHeatMode, "off")
	} else {
		emit(p, TopicHeatMode, "heat")
	}
	emitInt(p, TopicHeatState, int(st.HeatState))
	emitBool(p, TopicHighRange, st.Range == RangeHigh)
	emitBool(p, TopicJet1, st.Jet1)
	emitBool(p, TopicJet2, st.Jet2)
	emitBool(p, TopicCirc, st.Circ)
	emitBool(p, TopicBlower, st.Blower)
	emitBool(p, TopicLight, st.Light)
	emitBool(p, TopicRelay1, st.Jet1)
	emitBool(p, TopicRelay2, st.Jet2)
}

// DecodeFaultLogReport decodes a FaultLogReport payload (mt 0x28).
func DecodeFaultLogReport(payload []byte) (SpaFaultLog, error) {
	var log SpaFaultLog

	totEntry, err := at(payload, 5)
	if err != nil {
		return log, err
	}
	log.TotalEntries = totEntry

	currEntry, err := at(payload, 6)
	if err != nil {
		return log, err
	}
	log.CurrentEntry = currEntry

	faultCode, err := at(payload, 7)
	if err != nil {
		return log, err
	}
	log.FaultCode = faultCode
	log.Message = FaultMessage(faultCode)

	daysAgo, err := at(payload, 8)
	if err != nil {
		return log, err
	}
	log.DaysAgo = daysAgo

	hour, err := at(payload, 9)
	if err != nil {
		return log, err
	}
	log.Hour = hour

	minute, err := at(payload, 10)
	if err != nil {
		return log, err
	}
	log.Minute = minute

	return log, nil
}

// PublishFaultLog emits one event per FaultLogReport field, in field
// declaration order.
func PublishFaultLog(p Publisher, log SpaFaultLog) {
	emitInt(p, TopicFaultEntries, int(log.TotalEntries))
	emitInt(p, TopicFaultEntry, int(log.CurrentEntry))
	emitInt(p, TopicFaultCode, int(log.FaultCode))
	emit(p, TopicFaultMessage, log.Message)
	emitInt(p, TopicFaultDaysAgo, int(log.DaysAgo))
	emitInt(p, TopicFaultHours, int(log.Hour))
	emitInt(p, TopicFaultMinutes, int(log.Minute))
}

// DecodeFilterCycleReport decodes a FilterCycleReport payload (mt 0x23).
func DecodeFilterCycleReport(payload []byte) (SpaFilterSettings, error) {
	var fs SpaFilterSettings

	sh, err := at(payload, 5)
	if err != nil {
		return fs, err
	}
	fs.Filter1.StartHour = sh

	sm, err := at(payload, 6)
	if err != nil {
		return fs, err
	}
	fs.Filter1.StartMinute = sm

	dh, err := at(payload, 7)
	if err != nil {
		return fs, err
	}
	fs.Filter1.DurHour = dh

	dm, err := at(payload, 8)
	if err != nil {
		return fs, err
	}
	fs.Filter1.DurMinute = dm

	b9, err := at(payload, 9)
	if err != nil {
		return fs, err
	}
	fs.Filter2Enabled = b9&0x80 != 0
	fs.Filter2.StartHour = b9 & 0x7F

	f2min, err := at(payload, 10)
	if err != nil {
		return fs, err
	}
	fs.Filter2.StartMinute = f2min

	f2dh, err := at(payload, 11)
	if err != nil {
		return fs, err
	}
	fs.Filter2.DurHour = f2dh

	f2dm, err := at(payload, 12)
	if err != nil {
		return fs, err
	}
	fs.Filter2.DurMinute = f2dm

	return fs, nil
}

// PublishFilterSettings emits one event per FilterCycleReport field,
// in field declaration order.
func PublishFilterSettings(p Publisher, fs SpaFilterSettings) {
	emit(p, TopicFilter1, FormatFilterCycle(fs.Filter1))
	emitBool(p, TopicFilter2Enabled, fs.Filter2Enabled)
	emit(p, TopicFilter2, FormatFilterCycle(fs.Filter2))
}

// FormatFilterCycle formats a FilterCycle as a JSON-ish string.
func FormatFilterCycle(c FilterCycle) string {
	return fmt.Sprintf(`{"start":"%s","duration":"%s"}`,
		formatTime(c.StartHour, c.StartMinute),
		formatTime(c.DurHour, c.DurMinute))
}
