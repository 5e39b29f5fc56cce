// SPDX-License-Identifier: Apache-2.0

package balboa

import (
	"fmt"
	"time"
)

// Statistics tracks frame counts and error rates for one session.
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	FramesSeen      uint64
	FramesAccepted  uint64
	FramingErrors   uint64
	CrcMismatches   uint64
	UnknownMessages uint64
	PayloadTooShort uint64
	EventsPublished uint64
	Anomalies       uint64

	FrameRate float64 // frames/sec
	ErrorRate float64 // errors/sec
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// RecordFrame records one successfully decoded frame.
func (s *Statistics) RecordFrame() {
	s.FramesSeen++
	s.FramesAccepted++
	s.LastUpdateTime = time.Now()
}

// RecordCrcMismatch records a frame the codec dropped for a bad CRC.
func (s *Statistics) RecordCrcMismatch() {
	s.FramesSeen++
	s.CrcMismatches++
	s.LastUpdateTime = time.Now()
}

// RecordUnknownMessage records a frame the parser had no dispatch
// entry for.
func (s *Statistics) RecordUnknownMessage() {
	s.UnknownMessages++
	s.LastUpdateTime = time.Now()
}

// RecordPayloadTooShort records a decoder call that ran past the end
// of the payload.
func (s *Statistics) RecordPayloadTooShort() {
	s.PayloadTooShort++
	s.LastUpdateTime = time.Now()
}

// RecordPublish records one publish event delivered to the sink.
func (s *Statistics) RecordPublish() {
	s.EventsPublished++
}

// RecordAnomalies tallies validation findings for a decoded value that
// was published anyway; they never suppress the publish.
func (s *Statistics) RecordAnomalies(errs []ValidationError) {
	s.Anomalies += uint64(len(errs))
}

// CalculateRates recomputes FrameRate and ErrorRate from elapsed time.
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.FramesSeen) / elapsed
		errs := s.CrcMismatches + s.UnknownMessages + s.PayloadTooShort
		s.ErrorRate = float64(errs) / elapsed
	}
}

// String returns a formatted statistics summary.
func (s *Statistics) String() string {
	s.CalculateRates()

	var acceptedPercent, crcPercent float64
	if s.FramesSeen > 0 {
		acceptedPercent = float64(s.FramesAccepted) * 100.0 / float64(s.FramesSeen)
		crcPercent = float64(s.CrcMismatches) * 100.0 / float64(s.FramesSeen)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Frames Seen:     %8d\n", s.FramesSeen)
	result += fmt.Sprintf("Frames Accepted: %8d (%.1f%%)\n", s.FramesAccepted, acceptedPercent)

	if s.CrcMismatches > 0 {
		result += fmt.Sprintf("CRC Mismatches:  %8d (%.1f%%)\n", s.CrcMismatches, crcPercent)
	}
	if s.UnknownMessages > 0 {
		result += fmt.Sprintf("Unknown Msgs:    %8d\n", s.UnknownMessages)
	}
	if s.PayloadTooShort > 0 {
		result += fmt.Sprintf("Payload Too Short: %6d\n", s.PayloadTooShort)
	}

	result += fmt.Sprintf("Events Published:%8d\n", s.EventsPublished)
	if s.Anomalies > 0 {
		result += fmt.Sprintf("Anomalies:       %8d\n", s.Anomalies)
	}
	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", s.FrameRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}
