// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/balboabridge/spaclient/internal/balboa"
	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"
)

var (
	snapshotOutput  string
	snapshotTimeout time.Duration
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture one CBOR diagnostic dump of session state",
	Long: `snapshot attaches to the configured connection, waits until it has
seen a ConfigReport, StatusUpdate, FaultLogReport and FilterCycleReport
(or --timeout elapses), then writes a single CBOR-encoded dump of the
decoded state plus frame statistics to --output and exits.

This is write-only diagnostics: spaclient never reads a snapshot back.`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "spaclient-snapshot.cbor", "Output file path")
	snapshotCmd.Flags().DurationVar(&snapshotTimeout, "timeout", 30*time.Second, "Give up waiting for a full snapshot after this long")
}

// snapshotDoc is the CBOR wire shape of a captured snapshot.
type snapshotDoc struct {
	CapturedAt     string                  `cbor:"captured_at"`
	SelfID         uint8                   `cbor:"self_id"`
	Config         *balboa.SpaConfig       `cbor:"config,omitempty"`
	State          *balboa.SpaState        `cbor:"state,omitempty"`
	FaultLog       *balboa.SpaFaultLog     `cbor:"fault_log,omitempty"`
	FilterSettings *balboa.SpaFilterSettings `cbor:"filter_settings,omitempty"`
	Statistics     snapshotStats           `cbor:"statistics"`
}

type snapshotStats struct {
	FramesSeen      uint64 `cbor:"frames_seen"`
	FramesAccepted  uint64 `cbor:"frames_accepted"`
	CrcMismatches   uint64 `cbor:"crc_mismatches"`
	UnknownMessages uint64 `cbor:"unknown_messages"`
	EventsPublished uint64 `cbor:"events_published"`
	Anomalies       uint64 `cbor:"anomalies"`
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("spaclient snapshot\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Waiting up to %s for a full snapshot...\n", snapshotTimeout)

	sess := balboa.NewSession(nil)

	type readResult struct {
		data []byte
		err  error
	}
	reads := make(chan readResult, 16)
	go func() {
		buf := make([]byte, 128)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				reads <- readResult{err: err}
				return
			}
			data := make([]byte, n)
			copy(data, buf[:n])
			reads <- readResult{data: data}
		}
	}()

	deadline := time.After(snapshotTimeout)

loop:
	for {
		select {
		case r := <-reads:
			if r.err != nil {
				if r.err == ErrConnectionClosed {
					break loop
				}
				return r.err
			}
			for _, b := range r.data {
				if outbound := sess.OnByte(b); outbound != nil {
					conn.Write(outbound)
				}
			}
			if haveFullSnapshot(sess) {
				break loop
			}

		case <-deadline:
			fmt.Printf("timeout reached; writing whatever was captured\n")
			break loop
		}
	}

	return writeSnapshot(sess)
}

func haveFullSnapshot(sess *balboa.Session) bool {
	_, haveConfig := sess.Config()
	_, haveState := sess.State()
	_, haveFault := sess.FaultLog()
	_, haveFilters := sess.FilterSettings()
	return haveConfig && haveState && haveFault && haveFilters
}

func writeSnapshot(sess *balboa.Session) error {
	doc := snapshotDoc{
		CapturedAt: time.Now().Format(time.RFC3339),
		SelfID:     sess.SelfID(),
	}

	if cfg, ok := sess.Config(); ok {
		doc.Config = &cfg
	}
	if st, ok := sess.State(); ok {
		doc.State = &st
	}
	if fl, ok := sess.FaultLog(); ok {
		doc.FaultLog = &fl
	}
	if fs, ok := sess.FilterSettings(); ok {
		doc.FilterSettings = &fs
	}

	stats := sess.Statistics()
	stats.CalculateRates()
	doc.Statistics = snapshotStats{
		FramesSeen:      stats.FramesSeen,
		FramesAccepted:  stats.FramesAccepted,
		CrcMismatches:   stats.CrcMismatches,
		UnknownMessages: stats.UnknownMessages,
		EventsPublished: stats.EventsPublished,
		Anomalies:       stats.Anomalies,
	}

	data, err := cbor.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %v", err)
	}

	if err := os.WriteFile(snapshotOutput, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %v", err)
	}

	fmt.Printf("wrote %d bytes to %s\n", len(data), snapshotOutput)
	return nil
}
