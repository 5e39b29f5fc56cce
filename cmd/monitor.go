// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/balboabridge/spaclient/internal/balboa"
	"github.com/spf13/cobra"
)

var (
	monitorShowAll       bool
	monitorStatsInterval int
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Log raw frames and periodic statistics",
	Long: `monitor decodes every frame on the bus and prints it in human-readable
form, along with a periodic Statistics summary.

By default only CRC mismatches are printed; frames are not dispatched
or decoded further, so unknown message types and short payloads are
not detected. Pass --show-all to print every accepted frame.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().BoolVar(&monitorShowAll, "show-all", false, "Print every accepted frame, not just anomalies")
	monitorCmd.Flags().IntVar(&monitorStatsInterval, "stats-interval", 10, "Statistics summary interval (seconds)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("spaclient monitor\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Statistics interval: %ds\n", monitorStatsInterval)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	decoder := balboa.NewDecoder()
	stats := balboa.NewStatistics()

	dataCh := make(chan []byte, 16)
	go func() {
		buf := make([]byte, 128)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				if err == ErrConnectionClosed {
					close(dataCh)
					return
				}
				log.Printf("read error: %v", err)
				time.Sleep(10 * time.Millisecond)
				continue
			}
			data := make([]byte, n)
			copy(data, buf[:n])
			dataCh <- data
		}
	}()

	ticker := time.NewTicker(time.Duration(monitorStatsInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-dataCh:
			if !ok {
				log.Printf("connection closed")
				return nil
			}
			for _, b := range data {
				frame, err := decoder.DecodeByte(b)
				if err != nil {
					stats.RecordCrcMismatch()
					fmt.Printf("[ERROR] %v\n", err)
					continue
				}
				if frame == nil {
					continue
				}
				stats.RecordFrame()
				if monitorShowAll {
					fmt.Print(balboa.FormatFrame(frame))
				}
			}

		case <-ticker.C:
			fmt.Println()
			fmt.Print(stats.String())
			fmt.Println()
		}
	}
}
