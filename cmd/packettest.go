// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/balboabridge/spaclient/internal/balboa"
	"github.com/spf13/cobra"
)

var packetTestTimeout int

var packetTestCmd = &cobra.Command{
	Use:   "packet_test",
	Short: "Test connectivity by waiting for a valid frame",
	Long: `Wait for a single CRC-valid frame on the connection until timeout.

This connects to a serial port or WebSocket relay and waits for any
frame that passes the codec's sync and CRC checks. It does not
participate in the handshake; CRC-invalid frames preceding the first
valid frame are counted and reported, not treated as an error.

Exit codes:
  0 - frame received before timeout
  1 - timeout reached without receiving a valid frame
  2 - connection error`,
	RunE: runPacketTest,
}

func init() {
	rootCmd.AddCommand(packetTestCmd)
	packetTestCmd.Flags().IntVar(&packetTestTimeout, "timeout", 10, "Timeout in seconds to wait for a frame")
}

func runPacketTest(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("spaclient packet_test\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %d seconds\n", packetTestTimeout)
	fmt.Printf("Waiting for a valid frame...\n\n")

	decoder := balboa.NewDecoder()
	buf := make([]byte, 128)

	frameChan := make(chan *balboa.Frame, 1)
	errChan := make(chan error, 1)

	go func() {
		invalidFrames := 0
		for {
			n, err := conn.Read(buf)
			if err != nil {
				errChan <- err
				return
			}
			for i := 0; i < n; i++ {
				frame, decodeErr := decoder.DecodeByte(buf[i])
				if decodeErr != nil {
					invalidFrames++
					continue
				}
				if frame != nil {
					if invalidFrames > 0 {
						fmt.Printf("(dropped %d CRC-invalid frames before this one)\n", invalidFrames)
					}
					frameChan <- frame
					return
				}
			}
		}
	}()

	select {
	case frame := <-frameChan:
		fmt.Printf("SUCCESS: received a valid frame\n")
		fmt.Printf("  Type: %s (0x%02X)\n", balboa.FormatMessageType(frame.Type()), frame.Type())
		fmt.Printf("  Channel: 0x%02X\n", frame.Channel())
		fmt.Printf("  Payload: %d bytes\n", len(frame.Payload()))
		os.Exit(0)

	case err := <-errChan:
		fmt.Fprintf(os.Stderr, "Read error: %v\n", err)
		os.Exit(2)

	case <-time.After(time.Duration(packetTestTimeout) * time.Second):
		fmt.Fprintf(os.Stderr, "TIMEOUT: no valid frame received within %d seconds\n", packetTestTimeout)
		os.Exit(1)
	}

	return nil
}
