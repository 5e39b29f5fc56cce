// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/balboabridge/spaclient/internal/balboa"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	runToggleItem string
	runSetTemp    string
	runInteractive bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive the session controller against a live connection",
	Long: `run opens the configured serial port or WebSocket relay, feeds every
inbound byte into the session controller, and writes every event the
controller publishes to standard error as "topic:value" lines.

--toggle and --set-temp queue a single outbound command for the next
Clear-To-Send slot, then run exits once it has been sent. With
neither flag, run stays attached until the connection closes.

--interactive drops stdin into raw mode and accepts single-key
commands while telemetry streams to stderr:

  1-9  queue ToggleItem with that item code
  +/-  queue SetTemperature one raw step above/below the raw byte last
       queued from this prompt (starting from 0, not from the spa's
       current set point)
  q    quit`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runToggleItem, "toggle", "", "Queue a ToggleItem command (item code, decimal or 0x-prefixed)")
	runCmd.Flags().StringVar(&runSetTemp, "set-temp", "", "Queue a SetTemperature command (raw byte, decimal or 0x-prefixed)")
	runCmd.Flags().BoolVar(&runInteractive, "interactive", false, "Accept single-key toggle/set-temp commands from stdin")
}

func runRun(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Fprintf(os.Stderr, "spaclient run: %s\n", connInfo)

	sess := balboa.NewSession(balboa.PublisherFunc(func(topic, value string) {
		fmt.Fprintf(os.Stderr, "%s:%s\n", topic, value)
	}))

	oneShot := false
	if runToggleItem != "" {
		item, perr := parseByteFlag(runToggleItem)
		if perr != nil {
			return fmt.Errorf("--toggle: %v", perr)
		}
		sess.RequestToggle(item)
		oneShot = true
	}
	if runSetTemp != "" {
		raw, perr := parseByteFlag(runSetTemp)
		if perr != nil {
			return fmt.Errorf("--set-temp: %v", perr)
		}
		sess.RequestSetTemp(raw)
		oneShot = true
	}

	var keys <-chan byte
	if runInteractive {
		restore, kch, kerr := startRawKeyReader()
		if kerr != nil {
			return kerr
		}
		defer restore()
		keys = kch
	}

	inbound := make(chan []byte, 16)
	readErrs := make(chan error, 1)
	go func() {
		buf := make([]byte, 128)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				readErrs <- err
				return
			}
			data := make([]byte, n)
			copy(data, buf[:n])
			inbound <- data
		}
	}()

	minuteTicker := time.NewTicker(time.Minute)
	defer minuteTicker.Stop()

	var lastSetTempRaw uint8

	for {
		select {
		case data := <-inbound:
			for _, b := range data {
				if outbound := sess.OnByte(b); outbound != nil {
					if _, werr := conn.Write(outbound); werr != nil {
						return werr
					}
					if oneShot && len(outbound) > 4 &&
						(outbound[4] == balboa.MtToggleItem || outbound[4] == balboa.MtSetTemperature) {
						return nil
					}
				}
			}

		case err := <-readErrs:
			if err == ErrConnectionClosed {
				return nil
			}
			return err

		case <-minuteTicker.C:
			if st, ok := sess.State(); ok {
				sess.OnTick(st.Minute)
			}

		case k, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if !handleInteractiveKey(sess, k, &lastSetTempRaw) {
				return nil
			}
		}
	}
}

// handleInteractiveKey applies one raw keystroke to the session's
// pending command slot. lastSetTempRaw tracks the raw byte the REPL
// last queued, since SpaState only ever holds the decoded Fahrenheit
// or Celsius value. It returns false when the user asked to quit.
func handleInteractiveKey(sess *balboa.Session, k byte, lastSetTempRaw *uint8) bool {
	switch {
	case k == 'q' || k == 'Q' || k == 0x03: // Ctrl-C
		return false

	case k >= '1' && k <= '9':
		item := k - '0'
		sess.RequestToggle(item)
		fmt.Fprintf(os.Stderr, "(queued toggle item %d)\n", item)

	case k == '+' || k == '-':
		if k == '+' {
			*lastSetTempRaw++
		} else if *lastSetTempRaw > 0 {
			*lastSetTempRaw--
		}
		sess.RequestSetTemp(*lastSetTempRaw)
		fmt.Fprintf(os.Stderr, "(queued set-temp raw=%d)\n", *lastSetTempRaw)
	}
	return true
}

// startRawKeyReader puts stdin into raw mode and streams keystrokes on
// a channel. The returned func restores the terminal.
func startRawKeyReader() (func(), <-chan byte, error) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set raw mode: %v", err)
	}

	keys := make(chan byte)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil || n == 0 {
				close(keys)
				return
			}
			keys <- buf[0]
		}
	}()

	restore := func() {
		if err := term.Restore(fd, oldState); err != nil {
			log.Printf("failed to restore terminal: %v", err)
		}
	}
	return restore, keys, nil
}

func parseByteFlag(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}
