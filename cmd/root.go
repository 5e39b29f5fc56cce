// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsNoSSLVerify bool
)

var rootCmd = &cobra.Command{
	Use:   "spaclient",
	Short: "Balboa-spa RS-485 client state machine",
	Long: `spaclient impersonates a Wi-Fi/topside-panel device on a Balboa hot-tub
mainboard bus: it synchronizes on frame boundaries, negotiates a client
address, answers Clear-To-Send tokens, and decodes status, configuration,
fault-log and filter-cycle broadcasts into structured telemetry.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --url ws://host/path

The core does not authenticate with the mainboard or with a WebSocket
relay; --url is for piping bus bytes through a remote bridge, not for
securing access to one.`,
	Version: "1.0.0",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")

	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
