// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/balboabridge/spaclient/internal/balboa"
	"github.com/fxamacker/cbor/v2"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var bridgeRelayURL string

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Tee session telemetry to a remote WebSocket as CBOR records",
	Long: `bridge drives the session controller against the configured serial
port or WebSocket relay, same as run, and additionally encodes every
publish event as a CBOR [topic, value] array and sends it as a binary
WebSocket message to --relay. Intended for a remote dashboard or log
aggregator that doesn't share the bus connection.`,
	RunE: runBridge,
}

func init() {
	rootCmd.AddCommand(bridgeCmd)
	bridgeCmd.Flags().StringVar(&bridgeRelayURL, "relay", "", "WebSocket URL to tee telemetry to (ws:// or wss://)")
	bridgeCmd.MarkFlagRequired("relay")
}

func runBridge(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	relay, err := dialRelay(bridgeRelayURL)
	if err != nil {
		return fmt.Errorf("failed to dial relay: %v", err)
	}
	defer relay.Close()

	fmt.Printf("spaclient bridge\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Relay: %s\n", bridgeRelayURL)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	sess := balboa.NewSession(balboa.PublisherFunc(func(topic, value string) {
		data, err := cbor.Marshal([]interface{}{topic, value})
		if err != nil {
			fmt.Printf("[ERROR] cbor encode: %v\n", err)
			return
		}
		if err := relay.WriteMessage(websocket.BinaryMessage, data); err != nil {
			fmt.Printf("[ERROR] relay write: %v\n", err)
		}
	}))

	buf := make([]byte, 128)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			if err == ErrConnectionClosed {
				return nil
			}
			return err
		}
		for i := 0; i < n; i++ {
			if outbound := sess.OnByte(buf[i]); outbound != nil {
				if _, werr := conn.Write(outbound); werr != nil {
					return werr
				}
			}
		}
	}
}

func dialRelay(relayURL string) (*websocket.Conn, error) {
	u, err := url.Parse(relayURL)
	if err != nil {
		return nil, fmt.Errorf("invalid relay URL: %v", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("unsupported relay scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: wsNoSSLVerify}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, relayURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("relay connection failed (HTTP %d): %v", resp.StatusCode, err)
		}
		return nil, err
	}
	return conn, nil
}
