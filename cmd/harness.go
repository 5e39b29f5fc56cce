// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/balboabridge/spaclient/internal/balboa"
	"github.com/spf13/cobra"
)

var harnessCmd = &cobra.Command{
	Use:   "harness",
	Short: "Run the protocol core against stdin/stdout/stderr",
	Long: `harness is the test-harness process contract: it reads wire bytes from
standard input, writes wire bytes to standard output, and emits one
"topic:value" line to standard error per publish event.

Exit code is 0 on a clean stdin EOF, non-zero on an I/O error.`,
	RunE: runHarness,
}

func init() {
	rootCmd.AddCommand(harnessCmd)
}

func runHarness(cmd *cobra.Command, args []string) error {
	stderr := bufio.NewWriter(os.Stderr)
	defer stderr.Flush()

	publisher := balboa.PublisherFunc(func(topic, value string) {
		fmt.Fprintf(stderr, "%s:%s\n", topic, value)
		stderr.Flush()
	})

	sess := balboa.NewSession(publisher)

	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	reader := bufio.NewReader(os.Stdin)
	for {
		b, err := reader.ReadByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if outbound := sess.OnByte(b); outbound != nil {
			if _, werr := stdout.Write(outbound); werr != nil {
				return werr
			}
			stdout.Flush()
		}
	}
}
