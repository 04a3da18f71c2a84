package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/newtron-network/netsim/pkg/cli"
	"github.com/newtron-network/netsim/pkg/console"
	"github.com/newtron-network/netsim/pkg/metrics"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Open an interactive console on a device",
	Long: `Open an interactive console on the selected device.

The prompt follows the device's vendor dialect. Type 'quit' in user view
or press Ctrl-D to leave.

Examples:
  netsim -d R1 console
  netsim -t lab.yaml -d SW1 console`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deviceID, err := requireDevice()
		if err != nil {
			return err
		}

		s := console.NewSession(app.exec, deviceID)
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          s.Prompt(),
			HistoryFile:     historyPath(),
			InterruptPrompt: "^C",
			EOFPrompt:       "quit",
		})
		if err != nil {
			return fmt.Errorf("starting console: %w", err)
		}
		defer rl.Close()

		metrics.SessionOpened()
		defer metrics.SessionClosed()

		fmt.Fprintf(rl.Stdout(), "Connected to %s. Type 'quit' in user view to exit.\n\n", cli.Bold(deviceID))
		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}

			res, done := s.Exec(cmd.Context(), line)
			if done {
				return nil
			}
			if res.Output != "" {
				fmt.Fprintln(rl.Stdout(), cli.Outcome(res.Output, res.Success))
			}
			rl.SetPrompt(s.Prompt())
		}
	},
}

// historyPath keeps console history next to the settings file.
func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".netsim", "history")
}
