package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/newtron-network/netsim/pkg/cli"
	"github.com/newtron-network/netsim/pkg/console"
	"github.com/newtron-network/netsim/pkg/model"
)

var (
	execView  string
	execQuiet bool
)

var execCmd = &cobra.Command{
	Use:   "exec [command...]",
	Short: "Run CLI commands on a device",
	Long: `Run CLI commands on the selected device in one session.

Each argument is one command line. With no arguments and stdin not a
terminal, commands are read from stdin one per line. The session starts
in user view unless --view is given.

Examples:
  netsim -d R1 exec "system-view" "vlan batch 10 to 20" "display vlan"
  netsim -d SW1 exec --view system-view "vlan 30"
  netsim -d R1 exec < commands.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deviceID, err := requireDevice()
		if err != nil {
			return err
		}

		lines := args
		if len(lines) == 0 {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("no commands given: pass them as arguments or pipe them on stdin")
			}
			sc := bufio.NewScanner(os.Stdin)
			for sc.Scan() {
				lines = append(lines, sc.Text())
			}
			if err := sc.Err(); err != nil {
				return fmt.Errorf("reading commands: %w", err)
			}
		}

		s := console.NewSession(app.exec, deviceID)
		if execView != "" {
			v, err := model.ParseView(execView)
			if err != nil {
				return err
			}
			s.State().View = v
		}

		failed := 0
		for _, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if !execQuiet {
				fmt.Println(cli.Dim(s.Prompt() + line))
			}
			res, done := s.Exec(cmd.Context(), line)
			if done {
				break
			}
			if res.Output != "" {
				fmt.Println(cli.Outcome(res.Output, res.Success))
			}
			if !res.Success {
				failed++
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d commands failed", failed, len(lines))
		}
		return nil
	},
}

func init() {
	execCmd.Flags().StringVar(&execView, "view", "", "Starting CLI view (e.g. system-view)")
	execCmd.Flags().BoolVarP(&execQuiet, "quiet", "q", false, "Print only command output")
}
