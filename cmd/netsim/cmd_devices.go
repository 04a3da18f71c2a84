package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newtron-network/netsim/pkg/cli"
	"github.com/newtron-network/netsim/pkg/model"
)

var devicesJSON bool

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List devices in the topology",
	Long: `List the devices of the loaded topology with their addressed ports.

Examples:
  netsim devices
  netsim -t lab.yaml devices --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		devices := app.store.Devices()

		if devicesJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(devices)
		}

		if len(devices) == 0 {
			fmt.Println("No devices in topology")
			return nil
		}

		t := cli.NewTable("ID", "HOSTNAME", "TYPE", "VENDOR", "MODEL", "PORTS", "ADDRESSES")
		for _, d := range devices {
			hw := d.Model
			if hw == "" {
				hw = "-"
			}
			t.Row(cli.Bold(d.ID), d.Hostname, string(d.Type), string(d.Vendor), hw,
				strconv.Itoa(len(d.Ports)), addresses(d))
		}
		t.Flush()
		fmt.Printf("\n%d devices, %d cables\n", len(devices), len(app.store.Cables()))
		return nil
	},
}

func init() {
	devicesCmd.Flags().BoolVar(&devicesJSON, "json", false, "Output as JSON")
}

// addresses lists "port=ip/len" for every addressed port.
func addresses(d *model.Device) string {
	var out []string
	for i := range d.Ports {
		c := &d.Ports[i].Config
		if c.HasIP() {
			out = append(out, fmt.Sprintf("%s=%s/%d", d.Ports[i].Name, c.IPAddress, c.PrefixLen()))
		}
	}
	if len(out) == 0 {
		return cli.Dim("-")
	}
	return strings.Join(out, " ")
}
