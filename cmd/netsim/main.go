// Netsim - multi-vendor network device CLI simulator
//
// Runs vendor-style CLI commands (Huawei VRP, Cisco IOS and host shells)
// against a simulated topology of routers, switches and PCs.
//
// Context flags select the topology and device; commands act on them:
//
//	netsim -t <topology.yaml> -d <device> <verb> [args]
//
// Examples:
//
//	netsim devices                                   # List devices in the topology
//	netsim -d R1 exec "system-view" "vlan 10"        # Run commands non-interactively
//	netsim -d R1 console                             # Interactive console
//	netsim serve --ssh-addr :2222                    # SSH consoles + /metrics
package main

import (
	"context"
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/newtron-network/netsim/pkg/audit"
	"github.com/newtron-network/netsim/pkg/command"
	"github.com/newtron-network/netsim/pkg/configstore"
	"github.com/newtron-network/netsim/pkg/settings"
	"github.com/newtron-network/netsim/pkg/topology"
	"github.com/newtron-network/netsim/pkg/util"
	"github.com/newtron-network/netsim/pkg/version"
)

// app holds global flag values and the objects built from them.
var app struct {
	// Context flags
	topologyPath string // -t, --topology
	deviceID     string // -d, --device

	// Option flags
	verbose   bool
	logFormat string
	redisAddr string
	auditPath string

	settings *settings.Settings
	store    *topology.Store
	configs  configstore.Store
	audit    audit.Logger
	exec     *command.Executor
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "netsim",
	Short:             "Multi-vendor network CLI simulator",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `Netsim simulates the command line of network devices.

Devices come from a topology file (-t); without one a built-in lab is used.
Each device answers in its vendor's dialect.

  netsim -t <topology.yaml> -d <device> <verb> [args]`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if isMetaCommand(cmd) {
			return nil
		}
		return initApp(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		closeApp()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&app.topologyPath, "topology", "t", "", "Topology file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&app.deviceID, "device", "d", "", "Device ID (object selector)")
	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&app.logFormat, "log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().StringVar(&app.redisAddr, "redis", "", "Redis address for saved configurations (host:port)")
	rootCmd.PersistentFlags().StringVar(&app.auditPath, "audit-log", "", "Audit log file (JSON lines)")

	rootCmd.AddGroup(
		&cobra.Group{ID: "device", Title: "Device Operations:"},
		&cobra.Group{ID: "meta", Title: "Configuration & Meta:"},
	)
	for _, cmd := range []*cobra.Command{devicesCmd, execCmd, consoleCmd, serveCmd} {
		cmd.GroupID = "device"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{settingsCmd, auditCmd, versionCmd} {
		cmd.GroupID = "meta"
		rootCmd.AddCommand(cmd)
	}
}

// isMetaCommand reports whether cmd runs without a topology.
func isMetaCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "settings", "version", "help", "completion":
			return true
		}
	}
	return false
}

func initApp(ctx context.Context) error {
	var err error
	app.settings, err = settings.Load()
	if err != nil {
		util.Warnf("Could not load settings: %v", err)
		app.settings = &settings.Settings{}
	}

	// Flags win over settings
	if app.topologyPath == "" {
		app.topologyPath = app.settings.DefaultTopology
	}
	if app.deviceID == "" {
		app.deviceID = app.settings.DefaultDevice
	}
	if app.redisAddr == "" {
		app.redisAddr = app.settings.RedisAddr
	}
	if app.auditPath == "" {
		app.auditPath = app.settings.AuditLog
	}

	// Quiet by default, verbose on -v
	if err := util.ConfigureLogging(app.verbose, app.logFormat); err != nil {
		return err
	}

	topo := topology.Default()
	if app.topologyPath != "" {
		if topo, err = topology.LoadFile(app.topologyPath); err != nil {
			return err
		}
	}
	app.store = topology.NewStore()
	topo.Apply(app.store)

	if app.auditPath != "" {
		fl, err := audit.NewFileLogger(app.auditPath, audit.RotationConfig{
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxBackups: 10,
		})
		if err != nil {
			return fmt.Errorf("opening audit log: %w", err)
		}
		app.audit = fl
	} else {
		app.audit = audit.NewMemoryLogger(0)
	}
	audit.SetDefaultLogger(app.audit)

	if app.redisAddr != "" {
		rs := configstore.NewRedisStore(app.redisAddr, app.settings.RedisDB)
		if err := rs.Connect(ctx); err != nil {
			return err
		}
		app.configs = rs
	} else {
		app.configs = configstore.NewMemoryStore()
	}

	app.exec = command.NewExecutor(app.store,
		command.WithAuditLogger(app.audit),
		command.WithConfigStore(app.configs),
		command.WithUser(currentUser()),
	)
	return nil
}

func closeApp() {
	if app.audit != nil {
		if err := app.audit.Close(); err != nil {
			util.Warnf("Closing audit log: %v", err)
		}
	}
	if app.configs != nil {
		if err := app.configs.Close(); err != nil {
			util.Warnf("Closing config store: %v", err)
		}
	}
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "netsim"
}

// requireDevice ensures a device is selected via -d and exists.
func requireDevice() (string, error) {
	if app.deviceID == "" {
		return "", fmt.Errorf("device required: use -d <device> flag")
	}
	if _, err := app.store.Device(app.deviceID); err != nil {
		return "", err
	}
	return app.deviceID, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if version.Version == "dev" {
			fmt.Println("netsim dev build (use 'make build' for version info)")
		} else {
			fmt.Printf("netsim %s\n", version.Info())
		}
	},
}
