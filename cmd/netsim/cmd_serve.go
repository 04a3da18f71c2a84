package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/newtron-network/netsim/pkg/cli"
	"github.com/newtron-network/netsim/pkg/console"
	"github.com/newtron-network/netsim/pkg/metrics"
	"github.com/newtron-network/netsim/pkg/util"
)

var (
	serveSSHAddr     string
	serveMetricsAddr string
	servePassword    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve device consoles over SSH",
	Long: `Serve every device's console over SSH and export Prometheus metrics.

Log in with the device ID as the user name:

  ssh -p 2222 R1@localhost

Examples:
  netsim -t lab.yaml serve
  netsim serve --ssh-addr :2022 --metrics-addr :9200 --password secret`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sshAddr := serveSSHAddr
		if sshAddr == "" {
			sshAddr = app.settings.GetSSHAddr()
		}
		metricsAddr := serveMetricsAddr
		if metricsAddr == "" {
			metricsAddr = app.settings.GetMetricsAddr()
		}
		password := servePassword
		if password == "" {
			password = os.Getenv("NETSIM_PASSWORD")
		}

		srv, err := console.NewSSHServer(app.exec, password, nil)
		if err != nil {
			return fmt.Errorf("%w (use --password or NETSIM_PASSWORD)", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		metrics.SetDevices(app.store.Len())

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		httpSrv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			util.WithField("addr", metricsAddr).Info("Metrics listening")
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				util.Errorf("metrics server: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			httpSrv.Shutdown(shutdownCtx)
		}()

		fmt.Printf("Serving %d device consoles on %s (metrics on %s)\n", app.store.Len(), sshAddr, metricsAddr)
		for _, d := range app.store.Devices() {
			fmt.Printf("  %s %s\n", cli.DotPad(d.ID, 20), cli.Green(string(d.Vendor)))
		}
		return srv.ListenAndServe(ctx, sshAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveSSHAddr, "ssh-addr", "", "SSH listen address (default from settings, else :2222)")
	serveCmd.Flags().StringVar(&serveMetricsAddr, "metrics-addr", "", "Metrics listen address (default from settings, else :9100)")
	serveCmd.Flags().StringVar(&servePassword, "password", "", "Console login password (or NETSIM_PASSWORD)")
}
