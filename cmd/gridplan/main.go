package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/gridplan"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	configPath string
	addr       string
)

var rootCmd = &cobra.Command{
	Use:   "gridplan",
	Short: "gridplan - plan a profile grid in the browser",
	Long: `gridplan serves a profile grid planner: stage images into an 18-cell
grid, rearrange them by drag and drop and edit the profile header inline.

Plans live in memory, one per browser session. Nothing is written to disk.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the planner web server",
	Long: `Starts the HTTP server. Settings come from the YAML file given by
--config, then GRIDPLAN_* environment variables, then flags.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gridplan version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gridplan %s\n", version)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", gridplan.EnvOr(gridplan.EnvConfigFile, "gridplan.yaml"), "path to the YAML config file")
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd, versionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := gridplan.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}

	logger := gridplan.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	app := gridplan.New(cfg, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		app.Close()
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errc
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
