package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/peteraglen/unit-monitoring/config"
	"github.com/peteraglen/unit-monitoring/logging"
	"github.com/peteraglen/unit-monitoring/metrics"
	"github.com/peteraglen/unit-monitoring/restapi"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type options struct {
	configFile string
	port       string
	logLevel   string
	logJSON    bool
	verbose    bool
}

func main() {
	// Levels are filtered per logger.
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	if err := newRootCmd(&options{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "unit-monitoring: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "unit-monitoring",
		Short:         "Alert webhook receiver and sample endpoints for a monitoring stack",
		Long:          "Accepts alert notifications on severity specific webhooks, and serves sample endpoints that feed the request, error and response time metrics.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	cmd.AddCommand(newSendAlertCmd())

	flags := cmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "path to a YAML config file")
	flags.StringVarP(&opts.port, "port", "p", "", "HTTP port, overrides the config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error), overrides the config file")
	flags.BoolVar(&opts.logJSON, "log-json", true, "write logs as JSON lines, overrides the config file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "pretty print responses and enable the ping panic trigger")

	return cmd
}

// loadConfig reads the config file, if any, and applies the flags that were set explicitly.
func loadConfig(cmd *cobra.Command, opts *options) (*config.APIConfig, error) {
	cfg := config.NewDefaultAPIConfig()

	if opts.configFile != "" {
		var err error

		if cfg, err = config.LoadAPIConfig(opts.configFile); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()

	if flags.Changed("port") {
		cfg.RestPort = opts.port
	}

	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}

	if flags.Changed("log-json") {
		cfg.LogJSON = opts.logJSON
	}

	if flags.Changed("verbose") {
		cfg.Verbose = opts.verbose
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func run(ctx context.Context, cfg *config.APIConfig) error {
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogJSON)
	registry := metrics.New()

	server := restapi.New(logger, registry, cfg).WithMetricsHandler(registry.Handler())

	logger.WithField("port", cfg.RestPort).WithField("metrics_path", cfg.MetricsPath).Info("Unit monitoring starting")

	return server.Run(ctx)
}
