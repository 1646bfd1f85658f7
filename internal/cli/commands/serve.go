package commands

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/unitgrade/internal/cli/config"
	"github.com/leapstack-labs/unitgrade/internal/server"
	"github.com/leapstack-labs/unitgrade/pkg/grader"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	// Loader re-reads the config for --watch. Set by the root command.
	Loader *config.Loader
}

// NewServeCommand creates the serve command. The --addr and --watch flags
// are read through the config layers as server.addr and server.watch.
func NewServeCommand(loader *config.Loader) *cobra.Command {
	opts := &ServeOptions{Loader: loader}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the grading HTTP service",
		Long: `Serve POST /evaluate and POST /preview as JSON, with /healthz and
Prometheus metrics on /metrics.

Default params and feedback come from the config file. With --watch the
file is re-read whenever it changes.`,
		Example: `  unitgrade serve --addr :9090
  unitgrade serve --config grading.yaml --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.Flags().String("addr", config.DefaultAddr, "Listen address")
	cmd.Flags().Bool("watch", false, "Reload the config file when it changes")
	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cc := NewCommandContext(cmd)
	cfg := cc.Cfg

	settings := func(c *config.Config) server.Settings {
		return server.Settings{
			Evaluator: c.NewEvaluator(grader.WithLogger(cc.Logger)),
			Params:    c.EvaluationParams,
		}
	}

	scfg := server.Config{
		Addr:              cfg.Server.Addr,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		Logger:            cc.Logger,
	}
	if cfg.Server.Watch {
		if cfg.File == "" || opts.Loader == nil {
			return errors.New("--watch needs a config file")
		}
		scfg.WatchFile = cfg.File
		scfg.Reload = func() (server.Settings, error) {
			next, err := opts.Loader.Load()
			if err != nil {
				return server.Settings{}, err
			}
			return settings(next), nil
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.New(scfg, settings(cfg)).Serve(ctx)
}
