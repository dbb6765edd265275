package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gatehouse-dev/gatehouse/internal/config"
	"github.com/gatehouse-dev/gatehouse/internal/server"
)

func cmdRun() *cobra.Command {
	var addr string
	var demo bool
	var logJSON bool

	c := &cobra.Command{
		Use:   "run",
		Short: "Start the gate server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if logJSON {
				slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
			}

			var cfg *config.Config
			var err error
			if demo {
				cfg = config.Demo()
			} else {
				cfg, err = config.Load(cfgPath)
				if err != nil {
					return err
				}
			}
			if addr != "" {
				cfg.ListenAddr = addr
			}

			deps, err := server.New(cfg)
			if err != nil {
				return err
			}
			h := server.BuildRouter(deps, server.Options{
				RememberMe: cfg.RememberMe.Enabled,
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Serve(ctx, cfg.ListenAddr, h, deps, cfg.Sessions.SweepInterval)
		},
	}
	c.Flags().StringVar(&addr, "addr", "", "listen address, overrides config")
	c.Flags().BoolVar(&demo, "demo", false, "run with the built-in bank fixture instead of a config file")
	c.Flags().BoolVar(&logJSON, "log-json", false, "log in JSON format")
	return c
}
