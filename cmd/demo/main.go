// Demo wires the built-in bank fixture: accounts som (USER, password
// "gupta") and zakir (MANAGER, password "hyd"), the five page rules, a cap
// of two sessions per identity, and remember-me enabled.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gatehouse-dev/gatehouse/internal/config"
	"github.com/gatehouse-dev/gatehouse/internal/server"
)

func main() {
	cfg := config.Demo()

	deps, err := server.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	h := server.BuildRouter(deps, server.Options{
		DevNoStore: true,
		RememberMe: cfg.RememberMe.Enabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := server.Serve(ctx, cfg.ListenAddr, h, deps, cfg.Sessions.SweepInterval); err != nil {
		log.Fatal(err)
	}
}
