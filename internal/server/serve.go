package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// Serve runs the HTTP server until ctx is cancelled, with a periodic sweep
// of expired sessions alongside. Shutdown drains in-flight requests.
func Serve(ctx context.Context, addr string, h http.Handler, d Deps, sweepEvery time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if sweepEvery > 0 {
		go func() {
			t := time.NewTicker(sweepEvery)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C:
					sessions, tokens := d.Sessions.Sweep(ctx)
					if sessions > 0 || tokens > 0 {
						slog.Info("session_sweep", "sessions", sessions, "remember_tokens", tokens)
					}
				}
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
