package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gatehouse-dev/gatehouse/internal/access"
	"github.com/gatehouse-dev/gatehouse/internal/handlers"
	mw2 "github.com/gatehouse-dev/gatehouse/internal/mw"
	"github.com/gatehouse-dev/gatehouse/internal/session"
	"github.com/gatehouse-dev/gatehouse/internal/version"
)

type Options struct {
	EnableCORS bool
	DevNoStore bool
	RememberMe bool
}

type Deps struct {
	Evaluator *access.Evaluator
	Sessions  *session.Manager
}

// authPaths are served outside the guard: the login/logout endpoints
// themselves plus the operational endpoints. Everything else, including
// unknown paths, goes through the evaluator's rule table.
var authPaths = []string{"/login", "/logout", "/healthz", "/version"}

func BuildRouter(d Deps, opts Options, mw ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	if opts.DevNoStore {
		r.Use(mw2.NoStore)
	}

	// baseline
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	if opts.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:8088"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	for _, m := range mw {
		r.Use(m)
	}

	// tracing + logger
	r.Use(mw2.Trace())
	r.Use(mw2.Logger(mw2.LogOpts{
		SkipPaths: []string{"/healthz", "/version"},
	}))

	r.Use(mw2.Guard(mw2.GuardOpts{
		Evaluator:  d.Evaluator,
		Sessions:   d.Sessions,
		SkipPaths:  authPaths,
		RememberMe: opts.RememberMe,
	}))

	login := handlers.NewLoginHandler(d.Sessions, opts.RememberMe)
	pages := handlers.Pages{}

	r.Get("/healthz", healthCheckHandler)
	r.Get("/version", handlers.VersionHandler)

	r.Get("/login", login.Page)
	r.Post("/login", login.Submit)
	// logout is linked from the nav, so GET works alongside POST
	r.Get("/logout", login.Logout)
	r.Post("/logout", login.Logout)

	r.Get("/", pages.Welcome)
	r.Get("/offers", pages.Offers)
	r.Get("/checkBalance", pages.Balance)
	r.Get("/approveloan", pages.ApproveLoan)
	r.Get("/denied", pages.Denied)
	r.NotFound(pages.NotFound)

	return r
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"version": version.Version,
	})
}
