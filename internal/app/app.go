package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/mulahmanage/mulah/internal/config"
	"github.com/mulahmanage/mulah/internal/database"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Application wires configuration, database, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	deps   *Dependencies
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	deps := BuildDependencies(db, cfg)
	SetupMiddleware(r)
	RegisterRoutes(r, deps)

	srv := &http.Server{
		Handler:     r,
		Addr:        cfg.Listen,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		// no WriteTimeout: the SSE stream endpoint holds its response open
	}

	return &Application{cfg: cfg, deps: deps, router: r, srv: srv}, nil
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then shuts
// down gracefully.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Starting server on %s", a.srv.Addr)
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down")
		a.deps.DashboardService.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(shutdownCtx); err != nil {
			// open SSE streams can outlive the deadline, drop them
			return a.srv.Close()
		}
		return nil
	})
	return g.Wait()
}
