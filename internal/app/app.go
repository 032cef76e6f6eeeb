package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"blog/internal/config"
	"blog/internal/db"
	"blog/internal/handlers"
	"blog/internal/store"
	"blog/internal/views"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg       *config.Config
	log       *zap.Logger
	backend   db.Backend
	templates *views.Set

	Store   *store.PostStore
	Handler http.Handler
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	backend, err := db.Open(ctx, db.Options{
		Kind:   cfg.Store.Backend,
		Path:   cfg.Store.Path,
		Name:   cfg.Store.Name,
		Bucket: cfg.Store.Bucket,
		Key:    cfg.Store.Key,
	})
	if err != nil {
		return nil, fmt.Errorf("open store backend: %w", err)
	}

	templates, err := views.Load(cfg.Templates.Dir, log)
	if err != nil {
		backend.Close()
		return nil, err
	}

	postStore := store.New(backend, log.Named("store"))
	errs := &handlers.ErrorHandler{Templates: templates, Log: log}
	posts := &handlers.PostHandler{
		Store:     postStore,
		Templates: templates,
		Err:       errs,
	}

	log.Info("store ready",
		zap.String("backend", cfg.Store.Backend),
		zap.String("path", cfg.Store.Path),
		zap.String("bucket", cfg.Store.Bucket))

	return &App{
		cfg:       cfg,
		log:       log,
		backend:   backend,
		templates: templates,
		Store:     postStore,
		Handler:   handlers.Routes(posts, cfg.Server.StaticDir, log.Named("http")),
	}, nil
}

// Serve runs the HTTP server (and the template watcher, if enabled) until
// ctx is cancelled, then shuts the server down gracefully.
func (a *App) Serve(ctx context.Context) error {
	read, write, idle := a.cfg.Server.Timeouts()
	srv := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      a.Handler,
		ErrorLog:     zap.NewStdLog(a.log),
		ReadTimeout:  read,
		WriteTimeout: write,
		IdleTimeout:  idle,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.log.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	if a.cfg.Templates.Watch {
		g.Go(func() error {
			return a.templates.Watch(ctx)
		})
	}

	return g.Wait()
}

func (a *App) Close() error {
	return a.backend.Close()
}
