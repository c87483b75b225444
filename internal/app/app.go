package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/buscaminas/internal/config"
	"github.com/vancomm/buscaminas/internal/database"
	"github.com/vancomm/buscaminas/internal/middleware"
	"github.com/vancomm/buscaminas/internal/repository"
)

type App struct {
	log    logrus.FieldLogger
	config *config.Config
	router *http.ServeMux
	store  repository.Store
}

func New(log logrus.FieldLogger, config *config.Config) *App {
	return &App{
		log:    log,
		config: config,
		router: http.NewServeMux(),
	}
}

// WithStore skips opening the configured storage.
func (a *App) WithStore(store repository.Store) *App {
	a.store = store
	return a
}

func (a *App) openStore(ctx context.Context) (close func(), err error) {
	if a.store != nil {
		return func() {}, nil
	}
	switch a.config.Storage {
	case config.StorageMemory:
		a.log.Warn("using in-memory storage, sessions are lost on restart")
		a.store = repository.NewMemory()
		return func() {}, nil
	default:
		connString := a.config.Database.ConnString()
		version, dirty, err := database.Migrate(connString)
		if err != nil {
			return nil, err
		}
		a.log.WithFields(logrus.Fields{
			"version": version,
			"dirty":   dirty,
		}).Info("database migrated")

		db, err := database.Connect(ctx, connString)
		if err != nil {
			return nil, err
		}
		pg := repository.NewPostgres(db)
		a.store = pg
		return pg.Close, nil
	}
}

// Handler builds the routed and wrapped handler. The store must be open.
func (a *App) Handler() http.Handler {
	a.loadRoutes()
	return middleware.Wrap(
		a.router,
		middleware.Recover(a.log),
		middleware.Logging(a.log),
		middleware.Cors(a.config.AllowedOrigins),
	)
}

// Start serves until ctx is done, then shuts the server down gracefully.
func (a *App) Start(ctx context.Context) error {
	closeStore, err := a.openStore(ctx)
	if err != nil {
		return fmt.Errorf("unable to open storage: %w", err)
	}
	defer closeStore()

	server := &http.Server{
		Addr:    a.config.Addr,
		Handler: a.Handler(),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	a.log.Infof("ready to serve @ %s", a.config.Addr)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), a.config.ShutdownTimeout.Duration,
		)
		defer cancel()
		a.log.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
