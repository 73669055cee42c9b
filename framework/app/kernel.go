package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/km-arc/go-beans/framework/beans"
	"github.com/km-arc/go-beans/framework/config"
	"github.com/km-arc/go-beans/framework/definition"
	"github.com/km-arc/go-beans/framework/inspect"
	"github.com/km-arc/go-beans/framework/instantiate"
	"github.com/km-arc/go-beans/framework/logging"
	"github.com/km-arc/go-beans/framework/metrics"
	"github.com/km-arc/go-beans/framework/providers"
	"github.com/km-arc/go-beans/framework/routing"
)

// Version is reported by the console and logged at boot.
const Version = "0.1.0"

const shutdownTimeout = 10 * time.Second

// Application wires configuration, logging, metrics, the definition
// registry and constructors into a bean factory.
//
//	application, err := app.New()
//	application.Register(&MailProvider{})
//	if err := application.Boot(); err != nil { ... }
//	mailer, err := beans.GetAs[*Mailer](application.Factory(), "mailer")
type Application struct {
	Config       *config.Config
	Logger       *zap.Logger
	Metrics      *metrics.Collector
	Definitions  *definition.Registry
	Constructors *instantiate.Constructors
	Providers    *providers.Registry

	factory *beans.Factory
	watcher *definition.Watcher
}

// New loads configuration from the environment (and envFiles) and builds
// the application around it.
func New(envFiles ...string) (*Application, error) {
	cfg := config.Load(envFiles...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg, logger)
}

// NewWithConfig builds the application from an existing config and logger.
func NewWithConfig(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	defs, err := definition.NewRegistry()
	if err != nil {
		return nil, err
	}
	ctors := instantiate.New()

	a := &Application{
		Config:       cfg,
		Logger:       logger,
		Definitions:  defs,
		Constructors: ctors,
		Providers:    providers.NewRegistry(defs, ctors),
	}
	if cfg.Metrics.Enabled {
		a.Metrics = metrics.NewCollector(cfg.Metrics.Namespace)
	}

	if err := a.Register(&providers.InfrastructureProvider{Config: cfg, Logger: logger, Metrics: a.Metrics}); err != nil {
		return nil, err
	}
	if err := a.Register(&providers.FileProvider{Path: cfg.Beans.File}); err != nil {
		return nil, err
	}
	return a, nil
}

// Register adds a BeanProvider to the application.
func (a *Application) Register(p providers.BeanProvider) error {
	return a.Providers.Register(p)
}

// Boot builds the factory and boots every provider. Calling it again is a no-op.
func (a *Application) Boot() error {
	if a.factory != nil {
		return nil
	}
	opts := []beans.Option{beans.WithLogger(a.Logger)}
	if a.Metrics != nil {
		opts = append(opts, beans.WithObserver(a.Metrics))
	}
	f := beans.New(a.Definitions, a.Constructors, opts...)
	if err := a.Providers.Boot(f); err != nil {
		return err
	}
	a.factory = f

	if a.Config.Beans.Watch && a.Config.Beans.File != "" {
		watchOpts := []definition.WatcherOption{definition.WithWatchLogger(a.Logger)}
		if a.Config.Beans.DebounceMS > 0 {
			watchOpts = append(watchOpts, definition.WithDebounce(time.Duration(a.Config.Beans.DebounceMS)*time.Millisecond))
		}
		w, err := definition.NewWatcher(a.Config.Beans.File, a.Definitions, watchOpts...)
		if err != nil {
			return err
		}
		a.watcher = w
	}

	a.Logger.Info("application booted",
		zap.String("version", Version),
		zap.String("container", f.ID()),
		zap.Int("definitions", a.Definitions.Len()),
		zap.Strings("constructors", a.Constructors.Types()),
	)
	return nil
}

// Factory returns the bean factory, or nil before Boot.
func (a *Application) Factory() *beans.Factory { return a.factory }

// Handler returns the inspection router. The application must be booted.
//
//	GET /healthz   → liveness
//	/beans, /post-processors → see inspect.Handler
//	GET /metrics   → Prometheus exposition (when metrics are enabled)
func (a *Application) Handler() http.Handler {
	r := routing.New(a.Logger)
	r.Middleware(middleware.Heartbeat("/healthz"))

	ih := inspect.NewHandler(a.factory, a.Definitions, a.Logger)
	ih.Debug = a.IsDebug()
	ih.Routes(r)

	if a.Metrics != nil {
		r.Group(func(g *routing.Router) {
			g.Middleware(middleware.NoCache)
			g.Handle("/metrics", a.Metrics.Handler())
		})
	}
	return r.Handler()
}

// Run boots the application (if needed), starts the definitions watcher and
// serves the inspection API on APP_PORT until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	if err := a.Boot(); err != nil {
		return err
	}
	defer a.Close()

	if a.watcher != nil {
		go a.watcher.Start(ctx)
	}

	srv := &http.Server{
		Addr:              ":" + a.Config.App.Port,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("serving",
			zap.String("app", a.Config.App.Name),
			zap.String("addr", srv.Addr),
			zap.String("env", a.Environment()),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Close stops the definitions watcher and flushes the logger.
func (a *Application) Close() error {
	var err error
	if a.watcher != nil {
		err = a.watcher.Close()
	}
	_ = a.Logger.Sync()
	return err
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config.App.Env }

// IsDebug reports APP_DEBUG. Debug applications show resolution failures
// in inspection responses.
func (a *Application) IsDebug() bool { return a.Config.App.Debug }
