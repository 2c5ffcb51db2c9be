package pagetree

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/vango-dev/pagetree/internal/livereload"
	"github.com/vango-dev/pagetree/pkg/render"
	"github.com/vango-dev/pagetree/pkg/router"
	"github.com/vango-dev/pagetree/pkg/server"
)

// =============================================================================
// App Type
// =============================================================================

// App discovers the route tree, registers its endpoints and serves them
// behind the error fallback. It is an http.Handler.
//
// Discovery runs once, either through an explicit Init or on the first
// request. Requests that arrive while discovery runs wait for it.
type App struct {
	config   Config
	logger   *slog.Logger
	mux      Mux
	pipeline *render.Pipeline
	reqlog   server.RequestLogger
	reload   *livereload.Server

	initOnce  sync.Once
	startOnce sync.Once
	ready     chan struct{}

	// Set once, before ready is closed.
	registry *router.Registry
	handler  http.Handler
	initErr  error

	httpServer *http.Server
}

// New creates an App. Nothing is read from disk until Init.
func New(cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Mux == nil {
		cfg.Mux = DefaultMux()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = router.NewCatalog()
	}
	if cfg.ReadHeaderTimeout == 0 {
		cfg.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	reqlog := cfg.RequestLogger
	if reqlog == nil {
		reqlog = server.SlogRequestLogger(logger)
	}

	app := &App{
		config: cfg,
		logger: logger,
		mux:    cfg.Mux,
		reqlog: reqlog,
		ready:  make(chan struct{}),
	}

	var opts []render.PipelineOption
	if cfg.DevMode {
		app.reload = livereload.New(logger)
		opts = append(opts, render.WithScript(app.reload.ClientScript()))
	}
	app.pipeline = render.NewPipeline(cfg.Parser, cfg.Minifier, opts...)

	return app
}

// Init discovers the route tree and registers every endpoint. It runs
// once; later calls return the first result.
func (a *App) Init() error {
	a.initOnce.Do(func() {
		a.initErr = a.discover()
		close(a.ready)
	})
	return a.initErr
}

func (a *App) discover() error {
	fsys := a.config.FS
	if fsys == nil {
		fsys = os.DirFS(a.config.Root)
	}

	reg, err := router.NewScanner(fsys, a.config.Catalog).WithLogger(a.logger).Scan()
	if err != nil {
		a.logger.Error("route discovery failed", "root", a.config.Root, "error", err)
		return err
	}

	a.register(reg)
	a.registry = reg
	a.handler = a.fallback(chain(a.config.Middleware, a.mux), reg.Templates())
	return nil
}

// Ready is closed once Init has finished, successfully or not.
func (a *App) Ready() <-chan struct{} { return a.ready }

// Registry returns the frozen registry, or nil before Init succeeded.
func (a *App) Registry() *router.Registry {
	select {
	case <-a.ready:
		return a.registry
	default:
		return nil
	}
}

// =============================================================================
// http.Handler Implementation
// =============================================================================

// ServeHTTP implements http.Handler. The first request starts discovery;
// every request waits until it has finished.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.startOnce.Do(func() { go a.Init() })

	select {
	case <-a.ready:
	case <-r.Context().Done():
		return
	}

	if a.initErr != nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	if a.reload != nil && r.URL.Path == livereload.Path {
		a.reload.ServeHTTP(w, r)
		return
	}

	a.handler.ServeHTTP(w, r)
}

// chain applies mws around h, the first being outermost.
func chain(mws []func(http.Handler) http.Handler, h http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// =============================================================================
// Server Lifecycle
// =============================================================================

// Run initializes the App, listens on addr and blocks until SIGINT or
// SIGTERM, then shuts down gracefully.
func (a *App) Run(addr string) error {
	if err := a.Init(); err != nil {
		return err
	}

	a.httpServer = &http.Server{
		Addr:              addr,
		Handler:           a,
		ReadHeaderTimeout: a.config.ReadHeaderTimeout,
	}

	// Set up graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	// Error channel for ListenAndServe
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("server starting", "address", addr, "endpoints", a.registry.Len(), "dev", a.config.DevMode)
		errCh <- a.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil

	case <-shutdown:
		a.logger.Info("shutting down...")
		return a.Shutdown(context.Background())
	}
}

// Shutdown stops a server started by Run.
func (a *App) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.config.ShutdownTimeout)
	defer cancel()

	if a.reload != nil {
		a.reload.Close()
	}

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	a.logger.Info("server shutdown complete")
	return nil
}
