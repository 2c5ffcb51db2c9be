package pagetree

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vango-dev/pagetree/pkg/render"
	"github.com/vango-dev/pagetree/pkg/router"
	"github.com/vango-dev/pagetree/pkg/server"
)

// =============================================================================
// Configuration Types
// =============================================================================

// Config configures an App. Only Root (or FS) and Catalog are required.
type Config struct {
	// Root is the application directory holding routes/ and the root
	// artifacts.
	Root string

	// FS overrides the filesystem the route tree is read from. When nil,
	// os.DirFS(Root) is used.
	FS fs.FS

	// Catalog binds the .go artifacts to functions.
	Catalog *router.Catalog

	// Mux receives one registration per view and per API method.
	// Default: DefaultMux().
	Mux Mux

	// Props configures the values handed to every view and API handler.
	Props PropsConfig

	// RequestLogger is called once per request after the response has
	// been written. Default: server.SlogRequestLogger(Logger).
	RequestLogger server.RequestLogger

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Parser parses and serializes documents. Default: render.HTML5{}.
	Parser render.Parser

	// Minifier minifies CSS, JS and HTML. Default: render.NewTdewolff().
	Minifier render.Minifier

	// Middleware wraps the mux, inside the error fallback. The first
	// entry is the outermost.
	Middleware []func(http.Handler) http.Handler

	// DevMode appends the live-reload client to every page and serves the
	// reload socket.
	DevMode bool

	// ReadHeaderTimeout is used by Run. Default: 10 seconds.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown in Run. Default: 10 seconds.
	ShutdownTimeout time.Duration
}

// PropsConfig configures per-request props.
type PropsConfig struct {
	// Values are cloned into Props.Values for every request.
	Values map[string]any

	// Root is passed to the root layout as LayoutProps.Values.
	Root map[string]any

	// Payload, when set, is invoked once per request before the handler.
	Payload server.PayloadProvider
}

// Mux is the external router endpoints are registered with.
// *chi.Mux satisfies it directly; see adapters/echo for Echo.
type Mux interface {
	http.Handler

	// Method registers h for method and pattern.
	Method(method, pattern string, h http.Handler)
}

// DefaultMux returns a chi router that cleans request paths and ignores a
// trailing slash, so /about/ reaches the /about endpoint.
func DefaultMux() Mux {
	r := chi.NewRouter()
	r.Use(middleware.CleanPath)
	r.Use(middleware.StripSlashes)
	return r
}

const (
	defaultReadHeaderTimeout = 10 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
)
