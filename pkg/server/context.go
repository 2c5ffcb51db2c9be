package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Ctx is the request context handed to views, API handlers, layouts, the
// error template, the payload provider and the request logger.
type Ctx interface {
	// Request returns the underlying HTTP request.
	Request() *http.Request

	// Method returns the HTTP method.
	Method() string

	// Path returns the raw request path.
	Path() string

	// Query returns the parsed query string.
	Query() url.Values

	// Header returns a request header value.
	Header(key string) string

	// Cookie returns a request cookie.
	Cookie(name string) (*http.Cookie, error)

	// SetHeader sets a response header.
	SetHeader(key, value string)

	// SetCookie adds a Set-Cookie response header.
	SetCookie(cookie *http.Cookie)

	// Status returns the response status. It is final only once the
	// response has been written, which is when RequestLogger runs.
	Status() int

	// RequestID returns the unique identifier of this request.
	RequestID() string

	// Endpoint returns the registry path that served the request, or ""
	// when no endpoint matched.
	Endpoint() string

	// Err returns the failure recorded for this request, if any.
	Err() error

	// Started returns the time the request entered the App.
	Started() time.Time

	// Logger returns a logger annotated with the request id.
	Logger() *slog.Logger

	// StdContext returns the request's context.Context.
	StdContext() context.Context

	// SetValue stores a request-scoped value.
	SetValue(key, value any)

	// Value returns a request-scoped value.
	Value(key any) any
}

// Context is the concrete Ctx implementation. The App owns it; user code
// should only depend on Ctx.
type Context struct {
	request  *http.Request
	header   http.Header
	id       string
	logger   *slog.Logger
	values   map[any]any
	status   int
	endpoint string
	err      error
	started  time.Time
}

var _ Ctx = (*Context)(nil)

// NewContext creates the context for one request. Response headers set
// through the context are written to header.
func NewContext(r *http.Request, header http.Header, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	id := r.Header.Get("X-Request-Id")
	if id == "" {
		id = uuid.NewString()
	}
	return &Context{
		request: r,
		header:  header,
		id:      id,
		logger:  logger.With("request_id", id),
		values:  make(map[any]any),
		status:  http.StatusOK,
		started: time.Now(),
	}
}

// Request info
func (c *Context) Request() *http.Request       { return c.request }
func (c *Context) Method() string               { return c.request.Method }
func (c *Context) Path() string                 { return c.request.URL.Path }
func (c *Context) Query() url.Values            { return c.request.URL.Query() }
func (c *Context) Header(key string) string     { return c.request.Header.Get(key) }
func (c *Context) StdContext() context.Context  { return c.request.Context() }
func (c *Context) RequestID() string            { return c.id }
func (c *Context) Started() time.Time           { return c.started }
func (c *Context) Logger() *slog.Logger         { return c.logger }
func (c *Context) Status() int                  { return c.status }
func (c *Context) Endpoint() string             { return c.endpoint }
func (c *Context) Err() error                   { return c.err }
func (c *Context) SetValue(key, value any)      { c.values[key] = value }
func (c *Context) Value(key any) any            { return c.values[key] }
func (c *Context) SetHeader(key, value string)  { c.header.Set(key, value) }
func (c *Context) Cookie(name string) (*http.Cookie, error) {
	return c.request.Cookie(name)
}

// SetCookie adds a Set-Cookie response header.
func (c *Context) SetCookie(cookie *http.Cookie) {
	c.header.Add("Set-Cookie", cookie.String())
}

// SetStatus records the response status.
func (c *Context) SetStatus(status int) { c.status = status }

// SetEndpoint records the registry path that is serving the request.
func (c *Context) SetEndpoint(path string) { c.endpoint = path }

// SetHeaderTarget redirects SetHeader and SetCookie to another header map.
// The error fallback uses it while it buffers the inner response.
func (c *Context) SetHeaderTarget(header http.Header) { c.header = header }

// Fail records a failure. Only the first failure is kept.
func (c *Context) Fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Bind points the context at r. Middleware that derives a new request
// (for example to carry a tracing span) keeps the same Context; handlers
// call Bind so StdContext sees the latest request.
func (c *Context) Bind(r *http.Request) { c.request = r }

type contextKey struct{}

// WithContext attaches c to the request and returns the derived request.
func WithContext(r *http.Request, c *Context) *http.Request {
	r = r.WithContext(context.WithValue(r.Context(), contextKey{}, c))
	c.Bind(r)
	return r
}

// FromRequest returns the Context attached to r, or nil.
func FromRequest(r *http.Request) *Context {
	return FromContext(r.Context())
}

// FromContext returns the Context stored in ctx, or nil.
func FromContext(ctx context.Context) *Context {
	c, _ := ctx.Value(contextKey{}).(*Context)
	return c
}
