package server

import (
	"log/slog"
	"maps"
	"time"

	"github.com/vango-dev/pagetree/internal/errors"
)

// Props is the per-request bag passed to views and API handlers.
type Props struct {
	// Values is a per-request copy of the configured static values.
	// Mutating it never leaks into other requests.
	Values map[string]any

	// Payload is the result of the configured PayloadProvider.
	Payload any

	// HasPayload reports whether a PayloadProvider ran for this request.
	HasPayload bool

	// Ctx is the request context.
	Ctx Ctx
}

// Value returns a static value by key.
func (p Props) Value(key string) any {
	return p.Values[key]
}

// LayoutProps is passed to the root layout.
type LayoutProps struct {
	// Body is the rendered view fragment.
	Body string

	// Ctx is the request context.
	Ctx Ctx

	// Values holds the caller-supplied root overrides.
	Values map[string]any
}

// ErrorProps is passed to the error template.
type ErrorProps struct {
	Ctx Ctx

	// Status is the status observed before the response was rewritten
	// to 404. It is 404 for unmatched paths.
	Status int

	// Err is the recorded failure, nil when the fallback was triggered
	// only by a status or an unmatched path.
	Err error
}

// PayloadProvider computes a per-request payload. It runs once per
// request, before the view or API handler.
type PayloadProvider interface {
	Payload(ctx Ctx) (any, error)
}

// PayloadFunc adapts a function to PayloadProvider.
type PayloadFunc func(ctx Ctx) (any, error)

// Payload calls f(ctx).
func (f PayloadFunc) Payload(ctx Ctx) (any, error) { return f(ctx) }

// RequestLogger observes a finished request. It runs once per request,
// after the response has been written.
type RequestLogger interface {
	LogRequest(ctx Ctx)
}

// RequestLoggerFunc adapts a function to RequestLogger.
type RequestLoggerFunc func(ctx Ctx)

// LogRequest calls f(ctx).
func (f RequestLoggerFunc) LogRequest(ctx Ctx) { f(ctx) }

// SlogRequestLogger returns a RequestLogger that writes one info record
// per request, or a warn record when the request failed.
func SlogRequestLogger(logger *slog.Logger) RequestLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return RequestLoggerFunc(func(ctx Ctx) {
		attrs := []any{
			"method", ctx.Method(),
			"path", ctx.Path(),
			"status", ctx.Status(),
			"duration", time.Since(ctx.Started()),
			"request_id", ctx.RequestID(),
		}
		if ctx.Endpoint() != "" {
			attrs = append(attrs, "endpoint", ctx.Endpoint())
		}
		if err := ctx.Err(); err != nil {
			logger.Warn("request failed", append(attrs, "error", err)...)
			return
		}
		logger.Info("request", attrs...)
	})
}

// BuildProps assembles the Props for one request. The provider, when
// non-nil, is invoked exactly once. Its failure is returned as E202.
func BuildProps(ctx Ctx, values map[string]any, provider PayloadProvider) (Props, error) {
	props := Props{
		Values: maps.Clone(values),
		Ctx:    ctx,
	}
	if props.Values == nil {
		props.Values = make(map[string]any)
	}
	if provider == nil {
		return props, nil
	}
	payload, err := provider.Payload(ctx)
	if err != nil {
		return props, errors.New("E202").Wrap(err)
	}
	props.Payload = payload
	props.HasPayload = true
	return props, nil
}
