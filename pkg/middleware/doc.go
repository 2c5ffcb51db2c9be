// Package middleware provides production-grade net/http middleware for
// pagetree applications.
//
// This package includes:
//   - OpenTelemetry distributed tracing middleware
//   - Prometheus metrics middleware
//
// Both are plain func(http.Handler) http.Handler values. Installed through
// pagetree.Config.Middleware they run inside the error fallback and see the
// request Ctx, the endpoint that served it and the status before any 404
// rewrite.
//
// # OpenTelemetry Middleware
//
//	app := pagetree.New(pagetree.Config{
//	    Middleware: []func(http.Handler) http.Handler{
//	        middleware.OpenTelemetry(middleware.WithTracerName("my-app")),
//	    },
//	})
//
// Filter requests with WithRequestFilter:
//
//	middleware.OpenTelemetry(
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	)
//
// # Prometheus Metrics
//
// The Prometheus middleware collects:
//   - pagetree_requests_total: Requests by endpoint and status
//   - pagetree_request_duration_seconds: Request duration histogram
//   - pagetree_request_errors_total: Failures by error category
//   - pagetree_response_bytes: Response size histogram
//
// Expose metrics on a separate port:
//
//	go http.ListenAndServe(":9090", middleware.MetricsHandler())
//
// # Context Propagation
//
// The tracing middleware rebinds the request Ctx, so views and API handlers
// inherit the span through ctx.StdContext():
//
//	func GET(ctx server.Ctx, props server.Props) (any, error) {
//	    req, _ := http.NewRequestWithContext(ctx.StdContext(), "GET", url, nil)
//	    ...
//	}
package middleware
