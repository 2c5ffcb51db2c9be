package middleware

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/pagetree/internal/errors"
	"github.com/vango-dev/pagetree/pkg/server"
)

func resetGlobalMetricsForTest() {
	globalMetricsMu.Lock()
	globalMetrics = nil
	globalMetricsMu.Unlock()
}

// newRequest returns a request carrying a server.Context.
func newRequest(method, path string) (*http.Request, *server.Context) {
	r := httptest.NewRequest(method, path, nil)
	c := server.NewContext(r, http.Header{}, nil)
	return server.WithContext(r, c), c
}

func TestPrometheusRecordsEndpointAndStatus(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()
	mw := Prometheus(WithRegistry(reg))

	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		server.FromRequest(r).SetEndpoint("/blog")
		w.Write([]byte("hello"))
	}))

	r, _ := newRequest(http.MethodGet, "/blog/")
	h.ServeHTTP(httptest.NewRecorder(), r)

	if got := testutil.ToFloat64(globalMetrics.requestsTotal.WithLabelValues("/blog", "200")); got != 1 {
		t.Fatalf("requests_total(/blog,200) = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(globalMetrics.requestDuration); n != 1 {
		t.Fatalf("request_duration_seconds series = %d, want 1", n)
	}
	if n := testutil.CollectAndCount(globalMetrics.requestErrors); n != 0 {
		t.Fatalf("request_errors_total series = %d, want 0", n)
	}
}

func TestPrometheusUnmatched(t *testing.T) {
	resetGlobalMetricsForTest()
	mw := Prometheus(WithRegistry(prometheus.NewRegistry()))

	h := mw(http.NotFoundHandler())
	r, c := newRequest(http.MethodGet, "/nope")
	c.Fail(errors.New("E200"))
	h.ServeHTTP(httptest.NewRecorder(), r)

	if got := testutil.ToFloat64(globalMetrics.requestsTotal.WithLabelValues(Unmatched, "404")); got != 1 {
		t.Fatalf("requests_total(unmatched,404) = %v, want 1", got)
	}
	if got := testutil.ToFloat64(globalMetrics.requestErrors.WithLabelValues(Unmatched, "request")); got != 1 {
		t.Fatalf("request_errors_total(unmatched,request) = %v, want 1", got)
	}
}

func TestPrometheusPanicIsRecordedAndRethrown(t *testing.T) {
	resetGlobalMetricsForTest()
	mw := Prometheus(WithRegistry(prometheus.NewRegistry()))

	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		server.FromRequest(r).SetEndpoint("/boom")
		panic("boom")
	}))

	r, _ := newRequest(http.MethodGet, "/boom")
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("panic should propagate")
			}
		}()
		h.ServeHTTP(httptest.NewRecorder(), r)
	}()

	if got := testutil.ToFloat64(globalMetrics.requestErrors.WithLabelValues("/boom", "handler")); got != 1 {
		t.Fatalf("request_errors_total(/boom,handler) = %v, want 1", got)
	}
}

func TestPrometheusWithoutContext(t *testing.T) {
	resetGlobalMetricsForTest()
	mw := Prometheus(WithRegistry(prometheus.NewRegistry()))

	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got := testutil.ToFloat64(globalMetrics.requestsTotal.WithLabelValues(Unmatched, "418")); got != 1 {
		t.Fatalf("requests_total(unmatched,418) = %v, want 1", got)
	}
}

func TestMetricsHandlerFor(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()
	mw := Prometheus(WithRegistry(reg), WithNamespace("myapp"))

	r, _ := newRequest(http.MethodGet, "/")
	mw(http.NotFoundHandler()).ServeHTTP(httptest.NewRecorder(), r)

	rec := httptest.NewRecorder()
	MetricsHandlerFor(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "myapp_requests_total") {
		t.Fatalf("metrics output missing myapp_requests_total:\n%s", rec.Body.String())
	}
}

func newTracedHandler(t *testing.T, next http.Handler, opts ...OTelOption) (http.Handler, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	opts = append([]OTelOption{WithTracerProvider(tp)}, opts...)
	return OpenTelemetry(opts...)(next), rec
}

func TestOpenTelemetryRebindsContext(t *testing.T) {
	var inner trace.SpanContext
	h, rec := newTracedHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := server.FromRequest(r)
		c.SetEndpoint("/blog")
		inner = SpanFromContext(c).SpanContext()
	}), WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
		return []attribute.KeyValue{attribute.String("test.attr", "ok")}
	}))

	r, c := newRequest(http.MethodGet, "/blog")
	h.ServeHTTP(httptest.NewRecorder(), r)

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	s := spans[0]
	if s.Name() != "pagetree GET /blog" {
		t.Errorf("span name = %q, want %q", s.Name(), "pagetree GET /blog")
	}
	if s.SpanKind() != trace.SpanKindServer {
		t.Errorf("span kind = %v, want server", s.SpanKind())
	}
	if !inner.IsValid() || inner.SpanID() != s.SpanContext().SpanID() {
		t.Fatal("handler should see the request span through Ctx.StdContext()")
	}
	if TraceContext(c) != c.StdContext() {
		t.Fatal("TraceContext should return the request context")
	}

	found := map[attribute.Key]bool{}
	for _, kv := range s.Attributes() {
		found[kv.Key] = true
	}
	for _, k := range []attribute.Key{"http.method", "http.status_code", "pagetree.endpoint", "pagetree.request_id", "test.attr"} {
		if !found[k] {
			t.Errorf("missing attribute %q", k)
		}
	}
	if s.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", s.Status().Code)
	}
}

func TestOpenTelemetryRecordsFailure(t *testing.T) {
	h, rec := newTracedHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		server.FromRequest(r).Fail(stderrors.New("boom"))
	}))

	r, _ := newRequest(http.MethodGet, "/x")
	h.ServeHTTP(httptest.NewRecorder(), r)

	s := rec.Ended()[0]
	if s.Status().Code != codes.Error {
		t.Fatalf("status = %v, want Error", s.Status().Code)
	}
	if len(s.Events()) == 0 {
		t.Fatal("expected an exception event")
	}
}

func TestOpenTelemetryFilterSkipsTracing(t *testing.T) {
	called := false
	h, rec := newTracedHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}), WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/healthz" }))

	r, _ := newRequest(http.MethodGet, "/healthz")
	h.ServeHTTP(httptest.NewRecorder(), r)

	if !called {
		t.Fatal("next handler not called")
	}
	if n := len(rec.Ended()); n != 0 {
		t.Fatalf("spans = %d, want 0", n)
	}
}
