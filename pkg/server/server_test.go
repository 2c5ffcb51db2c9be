package server

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vango-dev/pagetree/internal/errors"
)

func TestNewContextRequestID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/blog", nil)
	c := NewContext(r, http.Header{}, nil)
	if c.RequestID() == "" {
		t.Fatal("RequestID() is empty")
	}

	r = httptest.NewRequest(http.MethodGet, "/blog", nil)
	r.Header.Set("X-Request-Id", "abc")
	c = NewContext(r, http.Header{}, nil)
	if got := c.RequestID(); got != "abc" {
		t.Fatalf("RequestID() = %q, want %q", got, "abc")
	}
}

func TestContextAccessors(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/items?x=1", nil)
	r.Header.Set("Accept", "application/json")
	r.AddCookie(&http.Cookie{Name: "sid", Value: "s1"})

	header := http.Header{}
	c := NewContext(r, header, nil)

	if c.Method() != http.MethodPost {
		t.Errorf("Method() = %q, want POST", c.Method())
	}
	if c.Path() != "/api/items" {
		t.Errorf("Path() = %q, want /api/items", c.Path())
	}
	if c.Query().Get("x") != "1" {
		t.Errorf("Query().Get(x) = %q, want 1", c.Query().Get("x"))
	}
	if c.Header("Accept") != "application/json" {
		t.Errorf("Header(Accept) = %q", c.Header("Accept"))
	}
	if ck, err := c.Cookie("sid"); err != nil || ck.Value != "s1" {
		t.Errorf("Cookie(sid) = %v, %v", ck, err)
	}
	if c.Status() != http.StatusOK {
		t.Errorf("Status() = %d, want 200", c.Status())
	}

	c.SetHeader("X-Test", "1")
	c.SetCookie(&http.Cookie{Name: "a", Value: "b"})
	if header.Get("X-Test") != "1" {
		t.Errorf("SetHeader did not write to the target header")
	}
	if !strings.HasPrefix(header.Get("Set-Cookie"), "a=b") {
		t.Errorf("Set-Cookie = %q", header.Get("Set-Cookie"))
	}

	c.SetValue("k", 42)
	if c.Value("k") != 42 {
		t.Errorf("Value(k) = %v, want 42", c.Value("k"))
	}
}

func TestContextFailKeepsFirst(t *testing.T) {
	c := NewContext(httptest.NewRequest(http.MethodGet, "/", nil), http.Header{}, nil)
	first := stderrors.New("first")
	c.Fail(first)
	c.Fail(stderrors.New("second"))
	if c.Err() != first {
		t.Fatalf("Err() = %v, want %v", c.Err(), first)
	}
}

func TestWithContextRoundTrip(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	c := NewContext(r, http.Header{}, nil)
	r = WithContext(r, c)

	if got := FromRequest(r); got != c {
		t.Fatalf("FromRequest = %p, want %p", got, c)
	}
	if c.Request() != r {
		t.Fatal("WithContext should bind the derived request")
	}
	if FromRequest(httptest.NewRequest(http.MethodGet, "/", nil)) != nil {
		t.Fatal("FromRequest on a bare request should be nil")
	}
}

func TestBuildProps(t *testing.T) {
	c := NewContext(httptest.NewRequest(http.MethodGet, "/", nil), http.Header{}, nil)
	values := map[string]any{"title": "Home"}

	props, err := BuildProps(c, values, nil)
	if err != nil {
		t.Fatalf("BuildProps: %v", err)
	}
	if props.HasPayload {
		t.Error("HasPayload = true without a provider")
	}
	props.Values["title"] = "changed"
	if values["title"] != "Home" {
		t.Fatal("Props.Values must be a per-request copy")
	}
	if props.Ctx != c {
		t.Error("Props.Ctx not set")
	}
}

func TestBuildPropsNilValues(t *testing.T) {
	c := NewContext(httptest.NewRequest(http.MethodGet, "/", nil), http.Header{}, nil)
	props, err := BuildProps(c, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if props.Values == nil {
		t.Fatal("Values should never be nil")
	}
}

func TestBuildPropsPayload(t *testing.T) {
	c := NewContext(httptest.NewRequest(http.MethodGet, "/", nil), http.Header{}, nil)
	calls := 0
	provider := PayloadFunc(func(ctx Ctx) (any, error) {
		calls++
		return "user-1", nil
	})

	props, err := BuildProps(c, nil, provider)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("provider calls = %d, want 1", calls)
	}
	if !props.HasPayload || props.Payload != "user-1" {
		t.Fatalf("Payload = %v (has %v), want user-1", props.Payload, props.HasPayload)
	}
}

func TestBuildPropsPayloadError(t *testing.T) {
	c := NewContext(httptest.NewRequest(http.MethodGet, "/", nil), http.Header{}, nil)
	cause := stderrors.New("db down")
	_, err := BuildProps(c, nil, PayloadFunc(func(Ctx) (any, error) { return nil, cause }))
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.CodeOf(err) != "E202" {
		t.Fatalf("code = %q, want E202", errors.CodeOf(err))
	}
	if !stderrors.Is(err, cause) {
		t.Fatal("error should wrap the provider failure")
	}
}

func TestSlogRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := httptest.NewRequest(http.MethodGet, "/blog", nil)
	r.Header.Set("X-Request-Id", "req-1")
	c := NewContext(r, http.Header{}, nil)
	c.SetStatus(http.StatusOK)
	c.SetEndpoint("/blog")

	SlogRequestLogger(logger).LogRequest(c)
	out := buf.String()
	for _, want := range []string{"level=INFO", "method=GET", "path=/blog", "status=200", "request_id=req-1", "endpoint=/blog"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q: %s", want, out)
		}
	}

	buf.Reset()
	c.Fail(stderrors.New("boom"))
	SlogRequestLogger(logger).LogRequest(c)
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "error=boom") {
		t.Errorf("failed request log = %s", buf.String())
	}
}
