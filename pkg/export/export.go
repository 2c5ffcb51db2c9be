// Package export renders view endpoints in-process and publishes the
// resulting documents as static files.
//
//	exp := export.New(app, logger)
//	res, err := exp.Export(ctx, []string{"/", "/blog"}, export.NewDirPublisher("dist"))
//
// Each path is requested with GET through the application handler, so the
// output is byte-for-byte what a browser would receive. Only 200 responses
// are published; any other status fails the export.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
)

// Publisher stores one rendered document.
type Publisher interface {
	// Publish stores body under name, a slash-separated relative file
	// name such as "blog/index.html".
	Publish(ctx context.Context, name string, body []byte) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, name string, body []byte) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, name string, body []byte) error {
	return f(ctx, name, body)
}

// Exporter renders paths through an http.Handler.
type Exporter struct {
	handler http.Handler
	logger  *slog.Logger
}

// New creates an exporter for h.
func New(h http.Handler, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{handler: h, logger: logger}
}

// Result summarizes an export.
type Result struct {
	// Files are the published file names, in export order.
	Files []string

	// Bytes is the total size of the published documents.
	Bytes int
}

// Export renders every path and publishes it. It stops at the first
// failure.
func (e *Exporter) Export(ctx context.Context, paths []string, pub Publisher) (Result, error) {
	var res Result
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		body, err := e.render(ctx, p)
		if err != nil {
			return res, err
		}

		name := FileName(p)
		if err := pub.Publish(ctx, name, body); err != nil {
			return res, fmt.Errorf("publish %s: %w", name, err)
		}
		e.logger.Info("exported", "path", p, "file", name, "bytes", len(body))
		res.Files = append(res.Files, name)
		res.Bytes += len(body)
	}
	return res, nil
}

func (e *Exporter) render(ctx context.Context, p string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p, nil)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", p, err)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		return nil, fmt.Errorf("render %s: status %d", p, rec.Code)
	}
	return rec.Body.Bytes(), nil
}

// FileName maps an endpoint path to the file it is exported as.
//
//	FileName("/")          == "index.html"
//	FileName("/blog/post") == "blog/post/index.html"
func FileName(endpoint string) string {
	clean := strings.Trim(path.Clean("/"+endpoint), "/")
	if clean == "" {
		return "index.html"
	}
	return clean + "/index.html"
}
