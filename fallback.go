package pagetree

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/vango-dev/pagetree/internal/errors"
	"github.com/vango-dev/pagetree/pkg/render"
	"github.com/vango-dev/pagetree/pkg/router"
	"github.com/vango-dev/pagetree/pkg/server"
)

// bufferedWriter holds the inner response until the fallback decides
// whether to send it.
type bufferedWriter struct {
	header http.Header
	status int
	wrote  bool
	buf    bytes.Buffer
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: make(http.Header), status: http.StatusOK}
}

func (b *bufferedWriter) Header() http.Header { return b.header }

func (b *bufferedWriter) WriteHeader(status int) {
	if b.wrote {
		return
	}
	b.status = status
	b.wrote = true
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if !b.wrote {
		b.WriteHeader(http.StatusOK)
	}
	return b.buf.Write(p)
}

// fallback wraps the whole application. A request succeeds only when a
// known endpoint answered 200 without recording a failure; everything else
// is answered with the error page and status 404.
func (a *App) fallback(next http.Handler, tmpl router.Templates) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bw := newBufferedWriter()
		c := server.NewContext(r, bw.Header(), a.logger)
		r = server.WithContext(r, c)

		a.serveInner(next, bw, r, c)

		if bw.status == http.StatusOK && c.Endpoint() != "" && c.Err() == nil {
			h := w.Header()
			for k, v := range bw.header {
				h[k] = v
			}
			h.Set("X-Request-Id", c.RequestID())
			w.WriteHeader(http.StatusOK)
			w.Write(bw.buf.Bytes())
			c.SetStatus(http.StatusOK)
		} else {
			a.respondError(w, c, bw.status, tmpl)
			c.SetStatus(http.StatusNotFound)
		}

		a.reqlog.LogRequest(c)
	})
}

// serveInner runs next, recovering panics into an E203 failure.
func (a *App) serveInner(next http.Handler, bw *bufferedWriter, r *http.Request, c *server.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			c.Fail(errors.New("E203").WithDetail(fmt.Sprint(rec)))
			c.Logger().Error("handler panicked",
				"path", r.URL.Path,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			if !bw.wrote {
				bw.WriteHeader(http.StatusInternalServerError)
			}
		}
	}()
	next.ServeHTTP(bw, r)
}

// respondError discards the buffered response and writes the error page.
func (a *App) respondError(w http.ResponseWriter, c *server.Context, observed int, tmpl router.Templates) {
	if c.Err() == nil && c.Endpoint() == "" {
		c.Fail(errors.New("E200").WithDetail(c.Path()))
	}
	if c.Err() != nil && observed == http.StatusOK {
		observed = http.StatusInternalServerError
	}

	// Headers set by the error page go straight to the response.
	c.SetHeaderTarget(w.Header())

	out, err := a.renderErrorPage(c, observed, tmpl)

	h := w.Header()
	h.Set("X-Request-Id", c.RequestID())
	if err != nil {
		c.Logger().Error("error page failed", "status", observed, "error", err)
		h.Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, "404 Not Found\n")
		return
	}
	h.Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusNotFound)
	io.WriteString(w, out)
}

func (a *App) renderErrorPage(c *server.Context, observed int, tmpl router.Templates) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.New("E203").WithDetail(fmt.Sprintf("error page: %v", rec))
		}
	}()
	return a.pipeline.RenderError(c.StdContext(), render.ErrorPage{
		Props: server.ErrorProps{
			Ctx:    c,
			Status: observed,
			Err:    c.Err(),
		},
		Templates: tmpl,
	})
}
