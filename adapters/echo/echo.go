// Package pagetreeecho registers pagetree endpoints on an Echo instance.
//
//	e := echo.New()
//	app := pagetree.New(pagetree.Config{
//	    Root:    "site",
//	    Catalog: catalog.Catalog(),
//	    Mux:     pagetreeecho.New(e),
//	})
//
// Echo's own 404 and 405 responses are replaced by the application's error
// page like any other unsuccessful response.
package pagetreeecho

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Mux adapts *echo.Echo to pagetree.Mux.
type Mux struct {
	e *echo.Echo
}

// New wraps e. A trailing slash is removed before routing, so /about/
// reaches the /about endpoint. A nil e gets a fresh instance.
func New(e *echo.Echo) *Mux {
	if e == nil {
		e = echo.New()
	}
	e.HideBanner = true
	e.HidePort = true
	e.Pre(middleware.RemoveTrailingSlash())
	return &Mux{e: e}
}

// Echo returns the wrapped instance.
func (m *Mux) Echo() *echo.Echo { return m.e }

// Method registers h for method and pattern.
func (m *Mux) Method(method, pattern string, h http.Handler) {
	m.e.Add(method, pattern, echo.WrapHandler(h))
}

func (m *Mux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.e.ServeHTTP(w, r)
}
