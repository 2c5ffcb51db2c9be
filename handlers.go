package pagetree

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/vango-dev/pagetree/internal/errors"
	"github.com/vango-dev/pagetree/pkg/render"
	"github.com/vango-dev/pagetree/pkg/router"
	"github.com/vango-dev/pagetree/pkg/server"
)

// register adds one mux route per view and per API method.
func (a *App) register(reg *router.Registry) {
	tmpl := reg.Templates()
	for _, ep := range reg.Endpoints() {
		switch ep.Kind() {
		case router.KindView:
			a.mux.Method(http.MethodGet, ep.Path(), a.viewHandler(ep, tmpl))
		case router.KindAPI:
			for _, m := range ep.API().Methods() {
				a.mux.Method(m.String(), ep.Path(), a.apiHandler(ep, m))
			}
		}
	}
}

// requestContext returns the Context the fallback attached to r. Handlers
// mounted on a mux outside an App get a fresh one.
func (a *App) requestContext(w http.ResponseWriter, r *http.Request) *server.Context {
	c := server.FromRequest(r)
	if c == nil {
		return server.NewContext(r, w.Header(), a.logger)
	}
	c.Bind(r)
	return c
}

// viewHandler renders a page.
func (a *App) viewHandler(ep *router.Endpoint, tmpl router.Templates) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := a.requestContext(w, r)
		c.SetEndpoint(ep.Path())

		props, err := server.BuildProps(c, a.config.Props.Values, a.config.Props.Payload)
		if err != nil {
			fail(w, c, err)
			return
		}

		out, err := a.pipeline.RenderView(r.Context(), render.Page{
			Props:      props,
			View:       ep.View(),
			Templates:  tmpl,
			RootValues: a.config.Props.Root,
		})
		if err != nil {
			fail(w, c, err)
			return
		}

		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, out)
	})
}

// apiHandler invokes one API method and writes its result as JSON.
func (a *App) apiHandler(ep *router.Endpoint, m router.Method) http.Handler {
	fn := ep.API().Handler(m)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := a.requestContext(w, r)
		c.SetEndpoint(ep.Path())

		props, err := server.BuildProps(c, a.config.Props.Values, a.config.Props.Payload)
		if err != nil {
			fail(w, c, err)
			return
		}

		result, err := fn(c, props)
		if err != nil {
			fail(w, c, errors.FromError(err, "E201"))
			return
		}

		body, err := json.Marshal(result)
		if err != nil {
			fail(w, c, errors.New("E201").WithDetail("encode response").Wrap(err))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	})
}

// fail records err and answers 500. Inside an App the fallback replaces
// the response with the error page.
func fail(w http.ResponseWriter, c *server.Context, err error) {
	c.Fail(err)
	w.WriteHeader(http.StatusInternalServerError)
}
