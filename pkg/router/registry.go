package router

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/vango-dev/pagetree/pkg/server"
)

// Registry is the frozen endpoint table. It is safe for concurrent reads
// and never changes after Freeze.
type Registry struct {
	endpoints map[string]*Endpoint
	sorted    []*Endpoint
	templates Templates
}

// Lookup returns the endpoint for a request path. The path is normalized
// first, so "/blog/" and "/blog" resolve to the same endpoint.
func (r *Registry) Lookup(path string) (*Endpoint, bool) {
	ep, ok := r.endpoints[NormalizePath(path)]
	return ep, ok
}

// Endpoints returns every endpoint sorted by path.
func (r *Registry) Endpoints() []*Endpoint {
	return append([]*Endpoint(nil), r.sorted...)
}

// Len returns the number of endpoints.
func (r *Registry) Len() int { return len(r.sorted) }

// Templates returns the root templates.
func (r *Registry) Templates() Templates { return r.templates }

// Builder accumulates endpoints during discovery.
type Builder struct {
	endpoints map[string]*Endpoint
	templates Templates
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{endpoints: make(map[string]*Endpoint)}
}

// View returns the view handlers of path, creating the endpoint on first
// use. It returns nil when path is already an API endpoint.
func (b *Builder) View(path, file string) *ViewHandlers {
	ep := b.endpoint(path, KindView, file)
	if ep == nil {
		return nil
	}
	return ep.view
}

// API returns the API handlers of path, creating the endpoint on first
// use. It returns nil when path is already a view endpoint.
func (b *Builder) API(path, file string) *APIHandlers {
	ep := b.endpoint(path, KindAPI, file)
	if ep == nil {
		return nil
	}
	return ep.api
}

func (b *Builder) endpoint(path string, kind Kind, file string) *Endpoint {
	path = NormalizePath(path)
	ep, ok := b.endpoints[path]
	if !ok {
		ep = &Endpoint{path: path, kind: kind}
		switch kind {
		case KindView:
			ep.view = &ViewHandlers{}
		case KindAPI:
			ep.api = &APIHandlers{}
		}
		b.endpoints[path] = ep
	}
	if ep.kind != kind {
		return nil
	}
	if file != "" {
		ep.files = append(ep.files, file)
	}
	return ep
}

// SetTemplates sets the root templates.
func (b *Builder) SetTemplates(t Templates) {
	b.templates = t
}

// Freeze returns the immutable registry. Missing root templates are
// replaced by the built-in passthrough layout and status error page.
func (b *Builder) Freeze() *Registry {
	r := &Registry{
		endpoints: make(map[string]*Endpoint, len(b.endpoints)),
		templates: b.templates,
	}
	for path, ep := range b.endpoints {
		r.endpoints[path] = ep
		r.sorted = append(r.sorted, ep)
	}
	sort.Slice(r.sorted, func(i, j int) bool {
		return r.sorted[i].path < r.sorted[j].path
	})

	if r.templates.Layout == nil {
		r.templates.Layout = DefaultLayout
	}
	if r.templates.Error == nil {
		r.templates.Error = DefaultError
		r.templates.ErrorStyle = Text{}
	}
	return r
}

// DefaultLayout is used when the tree has no +root.go.
func DefaultLayout(props server.LayoutProps) (string, error) {
	return "<!DOCTYPE html><html><head></head><body>" + props.Body + "</body></html>", nil
}

// DefaultError is used when the tree has no +error.go. It renders the
// status of the response, which is always 404.
func DefaultError(server.ErrorProps) (string, error) {
	return "<h1>" + strconv.Itoa(http.StatusNotFound) + "</h1>", nil
}
