package router

import (
	"net/http"
	"strings"

	"github.com/vango-dev/pagetree/pkg/server"
)

// ViewFunc renders the body fragment of a view.
type ViewFunc func(props server.Props) (string, error)

// APIFunc handles one method of an API endpoint. The result is JSON-encoded.
type APIFunc func(ctx server.Ctx, props server.Props) (any, error)

// LayoutFunc renders the root layout around a view fragment.
type LayoutFunc func(props server.LayoutProps) (string, error)

// ErrorFunc renders the error document.
type ErrorFunc func(props server.ErrorProps) (string, error)

// Kind classifies an endpoint.
type Kind int

const (
	// KindView is a server-rendered HTML page.
	KindView Kind = iota + 1

	// KindAPI is a JSON endpoint with one handler per method.
	KindAPI
)

func (k Kind) String() string {
	switch k {
	case KindView:
		return "view"
	case KindAPI:
		return "api"
	default:
		return "unknown"
	}
}

// Method is an HTTP method an API endpoint can handle.
type Method int

// Methods in canonical order.
const (
	MethodGet Method = iota
	MethodHead
	MethodPatch
	MethodOptions
	MethodDelete
	MethodPost
	MethodPut

	numMethods
)

var methodNames = [numMethods]string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPatch,
	http.MethodOptions,
	http.MethodDelete,
	http.MethodPost,
	http.MethodPut,
}

// String returns the HTTP method name, e.g. "GET".
func (m Method) String() string {
	if m < 0 || m >= numMethods {
		return "UNKNOWN"
	}
	return methodNames[m]
}

// AllMethods returns every method in canonical order.
func AllMethods() []Method {
	ms := make([]Method, numMethods)
	for i := range ms {
		ms[i] = Method(i)
	}
	return ms
}

// ParseMethod resolves an HTTP method name (any case).
func ParseMethod(name string) (Method, bool) {
	for i, n := range methodNames {
		if strings.EqualFold(n, name) {
			return Method(i), true
		}
	}
	return 0, false
}

// Text is an optional text resource. The zero value means absent.
type Text struct {
	value string
	ok    bool
}

// SomeText returns a present Text. The empty string is a valid value.
func SomeText(s string) Text {
	return Text{value: s, ok: true}
}

// Get returns the value and whether it is present.
func (t Text) Get() (string, bool) {
	return t.value, t.ok
}

// Present reports whether the text was provided.
func (t Text) Present() bool { return t.ok }

// ViewHandlers holds the artifacts of a view endpoint.
type ViewHandlers struct {
	// Body renders the page fragment. nil renders the empty fragment.
	Body ViewFunc

	// Head is an HTML fragment appended to <head>.
	Head Text

	// Script is the client script (+view.js).
	Script Text

	// Style is the client stylesheet (+view.css).
	Style Text
}

// APIHandlers holds one optional handler per method.
type APIHandlers struct {
	handlers [numMethods]APIFunc
}

// Handler returns the handler for m, or nil.
func (a *APIHandlers) Handler(m Method) APIFunc {
	if m < 0 || m >= numMethods {
		return nil
	}
	return a.handlers[m]
}

// Set assigns the handler for m.
func (a *APIHandlers) Set(m Method, fn APIFunc) {
	a.handlers[m] = fn
}

// Methods returns the methods that have a handler, in canonical order.
func (a *APIHandlers) Methods() []Method {
	var ms []Method
	for i, h := range a.handlers {
		if h != nil {
			ms = append(ms, Method(i))
		}
	}
	return ms
}

// Endpoint is one discovered route. It is either a view or an API.
type Endpoint struct {
	path  string
	kind  Kind
	view  *ViewHandlers
	api   *APIHandlers
	files []string
}

// Path returns the normalized URL path.
func (e *Endpoint) Path() string { return e.path }

// Kind returns the endpoint kind.
func (e *Endpoint) Kind() Kind { return e.kind }

// View returns the view artifacts, or nil for API endpoints.
func (e *Endpoint) View() *ViewHandlers { return e.view }

// API returns the API handlers, or nil for view endpoints.
func (e *Endpoint) API() *APIHandlers { return e.api }

// Files returns the artifact file names that make up the endpoint.
func (e *Endpoint) Files() []string { return append([]string(nil), e.files...) }

// Templates are the root-level artifacts shared by every page.
type Templates struct {
	// Layout wraps every view. It is never nil after discovery.
	Layout LayoutFunc

	// Style is the root stylesheet (+root.css).
	Style Text

	// Error renders the error document. It is never nil after discovery.
	Error ErrorFunc

	// ErrorStyle is the error stylesheet (+error.css).
	ErrorStyle Text
}
