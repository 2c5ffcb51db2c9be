// Package pagetree is a convention-based server-rendering router.
//
// A pagetree application is a directory tree:
//
//	site/
//	    +root.go        root layout (optional)
//	    +root.css       root stylesheet (optional)
//	    +error.go       error page (optional)
//	    +error.css      error stylesheet (optional)
//	    routes/
//	        +view.go    GET /
//	        about/
//	            +view.go
//	            +view.css
//	            +view.js
//	        api/users/
//	            +get.go
//	            +post.go
//
// Every directory below routes/ becomes one endpoint. Directories holding
// +view.* files are pages; directories holding +<method>.go files are JSON
// APIs. The functions behind the .go artifacts are bound through a Catalog,
// usually generated by `pagetree gen`.
//
// Pages are composed from the root layout and the view, then all inline
// styles are consolidated into a single stylesheet link and the document is
// minified. Any request that does not produce a 200 from a known endpoint is
// answered with the rendered error page and status 404.
//
//	app := pagetree.New(pagetree.Config{
//	    Root:    "site",
//	    Catalog: site.Catalog(),
//	})
//	http.ListenAndServe(":8080", app)
package pagetree

import (
	"github.com/vango-dev/pagetree/internal/errors"
	"github.com/vango-dev/pagetree/pkg/router"
	"github.com/vango-dev/pagetree/pkg/server"
)

// =============================================================================
// Type Aliases
// =============================================================================

type (
	// Ctx is the per-request context passed to user functions.
	Ctx = server.Ctx

	// Props is the per-request bag passed to views and API handlers.
	Props = server.Props

	// LayoutProps is passed to the root layout.
	LayoutProps = server.LayoutProps

	// ErrorProps is passed to the error page.
	ErrorProps = server.ErrorProps

	// PayloadProvider computes the per-request payload.
	PayloadProvider = server.PayloadProvider

	// PayloadFunc adapts a function to PayloadProvider.
	PayloadFunc = server.PayloadFunc

	// RequestLogger is called once per request after the response is final.
	RequestLogger = server.RequestLogger

	// RequestLoggerFunc adapts a function to RequestLogger.
	RequestLoggerFunc = server.RequestLoggerFunc

	// Catalog binds code artifacts to Go functions.
	Catalog = router.Catalog

	// Method is an API method.
	Method = router.Method

	// ErrorCategory classifies failures.
	ErrorCategory = errors.Category
)

// API methods, in canonical order.
const (
	GET     = router.MethodGet
	HEAD    = router.MethodHead
	PATCH   = router.MethodPatch
	OPTIONS = router.MethodOptions
	DELETE  = router.MethodDelete
	POST    = router.MethodPost
	PUT     = router.MethodPut
)

// Error categories.
const (
	CategoryDiscovery = errors.CategoryDiscovery
	CategoryRequest   = errors.CategoryRequest
	CategoryHandler   = errors.CategoryHandler
	CategoryPipeline  = errors.CategoryPipeline
	CategoryConfig    = errors.CategoryConfig
)

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog { return router.NewCatalog() }

// ErrorCategoryOf returns the category of err, or "" for errors that did
// not originate in pagetree.
func ErrorCategoryOf(err error) ErrorCategory { return errors.CategoryOf(err) }

// ErrorCodeOf returns the code (for example "E101") of err, or "".
func ErrorCodeOf(err error) string { return errors.CodeOf(err) }
