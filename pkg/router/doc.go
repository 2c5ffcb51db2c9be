// Package router implements convention-based endpoint discovery for pagetree.
//
// The router provides:
//   - Artifact discovery from <root>/routes
//   - Binding of Go code artifacts through a Catalog
//   - Validation of kind conflicts and unbound artifacts
//   - A frozen Registry of view and API endpoints
//
// # File Structure Convention
//
// Every directory under routes/ is one endpoint. Its path is the
// directory relative to routes/:
//
//	app/
//	├── +root.go           → root layout (Catalog.Layout)
//	├── +root.css          → root stylesheet
//	├── +error.go          → error page (Catalog.Error)
//	├── +error.css         → error stylesheet
//	└── routes/
//	    ├── +view.go       → view /
//	    ├── blog/
//	    │   ├── +view.go   → view /blog
//	    │   ├── +view.js   → client script of /blog
//	    │   └── +view.css  → client stylesheet of /blog
//	    └── api/items/
//	        ├── +get.go    → GET /api/items
//	        └── +post.go   → POST /api/items
//
// Recognized API files are +get.go, +head.go, +patch.go, +options.go,
// +delete.go, +post.go and +put.go. Any other file is ignored. A directory
// may not mix view and API artifacts.
//
// # Usage
//
//	catalog := router.NewCatalog().
//	    View("/blog", blog.View).
//	    API("/api/items", router.MethodGet, items.GET)
//
//	reg, err := router.Discover("app", catalog)
//	if err != nil {
//	    // *MultiValidationError or a structured E100/E103 error
//	}
//
//	ep, ok := reg.Lookup("/blog")
//	if ok && ep.Kind() == router.KindView {
//	    body, _ := ep.View().Body(props)
//	}
package router
