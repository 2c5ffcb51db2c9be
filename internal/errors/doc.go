// Package errors provides structured, actionable error values for pagetree.
//
// Every error carries a registered code (e.g. "E101") that maps to a
// category, a short message and a longer explanation:
//
//   - discovery: the route tree could not be read or bound (fatal at startup)
//   - request: a request resolved to no endpoint
//   - handler: a view, API handler or payload provider failed
//   - pipeline: parsing, serializing or minifying a document failed
//   - config: pagetree.json could not be loaded
//   - codegen: a code artifact is missing its expected export
//
// # Usage
//
//	err := errors.New("E102").
//	    WithDetail("routes/blog/+view.go has no catalog binding").
//	    WithSuggestion("Run 'pagetree gen' to regenerate catalog_gen.go")
//
//	fmt.Println(err.Format())
//
// Use CategoryOf to classify an arbitrary error chain.
package errors
