// Package codegen generates the catalog of an application tree.
//
// Every .go artifact is parsed to check that it exports the function its
// file name requires:
//
//	+view.go       View, and optionally a Head string
//	+<method>.go   the upper-case method name, e.g. GET
//	+root.go       Layout
//	+error.go      Error
//
// The output is a catalog/catalog_gen.go file below the application root
// declaring `func Catalog() *router.Catalog`. Generation is deterministic.
package codegen
