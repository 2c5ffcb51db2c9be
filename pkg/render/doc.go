// Package render turns view fragments into final pagetree documents.
//
// A rendered view goes through these stages:
//
//   - the view body is wrapped in the root layout
//   - the root stylesheet, client script, client stylesheet and head
//     fragment are appended to <head>, in that order
//   - every <style> element is consolidated by the Inliner into one
//     minified stylesheet linked as a base64 data URI
//   - the document is minified
//
// Parsing and serialization go through the Parser interface (HTML5, backed
// by golang.org/x/net/html); minification goes through Minifier (Tdewolff,
// backed by github.com/tdewolff/minify).
//
// # Usage
//
//	p := render.NewPipeline(render.HTML5{}, render.NewTdewolff())
//	out, err := p.RenderView(ctx, render.Page{
//	    Props:     props,
//	    View:      ep.View(),
//	    Templates: reg.Templates(),
//	})
//
// Pipeline stages are traced with OpenTelemetry under the TracerName scope.
package render
