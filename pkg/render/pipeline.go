package render

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/pagetree/internal/errors"
	"github.com/vango-dev/pagetree/pkg/router"
	"github.com/vango-dev/pagetree/pkg/server"
)

// TracerName is the instrumentation scope of pipeline spans.
const TracerName = "github.com/vango-dev/pagetree/pkg/render"

// Page is everything needed to render one view.
type Page struct {
	// Props are passed to Body.
	Props server.Props

	// View holds the body function and the per-page fragments.
	View *router.ViewHandlers

	// Templates holds the root layout and stylesheet.
	Templates router.Templates

	// RootValues are passed to the layout as LayoutProps.Values.
	RootValues map[string]any
}

// ErrorPage is everything needed to render the error document.
type ErrorPage struct {
	Props     server.ErrorProps
	Templates router.Templates
}

// Pipeline renders views and error documents: layout composition,
// fragment injection, style consolidation and HTML minification.
type Pipeline struct {
	parser   Parser
	minifier Minifier
	inliner  *Inliner
	tracer   trace.Tracer

	// script is appended to every view, after the head fragment.
	script string
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithTracer sets the tracer used for pipeline spans. The default is the
// global tracer provider.
func WithTracer(t trace.Tracer) PipelineOption {
	return func(p *Pipeline) {
		p.tracer = t
	}
}

// WithScript appends an inline script to every rendered view.
func WithScript(js string) PipelineOption {
	return func(p *Pipeline) {
		p.script = js
	}
}

// NewPipeline creates a pipeline. Nil arguments select HTML5 and the
// tdewolff minifier.
func NewPipeline(parser Parser, minifier Minifier, opts ...PipelineOption) *Pipeline {
	if parser == nil {
		parser = HTML5{}
	}
	if minifier == nil {
		minifier = NewTdewolff()
	}
	p := &Pipeline{
		parser:   parser,
		minifier: minifier,
		inliner:  NewInliner(parser, minifier),
		tracer:   otel.Tracer(TracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Inliner returns the pipeline's style inliner.
func (p *Pipeline) Inliner() *Inliner { return p.inliner }

// RenderView renders a full page.
func (p *Pipeline) RenderView(ctx context.Context, page Page) (out string, err error) {
	ctx, span := p.tracer.Start(ctx, "pagetree.render.view")
	defer func() { endSpan(span, err) }()

	view := page.View
	if view == nil {
		view = &router.ViewHandlers{}
	}

	var body string
	if view.Body != nil {
		body, err = view.Body(page.Props)
		if err != nil {
			return "", errors.FromError(err, "E201")
		}
	}

	layout := page.Templates.Layout
	if layout == nil {
		layout = router.DefaultLayout
	}
	rendered, err := layout(server.LayoutProps{
		Body:   body,
		Ctx:    page.Props.Ctx,
		Values: page.RootValues,
	})
	if err != nil {
		return "", errors.FromError(err, "E303")
	}

	doc, err := ParseDocument(p.parser, rendered)
	if err != nil {
		return "", errors.New("E300").Wrap(err)
	}
	if css, ok := page.Templates.Style.Get(); ok {
		doc.AppendText(atom.Style, css)
	}
	if js, ok := view.Script.Get(); ok {
		doc.AppendText(atom.Script, js)
	}
	if css, ok := view.Style.Get(); ok {
		doc.AppendText(atom.Style, css)
	}
	if head, ok := view.Head.Get(); ok {
		if err := doc.AppendFragment(head); err != nil {
			return "", errors.New("E300").WithDetail("head fragment").Wrap(err)
		}
	}
	if p.script != "" {
		doc.AppendText(atom.Script, p.script)
	}

	return p.finish(ctx, doc)
}

// RenderError renders the error document. The error stylesheet is
// minified before it is injected.
func (p *Pipeline) RenderError(ctx context.Context, page ErrorPage) (out string, err error) {
	ctx, span := p.tracer.Start(ctx, "pagetree.render.error",
		trace.WithAttributes(attribute.Int("pagetree.status", page.Props.Status)))
	defer func() { endSpan(span, err) }()

	tmpl := page.Templates.Error
	if tmpl == nil {
		tmpl = router.DefaultError
	}
	rendered, err := tmpl(page.Props)
	if err != nil {
		return "", errors.FromError(err, "E303")
	}

	doc, err := ParseDocument(p.parser, rendered)
	if err != nil {
		return "", errors.New("E300").Wrap(err)
	}
	if css, ok := page.Templates.ErrorStyle.Get(); ok {
		minified, err := p.minifier.CSS(css)
		if err != nil {
			return "", errors.New("E301").WithDetail("error stylesheet").Wrap(err)
		}
		doc.AppendText(atom.Style, minified)
	}

	return p.finish(ctx, doc)
}

// finish serializes doc, consolidates its styles and minifies the result.
// The stylesheet link is attached after HTML minification, which would
// otherwise rewrite its base64 data URI.
func (p *Pipeline) finish(ctx context.Context, doc *Document) (string, error) {
	serialized, err := doc.String()
	if err != nil {
		return "", errors.New("E302").Wrap(err)
	}

	_, span := p.tracer.Start(ctx, "pagetree.render.inline")
	clean, css, err := p.inliner.Consolidate(serialized)
	endSpan(span, err)
	if err != nil {
		return "", err
	}
	stripped, err := clean.String()
	if err != nil {
		return "", errors.New("E302").Wrap(err)
	}

	_, span = p.tracer.Start(ctx, "pagetree.render.minify")
	minified, err := p.minifier.HTML(Doctype + stripped)
	span.SetAttributes(attribute.Int("pagetree.bytes", len(minified)))
	if err != nil {
		err = errors.New("E301").WithDetail("document").Wrap(err)
	}
	endSpan(span, err)
	if err != nil {
		return "", err
	}

	final, err := ParseDocument(p.parser, minified)
	if err != nil {
		return "", errors.New("E300").WithDetail("minified document").Wrap(err)
	}
	final.AppendToHead(StylesheetLink(css))
	out, err := final.String()
	if err != nil {
		return "", errors.New("E302").Wrap(err)
	}
	return Doctype + out, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
