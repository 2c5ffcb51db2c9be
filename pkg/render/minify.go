package render

import (
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	mhtml "github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// Media types used by the minifier.
const (
	MediaCSS  = "text/css"
	MediaHTML = "text/html"
	MediaJS   = "application/javascript"
)

var jsMediaType = regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`)

// Minifier minifies stylesheets, scripts and documents.
type Minifier interface {
	CSS(src string) (string, error)
	JS(src string) (string, error)
	HTML(src string) (string, error)
}

// Tdewolff is the Minifier backed by github.com/tdewolff/minify. HTML
// minification keeps document and end tags and minifies embedded scripts
// and stylesheets.
type Tdewolff struct {
	m *minify.M
}

// NewTdewolff returns the default minifier.
func NewTdewolff() *Tdewolff {
	m := minify.New()
	m.AddFunc(MediaCSS, css.Minify)
	m.AddFuncRegexp(jsMediaType, js.Minify)
	m.Add(MediaHTML, &mhtml.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	return &Tdewolff{m: m}
}

// CSS implements Minifier.
func (t *Tdewolff) CSS(src string) (string, error) { return t.m.String(MediaCSS, src) }

// JS implements Minifier.
func (t *Tdewolff) JS(src string) (string, error) { return t.m.String(MediaJS, src) }

// HTML implements Minifier.
func (t *Tdewolff) HTML(src string) (string, error) { return t.m.String(MediaHTML, src) }

// Identity is a Minifier that returns its input unchanged. It is useful
// when debugging markup.
type Identity struct{}

func (Identity) CSS(src string) (string, error)  { return src, nil }
func (Identity) JS(src string) (string, error)   { return src, nil }
func (Identity) HTML(src string) (string, error) { return src, nil }
