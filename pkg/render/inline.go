package render

import (
	"encoding/base64"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/pagetree/internal/errors"
)

// Doctype prefixes every serialized document.
const Doctype = "<!DOCTYPE html>\n"

// styleBlock matches a <style> element up to the first closing tag.
var styleBlock = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style\s*>`)

// Inliner consolidates every <style> block of a document into a single
// minified stylesheet linked as a base64 data URI.
type Inliner struct {
	parser   Parser
	minifier Minifier
}

// NewInliner creates an Inliner.
func NewInliner(p Parser, m Minifier) *Inliner {
	return &Inliner{parser: p, minifier: m}
}

// Inline returns src with all <style> elements removed and one
// <link rel="stylesheet"> appended to <head> whose payload is the
// minified concatenation of the removed styles, in document order.
// The link is added even when src has no styles.
func (i *Inliner) Inline(src string) (string, error) {
	doc, css, err := i.Consolidate(src)
	if err != nil {
		return "", err
	}
	doc.AppendToHead(StylesheetLink(css))

	out, err := doc.String()
	if err != nil {
		return "", errors.New("E302").Wrap(err)
	}
	return Doctype + out, nil
}

// Consolidate is Inline without the link: it returns src stripped of its
// <style> elements together with their minified concatenation.
func (i *Inliner) Consolidate(src string) (*Document, string, error) {
	clean := styleBlock.ReplaceAllString(src, "")

	dirty, err := ParseDocument(i.parser, src)
	if err != nil {
		return nil, "", errors.New("E300").Wrap(err)
	}
	doc, err := ParseDocument(i.parser, clean)
	if err != nil {
		return nil, "", errors.New("E300").Wrap(err)
	}

	css, err := i.minifier.CSS(strings.Join(dirty.Styles(), ""))
	if err != nil {
		return nil, "", errors.New("E301").WithDetail("stylesheet").Wrap(err)
	}
	return doc, css, nil
}

// StylesheetLink returns <link rel="stylesheet" type="text/css"> carrying
// css as a base64 data URI.
func StylesheetLink(css string) *html.Node {
	return CreateElement(atom.Link,
		html.Attribute{Key: "rel", Val: "stylesheet"},
		html.Attribute{Key: "type", Val: "text/css"},
		html.Attribute{Key: "href", Val: DataURI(css)},
	)
}

// DataURI encodes css as a data:text/css;base64 URI.
func DataURI(css string) string {
	return "data:text/css;base64," + base64.StdEncoding.EncodeToString([]byte(css))
}
