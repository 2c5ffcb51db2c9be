package render

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parser parses and serializes HTML documents.
type Parser interface {
	// Parse parses a full document. The result always has html, head and
	// body elements.
	Parse(src string) (*html.Node, error)

	// ParseFragment parses src as the children of context.
	ParseFragment(src string, context *html.Node) ([]*html.Node, error)

	// Render serializes n and its descendants.
	Render(w io.Writer, n *html.Node) error
}

// HTML5 is the Parser backed by golang.org/x/net/html, which implements the
// WHATWG parsing algorithm.
type HTML5 struct{}

var _ Parser = HTML5{}

// Parse implements Parser.
func (HTML5) Parse(src string) (*html.Node, error) {
	return html.Parse(strings.NewReader(src))
}

// ParseFragment implements Parser.
func (HTML5) ParseFragment(src string, context *html.Node) ([]*html.Node, error) {
	return html.ParseFragment(strings.NewReader(src), context)
}

// Render implements Parser.
func (HTML5) Render(w io.Writer, n *html.Node) error {
	return html.Render(w, n)
}

// Document is a parsed page that fragments can be appended to.
type Document struct {
	parser Parser
	root   *html.Node
}

// ParseDocument parses src with p.
func ParseDocument(p Parser, src string) (*Document, error) {
	root, err := p.Parse(src)
	if err != nil {
		return nil, err
	}
	return &Document{parser: p, root: root}, nil
}

// Element returns the document element (<html>).
func (d *Document) Element() *html.Node {
	return findElement(d.root, atom.Html)
}

// Head returns the <head> element.
func (d *Document) Head() *html.Node {
	return findElement(d.root, atom.Head)
}

// Body returns the <body> element.
func (d *Document) Body() *html.Node {
	return findElement(d.root, atom.Body)
}

// AppendToHead appends n as the last child of <head>.
func (d *Document) AppendToHead(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	d.Head().AppendChild(n)
}

// AppendText appends <tag>text</tag> to <head>, e.g. a <script> or <style>.
func (d *Document) AppendText(tag atom.Atom, text string, attrs ...html.Attribute) {
	el := CreateElement(tag, attrs...)
	el.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	d.AppendToHead(el)
}

// AppendFragment parses fragment as the content of a detached <div> and
// appends each resulting node to <head> in order.
func (d *Document) AppendFragment(fragment string) error {
	container := CreateElement(atom.Div)
	nodes, err := d.parser.ParseFragment(fragment, container)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		d.AppendToHead(n)
	}
	return nil
}

// Styles returns the text of every <style> element in document order.
func (d *Document) Styles() []string {
	var styles []string
	walk(d.root, func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.Style {
			return
		}
		var b strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
		styles = append(styles, b.String())
	})
	return styles
}

// String serializes the document element, without a doctype.
func (d *Document) String() (string, error) {
	var b strings.Builder
	el := d.Element()
	if el == nil {
		el = d.root
	}
	if err := d.parser.Render(&b, el); err != nil {
		return "", err
	}
	return b.String(), nil
}

// CreateElement returns a detached element node.
func CreateElement(tag atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: tag,
		Data:     tag.String(),
		Attr:     attrs,
	}
}

func findElement(n *html.Node, tag atom.Atom) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) {
		if found == nil && c.Type == html.ElementNode && c.DataAtom == tag {
			found = c
		}
	})
	return found
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
