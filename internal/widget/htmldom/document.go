// Package htmldom implements widget.RenderTarget on top of a parsed HTML
// document, so widgets can be mounted and rendered server side.
package htmldom

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"vidembed/internal/widget"
)

// Node wraps an html.Node created by a Document.
type Node struct {
	doc  *Document
	node *html.Node
}

// HTML returns the node's own parent-independent markup.
func (n *Node) HTML() string {
	var buf bytes.Buffer
	_ = html.Render(&buf, n.node)
	return buf.String()
}

// Attr returns the value of attribute key and whether it is present.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.node.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Tag returns the element name.
func (n *Node) Tag() string { return n.node.Data }

// Text returns the concatenated text content.
func (n *Node) Text() string {
	return goquery.NewDocumentFromNode(n.node).Text()
}

func (n *Node) Append(children ...widget.Element) {
	for _, c := range children {
		child, ok := c.(*Node)
		if !ok || child == nil {
			continue
		}
		if child.node.Parent != nil {
			child.node.Parent.RemoveChild(child.node)
		}
		n.node.AppendChild(child.node)
	}
}

func (n *Node) OnClick(fn func()) {
	n.doc.on(n.node, "click", func(float64) { fn() })
}

func (n *Node) OnLoadedMetadata(fn func(durationSeconds float64)) {
	n.doc.on(n.node, "loadedmetadata", fn)
}

// Document is a host page that widgets can be mounted into.
type Document struct {
	root *html.Node

	mu       sync.Mutex
	handlers map[*html.Node]map[string][]func(float64)
}

// Parse reads a host page.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmldom: parse: %w", err)
	}
	return &Document{root: root, handlers: map[*html.Node]map[string][]func(float64){}}, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// HostPage returns a minimal page whose body holds one empty div per anchor id.
func HostPage(title string, anchorIDs ...string) *Document {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title></head><body>")
	for _, id := range anchorIDs {
		b.WriteString(`<div id="`)
		b.WriteString(html.EscapeString(id))
		b.WriteString(`"></div>`)
	}
	b.WriteString("</body></html>")
	doc, _ := ParseString(b.String())
	return doc
}

func (d *Document) element(a atom.Atom, className string, attrs ...html.Attribute) *Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if className != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: className})
	}
	n.Attr = append(n.Attr, attrs...)
	return &Node{doc: d, node: n}
}

func (d *Document) CreateContainer(className string) widget.Element {
	return d.element(atom.Div, className)
}

func (d *Document) CreateFrame(src, allow, className string) widget.MediaElement {
	return d.element(atom.Iframe, className,
		html.Attribute{Key: "src", Val: src},
		html.Attribute{Key: "allow", Val: allow},
		html.Attribute{Key: "frameborder", Val: "0"},
	)
}

func (d *Document) CreateVideo(src string, opts widget.PlaybackOptions, className string) widget.MediaElement {
	attrs := []html.Attribute{{Key: "src", Val: src}}
	flags := []struct {
		on  bool
		key string
	}{
		{opts.PlaysInline, "playsinline"},
		{opts.Muted, "muted"},
		{opts.Autoplay, "autoplay"},
		{opts.Loop, "loop"},
	}
	for _, f := range flags {
		if f.on {
			attrs = append(attrs, html.Attribute{Key: f.key})
		}
	}
	return d.element(atom.Video, className, attrs...)
}

func (d *Document) CreateButton(text, className string) widget.Control {
	n := d.element(atom.Button, className, html.Attribute{Key: "type", Val: "button"})
	n.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

func (d *Document) Attach(anchorID string, el widget.Element) bool {
	node, ok := el.(*Node)
	if !ok || node == nil {
		return false
	}
	anchor := d.Find(anchorID)
	if anchor == nil {
		return false
	}
	anchor.Append(node)
	return true
}

// Find returns the element with the given id, or nil.
func (d *Document) Find(id string) *Node {
	if id == "" {
		return nil
	}
	sel := goquery.NewDocumentFromNode(d.root).Find(`[id="` + cssEscape(id) + `"]`).First()
	if sel.Length() == 0 {
		return nil
	}
	return &Node{doc: d, node: sel.Get(0)}
}

// Click dispatches a click on el.
func (d *Document) Click(el widget.Element) {
	d.dispatch(el, "click", 0)
}

// LoadedMetadata dispatches a loaded-metadata event carrying the duration.
func (d *Document) LoadedMetadata(el widget.Element, durationSeconds float64) {
	d.dispatch(el, "loadedmetadata", durationSeconds)
}

// Render writes the whole document.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document, returning an empty string on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

func (d *Document) on(n *html.Node, event string, fn func(float64)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	byEvent, ok := d.handlers[n]
	if !ok {
		byEvent = map[string][]func(float64){}
		d.handlers[n] = byEvent
	}
	byEvent[event] = append(byEvent[event], fn)
}

func (d *Document) dispatch(el widget.Element, event string, value float64) {
	node, ok := el.(*Node)
	if !ok || node == nil {
		return
	}
	d.mu.Lock()
	fns := append([]func(float64){}, d.handlers[node.node][event]...)
	d.mu.Unlock()
	for _, fn := range fns {
		fn(value)
	}
}

func cssEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return r.Replace(s)
}

var _ widget.RenderTarget = (*Document)(nil)
