// Package markup builds HTML and SVG documents as typed node trees.
//
// Nodes are golang.org/x/net/html nodes, so escaping and serialization are
// handled once by [html.Render] at the boundary. Attribute order is the order
// of construction, which keeps output byte-for-byte reproducible.
package markup

import (
	"bytes"
	"math"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attr returns a single attribute.
func Attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// Attrs builds attributes from alternating keys and values. A trailing key
// without a value is ignored.
func Attrs(kv ...string) []html.Attribute {
	out := make([]html.Attribute, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return out
}

// El returns an element node with the given attributes and children.
// Nil children are skipped.
func El(tag string, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
	Append(n, children...)
	return n
}

// Text returns a text node. Inside <script> and <style> the text is written
// verbatim.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Append adds children to parent, skipping nil nodes.
func Append(parent *html.Node, children ...*html.Node) {
	for _, c := range children {
		if c != nil {
			parent.AppendChild(c)
		}
	}
}

// SetAttr sets or replaces an attribute on n.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// GetAttr returns the value of an attribute.
func GetAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Document wraps head and body content in a complete HTML5 document.
func Document(title string, head []*html.Node, body ...*html.Node) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	h := El("head", nil,
		El("meta", Attrs("charset", "utf-8")),
		El("meta", Attrs("name", "viewport", "content", "width=device-width, initial-scale=1")),
		El("title", nil, Text(title)),
	)
	Append(h, head...)

	doc.AppendChild(El("html", Attrs("lang", "en"), h, El("body", nil, body...)))
	return doc
}

// Bytes serializes n.
func Bytes(n *html.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Num formats a coordinate with at most two decimals.
func Num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Int formats an integer attribute value.
func Int(v int) string {
	return strconv.Itoa(v)
}

// Walk calls fn for n and every descendant in document order.
func Walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, fn)
	}
}

// Find returns every element with the given tag under n.
func Find(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	Walk(n, func(c *html.Node) {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
		}
	})
	return out
}
