package chart

import (
	"encoding/json"
	"time"

	"golang.org/x/net/html"

	"github.com/LMascagni/simasm/pkg/fonts"
	"github.com/LMascagni/simasm/pkg/lanes"
	"github.com/LMascagni/simasm/pkg/layout"
	"github.com/LMascagni/simasm/pkg/markup"
	"github.com/LMascagni/simasm/pkg/refgraph"
	"github.com/LMascagni/simasm/pkg/route"
)

// DefaultTitle is used when a chart has no title.
const DefaultTitle = "SIMASM Flow Chart"

// Chart is everything needed to draw one surface.
type Chart struct {
	Title    string
	Geometry *layout.Geometry
	Graph    *refgraph.Graph
	Lanes    []lanes.Lane
	Paths    []route.Path
	// FontSize is the code font size in pixels.
	FontSize float64
}

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	jumpURL     string
	resizeURL   string
	revisionURL string
	revision    string
	poll        time.Duration
	embedFont   bool
}

// WithEndpoints makes the document post navigation and resize events to the
// given URLs when it is not hosted inside an editor webview.
func WithEndpoints(jump, resize string) Option {
	return func(r *renderer) { r.jumpURL, r.resizeURL = jump, resize }
}

// WithLiveReload makes the document poll url every interval and reload when
// the revision differs from rev.
func WithLiveReload(url, rev string, interval time.Duration) Option {
	return func(r *renderer) { r.revisionURL, r.revision, r.poll = url, rev, interval }
}

// WithEmbeddedFont inlines the measuring font as a data URL.
func WithEmbeddedFont() Option { return func(r *renderer) { r.embedFont = true } }

func newRenderer(opts ...Option) renderer {
	var r renderer
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (c Chart) title() string {
	if c.Title == "" {
		return DefaultTitle
	}
	return c.Title
}

func (c Chart) fontSize() float64 {
	if c.FontSize <= 0 {
		return layout.DefaultConfig().FontSize
	}
	return c.FontSize
}

// RenderSVG returns a standalone SVG document.
func RenderSVG(c Chart, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	svg := Surface(c)
	markup.SetAttr(svg, "xmlns", "http://www.w3.org/2000/svg")
	svg.InsertBefore(markup.El("style", nil, markup.Text(r.css())), svg.FirstChild)
	return markup.Bytes(svg)
}

// RenderHTML returns the interactive document.
func RenderHTML(c Chart, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	doc := markup.Document(c.title(), r.head(),
		markup.El("h1", nil, markup.Text(c.title())),
		markup.El("div", markup.Attrs("class", "surface", "id", "surface"), Surface(c)),
	)
	body := markup.Find(doc, "body")[0]
	cfg, err := r.config()
	if err != nil {
		return nil, err
	}
	markup.Append(body, cfg, markup.El("script", nil, markup.Text(script)))
	return markup.Bytes(doc)
}

// RenderPlaceholder returns the document shown when no sections were found.
func RenderPlaceholder(title, markerExample string, opts ...Option) ([]byte, error) {
	if title == "" {
		title = DefaultTitle
	}
	r := newRenderer(opts...)
	doc := markup.Document(title, r.head(),
		markup.El("h1", nil, markup.Text(title)),
		Placeholder(markerExample),
	)
	body := markup.Find(doc, "body")[0]
	cfg, err := r.config()
	if err != nil {
		return nil, err
	}
	markup.Append(body, cfg, markup.El("script", nil, markup.Text(script)))
	return markup.Bytes(doc)
}

// Placeholder returns the explanatory block for a document with no sections.
func Placeholder(markerExample string) *html.Node {
	return markup.El("div", markup.Attrs("class", "placeholder"),
		markup.El("h2", nil, markup.Text("No sections found")),
		markup.El("p", nil, markup.Text("Group lines into chart boxes with a section marker comment:")),
		markup.El("pre", nil, markup.El("code", nil, markup.Text(markerExample))),
		markup.El("p", nil, markup.Text("A marker is a comment holding a run of three or more identical "+
			"punctuation characters, a name, and the same run again.")),
	)
}

func (r renderer) head() []*html.Node {
	return []*html.Node{markup.El("style", nil, markup.Text(r.css()))}
}

func (r renderer) css() string {
	if !r.embedFont {
		return stylesheet
	}
	return "@font-face { font-family: '" + fonts.FontFamily + "'; src: url(data:font/ttf;base64," +
		fonts.MonoBase64() + ") format('truetype'); }\n" + stylesheet
}

type scriptConfig struct {
	Jump     string `json:"jump,omitempty"`
	Resize   string `json:"resize,omitempty"`
	Revision string `json:"revision,omitempty"`
	Current  string `json:"current,omitempty"`
	PollMS   int64  `json:"pollMs,omitempty"`
}

func (r renderer) config() (*html.Node, error) {
	data, err := json.Marshal(scriptConfig{
		Jump:     r.jumpURL,
		Resize:   r.resizeURL,
		Revision: r.revisionURL,
		Current:  r.revision,
		PollMS:   r.poll.Milliseconds(),
	})
	if err != nil {
		return nil, err
	}
	return markup.El("script", markup.Attrs("type", "application/json", "id", "simasm-config"),
		markup.Text(string(data))), nil
}
