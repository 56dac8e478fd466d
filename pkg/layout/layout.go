package layout

import (
	"github.com/LMascagni/simasm/pkg/token"
)

// Config holds the fixed metrics of a chart.
type Config struct {
	FontSize     float64
	LineHeight   float64
	Padding      float64
	HeaderHeight float64
	BoxGap       float64
	MinBoxWidth  float64
	// WidthSlack is added to the widest content before MinBoxWidth applies.
	WidthSlack float64
	// Left is the x of every box's left edge; the lane gutter lies to its left.
	Left float64
	// Margin surrounds the whole chart on the top, right and bottom.
	Margin float64
}

// DefaultConfig returns the standard chart metrics.
func DefaultConfig() Config {
	return Config{
		FontSize:     12,
		LineHeight:   16,
		Padding:      10,
		HeaderHeight: 32,
		BoxGap:       50,
		MinBoxWidth:  350,
		WidthSlack:   40,
		Left:         60,
		Margin:       20,
	}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns the x of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// MidX returns the horizontal center.
func (r Rect) MidX() float64 { return r.X + r.W/2 }

// MidY returns the vertical center.
func (r Rect) MidY() float64 { return r.Y + r.H/2 }

// TokenBox is a token with its bounding box.
type TokenBox struct {
	token.Token
	Rect Rect `json:"rect"`
}

// LineBox is one rendered code line.
type LineBox struct {
	Index    int        `json:"index"`
	DocLine  int        `json:"doc_line"`
	Rect     Rect       `json:"rect"`
	Baseline float64    `json:"baseline"`
	Tokens   []TokenBox `json:"tokens"`
}

// Box is the rendered container of one section.
type Box struct {
	Section    int       `json:"section"`
	Name       string    `json:"name"`
	MarkerLine int       `json:"marker_line"`
	Rect       Rect      `json:"rect"`
	Header     Rect      `json:"header"`
	Lines      []LineBox `json:"lines"`
}

// Connector is the downward arrow joining two consecutive boxes.
type Connector struct {
	X  float64 `json:"x"`
	Y1 float64 `json:"y1"`
	Y2 float64 `json:"y2"`
}

// Geometry is the measured layout of a document.
type Geometry struct {
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Boxes      []Box       `json:"boxes"`
	Connectors []Connector `json:"connectors"`

	anchors map[string]Rect
}

// Anchor returns the bounding box of the label token with the given key.
func (g *Geometry) Anchor(key string) (Rect, bool) {
	r, ok := g.anchors[key]
	return r, ok
}

// BoxLeft returns the left edge of the box of section s.
func (g *Geometry) BoxLeft(s int) (float64, bool) {
	if s < 0 || s >= len(g.Boxes) {
		return 0, false
	}
	return g.Boxes[s].Rect.X, true
}

// Compute lays out sections in order.
func Compute(sections []token.Section, m Measurer, cfg Config) *Geometry {
	g := &Geometry{anchors: make(map[string]Rect)}

	width := cfg.MinBoxWidth
	for _, s := range sections {
		width = max(width, contentWidth(s, m, cfg)+cfg.WidthSlack)
	}

	y := cfg.Margin
	for _, s := range sections {
		box := layoutBox(g, s, m, cfg, y, width)
		if n := len(g.Boxes); n > 0 {
			prev := g.Boxes[n-1].Rect
			g.Connectors = append(g.Connectors, Connector{X: prev.MidX(), Y1: prev.Bottom(), Y2: box.Rect.Y})
		}
		g.Boxes = append(g.Boxes, box)
		y = box.Rect.Bottom() + cfg.BoxGap
	}

	g.Width = cfg.Left + width + cfg.Margin
	g.Height = cfg.Margin
	if n := len(g.Boxes); n > 0 {
		g.Height += g.Boxes[n-1].Rect.Bottom()
	}
	return g
}

func contentWidth(s token.Section, m Measurer, cfg Config) float64 {
	w := m.Advance(s.Name)
	for _, l := range s.Lines {
		w = max(w, m.Advance(l.Text()))
	}
	return w
}

func layoutBox(g *Geometry, s token.Section, m Measurer, cfg Config, top, width float64) Box {
	box := Box{
		Section:    s.Index,
		Name:       s.Name,
		MarkerLine: s.MarkerLine,
		Header:     Rect{X: cfg.Left, Y: top, W: width, H: cfg.HeaderHeight},
	}

	x := cfg.Left + cfg.Padding
	y := top + cfg.HeaderHeight + cfg.Padding
	for _, l := range s.Lines {
		lb := LineBox{
			Index:    l.Index,
			DocLine:  l.DocLine,
			Rect:     Rect{X: cfg.Left, Y: y, W: width, H: cfg.LineHeight},
			Baseline: y + (cfg.LineHeight+cfg.FontSize)/2 - cfg.FontSize*0.2,
		}
		cx := x
		for _, t := range l.Tokens {
			w := m.Advance(t.Text)
			tb := TokenBox{Token: t, Rect: Rect{X: cx, Y: y, W: w, H: cfg.LineHeight}}
			if key := token.AnchorKey(t.Kind, s.Index, t.Line, t.Col); key != "" {
				g.anchors[key] = tb.Rect
			}
			lb.Tokens = append(lb.Tokens, tb)
			cx += w
		}
		box.Lines = append(box.Lines, lb)
		y += cfg.LineHeight
	}

	box.Rect = Rect{X: cfg.Left, Y: top, W: width, H: y + cfg.Padding - top}
	return box
}
