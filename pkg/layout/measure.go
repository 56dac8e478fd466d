package layout

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/LMascagni/simasm/pkg/errors"
	"github.com/LMascagni/simasm/pkg/fonts"
)

// TabWidth is the number of columns a tab occupies when measured and drawn.
const TabWidth = 4

// Measurer reports the horizontal advance of a string in pixels.
type Measurer interface {
	Advance(s string) float64
}

// FontMeasurer measures text with an OpenType face.
type FontMeasurer struct {
	face font.Face
}

// NewFontMeasurer loads Go Mono at the given size in points (72 DPI, so
// points equal pixels).
func NewFontMeasurer(size float64) (*FontMeasurer, error) {
	if size <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "font size must be positive")
	}
	fnt, err := opentype.Parse(fonts.MonoTTF())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse font")
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create font face")
	}
	return &FontMeasurer{face: face}, nil
}

// Advance implements Measurer.
func (m *FontMeasurer) Advance(s string) float64 {
	return toFloat(font.MeasureString(m.face, ExpandTabs(s)))
}

// Close releases the face.
func (m *FontMeasurer) Close() error {
	return m.face.Close()
}

// CellMeasurer treats every rune as one fixed-width cell.
type CellMeasurer struct {
	Width float64
}

// Advance implements Measurer.
func (m CellMeasurer) Advance(s string) float64 {
	return float64(len([]rune(ExpandTabs(s)))) * m.Width
}

// ExpandTabs replaces each tab with TabWidth spaces.
func ExpandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", TabWidth))
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
