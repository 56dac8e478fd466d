// Package layout computes chart geometry for tokenized sections.
//
// Every section becomes one box. Boxes share a common width (the widest
// content plus slack, never narrower than [Config.MinBoxWidth]) and are
// stacked top to bottom with a fixed gap, leaving a gutter on the left for
// routing lanes. Text is measured with a [Measurer]; [FontMeasurer] uses the
// Go Mono face so the numbers match the rendered document.
//
// Geometry is computed synchronously and from scratch on every call.
package layout
