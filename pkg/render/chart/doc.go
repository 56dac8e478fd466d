// Package chart renders a measured SIMASM flowchart as SVG and HTML.
//
// The output is built as a typed node tree with [markup] and serialized once.
// Each section is a box with a header and syntax-highlighted code lines;
// consecutive boxes are joined by a downward arrow, and every routed
// reference is drawn as an orthogonal connector ending in an arrowhead on the
// definition. Same-box and cross-box connectors differ in style only.
//
// [RenderHTML] wraps the SVG surface in a self-contained document whose
// script posts {"command":"jumpToLine","line":N} to its host when a header,
// code line or reference is clicked. [RenderPlaceholder] produces the
// document shown when a source has no section markers.
//
// [markup]: github.com/LMascagni/simasm/pkg/markup
package chart
