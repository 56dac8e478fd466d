package chart

import (
	"encoding/json"

	"github.com/LMascagni/simasm/pkg/lanes"
	"github.com/LMascagni/simasm/pkg/layout"
	"github.com/LMascagni/simasm/pkg/refgraph"
	"github.com/LMascagni/simasm/pkg/route"
)

type jsonOutput struct {
	Title      string                `json:"title"`
	Width      float64               `json:"width"`
	Height     float64               `json:"height"`
	Boxes      []layout.Box          `json:"boxes"`
	Connectors []layout.Connector    `json:"connectors,omitempty"`
	Lanes      []lanes.Lane          `json:"lanes"`
	Paths      []route.Path          `json:"paths"`
	Unresolved []string              `json:"unresolved,omitempty"`
	Duplicates []refgraph.Definition `json:"duplicates,omitempty"`
}

// RenderJSON serializes the chart model: boxes with token geometry, lanes and
// routed paths.
func RenderJSON(c Chart) ([]byte, error) {
	out := jsonOutput{
		Title: c.title(),
		Lanes: c.Lanes,
		Paths: c.Paths,
	}
	if g := c.Geometry; g != nil {
		out.Width, out.Height = g.Width, g.Height
		out.Boxes, out.Connectors = g.Boxes, g.Connectors
	}
	if c.Graph != nil {
		out.Unresolved = c.Graph.Unresolved()
		out.Duplicates = c.Graph.Duplicates
	}
	if out.Boxes == nil {
		out.Boxes = []layout.Box{}
	}
	if out.Lanes == nil {
		out.Lanes = []lanes.Lane{}
	}
	if out.Paths == nil {
		out.Paths = []route.Path{}
	}
	return json.MarshalIndent(out, "", "  ")
}
