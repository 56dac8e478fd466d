package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/LMascagni/simasm/pkg/cache"
	"github.com/LMascagni/simasm/pkg/errors"
	"github.com/LMascagni/simasm/pkg/layout"
	"github.com/LMascagni/simasm/pkg/render/nodelink"
	"github.com/LMascagni/simasm/pkg/source"
)

const scenario = "; --- INIT ---\nSTART: LDWI R0, 5\n JMP START\n; --- LOOP ---\n JMP START"

func testOptions(formats ...string) Options {
	opts := DefaultOptions()
	opts.Measurer = layout.CellMeasurer{Width: 7}
	if len(formats) > 0 {
		opts.Formats = formats
	}
	return opts
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"html", false},
		{"svg", false},
		{"json", false},
		{"dot", false},
		{"graph", false},
		{"png", true},
		{"HTML", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Layout != layout.DefaultConfig() {
		t.Errorf("Layout = %+v, want defaults", opts.Layout)
	}
	if opts.Measurer == nil || opts.Logger == nil {
		t.Error("measurer and logger should be set")
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatHTML {
		t.Errorf("Formats = %v, want [html]", opts.Formats)
	}

	bad := Options{Formats: []string{"pdf"}}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestOptionsValidateOnce(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	m := opts.Measurer
	if _, ok := m.(*layout.FontMeasurer); !ok {
		t.Fatalf("Measurer = %T, want *layout.FontMeasurer", m)
	}

	// Run and Render receive copies; a validated copy keeps the measurer.
	cp := opts
	if err := cp.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults(copy): %v", err)
	}
	if cp.Measurer != m {
		t.Error("validated copy replaced the measurer")
	}

	if err := opts.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
	if err := opts.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
}

func TestOptionsCloseKeepsCallerMeasurer(t *testing.T) {
	opts := testOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if err := opts.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
	if _, ok := opts.Measurer.(layout.CellMeasurer); !ok {
		t.Errorf("Measurer = %T, want caller's CellMeasurer", opts.Measurer)
	}
}

func TestRunScenario(t *testing.T) {
	res, err := NewRunner(nil).Run(context.Background(), source.New("t.asm", scenario), testOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Stats.Sections != 2 || res.Sections[0].Name != "INIT" || res.Sections[1].Name != "LOOP" {
		t.Errorf("sections = %+v", res.Sections)
	}
	if res.Stats.Definitions != 1 || res.Stats.References != 2 || res.Stats.Lanes != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if len(res.Paths) != 2 || !res.Paths[0].SameBox || res.Paths[1].SameBox {
		t.Errorf("paths = %+v", res.Paths)
	}
}

func TestRunNoSections(t *testing.T) {
	runner := NewRunner(nil)
	opts := testOptions(FormatHTML, FormatJSON)
	res, err := runner.Run(context.Background(), source.New("t.asm", "START: HLT\n JMP START"), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Empty() {
		t.Fatal("expected empty result")
	}

	out, err := runner.Render(context.Background(), res, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out[FormatHTML]), "No sections found") {
		t.Error("html should be the placeholder")
	}
	if !strings.Contains(string(out[FormatJSON]), `"paths": []`) {
		t.Error("json should list no paths")
	}
}

func TestRunUnresolved(t *testing.T) {
	res, err := NewRunner(nil).Run(context.Background(), source.New("t.asm", "; --- A ---\n JMP GOTOX"), testOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Paths) != 0 || res.Stats.Unresolved != 1 {
		t.Errorf("paths = %d, unresolved = %d, want 0 and 1", len(res.Paths), res.Stats.Unresolved)
	}
}

func TestRunIdempotent(t *testing.T) {
	runner := NewRunner(nil)
	opts := testOptions(FormatHTML, FormatSVG, FormatJSON, FormatDOT)
	doc := source.New("t.asm", scenario)

	render := func() map[string][]byte {
		res, err := runner.Run(context.Background(), doc, opts)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		out, err := runner.Render(context.Background(), res, opts)
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		return out
	}

	first, second := render(), render()
	for _, f := range opts.Formats {
		if string(first[f]) != string(second[f]) {
			t.Errorf("%s output differs between runs", f)
		}
	}
}

func TestRenderDOT(t *testing.T) {
	runner := NewRunner(nil)
	opts := testOptions(FormatDOT)
	res, err := runner.Run(context.Background(), source.New("t.asm", scenario), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out, err := runner.Render(context.Background(), res, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out[FormatDOT]), `s1 -> s0 [label="START"]`) {
		t.Errorf("dot = %s", out[FormatDOT])
	}
}

func TestRenderGraphUsesCache(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil)
	opts := testOptions(FormatGraph)
	mem := cache.NewMemoryCache(4)
	opts.Cache = mem

	res, err := runner.Run(ctx, source.New("t.asm", scenario), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	dot := nodelink.ToDOT(res.Tokens, res.Graph, nodelink.Options{})
	mem.Set(ctx, cache.Key("graph", dot), []byte("<svg>cached</svg>"), 0)

	out, err := runner.Render(ctx, res, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(out[FormatGraph]) != "<svg>cached</svg>" {
		t.Errorf("graph = %q, want cached entry", out[FormatGraph])
	}
}
