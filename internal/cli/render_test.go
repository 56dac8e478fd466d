package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/LMascagni/simasm/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to html", "", []string{"html"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "html,json,dot", []string{"html", "json", "dot"}},
		{"spaces and case", " SVG , graph ,", []string{"svg", "graph"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"html", []string{"html"}, false},
		{"all", pipeline.Formats, false},
		{"pdf", []string{"pdf"}, true},
		{"mixed valid invalid", []string{"svg", "png"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pipeline.ValidateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "prog.asm", "prog"},
		{"", "dir/prog.s", "dir/prog"},
		{"out.html", "prog.asm", "out"},
		{"out.graph.svg", "prog.asm", "out"},
		{"out.svg", "prog.asm", "out"},
		{"charts/out", "prog.asm", "charts/out"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	got := outputPaths("", "prog.asm", []string{"html", "graph"})
	if got["html"] != "prog.html" || got["graph"] != "prog.graph.svg" {
		t.Errorf("outputPaths(several) = %v", got)
	}

	got = outputPaths("chart.out", "prog.asm", []string{"svg"})
	if got["svg"] != "chart.out" {
		t.Errorf("outputPaths(single) = %v, want chart.out", got)
	}

	got = outputPaths("-", "prog.asm", []string{"json"})
	if got["json"] != "-" {
		t.Errorf("outputPaths(stdout) = %v, want -", got)
	}
}

func TestWriteArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.svg")
	if err := writeArtifact(path, []byte("<svg/>")); err != nil {
		t.Fatalf("writeArtifact() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("file = %q", data)
	}
}

func TestRunRender(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "prog.asm")
	src := "; --- INIT ---\nSTART: LDWI R0, 5\n JMP START\n; --- LOOP ---\n JMP START\n JMP GOTOX\n"
	if err := os.WriteFile(input, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(os.Stderr, LogInfo)
	c.configPath = filepath.Join(dir, "simasm.toml")
	if err := os.WriteFile(c.configPath, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "chart")
	err := c.runRender(t.Context(), input, renderOpts{output: out, formats: []string{"html", "json", "dot"}})
	if err != nil {
		t.Fatalf("runRender() error = %v", err)
	}
	for _, ext := range []string{".html", ".json", ".dot"} {
		if info, err := os.Stat(out + ext); err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", out+ext, err)
		}
	}
}

func TestRenderEmbedsFontByDefault(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	f := c.renderCommand().Flags().Lookup("embed-font")
	if f == nil || f.DefValue != "true" {
		t.Errorf("embed-font flag = %+v, want default true", f)
	}
}
