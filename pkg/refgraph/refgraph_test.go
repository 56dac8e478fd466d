package refgraph

import (
	"reflect"
	"testing"

	"github.com/LMascagni/simasm/pkg/section"
	"github.com/LMascagni/simasm/pkg/source"
	"github.com/LMascagni/simasm/pkg/token"
)

func build(text string) *Graph {
	return Build(token.TokenizeAll(section.Extract(source.New("t.asm", text))))
}

func TestBuildScenario(t *testing.T) {
	g := build("; --- INIT ---\nSTART: LDWI R0, 5\n JMP START\n; --- LOOP ---\n JMP START")

	def, ok := g.Definitions["START"]
	if !ok {
		t.Fatal("START not defined")
	}
	if def.Section != 0 || def.Line != 1 || def.DocLine != 1 {
		t.Errorf("START = %+v, want section 0 line 1", def)
	}

	refs := g.References["START"]
	if len(refs) != 2 {
		t.Fatalf("got %d references, want 2", len(refs))
	}
	want := []struct{ section, line, doc, index int }{{0, 2, 2, 0}, {1, 1, 4, 1}}
	for i, w := range want {
		r := refs[i]
		if r.Section != w.section || r.Line != w.line || r.DocLine != w.doc || r.Index != w.index {
			t.Errorf("ref %d = %+v, want %+v", i, r, w)
		}
	}
	if g.Routable() != 2 {
		t.Errorf("Routable() = %d, want 2", g.Routable())
	}
	if line, ok := g.Lookup("START"); !ok || line != 1 {
		t.Errorf("Lookup(START) = %d, %v, want 1, true", line, ok)
	}
}

func TestBuildUnresolved(t *testing.T) {
	g := build("; --- A ---\n JMP GOTOX\n")

	if g.Resolved("GOTOX") {
		t.Error("GOTOX should be unresolved")
	}
	if got := g.Unresolved(); !reflect.DeepEqual(got, []string{"GOTOX"}) {
		t.Errorf("Unresolved() = %v", got)
	}
	if g.Routable() != 0 {
		t.Errorf("Routable() = %d, want 0", g.Routable())
	}
}

func TestBuildDuplicateLastWins(t *testing.T) {
	g := build("; --- A ---\nX: HLT\n; --- B ---\nX: RET\n JMP X")

	if d := g.Definitions["X"]; d.Section != 1 || d.DocLine != 3 {
		t.Errorf("X = %+v, want the definition in section 1", d)
	}
	if len(g.Duplicates) != 1 || g.Duplicates[0].Section != 0 {
		t.Errorf("Duplicates = %+v", g.Duplicates)
	}
}

func TestBuildOrder(t *testing.T) {
	g := build("; --- A ---\n JMP B\n CALL A\n JMPZ B\nA: RET\nB: HLT")

	if !reflect.DeepEqual(g.Order, []string{"B", "A"}) {
		t.Errorf("Order = %v, want [B A]", g.Order)
	}
	if got := g.References["B"][1].Index; got != 1 {
		t.Errorf("second B reference index = %d, want 1", got)
	}
}

func TestAnchorKeys(t *testing.T) {
	g := build("; --- A ---\nL: HLT\n JMP L")

	if got := g.Definitions["L"].AnchorKey(); got != "def-0-1-0" {
		t.Errorf("definition AnchorKey() = %q, want def-0-1-0", got)
	}
	if got := g.References["L"][0].AnchorKey; got != "ref-0-2-5" {
		t.Errorf("reference AnchorKey = %q, want ref-0-2-5", got)
	}
}
