package lanes

import (
	"fmt"
	"strings"
	"testing"

	"github.com/LMascagni/simasm/pkg/refgraph"
	"github.com/LMascagni/simasm/pkg/section"
	"github.com/LMascagni/simasm/pkg/source"
	"github.com/LMascagni/simasm/pkg/token"
)

type fixedLeft float64

func (f fixedLeft) BoxLeft(int) (float64, bool) { return float64(f), true }

func graph(text string) *refgraph.Graph {
	return refgraph.Build(token.TokenizeAll(section.Extract(source.New("t.asm", text))))
}

func TestAllocateScenario(t *testing.T) {
	g := graph("; --- INIT ---\nSTART: LDWI R0, 5\n JMP START\n; --- LOOP ---\n JMP START")
	cfg := DefaultConfig()
	s := Allocate(g, fixedLeft(100), cfg)

	if s.Len() != 1 {
		t.Fatalf("got %d lanes, want 1", s.Len())
	}
	l, ok := s.Lane("START")
	if !ok {
		t.Fatal("START has no lane")
	}
	if l.X != 100-cfg.Margin || l.Discovery != 0 {
		t.Errorf("lane = %+v, want x %v discovery 0", l, 100-cfg.Margin)
	}
}

func TestAllocateSkipsUnresolved(t *testing.T) {
	g := graph("; --- A ---\n JMP GOTOX\n JMP L\nL: HLT")
	s := Allocate(g, fixedLeft(100), DefaultConfig())

	if _, ok := s.Lane("GOTOX"); ok {
		t.Error("GOTOX should have no lane")
	}
	if l, ok := s.Lane("L"); !ok || l.Discovery != 0 {
		t.Errorf("L lane = %+v, %v", l, ok)
	}
}

func TestAllocateStrictlyDecreasing(t *testing.T) {
	var b strings.Builder
	b.WriteString("; --- A ---\n")
	const n = 40
	for i := range n {
		fmt.Fprintf(&b, " JMP L%d\n", i)
	}
	for i := range n {
		fmt.Fprintf(&b, "L%d: HLT\n", i)
	}
	g := graph(b.String())
	cfg := DefaultConfig()
	s := Allocate(g, fixedLeft(cfg.Gutter(Count(g))), cfg)

	if s.Len() != n {
		t.Fatalf("got %d lanes, want %d", s.Len(), n)
	}
	for i, l := range s.Lanes {
		if l.X < cfg.MinX {
			t.Errorf("lane %d x = %v below minimum %v", i, l.X, cfg.MinX)
		}
		if i > 0 && l.X >= s.Lanes[i-1].X {
			t.Errorf("lane %d x = %v not below lane %d x = %v", i, l.X, i-1, s.Lanes[i-1].X)
		}
	}
}

func TestAllocateClampsToMinimum(t *testing.T) {
	g := graph("; --- A ---\n JMP X\n JMP Y\nX: HLT\nY: HLT")
	cfg := DefaultConfig()
	s := Allocate(g, fixedLeft(cfg.MinX), cfg)

	for _, l := range s.Lanes {
		if l.X != cfg.MinX {
			t.Errorf("lane %s x = %v, want clamped %v", l.Label, l.X, cfg.MinX)
		}
	}
}

func TestGutter(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		n    int
		want float64
	}{
		{0, 38},
		{1, 38},
		{3, 58},
	}
	for _, tt := range tests {
		if got := cfg.Gutter(tt.n); got != tt.want {
			t.Errorf("Gutter(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}
