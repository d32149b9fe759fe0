package nodelink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/roadweave/pkg/roadgraph"
)

func network(t *testing.T) *roadgraph.Store {
	t.Helper()
	s := roadgraph.New()
	a := s.AddNode(0, 0)
	b := s.AddNode(30, 40)
	c := s.AddNode(60, 0)
	for _, e := range []struct {
		from, to roadgraph.ID
		dir      roadgraph.Direction
	}{
		{a, b, roadgraph.Bi},
		{b, c, roadgraph.Uni},
		{c, a, roadgraph.Bi},
	} {
		if err := s.AddEdge(e.from, e.to, e.dir); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestToDOT(t *testing.T) {
	s := network(t)
	dot := ToDOT(s.Nodes(), s.Adjacency(), Options{Scale: 2, Labels: true})

	tests := []struct {
		name string
		want string
	}{
		{"header", "digraph roads {"},
		{"engine", "layout=neato;"},
		{"pinned", `"n1" [pos="60,80!", xlabel="n1"];`},
		{"uni arrow", `"n1" -> "n2" [color="#ff6f61"`},
		{"bi line", `"n0" -> "n1" [dir=none];`},
		{"bi reversed stored edge", `"n0" -> "n2" [dir=none];`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(dot, tt.want) {
				t.Errorf("DOT missing %q:\n%s", tt.want, dot)
			}
		})
	}

	if n := strings.Count(dot, "dir=none"); n != 2 {
		t.Errorf("bi edges drawn %d times, want 2", n)
	}
	if strings.Contains(dot, `"n2" -> "n1"`) {
		t.Error("uni edge drawn against its direction")
	}
}

func TestToDOTStable(t *testing.T) {
	s := network(t)
	a := ToDOT(s.Nodes(), s.Adjacency(), Options{})
	b := ToDOT(s.Nodes(), s.Adjacency(), Options{})
	if a != b {
		t.Error("ToDOT output differs between calls")
	}
}

func TestToDOTDoesNotMutate(t *testing.T) {
	s := network(t)
	nodes, adj := s.Nodes(), s.Adjacency()
	before := adj.Clone()
	ToDOT(nodes, adj, Options{})
	if !adj.Equal(before) || len(nodes) != 3 {
		t.Error("ToDOT changed its input")
	}
}

func TestToDOTSkipsUnknownNeighbor(t *testing.T) {
	s := network(t)
	nodes := s.Nodes()
	delete(nodes, 2)
	dot := ToDOT(nodes, s.Adjacency(), Options{})
	if strings.Contains(dot, `"n2"`) {
		t.Errorf("DOT references dropped node:\n%s", dot)
	}
}

func TestBiSelfLoopDrawnOnce(t *testing.T) {
	s := roadgraph.New()
	a := s.AddNode(1, 1)
	if err := s.AddEdge(a, a, roadgraph.Bi); err != nil {
		t.Fatal(err)
	}
	dot := ToDOT(s.Nodes(), s.Adjacency(), Options{})
	if n := strings.Count(dot, `"n0" -> "n0"`); n != 1 {
		t.Errorf("self loop drawn %d times, want 1", n)
	}
}

func TestRenderSVG(t *testing.T) {
	s := network(t)
	svg, err := RenderSVG(context.Background(), ToDOT(s.Nodes(), s.Adjacency(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)) {
		t.Errorf("unexpected svg header: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); !bytes.Equal(got, plain) {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
