package io

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/roadweave/pkg/errors"
	"github.com/matzehuels/roadweave/pkg/roadgraph"
)

// pentagon builds the five-node demo ring plus a one-way spur.
func pentagon(t *testing.T) *roadgraph.Store {
	t.Helper()
	s := roadgraph.New()
	coords := [][2]float64{{0, 0}, {5, 20}, {30, 25}, {40, 18}, {25, 0}}
	ids := make([]roadgraph.ID, len(coords))
	for i, c := range coords {
		ids[i] = s.AddNode(c[0], c[1])
	}
	for i := range ids {
		if err := s.AddEdge(ids[i], ids[(i+1)%len(ids)], roadgraph.Bi); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}
	spur := s.AddNode(12.5, -3.75)
	if err := s.AddEdge(ids[0], spur, roadgraph.Uni); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	return s
}

func TestWriteJSONLayout(t *testing.T) {
	s := roadgraph.New()
	a := s.AddNode(0, 0)
	b := s.AddNode(3, 4)
	if err := s.AddEdge(a, b, roadgraph.Bi); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(s, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(raw) != 2 {
		t.Errorf("top-level keys = %d, want 2", len(raw))
	}

	var nodes map[string][]float64
	if err := json.Unmarshal(raw["nodes"], &nodes); err != nil {
		t.Fatalf("nodes: %v", err)
	}
	if got := nodes["n1"]; len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Errorf("n1 = %v, want [3 4]", got)
	}

	var edges []map[string]any
	if err := json.Unmarshal(raw["edges"], &edges); err != nil {
		t.Fatalf("edges: %v", err)
	}
	want := map[string]any{"from": "n0", "to": "n1", "length": 7.0, "direction": "bi"}
	if len(edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(edges))
	}
	for k, v := range want {
		if edges[0][k] != v {
			t.Errorf("edge[%s] = %v, want %v", k, edges[0][k], v)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	s := pentagon(t)
	if err := s.DeleteNode(3); err != nil {
		t.Fatal(err)
	}
	reused := s.AddNode(-10, 7)
	if err := s.AddEdge(reused, 2, roadgraph.Uni); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "net.json")
	if err := ExportJSON(s, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	nodes, adj, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}

	if len(nodes) != s.NodeCount() {
		t.Fatalf("nodes = %d, want %d", len(nodes), s.NodeCount())
	}
	for id, p := range s.Nodes() {
		if nodes[id] != p {
			t.Errorf("node %s = %v, want %v", id, nodes[id], p)
		}
	}
	if !adj.Equal(s.Adjacency()) {
		t.Errorf("adjacency mismatch:\n got %v\nwant %v", adj, s.Adjacency())
	}
}

func TestLoadStoreContinuesEditing(t *testing.T) {
	s := pentagon(t)
	if err := s.DeleteNode(1); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(s, &buf); err != nil {
		t.Fatal(err)
	}
	loaded, err := ReadStore(&buf)
	if err != nil {
		t.Fatalf("ReadStore: %v", err)
	}

	if got := loaded.Edges(); len(got) != s.EdgeCount() {
		t.Fatalf("edges = %d, want %d", len(got), s.EdgeCount())
	}
	if id := loaded.AddNode(1, 1); id != 1 {
		t.Errorf("AddNode after reload = %s, want n1 (gap reused)", id)
	}
	if id := loaded.AddNode(1, 1); id != 6 {
		t.Errorf("AddNode after reload = %s, want n6", id)
	}
}

func TestExportLeavesStoreUntouched(t *testing.T) {
	s := pentagon(t)
	before := s.Adjacency()

	if err := ExportJSON(s, filepath.Join(t.TempDir(), "missing", "net.json")); err == nil {
		t.Fatal("expected error for missing directory")
	} else if !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeIO)
	}

	if !before.Equal(s.Adjacency()) || s.NodeCount() != 6 {
		t.Error("failed export changed the store")
	}
}

func TestExportReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.json")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ExportJSON(pentagon(t), path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only net.json", len(entries))
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"nodes"`) {
		t.Errorf("file not replaced: %s", data)
	}
}

func TestExportDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "road_networks")

	path, err := ExportDir(pentagon(t), dir, "")
	if err != nil {
		t.Fatalf("ExportDir: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "road_network_") || filepath.Ext(path) != ".json" {
		t.Errorf("path = %s", path)
	}

	if _, err := ExportDir(pentagon(t), dir, "../escape"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestDefaultName(t *testing.T) {
	ts := time.Date(2025, 6, 2, 0, 25, 59, 0, time.UTC)
	if got := DefaultName(ts); got != "road_network_20250602_002559" {
		t.Errorf("DefaultName = %s", got)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"malformed", `{"nodes": [`, errors.ErrCodeInvalidFormat},
		{"bad node id", `{"nodes": {"x1": [0, 0]}, "edges": []}`, errors.ErrCodeInvalidFormat},
		{"bad direction", `{"nodes": {"n0": [0, 0]}, "edges": [{"from": "n0", "to": "n0", "length": 0, "direction": "up"}]}`, errors.ErrCodeInvalidDirection},
		{"dangling edge", `{"nodes": {"n0": [0, 0]}, "edges": [{"from": "n0", "to": "n4", "length": 3, "direction": "bi"}]}`, errors.ErrCodeInvalidFormat},
		{"negative length", `{"nodes": {"n0": [0, 0]}, "edges": [{"from": "n0", "to": "n0", "length": -1, "direction": "uni"}]}`, errors.ErrCodeInvalidFormat},
		{"highest possible id", `{"nodes": {"n0": [1, 1], "n4294967295": [2, 2]}, "edges": []}`, errors.ErrCodeInvalidFormat},
		{"sparse ids", `{"nodes": {"n50000000": [1, 1]}, "edges": []}`, errors.ErrCodeInvalidFormat},
		{"leading zero id", `{"nodes": {"n7": [0, 0], "n07": [5, 5]}, "edges": []}`, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadJSON(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestReadStoreKeepsIDsUnique(t *testing.T) {
	input := `{"nodes": {"n0": [1, 1], "n4294967294": [2, 2]}, "edges": []}`
	if _, err := ReadStore(strings.NewReader(input)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("sparse ids near the top: got %v", err)
	}

	input = `{"nodes": {"n0": [1, 1], "n3": [2, 2]}, "edges": []}`
	s, err := ReadStore(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadStore: %v", err)
	}
	seen := map[roadgraph.ID]bool{0: true, 3: true}
	for i := 0; i < 4; i++ {
		id := s.AddNode(9, 9)
		if seen[id] {
			t.Fatalf("AddNode returned live id %s", id)
		}
		seen[id] = true
	}
	if s.NodeCount() != 6 {
		t.Errorf("NodeCount = %d, want 6", s.NodeCount())
	}
	if p, _ := s.Node(0); p.X != 1 || p.Y != 1 {
		t.Errorf("n0 moved to %v", p)
	}
}

func TestReadJSONExpandsBi(t *testing.T) {
	input := `{
	  "nodes": {"n0": [0, 0], "n1": [3, 4], "n2": [10, 0]},
	  "edges": [
	    {"from": "n0", "to": "n1", "length": 7, "direction": "bi"},
	    {"from": "n1", "to": "n2", "length": 11, "direction": "uni"}
	  ]
	}`
	_, adj, err := ReadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got := len(adj[0]); got != 1 {
		t.Errorf("n0 neighbors = %d, want 1", got)
	}
	if got := len(adj[1]); got != 2 {
		t.Errorf("n1 neighbors = %d, want 2", got)
	}
	if _, ok := adj[2]; ok {
		t.Error("n2 should have no outgoing entries for a uni edge")
	}
}

func TestImportMissingFile(t *testing.T) {
	_, _, err := ImportJSON(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}
