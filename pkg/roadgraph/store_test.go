package roadgraph_test

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/matzehuels/roadweave/pkg/errors"
	"github.com/matzehuels/roadweave/pkg/geom"
	"github.com/matzehuels/roadweave/pkg/roadgraph"
)

// StoreSuite groups behavioural tests for the road graph store.
type StoreSuite struct {
	suite.Suite
	logs *bytes.Buffer
	s    *roadgraph.Store
}

func (s *StoreSuite) SetupTest() {
	s.logs = &bytes.Buffer{}
	s.s = roadgraph.New(roadgraph.WithLogger(log.New(s.logs)))
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

// TestSequentialIDs: fresh store hands out n0, n1, n2.
func (s *StoreSuite) TestSequentialIDs() {
	for want := roadgraph.ID(0); want < 3; want++ {
		s.Require().Equal(want, s.s.AddNode(float64(want), 0))
	}
	s.Require().Equal(3, s.s.NodeCount())
}

// TestIDRecycling: deleting n2 then adding two nodes yields n2 then n5.
func (s *StoreSuite) TestIDRecycling() {
	for i := 0; i < 5; i++ {
		s.s.AddNode(float64(i), float64(i))
	}
	s.Require().NoError(s.s.DeleteNode(2))

	s.Require().Equal(roadgraph.ID(2), s.s.AddNode(100, 100), "retired slot reused first")
	s.Require().Equal(roadgraph.ID(5), s.s.AddNode(200, 200), "then next sequential slot")

	p, ok := s.s.Node(2)
	s.Require().True(ok)
	s.Require().Equal(geom.Pt(100, 100), p, "reused slot holds the new coordinate")
}

// TestIDRecyclingFIFO: slots come back in deletion order, not numeric order.
func (s *StoreSuite) TestIDRecyclingFIFO() {
	for i := 0; i < 6; i++ {
		s.s.AddNode(0, 0)
	}
	s.Require().NoError(s.s.DeleteNode(4))
	s.Require().NoError(s.s.DeleteNode(1))
	s.Require().NoError(s.s.DeleteNode(3))
	s.Require().Equal([]roadgraph.ID{4, 1, 3}, s.s.FreeSlots())

	s.Require().Equal(roadgraph.ID(4), s.s.AddNode(0, 0))
	s.Require().Equal(roadgraph.ID(1), s.s.AddNode(0, 0))
	s.Require().Equal(roadgraph.ID(3), s.s.AddNode(0, 0))
	s.Require().Equal(roadgraph.ID(6), s.s.AddNode(0, 0))
}

// TestBiEdgeScenario: n0(0,0) ↔ n1(3,4) has length 7 listed on both sides.
func (s *StoreSuite) TestBiEdgeScenario() {
	a := s.s.AddNode(0, 0)
	b := s.s.AddNode(3, 4)
	s.Require().NoError(s.s.AddEdge(a, b, roadgraph.Bi))

	want := roadgraph.Neighbor{ID: b, Length: 7, Direction: roadgraph.Bi}
	s.Require().Equal([]roadgraph.Neighbor{want}, s.s.Neighbors(a))
	s.Require().Equal([]roadgraph.Neighbor{{ID: a, Length: 7, Direction: roadgraph.Bi}}, s.s.Neighbors(b))
	s.Require().Equal(1, s.s.EdgeCount())
}

// TestUniEdge: only the From side is indexed.
func (s *StoreSuite) TestUniEdge() {
	a := s.s.AddNode(1, 1)
	b := s.s.AddNode(-2, 5)
	s.Require().NoError(s.s.AddEdge(a, b, roadgraph.Uni))

	s.Require().Equal([]roadgraph.Neighbor{{ID: b, Length: 7, Direction: roadgraph.Uni}}, s.s.Neighbors(a))
	s.Require().Empty(s.s.Neighbors(b))
	_, indexed := s.s.Adjacency()[b]
	s.Require().False(indexed)
}

// TestInvalidDirection: rejected with no mutation.
func (s *StoreSuite) TestInvalidDirection() {
	a := s.s.AddNode(0, 0)
	b := s.s.AddNode(1, 0)

	err := s.s.AddEdge(a, b, roadgraph.Direction("tri"))
	s.Require().Error(err)
	s.Require().True(errors.Is(err, errors.ErrCodeInvalidDirection))
	s.Require().Zero(s.s.EdgeCount())
	s.Require().Empty(s.s.Adjacency())
}

// TestMissingEndpoint: the error names the missing side and nothing changes.
func (s *StoreSuite) TestMissingEndpoint() {
	a := s.s.AddNode(0, 0)

	err := s.s.AddEdge(a, 9, roadgraph.Bi)
	s.Require().True(errors.Is(err, errors.ErrCodeNodeNotFound))
	s.Require().Contains(err.Error(), "end node n9")

	err = s.s.AddEdge(7, a, roadgraph.Bi)
	s.Require().True(errors.Is(err, errors.ErrCodeNodeNotFound))
	s.Require().Contains(err.Error(), "begin node n7")

	s.Require().Zero(s.s.EdgeCount())
	s.Require().Empty(s.s.Adjacency())
	s.Require().Contains(s.logs.String(), "not in available nodes")
}

// TestDeleteUnknownNode: non-fatal, logged, no state change.
func (s *StoreSuite) TestDeleteUnknownNode() {
	s.s.AddNode(0, 0)

	err := s.s.DeleteNode(5)
	s.Require().True(errors.Is(err, errors.ErrCodeNodeNotFound))
	s.Require().Equal(1, s.s.NodeCount())
	s.Require().Empty(s.s.FreeSlots(), "unknown id must not be retired")
	s.Require().Contains(s.logs.String(), "node does not exist")
}

// TestDeleteRemovesIncidentEdges: no dangling references survive.
func (s *StoreSuite) TestDeleteRemovesIncidentEdges() {
	n0 := s.s.AddNode(0, 0)
	n1 := s.s.AddNode(5, 20)
	n2 := s.s.AddNode(30, 25)
	n3 := s.s.AddNode(40, 18)

	s.Require().NoError(s.s.AddEdge(n0, n1, roadgraph.Bi))
	s.Require().NoError(s.s.AddEdge(n1, n2, roadgraph.Uni))
	s.Require().NoError(s.s.AddEdge(n2, n1, roadgraph.Uni))
	s.Require().NoError(s.s.AddEdge(n2, n3, roadgraph.Bi))
	s.Require().NoError(s.s.AddEdge(n3, n0, roadgraph.Uni))

	s.Require().NoError(s.s.DeleteNode(n1))

	for _, e := range s.s.Edges() {
		s.Require().NotEqual(n1, e.From)
		s.Require().NotEqual(n1, e.To)
	}
	s.Require().Equal(2, s.s.EdgeCount())
	adj := s.s.Adjacency()
	_, has := adj[n1]
	s.Require().False(has)
	for from, ns := range adj {
		for _, n := range ns {
			s.Require().NotEqual(n1, n.ID, "dangling entry under %s", from)
		}
	}
	_, has = adj[n0]
	s.Require().False(has, "n0 only pointed at n1; its now-empty list is dropped")
	s.Require().Equal([]roadgraph.Neighbor{{ID: n2, Length: 17, Direction: roadgraph.Bi}, {ID: n0, Length: 58, Direction: roadgraph.Uni}}, adj[n3])
}

// TestLengthIsManhattan across a spread of coordinates.
func (s *StoreSuite) TestLengthIsManhattan() {
	coords := [][2]float64{{0, 0}, {5, 20}, {30, 25}, {40, 18}, {25, 0}, {-7.5, 3.25}}
	ids := make([]roadgraph.ID, len(coords))
	for i, c := range coords {
		ids[i] = s.s.AddNode(c[0], c[1])
	}
	for i := range ids {
		j := (i + 1) % len(ids)
		s.Require().NoError(s.s.AddEdge(ids[i], ids[j], roadgraph.Bi))
	}
	for _, e := range s.s.Edges() {
		a, _ := s.s.Node(e.From)
		b, _ := s.s.Node(e.To)
		s.Require().Equal(geom.Manhattan(a, b), e.Length, "edge %s", e)
	}
}

// TestCopiesAreIndependent: returned collections do not alias store state.
func (s *StoreSuite) TestCopiesAreIndependent() {
	a := s.s.AddNode(0, 0)
	b := s.s.AddNode(1, 1)
	s.Require().NoError(s.s.AddEdge(a, b, roadgraph.Bi))

	adj := s.s.Adjacency()
	adj[a][0].Length = 99
	edges := s.s.Edges()
	edges[0].From = 42
	nodes := s.s.Nodes()
	delete(nodes, a)

	s.Require().Equal(2.0, s.s.Neighbors(a)[0].Length)
	s.Require().Equal(a, s.s.Edges()[0].From)
	s.Require().True(s.s.Has(a))
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    roadgraph.ID
		wantErr bool
	}{
		{"n0", 0, false},
		{"n42", 42, false},
		{"42", 0, true},
		{"n", 0, true},
		{"nx", 0, true},
		{"n-1", 0, true},
		{"n07", 0, true},
		{"n00", 0, true},
		{"n4294967295", roadgraph.MaxID, false},
		{"n4294967296", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := roadgraph.ParseID(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.in, got.String())
		})
	}
}

func TestParseDirection(t *testing.T) {
	for _, s := range []string{"uni", "bi"} {
		d, err := roadgraph.ParseDirection(s)
		require.NoError(t, err)
		require.Equal(t, s, string(d))
	}
	_, err := roadgraph.ParseDirection("both")
	require.True(t, errors.Is(err, errors.ErrCodeInvalidDirection))
}

func TestRestore(t *testing.T) {
	nodes := roadgraph.Nodes{
		0: geom.Pt(0, 0),
		2: geom.Pt(3, 4),
		5: geom.Pt(10, 0),
	}
	edges := []roadgraph.Edge{
		{From: 0, To: 2, Length: 7, Direction: roadgraph.Bi},
		{From: 2, To: 5, Length: 11, Direction: roadgraph.Uni},
	}

	s, err := roadgraph.Restore(nodes, edges)
	require.NoError(t, err)
	require.Equal(t, edges, s.Edges())
	require.Equal(t, []roadgraph.ID{1, 3, 4}, s.FreeSlots())
	require.Len(t, s.Neighbors(2), 2)
	require.Equal(t, roadgraph.ID(1), s.AddNode(0, 0))

	for _, i := range []roadgraph.ID{3, 4} {
		require.Equal(t, i, s.AddNode(0, 0))
	}
	require.Equal(t, roadgraph.ID(6), s.AddNode(0, 0))
}

func TestRestoreRejectsUnsafeIDs(t *testing.T) {
	_, err := roadgraph.Restore(roadgraph.Nodes{0: geom.Pt(1, 1), roadgraph.MaxID: geom.Pt(2, 2)}, nil)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "top slot: %v", err)

	_, err = roadgraph.Restore(roadgraph.Nodes{roadgraph.MaxRestoreGaps + 1: geom.Pt(1, 1)}, nil)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "too sparse: %v", err)

	s, err := roadgraph.Restore(roadgraph.Nodes{roadgraph.MaxRestoreGaps: geom.Pt(1, 1)}, nil)
	require.NoError(t, err)
	require.Len(t, s.FreeSlots(), roadgraph.MaxRestoreGaps)
}

func TestRestoreRejectsBadEdges(t *testing.T) {
	nodes := roadgraph.Nodes{0: geom.Pt(0, 0)}

	_, err := roadgraph.Restore(nodes, []roadgraph.Edge{{From: 0, To: 1, Direction: roadgraph.Bi}})
	require.True(t, errors.Is(err, errors.ErrCodeNodeNotFound))

	_, err = roadgraph.Restore(nodes, []roadgraph.Edge{{From: 0, To: 0, Direction: "sideways"}})
	require.True(t, errors.Is(err, errors.ErrCodeInvalidDirection))
}

func TestClone(t *testing.T) {
	s := roadgraph.New()
	a := s.AddNode(0, 0)
	b := s.AddNode(2, 2)
	require.NoError(t, s.AddEdge(a, b, roadgraph.Uni))

	c := s.Clone()
	require.NoError(t, c.DeleteNode(a))
	require.True(t, s.Has(a))
	require.Equal(t, 1, s.EdgeCount())
	require.Zero(t, c.EdgeCount())
}
