package roadgraph

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/roadweave/pkg/errors"
	"github.com/matzehuels/roadweave/pkg/geom"
)

// Store owns the nodes, edges and adjacency index of one road network.
//
// The zero value is not usable - use New.
type Store struct {
	nodes Nodes
	edges []Edge
	adj   Adjacency

	free []ID // retired slots, oldest first
	next ID   // next never-used sequential slot

	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes not-found and validation reports to l.
// Without it the store logs nowhere.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		nodes:  make(Nodes),
		adj:    make(Adjacency),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddNode stores a node at (x, y) and returns its ID. The oldest retired
// slot is reused first; otherwise the next sequential slot is allocated.
func (s *Store) AddNode(x, y float64) ID {
	var id ID
	if len(s.free) > 0 {
		id = s.free[0]
		s.free = s.free[1:]
	} else {
		id = s.next
		s.next++
	}
	s.nodes[id] = geom.Pt(x, y)
	return id
}

// DeleteNode removes id, every edge touching it, and every adjacency entry
// naming it, then retires its slot for reuse. Deleting an unknown id
// returns a NODE_NOT_FOUND error and changes nothing.
func (s *Store) DeleteNode(id ID) error {
	if _, ok := s.nodes[id]; !ok {
		s.logger.Warn("node does not exist", "node", id)
		return errors.New(errors.ErrCodeNodeNotFound, "node %s does not exist", id)
	}
	delete(s.nodes, id)

	s.edges = slices.DeleteFunc(s.edges, func(e Edge) bool {
		return e.From == id || e.To == id
	})

	delete(s.adj, id)
	for from, ns := range s.adj {
		ns = slices.DeleteFunc(ns, func(n Neighbor) bool { return n.ID == id })
		if len(ns) == 0 {
			delete(s.adj, from)
			continue
		}
		s.adj[from] = ns
	}

	s.free = append(s.free, id)
	return nil
}

// AddEdge connects from and to. The edge length is the Manhattan distance
// between the two nodes. A Bi edge is indexed under both endpoints, a Uni
// edge only under from.
//
// AddEdge returns INVALID_DIRECTION for anything but Uni or Bi, and
// NODE_NOT_FOUND naming the missing endpoint when either node is not live.
// A failed call leaves the store untouched.
func (s *Store) AddEdge(from, to ID, dir Direction) error {
	if !dir.Valid() {
		return invalidDirection(dir)
	}
	a, ok := s.nodes[from]
	if !ok {
		s.logger.Warn("begin node not in available nodes", "node", from)
		return errors.New(errors.ErrCodeNodeNotFound, "begin node %s not in available nodes", from)
	}
	b, ok := s.nodes[to]
	if !ok {
		s.logger.Warn("end node not in available nodes", "node", to)
		return errors.New(errors.ErrCodeNodeNotFound, "end node %s not in available nodes", to)
	}
	s.appendEdge(Edge{From: from, To: to, Length: geom.Manhattan(a, b), Direction: dir})
	return nil
}

// appendEdge records e in the edge list and the adjacency index.
// Callers have already validated the endpoints and direction.
func (s *Store) appendEdge(e Edge) {
	s.edges = append(s.edges, e)
	s.adj[e.From] = append(s.adj[e.From], Neighbor{ID: e.To, Length: e.Length, Direction: e.Direction})
	if e.Direction == Bi {
		s.adj[e.To] = append(s.adj[e.To], Neighbor{ID: e.From, Length: e.Length, Direction: e.Direction})
	}
}

// Has reports whether id is a live node.
func (s *Store) Has(id ID) bool {
	_, ok := s.nodes[id]
	return ok
}

// Node returns the coordinate of id.
func (s *Store) Node(id ID) (geom.Point, bool) {
	p, ok := s.nodes[id]
	return p, ok
}

// Nodes returns a copy of the live nodes.
func (s *Store) Nodes() Nodes {
	out := make(Nodes, len(s.nodes))
	for id, p := range s.nodes {
		out[id] = p
	}
	return out
}

// Edges returns a copy of the edge list in insertion order.
func (s *Store) Edges() []Edge { return slices.Clone(s.edges) }

// Neighbors returns a copy of id's adjacency list.
func (s *Store) Neighbors(id ID) []Neighbor { return slices.Clone(s.adj[id]) }

// Adjacency returns a deep copy of the adjacency index.
func (s *Store) Adjacency() Adjacency { return s.adj.Clone() }

// NodeCount returns the number of live nodes.
func (s *Store) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the length of the edge list.
func (s *Store) EdgeCount() int { return len(s.edges) }

// FreeSlots returns the retired slots in the order they will be reused.
func (s *Store) FreeSlots() []ID { return slices.Clone(s.free) }

// Clone returns an independent copy of the store sharing its logger.
func (s *Store) Clone() *Store {
	return &Store{
		nodes:  s.Nodes(),
		edges:  s.Edges(),
		adj:    s.Adjacency(),
		free:   slices.Clone(s.free),
		next:   s.next,
		logger: s.logger,
	}
}

// MaxRestoreGaps bounds the free-list Restore builds from unused slots.
const MaxRestoreGaps = 1 << 20

// Restore rebuilds a Store from persisted parts. Edge lengths are kept as
// given rather than recomputed. The next sequential slot is one past the
// highest live id, and any lower slots with no live node become the
// free-list in ascending order.
//
// Restore returns INVALID_DIRECTION or NODE_NOT_FOUND if an edge is not
// valid against nodes, and INVALID_FORMAT if the highest id is MaxID or
// more than MaxRestoreGaps slots below it are unused.
func Restore(nodes Nodes, edges []Edge, opts ...Option) (*Store, error) {
	s := New(opts...)
	for id, p := range nodes {
		s.nodes[id] = p
	}
	for _, e := range edges {
		if !e.Direction.Valid() {
			return nil, invalidDirection(e.Direction)
		}
		if !s.Has(e.From) {
			return nil, errors.New(errors.ErrCodeNodeNotFound, "edge %s: unknown begin node", e)
		}
		if !s.Has(e.To) {
			return nil, errors.New(errors.ErrCodeNodeNotFound, "edge %s: unknown end node", e)
		}
		s.appendEdge(e)
	}

	ids := s.nodes.IDs()
	if len(ids) > 0 {
		top := ids[len(ids)-1]
		if top == MaxID {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node id %s leaves no free slot", top)
		}
		if gaps := uint64(top) + 1 - uint64(len(ids)); gaps > MaxRestoreGaps {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"node ids are too sparse: %s is the highest of %d nodes", top, len(ids))
		}
		s.next = top + 1
	}
	for slot := ID(0); slot < s.next; slot++ {
		if !s.Has(slot) {
			s.free = append(s.free, slot)
		}
	}
	return s, nil
}
