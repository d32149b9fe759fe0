package organic

import (
	"github.com/tidwall/btree"
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/matzehuels/roadweave/pkg/geom"
)

// candidate is a segment waiting on the frontier.
type candidate struct {
	Segment
	parentHeading float64
	hasParent     bool
	seq           uint64
}

func candidateLess(a, b candidate) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.seq < b.seq
}

// frontier is a min-priority queue with FIFO tie-breaking.
type frontier struct {
	tree *btree.BTreeG[candidate]
	seq  uint64
}

func newFrontier() *frontier {
	return &frontier{tree: btree.NewBTreeGOptions(candidateLess, btree.Options{NoLocks: true})}
}

func (f *frontier) push(c candidate) {
	c.seq = f.seq
	f.seq++
	f.tree.Set(c)
}

func (f *frontier) pop() (candidate, bool) { return f.tree.PopMin() }

func (f *frontier) len() int { return f.tree.Len() }

// endpoints indexes accepted segment ends for nearest-neighbour queries.
type endpoints struct {
	tree kdtree.Tree
}

func (e *endpoints) add(p geom.Point) {
	e.tree.Insert(kdtree.Point{p.X, p.Y}, false)
}

// within reports whether some indexed endpoint lies closer than d to p.
func (e *endpoints) within(p geom.Point, d float64) bool {
	if e.tree.Root == nil {
		return false
	}
	_, dist2 := e.tree.Nearest(kdtree.Point{p.X, p.Y})
	return dist2 < d*d
}
