package roadgraph

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/roadweave/pkg/errors"
	"github.com/matzehuels/roadweave/pkg/geom"
)

// ID is a numeric node slot. The zero value is the valid slot "n0".
type ID uint32

// MaxID is the highest slot an ID can name.
const MaxID = ID(math.MaxUint32)

// idPrefix is the leading character of the boundary form of an ID.
const idPrefix = "n"

// String returns the boundary form "n<slot>".
func (id ID) String() string {
	return idPrefix + strconv.FormatUint(uint64(id), 10)
}

// ParseID parses the boundary form "n<slot>" back into an ID.
func ParseID(s string) (ID, error) {
	digits, ok := strings.CutPrefix(s, idPrefix)
	if !ok || digits == "" {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "invalid node id %q (want n<integer>)", s)
	}
	if len(digits) > 1 && digits[0] == '0' {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "invalid node id %q (leading zero)", s)
	}
	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid node id %q", s)
	}
	return ID(n), nil
}

// MarshalText implements encoding.TextMarshaler so IDs can key JSON objects.
func (id ID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(b []byte) error {
	v, err := ParseID(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// Direction is the traversal kind of an edge.
type Direction string

const (
	// Uni edges may only be travelled From → To.
	Uni Direction = "uni"
	// Bi edges may be travelled both ways.
	Bi Direction = "bi"
)

// Valid reports whether d is Uni or Bi.
func (d Direction) Valid() bool { return d == Uni || d == Bi }

// ParseDirection returns the Direction named by s, or an INVALID_DIRECTION
// error naming the allowed values.
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if !d.Valid() {
		return "", invalidDirection(d)
	}
	return d, nil
}

func invalidDirection(d Direction) error {
	return errors.New(errors.ErrCodeInvalidDirection,
		"invalid road direction type: %q (allowed values: %q, %q)", string(d), Uni, Bi)
}

// Edge is one entry of the store's edge list.
// Length is the Manhattan distance between the endpoints at creation time.
type Edge struct {
	From      ID
	To        ID
	Length    float64
	Direction Direction
}

// String formats the edge as "n0->n1 (bi, 7)".
func (e Edge) String() string {
	return fmt.Sprintf("%s->%s (%s, %g)", e.From, e.To, e.Direction, e.Length)
}

// Neighbor is one entry of an adjacency list: the reachable node and the
// metadata of the edge leading to it.
type Neighbor struct {
	ID        ID
	Length    float64
	Direction Direction
}

// Nodes maps live node IDs to their coordinates.
type Nodes map[ID]geom.Point

// IDs returns the node IDs in ascending order.
func (n Nodes) IDs() []ID {
	ids := make([]ID, 0, len(n))
	for id := range n {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Adjacency maps a node ID to its outgoing neighbors in edge-insertion order.
// Nodes without any neighbor have no entry.
type Adjacency map[ID][]Neighbor

// Clone returns a deep copy of a.
func (a Adjacency) Clone() Adjacency {
	out := make(Adjacency, len(a))
	for id, ns := range a {
		out[id] = slices.Clone(ns)
	}
	return out
}

// Equal reports whether a and b hold the same neighbors in the same order.
func (a Adjacency) Equal(b Adjacency) bool {
	if len(a) != len(b) {
		return false
	}
	for id, ns := range a {
		if !slices.Equal(ns, b[id]) {
			return false
		}
	}
	return true
}

// EdgeCount returns the number of adjacency entries (a Bi edge counts twice).
func (a Adjacency) EdgeCount() int {
	n := 0
	for _, ns := range a {
		n += len(ns)
	}
	return n
}
