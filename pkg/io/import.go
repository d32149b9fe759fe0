package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/roadweave/pkg/errors"
	"github.com/matzehuels/roadweave/pkg/geom"
	"github.com/matzehuels/roadweave/pkg/roadgraph"
)

// ReadStore decodes a JSON road network from r into a new Store.
// Edge lengths are taken from the document. ReadStore does not close r.
func ReadStore(r io.Reader, opts ...roadgraph.Option) (*roadgraph.Store, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode road network")
	}

	nodes := make(roadgraph.Nodes, len(doc.Nodes))
	for key, xy := range doc.Nodes {
		id, err := roadgraph.ParseID(key)
		if err != nil {
			return nil, err
		}
		nodes[id] = geom.Pt(xy[0], xy[1])
	}

	edges := make([]roadgraph.Edge, len(doc.Edges))
	for i, rec := range doc.Edges {
		e, err := rec.edge()
		if err != nil {
			return nil, err
		}
		if e.Length < 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "edge %d: negative length %v", i, e.Length)
		}
		edges[i] = e
	}

	s, err := roadgraph.Restore(nodes, edges, opts...)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNodeNotFound) {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "dangling edge")
		}
		return nil, err
	}
	return s, nil
}

func (rec edgeRecord) edge() (roadgraph.Edge, error) {
	from, err := roadgraph.ParseID(rec.From)
	if err != nil {
		return roadgraph.Edge{}, err
	}
	to, err := roadgraph.ParseID(rec.To)
	if err != nil {
		return roadgraph.Edge{}, err
	}
	dir, err := roadgraph.ParseDirection(rec.Direction)
	if err != nil {
		return roadgraph.Edge{}, err
	}
	return roadgraph.Edge{From: from, To: to, Length: rec.Length, Direction: dir}, nil
}

// ReadJSON decodes a JSON road network from r and returns its nodes and
// adjacency index. Every "bi" edge is listed under both endpoints.
func ReadJSON(r io.Reader) (roadgraph.Nodes, roadgraph.Adjacency, error) {
	s, err := ReadStore(r)
	if err != nil {
		return nil, nil, err
	}
	return s.Nodes(), s.Adjacency(), nil
}

// LoadStore reads the JSON file at path into a new Store.
func LoadStore(path string, opts ...roadgraph.Option) (*roadgraph.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return ReadStore(f, opts...)
}

// ImportJSON reads the JSON file at path and returns its nodes and
// adjacency index.
func ImportJSON(path string) (roadgraph.Nodes, roadgraph.Adjacency, error) {
	s, err := LoadStore(path)
	if err != nil {
		return nil, nil, err
	}
	return s.Nodes(), s.Adjacency(), nil
}
