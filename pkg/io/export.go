package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/roadweave/pkg/errors"
	"github.com/matzehuels/roadweave/pkg/roadgraph"
)

// Source is the read side of a road network needed for export.
// *roadgraph.Store satisfies it.
type Source interface {
	Nodes() roadgraph.Nodes
	Edges() []roadgraph.Edge
}

type document struct {
	Nodes map[string][2]float64 `json:"nodes"`
	Edges []edgeRecord          `json:"edges"`
}

type edgeRecord struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Length    float64 `json:"length"`
	Direction string  `json:"direction"`
}

func toDocument(s Source) document {
	nodes := s.Nodes()
	edges := s.Edges()
	doc := document{
		Nodes: make(map[string][2]float64, len(nodes)),
		Edges: make([]edgeRecord, len(edges)),
	}
	for id, p := range nodes {
		doc.Nodes[id.String()] = [2]float64{p.X, p.Y}
	}
	for i, e := range edges {
		doc.Edges[i] = edgeRecord{
			From:      e.From.String(),
			To:        e.To.String(),
			Length:    e.Length,
			Direction: string(e.Direction),
		}
	}
	return doc
}

// WriteJSON encodes the network as indented JSON and writes it to w.
func WriteJSON(s Source, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDocument(s)); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode road network")
	}
	return nil
}

// MarshalJSON returns the encoded network.
func MarshalJSON(s Source) ([]byte, error) {
	data, err := json.MarshalIndent(toDocument(s), "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode road network")
	}
	return data, nil
}

// ExportJSON writes the network to path, replacing any existing file only
// once the new content has been fully written.
func ExportJSON(s Source, path string) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = WriteJSON(s, tmp); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", path)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "rename into %s", path)
	}
	return nil
}

// DefaultName returns the timestamped base name used when no export name is
// given, e.g. "road_network_20250602_002559".
func DefaultName(t time.Time) string {
	return t.Format("road_network_20060102_150405")
}

// ExportDir writes the network to dir/name.json, creating dir if needed.
// An empty name uses [DefaultName] for the current time. It returns the
// path written.
func ExportDir(s Source, dir, name string) (string, error) {
	if name == "" {
		name = DefaultName(time.Now())
	}
	if err := errors.ValidateOutputName(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "create directory %s", dir)
	}
	path := filepath.Join(dir, name+".json")
	if err := ExportJSON(s, path); err != nil {
		return "", err
	}
	return path, nil
}
