// Package roadgraph provides the in-memory road network store: nodes with 2D
// coordinates, directed or bidirectional edges weighted by Manhattan length,
// and an adjacency index kept consistent with both.
//
// # Overview
//
// A [Store] is built incrementally with [Store.AddNode] and [Store.AddEdge]:
//
//	s := roadgraph.New()
//	a := s.AddNode(0, 0)
//	b := s.AddNode(3, 4)
//	_ = s.AddEdge(a, b, roadgraph.Bi) // length 7, listed under both a and b
//
// # Identifiers
//
// Node identifiers are dense numeric slots ([ID]). Their boundary form is
// "n<slot>" ([ID.String], [ParseID]); the store never keys anything by the
// string form. Deleting a node retires its slot onto a FIFO free-list, and
// the next [Store.AddNode] reuses the oldest retired slot before allocating
// a new sequential one. Identifiers are therefore unique among live nodes
// but not across the lifetime of a store.
//
// # Directions
//
// A [Uni] edge appears in the adjacency index only under its From node.
// A [Bi] edge appears under both endpoints with identical length and
// direction metadata. Deleting a node removes every edge touching it from
// the edge list and from every adjacency list.
//
// # Errors
//
// Validation failures (bad direction, unknown endpoint) and not-found
// deletions are reported as *errors.Error values from
// github.com/matzehuels/roadweave/pkg/errors and leave the store unchanged.
//
// # Concurrency
//
// A Store is not safe for concurrent use without external synchronization.
package roadgraph
