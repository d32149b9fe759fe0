// Package io persists road networks as JSON and reads them back.
//
// # JSON Format
//
// The format has two top-level members:
//
//	{
//	  "nodes": {
//	    "n0": [0, 0],
//	    "n1": [3, 4]
//	  },
//	  "edges": [
//	    {"from": "n0", "to": "n1", "length": 7, "direction": "bi"}
//	  ]
//	}
//
// Node ids are strings of the form "n<integer>". Edge length is the
// Manhattan distance recorded when the edge was created; it is stored
// verbatim and never recomputed on import. Direction is "uni" or "bi".
//
// # Import
//
// [ImportJSON] returns the node map and the adjacency index, expanding every
// "bi" edge into both directions exactly as roadgraph.Store.AddEdge does.
// [LoadStore] rebuilds a full roadgraph.Store so a reloaded network can keep
// being edited:
//
//	nodes, adj, err := io.ImportJSON("road_networks/city.json")
//	s, err := io.LoadStore("road_networks/city.json")
//
// # Export
//
// [ExportJSON] writes through a temporary file in the destination directory
// and renames it into place, so a failed export leaves any previous file
// intact. Exporting never modifies the store. [ExportDir] adds the
// timestamped default naming ("road_network_20060102_150405.json").
//
// # Errors
//
// Missing files report FILE_NOT_FOUND, other filesystem failures IO_ERROR,
// and malformed documents INVALID_FORMAT (or INVALID_DIRECTION for an
// unknown direction kind).
package io
