package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	roadio "github.com/matzehuels/roadweave/pkg/io"
	"github.com/matzehuels/roadweave/pkg/roadgraph"
)

const defaultInspectLimit = 25

// inspectCommand creates the inspect command, which prints the nodes and
// adjacency lists of a saved road network.
func (c *CLI) inspectCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "inspect <graph.json>",
		Short: "Print the nodes and adjacency of a saved road network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := roadio.LoadStore(args[0], roadgraph.WithLogger(c.Logger))
			if err != nil {
				return err
			}
			printSuccess("Loaded %s", StyleHighlight.Render(args[0]))
			printNetwork(store, limit)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", defaultInspectLimit, "rows per table (0 for all)")
	return cmd
}

// printNetwork prints summary figures followed by the node table and the
// adjacency table.
func printNetwork(store *roadgraph.Store, limit int) {
	nodes := store.Nodes()
	adj := store.Adjacency()
	edges := store.Edges()

	var bi, uni int
	var total float64
	for _, e := range edges {
		if e.Direction == roadgraph.Uni {
			uni++
		} else {
			bi++
		}
		total += e.Length
	}

	printNewline()
	printKeyValue("Nodes", strconv.Itoa(len(nodes)))
	printKeyValue("Edges", fmt.Sprintf("%d (%d two-way, %d one-way)", len(edges), bi, uni))
	printKeyValue("Length", formatFloat(total))
	if len(nodes) > 0 {
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, p := range nodes {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
		printKeyValue("Bounds", fmt.Sprintf("(%s, %s) to (%s, %s)",
			formatFloat(minX), formatFloat(minY), formatFloat(maxX), formatFloat(maxY)))
	}

	ids := nodes.IDs()
	nodeRows := make([][]string, 0, len(ids))
	for _, id := range ids {
		p := nodes[id]
		nodeRows = append(nodeRows, []string{
			id.String(), formatFloat(p.X), formatFloat(p.Y), strconv.Itoa(len(adj[id])),
		})
	}
	printNewline()
	fmt.Fprintln(stdout, StyleTitle.Render("Nodes"))
	printRows([]string{"ID", "X", "Y", "Out"}, nodeRows, limit, -1)

	var adjRows [][]string
	for _, id := range ids {
		for _, nb := range adj[id] {
			adjRows = append(adjRows, []string{
				id.String(), nb.ID.String(), formatFloat(nb.Length), string(nb.Direction),
			})
		}
	}
	printNewline()
	fmt.Fprintln(stdout, StyleTitle.Render("Adjacency"))
	printRows([]string{"From", "To", "Length", "Direction"}, adjRows, limit, 3)
}

func printRows(headers []string, rows [][]string, limit, oneWay int) {
	if len(rows) == 0 {
		printDetail("(none)")
		return
	}
	shown := rows
	if limit > 0 && len(rows) > limit {
		shown = rows[:limit]
	}
	fmt.Fprintln(stdout, renderTable(headers, shown, oneWay))
	if len(shown) < len(rows) {
		printDetail("… %d more (use --limit 0 to show all)", len(rows)-len(shown))
	}
}

// formatFloat prints v with at most two decimals and no trailing zeros.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
