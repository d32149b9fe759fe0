package roadgraph_test

import (
	"fmt"

	"github.com/matzehuels/roadweave/pkg/roadgraph"
)

func ExampleStore_AddEdge() {
	s := roadgraph.New()
	a := s.AddNode(0, 0)
	b := s.AddNode(3, 4)
	_ = s.AddEdge(a, b, roadgraph.Bi)

	fmt.Println(s.Neighbors(a))
	fmt.Println(s.Neighbors(b))
	// Output:
	// [{n1 7 bi}]
	// [{n0 7 bi}]
}

func ExampleStore_DeleteNode() {
	s := roadgraph.New()
	for i := 0; i < 4; i++ {
		s.AddNode(float64(i), 0)
	}
	_ = s.DeleteNode(2)

	fmt.Println(s.AddNode(9, 9))
	fmt.Println(s.AddNode(9, 9))
	// Output:
	// n2
	// n4
}
