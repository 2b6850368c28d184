// SPDX-License-Identifier: MPL-2.0

// Package dag orders packages so that every package comes after the packages
// it depends on. Nodes are package names; an edge from A to B means A is
// installed before B.
package dag

import (
	"container/heap"
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is the sentinel error wrapped by CycleError.
var ErrCycle = errors.New("dependency cycle")

type (
	// CycleError is returned when the graph cannot be ordered. Nodes lists
	// every node left unordered, in insertion order.
	CycleError struct {
		Nodes []string
	}

	// Graph is a directed graph of package names. It remembers the order in
	// which nodes were first added and uses it to break ties.
	Graph struct {
		index map[string]int
		nodes []string
		// edges[i] holds the indexes of the nodes that come after node i.
		edges []map[int]struct{}
	}

	// ready is a min-heap of node indexes.
	ready []int
)

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle between %s", strings.Join(e.Nodes, ", "))
}

// Unwrap returns ErrCycle for errors.Is() compatibility.
func (e *CycleError) Unwrap() error { return ErrCycle }

// New creates an empty Graph.
func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// AddNode adds a node. Adding an existing node keeps its original position.
func (g *Graph) AddNode(name string) {
	g.node(name)
}

// AddEdge records that before must come before after. Both nodes are added
// if needed; repeated edges are ignored.
func (g *Graph) AddEdge(before, after string) {
	from, to := g.node(before), g.node(after)
	g.edges[from][to] = struct{}{}
}

// Has reports whether name is a node of the graph.
func (g *Graph) Has(name string) bool {
	_, ok := g.index[name]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Sort returns the nodes in topological order using Kahn's algorithm. Among
// the nodes that are ready at the same time, the one added first wins, so
// the result only depends on the order of the calls that built the graph.
func (g *Graph) Sort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make([]int, len(g.nodes))
	for _, out := range g.edges {
		for to := range out {
			inDegree[to]++
		}
	}

	queue := &ready{}
	for i, d := range inDegree {
		if d == 0 {
			*queue = append(*queue, i)
		}
	}
	heap.Init(queue)

	order := make([]string, 0, len(g.nodes))
	for queue.Len() > 0 {
		i := heap.Pop(queue).(int)
		order = append(order, g.nodes[i])
		for to := range g.edges[i] {
			inDegree[to]--
			if inDegree[to] == 0 {
				heap.Push(queue, to)
			}
		}
	}

	if len(order) != len(g.nodes) {
		var left []string
		for i, d := range inDegree {
			if d > 0 {
				left = append(left, g.nodes[i])
			}
		}
		return nil, &CycleError{Nodes: left}
	}
	return order, nil
}

func (g *Graph) node(name string) int {
	if i, ok := g.index[name]; ok {
		return i
	}
	i := len(g.nodes)
	g.index[name] = i
	g.nodes = append(g.nodes, name)
	g.edges = append(g.edges, make(map[int]struct{}))
	return i
}

func (r ready) Len() int           { return len(r) }
func (r ready) Less(i, j int) bool { return r[i] < r[j] }
func (r ready) Swap(i, j int)      { r[i], r[j] = r[j], r[i] }

func (r *ready) Push(x any) { *r = append(*r, x.(int)) }

func (r *ready) Pop() any {
	old := *r
	n := len(old)
	x := old[n-1]
	*r = old[:n-1]
	return x
}
