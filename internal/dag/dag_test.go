// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		nodes []string
		edges [][2]string
		want  []string
	}{
		{"empty", nil, nil, nil},
		{"single node", []string{"sodium"}, nil, []string{"sodium"}},
		{
			"chain",
			nil,
			[][2]string{{"fabric-api", "sodium"}, {"sodium", "iris"}},
			[]string{"fabric-api", "sodium", "iris"},
		},
		{
			"dependency added after dependent",
			[]string{"iris", "sodium"},
			[][2]string{{"sodium", "iris"}},
			[]string{"sodium", "iris"},
		},
		{
			"diamond",
			[]string{"modpack"},
			[][2]string{
				{"sodium", "modpack"}, {"lithium", "modpack"},
				{"fabric-api", "sodium"}, {"fabric-api", "lithium"},
			},
			[]string{"fabric-api", "sodium", "lithium", "modpack"},
		},
		{
			"ties follow insertion order",
			[]string{"c", "a", "b"},
			nil,
			[]string{"c", "a", "b"},
		},
		{
			"released node does not jump earlier nodes",
			[]string{"a", "b", "c"},
			[][2]string{{"c", "a"}},
			[]string{"b", "c", "a"},
		},
		{
			"duplicate edges",
			nil,
			[][2]string{{"a", "b"}, {"a", "b"}},
			[]string{"a", "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := New()
			for _, n := range tt.nodes {
				g.AddNode(n)
			}
			for _, e := range tt.edges {
				g.AddEdge(e[0], e[1])
			}

			got, err := g.Sort()
			if err != nil {
				t.Fatalf("Sort() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortDeterministic(t *testing.T) {
	t.Parallel()

	build := func() *Graph {
		g := New()
		for _, n := range []string{"z", "y", "x", "w", "v"} {
			g.AddNode(n)
		}
		g.AddEdge("v", "z")
		g.AddEdge("w", "y")
		g.AddEdge("x", "y")
		return g
	}

	first, err := build().Sort()
	if err != nil {
		t.Fatalf("Sort() error = %v", err)
	}
	for range 20 {
		got, err := build().Sort()
		if err != nil {
			t.Fatalf("Sort() error = %v", err)
		}
		if diff := cmp.Diff(first, got); diff != "" {
			t.Fatalf("Sort() not deterministic (-first +got):\n%s", diff)
		}
	}
}

func TestSortCycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edges [][2]string
		want  []string
	}{
		{"self loop", [][2]string{{"a", "a"}}, []string{"a"}},
		{"two nodes", [][2]string{{"a", "b"}, {"b", "a"}}, []string{"a", "b"}},
		{"three nodes with a tail", [][2]string{{"root", "a"}, {"a", "b"}, {"b", "c"}, {"c", "a"}}, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := New()
			for _, e := range tt.edges {
				g.AddEdge(e[0], e[1])
			}

			_, err := g.Sort()
			var cycleErr *CycleError
			if !errors.As(err, &cycleErr) {
				t.Fatalf("Sort() error = %v, want *CycleError", err)
			}
			if !errors.Is(err, ErrCycle) {
				t.Errorf("error %v does not match ErrCycle", err)
			}
			if diff := cmp.Diff(tt.want, cycleErr.Nodes); diff != "" {
				t.Errorf("Nodes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGraphNodes(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddEdge("b", "a")
	g.AddNode("b")
	g.AddNode("c")

	if g.Len() != 3 {
		t.Errorf("Len() = %d, want 3", g.Len())
	}
	if !g.Has("a") || g.Has("d") {
		t.Errorf("Has() reports wrong membership")
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, g.Nodes()); diff != "" {
		t.Errorf("Nodes() mismatch (-want +got):\n%s", diff)
	}
}

func TestCycleErrorMessage(t *testing.T) {
	t.Parallel()

	err := &CycleError{Nodes: []string{"a", "b"}}
	if got, want := err.Error(), "dependency cycle between a, b"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
