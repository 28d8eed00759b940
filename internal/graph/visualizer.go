package graph

import (
	"fmt"
	"io"
	"strings"
)

// Visualizer renders a dependency graph for diagnostics.
type Visualizer struct {
	graph *Graph
}

// NewVisualizer creates a visualizer over g.
func NewVisualizer(g *Graph) *Visualizer {
	return &Visualizer{graph: g}
}

// WriteDOT writes the graph in Graphviz DOT format. Nodes referenced as
// dependencies but never registered are drawn dashed.
func (v *Visualizer) WriteDOT(w io.Writer) error {
	v.graph.mu.RLock()
	defer v.graph.mu.RUnlock()

	if _, err := fmt.Fprintln(w, "digraph dependencies {"); err != nil {
		return err
	}
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box];")

	for _, name := range v.graph.sortedNodes() {
		fmt.Fprintf(w, "  %q;\n", name)
	}

	seen := make(map[string]bool, len(v.graph.edges))
	for _, name := range v.graph.sortedNodes() {
		for _, dep := range v.graph.edges[name] {
			if _, known := v.graph.edges[dep]; !known && !seen[dep] {
				fmt.Fprintf(w, "  %q [style=dashed];\n", dep)
				seen[dep] = true
			}
		}
	}

	for _, name := range v.graph.sortedNodes() {
		for _, dep := range v.graph.edges[name] {
			fmt.Fprintf(w, "  %q -> %q;\n", name, dep)
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}

// WriteText writes an indented text listing of every node and its
// dependencies, one service per line.
func (v *Visualizer) WriteText(w io.Writer) error {
	v.graph.mu.RLock()
	defer v.graph.mu.RUnlock()

	for _, name := range v.graph.sortedNodes() {
		deps := v.graph.edges[name]
		if len(deps) == 0 {
			if _, err := fmt.Fprintf(w, "%s\n", name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s -> %s\n", name, strings.Join(deps, ", ")); err != nil {
			return err
		}
	}
	return nil
}
