// Package graph models the directed graph formed by service definitions
// and their declared dependency names. It provides cycle detection,
// topological sorting, and visualization for diagnostics; the resolution
// engine itself walks the registry directly and only consults this
// package for eager validation.
package graph

import (
	"sort"
	"sync"
)

// Graph is a dependency graph keyed by service name. Edges point from a
// service to the services it depends on. A dependency may be referenced
// before (or without) being added as a node; such edges show up through
// Missing.
type Graph struct {
	mu    sync.RWMutex
	edges map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		edges: make(map[string][]string),
	}
}

// Add inserts a node and its outgoing edges, replacing any previous entry
// for the same name.
func (g *Graph) Add(name string, dependencies []string) {
	deps := make([]string, len(dependencies))
	copy(deps, dependencies)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.edges[name] = deps
}

// Remove deletes a node. Edges from other nodes to it remain and are
// reported by Missing.
func (g *Graph) Remove(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.edges, name)
}

// Size returns the number of nodes.
func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// Nodes returns all node names in sorted order.
func (g *Graph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sortedNodes()
}

func (g *Graph) sortedNodes() []string {
	names := make([]string, 0, len(g.edges))
	for name := range g.edges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dependencies returns the direct dependencies of a node in declared order.
func (g *Graph) Dependencies(name string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	deps, ok := g.edges[name]
	if !ok {
		return nil
	}
	out := make([]string, len(deps))
	copy(out, deps)
	return out
}

// Dependents returns the nodes that depend on name, in sorted order.
func (g *Graph) Dependents(name string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var dependents []string
	for node, deps := range g.edges {
		for _, dep := range deps {
			if dep == name {
				dependents = append(dependents, node)
				break
			}
		}
	}
	sort.Strings(dependents)
	return dependents
}

// Missing returns every edge that points at a name with no node, sorted by
// service then dependency.
func (g *Graph) Missing() []MissingDependencyError {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var missing []MissingDependencyError
	for _, node := range g.sortedNodes() {
		for _, dep := range g.edges[node] {
			if _, ok := g.edges[dep]; !ok {
				missing = append(missing, MissingDependencyError{Service: node, Dependency: dep})
			}
		}
	}
	return missing
}

// DetectCycles checks the whole graph and returns a CircularDependencyError
// for the first cycle found. Detection is an iterative depth-first search
// with an explicit path stack, so the reported path is the exact chain of
// names that closes the cycle.
func (g *Graph) DetectCycles() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	visited := make(map[string]bool, len(g.edges))
	for _, name := range g.sortedNodes() {
		if visited[name] {
			continue
		}
		if err := g.dfs(name, visited); err != nil {
			return err
		}
	}
	return nil
}

// dfs walks from start, maintaining the current path as an explicit stack.
// onPath maps each name on the path to its stack index so a back edge can
// be turned into the cycle slice directly.
func (g *Graph) dfs(start string, visited map[string]bool) error {
	type frame struct {
		name string
		next int
	}

	stack := []frame{{name: start}}
	onPath := map[string]int{start: 0}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		deps := g.edges[top.name]

		if top.next < len(deps) {
			dep := deps[top.next]
			top.next++

			if at, ok := onPath[dep]; ok {
				path := make([]string, 0, len(stack)-at+1)
				for _, f := range stack[at:] {
					path = append(path, f.name)
				}
				path = append(path, dep)
				return CircularDependencyError{Path: path}
			}

			// Unregistered dependencies cannot participate in a cycle.
			if _, known := g.edges[dep]; known && !visited[dep] {
				onPath[dep] = len(stack)
				stack = append(stack, frame{name: dep})
			}
			continue
		}

		visited[top.name] = true
		delete(onPath, top.name)
		stack = stack[:len(stack)-1]
	}

	return nil
}

// TopologicalSort returns the node names in dependency order (dependencies
// before dependents) using Kahn's algorithm. Ties break alphabetically so
// the order is deterministic. Returns a CircularDependencyError if the
// graph is cyclic.
func (g *Graph) TopologicalSort() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	// In-degree here counts dependents: a node is ready once every node
	// that depends on it has been emitted... inverted, since edges point
	// from dependent to dependency. Count, per node, how many of its
	// declared dependencies are still unemitted.
	remaining := make(map[string]int, len(g.edges))
	for node, deps := range g.edges {
		count := 0
		for _, dep := range deps {
			if _, known := g.edges[dep]; known {
				count++
			}
		}
		remaining[node] = count
	}

	queue := make([]string, 0, len(g.edges))
	for _, node := range g.sortedNodes() {
		if remaining[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]string, 0, len(g.edges))
	for len(queue) > 0 {
		sort.Strings(queue)
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		for node, deps := range g.edges {
			for _, dep := range deps {
				if dep != current {
					continue
				}
				remaining[node]--
				if remaining[node] == 0 {
					queue = append(queue, node)
				}
			}
		}
	}

	if len(result) != len(g.edges) {
		// Reuse the DFS to report the actual cycle path.
		visited := make(map[string]bool, len(g.edges))
		for _, name := range g.sortedNodes() {
			if visited[name] {
				continue
			}
			if err := g.dfs(name, visited); err != nil {
				return nil, err
			}
		}
		return nil, CircularDependencyError{Path: nil}
	}

	return result, nil
}
