// Package domain contains the core domain models for the build graph
// execution engine: targets, sources, environments and stamps.
package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Graph is an arena of targets keyed by interned name. The dependency
// structure is the transitive closure of each target's Dependencies
// edges; it is walked on demand rather than stored separately.
type Graph struct {
	targets map[InternedString]*Target
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		targets: make(map[InternedString]*Target),
	}
}

// AddTarget adds a target to the graph.
// It returns an error if a target with the same name already exists.
func (g *Graph) AddTarget(t *Target) error {
	if _, exists := g.targets[t.Name]; exists {
		return zerr.With(ErrTargetAlreadyExists, "target", t.Name.String())
	}
	g.targets[t.Name] = t
	return nil
}

// GetTarget looks up a target by name.
func (g *Graph) GetTarget(name InternedString) (*Target, bool) {
	t, ok := g.targets[name]
	return t, ok
}

// TargetCount returns the number of registered targets.
func (g *Graph) TargetCount() int {
	return len(g.targets)
}

// visit states for the depth-first traversal.
const (
	unvisited = iota
	onStack
	done
)

// Closure validates the subgraph reachable from root and returns its
// targets in dependency-first topological order. Entering a target that
// is already on the traversal stack is a cycle; the returned error
// carries the full ordered cycle path. Targets already fully visited
// short-circuit, keeping the walk linear for diamond-shaped graphs.
func (g *Graph) Closure(root InternedString) ([]*Target, error) {
	if _, ok := g.targets[root]; !ok {
		return nil, zerr.With(ErrTargetNotFound, "target", root.String())
	}

	order := make([]*Target, 0, len(g.targets))
	visited := make(map[InternedString]int, len(g.targets))
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = onStack
		path = append(path, u)

		target, exists := g.targets[u]
		if !exists {
			return zerr.With(ErrMissingDependency, "dependency", u.String())
		}

		for _, dep := range target.Dependencies {
			switch visited[dep] {
			case onStack:
				return g.cycleError(path, dep)
			case unvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = done
		path = path[:len(path)-1]
		order = append(order, target)
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate checks the whole graph for cycles and dangling dependencies,
// covering disconnected components. Hosts typically call this once
// after constructing a graph; the executor re-validates the closure of
// the requested root before running.
func (g *Graph) Validate() error {
	visited := make(map[InternedString]int, len(g.targets))
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = onStack
		path = append(path, u)

		target, exists := g.targets[u]
		if !exists {
			return zerr.With(ErrMissingDependency, "dependency", u.String())
		}

		for _, dep := range target.Dependencies {
			switch visited[dep] {
			case onStack:
				return g.cycleError(path, dep)
			case unvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = done
		path = path[:len(path)-1]
		return nil
	}

	for name := range g.targets {
		if visited[name] == unvisited {
			if err := visit(name); err != nil {
				return err
			}
		}
	}
	return nil
}

// cycleError constructs an error carrying the ordered cycle path, from
// the repeated target back to itself, as metadata.
func (g *Graph) cycleError(path []InternedString, dep InternedString) error {
	start := 0
	for i, node := range path {
		if node == dep {
			start = i
			break
		}
	}

	var b strings.Builder
	for _, node := range path[start:] {
		b.WriteString(node.String())
		b.WriteString(" -> ")
	}
	b.WriteString(dep.String())
	return zerr.With(ErrCycleDetected, "cycle", b.String())
}
