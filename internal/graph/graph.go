// Package graph builds the entity dependency graph and partitions it into
// dependency layers.
//
// Edges are discovered by the caller: for every node, a function returns the
// names of the nodes it references directly. Transitive structure is not
// collected per node; it surfaces because every referenced node is itself a
// node of the graph.
//
// The layering is tally based, not an in-degree queue:
//  1. Count how many times each name is referenced across all nodes
//  2. A batch is every remaining node none of whose references still has a
//     positive count
//  3. Each batched node's own count is deleted and the node leaves the graph
//  4. Repeat until no nodes remain
//
// Nodes with no references land in the first batch. The last batch holds the
// most dependent nodes, which is what persisting "leaves" relies on.
//
// Cycles reports reference cycles for callers that want to reject them up
// front; Batches itself stalls on them.
package graph

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrStalled is returned when a round of batching makes no progress, which
// only happens when the remaining nodes reference each other.
var ErrStalled = errors.New("graph: batching stalled")

// RefsFunc returns the names a node references directly.
type RefsFunc func(name string) ([]string, error)

// Graph maps each node name to the names it references.
type Graph struct {
	names []string
	refs  map[string][]string
}

// Build constructs the graph for names, in the given order.
//
// References to names outside the graph are dropped. Duplicate references
// are kept: a node referencing another twice counts twice in the tally.
func Build(names []string, refsOf RefsFunc) (*Graph, error) {
	g := &Graph{
		names: append([]string(nil), names...),
		refs:  make(map[string][]string, len(names)),
	}

	for _, name := range names {
		// Ensure node exists even without edges
		g.refs[name] = []string{}
	}

	for _, name := range names {
		refs, err := refsOf(name)
		if err != nil {
			return nil, fmt.Errorf("graph: refs of %s: %w", name, err)
		}
		for _, ref := range refs {
			if _, ok := g.refs[ref]; ok {
				g.refs[name] = append(g.refs[name], ref)
			}
		}
	}

	return g, nil
}

// Names returns the node names in insertion order.
func (g *Graph) Names() []string {
	return append([]string(nil), g.names...)
}

// Refs returns the direct references of name.
func (g *Graph) Refs(name string) []string {
	return append([]string(nil), g.refs[name]...)
}

// Batches partitions the graph into dependency layers. Within a batch, nodes
// keep insertion order. An empty graph yields no batches.
func (g *Graph) Batches() ([][]string, error) {
	tally := make(map[string]int)
	for _, name := range g.names {
		for _, ref := range g.refs[name] {
			tally[ref]++
		}
	}

	remaining := append([]string(nil), g.names...)
	var batches [][]string

	for len(remaining) > 0 {
		var batch, rest []string
		for _, name := range remaining {
			if g.cleared(name, tally) {
				batch = append(batch, name)
			} else {
				rest = append(rest, name)
			}
		}

		if len(batch) == 0 {
			return nil, fmt.Errorf("%w: unresolved nodes %s", ErrStalled, strings.Join(rest, ", "))
		}

		for _, name := range batch {
			delete(tally, name)
		}

		batches = append(batches, batch)
		remaining = rest
	}

	return batches, nil
}

// cleared reports whether none of name's references is still pending.
func (g *Graph) cleared(name string, tally map[string]int) bool {
	for _, ref := range g.refs[name] {
		if tally[ref] > 0 {
			return false
		}
	}
	return true
}

// Cycles returns every reference cycle as a path that starts and ends on the
// same node, such as [A B A] or [A A] for a self-reference. Each strongly
// connected component yields one path, starting at its earliest node in
// insertion order. An acyclic graph yields nil.
func (g *Graph) Cycles() [][]string {
	order := make(map[string]int, len(g.names))
	for i, name := range g.names {
		order[name] = i
	}

	var cycles [][]string
	for _, scc := range g.stronglyConnected() {
		if len(scc) == 1 && !slices.Contains(g.refs[scc[0]], scc[0]) {
			continue
		}

		members := make(map[string]bool, len(scc))
		start := scc[0]
		for _, name := range scc {
			members[name] = true
			if order[name] < order[start] {
				start = name
			}
		}
		cycles = append(cycles, g.cyclePath(start, members))
	}

	slices.SortFunc(cycles, func(a, b []string) int {
		return order[a[0]] - order[b[0]]
	})
	return cycles
}

// stronglyConnected runs Tarjan's algorithm over the graph, visiting nodes in
// insertion order.
func (g *Graph) stronglyConnected() [][]string {
	var (
		index   int
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var connect func(string)
	connect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.refs[v] {
			if _, seen := indices[w]; !seen {
				connect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] != indices[v] {
			return
		}
		var scc []string
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		sccs = append(sccs, scc)
	}

	for _, name := range g.names {
		if _, seen := indices[name]; !seen {
			connect(name)
		}
	}
	return sccs
}

// cyclePath follows references inside members from start until it gets back
// to start.
func (g *Graph) cyclePath(start string, members map[string]bool) []string {
	visited := make(map[string]bool, len(members))
	var path []string

	var walk func(string) bool
	walk = func(n string) bool {
		path = append(path, n)
		visited[n] = true
		for _, ref := range g.refs[n] {
			if ref == start {
				path = append(path, start)
				return true
			}
			if members[ref] && !visited[ref] && walk(ref) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}

	walk(start)
	return path
}
