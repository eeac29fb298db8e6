package dag

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrCycle is wrapped by the error DetectCycles returns.
var ErrCycle = errors.New("cycle detected")

// CycleError lists every strongly connected group of nodes that forms a cycle.
type CycleError struct {
	Cycles [][]string
}

func (e *CycleError) Error() string {
	parts := make([]string, 0, len(e.Cycles))
	for _, c := range e.Cycles {
		parts = append(parts, strings.Join(c, " <-> "))
	}
	return fmt.Sprintf("%s involving: %s", ErrCycle, strings.Join(parts, "; "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{
		id:         id,
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is returned
// if either node does not exist or if the edge would create a self-reference.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	toNode.deps[fromID] = fromNode
	fromNode.dependents[toID] = toNode

	return nil
}

// Has reports whether a node with the given ID exists.
func (g *Graph) Has(id string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// Dependencies returns the sorted IDs of the nodes the given node depends on.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedIDs(n.deps), nil
}

// Dependents returns the sorted IDs of the nodes that depend on the given node.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedIDs(n.dependents), nil
}

// Cycles returns every group of nodes that take part in a cycle. Each group is
// sorted, and groups are ordered by their first member.
func (g *Graph) Cycles() [][]string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Tarjan's strongly connected components, visiting nodes in sorted order so
	// the result is deterministic.
	index := 0
	indices := make(map[string]int)
	lowlink := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []*node
	var groups [][]string

	var strongConnect func(n *node)
	strongConnect = func(n *node) {
		indices[n.id] = index
		lowlink[n.id] = index
		index++
		stack = append(stack, n)
		onStack[n.id] = true

		for _, id := range sortedIDs(n.dependents) {
			next := n.dependents[id]
			if _, seen := indices[id]; !seen {
				strongConnect(next)
				lowlink[n.id] = min(lowlink[n.id], lowlink[id])
			} else if onStack[id] {
				lowlink[n.id] = min(lowlink[n.id], indices[id])
			}
		}

		if lowlink[n.id] != indices[n.id] {
			return
		}
		var group []string
		for {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[top.id] = false
			group = append(group, top.id)
			if top == n {
				break
			}
		}
		// Self edges are rejected by AddEdge, so only groups of two or more
		// nodes can be cycles.
		if len(group) > 1 {
			sort.Strings(group)
			groups = append(groups, group)
		}
	}

	for _, id := range sortedIDs(g.nodes) {
		if _, seen := indices[id]; !seen {
			strongConnect(g.nodes[id])
		}
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}

// DetectCycles checks the graph for any cycles. It returns a *CycleError
// wrapping ErrCycle when at least one is found.
func (g *Graph) DetectCycles() error {
	cycles := g.Cycles()
	if len(cycles) == 0 {
		return nil
	}
	return &CycleError{Cycles: cycles}
}

func sortedIDs(nodes map[string]*node) []string {
	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
