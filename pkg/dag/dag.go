package dag

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrGraphHasCycle is returned by [DAG.Validate] and [DAG.TopologicalSort]
	// when a directed cycle exists.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Edge is a producer → consumer dependency. Stream names the stream that
// carries it and is informational.
type Edge struct {
	From   string
	To     string
	Stream string
}

// DAG is an insertion-ordered directed graph of unit ids.
//
// The zero value is not usable - use New to create a valid DAG instance.
type DAG struct {
	order    []string
	nodes    map[string]struct{}
	edges    []Edge
	outgoing map[string][]string // nodeID -> consumer IDs
	incoming map[string][]string // nodeID -> producer IDs
}

// New creates an empty DAG.
func New() *DAG {
	return &DAG{
		nodes:    make(map[string]struct{}),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node. Returns ErrInvalidNodeID for an empty id and
// ErrDuplicateNodeID if the id already exists.
func (d *DAG) AddNode(id string) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, id)
	}
	d.nodes[id] = struct{}{}
	d.order = append(d.order, id)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Repeated
// From → To pairs are recorded once in the adjacency lists but kept in
// Edges, since two streams may link the same pair of units.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSourceNode, e.From)
	}
	if _, ok := d.nodes[e.To]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTargetNode, e.To)
	}
	d.edges = append(d.edges, e)
	if !slices.Contains(d.outgoing[e.From], e.To) {
		d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
		d.incoming[e.To] = append(d.incoming[e.To], e.From)
	}
	return nil
}

// HasNode reports whether id is in the graph.
func (d *DAG) HasNode(id string) bool {
	_, ok := d.nodes[id]
	return ok
}

// Nodes returns all node ids in insertion order.
func (d *DAG) Nodes() []string { return slices.Clone(d.order) }

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.order) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the consumers of id, in edge insertion order.
// The returned slice should not be modified.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the producers id depends on, in edge insertion order.
// The returned slice should not be modified.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// Sources returns nodes with no producers (units fed only by feeds), in
// insertion order.
func (d *DAG) Sources() []string {
	var sources []string
	for _, id := range d.order {
		if len(d.incoming[id]) == 0 {
			sources = append(sources, id)
		}
	}
	return sources
}

// Sinks returns nodes with no consumers, in insertion order.
func (d *DAG) Sinks() []string {
	var sinks []string
	for _, id := range d.order {
		if len(d.outgoing[id]) == 0 {
			sinks = append(sinks, id)
		}
	}
	return sinks
}

// Validate returns nil if the graph is acyclic.
func (d *DAG) Validate() error {
	_, err := d.TopologicalSort()
	return err
}

// TopologicalSort returns the node ids with every producer before its
// consumers.
//
// Nodes are visited in insertion order; each visit first recurses into the
// node's producers in edge order and then emits the node. Reaching a node
// that is still in progress means a cycle, reported as an error wrapping
// ErrGraphHasCycle with the loop spelled out ("a -> b -> a").
func (d *DAG) TopologicalSort() ([]string, error) {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.order))
	order := make([]string, 0, len(d.order))
	var path []string

	var visit func(id string) error
	visit = func(id string) error {
		color[id] = gray
		path = append(path, id)
		for _, dep := range d.incoming[id] {
			switch color[dep] {
			case white:
				if err := visit(dep); err != nil {
					return err
				}
			case gray:
				return cycleError(path, dep)
			}
		}
		path = path[:len(path)-1]
		color[id] = black
		order = append(order, id)
		return nil
	}

	for _, id := range d.order {
		if color[id] == white {
			if err := visit(id); err != nil {
				return nil, err
			}
		}
	}
	return order, nil
}

// cycleError describes the loop closed by reaching dep from the end of path.
// The search walks producer links, so the loop is reversed into flow order.
func cycleError(path []string, dep string) error {
	start := slices.Index(path, dep)
	loop := slices.Clone(path[start:])
	slices.Reverse(loop)
	loop = append(loop, loop[0])
	return fmt.Errorf("%w: %s", ErrGraphHasCycle, strings.Join(loop, " -> "))
}
