// Package dag provides the directed graph the solver uses to order unit
// calculations.
//
// # Overview
//
// Nodes are unit ids. An edge From → To means unit From produces a stream
// that unit To consumes, so From must be calculated first. Nodes and edges
// keep their insertion order, which makes every traversal deterministic:
// the same flowsheet always yields the same calculation order.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode("mixer")
//	g.AddNode("reactor")
//	g.AddEdge(dag.Edge{From: "mixer", To: "reactor", Stream: "s3"})
//	order, err := g.TopologicalSort() // [mixer reactor]
//
// # Cycles
//
// Recycle loops are not supported. [DAG.TopologicalSort] and [DAG.Validate]
// detect cycles with white/gray/black depth-first search and return an error
// wrapping [ErrGraphHasCycle] that names the nodes on the loop.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. A solver builds a fresh
// graph for every ordering pass.
package dag
