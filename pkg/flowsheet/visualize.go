package flowsheet

import (
	"fmt"

	"github.com/matzehuels/flowsheet/pkg/material"
	"github.com/matzehuels/flowsheet/pkg/stream"
	"github.com/matzehuels/flowsheet/pkg/unit"
)

// Visualization is a generic node/edge graph for diagram front ends.
type Visualization struct {
	Nodes     []Node                       `json:"nodes"`
	Edges     []Edge                       `json:"edges"`
	Streams   map[string]stream.Stream     `json:"streams"`
	Materials map[string]material.Material `json:"materials"`
}

// Node is one unit on the diagram.
type Node struct {
	ID       string        `json:"id"`
	Type     unit.Type     `json:"type"`
	Position unit.Position `json:"position"`
	Data     NodeData      `json:"data"`
}

// NodeData carries a node's display data.
type NodeData struct {
	Label      string          `json:"label"`
	Type       unit.Type       `json:"type"`
	Parameters unit.Parameters `json:"parameters"`
}

// Edge is one unit-to-unit connection.
type Edge struct {
	ID           string   `json:"id"`
	Source       string   `json:"source"`
	Target       string   `json:"target"`
	SourceHandle string   `json:"sourceHandle,omitempty"`
	TargetHandle string   `json:"targetHandle,omitempty"`
	Data         EdgeData `json:"data"`
}

// EdgeData carries the stream an edge transports.
type EdgeData struct {
	Stream string `json:"stream"`
}

// ExportForVisualization maps the snapshot into nodes and edges. Nodes
// follow unit insertion order. Feed and product connections have no edge;
// edge ids are "e<connection index>_<stream id>".
func (e *Engine) ExportForVisualization() Visualization {
	d := e.snapshot()
	v := Visualization{
		Nodes:     []Node{},
		Edges:     []Edge{},
		Streams:   d.Streams,
		Materials: d.Materials,
	}

	for _, u := range e.solver.Units() {
		v.Nodes = append(v.Nodes, Node{
			ID:       u.ID(),
			Type:     u.Type(),
			Position: u.Position(),
			Data: NodeData{
				Label:      u.Name(),
				Type:       u.Type(),
				Parameters: u.Parameters(),
			},
		})
	}

	for i, c := range d.Connections {
		if c.From == "" || c.To == "" {
			continue
		}
		v.Edges = append(v.Edges, Edge{
			ID:           fmt.Sprintf("e%d_%s", i, c.Stream),
			Source:       c.From,
			Target:       c.To,
			SourceHandle: c.FromPort,
			TargetHandle: c.ToPort,
			Data:         EdgeData{Stream: c.Stream},
		})
	}
	return v
}
