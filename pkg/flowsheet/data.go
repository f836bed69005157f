package flowsheet

import (
	"github.com/matzehuels/flowsheet/pkg/material"
	"github.com/matzehuels/flowsheet/pkg/solver"
	"github.com/matzehuels/flowsheet/pkg/stream"
	"github.com/matzehuels/flowsheet/pkg/unit"
)

// Data is the denormalized snapshot of a flowsheet.
type Data struct {
	Name        string                       `json:"name"`
	Streams     map[string]stream.Stream     `json:"streams"`
	Units       map[string]UnitRecord        `json:"units"`
	Connections []solver.Connection          `json:"connections"`
	Materials   map[string]material.Material `json:"materials"`
}

// UnitRecord describes a unit and the stream ids bound to its ports.
type UnitRecord struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Type       unit.Type         `json:"type"`
	Position   unit.Position     `json:"position"`
	Parameters unit.Parameters   `json:"parameters"`
	Inputs     map[string]string `json:"inputs"`
	Outputs    map[string]string `json:"outputs"`
}

// Data returns the current snapshot. The returned value shares no state
// with the engine.
func (e *Engine) Data() Data {
	return e.snapshot()
}

func (e *Engine) sync() {
	e.data = e.snapshot()
}

func (e *Engine) snapshot() Data {
	d := Data{
		Name:        e.data.Name,
		Streams:     make(map[string]stream.Stream),
		Units:       make(map[string]UnitRecord),
		Connections: e.solver.Connections(),
		Materials:   make(map[string]material.Material),
	}
	for _, st := range e.solver.Streams() {
		d.Streams[st.ID] = st.Record()
	}
	for _, u := range e.solver.Units() {
		d.Units[u.ID()] = record(u)
	}
	for _, m := range e.solver.Materials().All() {
		d.Materials[m.Name] = m
	}
	return d
}

func record(u unit.Operation) UnitRecord {
	return UnitRecord{
		ID:         u.ID(),
		Name:       u.Name(),
		Type:       u.Type(),
		Position:   u.Position(),
		Parameters: u.Parameters(),
		Inputs:     portIDs(u.InputStreams()),
		Outputs:    portIDs(u.OutputStreams()),
	}
}

func portIDs(ports map[string]*stream.Stream) map[string]string {
	out := make(map[string]string, len(ports))
	for port, st := range ports {
		out[port] = st.ID
	}
	return out
}
