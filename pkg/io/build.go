package io

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/flowsheet"
	"github.com/matzehuels/flowsheet/pkg/material"
	"github.com/matzehuels/flowsheet/pkg/stream"
	"github.com/matzehuels/flowsheet/pkg/unit"
)

// Build validates d and constructs an engine from it. Materials are
// registered first, then units, defined streams and finally connections
// in document order.
func Build(d *Definition, logger *log.Logger) (*flowsheet.Engine, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	eng := flowsheet.New(logger)
	eng.CreateFlowsheet(d.Name)

	for _, m := range d.Materials {
		if err := eng.AddMaterial(m); err != nil {
			return nil, err
		}
	}

	for _, u := range d.Units {
		cfg := unit.Config{ID: u.ID, Name: u.Name, Position: u.Position, Parameters: u.Parameters}
		if _, err := eng.AddUnit(u.Type, cfg); err != nil {
			return nil, err
		}
	}

	streams := make(map[string]*stream.Stream, len(d.Streams))
	for _, sd := range d.Streams {
		st, err := newStream(sd)
		if err != nil {
			return nil, err
		}
		if err := eng.AddStream(st); err != nil {
			return nil, err
		}
		streams[st.ID] = st
	}

	for i, c := range d.Connections {
		st, ok := streams[c.Stream]
		if !ok {
			var err error
			st, err = stream.New(c.Stream, "", stream.ReferenceTemperature, stream.StandardPressure, 0, stream.Composition{})
			if err != nil {
				return nil, err
			}
			streams[c.Stream] = st
		}
		if err := eng.ConnectUnits(c.From, c.FromPort, c.To, c.ToPort, st); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "connection %d", i)
		}
	}
	return eng, nil
}

func newStream(sd StreamDef) (*stream.Stream, error) {
	phase, err := stream.ParsePhase(sd.Phase)
	if err != nil {
		return nil, err
	}
	pressure := sd.Pressure
	if pressure == 0 {
		pressure = stream.StandardPressure
	}
	st, err := stream.New(sd.ID, sd.Name, sd.Temperature, pressure, sd.FlowRate, stream.NewComposition(sd.Composition...))
	if err != nil {
		return nil, err
	}
	st.Phase = phase
	return st, nil
}

// FromEngine captures the engine's current flowsheet as a definition. After
// a solve the streams carry solved values.
func FromEngine(eng *flowsheet.Engine) *Definition {
	s := eng.Solver()
	d := &Definition{
		Name:        eng.Name(),
		Streams:     []StreamDef{},
		Units:       []UnitDef{},
		Connections: s.Connections(),
	}

	defaults := make(map[string]material.Material)
	for _, m := range material.Defaults() {
		defaults[m.Name] = m
	}
	for _, m := range s.Materials().All() {
		if def, ok := defaults[m.Name]; ok && def == m {
			continue
		}
		d.Materials = append(d.Materials, m)
	}

	for _, u := range s.Units() {
		d.Units = append(d.Units, UnitDef{
			ID:         u.ID(),
			Name:       u.Name(),
			Type:       u.Type(),
			Position:   u.Position(),
			Parameters: u.Parameters(),
		})
	}
	for _, st := range s.Streams() {
		d.Streams = append(d.Streams, StreamDef{
			ID:          st.ID,
			Name:        st.Name,
			Temperature: st.Temperature,
			Pressure:    st.Pressure,
			FlowRate:    st.FlowRate,
			Phase:       string(st.Phase),
			Composition: st.Composition.Components(),
		})
	}
	return d
}
