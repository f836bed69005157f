package io

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/material"
	"github.com/matzehuels/flowsheet/pkg/solver"
	"github.com/matzehuels/flowsheet/pkg/stream"
	"github.com/matzehuels/flowsheet/pkg/unit"
)

// Definition is a serializable flowsheet.
type Definition struct {
	Name        string              `json:"name" toml:"name" bson:"name"`
	Description string              `json:"description,omitempty" toml:"description,omitempty" bson:"description,omitempty"`
	Solver      solver.Options      `json:"solver" toml:"solver" bson:"solver"`
	Materials   []material.Material `json:"materials,omitempty" toml:"material,omitempty" bson:"materials,omitempty"`
	Streams     []StreamDef         `json:"streams" toml:"stream" bson:"streams"`
	Units       []UnitDef           `json:"units" toml:"unit" bson:"units"`
	Connections []solver.Connection `json:"connections" toml:"connection" bson:"connections"`
}

// StreamDef describes a feed or an initial stream state.
type StreamDef struct {
	ID          string             `json:"id" toml:"id" bson:"id"`
	Name        string             `json:"name,omitempty" toml:"name,omitempty" bson:"name,omitempty"`
	Temperature float64            `json:"temperature" toml:"temperature" bson:"temperature"`
	Pressure    float64            `json:"pressure" toml:"pressure" bson:"pressure"`
	FlowRate    float64            `json:"flowRate" toml:"flow_rate" bson:"flowRate"`
	Phase       string             `json:"phase,omitempty" toml:"phase,omitempty" bson:"phase,omitempty"`
	Composition []stream.Component `json:"composition" toml:"composition" bson:"composition"`
}

// UnitDef describes one unit operation.
type UnitDef struct {
	ID         string          `json:"id" toml:"id" bson:"id"`
	Name       string          `json:"name,omitempty" toml:"name,omitempty" bson:"name,omitempty"`
	Type       unit.Type       `json:"type" toml:"type" bson:"type"`
	Position   unit.Position   `json:"position" toml:"position" bson:"position"`
	Parameters unit.Parameters `json:"parameters,omitempty" toml:"parameters,omitempty" bson:"parameters,omitempty"`
}

// Validate reports every structural problem in the definition. The
// returned error combines one error per problem; use multierr.Errors to
// list them.
func (d *Definition) Validate() error {
	var err error

	materials := make(map[string]bool, len(d.Materials))
	for i, m := range d.Materials {
		if _, e := material.New(m); e != nil {
			err = multierr.Append(err, errors.Wrap(errors.GetCode(e), e, "material %d", i))
			continue
		}
		if materials[m.Name] {
			err = multierr.Append(err, errors.New(errors.ErrCodeDuplicateID, "material %s defined twice", m.Name))
		}
		materials[m.Name] = true
	}

	units := make(map[string]bool, len(d.Units))
	for i, u := range d.Units {
		if e := errors.ValidateID("unit", u.ID); e != nil {
			err = multierr.Append(err, errors.Wrap(errors.ErrCodeInvalidInput, e, "unit %d", i))
			continue
		}
		if units[u.ID] {
			err = multierr.Append(err, errors.New(errors.ErrCodeDuplicateID, "unit %s defined twice", u.ID))
		}
		units[u.ID] = true
		if _, e := unit.ParseType(string(u.Type)); e != nil {
			err = multierr.Append(err, errors.Wrap(errors.ErrCodeInvalidInput, e, "unit %s", u.ID))
		}
	}

	streams := make(map[string]bool, len(d.Streams))
	for i, s := range d.Streams {
		err = multierr.Append(err, validateStream(i, s, streams))
		streams[s.ID] = true
	}

	for i, c := range d.Connections {
		err = multierr.Append(err, validateConnection(i, c, units))
	}

	if e := d.Solver.WithDefaults().Validate(); e != nil {
		err = multierr.Append(err, e)
	}
	return err
}

func validateStream(i int, s StreamDef, seen map[string]bool) error {
	if e := errors.ValidateID("stream", s.ID); e != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, e, "stream %d", i)
	}
	var err error
	if seen[s.ID] {
		err = multierr.Append(err, errors.New(errors.ErrCodeDuplicateID, "stream %s defined twice", s.ID))
	}
	if s.FlowRate < 0 {
		err = multierr.Append(err, errors.New(errors.ErrCodeInvalidInput, "stream %s: flow rate must be non-negative, got %g", s.ID, s.FlowRate))
	}
	if !(s.Temperature > 0) {
		err = multierr.Append(err, errors.New(errors.ErrCodeInvalidInput, "stream %s: temperature must be positive, got %g", s.ID, s.Temperature))
	}
	if _, e := stream.ParsePhase(s.Phase); e != nil {
		err = multierr.Append(err, errors.Wrap(errors.ErrCodeInvalidInput, e, "stream %s", s.ID))
	}
	for j, c := range s.Composition {
		if c.Material == "" {
			err = multierr.Append(err, errors.New(errors.ErrCodeInvalidInput, "stream %s: component %d has no material", s.ID, j))
		}
		if e := errors.ValidateFraction(fmt.Sprintf("stream %s fraction of %s", s.ID, c.Material), c.Fraction); e != nil {
			err = multierr.Append(err, e)
		}
	}
	return err
}

func validateConnection(i int, c solver.Connection, units map[string]bool) error {
	var err error
	if e := errors.ValidateID("stream", c.Stream); e != nil {
		err = multierr.Append(err, errors.Wrap(errors.ErrCodeInvalidInput, e, "connection %d", i))
	}
	if c.From == "" && c.To == "" {
		err = multierr.Append(err, errors.New(errors.ErrCodeInvalidInput, "connection %d has neither source nor target", i))
	}
	if c.From != "" && !units[c.From] {
		err = multierr.Append(err, errors.New(errors.ErrCodeUnitNotFound, "connection %d: unknown source unit %s", i, c.From))
	}
	if c.To != "" && !units[c.To] {
		err = multierr.Append(err, errors.New(errors.ErrCodeUnitNotFound, "connection %d: unknown target unit %s", i, c.To))
	}
	return err
}
