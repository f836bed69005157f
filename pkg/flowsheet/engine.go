package flowsheet

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/material"
	"github.com/matzehuels/flowsheet/pkg/solver"
	"github.com/matzehuels/flowsheet/pkg/stream"
	"github.com/matzehuels/flowsheet/pkg/unit"
)

// DefaultName is used when a flowsheet is created without a name.
const DefaultName = "Untitled flowsheet"

// Engine builds, solves and exports a single flowsheet.
type Engine struct {
	logger *log.Logger
	solver *solver.Solver
	data   Data
	result *solver.Result
}

// New creates an engine with an empty flowsheet. A nil logger discards output.
func New(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	e := &Engine{logger: logger, solver: solver.New(logger)}
	e.CreateFlowsheet(DefaultName)
	return e
}

// CreateFlowsheet discards the current flowsheet and starts an empty one.
func (e *Engine) CreateFlowsheet(name string) {
	if name == "" {
		name = DefaultName
	}
	e.solver.Reset()
	e.result = nil
	e.data.Name = name
	e.sync()
	e.logger.Debug("flowsheet created", "name", name)
}

// Clear removes all units, streams and connections but keeps the name.
func (e *Engine) Clear() {
	e.CreateFlowsheet(e.data.Name)
}

// Name returns the flowsheet name.
func (e *Engine) Name() string { return e.data.Name }

// Solver returns the underlying solver.
func (e *Engine) Solver() *solver.Solver { return e.solver }

// Unit returns the unit with the given id.
func (e *Engine) Unit(id string) (unit.Operation, bool) { return e.solver.Unit(id) }

// Stream returns the registered stream with the given id.
func (e *Engine) Stream(id string) (*stream.Stream, bool) { return e.solver.Stream(id) }

// Result returns the most recent solve result, or nil.
func (e *Engine) Result() *solver.Result { return e.result }

// AddMaterial registers or replaces a material.
func (e *Engine) AddMaterial(m material.Material) error {
	if err := e.solver.AddMaterial(m); err != nil {
		return err
	}
	e.sync()
	return nil
}

// AddUnit constructs and registers a unit of type t.
func (e *Engine) AddUnit(t unit.Type, cfg unit.Config) (unit.Operation, error) {
	u, err := unit.New(t, cfg)
	if err != nil {
		return nil, err
	}
	if err := e.register(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (e *Engine) register(u unit.Operation) error {
	if err := e.solver.AddUnit(u); err != nil {
		return err
	}
	e.sync()
	e.logger.Debug("unit added", "unit", u.ID(), "type", u.Type())
	return nil
}

// AddMixer adds a three-inlet mixer.
func (e *Engine) AddMixer(id, name string, pos unit.Position) (*unit.Mixer, error) {
	m, err := unit.NewMixer(unit.Config{ID: id, Name: name, Position: pos})
	if err != nil {
		return nil, err
	}
	if err := e.register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// AddSplitter adds a splitter. Nil fractions select the default 50/50 split.
func (e *Engine) AddSplitter(id, name string, pos unit.Position, fractions []float64) (*unit.Splitter, error) {
	params := unit.Parameters{}
	if fractions != nil {
		params[unit.ParamFractions] = fractions
	}
	s, err := unit.NewSplitter(unit.Config{ID: id, Name: name, Position: pos, Parameters: params})
	if err != nil {
		return nil, err
	}
	if err := e.register(s); err != nil {
		return nil, err
	}
	return s, nil
}

// AddHeatExchanger adds a heat exchanger with the given duty (W) and
// efficiency.
func (e *Engine) AddHeatExchanger(id, name string, pos unit.Position, heatDuty, efficiency float64) (*unit.HeatExchanger, error) {
	h, err := unit.NewHeatExchanger(unit.Config{ID: id, Name: name, Position: pos, Parameters: unit.Parameters{
		unit.ParamHeatDuty:   heatDuty,
		unit.ParamEfficiency: efficiency,
	}})
	if err != nil {
		return nil, err
	}
	if err := e.register(h); err != nil {
		return nil, err
	}
	return h, nil
}

// AddReactor adds a reactor. A zero temperature keeps the inlet temperature.
func (e *Engine) AddReactor(id, name string, pos unit.Position, conversion, temperature float64) (*unit.Reactor, error) {
	params := unit.Parameters{unit.ParamConversion: conversion}
	if temperature > 0 {
		params[unit.ParamTemperature] = temperature
	}
	r, err := unit.NewReactor(unit.Config{ID: id, Name: name, Position: pos, Parameters: params})
	if err != nil {
		return nil, err
	}
	if err := e.register(r); err != nil {
		return nil, err
	}
	return r, nil
}

// AddSeparator adds a separator. Zero temperature or pressure keep the
// inlet value.
func (e *Engine) AddSeparator(id, name string, pos unit.Position, efficiency, temperature, pressure float64) (*unit.Separator, error) {
	params := unit.Parameters{unit.ParamEfficiency: efficiency}
	if temperature > 0 {
		params[unit.ParamTemperature] = temperature
	}
	if pressure > 0 {
		params[unit.ParamPressure] = pressure
	}
	s, err := unit.NewSeparator(unit.Config{ID: id, Name: name, Position: pos, Parameters: params})
	if err != nil {
		return nil, err
	}
	if err := e.register(s); err != nil {
		return nil, err
	}
	return s, nil
}

// AddStream registers a stream and computes its enthalpy and entropy from
// the registered materials. An unset phase is determined as well.
func (e *Engine) AddStream(st *stream.Stream) error {
	if st == nil {
		return errors.New(errors.ErrCodeInvalidInput, "stream is nil")
	}
	e.prepare(st)
	if err := e.solver.AddStream(st); err != nil {
		return err
	}
	e.sync()
	return nil
}

func (e *Engine) prepare(st *stream.Stream) {
	materials := e.solver.Materials()
	st.CalculateEnthalpy(materials)
	st.CalculateEntropy(materials)
	if st.Phase == "" {
		st.Phase = st.DeterminePhase(materials)
	}
}

// ConnectUnits registers st and routes it from fromUnit.fromPort to
// toUnit.toPort. An empty unit id on either side marks a feed or product.
// Nothing is recorded when a unit or port is unknown.
func (e *Engine) ConnectUnits(fromUnit, fromPort, toUnit, toPort string, st *stream.Stream) error {
	if st == nil {
		return errors.New(errors.ErrCodeInvalidInput, "stream is nil")
	}
	e.prepare(st)
	c := solver.Connection{From: fromUnit, FromPort: fromPort, To: toUnit, ToPort: toPort, Stream: st.ID}
	if err := e.solver.Connect(c, st); err != nil {
		return err
	}
	e.sync()
	return nil
}

// Solve runs the solver and refreshes the snapshot with the results.
func (e *Engine) Solve(ctx context.Context, opts solver.Options) (*solver.Result, error) {
	res, err := e.solver.Solve(ctx, opts)
	if res != nil {
		e.result = res
		e.sync()
	}
	if err != nil {
		return res, err
	}

	if res.Converged {
		e.logger.Info("flowsheet solved", "name", e.data.Name, "iterations", res.Iterations)
	} else {
		e.logger.Warn("flowsheet did not converge", "name", e.data.Name, "iterations", res.Iterations)
	}
	for _, w := range res.Warnings {
		e.logger.Warn(w)
	}
	return res, nil
}
