package solver

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/observability"
	"github.com/matzehuels/flowsheet/pkg/stream"
	"github.com/matzehuels/flowsheet/pkg/unit"
)

// Solve orders the units and iterates until every residual is below the
// tolerance or the iteration limit is reached.
//
// Invalid options and cyclic graphs return (nil, err). Otherwise a complete
// Result is returned; unit failures and non-convergence are reported in it.
// ctx is checked between iterations; on cancellation the partial result is
// returned together with ctx.Err().
func (s *Solver) Solve(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	hooks := observability.Solver()

	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	order, err := s.CalculationOrder()
	if err != nil {
		s.logger.Error("ordering failed", "err", err)
		hooks.OnSolveComplete(ctx, false, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnSolveStart(ctx, len(order))
	s.logger.Debug("solve started", "units", len(order), "order", order, "method", opts.Method)

	res := &Result{Order: order, Warnings: []string{}, Errors: []string{}}
	run := &iteration{solver: s, result: res}

	for i := 0; i < opts.MaxIterations; i++ {
		if err := ctx.Err(); err != nil {
			s.collect(res)
			hooks.OnSolveComplete(ctx, false, res.Iterations, time.Since(start), err)
			return res, err
		}

		res.Iterations = i + 1
		res.Residuals = run.step(order, i)
		worst := res.MaxResidual()
		hooks.OnIteration(ctx, i, worst)
		s.logger.Debug("iteration", "iteration", i, "maxResidual", worst)

		if converged(res.Residuals, opts.Tolerance) {
			res.Converged = true
			break
		}
	}

	if run.calculated == 0 && len(order) > 0 {
		res.Warnings = append(res.Warnings, "no unit was ready to calculate")
	}
	if !res.Converged {
		res.Warnings = append(res.Warnings, fmt.Sprintf("did not converge after %d iterations", opts.MaxIterations))
	}
	s.collect(res)

	s.logSummary(res)
	hooks.OnSolveComplete(ctx, res.Converged, res.Iterations, time.Since(start), nil)
	return res, nil
}

// iteration carries per-solve bookkeeping across passes.
type iteration struct {
	solver     *Solver
	result     *Result
	calculated int
}

// step runs one pass over order and returns the residuals of the ready units.
func (it *iteration) step(order []string, index int) []float64 {
	s := it.solver
	var ready []unit.Operation
	for _, id := range order {
		u := s.units[id]
		if !u.IsReady() {
			continue
		}
		ready = append(ready, u)

		outputs, err := u.Calculate(s.materials)
		if err != nil {
			it.fail(u, index, err)
			continue
		}
		it.calculated++
		if err := s.forward(u, outputs); err != nil {
			it.fail(u, index, err)
		}
	}

	residuals := make([]float64, len(ready))
	for i, u := range ready {
		residuals[i] = residual(u)
	}
	s.refresh()
	return residuals
}

// fail records one failure event; a unit failing in every iteration is
// reported once per iteration.
func (it *iteration) fail(u unit.Operation, index int, err error) {
	msg := fmt.Sprintf("unit %s: iteration %d: %s", u.ID(), index+1, errors.UserMessage(err))
	it.result.Errors = append(it.result.Errors, msg)
	it.solver.logger.Warn("unit calculation failed", "unit", u.ID(), "iteration", index, "err", errors.UserMessage(err))
}

// forward binds each output to its connection's stream id and hands it to
// the downstream port.
func (s *Solver) forward(u unit.Operation, outputs map[string]*stream.Stream) error {
	for _, port := range u.Outputs() {
		out := outputs[port]
		if out == nil {
			continue
		}
		for _, c := range s.connections {
			if c.From != u.ID() || c.FromPort != port {
				continue
			}
			bound := out.Record()
			bound.ID = c.Stream
			if prev, ok := s.streams[c.Stream]; ok {
				bound.Name = prev.Name
			}
			if err := u.ConnectOutput(port, &bound); err != nil {
				return err
			}
			if c.To == "" {
				continue
			}
			if down, ok := s.units[c.To]; ok {
				if err := down.ConnectInput(c.ToPort, &bound); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// refresh copies every unit's current outputs into the stream registry.
func (s *Solver) refresh() {
	for _, id := range s.unitOrder {
		u := s.units[id]
		outputs := u.OutputStreams()
		for _, port := range u.Outputs() {
			if out := outputs[port]; out != nil {
				s.putStream(out)
			}
		}
	}
}

func residual(u unit.Operation) float64 {
	var in, out float64
	for _, st := range u.InputStreams() {
		in += st.FlowRate
	}
	for _, st := range u.OutputStreams() {
		out += st.FlowRate
	}
	return math.Abs(in - out)
}

func converged(residuals []float64, tol float64) bool {
	return !slices.ContainsFunc(residuals, func(r float64) bool { return !(r < tol) })
}

func (s *Solver) collect(res *Result) {
	res.Streams = make(map[string]stream.Stream, len(s.streams))
	for _, id := range s.streamOrder {
		res.Streams[id] = s.streams[id].Record()
	}
	res.Units = make(map[string]UnitReport, len(s.units))
	for _, id := range s.unitOrder {
		res.Units[id] = Report(s.units[id])
	}
}

func (s *Solver) logSummary(res *Result) {
	if res.Converged {
		s.logger.Info("solve converged", "iterations", res.Iterations, "maxResidual", res.MaxResidual())
	} else {
		s.logger.Warn("solve did not converge", "iterations", res.Iterations, "maxResidual", res.MaxResidual())
	}
	for _, e := range res.Errors {
		s.logger.Error(e)
	}
}
