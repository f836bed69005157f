// Package flowsheet is the entry point for building and solving flowsheets.
//
// An [Engine] wraps one [solver.Solver] and keeps a denormalized [Data]
// snapshot in step with it. Every mutation (adding a unit, stream, material
// or connection) and every solve refreshes the snapshot, so callers can
// serialize [Engine.Data] at any time.
//
//	eng := flowsheet.New(logger)
//	eng.CreateFlowsheet("ethanol plant")
//	eng.AddMixer("mixer", "Mixer", unit.Position{})
//	eng.ConnectUnits("", "", "mixer", "in1", feed1)
//	res, err := eng.Solve(ctx, solver.Options{})
//
// [Engine.ValidateFlowsheet] reports structural problems without changing
// anything, and [Engine.ExportForVisualization] maps the snapshot into a
// generic node/edge graph for diagram front ends.
//
// An Engine is not safe for concurrent use; use one engine per request or
// session.
//
// [solver.Solver]: github.com/matzehuels/flowsheet/pkg/solver
package flowsheet
