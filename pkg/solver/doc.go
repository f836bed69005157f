// Package solver runs sequential-modular calculations over a flowsheet.
//
// A [Solver] is a single-owner arena of units, streams, materials and
// connections. Units never point at each other; the connection list is the
// only edge set, and every dependency lookup goes through stream ids.
//
// # Solve
//
// [Solver.Solve] moves through Ordering, Iterating and then Converged or
// Exhausted:
//
//  1. Ordering builds a [dag.DAG] whose edges run from the unit producing a
//     stream to every unit consuming it, and sorts it. A cycle aborts the
//     solve with a CYCLIC_DEPENDENCY error.
//  2. Each iteration calculates every ready unit in order. A unit's outputs
//     are forwarded at once to the ports its connections name, so
//     downstream units see them in the same pass. Calculation failures are
//     recorded in [Result.Errors] and the iteration continues.
//  3. The residual of a ready unit is |Σ inlet flow − Σ outlet flow|. The
//     solve converges when every residual is below the tolerance; running
//     out of iterations yields Converged=false and a warning.
//
// The Method, Damping and StepSize options are accepted and validated but do
// not change the iteration.
//
// [dag.DAG]: github.com/matzehuels/flowsheet/pkg/dag
package solver
