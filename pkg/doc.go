// Package pkg provides the core libraries for flowsheet process simulation.
//
// # Overview
//
// A flowsheet is a network of unit operations (mixers, splitters, heat
// exchangers, reactors, separators) joined by material streams. The pkg
// directory is organized into three main areas:
//
//  1. Domain logic: materials, streams, unit operations, ordering and the solver
//  2. Infrastructure: definition files, caching, storage, observability
//  3. Orchestration and output: the pipeline and diagram rendering
//
// # Architecture
//
// The typical data flow:
//
//	TOML/JSON definition
//	         ↓
//	    [io] package (decode, validate, build)
//	         ↓
//	    [flowsheet] package (engine: units, streams, connections)
//	         ↓
//	    [solver] package (topological order + sequential modular iteration)
//	         ↓
//	    [render] package (DOT → SVG/PDF/PNG)
//
// # Quick Start
//
// Load a definition and solve it:
//
//	import (
//	    "context"
//	    fio "github.com/matzehuels/flowsheet/pkg/io"
//	)
//
//	def, _ := fio.ImportFile("plant.toml")
//	eng, _ := fio.Build(def, nil)
//	res, _ := eng.Solve(context.Background(), def.Solver)
//	fmt.Println(res.Converged, res.Streams["vapor"].FlowRate)
//
// # Main Packages
//
// ## Domain Logic
//
// [material] - Pure-component property records, the five built-in presets and
// a name-keyed registry.
//
// [stream] - Material streams with mass-fraction compositions, enthalpy,
// entropy, phase determination, mixing and splitting.
//
// [unit] - The unit operation family. Each unit owns named input and output
// ports and computes its outputs from its inputs.
//
// [dag] - Dependency graph over unit ids with Kahn ordering and cycle
// detection.
//
// [solver] - Connections, calculation order, the iteration loop, residuals
// and convergence reporting.
//
// [flowsheet] - The engine facade: building, validating, solving and exporting
// a snapshot for visualization.
//
// ## Infrastructure
//
// [io] - Definition documents in TOML and JSON, with validation that reports
// every problem at once.
//
// [cache] - Solve and artifact caches: file (CLI), Redis (server) and null.
//
// [store] - Stored definitions in memory or MongoDB.
//
// [observability] - Hooks for load, solve, render, cache and HTTP events.
//
// [errors] - Structured error codes shared by every layer.
//
// [buildinfo] - Version information.
//
// ## Orchestration and Output
//
// [pipeline] - Load → build → validate → solve → render, with caching. Used by
// the CLI and the HTTP server.
//
// [render/nodelink] - Graphviz node-link diagrams of a flowsheet.
//
// [render] - Format conversion (SVG to PDF/PNG).
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/solver/...             # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// Redis and MongoDB tests run when FLOWSHEET_REDIS_URL or FLOWSHEET_MONGO_URI
// is set.
//
// [material]: https://pkg.go.dev/github.com/matzehuels/flowsheet/pkg/material
// [stream]: https://pkg.go.dev/github.com/matzehuels/flowsheet/pkg/stream
// [unit]: https://pkg.go.dev/github.com/matzehuels/flowsheet/pkg/unit
// [dag]: https://pkg.go.dev/github.com/matzehuels/flowsheet/pkg/dag
// [solver]: https://pkg.go.dev/github.com/matzehuels/flowsheet/pkg/solver
// [flowsheet]: https://pkg.go.dev/github.com/matzehuels/flowsheet/pkg/flowsheet
// [io]: https://pkg.go.dev/github.com/matzehuels/flowsheet/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/flowsheet/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/flowsheet/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/flowsheet/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/flowsheet/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/flowsheet/pkg/buildinfo
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/flowsheet/pkg/pipeline
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/flowsheet/pkg/render/nodelink
// [render]: https://pkg.go.dev/github.com/matzehuels/flowsheet/pkg/render
package pkg
