// Package io reads and writes flowsheet definitions.
//
// # Definition Format
//
// A definition is a TOML or JSON document describing one flowsheet. In TOML:
//
//	name = "ethanol plant"
//
//	[solver]
//	max_iterations = 100
//	tolerance = 1e-6
//
//	[[stream]]
//	id = "feed1"
//	temperature = 298.0
//	pressure = 101325.0
//	flow_rate = 10.0
//	composition = [{ material = "Water", fraction = 1.0 }]
//
//	[[unit]]
//	id = "reactor"
//	type = "reactor"
//	position = { x = 200.0, y = 0.0 }
//	parameters = { conversion = 0.8 }
//
//	[[connection]]
//	from = "mixer"
//	from_port = "out"
//	to = "reactor"
//	to_port = "in"
//	stream = "s3"
//
// JSON uses the same structure with plural camelCase keys ("streams",
// "units", "connections", "materials", "flowRate", "fromPort").
// Compositions are lists so component order survives both formats.
//
// Connections may name streams that have no [[stream]] entry; those start as
// empty placeholders at 298.15 K and 101325 Pa.
//
// # Import
//
// Use [ImportFile] to read a definition from a path (format chosen by
// extension) or [Read] to decode from any io.Reader. [Definition.Validate]
// reports every problem at once; [Build] turns a definition into a
// [flowsheet.Engine].
//
// # Export
//
// [WriteJSON] writes any value (results, snapshots, visualizations) as
// indented JSON. [WriteTOML] writes a definition. [FromEngine] captures an
// engine's current state as a definition.
//
// [flowsheet.Engine]: github.com/matzehuels/flowsheet/pkg/flowsheet.Engine
package io
