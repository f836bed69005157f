// Package stream models material flows between unit operations.
//
// # Overview
//
// A [Stream] is a mutable state vector: temperature (K), pressure (Pa), mass
// flow rate (kg/s), a mass-fraction [Composition], a [Phase] tag and the
// derived specific enthalpy (J/kg) and entropy (J/(kg·K)). Streams are either
// created explicitly (feeds) or minted by a unit's calculation (products and
// intermediates). [Stream.Clone] and [Stream.Split] always return streams with
// new identifiers; a stream value is never reused across unrelated
// connections.
//
// # Thermodynamics
//
// Property calculations are intentionally coarse:
//
//   - Enthalpy: Σ xᵢ · Cpᵢ(T) · (T - 298.15)
//   - Entropy:  Σ xᵢ · Cpᵢ(T) · ln(T / 298.15)
//   - Phase: a critical-point heuristic, not a flash calculation
//
// Composition keys that do not resolve to a known material are skipped in all
// three calculations. This tolerance is intentional.
//
// # Mixing
//
// [Mix] combines two streams by mass-weighting the composition. Temperature
// and pressure are flow-weighted averages rather than an energy balance.
// The simplification is part of the engine's observable behavior.
//
// # Ordering
//
// [Composition] remembers insertion order. Order is observable: the reactor
// model treats the first component as its reactant, and mixed streams list
// the first stream's components before the second's.
package stream
