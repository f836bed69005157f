package stream

import (
	"fmt"
	"math"

	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/material"
)

// Standard reference state.
const (
	// ReferenceTemperature is the enthalpy/entropy datum in K.
	ReferenceTemperature = 298.15
	// StandardPressure is one atmosphere in Pa.
	StandardPressure = 101325.0
)

// Phase thresholds used by DeterminePhase.
const (
	dominantPhaseFraction = 0.9
	minorPhaseFraction    = 0.1
	liquidPressureRatio   = 0.1
)

// Phase tags the physical state of a stream.
type Phase string

const (
	PhaseLiquid Phase = "liquid"
	PhaseVapor  Phase = "vapor"
	PhaseSolid  Phase = "solid"
	PhaseMixed  Phase = "mixed"
)

// Valid reports whether p is one of the four known phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseLiquid, PhaseVapor, PhaseSolid, PhaseMixed:
		return true
	}
	return false
}

// ParsePhase converts a string to a Phase. The empty string yields "".
func ParsePhase(s string) (Phase, error) {
	if s == "" {
		return "", nil
	}
	p := Phase(s)
	if !p.Valid() {
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid phase %q (must be liquid, vapor, solid or mixed)", s)
	}
	return p, nil
}

// Materials resolves material names to property records.
// [*material.Registry] satisfies it.
type Materials interface {
	Get(name string) (material.Material, bool)
}

// Stream is a flow of material between two unit ports.
type Stream struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Temperature float64     `json:"temperature"` // K
	Pressure    float64     `json:"pressure"`    // Pa
	FlowRate    float64     `json:"flowRate"`    // kg/s
	Composition Composition `json:"composition"` // material -> mass fraction
	Phase       Phase       `json:"phase"`
	Enthalpy    float64     `json:"enthalpy"` // J/kg
	Entropy     float64     `json:"entropy"`  // J/(kg·K)
}

// New creates a stream after validating its identifier and flow rate.
// The name defaults to the id, the phase to liquid.
func New(id, name string, temperature, pressure, flowRate float64, composition Composition) (*Stream, error) {
	if err := errors.ValidateID("stream", id); err != nil {
		return nil, err
	}
	if math.IsNaN(flowRate) || flowRate < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "stream %s: flow rate must be non-negative, got %g", id, flowRate)
	}
	if !(temperature > 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "stream %s: temperature must be positive, got %g", id, temperature)
	}
	if name == "" {
		name = id
	}
	return &Stream{
		ID:          id,
		Name:        name,
		Temperature: temperature,
		Pressure:    pressure,
		FlowRate:    flowRate,
		Composition: composition.Clone(),
		Phase:       PhaseLiquid,
	}, nil
}

// CalculateEnthalpy sets and returns Σ xᵢ · Cpᵢ(T) · (T - 298.15).
// Components without a registered material are skipped.
func (s *Stream) CalculateEnthalpy(materials Materials) float64 {
	var h float64
	for _, name := range s.Composition.keys {
		m, ok := materials.Get(name)
		if !ok {
			continue
		}
		h += s.Composition.fractions[name] * m.HeatCapacityAt(s.Temperature) * (s.Temperature - ReferenceTemperature)
	}
	s.Enthalpy = h
	return h
}

// CalculateEntropy sets and returns Σ xᵢ · Cpᵢ(T) · ln(T / 298.15).
// Components without a registered material are skipped.
func (s *Stream) CalculateEntropy(materials Materials) float64 {
	var sum float64
	for _, name := range s.Composition.keys {
		m, ok := materials.Get(name)
		if !ok {
			continue
		}
		sum += s.Composition.fractions[name] * m.HeatCapacityAt(s.Temperature) * math.Log(s.Temperature/ReferenceTemperature)
	}
	s.Entropy = sum
	return sum
}

// DeterminePhase classifies the stream without modifying it.
//
// A component counts as liquid when its critical temperature is above the
// stream temperature and the stream pressure exceeds a tenth of its critical
// pressure; otherwise it counts as vapor. The stream is liquid or vapor when
// that bucket holds more than 90% of the classified mass, mixed when both
// hold more than 10%, and liquid otherwise.
func (s *Stream) DeterminePhase(materials Materials) Phase {
	var liquid, vapor float64
	for _, name := range s.Composition.keys {
		m, ok := materials.Get(name)
		if !ok {
			continue
		}
		x := s.Composition.fractions[name]
		if m.CriticalTemperature > s.Temperature && s.Pressure > liquidPressureRatio*m.CriticalPressure {
			liquid += x
		} else {
			vapor += x
		}
	}

	total := liquid + vapor
	if total == 0 {
		return PhaseLiquid
	}
	liquidFrac, vaporFrac := liquid/total, vapor/total

	switch {
	case liquidFrac > dominantPhaseFraction:
		return PhaseLiquid
	case vaporFrac > dominantPhaseFraction:
		return PhaseVapor
	case liquidFrac > minorPhaseFraction && vaporFrac > minorPhaseFraction:
		return PhaseMixed
	default:
		return PhaseLiquid
	}
}

// UpdateProperties recomputes phase, enthalpy and entropy from the current state.
func (s *Stream) UpdateProperties(materials Materials) {
	s.Phase = s.DeterminePhase(materials)
	s.CalculateEnthalpy(materials)
	s.CalculateEntropy(materials)
}

// Clone returns a deep copy with a new identifier. An empty newID yields
// "<id>_copy".
func (s *Stream) Clone(newID string) *Stream {
	if newID == "" {
		newID = s.ID + "_copy"
	}
	c := *s
	c.ID = newID
	c.Name = s.Name + " (copy)"
	c.Composition = s.Composition.Clone()
	return &c
}

// Record returns a deep copy that keeps the stream's identifier, for
// snapshots and export.
func (s *Stream) Record() Stream {
	c := *s
	c.Composition = s.Composition.Clone()
	return c
}

// Split divides the stream by the given fractions, which must sum to 1
// within ±0.001. Each output inherits temperature, pressure, composition,
// phase and specific properties; only the flow rate is scaled. Output ids are
// "<id>_split_<index>" with a zero-based index.
func (s *Stream) Split(fractions []float64) ([]*Stream, error) {
	if err := errors.ValidateFractions(fractions); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFractions, err, "split stream %s", s.ID)
	}

	out := make([]*Stream, len(fractions))
	for i, f := range fractions {
		part := s.Record()
		part.ID = fmt.Sprintf("%s_split_%d", s.ID, i)
		part.Name = fmt.Sprintf("%s (split %d)", s.Name, i)
		part.FlowRate = s.FlowRate * f
		out[i] = &part
	}
	return out, nil
}

// String returns a short human-readable description.
func (s *Stream) String() string {
	return fmt.Sprintf("%s: %.4g kg/s at %.2f K, %.0f Pa (%s)", s.ID, s.FlowRate, s.Temperature, s.Pressure, s.Phase)
}

// TotalFlow sums the flow rates of the given streams, ignoring nil entries.
func TotalFlow(streams ...*Stream) float64 {
	var total float64
	for _, s := range streams {
		if s != nil {
			total += s.FlowRate
		}
	}
	return total
}
