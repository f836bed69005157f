package unit

import (
	"fmt"

	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/stream"
)

// Separator port names.
const (
	PortLiquidOut = "liquid_out"
	PortVaporOut  = "vapor_out"
)

// DefaultSeparationEfficiency is used when a separator has no efficiency
// parameter.
const DefaultSeparationEfficiency = 0.5

const separatorPressureDrop = 25000.0

// Separator sends a fixed share of its feed to the vapor outlet and the rest
// to the liquid outlet.
type Separator struct {
	base
	efficiency  float64
	temperature float64 // K, 0 keeps the inlet temperature
	pressure    float64 // Pa, 0 keeps the inlet pressure
}

// NewSeparator creates a separator. Parameters efficiency (default 0.5,
// within [0, 1]), temperature and pressure (default inlet state) are optional.
func NewSeparator(cfg Config) (*Separator, error) {
	b, err := newBase(TypeSeparator, cfg, []string{PortIn}, []string{PortLiquidOut, PortVaporOut})
	if err != nil {
		return nil, err
	}
	eff, err := b.params.Float(ParamEfficiency, DefaultSeparationEfficiency)
	if err != nil {
		return nil, err
	}
	if err := errors.ValidateFraction(ParamEfficiency, eff); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, err, "separator %s", cfg.ID)
	}
	temp, err := b.params.Float(ParamTemperature, 0)
	if err != nil {
		return nil, err
	}
	pres, err := b.params.Float(ParamPressure, 0)
	if err != nil {
		return nil, err
	}
	if temp < 0 || pres < 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "separator %s: temperature and pressure must be positive", cfg.ID)
	}
	s := &Separator{base: b, efficiency: eff, temperature: temp, pressure: pres}
	s.params = s.params.with(ParamEfficiency, eff)
	return s, nil
}

func (s *Separator) Calculate(materials stream.Materials) (map[string]*stream.Stream, error) {
	if !s.IsReady() {
		return nil, s.notReady()
	}

	feed := s.in[PortIn]
	liquid := s.outlet(feed, PortLiquidOut, 1-s.efficiency, stream.PhaseLiquid)
	vapor := s.outlet(feed, PortVaporOut, s.efficiency, stream.PhaseVapor)

	return s.store(map[string]*stream.Stream{PortLiquidOut: liquid, PortVaporOut: vapor}), nil
}

func (s *Separator) outlet(feed *stream.Stream, port string, share float64, phase stream.Phase) *stream.Stream {
	out := feed.Clone(s.outletID(port))
	out.Name = fmt.Sprintf("%s %s outlet", s.name, phase)
	out.FlowRate = feed.FlowRate * share
	out.Phase = phase
	if s.temperature > 0 {
		out.Temperature = s.temperature
	}
	if s.pressure > 0 {
		out.Pressure = s.pressure
	}
	return out
}

func (s *Separator) Validate() error {
	return errors.ValidateFraction(ParamEfficiency, s.efficiency)
}

func (s *Separator) PressureDrop() float64 { return separatorPressureDrop }

func (s *Separator) Summary() string {
	return fmt.Sprintf("Separator %s: %.0f%% to vapor", s.name, s.efficiency*100)
}
