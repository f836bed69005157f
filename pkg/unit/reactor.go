package unit

import (
	"fmt"

	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/stream"
)

// ProductComponent names the component synthesized by a reactor.
const ProductComponent = "Product"

// DefaultConversion is used when a reactor has no conversion parameter.
const DefaultConversion = 0.5

const reactorPressureDrop = 100000.0

// Reactor converts part of the first component of its feed into Product.
type Reactor struct {
	base
	conversion  float64
	temperature float64 // K, 0 keeps the inlet temperature
}

// NewReactor creates a reactor. Parameters conversion (default 0.5, within
// [0, 1]) and temperature (K, default inlet temperature) are optional.
func NewReactor(cfg Config) (*Reactor, error) {
	b, err := newBase(TypeReactor, cfg, []string{PortIn}, []string{PortOut})
	if err != nil {
		return nil, err
	}
	conv, err := b.params.Float(ParamConversion, DefaultConversion)
	if err != nil {
		return nil, err
	}
	if err := errors.ValidateFraction(ParamConversion, conv); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, err, "reactor %s", cfg.ID)
	}
	temp, err := b.params.Float(ParamTemperature, 0)
	if err != nil {
		return nil, err
	}
	if temp < 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "reactor %s: temperature must be positive, got %g", cfg.ID, temp)
	}
	r := &Reactor{base: b, conversion: conv, temperature: temp}
	r.params = r.params.with(ParamConversion, conv)
	return r, nil
}

// Calculate clones the inlet, applies the reactor temperature and moves
// fraction × conversion of the first component into Product.
func (r *Reactor) Calculate(materials stream.Materials) (map[string]*stream.Stream, error) {
	if !r.IsReady() {
		return nil, r.notReady()
	}

	out := r.in[PortIn].Clone(r.outletID(PortOut))
	out.Name = r.name + " outlet"
	if r.temperature > 0 {
		out.Temperature = r.temperature
	}
	if reactant := out.Composition.First(); reactant != "" {
		converted := out.Composition.Fraction(reactant) * r.conversion
		out.Composition.Add(reactant, -converted)
		out.Composition.Add(ProductComponent, converted)
	}

	return r.store(map[string]*stream.Stream{PortOut: out}), nil
}

func (r *Reactor) Validate() error {
	return errors.ValidateFraction(ParamConversion, r.conversion)
}

func (r *Reactor) PressureDrop() float64 { return reactorPressureDrop }

func (r *Reactor) Summary() string {
	return fmt.Sprintf("Reactor %s: %.0f%% conversion", r.name, r.conversion*100)
}
