package unit

import (
	"fmt"

	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/stream"
)

// Mixer port names.
const (
	PortIn1 = "in1"
	PortIn2 = "in2"
	PortIn3 = "in3"
	PortOut = "out"
)

// minMixerInputs is the number of bound inputs a mixer needs.
const minMixerInputs = 2

// Mixer combines up to three inlets into one outlet.
type Mixer struct {
	base
}

// NewMixer creates a mixer. Mixers take no parameters.
func NewMixer(cfg Config) (*Mixer, error) {
	b, err := newBase(TypeMixer, cfg, []string{PortIn1, PortIn2, PortIn3}, []string{PortOut})
	if err != nil {
		return nil, err
	}
	return &Mixer{base: b}, nil
}

// IsReady reports whether at least two inlets are bound.
func (m *Mixer) IsReady() bool {
	return len(m.connectedInputs()) >= minMixerInputs
}

// Calculate mixes the bound inlets in port order. The outlet id is "<id>_out".
func (m *Mixer) Calculate(materials stream.Materials) (map[string]*stream.Stream, error) {
	if !m.IsReady() {
		return nil, errors.New(errors.ErrCodeNotReady, "mixer %s is not ready (%d of %d required inputs connected)",
			m.id, len(m.connectedInputs()), minMixerInputs)
	}

	inlets := m.connectedInputs()
	mixed := inlets[0]
	for _, s := range inlets[1:] {
		mixed = stream.Mix(mixed, s, materials)
	}
	mixed.ID = m.outletID(PortOut)
	mixed.Name = m.name + " outlet"

	return m.store(map[string]*stream.Stream{PortOut: mixed}), nil
}

func (m *Mixer) Validate() error {
	if n := len(m.connectedInputs()); n < minMixerInputs {
		return errors.New(errors.ErrCodeInvalidInput, "mixer %s needs at least %d inputs, has %d", m.id, minMixerInputs, n)
	}
	return nil
}

func (m *Mixer) Summary() string {
	return fmt.Sprintf("Mixer %s: %d inputs -> %.4g kg/s", m.name, len(m.connectedInputs()), m.outletFlow())
}
