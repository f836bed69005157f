package unit

import (
	"fmt"

	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/stream"
)

// Splitter port names.
const (
	PortIn   = "in"
	PortOut1 = "out1"
	PortOut2 = "out2"
	PortOut3 = "out3"
)

// DefaultSplitFractions is used when a splitter has no fractions parameter.
var DefaultSplitFractions = []float64{0.5, 0.5}

// Splitter divides one inlet into up to three outlets by fixed fractions.
type Splitter struct {
	base
	fractions []float64
}

// NewSplitter creates a splitter. The fractions parameter must hold at most
// three entries summing to 1 within ±0.001.
func NewSplitter(cfg Config) (*Splitter, error) {
	b, err := newBase(TypeSplitter, cfg, []string{PortIn}, []string{PortOut1, PortOut2, PortOut3})
	if err != nil {
		return nil, err
	}
	fractions, err := b.params.Floats(ParamFractions, DefaultSplitFractions)
	if err != nil {
		return nil, err
	}
	s := &Splitter{base: b, fractions: append([]float64(nil), fractions...)}
	if err := s.checkFractions(); err != nil {
		return nil, err
	}
	s.params = s.params.with(ParamFractions, append([]float64(nil), s.fractions...))
	return s, nil
}

// Fractions returns a copy of the split fractions.
func (s *Splitter) Fractions() []float64 {
	return append([]float64(nil), s.fractions...)
}

func (s *Splitter) checkFractions() error {
	if len(s.fractions) > len(s.outputs) {
		return errors.New(errors.ErrCodeInvalidFractions, "splitter %s: %d fractions for %d outlets", s.id, len(s.fractions), len(s.outputs))
	}
	if err := errors.ValidateFractions(s.fractions); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFractions, err, "splitter %s", s.id)
	}
	return nil
}

// Calculate splits the inlet. Outlet i carries the i-th fraction; outlets
// beyond the fraction count stay unset.
func (s *Splitter) Calculate(materials stream.Materials) (map[string]*stream.Stream, error) {
	if !s.IsReady() {
		return nil, s.notReady()
	}

	parts, err := s.in[PortIn].Split(s.fractions)
	if err != nil {
		return nil, err
	}
	results := make(map[string]*stream.Stream, len(parts))
	for i, part := range parts {
		results[s.outputs[i]] = part
	}
	return s.store(results), nil
}

func (s *Splitter) Validate() error {
	return s.checkFractions()
}

func (s *Splitter) Summary() string {
	return fmt.Sprintf("Splitter %s: fractions %v", s.name, s.fractions)
}
