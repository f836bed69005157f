package unit

import (
	"maps"
	"slices"

	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/stream"
)

// Type identifies a unit operation variant.
type Type string

const (
	TypeMixer         Type = "mixer"
	TypeSplitter      Type = "splitter"
	TypeHeatExchanger Type = "heat_exchanger"
	TypeReactor       Type = "reactor"
	TypeSeparator     Type = "separator"
)

// Types lists every supported unit type.
var Types = []Type{TypeMixer, TypeSplitter, TypeHeatExchanger, TypeReactor, TypeSeparator}

// ParseType converts a string to a Type.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !slices.Contains(Types, t) {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown unit type %q (must be one of %v)", s, Types)
	}
	return t, nil
}

// Position is a unit's location on the diagram canvas.
type Position struct {
	X float64 `json:"x" toml:"x" bson:"x"`
	Y float64 `json:"y" toml:"y" bson:"y"`
}

// Operation is the contract shared by all unit operations.
type Operation interface {
	ID() string
	Name() string
	Type() Type
	Position() Position
	// Parameters returns a copy of the effective parameters, defaults included.
	Parameters() Parameters

	Inputs() []string
	Outputs() []string
	// InputStreams and OutputStreams return copies of the port bindings.
	InputStreams() map[string]*stream.Stream
	OutputStreams() map[string]*stream.Stream

	ConnectInput(port string, s *stream.Stream) error
	ConnectOutput(port string, s *stream.Stream) error

	IsReady() bool
	// Calculate computes the outputs from the current inputs, stores them on
	// the output ports and returns them keyed by port. It fails with a
	// NOT_READY error, leaving outputs untouched, when IsReady is false.
	Calculate(materials stream.Materials) (map[string]*stream.Stream, error)
	// Validate checks structural sanity: connections and parameter ranges.
	Validate() error

	PressureDrop() float64
	HeatDuty() float64
	Summary() string
}

// Config carries the common construction arguments of every unit.
type Config struct {
	ID         string
	Name       string
	Position   Position
	Parameters Parameters
}

// New constructs a unit of type t.
func New(t Type, cfg Config) (Operation, error) {
	switch t {
	case TypeMixer:
		return NewMixer(cfg)
	case TypeSplitter:
		return NewSplitter(cfg)
	case TypeHeatExchanger:
		return NewHeatExchanger(cfg)
	case TypeReactor:
		return NewReactor(cfg)
	case TypeSeparator:
		return NewSeparator(cfg)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown unit type %q", t)
}

// base carries the state shared by all variants.
type base struct {
	id       string
	name     string
	typ      Type
	position Position
	params   Parameters
	inputs   []string
	outputs  []string
	in       map[string]*stream.Stream
	out      map[string]*stream.Stream
}

func newBase(t Type, cfg Config, inputs, outputs []string) (base, error) {
	if err := errors.ValidateID("unit", cfg.ID); err != nil {
		return base{}, err
	}
	name := cfg.Name
	if name == "" {
		name = cfg.ID
	}
	return base{
		id:       cfg.ID,
		name:     name,
		typ:      t,
		position: cfg.Position,
		params:   cfg.Parameters.Clone(),
		inputs:   inputs,
		outputs:  outputs,
		in:       make(map[string]*stream.Stream, len(inputs)),
		out:      make(map[string]*stream.Stream, len(outputs)),
	}, nil
}

func (b *base) ID() string                               { return b.id }
func (b *base) Name() string                             { return b.name }
func (b *base) Type() Type                               { return b.typ }
func (b *base) Position() Position                       { return b.position }
func (b *base) Parameters() Parameters                   { return b.params.Clone() }
func (b *base) Inputs() []string                         { return slices.Clone(b.inputs) }
func (b *base) Outputs() []string                        { return slices.Clone(b.outputs) }
func (b *base) InputStreams() map[string]*stream.Stream  { return maps.Clone(b.in) }
func (b *base) OutputStreams() map[string]*stream.Stream { return maps.Clone(b.out) }
func (b *base) PressureDrop() float64                    { return 0 }
func (b *base) HeatDuty() float64                        { return 0 }

func (b *base) ConnectInput(port string, s *stream.Stream) error {
	if err := b.checkPort("input", b.inputs, port, s); err != nil {
		return err
	}
	b.in[port] = s
	return nil
}

func (b *base) ConnectOutput(port string, s *stream.Stream) error {
	if err := b.checkPort("output", b.outputs, port, s); err != nil {
		return err
	}
	b.out[port] = s
	return nil
}

func (b *base) checkPort(kind string, declared []string, port string, s *stream.Stream) error {
	if !slices.Contains(declared, port) {
		return errors.New(errors.ErrCodeInvalidPort, "%s port %q is not declared on %s %s (available: %v)", kind, port, b.typ, b.id, declared)
	}
	if s == nil {
		return errors.New(errors.ErrCodeInvalidInput, "%s port %q on unit %s: stream is nil", kind, port, b.id)
	}
	return nil
}

// IsReady reports whether every declared input port is bound.
func (b *base) IsReady() bool {
	return len(b.missingInputs()) == 0
}

func (b *base) missingInputs() []string {
	var missing []string
	for _, p := range b.inputs {
		if b.in[p] == nil {
			missing = append(missing, p)
		}
	}
	return missing
}

func (b *base) connectedInputs() []*stream.Stream {
	var out []*stream.Stream
	for _, p := range b.inputs {
		if s := b.in[p]; s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (b *base) notReady() error {
	return errors.New(errors.ErrCodeNotReady, "unit %s is not ready (missing inputs: %v)", b.id, b.missingInputs())
}

func (b *base) calcError(format string, args ...any) error {
	return errors.New(errors.ErrCodeCalculation, format, args...)
}

// outletID derives the id of a stream produced on port.
func (b *base) outletID(port string) string {
	return b.id + "_" + port
}

// store replaces the output bindings with results and returns a copy.
func (b *base) store(results map[string]*stream.Stream) map[string]*stream.Stream {
	for port, s := range results {
		b.out[port] = s
	}
	return maps.Clone(results)
}

func (b *base) outletFlow() float64 {
	var total float64
	for _, p := range b.outputs {
		if s := b.out[p]; s != nil {
			total += s.FlowRate
		}
	}
	return total
}
