package solver

import (
	goerrors "errors"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowsheet/pkg/dag"
	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/material"
	"github.com/matzehuels/flowsheet/pkg/stream"
	"github.com/matzehuels/flowsheet/pkg/unit"
)

// Connection routes a stream from a unit's output port to another unit's
// input port. An empty From marks a feed, an empty To a product.
type Connection struct {
	From     string `json:"from" toml:"from" bson:"from"`
	FromPort string `json:"fromPort,omitempty" toml:"from_port" bson:"fromPort,omitempty"`
	To       string `json:"to" toml:"to" bson:"to"`
	ToPort   string `json:"toPort,omitempty" toml:"to_port" bson:"toPort,omitempty"`
	Stream   string `json:"stream" toml:"stream" bson:"stream"`
}

// Solver owns the units, streams and materials of one flowsheet.
// It is not safe for concurrent use.
type Solver struct {
	logger      *log.Logger
	materials   *material.Registry
	units       map[string]unit.Operation
	unitOrder   []string
	streams     map[string]*stream.Stream
	streamOrder []string
	connections []Connection
}

// New creates a solver with the default materials registered. A nil logger
// discards output.
func New(logger *log.Logger) *Solver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Solver{logger: logger}
	s.Reset()
	return s
}

// Reset drops all units, streams and connections and restores the default
// materials.
func (s *Solver) Reset() {
	s.materials = material.NewRegistry()
	s.materials.RegisterDefaults()
	s.units = make(map[string]unit.Operation)
	s.unitOrder = nil
	s.streams = make(map[string]*stream.Stream)
	s.streamOrder = nil
	s.connections = nil
}

// Logger returns the solver's logger.
func (s *Solver) Logger() *log.Logger { return s.logger }

// Materials returns the solver's material registry.
func (s *Solver) Materials() *material.Registry { return s.materials }

// AddMaterial registers or replaces a material.
func (s *Solver) AddMaterial(m material.Material) error {
	return s.materials.Register(m)
}

// AddUnit registers a unit. Unit ids must be unique.
func (s *Solver) AddUnit(u unit.Operation) error {
	if u == nil {
		return errors.New(errors.ErrCodeInvalidInput, "unit is nil")
	}
	if _, exists := s.units[u.ID()]; exists {
		return errors.New(errors.ErrCodeDuplicateID, "unit %s already exists", u.ID())
	}
	s.units[u.ID()] = u
	s.unitOrder = append(s.unitOrder, u.ID())
	return nil
}

// Unit returns the unit with the given id.
func (s *Solver) Unit(id string) (unit.Operation, bool) {
	u, ok := s.units[id]
	return u, ok
}

// Units returns all units in insertion order.
func (s *Solver) Units() []unit.Operation {
	out := make([]unit.Operation, len(s.unitOrder))
	for i, id := range s.unitOrder {
		out[i] = s.units[id]
	}
	return out
}

// AddStream registers a stream, replacing any stream with the same id.
func (s *Solver) AddStream(st *stream.Stream) error {
	if st == nil {
		return errors.New(errors.ErrCodeInvalidInput, "stream is nil")
	}
	if err := errors.ValidateID("stream", st.ID); err != nil {
		return err
	}
	s.putStream(st)
	return nil
}

func (s *Solver) putStream(st *stream.Stream) {
	if _, exists := s.streams[st.ID]; !exists {
		s.streamOrder = append(s.streamOrder, st.ID)
	}
	s.streams[st.ID] = st
}

// Stream returns the registered stream with the given id.
func (s *Solver) Stream(id string) (*stream.Stream, bool) {
	st, ok := s.streams[id]
	return st, ok
}

// Streams returns all registered streams in registration order.
func (s *Solver) Streams() []*stream.Stream {
	out := make([]*stream.Stream, len(s.streamOrder))
	for i, id := range s.streamOrder {
		out[i] = s.streams[id]
	}
	return out
}

// Connections returns a copy of the connection list.
func (s *Solver) Connections() []Connection { return slices.Clone(s.connections) }

// Connect registers st, appends the connection and binds st to both ports.
// Unknown units and undeclared ports are rejected before anything is
// recorded.
func (s *Solver) Connect(c Connection, st *stream.Stream) error {
	if st == nil {
		return errors.New(errors.ErrCodeInvalidInput, "connection %s -> %s: stream is nil", c.From, c.To)
	}
	if c.Stream == "" {
		c.Stream = st.ID
	}
	if c.Stream != st.ID {
		return errors.New(errors.ErrCodeInvalidInput, "connection names stream %q but got stream %q", c.Stream, st.ID)
	}
	if c.From == "" && c.To == "" {
		return errors.New(errors.ErrCodeInvalidInput, "connection for stream %s has neither source nor target", st.ID)
	}
	if err := errors.ValidateID("stream", st.ID); err != nil {
		return err
	}

	var from, to unit.Operation
	if c.From != "" {
		u, err := s.portOwner(c.From, c.FromPort, unit.Operation.Outputs)
		if err != nil {
			return err
		}
		from = u
	}
	if c.To != "" {
		u, err := s.portOwner(c.To, c.ToPort, unit.Operation.Inputs)
		if err != nil {
			return err
		}
		to = u
	}

	s.putStream(st)
	s.connections = append(s.connections, c)
	if from != nil {
		if err := from.ConnectOutput(c.FromPort, st); err != nil {
			return err
		}
	}
	if to != nil {
		if err := to.ConnectInput(c.ToPort, st); err != nil {
			return err
		}
	}
	s.logger.Debug("connected", "from", c.From, "fromPort", c.FromPort, "to", c.To, "toPort", c.ToPort, "stream", st.ID)
	return nil
}

func (s *Solver) portOwner(id, port string, ports func(unit.Operation) []string) (unit.Operation, error) {
	u, ok := s.units[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnitNotFound, "unit %s not found", id)
	}
	if declared := ports(u); !slices.Contains(declared, port) {
		return nil, errors.New(errors.ErrCodeInvalidPort, "port %q is not declared on %s %s (available: %v)", port, u.Type(), id, declared)
	}
	return u, nil
}

// CalculationOrder returns unit ids with producers before consumers. A
// unit depends on the units whose connections carry any stream currently
// bound to one of its inputs.
func (s *Solver) CalculationOrder() ([]string, error) {
	g, err := s.dependencyGraph()
	if err != nil {
		return nil, err
	}
	order, err := g.TopologicalSort()
	if err != nil {
		if goerrors.Is(err, dag.ErrGraphHasCycle) {
			return nil, errors.Wrap(errors.ErrCodeCyclicDependency, err, "recycle loops are not supported")
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "order units")
	}
	return order, nil
}

func (s *Solver) dependencyGraph() (*dag.DAG, error) {
	g := dag.New()
	for _, id := range s.unitOrder {
		if err := g.AddNode(id); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "build dependency graph")
		}
	}
	for _, id := range s.unitOrder {
		u := s.units[id]
		inputs := u.InputStreams()
		for _, port := range u.Inputs() {
			in := inputs[port]
			if in == nil {
				continue
			}
			for _, c := range s.connections {
				if c.Stream != in.ID || c.From == "" || !g.HasNode(c.From) {
					continue
				}
				if err := g.AddEdge(dag.Edge{From: c.From, To: id, Stream: c.Stream}); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInternal, err, "build dependency graph")
				}
			}
		}
	}
	return g, nil
}
