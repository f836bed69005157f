package flowsheet

import (
	"fmt"

	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/unit"
)

// ValidationReport lists structural findings. Warnings never make a
// flowsheet invalid.
type ValidationReport struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ValidateFlowsheet checks the flowsheet structure without modifying it.
//
// Units without inbound or outbound connections, streams that no
// connection references and components without a registered material are
// warnings. A failing unit Validate is an error.
func (e *Engine) ValidateFlowsheet() ValidationReport {
	r := ValidationReport{Errors: []string{}, Warnings: []string{}}
	conns := e.solver.Connections()
	units := e.solver.Units()

	if len(units) == 0 {
		r.Warnings = append(r.Warnings, "flowsheet has no units")
	}

	for _, u := range units {
		var inbound, outbound bool
		for _, c := range conns {
			inbound = inbound || c.To == u.ID()
			outbound = outbound || c.From == u.ID()
		}
		if !inbound {
			r.Warnings = append(r.Warnings, fmt.Sprintf("unit %s has no inbound connections", u.ID()))
		}
		if !outbound {
			r.Warnings = append(r.Warnings, fmt.Sprintf("unit %s has no outbound connections", u.ID()))
		}
		if err := u.Validate(); err != nil {
			r.Errors = append(r.Errors, fmt.Sprintf("unit %s: %s", u.ID(), errors.UserMessage(err)))
		}
	}

	referenced := make(map[string]bool, len(conns))
	for _, c := range conns {
		referenced[c.Stream] = true
	}
	materials := e.solver.Materials()
	for _, st := range e.solver.Streams() {
		if !referenced[st.ID] {
			r.Warnings = append(r.Warnings, fmt.Sprintf("stream %s is not referenced by any connection", st.ID))
		}
		for _, name := range st.Composition.Keys() {
			if name == unit.ProductComponent || materials.Has(name) {
				continue
			}
			r.Warnings = append(r.Warnings, fmt.Sprintf("stream %s references unknown material %q", st.ID, name))
		}
	}

	r.Valid = len(r.Errors) == 0
	return r
}
