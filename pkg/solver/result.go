package solver

import (
	"github.com/matzehuels/flowsheet/pkg/stream"
	"github.com/matzehuels/flowsheet/pkg/unit"
)

// Result is the complete outcome of a solve. It is returned whether or not
// the solve converged.
type Result struct {
	Converged  bool                     `json:"converged"`
	Iterations int                      `json:"iterations"`
	Residuals  []float64                `json:"residuals"`
	Streams    map[string]stream.Stream `json:"streams"`
	Units      map[string]UnitReport    `json:"units"`
	Warnings   []string                 `json:"warnings"`
	Errors     []string                 `json:"errors"`
	// Order is the calculation order used.
	Order []string `json:"order"`
}

// UnitReport is a snapshot of one unit after a solve.
type UnitReport struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Type         unit.Type       `json:"type"`
	Position     unit.Position   `json:"position"`
	Parameters   unit.Parameters `json:"parameters"`
	PressureDrop float64         `json:"pressureDrop"`
	HeatDuty     float64         `json:"heatDuty"`
	Summary      string          `json:"summary"`
}

// Report snapshots u.
func Report(u unit.Operation) UnitReport {
	return UnitReport{
		ID:           u.ID(),
		Name:         u.Name(),
		Type:         u.Type(),
		Position:     u.Position(),
		Parameters:   u.Parameters(),
		PressureDrop: u.PressureDrop(),
		HeatDuty:     u.HeatDuty(),
		Summary:      u.Summary(),
	}
}

// MaxResidual returns the largest final residual, or 0 when there are none.
func (r *Result) MaxResidual() float64 {
	var m float64
	for _, v := range r.Residuals {
		m = max(m, v)
	}
	return m
}
