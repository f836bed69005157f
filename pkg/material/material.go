package material

import (
	"math"

	"github.com/matzehuels/flowsheet/pkg/errors"
)

// R is the universal gas constant in J/(mol·K) used by the density correlation.
const R = 8.314

// ReferenceTemperature is the temperature (K) the viscosity and heat capacity
// correlations are anchored at.
const ReferenceTemperature = 298.0

// Material is an immutable record of a pure chemical species.
// Values are copied on registration and lookup; nothing mutates a Material
// after it has been created.
type Material struct {
	Name                string  `json:"name" toml:"name" bson:"name"`
	MolecularWeight     float64 `json:"molecularWeight" toml:"molecular_weight" bson:"molecular_weight"`         // g/mol
	Density             float64 `json:"density" toml:"density" bson:"density"`                                   // kg/m³
	Viscosity           float64 `json:"viscosity" toml:"viscosity" bson:"viscosity"`                             // Pa·s
	HeatCapacity        float64 `json:"heatCapacity" toml:"heat_capacity" bson:"heat_capacity"`                  // J/(kg·K)
	ThermalConductivity float64 `json:"thermalConductivity" toml:"thermal_conductivity" bson:"thermal_conductivity"` // W/(m·K)
	CriticalTemperature float64 `json:"criticalTemperature" toml:"critical_temperature" bson:"critical_temperature"` // K
	CriticalPressure    float64 `json:"criticalPressure" toml:"critical_pressure" bson:"critical_pressure"`       // Pa
	AcentricFactor      float64 `json:"acentricFactor" toml:"acentric_factor" bson:"acentric_factor"`
}

// New validates m and returns it. The name must be a valid identifier and the
// molecular weight must be positive; other properties are taken as given.
func New(m Material) (Material, error) {
	if err := errors.ValidateID("material", m.Name); err != nil {
		return Material{}, err
	}
	if !(m.MolecularWeight > 0) {
		return Material{}, errors.New(errors.ErrCodeInvalidParameter,
			"material %s: molecular weight must be positive, got %g", m.Name, m.MolecularWeight)
	}
	return m, nil
}

// DensityAt estimates density at temperature T (K) and pressure P (Pa).
// Above the critical temperature the ideal gas law P·MW/(R·T) is used,
// otherwise the reference density is returned unchanged.
func (m Material) DensityAt(T, P float64) float64 {
	if T > m.CriticalTemperature {
		return P * m.MolecularWeight / (R * T)
	}
	return m.Density
}

// ViscosityAt applies ref · exp(-0.01·(T-298)).
func (m Material) ViscosityAt(T float64) float64 {
	return m.Viscosity * math.Exp(-0.01*(T-ReferenceTemperature))
}

// HeatCapacityAt applies ref · (1 + 0.001·(T-298)).
func (m Material) HeatCapacityAt(T float64) float64 {
	return m.HeatCapacity * (1 + 0.001*(T-ReferenceTemperature))
}
