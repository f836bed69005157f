package material

// Preset names.
const (
	NameWater   = "Water"
	NameMethane = "Methane"
	NameEthanol = "Ethanol"
	NameBenzene = "Benzene"
	NameToluene = "Toluene"
)

// Water returns the preset record for water.
func Water() Material {
	return Material{
		Name:                NameWater,
		MolecularWeight:     18.015,
		Density:             997.0,
		Viscosity:           0.00089,
		HeatCapacity:        4186.0,
		ThermalConductivity: 0.606,
		CriticalTemperature: 647.1,
		CriticalPressure:    22.064e6,
		AcentricFactor:      0.344,
	}
}

// Methane returns the preset record for methane.
func Methane() Material {
	return Material{
		Name:                NameMethane,
		MolecularWeight:     16.043,
		Density:             0.656,
		Viscosity:           1.1e-5,
		HeatCapacity:        2220.0,
		ThermalConductivity: 0.034,
		CriticalTemperature: 190.6,
		CriticalPressure:    4.599e6,
		AcentricFactor:      0.012,
	}
}

// Ethanol returns the preset record for ethanol.
func Ethanol() Material {
	return Material{
		Name:                NameEthanol,
		MolecularWeight:     46.069,
		Density:             789.0,
		Viscosity:           0.0012,
		HeatCapacity:        2440.0,
		ThermalConductivity: 0.171,
		CriticalTemperature: 513.9,
		CriticalPressure:    6.137e6,
		AcentricFactor:      0.645,
	}
}

// Benzene returns the preset record for benzene.
func Benzene() Material {
	return Material{
		Name:                NameBenzene,
		MolecularWeight:     78.114,
		Density:             876.0,
		Viscosity:           0.000604,
		HeatCapacity:        1740.0,
		ThermalConductivity: 0.141,
		CriticalTemperature: 562.0,
		CriticalPressure:    4.894e6,
		AcentricFactor:      0.212,
	}
}

// Toluene returns the preset record for toluene.
func Toluene() Material {
	return Material{
		Name:                NameToluene,
		MolecularWeight:     92.141,
		Density:             867.0,
		Viscosity:           0.00056,
		HeatCapacity:        1700.0,
		ThermalConductivity: 0.131,
		CriticalTemperature: 591.8,
		CriticalPressure:    4.108e6,
		AcentricFactor:      0.263,
	}
}

// Defaults returns the five preset materials in registration order.
func Defaults() []Material {
	return []Material{Water(), Methane(), Ethanol(), Benzene(), Toluene()}
}
