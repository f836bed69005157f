package stream

// EmptyMixID is the identifier of the placeholder returned when mixing two
// zero-flow streams.
const EmptyMixID = "mixed_empty"

// Mix combines a and b into a new stream.
//
// The composition is mass-weighted over the union of both streams' components
// (a's components first). Temperature and pressure are flow-weighted averages,
// not an energy balance. The flow rate is the sum. Phase, enthalpy and entropy
// are recomputed on the result. When the total flow is zero an empty
// placeholder stream at the reference state is returned.
func Mix(a, b *Stream, materials Materials) *Stream {
	total := a.FlowRate + b.FlowRate
	if total == 0 {
		return &Stream{
			ID:          EmptyMixID,
			Name:        "Empty mix",
			Temperature: ReferenceTemperature,
			Pressure:    StandardPressure,
			Phase:       PhaseLiquid,
		}
	}

	weighted := func(va, vb float64) float64 {
		return (va*a.FlowRate + vb*b.FlowRate) / total
	}

	var comp Composition
	for _, k := range a.Composition.keys {
		comp.Set(k, weighted(a.Composition.fractions[k], b.Composition.fractions[k]))
	}
	for _, k := range b.Composition.keys {
		if _, seen := comp.fractions[k]; seen {
			continue
		}
		comp.Set(k, weighted(0, b.Composition.fractions[k]))
	}

	mixed := &Stream{
		ID:          a.ID + "_" + b.ID + "_mix",
		Name:        a.Name + " + " + b.Name,
		Temperature: weighted(a.Temperature, b.Temperature),
		Pressure:    weighted(a.Pressure, b.Pressure),
		FlowRate:    total,
		Composition: comp,
	}
	mixed.UpdateProperties(materials)
	return mixed
}
