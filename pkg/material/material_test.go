package material_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/material"
)

func TestDensityAt(t *testing.T) {
	water := material.Water()

	// Below the critical temperature the reference density is returned.
	assert.Equal(t, water.Density, water.DensityAt(298, 101325))

	// Above it, the ideal gas law applies with the stored molecular weight.
	methane := material.Methane()
	got := methane.DensityAt(298, 101325)
	want := 101325 * methane.MolecularWeight / (material.R * 298)
	assert.InDelta(t, want, got, 1e-9)
}

func TestDensityAtCriticalBoundary(t *testing.T) {
	m := material.Water()
	// Exactly at Tc the liquid branch is used (strictly greater is required).
	assert.Equal(t, m.Density, m.DensityAt(m.CriticalTemperature, 1e5))
}

func TestViscosityAt(t *testing.T) {
	m := material.Ethanol()
	assert.InDelta(t, m.Viscosity, m.ViscosityAt(298), 1e-15)
	assert.InDelta(t, m.Viscosity*math.Exp(-0.01*52), m.ViscosityAt(350), 1e-15)
}

func TestHeatCapacityAt(t *testing.T) {
	m := material.Water()
	assert.InDelta(t, m.HeatCapacity, m.HeatCapacityAt(298), 1e-9)
	assert.InDelta(t, 4186*(1+0.001*0.15), m.HeatCapacityAt(298.15), 1e-9)
	assert.InDelta(t, 4186*(1+0.001*(-98)), m.HeatCapacityAt(200), 1e-9)
}

func TestCorrelationsDoNotMutate(t *testing.T) {
	m := material.Toluene()
	before := m
	_ = m.DensityAt(900, 2e5)
	_ = m.ViscosityAt(400)
	_ = m.HeatCapacityAt(400)
	assert.Equal(t, before, m)
}

func TestNew(t *testing.T) {
	_, err := material.New(material.Material{Name: "", MolecularWeight: 10})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = material.New(material.Material{Name: "Air", MolecularWeight: 0})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidParameter))

	m, err := material.New(material.Material{Name: "Air", MolecularWeight: 28.97})
	require.NoError(t, err)
	assert.Equal(t, "Air", m.Name)
}

func TestDefaults(t *testing.T) {
	names := make([]string, 0, 5)
	for _, m := range material.Defaults() {
		names = append(names, m.Name)
		_, err := material.New(m)
		assert.NoError(t, err, m.Name)
	}
	assert.Equal(t, []string{"Water", "Methane", "Ethanol", "Benzene", "Toluene"}, names)
}
