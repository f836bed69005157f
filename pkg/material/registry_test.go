package material_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/material"
)

func TestRegistryDefaults(t *testing.T) {
	reg := material.NewRegistry()
	assert.Equal(t, 0, reg.Len())

	reg.RegisterDefaults()
	assert.Equal(t, 5, reg.Len())
	assert.Equal(t, []string{"Water", "Methane", "Ethanol", "Benzene", "Toluene"}, reg.Names())

	water, ok := reg.Get("Water")
	require.True(t, ok)
	assert.Equal(t, material.Water(), water)
}

func TestRegistryReplaceKeepsOrder(t *testing.T) {
	reg := material.NewRegistry()
	reg.RegisterDefaults()

	custom := material.Water()
	custom.HeatCapacity = 4000
	require.NoError(t, reg.Register(custom))

	assert.Equal(t, 5, reg.Len())
	assert.Equal(t, "Water", reg.Names()[0])
	got, _ := reg.Get("Water")
	assert.Equal(t, 4000.0, got.HeatCapacity)
}

func TestRegistryLookup(t *testing.T) {
	reg := material.NewRegistry()
	_, err := reg.Lookup("Unobtainium")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	assert.False(t, reg.Has("Unobtainium"))
}

func TestRegistriesAreIndependent(t *testing.T) {
	a := material.NewRegistry()
	a.RegisterDefaults()
	b := a.Clone()

	changed := material.Ethanol()
	changed.Density = 1
	require.NoError(t, b.Register(changed))

	orig, _ := a.Get("Ethanol")
	assert.Equal(t, material.Ethanol().Density, orig.Density)

	require.NoError(t, b.Register(material.Material{Name: "Air", MolecularWeight: 28.97}))
	assert.False(t, a.Has("Air"))
	assert.True(t, b.Has("Air"))
}
