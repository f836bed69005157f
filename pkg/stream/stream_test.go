package stream_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/material"
	"github.com/matzehuels/flowsheet/pkg/stream"
)

func registry() *material.Registry {
	r := material.NewRegistry()
	r.RegisterDefaults()
	return r
}

func comp(pairs ...any) stream.Composition {
	var c stream.Composition
	for i := 0; i < len(pairs); i += 2 {
		c.Set(pairs[i].(string), pairs[i+1].(float64))
	}
	return c
}

func mustStream(t *testing.T, id string, T, P, F float64, c stream.Composition) *stream.Stream {
	t.Helper()
	s, err := stream.New(id, "", T, P, F, c)
	require.NoError(t, err)
	return s
}

func TestNewValidation(t *testing.T) {
	_, err := stream.New("", "", 298, 101325, 1, comp("Water", 1.0))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = stream.New("s1", "", 298, 101325, -1, comp("Water", 1.0))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = stream.New("s1", "", 0, 101325, 1, comp("Water", 1.0))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	s, err := stream.New("s1", "", 298, 101325, 0, comp("Water", 1.0))
	require.NoError(t, err)
	assert.Equal(t, "s1", s.Name)
	assert.Equal(t, stream.PhaseLiquid, s.Phase)
}

func TestNewCopiesComposition(t *testing.T) {
	c := comp("Water", 1.0)
	s := mustStream(t, "s1", 298, 101325, 1, c)
	c.Set("Water", 0.5)
	assert.Equal(t, 1.0, s.Composition.Fraction("Water"))
}

func TestCalculateEnthalpy(t *testing.T) {
	reg := registry()
	s := mustStream(t, "s1", 350, 101325, 1, comp("Water", 0.6, "Ethanol", 0.4, "Unobtainium", 0.0))

	water, _ := reg.Get("Water")
	ethanol, _ := reg.Get("Ethanol")
	want := 0.6*water.HeatCapacityAt(350)*(350-298.15) + 0.4*ethanol.HeatCapacityAt(350)*(350-298.15)

	got := s.CalculateEnthalpy(reg)
	assert.InDelta(t, want, got, 1e-6)
	assert.Equal(t, got, s.Enthalpy)
}

func TestCalculateEntropy(t *testing.T) {
	reg := registry()
	s := mustStream(t, "s1", 400, 101325, 1, comp("Toluene", 1.0))

	toluene, _ := reg.Get("Toluene")
	want := toluene.HeatCapacityAt(400) * math.Log(400/298.15)

	got := s.CalculateEntropy(reg)
	assert.InDelta(t, want, got, 1e-9)
	assert.Equal(t, got, s.Entropy)
}

func TestUnknownMaterialsAreSkipped(t *testing.T) {
	reg := registry()
	s := mustStream(t, "s1", 350, 101325, 1, comp("Unobtainium", 1.0))
	assert.Equal(t, 0.0, s.CalculateEnthalpy(reg))
	assert.Equal(t, 0.0, s.CalculateEntropy(reg))
	assert.Equal(t, stream.PhaseLiquid, s.DeterminePhase(reg))
}

func TestDeterminePhase(t *testing.T) {
	reg := registry()
	tests := []struct {
		name string
		T, P float64
		c    stream.Composition
		want stream.Phase
	}{
		{"pressurized water", 298, 5e6, comp("Water", 1.0), stream.PhaseLiquid},
		{"atmospheric water is vapor by the heuristic", 298, 101325, comp("Water", 1.0), stream.PhaseVapor},
		{"supercritical methane", 298, 5e6, comp("Methane", 1.0), stream.PhaseVapor},
		{"half and half", 298, 5e6, comp("Water", 0.5, "Methane", 0.5), stream.PhaseMixed},
		{"mostly liquid", 298, 5e6, comp("Water", 0.95, "Methane", 0.05), stream.PhaseLiquid},
		{"mostly vapor", 298, 5e6, comp("Water", 0.05, "Methane", 0.95), stream.PhaseVapor},
		{"dominant liquid", 298, 5e6, comp("Water", 0.91, "Methane", 0.09), stream.PhaseLiquid},
		{"empty composition", 298, 5e6, stream.Composition{}, stream.PhaseLiquid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustStream(t, "s", tt.T, tt.P, 1, tt.c)
			before := s.Phase
			assert.Equal(t, tt.want, s.DeterminePhase(reg))
			assert.Equal(t, before, s.Phase, "DeterminePhase must not mutate")
		})
	}
}

func TestClone(t *testing.T) {
	s := mustStream(t, "feed", 310, 2e5, 3, comp("Water", 1.0))
	s.Enthalpy = 42

	c := s.Clone("")
	assert.Equal(t, "feed_copy", c.ID)
	assert.Equal(t, "feed (copy)", c.Name)
	assert.Equal(t, 42.0, c.Enthalpy)
	assert.Equal(t, s.FlowRate, c.FlowRate)

	c.Composition.Set("Water", 0.1)
	assert.Equal(t, 1.0, s.Composition.Fraction("Water"))

	named := s.Clone("other")
	assert.Equal(t, "other", named.ID)
}

func TestSplit(t *testing.T) {
	s := mustStream(t, "feed", 310, 2e5, 10, comp("Water", 0.7, "Ethanol", 0.3))
	s.Phase = stream.PhaseMixed

	parts, err := s.Split([]float64{0.5, 0.5})
	require.NoError(t, err)
	require.Len(t, parts, 2)

	for i, p := range parts {
		assert.Equal(t, []string{"feed_split_0", "feed_split_1"}[i], p.ID)
		assert.Equal(t, 5.0, p.FlowRate)
		assert.Equal(t, s.Temperature, p.Temperature)
		assert.Equal(t, s.Pressure, p.Pressure)
		assert.Equal(t, stream.PhaseMixed, p.Phase)
		assert.Equal(t, []string{"Water", "Ethanol"}, p.Composition.Keys())
	}

	parts[0].Composition.Set("Water", 0)
	assert.Equal(t, 0.7, s.Composition.Fraction("Water"))
}

func TestSplitRejectsBadFractions(t *testing.T) {
	s := mustStream(t, "feed", 310, 2e5, 10, comp("Water", 1.0))

	_, err := s.Split([]float64{0.4, 0.3, 0.2})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFractions))

	_, err = s.Split(nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFractions))
}

func TestTotalFlow(t *testing.T) {
	a := mustStream(t, "a", 300, 1e5, 2, comp("Water", 1.0))
	b := mustStream(t, "b", 300, 1e5, 3, comp("Water", 1.0))
	assert.Equal(t, 5.0, stream.TotalFlow(a, nil, b))
	assert.Equal(t, 0.0, stream.TotalFlow())
}

func TestParsePhase(t *testing.T) {
	p, err := stream.ParsePhase("vapor")
	require.NoError(t, err)
	assert.Equal(t, stream.PhaseVapor, p)

	p, err = stream.ParsePhase("")
	require.NoError(t, err)
	assert.Equal(t, stream.Phase(""), p)

	_, err = stream.ParsePhase("plasma")
	assert.Error(t, err)
}

func TestStreamJSON(t *testing.T) {
	s := mustStream(t, "feed", 310, 2e5, 10, comp("Water", 0.7, "Ethanol", 0.3))
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"composition":{"Water":0.7,"Ethanol":0.3}`)

	var back stream.Stream
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"Water", "Ethanol"}, back.Composition.Keys())
	assert.Equal(t, s.FlowRate, back.FlowRate)
}
