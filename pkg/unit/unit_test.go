package unit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/material"
	"github.com/matzehuels/flowsheet/pkg/stream"
	"github.com/matzehuels/flowsheet/pkg/unit"
)

func registry() *material.Registry {
	r := material.NewRegistry()
	r.RegisterDefaults()
	return r
}

func feed(t *testing.T, id string, flow float64, components ...stream.Component) *stream.Stream {
	t.Helper()
	s, err := stream.New(id, "", 298, 101325, flow, stream.NewComposition(components...))
	require.NoError(t, err)
	return s
}

func water(f float64) stream.Component   { return stream.Component{Material: "Water", Fraction: f} }
func ethanol(f float64) stream.Component { return stream.Component{Material: "Ethanol", Fraction: f} }

func TestPorts(t *testing.T) {
	tests := []struct {
		typ     unit.Type
		inputs  []string
		outputs []string
	}{
		{unit.TypeMixer, []string{"in1", "in2", "in3"}, []string{"out"}},
		{unit.TypeSplitter, []string{"in"}, []string{"out1", "out2", "out3"}},
		{unit.TypeHeatExchanger, []string{"hot_in", "cold_in"}, []string{"hot_out", "cold_out"}},
		{unit.TypeReactor, []string{"in"}, []string{"out"}},
		{unit.TypeSeparator, []string{"in"}, []string{"liquid_out", "vapor_out"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			u, err := unit.New(tt.typ, unit.Config{ID: "u1"})
			require.NoError(t, err)
			assert.Equal(t, tt.typ, u.Type())
			assert.Equal(t, tt.inputs, u.Inputs())
			assert.Equal(t, tt.outputs, u.Outputs())
			assert.Equal(t, "u1", u.Name())
		})
	}
}

func TestConnectUndeclaredPort(t *testing.T) {
	m, err := unit.NewMixer(unit.Config{ID: "mix"})
	require.NoError(t, err)

	err = m.ConnectInput("in4", feed(t, "s1", 1, water(1)))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPort))

	err = m.ConnectOutput("in1", feed(t, "s1", 1, water(1)))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPort))

	err = m.ConnectInput("in1", nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	assert.Empty(t, m.InputStreams())
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := unit.New("pump", unit.Config{ID: "p"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = unit.NewMixer(unit.Config{ID: ""})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = unit.NewSplitter(unit.Config{ID: "sp", Parameters: unit.Parameters{"fractions": []float64{0.4, 0.3, 0.2}}})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFractions))

	_, err = unit.NewSplitter(unit.Config{ID: "sp", Parameters: unit.Parameters{"fractions": []float64{0.25, 0.25, 0.25, 0.25}}})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFractions))

	_, err = unit.NewReactor(unit.Config{ID: "r", Parameters: unit.Parameters{"conversion": 1.5}})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidParameter))

	_, err = unit.NewSeparator(unit.Config{ID: "sep", Parameters: unit.Parameters{"efficiency": -0.1}})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidParameter))

	_, err = unit.NewHeatExchanger(unit.Config{ID: "hx", Parameters: unit.Parameters{"heatDuty": "lots"}})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidParameter))
}

func TestDefaults(t *testing.T) {
	sp, err := unit.NewSplitter(unit.Config{ID: "sp"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5}, sp.Fractions())

	hx, err := unit.NewHeatExchanger(unit.Config{ID: "hx"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, hx.HeatDuty())
	assert.Equal(t, 1.0, hx.Parameters()["efficiency"])

	r, err := unit.NewReactor(unit.Config{ID: "r"})
	require.NoError(t, err)
	assert.Equal(t, 0.5, r.Parameters()["conversion"])

	sep, err := unit.NewSeparator(unit.Config{ID: "sep"})
	require.NoError(t, err)
	assert.Equal(t, 0.5, sep.Parameters()["efficiency"])
}

func TestPressureDropAndDuty(t *testing.T) {
	hx, err := unit.NewHeatExchanger(unit.Config{ID: "hx", Parameters: unit.Parameters{"heatDuty": 1000, "efficiency": 0.5}})
	require.NoError(t, err)

	tests := []struct {
		name string
		typ  unit.Type
		drop float64
	}{
		{"mixer", unit.TypeMixer, 0},
		{"splitter", unit.TypeSplitter, 0},
		{"heat exchanger", unit.TypeHeatExchanger, 50000},
		{"reactor", unit.TypeReactor, 100000},
		{"separator", unit.TypeSeparator, 25000},
	}
	for _, tt := range tests {
		u, err := unit.New(tt.typ, unit.Config{ID: "u"})
		require.NoError(t, err)
		if got := u.PressureDrop(); got != tt.drop {
			t.Errorf("%s PressureDrop() = %v, want %v", tt.name, got, tt.drop)
		}
		if tt.typ != unit.TypeHeatExchanger {
			assert.Equal(t, 0.0, u.HeatDuty(), tt.name)
		}
	}

	assert.Equal(t, 1000.0, hx.HeatDuty())
}

func TestParametersAreCopied(t *testing.T) {
	params := unit.Parameters{"conversion": 0.8}
	r, err := unit.NewReactor(unit.Config{ID: "r", Parameters: params})
	require.NoError(t, err)

	params["conversion"] = 0.1
	got := r.Parameters()
	assert.Equal(t, 0.8, got["conversion"])

	got["conversion"] = 0.2
	assert.Equal(t, 0.8, r.Parameters()["conversion"])
}

func TestParseType(t *testing.T) {
	typ, err := unit.ParseType("heat_exchanger")
	require.NoError(t, err)
	assert.Equal(t, unit.TypeHeatExchanger, typ)

	_, err = unit.ParseType("HeatExchanger")
	assert.Error(t, err)
}
