package unit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/stream"
	"github.com/matzehuels/flowsheet/pkg/unit"
)

func TestMixerNotReadyWithSingleInput(t *testing.T) {
	m, err := unit.NewMixer(unit.Config{ID: "mix"})
	require.NoError(t, err)

	previous := feed(t, "old", 1, water(1))
	require.NoError(t, m.ConnectOutput("out", previous))
	require.NoError(t, m.ConnectInput("in1", feed(t, "s1", 10, water(1))))

	assert.False(t, m.IsReady())

	out, err := m.Calculate(registry())
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, errors.ErrCodeNotReady))
	assert.Same(t, previous, m.OutputStreams()["out"])
	assert.Error(t, m.Validate())
}

func TestMixer(t *testing.T) {
	m, err := unit.NewMixer(unit.Config{ID: "mix", Name: "Mix"})
	require.NoError(t, err)

	a := feed(t, "feed1", 10, water(1))
	b := feed(t, "feed2", 5, ethanol(1))
	require.NoError(t, m.ConnectInput("in1", a))
	require.NoError(t, m.ConnectInput("in2", b))
	assert.True(t, m.IsReady())
	assert.NoError(t, m.Validate())

	out, err := m.Calculate(registry())
	require.NoError(t, err)

	mixed := out["out"]
	require.NotNil(t, mixed)
	assert.Equal(t, "mix_out", mixed.ID)
	assert.Equal(t, 15.0, mixed.FlowRate)
	assert.Equal(t, []string{"Water", "Ethanol"}, mixed.Composition.Keys())
	assert.InDelta(t, 2.0/3.0, mixed.Composition.Fraction("Water"), 1e-12)
	assert.Same(t, mixed, m.OutputStreams()["out"])
	assert.Equal(t, "feed1", a.ID, "inputs must not be renamed")
}

func TestMixerThreeInputs(t *testing.T) {
	m, err := unit.NewMixer(unit.Config{ID: "mix"})
	require.NoError(t, err)
	require.NoError(t, m.ConnectInput("in1", feed(t, "a", 1, water(1))))
	require.NoError(t, m.ConnectInput("in3", feed(t, "c", 2, water(1))))
	require.NoError(t, m.ConnectInput("in2", feed(t, "b", 3, ethanol(1))))

	out, err := m.Calculate(registry())
	require.NoError(t, err)
	assert.Equal(t, 6.0, out["out"].FlowRate)
	assert.InDelta(t, 0.5, out["out"].Composition.Fraction("Ethanol"), 1e-12)
	// Inputs are mixed in port order, so in2's component follows in1's.
	assert.Equal(t, []string{"Water", "Ethanol"}, out["out"].Composition.Keys())
}

func TestSplitter(t *testing.T) {
	sp, err := unit.NewSplitter(unit.Config{ID: "sp", Parameters: unit.Parameters{"fractions": []any{0.2, 0.3, 0.5}}})
	require.NoError(t, err)

	_, err = sp.Calculate(registry())
	assert.True(t, errors.Is(err, errors.ErrCodeNotReady))

	require.NoError(t, sp.ConnectInput("in", feed(t, "f", 10, water(1))))
	out, err := sp.Calculate(registry())
	require.NoError(t, err)

	require.Len(t, out, 3)
	assert.InDelta(t, 2.0, out["out1"].FlowRate, 1e-12)
	assert.InDelta(t, 3.0, out["out2"].FlowRate, 1e-12)
	assert.InDelta(t, 5.0, out["out3"].FlowRate, 1e-12)
	assert.Equal(t, "f_split_0", out["out1"].ID)
}

func TestSplitterTwoWay(t *testing.T) {
	sp, err := unit.NewSplitter(unit.Config{ID: "sp"})
	require.NoError(t, err)
	require.NoError(t, sp.ConnectInput("in", feed(t, "f", 8, water(1))))

	out, err := sp.Calculate(registry())
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Nil(t, sp.OutputStreams()["out3"])
	assert.Equal(t, 4.0, out["out1"].FlowRate)
	assert.Equal(t, 4.0, out["out2"].FlowRate)
}

func TestHeatExchanger(t *testing.T) {
	hx, err := unit.NewHeatExchanger(unit.Config{ID: "hx", Parameters: unit.Parameters{"heatDuty": 10000.0, "efficiency": 0.8}})
	require.NoError(t, err)

	hot := feed(t, "hot", 4, water(1))
	hot.Enthalpy = 5000
	cold := feed(t, "cold", 2, water(1))
	cold.Enthalpy = 1000

	require.NoError(t, hx.ConnectInput("hot_in", hot))
	assert.False(t, hx.IsReady())
	assert.Error(t, hx.Validate())
	require.NoError(t, hx.ConnectInput("cold_in", cold))
	assert.NoError(t, hx.Validate())

	out, err := hx.Calculate(registry())
	require.NoError(t, err)

	assert.Equal(t, "hx_hot_out", out["hot_out"].ID)
	assert.InDelta(t, 5000-8000.0/4, out["hot_out"].Enthalpy, 1e-9)
	assert.InDelta(t, 1000+8000.0/2, out["cold_out"].Enthalpy, 1e-9)
	assert.Equal(t, 4.0, out["hot_out"].FlowRate)
	assert.Equal(t, 5000.0, hot.Enthalpy, "inlet must not change")
}

func TestHeatExchangerZeroFlow(t *testing.T) {
	hx, err := unit.NewHeatExchanger(unit.Config{ID: "hx", Parameters: unit.Parameters{"heatDuty": 100}})
	require.NoError(t, err)
	require.NoError(t, hx.ConnectInput("hot_in", feed(t, "hot", 0, water(1))))
	require.NoError(t, hx.ConnectInput("cold_in", feed(t, "cold", 1, water(1))))

	_, err = hx.Calculate(registry())
	assert.True(t, errors.Is(err, errors.ErrCodeCalculation))
	assert.Empty(t, hx.OutputStreams())
}

func TestHeatExchangerZeroFlowWithoutDuty(t *testing.T) {
	tests := []struct {
		name   string
		params unit.Parameters
	}{
		{"no duty", nil},
		{"zero efficiency", unit.Parameters{"heatDuty": 100.0, "efficiency": 0.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hx, err := unit.NewHeatExchanger(unit.Config{ID: "hx", Parameters: tt.params})
			require.NoError(t, err)
			hot := feed(t, "hot", 0, water(1))
			hot.Enthalpy = 1200
			require.NoError(t, hx.ConnectInput("hot_in", hot))
			require.NoError(t, hx.ConnectInput("cold_in", feed(t, "cold", 1, water(1))))

			out, err := hx.Calculate(registry())
			require.NoError(t, err)
			assert.Equal(t, 0.0, out["hot_out"].FlowRate)
			assert.Equal(t, 1200.0, out["hot_out"].Enthalpy)
			assert.Equal(t, 1.0, out["cold_out"].FlowRate)
			assert.Len(t, hx.OutputStreams(), 2)
		})
	}
}

func TestReactor(t *testing.T) {
	r, err := unit.NewReactor(unit.Config{ID: "r", Parameters: unit.Parameters{"conversion": 0.8, "temperature": 350}})
	require.NoError(t, err)

	in := feed(t, "f", 15, stream.Component{Material: "Water", Fraction: 2.0 / 3.0}, ethanol(1.0/3.0))
	require.NoError(t, r.ConnectInput("in", in))

	out, err := r.Calculate(registry())
	require.NoError(t, err)

	s := out["out"]
	assert.Equal(t, "r_out", s.ID)
	assert.Equal(t, 350.0, s.Temperature)
	assert.Equal(t, 15.0, s.FlowRate)
	assert.InDelta(t, 2.0/3.0*0.2, s.Composition.Fraction("Water"), 1e-12)
	assert.InDelta(t, 1.0/3.0, s.Composition.Fraction("Ethanol"), 1e-12)
	assert.InDelta(t, 2.0/3.0*0.8, s.Composition.Fraction("Product"), 1e-12)
	assert.Equal(t, []string{"Water", "Ethanol", "Product"}, s.Composition.Keys())
	assert.Equal(t, 298.0, in.Temperature)
	assert.Equal(t, 2, in.Composition.Len())
}

func TestReactorKeepsInletTemperature(t *testing.T) {
	r, err := unit.NewReactor(unit.Config{ID: "r"})
	require.NoError(t, err)
	require.NoError(t, r.ConnectInput("in", feed(t, "f", 1, water(1))))

	out, err := r.Calculate(registry())
	require.NoError(t, err)
	assert.Equal(t, 298.0, out["out"].Temperature)
	assert.Equal(t, 0.5, out["out"].Composition.Fraction("Product"))
}

func TestSeparator(t *testing.T) {
	sep, err := unit.NewSeparator(unit.Config{ID: "sep", Parameters: unit.Parameters{"efficiency": 0.9, "pressure": 2e5}})
	require.NoError(t, err)
	require.NoError(t, sep.ConnectInput("in", feed(t, "f", 15, water(1))))

	out, err := sep.Calculate(registry())
	require.NoError(t, err)

	liquid, vapor := out["liquid_out"], out["vapor_out"]
	assert.InDelta(t, 1.5, liquid.FlowRate, 1e-9)
	assert.InDelta(t, 13.5, vapor.FlowRate, 1e-9)
	assert.Equal(t, stream.PhaseLiquid, liquid.Phase)
	assert.Equal(t, stream.PhaseVapor, vapor.Phase)
	assert.Equal(t, 2e5, vapor.Pressure)
	assert.Equal(t, 298.0, vapor.Temperature)
	assert.Equal(t, "sep_vapor_out", vapor.ID)
}

func TestSummary(t *testing.T) {
	for _, typ := range unit.Types {
		u, err := unit.New(typ, unit.Config{ID: "u", Name: "Unit"})
		require.NoError(t, err)
		assert.Contains(t, u.Summary(), "Unit")
	}
}
