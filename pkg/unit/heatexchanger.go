package unit

import (
	"fmt"

	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/stream"
)

// HeatExchanger port names.
const (
	PortHotIn   = "hot_in"
	PortColdIn  = "cold_in"
	PortHotOut  = "hot_out"
	PortColdOut = "cold_out"
)

// heatExchangerPressureDrop is the reported pressure drop in Pa.
const heatExchangerPressureDrop = 50000.0

// HeatExchanger moves heat from a hot stream to a cold stream.
type HeatExchanger struct {
	base
	duty       float64 // W
	efficiency float64
}

// NewHeatExchanger creates a heat exchanger. Parameters heatDuty (W,
// default 0) and efficiency (default 1, within [0, 1]) are optional.
func NewHeatExchanger(cfg Config) (*HeatExchanger, error) {
	b, err := newBase(TypeHeatExchanger, cfg,
		[]string{PortHotIn, PortColdIn}, []string{PortHotOut, PortColdOut})
	if err != nil {
		return nil, err
	}
	duty, err := b.params.Float(ParamHeatDuty, 0)
	if err != nil {
		return nil, err
	}
	eff, err := b.params.Float(ParamEfficiency, 1)
	if err != nil {
		return nil, err
	}
	if err := errors.ValidateFraction(ParamEfficiency, eff); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, err, "heat exchanger %s", cfg.ID)
	}
	h := &HeatExchanger{base: b, duty: duty, efficiency: eff}
	h.params = h.params.with(ParamHeatDuty, duty).with(ParamEfficiency, eff)
	return h, nil
}

// Calculate clones both inlets and shifts their specific enthalpies by the
// effective duty divided by each stream's flow rate. With no effective duty
// both inlets pass through unchanged, whatever their flow.
func (h *HeatExchanger) Calculate(materials stream.Materials) (map[string]*stream.Stream, error) {
	if !h.IsReady() {
		return nil, h.notReady()
	}

	hot, cold := h.in[PortHotIn], h.in[PortColdIn]
	hotOut := hot.Clone(h.outletID(PortHotOut))
	coldOut := cold.Clone(h.outletID(PortColdOut))

	if q := h.duty * h.efficiency; q != 0 {
		if hot.FlowRate == 0 || cold.FlowRate == 0 {
			return nil, h.calcError("zero inlet flow (hot %g kg/s, cold %g kg/s)", hot.FlowRate, cold.FlowRate)
		}
		hotOut.Enthalpy -= q / hot.FlowRate
		coldOut.Enthalpy += q / cold.FlowRate
	}

	return h.store(map[string]*stream.Stream{PortHotOut: hotOut, PortColdOut: coldOut}), nil
}

func (h *HeatExchanger) Validate() error {
	if missing := h.missingInputs(); len(missing) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "heat exchanger %s needs both inputs (missing: %v)", h.id, missing)
	}
	return errors.ValidateFraction(ParamEfficiency, h.efficiency)
}

func (h *HeatExchanger) PressureDrop() float64 { return heatExchangerPressureDrop }

// HeatDuty returns the configured duty, before efficiency.
func (h *HeatExchanger) HeatDuty() float64 { return h.duty }

func (h *HeatExchanger) Summary() string {
	return fmt.Sprintf("Heat exchanger %s: duty %.4g W at %.0f%% efficiency", h.name, h.duty, h.efficiency*100)
}
