package unit

import (
	"encoding/json"
	"maps"
	"reflect"

	"github.com/matzehuels/flowsheet/pkg/errors"
)

// Parameter keys.
const (
	ParamFractions   = "fractions"
	ParamHeatDuty    = "heatDuty"
	ParamEfficiency  = "efficiency"
	ParamConversion  = "conversion"
	ParamTemperature = "temperature"
	ParamPressure    = "pressure"
)

// Parameters holds a unit's configuration values. Values come from Go code,
// JSON, TOML or BSON documents, so numbers may be any numeric type and lists
// may be []any.
type Parameters map[string]any

// Clone returns a shallow copy. Nil stays nil.
func (p Parameters) Clone() Parameters {
	if p == nil {
		return nil
	}
	return maps.Clone(p)
}

// Has reports whether key is set.
func (p Parameters) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Float returns the numeric value for key, or def when absent.
func (p Parameters) Float(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return def, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidParameter, "parameter %q must be a number, got %T", key, v)
	}
	return f, nil
}

// Floats returns the numeric list for key, or def when absent.
func (p Parameters) Floats(key string, def []float64) ([]float64, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return def, nil
	}
	if fs, ok := v.([]float64); ok {
		return fs, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "parameter %q must be a list of numbers, got %T", key, v)
	}
	out := make([]float64, rv.Len())
	for i := range out {
		f, ok := toFloat(rv.Index(i).Interface())
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidParameter, "parameter %q[%d] must be a number", key, i)
		}
		out[i] = f
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// with returns p with key set, allocating when p is nil.
func (p Parameters) with(key string, v any) Parameters {
	if p == nil {
		p = make(Parameters)
	}
	p[key] = v
	return p
}
