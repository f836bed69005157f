package stream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Composition maps material names to mass fractions and preserves insertion
// order. The zero value is an empty composition ready to use.
//
// Copying a Composition value shares its storage; use [Composition.Clone]
// for an independent copy.
type Composition struct {
	keys      []string
	fractions map[string]float64
}

// NewComposition builds a composition from components, keeping their order.
// Repeated materials accumulate.
func NewComposition(components ...Component) Composition {
	var c Composition
	for _, comp := range components {
		c.Add(comp.Material, comp.Fraction)
	}
	return c
}

// Component is a single (material, mass fraction) pair.
type Component struct {
	Material string  `json:"material" toml:"material" bson:"material"`
	Fraction float64 `json:"fraction" toml:"fraction" bson:"fraction"`
}

// Get returns the fraction for name and whether it is present.
func (c *Composition) Get(name string) (float64, bool) {
	f, ok := c.fractions[name]
	return f, ok
}

// Fraction returns the fraction for name, or 0 if absent.
func (c *Composition) Fraction(name string) float64 {
	return c.fractions[name]
}

// Set assigns the fraction for name. New names are appended to the order.
func (c *Composition) Set(name string, fraction float64) {
	if c.fractions == nil {
		c.fractions = make(map[string]float64)
	}
	if _, ok := c.fractions[name]; !ok {
		c.keys = append(c.keys, name)
	}
	c.fractions[name] = fraction
}

// Add increases the fraction for name by delta, inserting it if absent.
func (c *Composition) Add(name string, delta float64) {
	c.Set(name, c.fractions[name]+delta)
}

// Keys returns material names in insertion order.
func (c *Composition) Keys() []string { return slices.Clone(c.keys) }

// First returns the first material name, or "" for an empty composition.
func (c *Composition) First() string {
	if len(c.keys) == 0 {
		return ""
	}
	return c.keys[0]
}

// Len returns the number of components.
func (c *Composition) Len() int { return len(c.keys) }

// Sum returns the total of all fractions.
func (c *Composition) Sum() float64 {
	var sum float64
	for _, k := range c.keys {
		sum += c.fractions[k]
	}
	return sum
}

// Components returns the composition as ordered pairs.
func (c *Composition) Components() []Component {
	out := make([]Component, len(c.keys))
	for i, k := range c.keys {
		out[i] = Component{Material: k, Fraction: c.fractions[k]}
	}
	return out
}

// Map returns an unordered copy of the fractions.
func (c *Composition) Map() map[string]float64 {
	m := make(map[string]float64, len(c.keys))
	for _, k := range c.keys {
		m[k] = c.fractions[k]
	}
	return m
}

// Clone returns an independent copy.
func (c *Composition) Clone() Composition {
	out := Composition{keys: slices.Clone(c.keys)}
	if c.fractions != nil {
		out.fractions = make(map[string]float64, len(c.fractions))
		for k, v := range c.fractions {
			out.fractions[k] = v
		}
	}
	return out
}

// MarshalJSON encodes the composition as a JSON object in insertion order.
func (c Composition) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.fractions[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the document.
func (c *Composition) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*c = Composition{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("composition: expected object, got %v", tok)
	}

	var out Composition
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("composition: expected string key, got %v", keyTok)
		}
		var v float64
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("composition %q: %w", key, err)
		}
		out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*c = out
	return nil
}
