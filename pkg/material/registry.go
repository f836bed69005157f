package material

import (
	"slices"

	"github.com/matzehuels/flowsheet/pkg/errors"
)

// Registry is a name-keyed set of materials that remembers registration order.
// The zero value is not usable - use NewRegistry.
// Registry is not safe for concurrent use.
type Registry struct {
	byName map[string]Material
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Material)}
}

// Register validates m and adds it, replacing any material with the same name.
// A replaced material keeps its original position in [Registry.Names].
func (r *Registry) Register(m Material) error {
	m, err := New(m)
	if err != nil {
		return err
	}
	if _, exists := r.byName[m.Name]; !exists {
		r.order = append(r.order, m.Name)
	}
	r.byName[m.Name] = m
	return nil
}

// RegisterDefaults registers the preset materials returned by [Defaults].
func (r *Registry) RegisterDefaults() {
	for _, m := range Defaults() {
		// Presets are always valid.
		_ = r.Register(m)
	}
}

// Get returns the material with the given name.
func (r *Registry) Get(name string) (Material, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// Lookup returns the named material or a NOT_FOUND error.
func (r *Registry) Lookup(name string) (Material, error) {
	m, ok := r.byName[name]
	if !ok {
		return Material{}, errors.New(errors.ErrCodeNotFound, "material %q is not registered", name)
	}
	return m, nil
}

// Has reports whether a material with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Names returns material names in registration order.
func (r *Registry) Names() []string { return slices.Clone(r.order) }

// All returns all materials in registration order.
func (r *Registry) All() []Material {
	out := make([]Material, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Len returns the number of registered materials.
func (r *Registry) Len() int { return len(r.order) }

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	for _, name := range r.order {
		c.order = append(c.order, name)
		c.byName[name] = r.byName[name]
	}
	return c
}
