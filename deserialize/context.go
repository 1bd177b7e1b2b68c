package deserialize

import (
	"fmt"
	"slices"

	"github.com/Sparky983/warp-config-sub000/typedesc"
)

// Parameter describes one render argument of a property.
type Parameter interface {
	Name() string
}

// Context is available to a deserializer while it runs.
type Context interface {
	// Parameters returns the render parameters declared by the property.
	Parameters() []Parameter
	// Lookup finds the deserializer of t, failing with ErrNoDeserializer.
	Lookup(t typedesc.Type) (Untyped, error)
}

type bindContext struct {
	registry *Registry
	params   []Parameter
}

// NewContext returns a Context backed by registry.
func NewContext(registry *Registry, params ...Parameter) Context {
	return &bindContext{registry: registry, params: slices.Clone(params)}
}

func (c *bindContext) Parameters() []Parameter {
	return slices.Clone(c.params)
}

func (c *bindContext) Lookup(t typedesc.Type) (Untyped, error) {
	return c.registry.MustLookup(t)
}

// must is used by factories to resolve a type argument.
func must(r *Registry, t typedesc.Type, parent typedesc.Type) (Untyped, error) {
	d, err := r.MustLookup(t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", parent, err)
	}

	return d, nil
}

type paramContext struct {
	Context
	params []Parameter
}

func (c paramContext) Parameters() []Parameter {
	return slices.Clone(c.params)
}

// WithParameters returns a Context that looks types up through ctx but
// reports params as the property parameters.
func WithParameters(ctx Context, params ...Parameter) Context {
	return paramContext{Context: ctx, params: slices.Clone(params)}
}
