package schema

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/Sparky983/warp-config-sub000/deserialize"
	"github.com/Sparky983/warp-config-sub000/node"
	"github.com/Sparky983/warp-config-sub000/typedesc"
)

// Property declares one configuration value of a contract.
type Property struct {
	// Method is the accessor method name.
	Method string
	// Path is the dot-delimited location of the value in the sources.
	Path string
	// Type is the declared value type.
	Type typedesc.Type
	// Default is used when no source holds the value. It is deserialized
	// like any other value.
	Default node.Node
	// Deserializer overrides the registry lookup for Type.
	Deserializer deserialize.Untyped
	// Params describes the render arguments the accessor takes.
	Params []deserialize.Parameter

	err error
}

// Option customizes a Property.
type Option func(*Property)

// WithDefault sets the value used when no source holds the property.
func WithDefault(n node.Node) Option {
	return func(p *Property) {
		p.Default = n
	}
}

// WithDeserializer makes the property use d instead of the registry.
func WithDeserializer[T any](d deserialize.Deserializer[T]) Option {
	return func(p *Property) {
		p.Deserializer = deserialize.Erase(d)
	}
}

// WithParams declares the render arguments of the property.
func WithParams(params ...deserialize.Parameter) Option {
	return func(p *Property) {
		p.Params = slices.Clone(params)
	}
}

// Prop declares a property of Go type T. Types that cannot describe
// configuration values are reported when the contract is defined.
func Prop[T any](method, path string, opts ...Option) Property {
	t, err := typedesc.FromReflect(reflect.TypeFor[T]())

	p := TypedProp(method, path, t, opts...)
	if err != nil {
		p.err = fmt.Errorf("property %s: %w", method, err)
	}

	return p
}

// TypedProp declares a property from an explicit type descriptor.
func TypedProp(method, path string, t typedesc.Type, opts ...Option) Property {
	p := Property{Method: method, Path: path, Type: t}
	for _, opt := range opts {
		opt(&p)
	}

	return p
}
