package deserialize

import (
	"errors"
	"fmt"

	"github.com/Sparky983/warp-config-sub000/typedesc"
)

var (
	// ErrNoDeserializer is returned when no deserializer handles a type.
	ErrNoDeserializer = errors.New("no deserializer registered")
	// ErrDuplicate is returned when a type or raw tag is registered twice.
	ErrDuplicate = errors.New("duplicate registration")
)

// Factory creates deserializers for every type sharing a raw tag. The
// registry passed in resolves type arguments. Errors are schema errors.
type Factory interface {
	Create(t typedesc.Type, registry *Registry) (Untyped, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(t typedesc.Type, registry *Registry) (Untyped, error)

// Create calls f.
func (f FactoryFunc) Create(t typedesc.Type, registry *Registry) (Untyped, error) {
	return f(t, registry)
}

// Registry maps types to deserializers. It is immutable and safe for
// concurrent use.
type Registry struct {
	bindings  map[typedesc.Key]Untyped
	factories map[typedesc.Raw]Factory
	fallback  *Registry
}

// Lookup returns the deserializer of t. A missing deserializer is reported
// with ok == false; err is set only when a factory rejects t.
func (r *Registry) Lookup(t typedesc.Type) (d Untyped, ok bool, err error) {
	return r.lookup(t, r)
}

// MustLookup is like Lookup but reports a missing deserializer as
// ErrNoDeserializer.
func (r *Registry) MustLookup(t typedesc.Type) (Untyped, error) {
	d, ok, err := r.Lookup(t)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoDeserializer, t)
	}

	return d, nil
}

func (r *Registry) lookup(t typedesc.Type, root *Registry) (Untyped, bool, error) {
	if r == nil {
		return nil, false, nil
	}

	if d, ok := r.bindings[t.Key()]; ok {
		return d, true, nil
	}

	for _, raw := range []typedesc.Raw{t.Raw(), t.Raw().Family()} {
		if f, ok := r.factories[raw]; ok {
			d, err := f.Create(t, root)
			if err != nil {
				return nil, false, err
			}

			return d, true, nil
		}
	}

	return r.fallback.lookup(t, root)
}

// Chain returns a registry consulting primary first and fallback second.
// Factories in either registry resolve type arguments through the chain.
func Chain(primary, fallback *Registry) *Registry {
	if primary == nil {
		return fallback
	}

	out := &Registry{bindings: primary.bindings, factories: primary.factories}
	out.fallback = Chain(primary.fallback, fallback)

	return out
}

// RegistryBuilder collects registrations for a Registry.
type RegistryBuilder struct {
	bindings  map[typedesc.Key]Untyped
	factories map[typedesc.Raw]Factory
	errs      []error
}

// NewRegistry returns an empty RegistryBuilder.
func NewRegistry() *RegistryBuilder {
	return &RegistryBuilder{
		bindings:  make(map[typedesc.Key]Untyped),
		factories: make(map[typedesc.Raw]Factory),
	}
}

// Add binds d to exactly t.
func (b *RegistryBuilder) Add(t typedesc.Type, d Untyped) *RegistryBuilder {
	if _, ok := b.bindings[t.Key()]; ok {
		b.errs = append(b.errs, fmt.Errorf("%w: deserializer for %s", ErrDuplicate, t))
		return b
	}

	b.bindings[t.Key()] = d

	return b
}

// AddFactory registers f for every type with the given raw tag.
func (b *RegistryBuilder) AddFactory(raw typedesc.Raw, f Factory) *RegistryBuilder {
	if _, ok := b.factories[raw]; ok {
		b.errs = append(b.errs, fmt.Errorf("%w: factory for %s", ErrDuplicate, raw))
		return b
	}

	b.factories[raw] = f

	return b
}

// Build returns the registry, or every registration error joined.
func (b *RegistryBuilder) Build() (*Registry, error) {
	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}

	r := &Registry{
		bindings:  make(map[typedesc.Key]Untyped, len(b.bindings)),
		factories: make(map[typedesc.Raw]Factory, len(b.factories)),
	}

	for k, v := range b.bindings {
		r.bindings[k] = v
	}

	for k, v := range b.factories {
		r.factories[k] = v
	}

	return r, nil
}

// Add registers a typed deserializer on b.
func Add[T any](b *RegistryBuilder, t typedesc.Type, d Deserializer[T]) *RegistryBuilder {
	return b.Add(t, Erase(d))
}
