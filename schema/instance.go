package schema

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Sparky983/warp-config-sub000/deserialize"
	"github.com/Sparky983/warp-config-sub000/diagnostic"
)

var (
	// ErrUnknownMethod is returned when rendering a method the schema lacks.
	ErrUnknownMethod = errors.New("unknown property method")
	// ErrArgCount is returned when a property is rendered with the wrong
	// number of arguments.
	ErrArgCount = errors.New("wrong number of arguments")
)

type entry struct {
	path     string
	arity    int
	renderer deserialize.Renderer[any]
}

// Instance is a bound configuration: a dispatch table from accessor method
// to the renderer of its property. Values are rendered on every access.
type Instance struct {
	schema   string
	entries  map[string]entry
	order    []string
	warnings []diagnostic.Error
}

// Schema returns the name of the schema the instance was bound from.
func (i *Instance) Schema() string { return i.schema }

// Methods returns the accessor methods in declaration order.
func (i *Instance) Methods() []string { return slices.Clone(i.order) }

// Path returns the configuration path of method.
func (i *Instance) Path(method string) (string, bool) {
	e, ok := i.entries[method]
	return e.path, ok
}

// Warnings returns the non-fatal problems found while binding, such as
// unknown properties.
func (i *Instance) Warnings() []diagnostic.Error { return slices.Clone(i.warnings) }

// Render produces the value of method for the given arguments.
func (i *Instance) Render(method string, args ...any) (any, error) {
	e, ok := i.entries[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownMethod, i.schema, method)
	}

	if len(args) != e.arity {
		return nil, fmt.Errorf("%w: %s.%s takes %d, got %d", ErrArgCount, i.schema, method, e.arity, len(args))
	}

	return e.renderer.Render(deserialize.RenderContext{Args: slices.Clone(args)}), nil
}

// Values renders every property that takes no arguments, keyed by path.
func (i *Instance) Values() map[string]any {
	out := make(map[string]any, len(i.entries))
	for _, e := range i.entries {
		if e.arity == 0 {
			out[e.path] = e.renderer.Render(deserialize.RenderContext{})
		}
	}

	return out
}

// Get renders method and converts it to T. It panics on an unknown method
// or a wrong argument count, both of which are programming errors in the
// accessor implementation.
func Get[T any](inst *Instance, method string, args ...any) T {
	v, err := inst.Render(method, args...)
	if err != nil {
		panic(err)
	}

	t, _ := v.(T)

	return t
}
