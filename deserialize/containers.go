package deserialize

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/Sparky983/warp-config-sub000/diagnostic"
	"github.com/Sparky983/warp-config-sub000/node"
	"github.com/Sparky983/warp-config-sub000/optional"
	"github.com/Sparky983/warp-config-sub000/typedesc"
)

// ErrRawType is returned when a generic raw tag is used without arguments.
var ErrRawType = errors.New("type arguments required")

var (
	anySliceType = reflect.TypeFor[[]any]()
	anyMapType   = reflect.TypeFor[map[any]any]()
)

// wrapper is implemented by optional.Value.
type wrapper interface {
	Wrap(v any) any
}

// TypeDefault returns the value used for an absent property of type t:
// an empty list for lists, an empty map for maps and nil for optionals.
// Other types have no default.
func TypeDefault(t typedesc.Type) (node.Node, bool) {
	switch t.Raw() {
	case typedesc.List:
		return node.List(), true
	case typedesc.Map:
		return node.NewMap().Build(), true
	case typedesc.Optional:
		return node.Nil(), true
	default:
		return nil, false
	}
}

func checkArgs(t typedesc.Type) error {
	if t.IsRaw() {
		return fmt.Errorf("%w: %s", ErrRawType, t)
	}

	return nil
}

// element collects the outcome of deserializing one list item or map entry.
type element struct {
	key   Renderer[any]
	value Renderer[any]
}

// partial records the data errors of one child under name and passes any
// schema error through.
func partial(errs *[]diagnostic.Error, name string, err error) error {
	de, ok := diagnostic.As(err)
	if !ok {
		return err
	}

	*errs = append(*errs, diagnostic.NewGroup(name, de.List()...))

	return nil
}

func deserializeItems(items []node.Node, elem Untyped, ctx Context) ([]Renderer[any], error) {
	var (
		renderers = make([]Renderer[any], len(items))
		errs      []diagnostic.Error
	)

	for i, item := range items {
		r, err := elem.Deserialize(item, ctx)
		if err != nil {
			if err := partial(&errs, strconv.Itoa(i), err); err != nil {
				return nil, err
			}

			continue
		}

		renderers[i] = r
	}

	if len(errs) != 0 {
		return nil, diagnostic.Fail(errs...)
	}

	return renderers, nil
}

func set(dst reflect.Value, v any) {
	if v == nil {
		return
	}

	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(dst.Type()) && rv.Type().ConvertibleTo(dst.Type()) {
		rv = rv.Convert(dst.Type())
	}

	dst.Set(rv)
}

// ListFactory builds deserializers for List<E>. Every element is attempted;
// failures are grouped by index.
func ListFactory() Factory {
	return FactoryFunc(func(t typedesc.Type, registry *Registry) (Untyped, error) {
		if err := checkArgs(t); err != nil {
			return nil, err
		}

		elem, err := must(registry, t.Arg(0), t)
		if err != nil {
			return nil, err
		}

		goType := t.GoType()
		if goType == nil || goType.Kind() != reflect.Slice {
			goType = anySliceType
		}

		return Func[any](func(n node.Node, ctx Context) (Renderer[any], error) {
			if IsAbsent(n) {
				return nil, Missing()
			}

			items, err := n.AsList()
			if err != nil {
				return nil, err
			}

			renderers, err := deserializeItems(items, elem, ctx)
			if err != nil {
				return nil, err
			}

			return RendererFunc[any](func(rc RenderContext) any {
				out := reflect.MakeSlice(goType, len(renderers), len(renderers))
				for i, r := range renderers {
					set(out.Index(i), r.Render(rc))
				}

				return out.Interface()
			}), nil
		}), nil
	})
}

// ArrayFactory builds deserializers for Array[N]<E>: lists of exactly N
// elements.
func ArrayFactory() Factory {
	return FactoryFunc(func(t typedesc.Type, registry *Registry) (Untyped, error) {
		if err := checkArgs(t); err != nil {
			return nil, err
		}

		length, ok := t.Raw().ArrayLen()
		if !ok {
			return nil, fmt.Errorf("%w: %s is not an array", ErrNoDeserializer, t)
		}

		elem, err := must(registry, t.Arg(0), t)
		if err != nil {
			return nil, err
		}

		goType := t.GoType()
		if goType == nil || goType.Kind() != reflect.Array {
			goType = anySliceType
		}

		return Func[any](func(n node.Node, ctx Context) (Renderer[any], error) {
			if IsAbsent(n) {
				return nil, Missing()
			}

			items, err := n.AsList()
			if err != nil {
				return nil, err
			}

			if len(items) != length {
				return nil, diagnostic.Failf("Must have exactly %d elements", length)
			}

			renderers, err := deserializeItems(items, elem, ctx)
			if err != nil {
				return nil, err
			}

			return RendererFunc[any](func(rc RenderContext) any {
				var out reflect.Value
				if goType.Kind() == reflect.Array {
					out = reflect.New(goType).Elem()
				} else {
					out = reflect.MakeSlice(goType, length, length)
				}

				for i, r := range renderers {
					set(out.Index(i), r.Render(rc))
				}

				return out.Interface()
			}), nil
		}), nil
	})
}

// keyNode presents a map key to the key deserializer: as a string first,
// then as the scalar the text would parse to.
func keyNode(key string) node.Node {
	if scalar := node.Scalar(key); !scalar.IsNil() && scalar.Kind() != node.KindString {
		return node.Composite(node.String(key), scalar)
	}

	return node.String(key)
}

// MapFactory builds deserializers for Map<K, V>. Keys are run through the
// deserializer of K; key and value failures are grouped by the key.
func MapFactory() Factory {
	return FactoryFunc(func(t typedesc.Type, registry *Registry) (Untyped, error) {
		if err := checkArgs(t); err != nil {
			return nil, err
		}

		keyDeser, err := must(registry, t.Arg(0), t)
		if err != nil {
			return nil, err
		}

		valueDeser, err := must(registry, t.Arg(1), t)
		if err != nil {
			return nil, err
		}

		goType := t.GoType()
		if goType == nil || goType.Kind() != reflect.Map {
			goType = anyMapType
		}

		return Func[any](func(n node.Node, ctx Context) (Renderer[any], error) {
			if IsAbsent(n) {
				return nil, Missing()
			}

			m, err := n.AsMap()
			if err != nil {
				return nil, err
			}

			var (
				entries = make([]element, 0, m.Len())
				errs    []diagnostic.Error
			)

			for key, value := range m.All() {
				var entryErrs []diagnostic.Error

				kr, err := keyDeser.Deserialize(keyNode(key), ctx)
				if err != nil {
					de, ok := diagnostic.As(err)
					if !ok {
						return nil, err
					}

					entryErrs = append(entryErrs, de.List()...)
				}

				vr, err := valueDeser.Deserialize(value, ctx)
				if err != nil {
					de, ok := diagnostic.As(err)
					if !ok {
						return nil, err
					}

					entryErrs = append(entryErrs, de.List()...)
				}

				if len(entryErrs) != 0 {
					errs = append(errs, diagnostic.NewGroup(key, entryErrs...))
					continue
				}

				entries = append(entries, element{key: kr, value: vr})
			}

			if len(errs) != 0 {
				return nil, diagnostic.Fail(errs...)
			}

			return RendererFunc[any](func(rc RenderContext) any {
				out := reflect.MakeMapWithSize(goType, len(entries))
				for _, e := range entries {
					k := reflect.New(goType.Key()).Elem()
					v := reflect.New(goType.Elem()).Elem()
					set(k, e.key.Render(rc))
					set(v, e.value.Render(rc))
					out.SetMapIndex(k, v)
				}

				return out.Interface()
			}), nil
		}), nil
	})
}

// OptionalFactory builds deserializers for Optional<T>. Absent and nil
// values render as an empty optional.Value and never fail.
func OptionalFactory() Factory {
	return FactoryFunc(func(t typedesc.Type, registry *Registry) (Untyped, error) {
		if err := checkArgs(t); err != nil {
			return nil, err
		}

		elem, err := must(registry, t.Arg(0), t)
		if err != nil {
			return nil, err
		}

		var wrap wrapper = optional.Value[any]{}
		if goType := t.GoType(); goType != nil {
			if w, ok := reflect.Zero(goType).Interface().(wrapper); ok {
				wrap = w
			}
		}

		return Func[any](func(n node.Node, ctx Context) (Renderer[any], error) {
			if IsAbsent(n) {
				return Static(wrap.Wrap(nil)), nil
			}

			r, err := elem.Deserialize(n, ctx)
			if err != nil {
				return nil, err
			}

			return RendererFunc[any](func(rc RenderContext) any {
				return wrap.Wrap(r.Render(rc))
			}), nil
		}), nil
	})
}
