package typedesc

import (
	"fmt"
	"reflect"

	"github.com/Sparky983/warp-config-sub000/primitive"
)

// ElemTyper is implemented by optional-like wrapper types. Its method must
// work on the zero value.
type ElemTyper interface {
	ElemType() reflect.Type
}

var elemTyperType = reflect.TypeFor[ElemTyper]()

// FromReflect lowers a Go type into a Type:
//   - primitive types map to the built-in raw tags
//   - types implementing ElemTyper become Optional<T>
//   - other named types become named raw tags
//   - []E becomes List<E>, [N]E becomes Array[N]<E>, map[K]V becomes Map<K, V>
//
// Anything else is rejected with ErrUnsupportedType.
func FromReflect(rtype reflect.Type) (Type, error) {
	if rtype == nil {
		return Type{}, fmt.Errorf("%w: nil type", ErrUnsupportedType)
	}

	if kind := primitive.FromReflectType(rtype); kind != 0 {
		return Type{raw: builtin(kind), goType: rtype}, nil
	}

	if rtype.Kind() == reflect.Struct && rtype.Implements(elemTyperType) {
		zero := reflect.Zero(rtype).Interface().(ElemTyper)

		elem, err := FromReflect(zero.ElemType())
		if err != nil {
			return Type{}, fmt.Errorf("%s: %w", rtype, err)
		}

		return Type{raw: Optional, args: []Type{elem}, goType: rtype}, nil
	}

	if rtype.Name() != "" && rtype.PkgPath() != "" {
		return Type{raw: Named(rtype), goType: rtype}, nil
	}

	switch rtype.Kind() {
	case reflect.Slice:
		elem, err := FromReflect(rtype.Elem())
		if err != nil {
			return Type{}, fmt.Errorf("%s: %w", rtype, err)
		}

		return Type{raw: List, args: []Type{elem}, goType: rtype}, nil
	case reflect.Array:
		elem, err := FromReflect(rtype.Elem())
		if err != nil {
			return Type{}, fmt.Errorf("%s: %w", rtype, err)
		}

		return Type{raw: Array(rtype.Len()), args: []Type{elem}, goType: rtype}, nil
	case reflect.Map:
		key, err := FromReflect(rtype.Key())
		if err != nil {
			return Type{}, fmt.Errorf("%s: %w", rtype, err)
		}

		value, err := FromReflect(rtype.Elem())
		if err != nil {
			return Type{}, fmt.Errorf("%s: %w", rtype, err)
		}

		return Type{raw: Map, args: []Type{key, value}, goType: rtype}, nil
	default:
		return Type{}, fmt.Errorf("%w: %s", ErrUnsupportedType, rtype)
	}
}

// For lowers T. It panics if T cannot be described.
func For[T any]() Type {
	t, err := FromReflect(reflect.TypeFor[T]())
	if err != nil {
		panic(err)
	}

	return t
}
