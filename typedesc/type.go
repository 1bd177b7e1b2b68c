package typedesc

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

var (
	// ErrArity is returned when a raw tag gets the wrong number of arguments.
	ErrArity = errors.New("wrong number of type arguments")
	// ErrUnsupportedType is returned for Go types that cannot describe
	// configuration values.
	ErrUnsupportedType = errors.New("unsupported type")
)

// Type is a raw tag plus its type arguments.
type Type struct {
	raw    Raw
	args   []Type
	goType reflect.Type
}

// Key is a comparable identity of a Type, usable as a map key.
type Key string

// New returns a Type. args must be empty (raw usage) or match the arity of
// raw exactly.
func New(raw Raw, args ...Type) (Type, error) {
	if raw.IsZero() {
		return Type{}, fmt.Errorf("%w: zero raw type", ErrUnsupportedType)
	}

	if len(args) != 0 && len(args) != raw.arity {
		return Type{}, fmt.Errorf("%w: %s takes %d, got %d", ErrArity, raw, raw.arity, len(args))
	}

	for i, a := range args {
		if a.IsZero() {
			return Type{}, fmt.Errorf("%w: argument %d of %s is the zero type", ErrUnsupportedType, i, raw)
		}
	}

	t := Type{raw: raw, args: slices.Clone(args)}
	t.goType = t.inferGoType()

	return t, nil
}

// Of is like New but panics on invalid arguments.
func Of(raw Raw, args ...Type) Type {
	t, err := New(raw, args...)
	if err != nil {
		panic(err)
	}

	return t
}

// Raw returns the raw tag.
func (t Type) Raw() Raw { return t.raw }

// Args returns a copy of the type arguments.
func (t Type) Args() []Type { return slices.Clone(t.args) }

// Arg returns the i-th type argument.
func (t Type) Arg(i int) Type { return t.args[i] }

// IsRaw reports whether a generic raw tag is used without its arguments.
func (t Type) IsRaw() bool {
	return t.raw.arity > 0 && len(t.args) == 0
}

// IsZero reports whether t is the zero Type.
func (t Type) IsZero() bool {
	return t.raw.IsZero()
}

// GoType returns the Go type values of t are represented with, or nil when
// unknown.
func (t Type) GoType() reflect.Type { return t.goType }

// WithGoType returns a copy of t carrying the given Go type hint.
func (t Type) WithGoType(rtype reflect.Type) Type {
	t.goType = rtype
	return t
}

// Equal reports structural equality. Go type hints are ignored.
func (t Type) Equal(other Type) bool {
	return t.raw == other.raw && slices.EqualFunc(t.args, other.args, Type.Equal)
}

// Key returns the comparable identity of t.
func (t Type) Key() Key {
	return Key(t.format(Raw.Qualified))
}

// String renders the type as Raw<Arg1, Arg2>.
func (t Type) String() string {
	return t.format(Raw.String)
}

func (t Type) format(name func(Raw) string) string {
	if len(t.args) == 0 {
		return name(t.raw)
	}

	parts := make([]string, 0, len(t.args))
	for _, a := range t.args {
		parts = append(parts, a.format(name))
	}

	return name(t.raw) + "<" + strings.Join(parts, ", ") + ">"
}

func (t Type) inferGoType() reflect.Type {
	if kind := t.raw.Primitive(); kind != 0 {
		return kind.ReflectType()
	}

	if len(t.args) == 0 {
		return nil
	}

	for _, a := range t.args {
		if a.goType == nil {
			return nil
		}
	}

	switch t.raw {
	case List:
		return reflect.SliceOf(t.args[0].goType)
	case Map:
		if !t.args[0].goType.Comparable() {
			return nil
		}

		return reflect.MapOf(t.args[0].goType, t.args[1].goType)
	}

	if n, ok := t.raw.ArrayLen(); ok {
		return reflect.ArrayOf(n, t.args[0].goType)
	}

	return nil
}
