package typedesc

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/Sparky983/warp-config-sub000/primitive"
)

// Raw is a type without its arguments. Raw values are comparable.
type Raw struct {
	name   string
	pkg    string
	arity  int
	length int
}

// Built-in raw tags.
var (
	String   = builtin(primitive.KindString)
	Bool     = builtin(primitive.KindBool)
	Int      = builtin(primitive.KindInt)
	Int8     = builtin(primitive.KindInt8)
	Int16    = builtin(primitive.KindInt16)
	Int32    = builtin(primitive.KindInt32)
	Int64    = builtin(primitive.KindInt64)
	Uint     = builtin(primitive.KindUint)
	Uint8    = builtin(primitive.KindUint8)
	Uint16   = builtin(primitive.KindUint16)
	Uint32   = builtin(primitive.KindUint32)
	Uint64   = builtin(primitive.KindUint64)
	Float32  = builtin(primitive.KindFloat32)
	Float64  = builtin(primitive.KindFloat64)
	Duration = builtin(primitive.KindDuration)

	List     = Raw{name: "List", arity: 1}
	Map      = Raw{name: "Map", arity: 2}
	Optional = Raw{name: "Optional", arity: 1}

	// Arrays stands for every Array(n) raw tag; see Family.
	Arrays = Raw{name: "Array", arity: 1, length: -1}
)

func builtin(kind primitive.KindEnum) Raw {
	return Raw{name: strings.TrimPrefix(kind.String(), "Kind")}
}

// Array returns the raw tag of fixed-length lists holding exactly n elements.
func Array(n int) Raw {
	if n < 0 {
		panic(fmt.Sprintf("typedesc: negative array length %d", n))
	}

	return Raw{name: fmt.Sprintf("Array[%d]", n), arity: 1, length: n}
}

// NewRaw returns a raw tag for a type declared in pkg.
func NewRaw(pkg, name string, arity int) Raw {
	return Raw{name: name, pkg: pkg, arity: arity}
}

// Named returns the raw tag of a user-declared named Go type, such as an
// enum or a nested contract interface.
func Named(rtype reflect.Type) Raw {
	return Raw{name: rtype.Name(), pkg: rtype.PkgPath()}
}

// Name returns the unqualified name.
func (r Raw) Name() string { return r.name }

// Package returns the declaring package path; empty for built-ins.
func (r Raw) Package() string { return r.pkg }

// Arity returns the number of type arguments a fully described type takes.
func (r Raw) Arity() int { return r.arity }

// ArrayLen returns the length of an Array raw tag.
func (r Raw) ArrayLen() (int, bool) {
	if r.pkg != "" || r.length < 0 || !strings.HasPrefix(r.name, "Array[") {
		return 0, false
	}

	return r.length, true
}

// Family returns Arrays for array raw tags and r itself otherwise.
func (r Raw) Family() Raw {
	if _, ok := r.ArrayLen(); ok {
		return Arrays
	}

	return r
}

// Primitive returns the primitive kind of a built-in scalar raw tag.
func (r Raw) Primitive() primitive.KindEnum {
	if r.pkg == "" {
		return primitiveByName[r.name]
	}

	return 0
}

// IsZero reports whether r is the zero Raw.
func (r Raw) IsZero() bool {
	return r == Raw{}
}

func (r Raw) String() string {
	return r.name
}

// Qualified returns the name prefixed by its package path.
func (r Raw) Qualified() string {
	if r.pkg == "" {
		return r.name
	}

	return r.pkg + "." + r.name
}

var primitiveByName = func() map[string]primitive.KindEnum {
	out := make(map[string]primitive.KindEnum, primitive.KindTotal)
	for k := primitive.KindEnum(1); int(k) < primitive.KindTotal; k++ {
		out[builtin(k).name] = k
	}

	return out
}()
