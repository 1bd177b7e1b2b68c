package primitive

import (
	"math"
	"reflect"
	"strconv"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum enumerates the primitive Go types that have built-in deserializers.
type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindDuration

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// IsNumber reports whether k is an integer or floating-point kind.
func (k KindEnum) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

func (k KindEnum) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

// IsFloat reports whether k is a floating-point kind.
func (k KindEnum) IsFloat() bool { return k == KindFloat32 || k == KindFloat64 }

// IsSigned reports whether k is a signed integer kind.
func (k KindEnum) IsSigned() bool { return KindInt <= k && k <= KindInt64 }

// IsUnsigned reports whether k is an unsigned integer kind.
func (k KindEnum) IsUnsigned() bool { return KindUint <= k && k <= KindUint64 }

func (k KindEnum) Bits() int {
	switch k {
	default:
		panic("only number kinds has meaningful bits amount, but requested for: " + k.String())
	case KindInt, KindUint:
		return strconv.IntSize
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	}
}

// Min returns the smallest value of an integer kind.
func (k KindEnum) Min() int64 {
	if k.IsUnsigned() {
		return 0
	}

	return -1 << (k.Bits() - 1)
}

// Max returns the largest value of an integer kind.
func (k KindEnum) Max() uint64 {
	if k.IsSigned() {
		return 1<<(k.Bits()-1) - 1
	}

	return math.MaxUint64 >> (64 - k.Bits())
}

// Contains reports whether v fits the integer kind.
func (k KindEnum) Contains(v int64) bool {
	if v < k.Min() {
		return false
	}

	return v < 0 || uint64(v) <= k.Max()
}

var reflectKinds = map[reflect.Type]KindEnum{
	reflect.TypeFor[int]():           KindInt,
	reflect.TypeFor[int8]():          KindInt8,
	reflect.TypeFor[int16]():         KindInt16,
	reflect.TypeFor[int32]():         KindInt32,
	reflect.TypeFor[int64]():         KindInt64,
	reflect.TypeFor[uint]():          KindUint,
	reflect.TypeFor[uint8]():         KindUint8,
	reflect.TypeFor[uint16]():        KindUint16,
	reflect.TypeFor[uint32]():        KindUint32,
	reflect.TypeFor[uint64]():        KindUint64,
	reflect.TypeFor[float32]():       KindFloat32,
	reflect.TypeFor[float64]():       KindFloat64,
	reflect.TypeFor[bool]():          KindBool,
	reflect.TypeFor[string]():        KindString,
	reflect.TypeFor[time.Duration](): KindDuration,
}

// FromReflectType returns the kind of an exact primitive type. Named types
// declared over a primitive (enums, custom types) are not primitives and
// yield the zero kind.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	return reflectKinds[rtype]
}

// Underlying returns the kind of the predeclared type rtype is declared over,
// so named types such as time.Duration yield KindInt64.
func Underlying(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	for t, k := range reflectKinds {
		if t.PkgPath() == "" && t.Kind() == rtype.Kind() {
			return k
		}
	}

	return 0
}

// ReflectType returns the Go type of the kind, or nil for the zero kind.
func (k KindEnum) ReflectType() reflect.Type {
	for t, kind := range reflectKinds {
		if kind == k {
			return t
		}
	}

	return nil
}
