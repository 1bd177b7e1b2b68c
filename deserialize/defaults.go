package deserialize

import (
	"sync"

	"github.com/Sparky983/warp-config-sub000/primitive"
	"github.com/Sparky983/warp-config-sub000/typedesc"
)

var defaults = sync.OnceValue(func() *Registry {
	b := NewRegistry()

	Add(b, typedesc.Of(typedesc.String), String())
	Add(b, typedesc.Of(typedesc.Bool), Bool())
	Add(b, typedesc.Of(typedesc.Int), Integer[int](primitive.KindInt))
	Add(b, typedesc.Of(typedesc.Int8), Integer[int8](primitive.KindInt8))
	Add(b, typedesc.Of(typedesc.Int16), Integer[int16](primitive.KindInt16))
	Add(b, typedesc.Of(typedesc.Int32), Integer[int32](primitive.KindInt32))
	Add(b, typedesc.Of(typedesc.Int64), Integer[int64](primitive.KindInt64))
	Add(b, typedesc.Of(typedesc.Uint), Integer[uint](primitive.KindUint))
	Add(b, typedesc.Of(typedesc.Uint8), Integer[uint8](primitive.KindUint8))
	Add(b, typedesc.Of(typedesc.Uint16), Integer[uint16](primitive.KindUint16))
	Add(b, typedesc.Of(typedesc.Uint32), Integer[uint32](primitive.KindUint32))
	Add(b, typedesc.Of(typedesc.Uint64), Integer[uint64](primitive.KindUint64))
	Add(b, typedesc.Of(typedesc.Float32), Float[float32]())
	Add(b, typedesc.Of(typedesc.Float64), Float[float64]())
	Add(b, typedesc.Of(typedesc.Duration), Duration())

	b.AddFactory(typedesc.List, ListFactory())
	b.AddFactory(typedesc.Map, MapFactory())
	b.AddFactory(typedesc.Optional, OptionalFactory())
	b.AddFactory(typedesc.Arrays, ArrayFactory())

	r, err := b.Build()
	if err != nil {
		panic(err)
	}

	return r
})

// Defaults returns the registry of built-in deserializers.
func Defaults() *Registry {
	return defaults()
}
