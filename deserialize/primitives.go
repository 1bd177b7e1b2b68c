package deserialize

import (
	"time"

	"github.com/Sparky983/warp-config-sub000/diagnostic"
	"github.com/Sparky983/warp-config-sub000/node"
	"github.com/Sparky983/warp-config-sub000/primitive"
)

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// String reads string nodes.
func String() Deserializer[string] {
	return Value(node.Node.AsString)
}

// Bool reads boolean nodes.
func Bool() Deserializer[bool] {
	return Value(node.Node.AsBool)
}

// Integer reads integer nodes that fit the range of kind.
func Integer[T integer](kind primitive.KindEnum) Deserializer[T] {
	return Value(func(n node.Node) (T, error) {
		v, err := n.AsInteger()
		if err != nil {
			return 0, err
		}

		if !kind.Contains(v) {
			return 0, diagnostic.Failf("Must be between %d and %d (both inclusive)", kind.Min(), kind.Max())
		}

		return T(v), nil
	})
}

// Float reads decimal nodes. Integer nodes are accepted and widened.
func Float[T ~float32 | ~float64]() Deserializer[T] {
	return Value(func(n node.Node) (T, error) {
		v, err := n.AsDecimal()
		if err != nil {
			return 0, err
		}

		return T(v), nil
	})
}

// Duration reads either an integer number of nanoseconds or a duration
// string such as "1m30s". The highest-priority layer holding either wins.
func Duration() Deserializer[time.Duration] {
	return Value(func(n node.Node) (time.Duration, error) {
		for _, layer := range node.Layers(n) {
			if v, err := layer.AsInteger(); err == nil {
				return time.Duration(v), nil
			}

			s, err := layer.AsString()
			if err != nil {
				continue
			}

			d, err := time.ParseDuration(s)
			if err != nil {
				return 0, diagnostic.Failf("%s is not a valid duration", s)
			}

			return d, nil
		}

		return 0, diagnostic.Fail(diagnostic.New("Must be a duration"))
	})
}
