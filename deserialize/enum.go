package deserialize

import (
	"fmt"

	"github.com/Sparky983/warp-config-sub000/diagnostic"
	"github.com/Sparky983/warp-config-sub000/node"
)

// Enum reads string nodes naming one of values, as rendered by String.
func Enum[T fmt.Stringer](values ...T) Deserializer[T] {
	byName := make(map[string]T, len(values))
	for _, v := range values {
		byName[v.String()] = v
	}

	return Value(func(n node.Node) (T, error) {
		s, err := n.AsString()
		if err != nil {
			var zero T
			return zero, err
		}

		v, ok := byName[s]
		if !ok {
			var zero T
			return zero, diagnostic.Failf("%s is not a valid value", s)
		}

		return v, nil
	})
}
