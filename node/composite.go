package node

import (
	"fmt"
	"strings"
)

type composite struct {
	nodes []Node
}

// Composite overlays nodes describing the same path across precedence-ordered
// sources; nodes[0] has the highest priority. Scalar and list conversions
// resolve to the first node that supports them. AsMap returns the union of all
// map layers with colliding keys merged recursively. IsNil is true when any
// layer is nil, so an explicit nil hides lower-priority values.
//
// A single node is returned unchanged. Composite panics if nodes is empty.
func Composite(nodes ...Node) Node {
	switch len(nodes) {
	case 0:
		panic("node: composite of zero nodes")
	case 1:
		return nodes[0]
	}

	for i, n := range nodes {
		if n == nil {
			panic(fmt.Sprintf("node: composite layer %d is nil", i))
		}
	}

	return &composite{nodes: append([]Node(nil), nodes...)}
}

func (*composite) Kind() KindEnum { return KindComposite }

func (c *composite) AsString() (string, error) {
	return first(c, Node.AsString)
}

func (c *composite) AsInteger() (int64, error) {
	return first(c, Node.AsInteger)
}

func (c *composite) AsDecimal() (float64, error) {
	return first(c, Node.AsDecimal)
}

func (c *composite) AsBool() (bool, error) {
	return first(c, Node.AsBool)
}

func (c *composite) AsList() ([]Node, error) {
	return first(c, Node.AsList)
}

func (c *composite) AsMap() (*Map, error) {
	var (
		keys     []string
		layers   = make(map[string][]Node)
		foundMap bool
	)

	for _, n := range c.nodes {
		m, err := n.AsMap()
		if err != nil {
			continue
		}

		foundMap = true

		for k, v := range m.All() {
			if _, seen := layers[k]; !seen {
				keys = append(keys, k)
			}

			layers[k] = append(layers[k], v)
		}
	}

	if !foundMap {
		return base{}.AsMap()
	}

	b := NewMap()
	for _, k := range keys {
		b.Set(k, Composite(layers[k]...))
	}

	return b.Build(), nil
}

func (c *composite) IsNil() bool {
	for _, n := range c.nodes {
		if n.IsNil() {
			return true
		}
	}

	return false
}

func (c *composite) String() string {
	parts := make([]string, 0, len(c.nodes))
	for _, n := range c.nodes {
		parts = append(parts, fmt.Sprint(n))
	}

	return "composite(" + strings.Join(parts, " | ") + ")"
}

// first returns the first successful conversion. When every layer fails the
// last error is returned; all layers fail with the same message.
func first[T any](c *composite, conv func(Node) (T, error)) (T, error) {
	var err error
	for _, n := range c.nodes {
		var v T
		if v, err = conv(n); err == nil {
			return v, nil
		}
	}

	var zero T

	return zero, err
}

// Layers returns the nodes overlaid by n, highest priority first. A node that
// is not a composite is its own single layer.
func Layers(n Node) []Node {
	if c, ok := n.(*composite); ok {
		return append([]Node(nil), c.nodes...)
	}

	return []Node{n}
}

// Materialize resolves composites into a concrete tree: nil when any layer
// is nil, a merged map when the highest-priority layer is a map, otherwise
// the highest-priority layer.
func Materialize(n Node) Node {
	switch n := n.(type) {
	case *composite:
		if n.IsNil() {
			return Nil()
		}

		if _, err := n.nodes[0].AsMap(); err == nil {
			m, _ := n.AsMap()
			return Materialize(m)
		}

		return Materialize(n.nodes[0])
	case *Map:
		b := NewMap()
		for k, v := range n.All() {
			b.Set(k, Materialize(v))
		}

		return b.Build()
	case listNode:
		values := make([]Node, len(n.values))
		for i, v := range n.values {
			values[i] = Materialize(v)
		}

		return listNode{values: values}
	default:
		return n
	}
}
