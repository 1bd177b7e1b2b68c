package node

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/Sparky983/warp-config-sub000/diagnostic"
)

// ErrNonFinite is returned when a decimal node would hold NaN or an infinity.
var ErrNonFinite = errors.New("decimal value must be finite")

// Node is a configuration value.
//
// Conversions that a node does not support fail with a *diagnostic.Errors
// holding a single message, e.g. "Must be an integer".
type Node interface {
	Kind() KindEnum

	AsString() (string, error)
	AsInteger() (int64, error)
	AsDecimal() (float64, error)
	AsBool() (bool, error)
	// AsList returns a copy of the list elements.
	AsList() ([]Node, error)
	AsMap() (*Map, error)

	// IsNil reports whether the node represents an explicit absence of value.
	IsNil() bool
}

func mismatch(text string) error {
	return diagnostic.Fail(diagnostic.New(text))
}

// base supplies the failing conversions; variants override what they support.
type base struct{}

func (base) AsString() (string, error) { return "", mismatch("Must be a string") }

func (base) AsInteger() (int64, error) { return 0, mismatch("Must be an integer") }

func (base) AsDecimal() (float64, error) { return 0, mismatch("Must be a decimal") }

func (base) AsBool() (bool, error) { return false, mismatch("Must be a boolean") }

func (base) AsList() ([]Node, error) { return nil, mismatch("Must be a list") }

func (base) AsMap() (*Map, error) { return nil, mismatch("Must be a map") }

func (base) IsNil() bool { return false }

type nilNode struct{ base }

func (nilNode) Kind() KindEnum { return KindNil }

func (nilNode) IsNil() bool { return true }

func (nilNode) String() string { return "null" }

type boolNode struct {
	base
	value bool
}

func (boolNode) Kind() KindEnum { return KindBool }

func (n boolNode) AsBool() (bool, error) { return n.value, nil }

func (n boolNode) String() string { return strconv.FormatBool(n.value) }

type integerNode struct {
	base
	value int64
}

func (integerNode) Kind() KindEnum { return KindInteger }

func (n integerNode) AsInteger() (int64, error) { return n.value, nil }

// AsDecimal widens the integer, so a decimal read takes the first layer
// holding any number.
func (n integerNode) AsDecimal() (float64, error) { return float64(n.value), nil }

func (n integerNode) String() string { return strconv.FormatInt(n.value, 10) }

type decimalNode struct {
	base
	value float64
}

func (decimalNode) Kind() KindEnum { return KindDecimal }

func (n decimalNode) AsDecimal() (float64, error) { return n.value, nil }

func (n decimalNode) String() string { return strconv.FormatFloat(n.value, 'g', -1, 64) }

type stringNode struct {
	base
	value string
}

func (stringNode) Kind() KindEnum { return KindString }

func (n stringNode) AsString() (string, error) { return n.value, nil }

func (n stringNode) String() string { return n.value }

type listNode struct {
	base
	values []Node
}

func (listNode) Kind() KindEnum { return KindList }

func (n listNode) AsList() ([]Node, error) { return slices.Clone(n.values), nil }

func (n listNode) String() string {
	parts := make([]string, 0, len(n.values))
	for _, v := range n.values {
		parts = append(parts, fmt.Sprint(v))
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// Nil returns the nil node.
func Nil() Node { return nilNode{} }

// Bool returns a boolean node.
func Bool(value bool) Node { return boolNode{value: value} }

// Integer returns a 64-bit signed integer node.
func Integer(value int64) Node { return integerNode{value: value} }

// NewDecimal returns a decimal node, or ErrNonFinite for NaN and infinities.
func NewDecimal(value float64) (Node, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("%w: %v", ErrNonFinite, value)
	}

	return decimalNode{value: value}, nil
}

// Decimal is like NewDecimal but panics for NaN and infinities.
func Decimal(value float64) Node {
	n, err := NewDecimal(value)
	if err != nil {
		panic(err)
	}

	return n
}

// String returns a string node.
func String(value string) Node { return stringNode{value: value} }

// List returns a list node holding a copy of values.
func List(values ...Node) Node {
	for i, v := range values {
		if v == nil {
			panic(fmt.Sprintf("node: list element %d is nil", i))
		}
	}

	return listNode{values: slices.Clone(values)}
}

// Map is an insertion-ordered, string-keyed map node.
type Map struct {
	base
	keys   []string
	values map[string]Node
}

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   string
	Value Node
}

// KV returns an Entry.
func KV(key string, value Node) Entry {
	return Entry{Key: key, Value: value}
}

// MapOf returns a map node holding entries in order. A repeated key keeps
// its first position and its last value.
func MapOf(entries ...Entry) *Map {
	b := NewMap()
	for _, e := range entries {
		b.Set(e.Key, e.Value)
	}

	return b.Build()
}

// Kind returns KindMap.
func (*Map) Kind() KindEnum { return KindMap }

// AsMap returns m itself.
func (m *Map) AsMap() (*Map, error) { return m, nil }

// Get returns the value stored under key.
func (m *Map) Get(key string) (Node, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	return slices.Clone(m.keys)
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// All iterates over the entries in insertion order.
func (m *Map) All() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

func (m *Map) String() string {
	parts := make([]string, 0, len(m.keys))
	for k, v := range m.All() {
		parts = append(parts, k+": "+fmt.Sprint(v))
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

// MapBuilder accumulates entries for a Map.
type MapBuilder struct {
	keys   []string
	values map[string]Node
}

// NewMap returns an empty MapBuilder.
func NewMap() *MapBuilder {
	return &MapBuilder{values: make(map[string]Node)}
}

// Set stores value under key. Re-setting a key keeps its original position.
func (b *MapBuilder) Set(key string, value Node) *MapBuilder {
	if value == nil {
		panic(fmt.Sprintf("node: value for key %q is nil", key))
	}

	if _, ok := b.values[key]; !ok {
		b.keys = append(b.keys, key)
	}

	b.values[key] = value

	return b
}

// Build returns the map. The builder may keep being used afterwards without
// affecting the returned map.
func (b *MapBuilder) Build() *Map {
	values := make(map[string]Node, len(b.values))
	for k, v := range b.values {
		values[k] = v
	}

	return &Map{keys: slices.Clone(b.keys), values: values}
}
