package node

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	tagNull  = "!!null"
	tagBool  = "!!bool"
	tagInt   = "!!int"
	tagFloat = "!!float"
	tagMerge = "!!merge"
)

// ParseYAML decodes a YAML document into a node tree. An empty document
// yields a nil Node and no error.
func ParseYAML(data []byte) (Node, error) {
	var doc yaml.Node

	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(doc.Content) == 0 {
		return nil, nil
	}

	return FromYAML(&doc)
}

// maxAliasNodes bounds the nodes produced by expanding aliases.
const maxAliasNodes = 100_000

// FromYAML converts a decoded yaml.Node into a node tree. Scalars are typed
// by their resolved YAML tag; integers that overflow int64 and non-finite
// floats are kept as strings. Aliases and merge keys are resolved; an anchor
// that contains itself is an error.
func FromYAML(y *yaml.Node) (Node, error) {
	c := &converter{expanding: make(map[*yaml.Node]bool)}
	return c.convert(y)
}

type converter struct {
	// expanding holds the anchors whose aliases are being expanded.
	expanding  map[*yaml.Node]bool
	aliasDepth int
	expanded   int
}

func (c *converter) convert(y *yaml.Node) (Node, error) {
	if y == nil {
		return Nil(), nil
	}

	if c.aliasDepth > 0 {
		c.expanded++
		if c.expanded > maxAliasNodes {
			return nil, fmt.Errorf("line %d: aliases expand to more than %d nodes", y.Line, maxAliasNodes)
		}
	}

	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return Nil(), nil
		}

		return c.convert(y.Content[0])
	case yaml.AliasNode:
		var out Node

		err := c.expand(y, func(target *yaml.Node) error {
			n, err := c.convert(target)
			out = n

			return err
		})

		return out, err
	case yaml.ScalarNode:
		return fromScalar(y), nil
	case yaml.SequenceNode:
		items := make([]Node, 0, len(y.Content))
		for _, child := range y.Content {
			item, err := c.convert(child)
			if err != nil {
				return nil, err
			}

			items = append(items, item)
		}

		return List(items...), nil
	case yaml.MappingNode:
		b := NewMap()
		if err := c.fillMap(b, y); err != nil {
			return nil, err
		}

		return b.Build(), nil
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %v", y.Line, y.Kind)
	}
}

// expand runs fn on the anchor of alias, failing when that anchor is already
// being expanded.
func (c *converter) expand(alias *yaml.Node, fn func(target *yaml.Node) error) error {
	target := alias.Alias
	if c.expanding[target] {
		return fmt.Errorf("line %d: anchor %q contains itself", alias.Line, alias.Value)
	}

	c.expanding[target] = true
	c.aliasDepth++

	defer func() {
		delete(c.expanding, target)
		c.aliasDepth--
	}()

	return fn(target)
}

func (c *converter) fillMap(b *MapBuilder, y *yaml.Node) error {
	var merged []*yaml.Node

	for i := 0; i+1 < len(y.Content); i += 2 {
		key, value := y.Content[i], y.Content[i+1]

		if key.Kind == yaml.AliasNode {
			key = key.Alias
		}

		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: map keys must be scalars", key.Line)
		}

		if key.ShortTag() == tagMerge {
			merged = append(merged, value)
			continue
		}

		v, err := c.convert(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key.Value, err)
		}

		b.Set(key.Value, v)
	}

	// Explicit keys win over merged ones.
	for _, m := range merged {
		if err := c.mergeInto(b, m); err != nil {
			return err
		}
	}

	return nil
}

func (c *converter) mergeInto(b *MapBuilder, y *yaml.Node) error {
	if y.Kind == yaml.AliasNode {
		return c.expand(y, func(target *yaml.Node) error {
			return c.mergeInto(b, target)
		})
	}

	switch y.Kind {
	case yaml.MappingNode:
		src := NewMap()
		if err := c.fillMap(src, y); err != nil {
			return err
		}

		for k, v := range src.Build().All() {
			if _, ok := b.values[k]; !ok {
				b.Set(k, v)
			}
		}

		return nil
	case yaml.SequenceNode:
		for _, child := range y.Content {
			if err := c.mergeInto(b, child); err != nil {
				return err
			}
		}

		return nil
	default:
		return fmt.Errorf("line %d: merge value must be a map", y.Line)
	}
}

func fromScalar(y *yaml.Node) Node {
	switch y.ShortTag() {
	case tagNull:
		return Nil()
	case tagBool:
		var v bool
		if err := y.Decode(&v); err == nil {
			return Bool(v)
		}
	case tagInt:
		var v int64
		if err := y.Decode(&v); err == nil {
			return Integer(v)
		}
	case tagFloat:
		var v float64
		if err := y.Decode(&v); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return decimalNode{value: v}
		}
	}

	return String(y.Value)
}

// Scalar classifies plain text the way an unquoted YAML scalar would be:
// "true" becomes a boolean, "8080" an integer, "~" nil and so on.
func Scalar(text string) Node {
	return fromScalar(&yaml.Node{Kind: yaml.ScalarNode, Value: text})
}

// ToYAML converts a node tree into a yaml.Node. Composites are materialized
// first.
func ToYAML(n Node) *yaml.Node {
	switch n := Materialize(n).(type) {
	case nilNode:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tagNull, Value: "null"}
	case boolNode:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tagBool, Value: n.String()}
	case integerNode:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tagInt, Value: n.String()}
	case decimalNode:
		text := strconv.FormatFloat(n.value, 'g', -1, 64)
		if math.Trunc(n.value) == n.value && !strings.ContainsAny(text, "e") {
			text += ".0"
		}

		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tagFloat, Value: text}
	case stringNode:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.value}
	case listNode:
		y := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, v := range n.values {
			y.Content = append(y.Content, ToYAML(v))
		}

		return y
	case *Map:
		y := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, v := range n.All() {
			y.Content = append(y.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				ToYAML(v),
			)
		}

		return y
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(n)}
	}
}

// MarshalYAML renders n as a YAML document.
func MarshalYAML(n Node) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(ToYAML(n)); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}

	return buf.Bytes(), nil
}
