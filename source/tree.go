package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sparky983/warp-config-sub000/node"
)

// ErrConflict is returned when a path is given both a value and children.
var ErrConflict = errors.New("conflicting configuration paths")

// tree collects dotted paths into nested maps, keeping first-seen key order.
type tree struct {
	keys     []string
	children map[string]*tree
	value    node.Node
}

func newTree() *tree {
	return &tree{children: make(map[string]*tree)}
}

// set stores v at path. A later value for the same path replaces the earlier.
func (t *tree) set(path []string, v node.Node) error {
	cur := t
	for i, seg := range path {
		if cur.value != nil {
			return fmt.Errorf("%w: %s has a value and children", ErrConflict, strings.Join(path[:i], "."))
		}

		next, ok := cur.children[seg]
		if !ok {
			next = newTree()
			cur.children[seg] = next
			cur.keys = append(cur.keys, seg)
		}

		cur = next
	}

	if len(cur.keys) != 0 {
		return fmt.Errorf("%w: %s has a value and children", ErrConflict, strings.Join(path, "."))
	}

	cur.value = v

	return nil
}

func (t *tree) empty() bool { return len(t.keys) == 0 }

func (t *tree) build() node.Node {
	if t.value != nil {
		return t.value
	}

	b := node.NewMap()
	for _, key := range t.keys {
		b.Set(key, t.children[key].build())
	}

	return b.Build()
}

// splitPath splits a dotted path, rejecting empty segments.
func splitPath(path string) ([]string, bool) {
	segments := strings.Split(path, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil, false
		}
	}

	return segments, true
}
