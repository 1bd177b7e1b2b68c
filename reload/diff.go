package reload

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sparky983/warp-config-sub000/node"
)

// ChangeKind classifies a Change.
type ChangeKind int

const (
	Added ChangeKind = iota + 1
	Removed
	Modified
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// Change is one configuration leaf that differs between two loads. Lists are
// compared as a whole.
type Change struct {
	Path string
	Kind ChangeKind
	Old  string
	New  string
}

func (c Change) String() string {
	switch c.Kind {
	case Added:
		return fmt.Sprintf("%s: added %s", c.Path, c.New)
	case Removed:
		return fmt.Sprintf("%s: removed %s", c.Path, c.Old)
	default:
		return fmt.Sprintf("%s: %s -> %s", c.Path, c.Old, c.New)
	}
}

// Changes lists the leaves that differ between prev and next, sorted by
// path. Either tree may be nil.
func Changes(prev, next node.Node) []Change {
	before := leaves(prev)
	after := leaves(next)

	var out []Change

	for path, o := range before {
		n, ok := after[path]
		switch {
		case !ok:
			out = append(out, Change{Path: path, Kind: Removed, Old: o})
		case n != o:
			out = append(out, Change{Path: path, Kind: Modified, Old: o, New: n})
		}
	}

	for path, n := range after {
		if _, ok := before[path]; !ok {
			out = append(out, Change{Path: path, Kind: Added, New: n})
		}
	}

	slices.SortFunc(out, func(a, b Change) int { return strings.Compare(a.Path, b.Path) })

	return out
}

func leaves(n node.Node) map[string]string {
	out := make(map[string]string)
	if n == nil {
		return out
	}

	var walk func(n node.Node, prefix string)

	walk = func(n node.Node, prefix string) {
		m, err := n.AsMap()
		if err != nil || (m.Len() == 0 && prefix != "") {
			out[prefix] = fmt.Sprint(node.Materialize(n))
			return
		}

		for key, value := range m.All() {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}

			walk(value, path)
		}
	}

	walk(node.Materialize(n), "")

	return out
}

// TextDiff renders the line differences between the YAML forms of prev and
// next. Removed lines start with "-", added lines with "+".
func TextDiff(prev, next node.Node) (string, error) {
	before, err := yamlText(prev)
	if err != nil {
		return "", err
	}

	after, err := yamlText(next)
	if err != nil {
		return "", err
	}

	dmp := diffmatchpatch.New()
	rOld, rNew, lines := dmp.DiffLinesToRunes(before, after)
	diffs := dmp.DiffCleanupMerge(dmp.DiffMainRunes(rOld, rNew, false))

	var b strings.Builder

	for _, d := range diffs {
		var prefix string

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}

		for _, r := range d.Text {
			if idx := int(r); idx >= 0 && idx < len(lines) {
				b.WriteString(prefix)
				b.WriteString(lines[idx])
			}
		}
	}

	return b.String(), nil
}

func yamlText(n node.Node) (string, error) {
	if n == nil {
		return "", nil
	}

	data, err := node.MarshalYAML(n)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
