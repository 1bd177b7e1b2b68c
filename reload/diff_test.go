package reload_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sparky983/warp-config-sub000/node"
	"github.com/Sparky983/warp-config-sub000/reload"
)

func parse(t *testing.T, doc string) node.Node {
	t.Helper()

	n, err := node.ParseYAML([]byte(doc))
	require.NoError(t, err)

	return n
}

func TestChanges(t *testing.T) {
	t.Parallel()

	prev := parse(t, "a: 1\nlist: [1, 2]\nm: {x: true}\ngone: x\nempty: {}\n")
	next := parse(t, "a: 2\nlist: [1, 2]\nm: {x: true, y: null}\nnew: ok\nempty: {}\n")

	assert.Equal(t, []reload.Change{
		{Path: "a", Kind: reload.Modified, Old: "1", New: "2"},
		{Path: "gone", Kind: reload.Removed, Old: "x"},
		{Path: "m.y", Kind: reload.Added, New: "null"},
		{Path: "new", Kind: reload.Added, New: "ok"},
	}, reload.Changes(prev, next))

	assert.Empty(t, reload.Changes(prev, prev))
	assert.Equal(t, []reload.Change{{Path: "a", Kind: reload.Added, New: "1"}}, reload.Changes(nil, parse(t, "a: 1")))
}

func TestChangesComposite(t *testing.T) {
	t.Parallel()

	prev := node.Composite(parse(t, "port: 9090"), parse(t, "port: 8080\nhost: x"))
	next := parse(t, "port: 9090\nhost: y")

	assert.Equal(t, []reload.Change{
		{Path: "host", Kind: reload.Modified, Old: "x", New: "y"},
	}, reload.Changes(prev, next))
}

func TestChangeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a: 1 -> 2", reload.Change{Path: "a", Kind: reload.Modified, Old: "1", New: "2"}.String())
	assert.Equal(t, "b: added x", reload.Change{Path: "b", Kind: reload.Added, New: "x"}.String())
	assert.Equal(t, "c: removed y", reload.Change{Path: "c", Kind: reload.Removed, Old: "y"}.String())
}

func TestTextDiff(t *testing.T) {
	t.Parallel()

	diff, err := reload.TextDiff(parse(t, "a: 1\nb: 2\n"), parse(t, "a: 1\nb: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, "-b: 2\n+b: 3\n", diff)

	diff, err = reload.TextDiff(nil, parse(t, "a: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, "+a: 1\n", diff)
}
