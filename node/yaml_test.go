package node

import (
	"fmt"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYAML(t *testing.T) {
	t.Parallel()

	doc := `
server:
  host: localhost
  port: 8080
  ratio: 0.75
  debug: true
  tls: ~
  big: 10000000000000000000
  inf: .inf
  tags: [a, b]
defaults: &defaults
  retries: 3
  timeout: 5s
client:
  <<: *defaults
  retries: 5
`

	n, err := ParseYAML([]byte(doc))
	require.NoError(t, err)

	root, err := n.AsMap()
	require.NoError(t, err, spew.Sdump(n))
	assert.Equal(t, []string{"server", "defaults", "client"}, root.Keys())

	serverNode, _ := root.Get("server")
	server, err := serverNode.AsMap()
	require.NoError(t, err)

	kinds := map[string]KindEnum{
		"host":  KindString,
		"port":  KindInteger,
		"ratio": KindDecimal,
		"debug": KindBool,
		"tls":   KindNil,
		"big":   KindString,
		"inf":   KindString,
		"tags":  KindList,
	}
	for key, kind := range kinds {
		v, ok := server.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, kind, v.Kind(), key)
	}

	clientNode, _ := root.Get("client")
	client, err := clientNode.AsMap()
	require.NoError(t, err)
	assert.Equal(t, "{retries: 5, timeout: 5s}", client.String())
}

func TestParseYAMLEmpty(t *testing.T) {
	t.Parallel()

	n, err := ParseYAML(nil)
	require.NoError(t, err)
	assert.Nil(t, n)

	n, err = ParseYAML([]byte("# only a comment\n"))
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestParseYAMLErrors(t *testing.T) {
	t.Parallel()

	_, err := ParseYAML([]byte("a: [unclosed"))
	require.Error(t, err)

	_, err = ParseYAML([]byte("? [a, b]\n: value\n"))
	require.ErrorContains(t, err, "map keys must be scalars")
}

func TestParseYAMLAliases(t *testing.T) {
	t.Parallel()

	n, err := ParseYAML([]byte("base: &b [1, 2]\nfirst: *b\nsecond: *b\n"))
	require.NoError(t, err)

	root, err := n.AsMap()
	require.NoError(t, err)

	for _, key := range []string{"first", "second"} {
		v, ok := root.Get(key)
		require.True(t, ok, key)

		items, err := v.AsList()
		require.NoError(t, err, key)
		assert.Len(t, items, 2, key)
	}
}

func TestParseYAMLRecursiveAnchor(t *testing.T) {
	t.Parallel()

	for _, doc := range []string{
		"a: &x [*x]\n",
		"a: &x {b: *x}\n",
		"a: &x {<<: *x, b: 1}\n",
	} {
		_, err := ParseYAML([]byte(doc))
		require.ErrorContains(t, err, "contains itself", doc)
	}
}

func TestParseYAMLAliasExpansionLimit(t *testing.T) {
	t.Parallel()

	var doc strings.Builder

	doc.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x]\n")

	for i := 1; i <= 7; i++ {
		fmt.Fprintf(&doc, "l%d: &l%d [", i, i)

		for j := range 9 {
			if j > 0 {
				doc.WriteString(", ")
			}

			fmt.Fprintf(&doc, "*l%d", i-1)
		}

		doc.WriteString("]\n")
	}

	_, err := ParseYAML([]byte(doc.String()))
	require.ErrorContains(t, err, "aliases expand to more than")
}

func TestScalar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		kind KindEnum
	}{
		{"true", KindBool},
		{"false", KindBool},
		{"8080", KindInteger},
		{"-3", KindInteger},
		{"1.25", KindDecimal},
		{"~", KindNil},
		{"null", KindNil},
		{"", KindNil},
		{"hello", KindString},
		{"5s", KindString},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.kind, Scalar(tt.text).Kind())
		})
	}
}

func TestMarshalYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	n := Composite(
		MapOf(KV("name", String("true")), KV("ratio", Decimal(2))),
		MapOf(KV("items", List(Integer(1), Nil())), KV("name", String("ignored"))),
	)

	out, err := MarshalYAML(n)
	require.NoError(t, err)
	assert.Equal(t, "name: \"true\"\nratio: 2.0\nitems:\n  - 1\n  - null\n", string(out))

	back, err := ParseYAML(out)
	require.NoError(t, err)
	assert.Equal(t, Materialize(n), back)
}

func ExampleParseYAML() {
	n, _ := ParseYAML([]byte("port: 8080\nhosts: [a, b]\n"))
	m, _ := n.AsMap()

	for k, v := range m.All() {
		fmt.Println(k, v.Kind(), v)
	}
	// Output:
	// port KindInteger 8080
	// hosts KindList [a, b]
}
