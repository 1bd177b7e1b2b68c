package schema_test

import (
	"bytes"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sparky983/warp-config-sub000/deserialize"
	"github.com/Sparky983/warp-config-sub000/diagnostic"
	"github.com/Sparky983/warp-config-sub000/node"
	"github.com/Sparky983/warp-config-sub000/optional"
	"github.com/Sparky983/warp-config-sub000/schema"
	"github.com/Sparky983/warp-config-sub000/typedesc"
)

func registryFor(t *testing.T, s schema.Schema, opts ...schema.BindOption) *deserialize.Registry {
	t.Helper()

	rb := deserialize.NewRegistry()
	schema.RegisterNested(rb, s, opts...)

	reg, err := rb.Build()
	require.NoError(t, err)

	return deserialize.Chain(reg, deserialize.Defaults())
}

func bindApp(t *testing.T, opts []schema.BindOption, sources ...node.Node) (App, *schema.Instance, error) {
	t.Helper()

	inst, err := schema.NewBinder(appContract, registryFor(t, appContract, opts...), opts...).Bind(sources)
	if err != nil {
		return nil, nil, err
	}

	return appContract.New(inst), inst, nil
}

func parse(t *testing.T, doc string) node.Node {
	t.Helper()

	n, err := node.ParseYAML([]byte(doc))
	require.NoError(t, err)

	return n
}

func TestBindPrecedence(t *testing.T) {
	t.Parallel()

	high := parse(t, `
name: high
database:
  primary:
    url: postgres://high
`)
	low := parse(t, `
name: low
database:
  primary:
    url: postgres://low
    pool: 16
  replicas:
    - url: postgres://replica
limits:
  rps: 100
timeout: 5s
`)

	a, _, err := bindApp(t, nil, high, low)
	require.NoError(t, err)

	assert.Equal(t, "high", a.Name())
	assert.Equal(t, "postgres://high", a.Primary().URL())
	assert.Equal(t, 16, a.Primary().Pool())

	replicas := a.Replicas()
	require.Len(t, replicas, 1)
	assert.Equal(t, "postgres://replica", replicas[0].URL())
	assert.Equal(t, 4, replicas[0].Pool())

	assert.Equal(t, map[string]int{"rps": 100}, a.Limits())
	assert.Equal(t, optional.Of(5*time.Second), a.Timeout())
}

func TestBindNilShortCircuits(t *testing.T) {
	t.Parallel()

	a, _, err := bindApp(t, nil,
		parse(t, "timeout: ~\nname: x\ndatabase: {primary: {url: u}}"),
		parse(t, "timeout: 1s"),
	)
	require.NoError(t, err)

	_, ok := a.Timeout().Get()
	assert.False(t, ok)
}

func TestBindTypeDefaults(t *testing.T) {
	t.Parallel()

	a, _, err := bindApp(t, nil, parse(t, "name: x\ndatabase: {primary: {url: u}}"))
	require.NoError(t, err)

	assert.Empty(t, a.Replicas())
	assert.NotNil(t, a.Replicas())
	assert.Equal(t, map[string]int{}, a.Limits())
	assert.Equal(t, optional.Empty[time.Duration](), a.Timeout())
}

func TestBindCollectsEveryError(t *testing.T) {
	t.Parallel()

	_, _, err := bindApp(t, nil, parse(t, `
database:
  primary:
    pool: many
  replicas:
    - url: ok
    - 3
limits:
  rps: fast
`))

	errs, ok := diagnostic.As(err)
	require.True(t, ok, "%v", err)

	assert.Equal(t, []string{
		"name: Must be set to a value",
		"database.primary.url: Must be set to a value",
		"database.primary.pool: Must be an integer",
		"database.replicas.1: Must be a map",
		"limits.rps: Must be an integer",
	}, errs.Strings())
	assert.Equal(t, 4, errs.Len())
}

func TestBindTwoFailingProperties(t *testing.T) {
	t.Parallel()

	c := schema.MustDefine(newServer, serverProps()...)
	_, err := schema.NewBinder(c, deserialize.Defaults()).Bind([]node.Node{
		parse(t, "server: {port: 70000, tags: [a, 1]}"),
	})

	errs, ok := diagnostic.As(err)
	require.True(t, ok)
	assert.Equal(t, []diagnostic.Error{
		diagnostic.NewGroup("server.port", diagnostic.New("Must be between 0 and 65535 (both inclusive)")),
		diagnostic.NewGroup("server.tags", diagnostic.NewGroup("1", diagnostic.New("Must be a string"))),
	}, errs.List())

	assert.Equal(t, ` - server.port:
   - Must be between 0 and 65535 (both inclusive)
 - server.tags:
   - 1:
     - Must be a string`, err.Error())
}

func TestBindNestedShape(t *testing.T) {
	t.Parallel()

	_, _, err := bindApp(t, nil, parse(t, "name: x"))
	errs, ok := diagnostic.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"database.primary: Must be set to a value"}, errs.Strings())

	_, _, err = bindApp(t, nil, parse(t, "name: x\ndatabase: {primary: text}"))
	errs, ok = diagnostic.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"database.primary: Must be a map"}, errs.Strings())
}

func TestBindUnknownKeys(t *testing.T) {
	t.Parallel()

	doc := `
name: x
names: y
extra: 1
database:
  primary: {url: u, pol: 3}
  backup: {}
`

	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	_, inst, err := bindApp(t, []schema.BindOption{schema.WithLogger(logger)}, parse(t, doc))
	require.NoError(t, err)

	assert.Equal(t, []diagnostic.Error{
		diagnostic.NewGroup("database.primary",
			diagnostic.NewGroup("pol", diagnostic.New("Unknown property"), diagnostic.New(`Did you mean "pool"?`))),
		diagnostic.NewGroup("names", diagnostic.New("Unknown property"), diagnostic.New(`Did you mean "name"?`)),
		diagnostic.NewGroup("extra", diagnostic.New("Unknown property")),
		diagnostic.NewGroup("database.backup", diagnostic.New("Unknown property")),
	}, inst.Warnings())
	assert.Contains(t, logs.String(), `"path":"pol"`)
	assert.Contains(t, logs.String(), `"suggestion":"pool"`)

	_, _, err = bindApp(t, []schema.BindOption{schema.Strict(true)}, parse(t, doc))
	errs, ok := diagnostic.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{
		"database.primary.pol: Unknown property",
		`database.primary.pol: Did you mean "pool"?`,
		"names: Unknown property",
		`names: Did you mean "name"?`,
		"extra: Unknown property",
		"database.backup: Unknown property",
	}, errs.Strings())
}

func TestBindNestedWarnings(t *testing.T) {
	t.Parallel()

	doc := `
name: x
database:
  primary: {url: u}
  replicas:
    - {url: a, extra: 1}
    - {url: b}
`

	_, inst, err := bindApp(t, nil, parse(t, doc))
	require.NoError(t, err)

	assert.Equal(t, []diagnostic.Error{
		diagnostic.NewGroup("database.replicas", diagnostic.NewGroup("extra", diagnostic.New("Unknown property"))),
	}, inst.Warnings())
}

func TestBindSchemaError(t *testing.T) {
	t.Parallel()

	// Database is not registered as a nested contract.
	_, err := schema.NewBinder(appContract, deserialize.Defaults()).Bind(nil)
	require.ErrorIs(t, err, deserialize.ErrNoDeserializer)

	_, ok := diagnostic.As(err)
	assert.False(t, ok)
}

type Counter interface {
	Count() int
}

func TestRenderIsNotMemoized(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64

	counting := deserialize.Func[int](func(node.Node, deserialize.Context) (deserialize.Renderer[int], error) {
		return deserialize.RendererFunc[int](func(deserialize.RenderContext) int {
			return int(calls.Add(1))
		}), nil
	})

	c := schema.MustDefine(func(i *schema.Instance) Counter { return nil },
		schema.Prop[int]("Count", "count", schema.WithDeserializer[int](counting)))

	inst, err := schema.NewBinder(c, deserialize.Defaults()).Bind(nil)
	require.NoError(t, err)

	assert.Equal(t, 1, schema.Get[int](inst, "Count"))
	assert.Equal(t, 2, schema.Get[int](inst, "Count"))
}

func TestInstance(t *testing.T) {
	t.Parallel()

	c := schema.MustDefine(newServer, serverProps()...)
	inst, err := schema.NewBinder(c, deserialize.Defaults()).Bind([]node.Node{
		nil,
		parse(t, "server: {port: 8080}"),
	})
	require.NoError(t, err)

	s := c.New(inst)
	assert.Equal(t, "localhost", s.Host())
	assert.Equal(t, uint16(8080), s.Port())
	assert.Equal(t, []string{}, s.Tags())

	assert.Equal(t, []string{"Host", "Port", "Tags"}, inst.Methods())

	path, ok := inst.Path("Port")
	assert.True(t, ok)
	assert.Equal(t, "server.port", path)

	_, err = inst.Render("Missing")
	require.ErrorIs(t, err, schema.ErrUnknownMethod)

	_, err = inst.Render("Port", 1)
	require.ErrorIs(t, err, schema.ErrArgCount)

	assert.Panics(t, func() { schema.Get[string](inst, "Missing") })

	assert.Equal(t, map[string]any{
		"server.host": "localhost",
		"server.port": uint16(8080),
		"server.tags": []string{},
	}, inst.Values())
}

func TestBindDynamic(t *testing.T) {
	t.Parallel()

	c, err := schema.Dynamic("app",
		schema.TypedProp("port", "server.port", typedesc.Of(typedesc.Int)),
		schema.TypedProp("hosts", "server.hosts", typedesc.Of(typedesc.List, typedesc.Of(typedesc.String))),
	)
	require.NoError(t, err)

	inst, err := schema.NewBinder(c, deserialize.Defaults()).Bind([]node.Node{
		parse(t, "server: {port: 1, hosts: [a, b]}"),
	})
	require.NoError(t, err)

	v, err := c.New(inst).Render("hosts")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v)
}

func ExampleBinder_Bind() {
	c := schema.MustDefine(newServer, serverProps()...)

	_, err := schema.NewBinder(c, deserialize.Defaults()).Bind([]node.Node{
		node.MapOf(node.KV("server", node.MapOf(node.KV("port", node.String("http"))))),
	})

	fmt.Println(err)
	// Output:
	//  - server.port:
	//    - Must be an integer
}
