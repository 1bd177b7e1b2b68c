package warp_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	warp "github.com/Sparky983/warp-config-sub000"
	"github.com/Sparky983/warp-config-sub000/deserialize"
	"github.com/Sparky983/warp-config-sub000/diagnostic"
	"github.com/Sparky983/warp-config-sub000/message"
	"github.com/Sparky983/warp-config-sub000/metrics"
	"github.com/Sparky983/warp-config-sub000/node"
	"github.com/Sparky983/warp-config-sub000/schema"
	"github.com/Sparky983/warp-config-sub000/source"
	"github.com/Sparky983/warp-config-sub000/typedesc"
)

type Level int

const (
	Debug Level = iota
	Info
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	default:
		return "error"
	}
}

type Store interface {
	Path() string
	Size() int
}

type store struct{ *schema.Instance }

func (s store) Path() string { return schema.Get[string](s.Instance, "Path") }
func (s store) Size() int    { return schema.Get[int](s.Instance, "Size") }

var storeContract = schema.MustDefine(func(i *schema.Instance) Store { return store{i} },
	schema.Prop[string]("Path", "path"),
	schema.Prop[int]("Size", "size", schema.WithDefault(node.Integer(64))),
)

type Service interface {
	Name() string
	Port() uint16
	Level() Level
	Store() Store
	Greeting(user string) string
}

type service struct{ *schema.Instance }

func (s service) Name() string { return schema.Get[string](s.Instance, "Name") }
func (s service) Port() uint16 { return schema.Get[uint16](s.Instance, "Port") }
func (s service) Level() Level { return schema.Get[Level](s.Instance, "Level") }
func (s service) Store() Store { return schema.Get[Store](s.Instance, "Store") }
func (s service) Greeting(user string) string {
	return schema.Get[string](s.Instance, "Greeting", user)
}

var serviceContract = schema.MustDefine(func(i *schema.Instance) Service { return service{i} },
	schema.Prop[string]("Name", "name"),
	schema.Prop[uint16]("Port", "port"),
	schema.Prop[Level]("Level", "log.level", schema.WithDefault(node.String("info"))),
	schema.Prop[Store]("Store", "store"),
	message.Property("Greeting", "greeting", message.Text("user")),
)

const serviceYAML = `
name: billing
port: 8080
store:
  path: /var/lib/billing
greeting: "Hello {user}"
`

func builder(sources ...source.Source) *warp.Builder[Service] {
	b := warp.Bind(serviceContract).AddContract(storeContract)
	for _, src := range sources {
		b.AddSource(src)
	}

	return warp.WithDeserializer(b, deserialize.Enum(Debug, Info, Error))
}

func TestBuild(t *testing.T) {
	t.Parallel()

	cfg, err := builder(
		source.Env("APP", []string{"APP_PORT=9090", "APP_LOG__LEVEL=debug"}),
		source.YAML([]byte(serviceYAML)),
	).Build()
	require.NoError(t, err)

	assert.Equal(t, "billing", cfg.Name())
	assert.Equal(t, uint16(9090), cfg.Port(), "environment overrides the file")
	assert.Equal(t, Debug, cfg.Level())
	assert.Equal(t, "/var/lib/billing", cfg.Store().Path())
	assert.Equal(t, 64, cfg.Store().Size())
	assert.Equal(t, "Hello ann", cfg.Greeting("ann"))
}

func TestBuildDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := builder(source.YAML([]byte(serviceYAML))).Build()
	require.NoError(t, err)

	assert.Equal(t, uint16(8080), cfg.Port())
	assert.Equal(t, Info, cfg.Level())
}

func TestBuildInvalid(t *testing.T) {
	t.Parallel()

	_, err := builder(source.YAML([]byte(`
name: [billing]
port: 70000
log: {level: loud}
greeting: "Hello {usr}"
`))).Build()

	errs, ok := diagnostic.As(err)
	require.True(t, ok, spew.Sdump(err))

	assert.ElementsMatch(t, []string{
		"name: Must be a string",
		"port: Must be between 0 and 65535 (both inclusive)",
		"log.level: loud is not a valid value",
		"store: Must be set to a value",
		"greeting: Unknown placeholder {usr}",
	}, errs.Strings())
}

func TestBuildSourceFailure(t *testing.T) {
	t.Parallel()

	_, err := builder(
		source.YAML([]byte(serviceYAML)),
		source.Func(func() (node.Node, error) { return nil, errors.New("connection refused") }),
	).Build()

	errs, ok := diagnostic.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"source[1]: connection refused"}, errs.Strings())
}

func TestBuildSchemaErrors(t *testing.T) {
	t.Parallel()

	_, err := warp.Bind(serviceContract).AddSource(source.YAML([]byte(serviceYAML))).Build()
	require.ErrorIs(t, err, deserialize.ErrNoDeserializer)

	_, ok := diagnostic.As(err)
	assert.False(t, ok, "a missing deserializer is not a data error")

	_, err = warp.WithDeserializer(builder(), deserialize.Value(func(node.Node) (chan int, error) {
		return nil, nil
	})).Build()
	require.ErrorIs(t, err, typedesc.ErrUnsupportedType)

	_, err = builder().AddDeserializer(typedesc.For[Level](), nil).Build()
	require.ErrorIs(t, err, deserialize.ErrDuplicate)
}

func TestBuildUnknownProperties(t *testing.T) {
	t.Parallel()

	doc := source.YAML([]byte(serviceYAML + "portt: 1\n"))

	var logs bytes.Buffer

	_, err := builder(doc).WithLogger(zerolog.New(&logs)).Build()
	require.NoError(t, err)
	assert.Contains(t, logs.String(), `"path":"portt"`)
	assert.Contains(t, logs.String(), `"suggestion":"port"`)

	_, err = builder(doc).Strict(true).Build()
	errs, ok := diagnostic.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"portt: Unknown property", `portt: Did you mean "port"?`}, errs.Strings())
}

func TestBuildMetrics(t *testing.T) {
	t.Parallel()

	collector := metrics.NewWithRegistry(prometheus.NewRegistry())
	b := builder(source.YAML([]byte(serviceYAML))).WithMetrics(collector)

	_, err := b.Build()
	require.NoError(t, err)

	_, err = b.AddSource(source.Func(func() (node.Node, error) { return nil, errors.New("down") })).Build()
	require.Error(t, err)

	name := serviceContract.Name()
	assert.InDelta(t, 1, testutil.ToFloat64(collector.BindsTotal.WithLabelValues(name, metrics.ResultOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.BindsTotal.WithLabelValues(name, metrics.ResultInvalid)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.BindProblems.WithLabelValues(name)), 0)
}

func TestEffective(t *testing.T) {
	t.Parallel()

	n, err := builder(
		source.Env("APP", []string{"APP_STORE__SIZE=128"}),
		source.YAML([]byte(serviceYAML)),
	).Effective()
	require.NoError(t, err)

	assert.Equal(t, "{store: {size: 128, path: /var/lib/billing}, name: billing, port: 8080, greeting: Hello {user}}",
		fmt.Sprint(n))

	n, err = builder().Effective()
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	loads := 0
	counting := source.Func(func() (node.Node, error) {
		loads++
		return node.NewMap().Set("port", node.Integer(int64(9000+loads))).Build(), nil
	})

	cfg, n, err := builder(counting, source.YAML([]byte(serviceYAML))).Load()
	require.NoError(t, err)
	assert.Equal(t, 1, loads)
	assert.Equal(t, uint16(9001), cfg.Port())

	root, err := n.AsMap()
	require.NoError(t, err)

	port, ok := root.Get("port")
	require.True(t, ok)
	assert.Equal(t, "9001", fmt.Sprint(port))

	_, n, err = builder(source.YAML([]byte("name: x\nport: -1\n"))).Load()
	require.Error(t, err)
	assert.Nil(t, n)
}

func Example() {
	cfg, err := builder(source.YAML([]byte(serviceYAML))).Build()
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(cfg.Name(), cfg.Port(), cfg.Level(), cfg.Store().Size())
	fmt.Println(cfg.Greeting("bob"))
	// Output:
	// billing 8080 info 64
	// Hello bob
}

func Example_invalid() {
	_, err := builder(source.YAML([]byte("name: billing\nport: -1\n"))).Build()
	fmt.Println(err)
	// Output:
	//  - greeting:
	//    - Must be set to a value
	//  - port:
	//    - Must be between 0 and 65535 (both inclusive)
	//  - store:
	//    - Must be set to a value
}
