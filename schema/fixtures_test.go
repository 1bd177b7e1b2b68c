package schema_test

import (
	"time"

	"github.com/Sparky983/warp-config-sub000/node"
	"github.com/Sparky983/warp-config-sub000/optional"
	"github.com/Sparky983/warp-config-sub000/schema"
)

type Server interface {
	Host() string
	Port() uint16
	Tags() []string
}

type server struct{ *schema.Instance }

func (s server) Host() string   { return schema.Get[string](s.Instance, "Host") }
func (s server) Port() uint16   { return schema.Get[uint16](s.Instance, "Port") }
func (s server) Tags() []string { return schema.Get[[]string](s.Instance, "Tags") }

func newServer(i *schema.Instance) Server { return server{i} }

func serverProps() []schema.Property {
	return []schema.Property{
		schema.Prop[string]("Host", "server.host", schema.WithDefault(node.String("localhost"))),
		schema.Prop[uint16]("Port", "server.port"),
		schema.Prop[[]string]("Tags", "server.tags"),
	}
}

type Database interface {
	URL() string
	Pool() int
}

type database struct{ *schema.Instance }

func (d database) URL() string { return schema.Get[string](d.Instance, "URL") }
func (d database) Pool() int   { return schema.Get[int](d.Instance, "Pool") }

var databaseContract = schema.MustDefine(func(i *schema.Instance) Database { return database{i} },
	schema.Prop[string]("URL", "url"),
	schema.Prop[int]("Pool", "pool", schema.WithDefault(node.Integer(4))),
)

type App interface {
	Name() string
	Primary() Database
	Replicas() []Database
	Limits() map[string]int
	Timeout() optional.Value[time.Duration]
}

type app struct{ *schema.Instance }

func (a app) Name() string           { return schema.Get[string](a.Instance, "Name") }
func (a app) Primary() Database      { return schema.Get[Database](a.Instance, "Primary") }
func (a app) Replicas() []Database   { return schema.Get[[]Database](a.Instance, "Replicas") }
func (a app) Limits() map[string]int { return schema.Get[map[string]int](a.Instance, "Limits") }
func (a app) Timeout() optional.Value[time.Duration] {
	return schema.Get[optional.Value[time.Duration]](a.Instance, "Timeout")
}

var appContract = schema.MustDefine(func(i *schema.Instance) App { return app{i} },
	schema.Prop[string]("Name", "name"),
	schema.Prop[Database]("Primary", "database.primary"),
	schema.Prop[[]Database]("Replicas", "database.replicas"),
	schema.Prop[map[string]int]("Limits", "limits"),
	schema.Prop[optional.Value[time.Duration]]("Timeout", "timeout"),
).Uses(databaseContract)
