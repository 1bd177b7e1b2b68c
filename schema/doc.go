// Package schema declares configuration contracts and binds configuration
// sources onto them.
//
// A contract is a named Go interface whose methods are configuration
// properties. Define checks the interface against the declared properties
// once; a Binder then validates sources against the contract and produces an
// Instance. Accessor methods are implemented by delegating to Get, which
// renders the property afresh on every call:
//
//	type Server interface {
//		Host() string
//		Port() uint16
//	}
//
//	type server struct{ *schema.Instance }
//
//	func (s server) Host() string { return schema.Get[string](s.Instance, "Host") }
//	func (s server) Port() uint16 { return schema.Get[uint16](s.Instance, "Port") }
//
//	var ServerContract = schema.MustDefine(func(i *schema.Instance) Server { return server{i} },
//		schema.Prop[string]("Host", "host", schema.WithDefault(node.String("localhost"))),
//		schema.Prop[uint16]("Port", "port"),
//	)
//
// Binding evaluates every property and reports all invalid data at once, as
// a *diagnostic.Errors grouped by property path.
package schema
