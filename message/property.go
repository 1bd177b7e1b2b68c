package message

import (
	"fmt"

	"github.com/Sparky983/warp-config-sub000/deserialize"
	"github.com/Sparky983/warp-config-sub000/diagnostic"
	"github.com/Sparky983/warp-config-sub000/node"
	"github.com/Sparky983/warp-config-sub000/schema"
)

// Deserializer reads a template string and renders it with the accessor
// arguments. The parameters come from the property being bound; each must
// be a Param.
func Deserializer() deserialize.Deserializer[string] {
	return deserialize.Func[string](func(n node.Node, ctx deserialize.Context) (deserialize.Renderer[string], error) {
		params, err := messageParams(ctx.Parameters())
		if err != nil {
			return nil, err
		}

		if deserialize.IsAbsent(n) {
			return nil, deserialize.Missing()
		}

		text, err := n.AsString()
		if err != nil {
			return nil, err
		}

		t, errs := Parse(text, params...)
		if errs != nil {
			return nil, diagnostic.Fail(errs...)
		}

		return deserialize.RendererFunc[string](func(rc deserialize.RenderContext) string {
			return t.Render(rc.Args...)
		}), nil
	})
}

func messageParams(params []deserialize.Parameter) ([]Param, error) {
	out := make([]Param, 0, len(params))
	for _, p := range params {
		mp, ok := p.(Param)
		if !ok {
			return nil, fmt.Errorf("parameter %q is a %T, not a message parameter", p.Name(), p)
		}

		out = append(out, mp)
	}

	return out, nil
}

// Property declares a templated string property whose accessor takes one
// argument per parameter, in order.
func Property(method, path string, params ...Param) schema.Property {
	declared := make([]deserialize.Parameter, 0, len(params))
	for _, p := range params {
		declared = append(declared, p)
	}

	return schema.Prop[string](method, path,
		schema.WithDeserializer(Deserializer()),
		schema.WithParams(declared...),
	)
}
