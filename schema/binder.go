package schema

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sparky983/warp-config-sub000/deserialize"
	"github.com/Sparky983/warp-config-sub000/diagnostic"
	"github.com/Sparky983/warp-config-sub000/internal/match"
	"github.com/Sparky983/warp-config-sub000/node"
	"github.com/Sparky983/warp-config-sub000/typedesc"
)

const msgUnknown = "Unknown property"

// BindOption configures binding.
type BindOption func(*bindOptions)

type bindOptions struct {
	logger zerolog.Logger
	strict bool
}

// WithLogger sets the logger binding reports to.
func WithLogger(logger zerolog.Logger) BindOption {
	return func(o *bindOptions) {
		o.logger = logger
	}
}

// Strict makes unknown properties errors instead of warnings.
func Strict(strict bool) BindOption {
	return func(o *bindOptions) {
		o.strict = strict
	}
}

func newOptions(opts []BindOption) bindOptions {
	o := bindOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Binder binds sources onto one schema.
type Binder struct {
	schema   Schema
	registry *deserialize.Registry
	opts     bindOptions
}

// NewBinder returns a Binder resolving deserializers through registry.
func NewBinder(s Schema, registry *deserialize.Registry, opts ...BindOption) *Binder {
	return &Binder{schema: s, registry: registry, opts: newOptions(opts)}
}

// Bind validates sources, highest priority first, against the schema. Nil
// sources are skipped.
//
// Invalid data yields a *diagnostic.Errors listing every problem. Any other
// error means a property type has no usable deserializer.
func (b *Binder) Bind(sources []node.Node) (*Instance, error) {
	started := time.Now()

	b.opts.logger.Debug().
		Str("schema", b.schema.Name()).
		Int("sources", len(sources)).
		Msg("binding configuration")

	inst, err := bind(b.schema, sources, deserialize.NewContext(b.registry), b.opts)
	if err != nil {
		b.opts.logger.Debug().Err(err).Str("schema", b.schema.Name()).Msg("configuration rejected")
		return nil, err
	}

	b.opts.logger.Debug().
		Str("schema", b.schema.Name()).
		Dur("elapsed", time.Since(started)).
		Int("warnings", len(inst.warnings)).
		Msg("configuration bound")

	return inst, nil
}

// Nested returns a deserializer binding map nodes onto s. Register it under
// s.Type() so s can be used as a property type. Property types of s are
// resolved through the registry of the enclosing bind.
func Nested(s Schema, opts ...BindOption) deserialize.Untyped {
	o := newOptions(opts)

	return deserialize.Func[any](func(n node.Node, ctx deserialize.Context) (deserialize.Renderer[any], error) {
		if deserialize.IsAbsent(n) {
			return nil, deserialize.Missing()
		}

		if _, err := n.AsMap(); err != nil {
			return nil, err
		}

		inst, err := bind(s, node.Layers(n), ctx, o)
		if err != nil {
			return nil, err
		}

		if pc, ok := ctx.(*propertyContext); ok {
			pc.diags.Merge(diagnostic.Diagnostics{Warnings: inst.warnings})
		}

		return deserialize.Static(s.Instantiate(inst)), nil
	})
}

// RegisterNested registers Nested for s and, transitively, every schema it
// uses.
func RegisterNested(rb *deserialize.RegistryBuilder, s Schema, opts ...BindOption) {
	seen := make(map[typedesc.Key]bool)

	var walk func(s Schema)

	walk = func(s Schema) {
		for _, n := range s.Nested() {
			if seen[n.Type().Key()] {
				continue
			}

			seen[n.Type().Key()] = true
			rb.Add(n.Type(), Nested(n, opts...))
			walk(n)
		}
	}

	walk(s)
}

// propertyContext collects what nested schemas report while one property is
// deserialized.
type propertyContext struct {
	deserialize.Context
	diags diagnostic.Diagnostics
}

type resolved struct {
	prop  Property
	deser deserialize.Untyped
}

func bind(s Schema, sources []node.Node, ctx deserialize.Context, o bindOptions) (*Instance, error) {
	props := s.Properties()

	resolvedProps := make([]resolved, 0, len(props))
	for _, p := range props {
		d := p.Deserializer
		if d == nil {
			var err error
			if d, err = ctx.Lookup(p.Type); err != nil {
				return nil, fmt.Errorf("%s: property %s: %w", s.Name(), p.Method, err)
			}
		}

		resolvedProps = append(resolvedProps, resolved{prop: p, deser: d})
	}

	sources = slices.DeleteFunc(slices.Clone(sources), func(n node.Node) bool { return n == nil })

	inst := &Instance{schema: s.Name(), entries: make(map[string]entry, len(props))}

	var diags diagnostic.Diagnostics

	for _, r := range resolvedProps {
		n := lookupNode(r.prop, sources)

		pc := &propertyContext{Context: deserialize.WithParameters(ctx, r.prop.Params...)}

		renderer, err := r.deser.Deserialize(n, pc)
		if err != nil {
			errs, ok := diagnostic.As(err)
			if !ok {
				return nil, fmt.Errorf("%s: property %s: %w", s.Name(), r.prop.Method, err)
			}

			diags.AddError(diagnostic.NewGroup(r.prop.Path, errs.List()...))

			continue
		}

		if len(pc.diags.Warnings) != 0 {
			diags.AddWarning(diagnostic.NewGroup(r.prop.Path, pc.diags.Warnings...))
		}

		inst.entries[r.prop.Method] = entry{path: r.prop.Path, arity: len(r.prop.Params), renderer: renderer}
		inst.order = append(inst.order, r.prop.Method)
	}

	severity := diagnostic.SeverityWarning
	if o.strict {
		severity = diagnostic.SeverityError
	}

	for _, u := range unknownKeys(props, sources) {
		diags.Add(severity, u.err)

		event := o.logger.Warn().Str("schema", s.Name()).Str("path", u.path)
		if u.suggestion != "" {
			event = event.Str("suggestion", u.suggestion)
		}

		event.Msg("unknown configuration property")
	}

	if diags.HasErrors() {
		return nil, diags.Err()
	}

	inst.warnings = diags.Warnings

	return inst, nil
}

// lookupNode gathers the property value from every source that holds it,
// falling back to the declared default and then the type default. It returns
// nil when the value is absent.
func lookupNode(p Property, sources []node.Node) node.Node {
	segments := strings.Split(p.Path, ".")

	var found []node.Node

	for _, src := range sources {
		if n, ok := traverse(src, segments); ok {
			found = append(found, n)
		}
	}

	if len(found) != 0 {
		return node.Composite(found...)
	}

	if p.Default != nil {
		return p.Default
	}

	if n, ok := deserialize.TypeDefault(p.Type); ok {
		return n
	}

	return nil
}

func traverse(n node.Node, segments []string) (node.Node, bool) {
	for _, seg := range segments {
		m, err := n.AsMap()
		if err != nil {
			return nil, false
		}

		next, ok := m.Get(seg)
		if !ok {
			return nil, false
		}

		n = next
	}

	return n, true
}

type unknownKey struct {
	path       string
	suggestion string
	err        diagnostic.Error
}

// unknownKeys reports keys present in the sources that no property reads.
// Keys below a property path belong to that property's value.
func unknownKeys(props []Property, sources []node.Node) []unknownKey {
	var (
		known    = make(map[string]bool, len(props))
		prefixes = make(map[string]bool)
		paths    = make([]string, 0, len(props))
		seen     = make(map[string]bool)
		out      []unknownKey
	)

	for _, p := range props {
		known[p.Path] = true
		paths = append(paths, p.Path)

		segments := strings.Split(p.Path, ".")
		for i := 1; i < len(segments); i++ {
			prefixes[strings.Join(segments[:i], ".")] = true
		}
	}

	var walk func(n node.Node, prefix string)

	walk = func(n node.Node, prefix string) {
		m, err := n.AsMap()
		if err != nil {
			return
		}

		for key, value := range m.All() {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}

			switch {
			case known[path]:
			case prefixes[path]:
				walk(value, path)
			case !seen[path]:
				seen[path] = true

				u := unknownKey{path: path}
				children := []diagnostic.Error{diagnostic.New(msgUnknown)}

				if suggestion, ok := match.Suggest(path, paths); ok {
					u.suggestion = suggestion
					children = append(children, diagnostic.Errorf("Did you mean %q?", suggestion))
				}

				u.err = diagnostic.NewGroup(path, children...)
				out = append(out, u)
			}
		}
	}

	for _, src := range sources {
		walk(src, "")
	}

	return out
}
