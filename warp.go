package warp

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sparky983/warp-config-sub000/deserialize"
	"github.com/Sparky983/warp-config-sub000/metrics"
	"github.com/Sparky983/warp-config-sub000/node"
	"github.com/Sparky983/warp-config-sub000/schema"
	"github.com/Sparky983/warp-config-sub000/source"
	"github.com/Sparky983/warp-config-sub000/typedesc"
)

// Builder collects the sources and deserializers a contract is bound with.
// A Builder can be built any number of times; every Build reloads the
// sources.
type Builder[T any] struct {
	contract  *schema.Contract[T]
	sources   []source.Source
	registry  *deserialize.RegistryBuilder
	contracts []schema.Schema
	logger    zerolog.Logger
	metrics   *metrics.Collector
	strict    bool
	errs      []error
}

// Bind starts binding contract.
func Bind[T any](contract *schema.Contract[T]) *Builder[T] {
	return &Builder[T]{
		contract: contract,
		registry: deserialize.NewRegistry(),
		logger:   zerolog.Nop(),
	}
}

// AddSource adds a source with lower priority than every source added
// before it.
func (b *Builder[T]) AddSource(src source.Source) *Builder[T] {
	b.sources = append(b.sources, src)
	return b
}

// AddDeserializer binds d to exactly t. It takes precedence over the
// built-in deserializers.
func (b *Builder[T]) AddDeserializer(t typedesc.Type, d deserialize.Untyped) *Builder[T] {
	b.registry.Add(t, d)
	return b
}

// WithDeserializer binds d to the type D.
func WithDeserializer[D, T any](b *Builder[T], d deserialize.Deserializer[D]) *Builder[T] {
	t, err := typedesc.FromReflect(reflect.TypeFor[D]())
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("deserializer for %s: %w", reflect.TypeFor[D](), err))
		return b
	}

	return b.AddDeserializer(t, deserialize.Erase(d))
}

// AddFactory registers f for every type with the raw tag.
func (b *Builder[T]) AddFactory(raw typedesc.Raw, f deserialize.Factory) *Builder[T] {
	b.registry.AddFactory(raw, f)
	return b
}

// AddContract makes s usable as a property type, together with every
// contract it uses.
func (b *Builder[T]) AddContract(s schema.Schema) *Builder[T] {
	b.contracts = append(b.contracts, s)
	return b
}

// WithLogger sets the logger binding reports to.
func (b *Builder[T]) WithLogger(logger zerolog.Logger) *Builder[T] {
	b.logger = logger
	return b
}

// WithMetrics records every Build on c.
func (b *Builder[T]) WithMetrics(c *metrics.Collector) *Builder[T] {
	b.metrics = c
	return b
}

// Strict makes unknown properties errors instead of warnings.
func (b *Builder[T]) Strict(strict bool) *Builder[T] {
	b.strict = strict
	return b
}

// Build loads every source and binds the contract.
func (b *Builder[T]) Build() (T, error) {
	cfg, _, err := b.Load()
	return cfg, err
}

// Load loads every source once and returns both the bound contract and the
// effective tree it was bound from. The tree is nil when no source holds
// configuration.
func (b *Builder[T]) Load() (T, node.Node, error) {
	started := time.Now()

	inst, nodes, err := b.bind()
	b.metrics.ObserveBind(b.contract.Name(), time.Since(started), err)

	if err != nil {
		var zero T
		return zero, nil, err
	}

	for _, w := range inst.Warnings() {
		b.logger.Warn().Str("contract", b.contract.Name()).Msg(w.String())
	}

	return b.contract.New(inst), effective(nodes), nil
}

func (b *Builder[T]) bind() (*schema.Instance, []node.Node, error) {
	registry, err := b.buildRegistry()
	if err != nil {
		return nil, nil, err
	}

	nodes, err := source.LoadAll(b.sources)
	if err != nil {
		return nil, nil, err
	}

	binder := schema.NewBinder(b.contract.Uses(b.contracts...), registry, b.bindOptions()...)

	inst, err := binder.Bind(nodes)
	if err != nil {
		return nil, nil, err
	}

	return inst, nodes, nil
}

func (b *Builder[T]) bindOptions() []schema.BindOption {
	return []schema.BindOption{schema.WithLogger(b.logger), schema.Strict(b.strict)}
}

// buildRegistry layers the user registrations and the nested contracts over
// the built-in deserializers.
func (b *Builder[T]) buildRegistry() (*deserialize.Registry, error) {
	if len(b.errs) != 0 {
		return nil, errors.Join(b.errs...)
	}

	user, err := b.registry.Build()
	if err != nil {
		return nil, err
	}

	nested := deserialize.NewRegistry()
	schema.RegisterNested(nested, b.contract.Uses(b.contracts...), b.bindOptions()...)

	contracts, err := nested.Build()
	if err != nil {
		return nil, err
	}

	return deserialize.Chain(user, deserialize.Chain(contracts, deserialize.Defaults())), nil
}

// Effective loads every source and merges them into the single tree a bind
// reads, or nil when no source holds configuration.
func (b *Builder[T]) Effective() (node.Node, error) {
	nodes, err := source.LoadAll(b.sources)
	if err != nil {
		return nil, err
	}

	return effective(nodes), nil
}

func effective(nodes []node.Node) node.Node {
	if len(nodes) == 0 {
		return nil
	}

	return node.Materialize(node.Composite(nodes...))
}
