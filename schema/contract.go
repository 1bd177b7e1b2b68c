package schema

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/Sparky983/warp-config-sub000/typedesc"
)

// ErrInvalidContract is wrapped by every contract declaration error.
var ErrInvalidContract = errors.New("invalid configuration contract")

var pathPattern = regexp.MustCompile(`^[-\w]+(\.[-\w]+)*$`)

// Schema is a contract as seen by the Binder.
type Schema interface {
	// Name identifies the schema in logs and errors.
	Name() string
	// Type is the descriptor nested uses of the schema are registered under.
	Type() typedesc.Type
	Properties() []Property
	// Nested returns the schemas used as property types of this one.
	Nested() []Schema
	// Instantiate wraps a bound Instance into the contract's value.
	Instantiate(inst *Instance) any
}

// Contract is a validated contract producing values of T.
type Contract[T any] struct {
	name   string
	typ    typedesc.Type
	props  []Property
	nested []Schema
	build  func(*Instance) T
}

// paramChecker is implemented by parameters that constrain the Go type of
// the accessor argument they bind to.
type paramChecker interface {
	Check(rtype reflect.Type) error
}

// Define validates a contract for interface T. T must be a named,
// non-generic interface without unexported methods, and props must cover
// each of its methods exactly once with a matching result type and one
// argument per declared parameter.
func Define[T any](build func(*Instance) T, props ...Property) (*Contract[T], error) {
	rtype := reflect.TypeFor[T]()
	name := rtype.String()

	var errs []error

	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	switch {
	case rtype.Kind() != reflect.Interface:
		fail("must be an interface, got %s", rtype.Kind())
	case rtype.Name() == "":
		fail("must be a named interface")
	case strings.Contains(rtype.Name(), "["):
		fail("must not be generic")
	}

	if build == nil {
		fail("missing constructor")
	}

	if len(errs) != 0 {
		return nil, contractError(name, errs)
	}

	errs = append(errs, checkProperties(props)...)

	byMethod := make(map[string]Property, len(props))
	for _, p := range props {
		byMethod[p.Method] = p
	}

	for i := range rtype.NumMethod() {
		m := rtype.Method(i)
		if !m.IsExported() {
			fail("must not have unexported method %s", m.Name)
			continue
		}

		p, ok := byMethod[m.Name]
		if !ok {
			fail("method %s: no property declared", m.Name)
			continue
		}

		errs = append(errs, checkMethod(m, p)...)
	}

	for _, p := range props {
		if _, ok := rtype.MethodByName(p.Method); !ok {
			fail("property %s: no such method", p.Method)
		}
	}

	if len(errs) != 0 {
		return nil, contractError(name, errs)
	}

	t, err := typedesc.FromReflect(rtype)
	if err != nil {
		return nil, contractError(name, []error{err})
	}

	return &Contract[T]{name: name, typ: t, props: slices.Clone(props), build: build}, nil
}

// MustDefine is like Define but panics on an invalid contract.
func MustDefine[T any](build func(*Instance) T, props ...Property) *Contract[T] {
	c, err := Define(build, props...)
	if err != nil {
		panic(err)
	}

	return c
}

// Dynamic declares a contract without a Go interface. Its value is the
// bound *Instance itself, read with Instance.Render.
func Dynamic(name string, props ...Property) (*Contract[*Instance], error) {
	if errs := checkProperties(props); len(errs) != 0 {
		return nil, contractError(name, errs)
	}

	return &Contract[*Instance]{
		name:  name,
		typ:   typedesc.Of(typedesc.NewRaw("dynamic", name, 0)),
		props: slices.Clone(props),
		build: func(inst *Instance) *Instance { return inst },
	}, nil
}

func contractError(name string, errs []error) error {
	return fmt.Errorf("%w %s: %w", ErrInvalidContract, name, errors.Join(errs...))
}

// checkProperties validates what can be checked without a Go interface.
func checkProperties(props []Property) []error {
	var (
		errs    []error
		methods = make(map[string]bool, len(props))
		paths   = make(map[string]bool, len(props))
	)

	for _, p := range props {
		if p.err != nil {
			errs = append(errs, p.err)
			continue
		}

		if p.Method == "" {
			errs = append(errs, fmt.Errorf("property at %q: missing method name", p.Path))
		}

		if methods[p.Method] {
			errs = append(errs, fmt.Errorf("property %s: declared more than once", p.Method))
		}

		methods[p.Method] = true

		if !pathPattern.MatchString(p.Path) {
			errs = append(errs, fmt.Errorf("property %s: invalid path %q", p.Method, p.Path))
		} else if paths[p.Path] {
			errs = append(errs, fmt.Errorf("property %s: path %q used more than once", p.Method, p.Path))
		}

		paths[p.Path] = true

		if p.Type.IsZero() {
			errs = append(errs, fmt.Errorf("property %s: missing type", p.Method))
		}

		params := make(map[string]bool, len(p.Params))
		for _, param := range p.Params {
			if params[param.Name()] {
				errs = append(errs, fmt.Errorf("property %s: parameter %q declared more than once", p.Method, param.Name()))
			}

			params[param.Name()] = true
		}
	}

	return errs
}

func checkMethod(m reflect.Method, p Property) []error {
	var errs []error

	ft := m.Type
	if ft.NumIn() != len(p.Params) {
		errs = append(errs, fmt.Errorf("method %s: takes %d arguments, property declares %d parameters",
			m.Name, ft.NumIn(), len(p.Params)))
	} else {
		for i, param := range p.Params {
			if c, ok := param.(paramChecker); ok {
				if err := c.Check(ft.In(i)); err != nil {
					errs = append(errs, fmt.Errorf("method %s: parameter %q: %w", m.Name, param.Name(), err))
				}
			}
		}
	}

	if ft.IsVariadic() {
		errs = append(errs, fmt.Errorf("method %s: must not be variadic", m.Name))
	}

	if ft.NumOut() != 1 {
		errs = append(errs, fmt.Errorf("method %s: must return exactly one value", m.Name))
		return errs
	}

	out := ft.Out(0)
	if goType := p.Type.GoType(); goType != nil && goType != out {
		errs = append(errs, fmt.Errorf("method %s: returns %s, property is %s", m.Name, out, goType))
	} else if goType == nil {
		if t, err := typedesc.FromReflect(out); err != nil || !t.Equal(p.Type) {
			errs = append(errs, fmt.Errorf("method %s: returns %s, property is %s", m.Name, out, p.Type))
		}
	}

	return errs
}

// Uses returns a copy of c that binds the given schemas wherever their
// types appear as property types.
func (c *Contract[T]) Uses(nested ...Schema) *Contract[T] {
	out := *c
	out.nested = append(slices.Clone(c.nested), nested...)

	return &out
}

// Name returns the Go name of the contract interface.
func (c *Contract[T]) Name() string { return c.name }

// Type returns the descriptor of the contract interface.
func (c *Contract[T]) Type() typedesc.Type { return c.typ }

// Properties returns a copy of the declared properties.
func (c *Contract[T]) Properties() []Property { return slices.Clone(c.props) }

// Nested returns the schemas registered with Uses.
func (c *Contract[T]) Nested() []Schema { return slices.Clone(c.nested) }

// New wraps inst into a T.
func (c *Contract[T]) New(inst *Instance) T { return c.build(inst) }

// Instantiate wraps inst into a T, returned as any.
func (c *Contract[T]) Instantiate(inst *Instance) any { return c.build(inst) }
