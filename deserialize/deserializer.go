package deserialize

import (
	"github.com/Sparky983/warp-config-sub000/diagnostic"
	"github.com/Sparky983/warp-config-sub000/node"
)

const msgMissing = "Must be set to a value"

// RenderContext carries the arguments of one property access.
type RenderContext struct {
	Args []any
}

// Renderer produces a deserialized value.
type Renderer[T any] interface {
	Render(ctx RenderContext) T
}

// RendererFunc adapts a function to Renderer.
type RendererFunc[T any] func(ctx RenderContext) T

// Render calls f.
func (f RendererFunc[T]) Render(ctx RenderContext) T {
	return f(ctx)
}

type static[T any] struct {
	value T
}

func (s static[T]) Render(RenderContext) T {
	return s.value
}

// Static returns a Renderer that always produces v.
func Static[T any](v T) Renderer[T] {
	return static[T]{value: v}
}

// Deserializer validates a node and prepares its value. A nil node means
// the value is absent.
type Deserializer[T any] interface {
	Deserialize(n node.Node, ctx Context) (Renderer[T], error)
}

// Func adapts a function to Deserializer.
type Func[T any] func(n node.Node, ctx Context) (Renderer[T], error)

// Deserialize calls f.
func (f Func[T]) Deserialize(n node.Node, ctx Context) (Renderer[T], error) {
	return f(n, ctx)
}

// Untyped is the type-erased form stored in a Registry.
type Untyped = Deserializer[any]

type erased[T any] struct {
	inner Deserializer[T]
}

func (e erased[T]) Deserialize(n node.Node, ctx Context) (Renderer[any], error) {
	r, err := e.inner.Deserialize(n, ctx)
	if err != nil {
		return nil, err
	}

	return RendererFunc[any](func(rc RenderContext) any {
		return r.Render(rc)
	}), nil
}

// Erase returns d as an Untyped deserializer.
func Erase[T any](d Deserializer[T]) Untyped {
	if u, ok := any(d).(Untyped); ok {
		return u
	}

	return erased[T]{inner: d}
}

type typed[T any] struct {
	inner Untyped
}

func (t typed[T]) Deserialize(n node.Node, ctx Context) (Renderer[T], error) {
	r, err := t.inner.Deserialize(n, ctx)
	if err != nil {
		return nil, err
	}

	return RendererFunc[T](func(rc RenderContext) T {
		v, _ := r.Render(rc).(T)
		return v
	}), nil
}

// Typed narrows an Untyped deserializer to T. Rendered values that are not
// a T render as the zero T.
func Typed[T any](d Untyped) Deserializer[T] {
	if t, ok := d.(Deserializer[T]); ok {
		return t
	}

	return typed[T]{inner: d}
}

// Value builds a deserializer for values that need no render arguments.
// Absent and nil nodes fail with "Must be set to a value" before conv runs.
func Value[T any](conv func(n node.Node) (T, error)) Deserializer[T] {
	return Func[T](func(n node.Node, _ Context) (Renderer[T], error) {
		if IsAbsent(n) {
			return nil, Missing()
		}

		v, err := conv(n)
		if err != nil {
			return nil, err
		}

		return Static(v), nil
	})
}

// IsAbsent reports whether n is missing or nil.
func IsAbsent(n node.Node) bool {
	return n == nil || n.IsNil()
}

// Missing returns the error reported for absent required values.
func Missing() *diagnostic.Errors {
	return diagnostic.Fail(diagnostic.New(msgMissing))
}
