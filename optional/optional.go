// Package optional holds a value that may be absent.
package optional

import (
	"fmt"
	"reflect"
)

// Value holds either a T or nothing. The zero Value is empty.
type Value[T any] struct {
	value T
	ok    bool
}

// Of returns a Value holding v.
func Of[T any](v T) Value[T] {
	return Value[T]{value: v, ok: true}
}

// Empty returns an empty Value.
func Empty[T any]() Value[T] {
	return Value[T]{}
}

// Get returns the held value and whether there is one.
func (v Value[T]) Get() (T, bool) {
	return v.value, v.ok
}

// IsPresent reports whether a value is held.
func (v Value[T]) IsPresent() bool {
	return v.ok
}

// OrElse returns the held value, or fallback when empty.
func (v Value[T]) OrElse(fallback T) T {
	if v.ok {
		return v.value
	}

	return fallback
}

func (v Value[T]) String() string {
	if !v.ok {
		return "Empty"
	}

	return fmt.Sprintf("Of(%v)", v.value)
}

// ElemType returns the reflect.Type of T. It works on the zero Value.
func (Value[T]) ElemType() reflect.Type {
	return reflect.TypeFor[T]()
}

// Wrap returns a Value[T] holding v, or an empty one when v is nil.
// It works on the zero Value and panics if v is not a T.
func (Value[T]) Wrap(v any) any {
	if v == nil {
		return Empty[T]()
	}

	return Of(v.(T))
}
