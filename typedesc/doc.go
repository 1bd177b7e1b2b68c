// Package typedesc describes configuration value types at runtime.
//
// A Type is a raw tag plus ordered type arguments, e.g. Map<String, List<Int>>.
// Types are compared structurally, so two independently built descriptions
// of the same type are interchangeable as registry keys. A Type may also carry
// the Go reflect.Type it was lowered from; that hint lets container
// deserializers build concrete Go values and never takes part in equality.
package typedesc
