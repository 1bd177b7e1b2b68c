// Package deserialize turns configuration nodes into typed values.
//
// Deserialization happens in two phases. Deserialize validates a node once,
// at bind time, and returns a Renderer; Render produces the value every time
// it is requested, possibly from caller-supplied arguments.
//
// A Deserializer reports invalid data with a *diagnostic.Errors. Any other
// error means the schema itself is broken (for example a type nobody can
// deserialize) and aborts binding.
//
// Deserializers are found in a Registry, either bound directly to a
// typedesc.Type or produced on demand by a Factory registered for a raw tag.
// Defaults returns the registry of built-ins: primitives, durations, lists,
// maps, optionals and fixed-length arrays.
package deserialize
