// Package source loads configuration layers into node trees.
//
// A Source is loaded once per bind. Sources are supplied highest priority
// first; a source that yields a nil node holds no configuration and is
// skipped. Scalars from untyped text (environment variables, SQL rows) are
// classified the way an unquoted YAML scalar would be, so "8080" is an
// integer and "true" a boolean.
package source
