// Package node models weakly-typed configuration values as produced by
// parsers such as YAML or JSON loaders.
//
// A Node is one of Nil, Bool, Integer, Decimal, String, List or Map. Every
// node answers the same conversion requests (AsString, AsInteger, AsDecimal,
// AsBool, AsList, AsMap); a variant overrides only the conversions it
// supports and every other request fails with a typed message such as
// "Must be a string".
//
// Composite overlays several nodes that describe the same logical path in
// precedence-ordered sources. Index 0 has the highest priority. Map reads
// merge keys recursively so precedence holds at every depth, and a Nil in
// any layer makes the whole composite nil.
package node
