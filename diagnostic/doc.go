// Package diagnostic provides the configuration error model shared by every
// stage of binding.
//
// Key capabilities:
//   - Leaf messages and named groups forming a labeled forest
//   - Aggregation of every violation found in a single bind
//   - Severity-aware collection (errors reject a bind, warnings are reported)
//   - Human-readable rendering, both as an indented tree and as
//     path-qualified lines such as "animals.horse: Invalid horse"
package diagnostic
