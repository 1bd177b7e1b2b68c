// Package match ranks known configuration paths by their similarity to an
// unknown one, to produce "did you mean" hints.
//
// Key functions:
//   - NormalizePath: folds case and separators per path segment
//   - Levenshtein: computes edit distance between strings
//   - RankCandidates: ranks known paths against an unknown path
//   - Suggest: picks a single confident suggestion
package match
