package match

import (
	"cmp"
	"slices"
)

// Confidence thresholds for suggestions.
const (
	// DefaultMinScore is the minimum similarity for a suggestion.
	DefaultMinScore = 0.6
	// DefaultMinGap is the minimum score gap between the top two candidates.
	DefaultMinGap = 0.05
)

// Candidate is a known path scored against an unknown one.
type Candidate struct {
	Path  string
	Score float64
}

// CandidateList is a list of candidates, best first.
type CandidateList []Candidate

// RankCandidates scores every known path against unknown and sorts them by
// score, then by path for determinism.
func RankCandidates(unknown string, known []string) CandidateList {
	candidates := make(CandidateList, 0, len(known))
	for _, path := range known {
		candidates = append(candidates, Candidate{Path: path, Score: PathSimilarity(unknown, path)})
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}

		return cmp.Compare(a.Path, b.Path)
	})

	return candidates
}

// Best returns the best candidate, or nil if there are none.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// HighConfidence returns the best candidate if it scores at least minScore
// and leads the runner-up by at least minGap.
func (c CandidateList) HighConfidence(minScore, minGap float64) *Candidate {
	best := c.Best()
	if best == nil || best.Score < minScore {
		return nil
	}

	if len(c) > 1 && c[0].Score-c[1].Score < minGap {
		return nil
	}

	return best
}

// Suggest returns the known path unknown was most likely meant to be.
func Suggest(unknown string, known []string) (string, bool) {
	best := RankCandidates(unknown, known).HighConfidence(DefaultMinScore, DefaultMinGap)
	if best == nil {
		return "", false
	}

	return best.Path, true
}
