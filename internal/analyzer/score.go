// Package analyzer derives a deterministic performance assessment from a
// raw SQL string. No parsing, no query plans: an ordered table of pattern
// rules, each with a fixed penalty off a baseline of 100.
package analyzer

import (
	"regexp"
	"strings"
)

type Rating string

const (
	RatingExcellent Rating = "Excellent"
	RatingGood      Rating = "Good"
	RatingFair      Rating = "Fair"
	RatingPoor      Rating = "Poor"
	RatingCritical  Rating = "Critical"
)

// Config carries the tunable parts of the rule set. The zero value
// disables the unindexed-field rule (no convention configured).
type Config struct {
	IndexedColumns      []string
	UnindexedPenalty    int
	UnindexedPenaltyCap int
}

// Assessment is computed fresh per request and never cached.
type Assessment struct {
	Score       int      `json:"score"`
	Rating      Rating   `json:"rating"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

var whitespace = regexp.MustCompile(`\s+`)

// normalize lowercases and collapses all whitespace runs to single
// spaces, so detection is insensitive to case and formatting.
func normalize(sql string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(sql)), " ")
}

// Score evaluates every rule independently and sums the penalties.
// Rule order never changes the score, only the order of the issue list.
func Score(sql string, cfg Config) Assessment {
	norm := normalize(sql)
	if norm == "" {
		return Assessment{
			Score:  0,
			Rating: RatingCritical,
			Issues: []string{"empty query"},
		}
	}

	a := Assessment{Score: 100}
	for _, r := range rules {
		f := r.evaluate(norm, cfg)
		if f.penalty == 0 && len(f.issues) == 0 {
			continue
		}
		a.Score -= f.penalty
		a.Issues = append(a.Issues, f.issues...)
		if r.suggestion != "" {
			a.Suggestions = append(a.Suggestions, r.suggestion)
		}
	}

	if a.Score < 0 {
		a.Score = 0
	}
	if a.Score > 100 {
		a.Score = 100
	}
	a.Rating = RatingFor(a.Score)
	return a
}

// RatingFor maps a clamped score onto the fixed qualitative bands.
func RatingFor(score int) Rating {
	switch {
	case score >= 90:
		return RatingExcellent
	case score >= 70:
		return RatingGood
	case score >= 50:
		return RatingFair
	case score >= 30:
		return RatingPoor
	default:
		return RatingCritical
	}
}
