// Package rank orders homogeneous region collections deterministically.
package rank

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/klacilab/region-rankings/internal/model"
)

// ScoreCategory selects which of the four KLACI category scores drives a
// ranking.
type ScoreCategory int

const (
	Growth ScoreCategory = iota
	Economy
	Living
	Safety
)

var categoryNames = map[ScoreCategory]string{
	Growth:  "growth",
	Economy: "economy",
	Living:  "living",
	Safety:  "safety",
}

func (c ScoreCategory) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "unknown"
}

// ParseScoreCategory maps the wire token to its category. The second return
// is false for unknown tokens.
func ParseScoreCategory(s string) (ScoreCategory, bool) {
	for c, name := range categoryNames {
		if s == name {
			return c, true
		}
	}
	return 0, false
}

// scoreOf maps each category to its field accessor, keeping the four-way
// dispatch in one table instead of scattered field names.
var scoreOf = map[ScoreCategory]func(model.Region) *float64{
	Growth:  func(r model.Region) *float64 { return r.GrowthScore },
	Economy: func(r model.Region) *float64 { return r.EconomyScore },
	Living:  func(r model.Region) *float64 { return r.LivingScore },
	Safety:  func(r model.Region) *float64 { return r.SafetyScore },
}

// Regions returns the regions ordered by the given criterion, optionally
// truncated. A non-nil category sorts descending by that score; a region
// without the score ranks as 0 so incomplete data sinks to the bottom
// instead of failing. A nil category sorts ascending by name under Korean
// collation; byte-wise ordering is visibly wrong for Hangul. Ties keep
// their input order, which pagination depends on, and the input slice is
// never mutated. limit > 0 truncates after sorting; anything else returns
// all.
func Regions(regions []model.Region, category *ScoreCategory, limit int) []model.Region {
	out := make([]model.Region, len(regions))
	copy(out, regions)

	if category != nil {
		score := scoreOf[*category]
		sort.SliceStable(out, func(i, j int) bool {
			return valueOrZero(score(out[i])) > valueOrZero(score(out[j]))
		})
	} else {
		c := collate.New(language.Korean)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Name, out[j].Name) < 0
		})
	}

	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
