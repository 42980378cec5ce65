package model

import (
	"fmt"
	"strings"
)

// KlaciDimension is one position of a parsed KLACI code: the letter chosen
// for that position and the archetype it names.
type KlaciDimension struct {
	Position  int    `json:"position"`
	Code      byte   `json:"-"`
	Letter    string `json:"code"`
	Archetype string `json:"name"`
}

// Each of the four code positions draws from a pair of opposing letters.
var klaciAlphabet = [4][2]byte{
	{'G', 'S'}, // population: growth / settled
	{'T', 'C'}, // economy: innovation / steady
	{'V', 'M'}, // living: vibrant / stagnant
	{'R', 'A'}, // safety: resilient / striving
}

var klaciArchetypes = map[byte]string{
	'G': "population-growth",
	'S': "population-settled",
	'T': "economy-innovation",
	'C': "economy-steady",
	'V': "living-vibrant",
	'M': "living-stagnant",
	'R': "safety-resilient",
	'A': "safety-striving",
}

// ParseKlaciCode validates a 4-character classification code and expands it
// into its per-position archetypes. Lowercase input is accepted and upcased.
// A code of the wrong length or with a letter outside the position's pair is
// a parse error, never truncated or coerced.
func ParseKlaciCode(code string) ([4]KlaciDimension, error) {
	var out [4]KlaciDimension

	up := strings.ToUpper(code)
	if len(up) != 4 {
		return out, fmt.Errorf("klaci code must be 4 characters, got %q", code)
	}
	for i := 0; i < 4; i++ {
		c := up[i]
		if c != klaciAlphabet[i][0] && c != klaciAlphabet[i][1] {
			return out, fmt.Errorf("invalid klaci code letter %q at position %d in %q", string(c), i, code)
		}
		out[i] = KlaciDimension{
			Position:  i,
			Code:      c,
			Letter:    string(c),
			Archetype: klaciArchetypes[c],
		}
	}
	return out, nil
}
