// Package assemble reshapes raw joined store rows into response-ready
// structures.
package assemble

import (
	"errors"
	"fmt"
	"sort"

	"github.com/klacilab/region-rankings/internal/model"
	"github.com/klacilab/region-rankings/internal/store"
)

// ErrDataIntegrity marks joined metadata that the store guarantees but did
// not deliver. It signals an upstream data problem, distinct from both
// store failures and not-found.
var ErrDataIntegrity = errors.New("joined metadata missing")

// Region denormalizes one joined row. A missing klaci section is legal
// (metadata completeness is not guaranteed); a missing province joins as
// the zero province, which the façade treats as not-found where the
// contract requires one.
func Region(row store.RegionRow) model.RegionWithDetails {
	out := model.RegionWithDetails{Region: row.Region, Klaci: row.Klaci}
	if row.Province != nil {
		out.Province = *row.Province
	}
	return out
}

// Regions maps a row set through Region, preserving order.
func Regions(rows []store.RegionRow) []model.RegionWithDetails {
	out := make([]model.RegionWithDetails, len(rows))
	for i, row := range rows {
		out[i] = Region(row)
	}
	return out
}

// KeyIndexScores flattens raw score rows. The joined metadata arrives as a
// nested container; exactly one match is expected, so the first element is
// taken and an empty container is surfaced as ErrDataIntegrity rather than
// dropped. When year is non-nil only rows of that year pass. Output is
// ordered ascending by key_index_id regardless of input row order, so two
// consecutive requests produce identical output even if the store's row
// order is not guaranteed.
func KeyIndexScores(rows []store.KeyIndexScoreRow, year *int) ([]model.KeyIndexScore, error) {
	out := make([]model.KeyIndexScore, 0, len(rows))
	for _, row := range rows {
		if year != nil && row.Year != *year {
			continue
		}
		if len(row.KeyIndexes) == 0 {
			return nil, fmt.Errorf("key index score %d (key index %d): %w",
				row.ID, row.KeyIndexID, ErrDataIntegrity)
		}
		out = append(out, model.KeyIndexScore{
			ID:         row.ID,
			RegionID:   row.RegionID,
			KeyIndexID: row.KeyIndexID,
			Score:      row.Score,
			Year:       row.Year,
			KeyIndex:   row.KeyIndexes[0],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].KeyIndexID < out[j].KeyIndexID
	})
	return out, nil
}
