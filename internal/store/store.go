// Package store declares the read contract against the authoritative
// relational store. The core only issues reads; schema ownership,
// referential integrity and writes all live upstream.
package store

import (
	"context"

	"github.com/klacilab/region-rankings/internal/model"
)

// RegionRow is one joined row for a region: the region columns plus the
// nested province and, when the metadata table has a matching row, the
// KLACI classification. Either nested section may be nil when the join
// found nothing; callers decide what that means.
type RegionRow struct {
	model.Region
	Province *model.Province
	Klaci    *model.KlaciCode
}

// KeyIndexScoreRow is one raw joined row for a key-index score. The joined
// metadata arrives as a slice because the store reports the join as a
// nested multi-element container; exactly one element is expected and the
// assembler enforces that.
type KeyIndexScoreRow struct {
	ID         int
	RegionID   int
	KeyIndexID int
	Score      float64
	Year       int
	KeyIndexes []model.KeyIndex
}

// Client executes the read queries the façade needs. Every method honors
// ctx and returns the store's failure unchanged; single-entity lookups
// report absence as (nil, nil) rather than an error so callers can
// distinguish not-found from a store failure.
type Client interface {
	// ListRegions returns joined region rows ordered ascending by name,
	// optionally windowed, plus the unwindowed total. A nil limit with a
	// non-nil offset computes the window with a page size of 10.
	ListRegions(ctx context.Context, limit, offset *int) ([]RegionRow, int, error)

	// GetRegion returns one joined region row, or (nil, nil) if absent.
	GetRegion(ctx context.Context, id int) (*RegionRow, error)

	// GetProvince returns one province, or (nil, nil) if absent.
	GetProvince(ctx context.Context, id int) (*model.Province, error)

	// ListProvinces returns all provinces.
	ListProvinces(ctx context.Context) ([]model.Province, error)

	// ListRegionsByProvince returns a province's regions with core score
	// columns only, unjoined.
	ListRegionsByProvince(ctx context.Context, provinceID int) ([]model.Region, error)

	// ListKeyIndexScores returns a region's key-index score rows joined
	// with key-index metadata, ordered ascending by key_index_id,
	// optionally filtered to one year.
	ListKeyIndexScores(ctx context.Context, regionID int, year *int) ([]KeyIndexScoreRow, error)
}
