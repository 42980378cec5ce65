// Package stats is the query façade over the rankings data: every public
// operation runs cache lookup → store query → assembly/ranking → cache
// population.
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/klacilab/region-rankings/internal/assemble"
	"github.com/klacilab/region-rankings/internal/cache"
	"github.com/klacilab/region-rankings/internal/cache/keys"
	"github.com/klacilab/region-rankings/internal/model"
	"github.com/klacilab/region-rankings/internal/observability"
	"github.com/klacilab/region-rankings/internal/rank"
	"github.com/klacilab/region-rankings/internal/store"
)

// ErrNotFound reports a requested single entity that does not exist, as
// opposed to a store failure.
var ErrNotFound = errors.New("not found")

const defaultPageSize = 10

type Service struct {
	logger *slog.Logger
	store  store.Client
	cache  cache.Interface
	ttl    time.Duration
}

// New wires the façade. The cache store is injected rather than ambient so
// one instance per process is an explicit decision of the caller. ttl <= 0
// falls back to the shared 300s staleness budget.
func New(logger *slog.Logger, st store.Client, c cache.Interface, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Service{logger: logger, store: st, cache: c, ttl: ttl}
}

// fromCache loads key into dst. Any cache failure degrades to a miss; the
// cache is never allowed to fail a request.
func (s *Service) fromCache(ctx context.Context, op, key string, dst any) bool {
	b, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache get failed", "op", op, "key", key, "err", err)
		observability.AddCacheMiss(op)
		return false
	}
	if !ok {
		observability.AddCacheMiss(op)
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		s.logger.Warn("cache entry undecodable", "op", op, "key", key, "err", err)
		observability.AddCacheMiss(op)
		return false
	}
	s.logger.Debug("cache hit", "op", op, "key", key)
	observability.AddCacheHit(op)
	return true
}

// toCache stores v under key; failures are logged, never propagated. The
// result being cached was already computed, so the caller still returns it.
func (s *Service) toCache(ctx context.Context, op, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("cache encode failed", "op", op, "key", key, "err", err)
		return
	}
	if err := s.cache.Set(ctx, key, b, s.ttl); err != nil {
		s.logger.Warn("cache set failed", "op", op, "key", key, "err", err)
	}
}

// GetRegions lists regions with full nested details, ordered ascending by
// name, optionally windowed by limit/offset.
func (s *Service) GetRegions(ctx context.Context, limit, offset *int) (*model.RegionsPage, error) {
	const op = "regions"
	key := keys.Key(op, keys.OptInt("limit", limit), keys.OptInt("offset", offset))

	var page model.RegionsPage
	if s.fromCache(ctx, op, key, &page) {
		return &page, nil
	}

	rows, total, err := s.store.ListRegions(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	page = model.RegionsPage{
		Data: assemble.Regions(rows),
		Meta: model.PageMeta{
			Total:  total,
			Limit:  intOr(limit, defaultPageSize),
			Offset: intOr(offset, 0),
		},
	}
	s.toCache(ctx, op, key, page)
	return &page, nil
}

// GetRegion returns one region with full nested details. A region that
// does not exist is ErrNotFound, never a store error.
func (s *Service) GetRegion(ctx context.Context, id int) (*model.RegionWithDetails, error) {
	const op = "region"
	key := keys.Key(op, keys.Int("id", id))

	var region model.RegionWithDetails
	if s.fromCache(ctx, op, key, &region) {
		return &region, nil
	}

	row, err := s.store.GetRegion(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("region %d: %w", id, ErrNotFound)
	}

	region = assemble.Region(*row)
	s.toCache(ctx, op, key, region)
	return &region, nil
}

// GetProvinceWithRegions returns a province's regions ranked by the given
// score category, or by name when category is nil, truncated to limit when
// positive. A province that does not exist yields (nil, nil): an explicit
// absence, not an error. That asymmetry with GetRegion is a deliberate
// per-operation contract carried over from the original service.
func (s *Service) GetProvinceWithRegions(ctx context.Context, provinceID int, category *rank.ScoreCategory, limit *int) ([]model.Region, error) {
	const op = "province-with-regions"
	sortToken := "name"
	if category != nil {
		sortToken = category.String()
	}
	key := keys.Key(op,
		keys.Int("id", provinceID),
		keys.String("sort", sortToken),
		keys.OptInt("limit", limit),
	)

	var cached []model.Region
	if s.fromCache(ctx, op, key, &cached) {
		return cached, nil
	}

	province, err := s.store.GetProvince(ctx, provinceID)
	if err != nil {
		return nil, err
	}
	if province == nil {
		return nil, nil
	}

	regions, err := s.store.ListRegionsByProvince(ctx, provinceID)
	if err != nil {
		return nil, err
	}

	ranked := rank.Regions(regions, category, intOr(limit, 0))
	s.toCache(ctx, op, key, ranked)
	return ranked, nil
}

// GetProvincesWithRegions returns every province with its child regions
// pre-sorted ascending by name under Korean collation.
func (s *Service) GetProvincesWithRegions(ctx context.Context) ([]model.ProvinceWithRegions, error) {
	const op = "provinces-with-regions"
	key := keys.Key(op)

	var cached []model.ProvinceWithRegions
	if s.fromCache(ctx, op, key, &cached) {
		return cached, nil
	}

	provinces, err := s.store.ListProvinces(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.ProvinceWithRegions, len(provinces))
	for i, p := range provinces {
		regions, err := s.store.ListRegionsByProvince(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		out[i] = model.ProvinceWithRegions{
			ID:      p.ID,
			Name:    p.Name,
			Regions: rank.Regions(regions, nil, 0),
		}
	}
	s.toCache(ctx, op, key, out)
	return out, nil
}

// GetRegionKeyIndexScores returns all of a region's key-index scores across
// years, ordered ascending by key_index_id.
func (s *Service) GetRegionKeyIndexScores(ctx context.Context, regionID int) ([]model.KeyIndexScore, error) {
	return s.keyIndexScores(ctx, regionID, nil)
}

// GetRegionKeyIndexScoresByYear restricts the scores to one year.
func (s *Service) GetRegionKeyIndexScoresByYear(ctx context.Context, regionID, year int) ([]model.KeyIndexScore, error) {
	return s.keyIndexScores(ctx, regionID, &year)
}

func (s *Service) keyIndexScores(ctx context.Context, regionID int, year *int) ([]model.KeyIndexScore, error) {
	const op = "region-key-index-scores"
	key := keys.Key(op, keys.Int("region", regionID), keys.OptInt("year", year))

	var cached []model.KeyIndexScore
	if s.fromCache(ctx, op, key, &cached) {
		return cached, nil
	}

	rows, err := s.store.ListKeyIndexScores(ctx, regionID, year)
	if err != nil {
		return nil, err
	}
	scores, err := assemble.KeyIndexScores(rows, year)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, op, key, scores)
	return scores, nil
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
