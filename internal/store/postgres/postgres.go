// Package postgres implements the store contract on GORM over Postgres.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/klacilab/region-rankings/internal/model"
	"github.com/klacilab/region-rankings/internal/observability"
	"github.com/klacilab/region-rankings/internal/store"
)

type Store struct {
	db *gorm.DB
}

var _ store.Client = (*Store)(nil)

// Open connects to Postgres with pool defaults sized for a small always-on
// service and a logger that surfaces slow queries.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("database dsn is required")
	}

	lg := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             100 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: lg})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return &Store{db: db}, nil
}

// NewWithDB wraps an existing gorm handle, for tests.
func NewWithDB(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("unwrap sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

type provinceRecord struct {
	ID   int `gorm:"primaryKey"`
	Name string
}

func (provinceRecord) TableName() string { return "provinces" }

type klaciRecord struct {
	Code        string `gorm:"primaryKey"`
	Nickname    string
	Type        string
	Trait       string
	Opportunity string
	Strategy    string
	Summary     string
}

func (klaciRecord) TableName() string { return "klaci_codes" }

type regionRecord struct {
	ID           int `gorm:"primaryKey"`
	Name         string
	ProvinceID   int
	DistrictType string
	WeightClass  string
	KlaciCode    string
	GrowthScore  *float64
	EconomyScore *float64
	LivingScore  *float64
	SafetyScore  *float64
	TotalScore   *float64
	TotalRank    *int

	Province *provinceRecord `gorm:"foreignKey:ProvinceID"`
	Klaci    *klaciRecord    `gorm:"foreignKey:KlaciCode;references:Code"`
}

func (regionRecord) TableName() string { return "regions" }

type keyIndexRecord struct {
	ID   int `gorm:"primaryKey"`
	Code string
	Name string
}

func (keyIndexRecord) TableName() string { return "key_indexes" }

type keyIndexScoreRecord struct {
	ID         int `gorm:"primaryKey"`
	RegionID   int
	KeyIndexID int
	Score      float64
	Year       int

	KeyIndexes []keyIndexRecord `gorm:"foreignKey:ID;references:KeyIndexID"`
}

func (keyIndexScoreRecord) TableName() string { return "region_keyindex_scores" }

func (s *Store) ListRegions(ctx context.Context, limit, offset *int) ([]store.RegionRow, int, error) {
	start := time.Now()

	var total int64
	err := s.db.WithContext(ctx).Model(&regionRecord{}).Count(&total).Error
	if err == nil {
		q := s.db.WithContext(ctx).
			Preload("Province").
			Preload("Klaci").
			Order("name asc")
		switch {
		case offset != nil:
			// Page size falls back to 10 when only an offset was given.
			pageSize := 10
			if limit != nil {
				pageSize = *limit
			}
			q = q.Limit(pageSize).Offset(*offset)
		case limit != nil:
			q = q.Limit(*limit)
		}

		var recs []regionRecord
		err = q.Find(&recs).Error
		if err == nil {
			observability.ObserveStoreQuery("list_regions", nil, time.Since(start).Seconds())
			rows := make([]store.RegionRow, len(recs))
			for i := range recs {
				rows[i] = toRegionRow(&recs[i])
			}
			return rows, int(total), nil
		}
	}
	observability.ObserveStoreQuery("list_regions", err, time.Since(start).Seconds())
	return nil, 0, fmt.Errorf("list regions: %w", err)
}

func (s *Store) GetRegion(ctx context.Context, id int) (*store.RegionRow, error) {
	start := time.Now()

	var rec regionRecord
	err := s.db.WithContext(ctx).
		Preload("Province").
		Preload("Klaci").
		First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		observability.ObserveStoreQuery("get_region", nil, time.Since(start).Seconds())
		return nil, nil
	}
	observability.ObserveStoreQuery("get_region", err, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("get region %d: %w", id, err)
	}
	row := toRegionRow(&rec)
	return &row, nil
}

func (s *Store) GetProvince(ctx context.Context, id int) (*model.Province, error) {
	start := time.Now()

	var rec provinceRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		observability.ObserveStoreQuery("get_province", nil, time.Since(start).Seconds())
		return nil, nil
	}
	observability.ObserveStoreQuery("get_province", err, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("get province %d: %w", id, err)
	}
	return &model.Province{ID: rec.ID, Name: rec.Name}, nil
}

func (s *Store) ListProvinces(ctx context.Context) ([]model.Province, error) {
	start := time.Now()

	var recs []provinceRecord
	err := s.db.WithContext(ctx).Find(&recs).Error
	observability.ObserveStoreQuery("list_provinces", err, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("list provinces: %w", err)
	}
	out := make([]model.Province, len(recs))
	for i, r := range recs {
		out[i] = model.Province{ID: r.ID, Name: r.Name}
	}
	return out, nil
}

func (s *Store) ListRegionsByProvince(ctx context.Context, provinceID int) ([]model.Region, error) {
	start := time.Now()

	var recs []regionRecord
	err := s.db.WithContext(ctx).Find(&recs, "province_id = ?", provinceID).Error
	observability.ObserveStoreQuery("list_regions_by_province", err, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("list regions for province %d: %w", provinceID, err)
	}
	out := make([]model.Region, len(recs))
	for i := range recs {
		out[i] = toRegion(&recs[i])
	}
	return out, nil
}

func (s *Store) ListKeyIndexScores(ctx context.Context, regionID int, year *int) ([]store.KeyIndexScoreRow, error) {
	start := time.Now()

	q := s.db.WithContext(ctx).
		Preload("KeyIndexes").
		Where("region_id = ?", regionID).
		Order("key_index_id asc")
	if year != nil {
		q = q.Where("year = ?", *year)
	}

	var recs []keyIndexScoreRecord
	err := q.Find(&recs).Error
	observability.ObserveStoreQuery("list_key_index_scores", err, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("list key index scores for region %d: %w", regionID, err)
	}

	out := make([]store.KeyIndexScoreRow, len(recs))
	for i, r := range recs {
		kis := make([]model.KeyIndex, len(r.KeyIndexes))
		for j, k := range r.KeyIndexes {
			kis[j] = model.KeyIndex{ID: k.ID, Code: k.Code, Name: k.Name}
		}
		out[i] = store.KeyIndexScoreRow{
			ID:         r.ID,
			RegionID:   r.RegionID,
			KeyIndexID: r.KeyIndexID,
			Score:      r.Score,
			Year:       r.Year,
			KeyIndexes: kis,
		}
	}
	return out, nil
}

func toRegion(r *regionRecord) model.Region {
	return model.Region{
		ID:           r.ID,
		Name:         r.Name,
		ProvinceID:   r.ProvinceID,
		DistrictType: r.DistrictType,
		WeightClass:  r.WeightClass,
		KlaciCode:    r.KlaciCode,
		GrowthScore:  r.GrowthScore,
		EconomyScore: r.EconomyScore,
		LivingScore:  r.LivingScore,
		SafetyScore:  r.SafetyScore,
		TotalScore:   r.TotalScore,
		TotalRank:    r.TotalRank,
	}
}

func toRegionRow(r *regionRecord) store.RegionRow {
	row := store.RegionRow{Region: toRegion(r)}
	if r.Province != nil {
		row.Province = &model.Province{ID: r.Province.ID, Name: r.Province.Name}
	}
	if r.Klaci != nil {
		row.Klaci = &model.KlaciCode{
			Code:        r.Klaci.Code,
			Nickname:    r.Klaci.Nickname,
			Type:        r.Klaci.Type,
			Trait:       r.Klaci.Trait,
			Opportunity: r.Klaci.Opportunity,
			Strategy:    r.Klaci.Strategy,
			Summary:     r.Klaci.Summary,
		}
	}
	return row
}
