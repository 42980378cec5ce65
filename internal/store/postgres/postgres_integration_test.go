package postgres

import (
	"context"
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// These tests run against a real database and are skipped unless
// TEST_DATABASE_URL is set.

func openTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := db.AutoMigrate(
		&provinceRecord{}, &klaciRecord{}, &regionRecord{},
		&keyIndexRecord{}, &keyIndexScoreRecord{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	seed := []any{
		&provinceRecord{ID: 1, Name: "경기도"},
		&klaciRecord{Code: "GTVR", Nickname: "성장선도"},
		&regionRecord{ID: 1, Name: "수원시", ProvinceID: 1, KlaciCode: "GTVR", GrowthScore: ptr(88.5)},
		&regionRecord{ID: 2, Name: "강릉시", ProvinceID: 1, KlaciCode: "SCMR"},
		&keyIndexRecord{ID: 7, Code: "KI-7", Name: "청년순유입"},
		&keyIndexScoreRecord{ID: 1, RegionID: 1, KeyIndexID: 7, Score: 71.2, Year: 2024},
	}
	for _, rec := range seed {
		if err := db.Save(rec).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM region_keyindex_scores")
		db.Exec("DELETE FROM regions")
		db.Exec("DELETE FROM key_indexes")
		db.Exec("DELETE FROM klaci_codes")
		db.Exec("DELETE FROM provinces")
	})

	return NewWithDB(db)
}

func ptr(v float64) *float64 { return &v }

func TestListRegions_JoinsAndCount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rows, total, err := s.ListRegions(ctx, nil, nil)
	if err != nil {
		t.Fatalf("ListRegions: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("total=%d rows=%d, want 2/2", total, len(rows))
	}
	for _, r := range rows {
		if r.Province == nil || r.Province.ID != 1 {
			t.Fatalf("region %d missing joined province", r.ID)
		}
	}
	// Region 2 has a code with no metadata row; the join must leave the
	// section nil without failing.
	for _, r := range rows {
		if r.ID == 1 && (r.Klaci == nil || r.Klaci.Code != "GTVR") {
			t.Fatalf("region 1 missing klaci metadata: %+v", r.Klaci)
		}
		if r.ID == 2 && r.Klaci != nil {
			t.Fatalf("region 2 has unexpected klaci metadata: %+v", r.Klaci)
		}
	}
}

func TestGetRegion_AbsentIsNilNil(t *testing.T) {
	s := openTestStore(t)

	row, err := s.GetRegion(context.Background(), 999)
	if err != nil {
		t.Fatalf("absent region must not be an error: %v", err)
	}
	if row != nil {
		t.Fatalf("expected nil row, got %+v", row)
	}
}

func TestListKeyIndexScores_YearFilterAndJoin(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	year := 2024
	rows, err := s.ListKeyIndexScores(ctx, 1, &year)
	if err != nil {
		t.Fatalf("ListKeyIndexScores: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows=%d, want 1", len(rows))
	}
	if len(rows[0].KeyIndexes) != 1 || rows[0].KeyIndexes[0].Code != "KI-7" {
		t.Fatalf("joined key index metadata wrong: %+v", rows[0].KeyIndexes)
	}

	other := 2020
	rows, err = s.ListKeyIndexScores(ctx, 1, &other)
	if err != nil || len(rows) != 0 {
		t.Fatalf("year filter leaked rows: %v err=%v", rows, err)
	}
}
