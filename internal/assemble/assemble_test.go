package assemble

import (
	"errors"
	"reflect"
	"testing"

	"github.com/klacilab/region-rankings/internal/model"
	"github.com/klacilab/region-rankings/internal/store"
)

func TestRegion_EmbedsProvinceAndKlaci(t *testing.T) {
	row := store.RegionRow{
		Region:   model.Region{ID: 1, Name: "수원시", ProvinceID: 5, KlaciCode: "GTVR"},
		Province: &model.Province{ID: 5, Name: "경기도"},
		Klaci:    &model.KlaciCode{Code: "GTVR", Nickname: "성장선도"},
	}
	got := Region(row)
	if got.Province.ID != 5 || got.Province.Name != "경기도" {
		t.Fatalf("province not embedded: %+v", got.Province)
	}
	if got.Klaci == nil || got.Klaci.Nickname != "성장선도" {
		t.Fatalf("klaci not embedded: %+v", got.Klaci)
	}
}

func TestRegion_MissingKlaciMetadataIsNotAnError(t *testing.T) {
	row := store.RegionRow{
		Region:   model.Region{ID: 2, KlaciCode: "SCMR"},
		Province: &model.Province{ID: 5},
	}
	got := Region(row)
	if got.Klaci != nil {
		t.Fatalf("expected nil klaci section, got %+v", got.Klaci)
	}
}

func scoreRow(id, keyIndexID, year int, metas ...model.KeyIndex) store.KeyIndexScoreRow {
	return store.KeyIndexScoreRow{
		ID:         id,
		RegionID:   1,
		KeyIndexID: keyIndexID,
		Score:      float64(50 + id),
		Year:       year,
		KeyIndexes: metas,
	}
}

func ki(id int) model.KeyIndex {
	return model.KeyIndex{ID: id, Code: "KI", Name: "indicator"}
}

func TestKeyIndexScores_FlattensFirstMetadataMatch(t *testing.T) {
	rows := []store.KeyIndexScoreRow{
		scoreRow(1, 7, 2024, ki(7), ki(99)),
	}
	got, err := KeyIndexScores(rows, nil)
	if err != nil {
		t.Fatalf("KeyIndexScores: %v", err)
	}
	if len(got) != 1 || got[0].KeyIndex.ID != 7 {
		t.Fatalf("first metadata match not taken: %+v", got)
	}
}

func TestKeyIndexScores_EmptyMetadataIsIntegrityError(t *testing.T) {
	rows := []store.KeyIndexScoreRow{
		scoreRow(1, 7, 2024, ki(7)),
		scoreRow(2, 8, 2024), // no joined metadata
	}
	_, err := KeyIndexScores(rows, nil)
	if err == nil {
		t.Fatal("expected integrity error for empty metadata")
	}
	if !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("error not marked as data integrity: %v", err)
	}
}

func TestKeyIndexScores_YearFilterAndOrdering(t *testing.T) {
	year := 2024
	// Scrambled input order, mixed years.
	rows := []store.KeyIndexScoreRow{
		scoreRow(3, 9, 2024, ki(9)),
		scoreRow(4, 2, 2023, ki(2)),
		scoreRow(1, 4, 2024, ki(4)),
		scoreRow(2, 1, 2024, ki(1)),
	}
	got, err := KeyIndexScores(rows, &year)
	if err != nil {
		t.Fatalf("KeyIndexScores: %v", err)
	}
	var ids []int
	for _, s := range got {
		if s.Year != 2024 {
			t.Fatalf("year filter leaked year %d", s.Year)
		}
		ids = append(ids, s.KeyIndexID)
	}
	if want := []int{1, 4, 9}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("key_index_id order = %v, want %v", ids, want)
	}
}

func TestKeyIndexScores_EmptyInput(t *testing.T) {
	got, err := KeyIndexScores(nil, nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("empty in must yield empty out: %v err=%v", got, err)
	}
}
