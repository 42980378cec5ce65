// Package model defines the domain types served by the rankings API.
package model

// Province is the parent administrative grouping of regions.
type Province struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Region is the smallest administrative unit scored and ranked by the
// system. Score fields are pointers because not every region has completed
// scoring for every year.
type Region struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	ProvinceID   int      `json:"province_id"`
	DistrictType string   `json:"district_type"`
	WeightClass  string   `json:"weight_class"`
	KlaciCode    string   `json:"klaci_code"`
	GrowthScore  *float64 `json:"growth_score"`
	EconomyScore *float64 `json:"economy_score"`
	LivingScore  *float64 `json:"living_score"`
	SafetyScore  *float64 `json:"safety_score"`
	TotalScore   *float64 `json:"total_score"`
	TotalRank    *int     `json:"total_rank"`
}

// KlaciCode carries the metadata looked up for a region's 4-character
// classification code.
type KlaciCode struct {
	Code        string `json:"code"`
	Nickname    string `json:"nickname"`
	Type        string `json:"type"`
	Trait       string `json:"trait"`
	Opportunity string `json:"opportunity"`
	Strategy    string `json:"strategy"`
	Summary     string `json:"summary"`
}

// RegionWithDetails is the denormalized read shape: a region with its
// province and, when the metadata table has a matching row, the KLACI
// classification embedded. Klaci stays nil when no metadata matches the
// region's code; metadata completeness is not guaranteed by the store.
type RegionWithDetails struct {
	Region
	Province Province   `json:"province"`
	Klaci    *KlaciCode `json:"klaci"`
}

// PageMeta describes the window a paginated listing was computed over.
type PageMeta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// RegionsPage is the paginated regions listing response.
type RegionsPage struct {
	Data []RegionWithDetails `json:"data"`
	Meta PageMeta            `json:"meta"`
}

// ProvinceWithRegions groups a province with its child regions.
type ProvinceWithRegions struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Regions []Region `json:"regions"`
}

// KeyIndex names a statistical indicator tracked per region per year.
type KeyIndex struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// KeyIndexScore is one region's score for one key index in one year.
type KeyIndexScore struct {
	ID         int      `json:"id"`
	RegionID   int      `json:"region_id"`
	KeyIndexID int      `json:"key_index_id"`
	Score      float64  `json:"score"`
	Year       int      `json:"year"`
	KeyIndex   KeyIndex `json:"key_index"`
}
