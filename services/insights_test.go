package services

import (
	"testing"

	"rent-etl/models"
)

func TestInsightsGenerate(t *testing.T) {
	s := NewInsightService(newTestLogger())

	ds := &models.Dataset{
		Rows: []models.Record{
			{models.ColDistrict: "中山區", models.ColUsageBand: "住宅類", models.ColTotalAmount: "15000"},
			{models.ColDistrict: "中山區", models.ColUsageBand: "住宅類", models.ColTotalAmount: "25000"},
			{models.ColDistrict: "大安區", models.ColUsageBand: "住商類", models.ColTotalAmount: "120000"},
		},
	}

	report := s.Generate(ds)

	if report.TotalRows != 3 {
		t.Errorf("TotalRows = %d; want 3", report.TotalRows)
	}
	if report.MinRent != 15000 || report.MaxRent != 120000 {
		t.Errorf("min/max rent = %.0f/%.0f; want 15000/120000", report.MinRent, report.MaxRent)
	}

	var districts models.FrequencyTable
	for _, table := range report.Frequencies {
		if table.Column == models.ColDistrict {
			districts = table
		}
	}
	if len(districts.Counts) != 2 {
		t.Fatalf("district table has %d entries; want 2", len(districts.Counts))
	}
	if districts.Counts[0].Value != "中山區" || districts.Counts[0].Count != 2 {
		t.Errorf("top district = %+v; want 中山區 ×2", districts.Counts[0])
	}

	bins := make(map[string]int)
	for _, b := range report.RentHistogram {
		bins[b.Label] = b.Count
	}
	if bins["10k-20k"] != 1 || bins["20k-30k"] != 1 || bins["≥ 100k"] != 1 {
		t.Errorf("histogram = %v; want one row each in 10k-20k, 20k-30k, ≥ 100k", bins)
	}
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	tests := []struct {
		raw  string
		max  int
		want string
	}{
		{"中山區", 18, "中山區"},
		{"住宅大樓含電梯及管理組織", 8, "住宅大樓含..."},
		{"short", 18, "short"},
	}

	for _, tt := range tests {
		got := truncate(tt.raw, tt.max)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q; want %q", tt.raw, tt.max, got, tt.want)
		}
	}
}

func TestInsightsEmptyDataset(t *testing.T) {
	s := NewInsightService(newTestLogger())
	report := s.Generate(&models.Dataset{})

	if report.TotalRows != 0 || report.AverageRent != 0 {
		t.Errorf("empty dataset report = %+v; want zero values", report)
	}
}
