package services

import (
	"testing"

	"rent-etl/models"
)

func TestParseROCDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string // ISO form, "" for unparsable
	}{
		{"1130601", "2024-06-01"},
		{"0741015", "1985-10-15"},
		{"741015", "1985-10-15"}, // 6-digit form is left-padded
		{"1130601.0", "2024-06-01"},
		{"113.6.1", "2024-06-01"},
		{"113/06/01", "2024-06-01"},
		{"113年6月1日", "2024-06-01"},
		{"113-06-01", "2024-06-01"},
		{"", ""},
		{"nan", ""},
		{"NaN", ""},
		{"114133", ""},  // month 13
		{"1130632", ""}, // day 32
		{"1130230", ""}, // Feb 30 normalises, must fail
		{"捷運", ""},
	}

	for _, tt := range tests {
		got := rocDateToISO(tt.raw)
		if got != tt.want {
			t.Errorf("rocDateToISO(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestLeaseDays(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{"1130601~1140531", 364, true},
		{"1130601~1130601", 0, true},
		{"1130601~", 0, false},
		{"nan~1140531", 0, false},
		{"1130601", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := leaseDays(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("leaseDays(%q) = (%d, %v); want (%d, %v)",
				tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"1,234", 1234, true},
		{"25000", 25000, true},
		{"300.5", 300.5, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1,234,567.89", 1234567.89, true},
	}

	for _, tt := range tests {
		got, ok := parseNumber(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parseNumber(%q) = (%v, %v); want (%v, %v)",
				tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseUnitCounts(t *testing.T) {
	tests := []struct {
		raw  string
		want models.UnitCounts
	}{
		{"土地1建物1車位0", models.UnitCounts{Land: 1, Building: 1}},
		{"土地:2 建物:1 車位:0", models.UnitCounts{Land: 2, Building: 1}},
		{"車位2土地1", models.UnitCounts{Land: 1, Parking: 2}}, // any order, any subset
		{"1 1 0", models.UnitCounts{Land: 1, Building: 1}}, // positional fallback
		{"3", models.UnitCounts{Land: 3}},
		{"", models.UnitCounts{}},
		{"土地0建物0車位0", models.UnitCounts{}},
	}

	for _, tt := range tests {
		got := parseUnitCounts(tt.raw)
		if got != tt.want {
			t.Errorf("parseUnitCounts(%q) = %+v; want %+v", tt.raw, got, tt.want)
		}
	}
}

func TestParseUnitCountsLabelledWins(t *testing.T) {
	// A nonzero labelled match must win over the positional fallback.
	got := parseUnitCounts("土地1建物0車位0")
	want := models.UnitCounts{Land: 1}
	if got != want {
		t.Errorf("parseUnitCounts labelled = %+v; want %+v", got, want)
	}
}

func TestAgeYears(t *testing.T) {
	completion, _ := parseROCDate("0741015")
	transaction, _ := parseROCDate("1130601")

	if got := ageYears(completion, transaction); got != 38 {
		t.Errorf("ageYears = %d; want 38 (anniversary not yet reached)", got)
	}

	sameDay, _ := parseROCDate("1131015")
	if got := ageYears(completion, sameDay); got != 39 {
		t.Errorf("ageYears on anniversary = %d; want 39", got)
	}
}
