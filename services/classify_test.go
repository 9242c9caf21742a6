package services

import (
	"reflect"
	"testing"

	"rent-etl/models"
)

func TestClassifyFloor(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"3層", floorLow},
		{"五層", floorLow},
		{"十層", floorLow},
		{"十一層", floorMid},
		{"二十層", floorMid},
		{"二十一層", floorHigh},
		{"三十五層", floorHigh},
		{"地下1層", floorBasement},
		{"地下一層", floorBasement},
		{"地下層", floorBasement},
		{"全", floorWhole},
		{"整棟", floorWhole},
		{"", models.NA},
		{"見其他登記事項", models.NA},
		{"陽台", models.NA},
	}

	for _, tt := range tests {
		got := classifyFloor(tt.raw)
		if got != tt.want {
			t.Errorf("classifyFloor(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestClassifyUsage(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"住家用", "住宅類"},
		{"集合住宅", "住宅類"},
		{"住商用", "住商類"},
		{"商業用", "商業類"},
		{"辦公室", "商業類"},
		{"工業用", "工業類"},
		{"醫院", "其他類"},
		{"", "未知類"},
		{"停車空間", models.NA}, // non-empty, matches nothing
	}

	for _, tt := range tests {
		got := classifyUsage(tt.raw)
		if got != tt.want {
			t.Errorf("classifyUsage(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestClassifyUsageOrderIsStable(t *testing.T) {
	// 住商用 contains both a residential and a commercial looking token;
	// the earlier group must win.
	if got := classifyUsage("住商用住宅"); got != "住宅類" {
		t.Errorf("classifyUsage mixed text = %q; want 住宅類 (first group wins)", got)
	}
}

func TestClassifyMaterial(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"鋼筋混凝土造", "鋼筋混凝土類"},
		{"加強磚造", "加強磚造造類"},
		{"磚造", "加強磚造造類"},
		{"鋼骨造", "鋼骨類"},
		{"木造", "木竹造類"},
		{"", models.NA},
		{"土造", models.NA},
	}

	for _, tt := range tests {
		got := classifyMaterial(tt.raw)
		if got != tt.want {
			t.Errorf("classifyMaterial(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestClassifyAge(t *testing.T) {
	tests := []struct {
		years int
		want  string
	}{
		{-1, models.NA},
		{0, "5年以下"},
		{5, "5年以下"}, // inclusive upper bound
		{6, "5-10年"},
		{10, "5-10年"},
		{11, "10-20年"},
		{20, "10-20年"},
		{30, "20-30年"},
		{38, "30-40年"},
		{40, "30-40年"},
		{41, "40年以上"},
	}

	for _, tt := range tests {
		got := classifyAge(tt.years)
		if got != tt.want {
			t.Errorf("classifyAge(%d) = %q; want %q", tt.years, got, tt.want)
		}
	}
}

func TestEquipmentVocabularyAndExpand(t *testing.T) {
	rows := []models.RawRecord{
		{models.ColEquipment: "電視、冰箱、冷氣"},
		{models.ColEquipment: "冷氣,熱水器"},
		{models.ColEquipment: "洗衣機，冷氣"},
		{models.ColEquipment: ""},
	}

	vocab := equipmentVocabulary(rows)
	want := []string{"冰箱", "冷氣", "洗衣機", "熱水器", "電視"}
	if !reflect.DeepEqual(vocab, want) {
		t.Fatalf("equipmentVocabulary = %v; want %v", vocab, want)
	}

	flags := expandEquipment("電視、冷氣", vocab)
	for item, wantFlag := range map[string]string{
		"電視": "1", "冷氣": "1", "冰箱": "0", "洗衣機": "0", "熱水器": "0",
	} {
		if flags[item] != wantFlag {
			t.Errorf("expandEquipment[%q] = %q; want %q", item, flags[item], wantFlag)
		}
	}
}
