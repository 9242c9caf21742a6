package services

import (
	"sort"
	"strconv"
	"strings"

	"rent-etl/models"
)

// Floor-level buckets.
const (
	floorBasement = "地下樓層"
	floorLow      = "低樓層"
	floorMid      = "中樓層"
	floorHigh     = "高樓層"
	floorWhole    = "整棟"
)

// usageGroups maps usage text onto one of the fixed categories. Order
// matters: several vocabularies can match the same text and the first group
// wins, so this is a slice, never a map.
var usageGroups = []struct {
	label string
	vocab []string
}{
	{"住宅類", []string{
		"住家用", "住宅", "集合住宅", "國民住宅", "共同住宅", "多戶住宅",
		"雙併住宅", "公寓", "套房", "雅房", "農舍", "透天厝", "住宅大樓",
		"華廈", "宿舍",
	}},
	{"住商類", []string{"住商用", "住辦用", "住商", "住辦"}},
	{"商業類", []string{"商業用", "辦公", "店鋪", "店舖", "事務所", "旅館", "零售"}},
	{"工業類", []string{"工業用", "廠房", "倉庫", "工廠", "工業"}},
	{"其他類", []string{
		"醫院", "診所", "學校", "幼稚園", "托兒所", "社會福利", "安養",
		"捷運", "電信", "加油站",
	}},
}

// materialGroups maps construction-material text onto a material family,
// first match wins.
var materialGroups = []struct {
	label string
	vocab []string
}{
	{"鋼筋混凝土類", []string{"鋼筋混凝土", "預力混凝土", "鋼骨混凝土", "RC", "SRC"}},
	{"加強磚造造類", []string{"加強磚造", "磚造", "磚石造", "石造"}},
	{"鋼骨類", []string{"鋼骨", "鋼構", "鐵骨", "鐵架"}},
	{"木竹造類", []string{"木造", "竹造", "木石造", "土木造"}},
}

var chineseDigits = map[rune]int{
	'〇': 0, '零': 0, '一': 1, '二': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

// classifyFloor buckets a raw 租賃層次 value. Basement prefixes produce a
// negative level, whole-building literals form their own category, and
// anything unreadable maps to NA.
func classifyFloor(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return models.NA
	}
	if s == "全" || s == "整棟" || s == "全棟" {
		return floorWhole
	}

	s = strings.TrimSuffix(s, "層")
	negative := false
	if rest, ok := strings.CutPrefix(s, "地下"); ok {
		negative = true
		s = rest
		if s == "" {
			s = "一"
		}
	}

	level, ok := parseFloorNumber(s)
	if !ok {
		return models.NA
	}
	if negative {
		level = -level
	}

	switch {
	case level < 0:
		return floorBasement
	case level <= 10:
		return floorLow
	case level <= 20:
		return floorMid
	default:
		return floorHigh
	}
}

// parseFloorNumber reads a floor ordinal in the 0–99 range, written either
// with ASCII digits or Chinese numerals (十 as the tens marker).
func parseFloorNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if digitsOnlyRegexp.MatchString(s) {
		n, err := strconv.Atoi(s)
		if err != nil || n > 99 {
			return 0, false
		}
		return n, true
	}

	runes := []rune(s)
	tens := -1
	for i, r := range runes {
		if r == '十' {
			if tens >= 0 {
				return 0, false
			}
			tens = i
			continue
		}
		if _, ok := chineseDigits[r]; !ok {
			return 0, false
		}
	}

	if tens < 0 {
		if len(runes) != 1 {
			return 0, false
		}
		return chineseDigits[runes[0]], true
	}

	n := 10
	if tens > 0 {
		if tens != 1 {
			return 0, false
		}
		n = chineseDigits[runes[0]] * 10
	}
	switch len(runes) - tens - 1 {
	case 0:
	case 1:
		n += chineseDigits[runes[tens+1]]
	default:
		return 0, false
	}
	return n, true
}

// classifyUsage maps raw 主要用途 text onto a usage category. Empty text is
// its own "unknown" category; non-empty text matching no vocabulary is NA.
func classifyUsage(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return "未知類"
	}
	for _, g := range usageGroups {
		for _, word := range g.vocab {
			if strings.Contains(s, word) {
				return g.label
			}
		}
	}
	return models.NA
}

// classifyMaterial maps raw 主要建材 text onto a material family.
func classifyMaterial(text string) string {
	s := strings.TrimSpace(text)
	for _, g := range materialGroups {
		for _, word := range g.vocab {
			if strings.Contains(s, word) {
				return g.label
			}
		}
	}
	return models.NA
}

// classifyAge buckets a building age in whole years. Upper bounds are
// inclusive: 5 is still 5年以下, 6 falls into 5-10年.
func classifyAge(years int) string {
	switch {
	case years < 0:
		return models.NA
	case years <= 5:
		return "5年以下"
	case years <= 10:
		return "5-10年"
	case years <= 20:
		return "10-20年"
	case years <= 30:
		return "20-30年"
	case years <= 40:
		return "30-40年"
	default:
		return "40年以上"
	}
}

// splitEquipment tokenises a raw 附屬設備 list on the delimiters the source
// files use interchangeably.
func splitEquipment(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '、' || r == ',' || r == '，'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// equipmentVocabulary computes the batch-wide equipment item set: the union
// of every token seen in any raw row, sorted for a stable column order. It
// must run over the full corpus before any row is transformed — admission
// rejections do not shrink the vocabulary.
func equipmentVocabulary(rows []models.RawRecord) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for _, item := range splitEquipment(row.Get(models.ColEquipment)) {
			seen[item] = struct{}{}
		}
	}
	vocab := make([]string, 0, len(seen))
	for item := range seen {
		vocab = append(vocab, item)
	}
	sort.Strings(vocab)
	return vocab
}

// expandEquipment projects one row's equipment list onto the closed batch
// vocabulary as dense 0/1 flags.
func expandEquipment(text string, vocab []string) map[string]string {
	present := make(map[string]struct{})
	for _, item := range splitEquipment(text) {
		present[item] = struct{}{}
	}
	flags := make(map[string]string, len(vocab))
	for _, item := range vocab {
		if _, ok := present[item]; ok {
			flags[item] = "1"
		} else {
			flags[item] = "0"
		}
	}
	return flags
}
