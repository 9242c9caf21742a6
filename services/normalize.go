package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"rent-etl/models"
)

var (
	// rocCompactRegexp matches a concatenated ROC date: 3-digit year, 2-digit
	// month, 2-digit day (6-digit inputs are left-padded to 7 first).
	rocCompactRegexp = regexp.MustCompile(`^(\d{3})(\d{2})(\d{2})$`)
	// rocDelimitedRegexp matches separated forms like "74.10.15", "74/10/15"
	// or "74年10月15日".
	rocDelimitedRegexp = regexp.MustCompile(`^(\d{1,3})[./年-](\d{1,2})[./月-](\d{1,2})日?$`)
	// digitsOnlyRegexp guards the compact path.
	digitsOnlyRegexp = regexp.MustCompile(`^\d+$`)

	// Unit-count tokens: label optionally followed by a colon, then the count.
	landCountRegexp     = regexp.MustCompile(`土地[:：]?\s*(\d+)`)
	buildingCountRegexp = regexp.MustCompile(`建物[:：]?\s*(\d+)`)
	parkingCountRegexp  = regexp.MustCompile(`車位[:：]?\s*(\d+)`)
	numberRunRegexp     = regexp.MustCompile(`\d+`)
)

// parseROCDate parses a Republic-of-China calendar date (year offset 1911)
// in compact or delimited notation. The upstream extracts sometimes carry a
// trailing ".0" from numeric coercion; it is stripped before parsing.
func parseROCDate(text string) (time.Time, bool) {
	s := strings.TrimSpace(text)
	s = strings.TrimSuffix(s, ".0")
	if s == "" || strings.EqualFold(s, "nan") {
		return time.Time{}, false
	}

	if digitsOnlyRegexp.MatchString(s) {
		if len(s) == 6 {
			s = "0" + s
		}
		m := rocCompactRegexp.FindStringSubmatch(s)
		if m == nil {
			return time.Time{}, false
		}
		return makeROCDate(m[1], m[2], m[3])
	}

	m := rocDelimitedRegexp.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	return makeROCDate(m[1], m[2], m[3])
}

func makeROCDate(yearStr, monthStr, dayStr string) (time.Time, bool) {
	year, _ := strconv.Atoi(yearStr)
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)

	year += 1911
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalises out-of-range days (e.g. Feb 30 → Mar 2); treat
	// any normalisation as a calendar violation.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// rocDateToISO formats a parsable ROC date as "YYYY-MM-DD", or "" when the
// input is unparsable.
func rocDateToISO(text string) string {
	t, ok := parseROCDate(text)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}

// leaseDays computes the day span of a "start~end" ROC date range.
func leaseDays(rangeText string) (int, bool) {
	parts := strings.SplitN(rangeText, "~", 2)
	if len(parts) != 2 {
		return 0, false
	}
	start, ok := parseROCDate(parts[0])
	if !ok {
		return 0, false
	}
	end, ok := parseROCDate(parts[1])
	if !ok {
		return 0, false
	}
	return int(math.Round(end.Sub(start).Hours() / 24)), true
}

// parseNumber parses a decimal that may carry thousands separators.
func parseNumber(text string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseUnitCounts extracts the land/building/parking counts from the
// 租賃筆棟數 compound field, e.g. "土地1建物1車位0". When none of the three
// labels yields a nonzero count, it falls back to assigning the first three
// bare numbers positionally (some extracts use unlabelled "1 1 0" notation).
func parseUnitCounts(text string) models.UnitCounts {
	counts := models.UnitCounts{
		Land:     matchCount(landCountRegexp, text),
		Building: matchCount(buildingCountRegexp, text),
		Parking:  matchCount(parkingCountRegexp, text),
	}
	if counts.Land != 0 || counts.Building != 0 || counts.Parking != 0 {
		return counts
	}

	nums := numberRunRegexp.FindAllString(text, 3)
	for i, n := range nums {
		v, _ := strconv.Atoi(n)
		switch i {
		case 0:
			counts.Land = v
		case 1:
			counts.Building = v
		case 2:
			counts.Parking = v
		}
	}
	return counts
}

func matchCount(re *regexp.Regexp, text string) int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	v, _ := strconv.Atoi(m[1])
	return v
}

// ageYears returns the whole-year difference between the completion and
// transaction dates (floor semantics: an age of 38 years and 11 months is 38).
func ageYears(completion, transaction time.Time) int {
	years := transaction.Year() - completion.Year()
	if transaction.Month() < completion.Month() ||
		(transaction.Month() == completion.Month() && transaction.Day() < completion.Day()) {
		years--
	}
	return years
}
