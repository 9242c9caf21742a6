package services

import (
	"fmt"
	"sort"
	"strings"

	"rent-etl/models"
	"rent-etl/utils"
)

// frequencyColumns are the categorical columns profiled in the report.
var frequencyColumns = []string{
	models.ColDistrict,
	models.ColUsageBand,
	models.ColMaterialBand,
	models.ColFloorBand,
	models.ColAgeBand,
}

// rentBuckets are the monthly-rent histogram bounds (upper bound exclusive,
// last bucket open-ended).
var rentBuckets = []struct {
	label string
	upper float64
}{
	{"< 10k", 10000},
	{"10k-20k", 20000},
	{"20k-30k", 30000},
	{"30k-50k", 50000},
	{"50k-100k", 100000},
	{"≥ 100k", 0},
}

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate profiles the final dataset: one frequency table per categorical
// column and a monthly-rent histogram with basic stats.
func (s *InsightService) Generate(ds *models.Dataset) *models.InsightReport {
	report := &models.InsightReport{TotalRows: len(ds.Rows)}
	if len(ds.Rows) == 0 {
		return report
	}

	for _, col := range frequencyColumns {
		counts := make(map[string]int)
		for _, row := range ds.Rows {
			if v := row[col]; v != "" {
				counts[v]++
			}
		}
		table := models.FrequencyTable{Column: col}
		for val, n := range counts {
			table.Counts = append(table.Counts, models.CategoryCount{Value: val, Count: n})
		}
		sort.Slice(table.Counts, func(i, j int) bool {
			if table.Counts[i].Count != table.Counts[j].Count {
				return table.Counts[i].Count > table.Counts[j].Count
			}
			return table.Counts[i].Value < table.Counts[j].Value
		})
		report.Frequencies = append(report.Frequencies, table)
	}

	bins := make([]int, len(rentBuckets))
	first := true
	var total float64
	var priced int
	for _, row := range ds.Rows {
		rent, ok := parseNumber(row[models.ColTotalAmount])
		if !ok || rent <= 0 {
			continue
		}
		priced++
		total += rent
		if first || rent < report.MinRent {
			report.MinRent = rent
		}
		if first || rent > report.MaxRent {
			report.MaxRent = rent
		}
		first = false

		placed := false
		for i, b := range rentBuckets[:len(rentBuckets)-1] {
			if rent < b.upper {
				bins[i]++
				placed = true
				break
			}
		}
		if !placed {
			bins[len(rentBuckets)-1]++
		}
	}
	if priced > 0 {
		report.AverageRent = round2(total / float64(priced))
	}
	for i, b := range rentBuckets {
		report.RentHistogram = append(report.RentHistogram,
			models.HistogramBin{Label: b.label, Count: bins[i]})
	}

	return report
}

// Print renders the report to the terminal.
func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 RENT DATASET PROFILE\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total rows : \033[1m%d\033[0m\n", r.TotalRows)
	fmt.Println()

	fmt.Printf("\033[1;33m  Monthly Rent (NT$)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.AverageRent > 0 {
		fmt.Printf("  Average : \033[1;32m%.2f\033[0m\n", r.AverageRent)
		fmt.Printf("  Minimum : \033[1;32m%.2f\033[0m\n", r.MinRent)
		fmt.Printf("  Maximum : \033[1;32m%.2f\033[0m\n", r.MaxRent)
		fmt.Println()
		for _, bin := range r.RentHistogram {
			bar := strings.Repeat("█", scaleBar(bin.Count, r.TotalRows))
			fmt.Printf("  %-10s %s (%d)\n", bin.Label, bar, bin.Count)
		}
	} else {
		fmt.Printf("  No rent data available\n")
	}
	fmt.Println()

	for _, table := range r.Frequencies {
		fmt.Printf("\033[1;33m  %s\033[0m\n", table.Column)
		fmt.Printf("  %s\n", thin)
		if len(table.Counts) == 0 {
			fmt.Printf("  No data\n")
		}
		for _, cc := range table.Counts {
			bar := strings.Repeat("█", scaleBar(cc.Count, r.TotalRows))
			fmt.Printf("  %-20s %s (%d)\n", truncate(cc.Value, 18), bar, cc.Count)
		}
		fmt.Println()
	}

	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)
}

// scaleBar keeps histogram bars readable regardless of batch size.
func scaleBar(count, total int) int {
	if total <= 0 || count <= 0 {
		return 0
	}
	width := count * 40 / total
	if width == 0 {
		width = 1
	}
	return width
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

// truncate shortens s to max runes; category values mix ASCII and Chinese,
// so byte slicing would split a character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
