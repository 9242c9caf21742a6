package services

import (
	"strings"

	"rent-etl/models"
	"rent-etl/utils"
)

// mrtCopyColumns maps proximity-dataset columns onto their output names, in
// output order. The line-flag columns follow unrenamed.
var mrtCopyColumns = []struct {
	src, dst string
}{
	{models.ColMRTX, models.ColCoordX},
	{models.ColMRTY, models.ColCoordY},
	{models.ColMRTStation, models.ColMRTStation},
	{models.ColMRTDistance, models.ColMRTDistanceM},
}

var mrtTailColumns = []string{models.ColMRTOpened, models.ColMRTRefPrice}

// Enricher left-joins cleaned rent rows against the MRT proximity dataset
// and derives the active-line and transfer-station features.
type Enricher struct {
	logger *utils.Logger
}

// NewEnricher creates an Enricher with the given logger.
func NewEnricher(logger *utils.Logger) *Enricher {
	return &Enricher{logger: logger}
}

// Enrich joins every clean row against the proximity table by trimmed 編號.
// Rows with no match get empty strings for all joined columns and are then
// removed by the reference-price filter; the join key itself never reaches
// the output.
func (e *Enricher) Enrich(clean, mrt *models.Dataset) *models.Dataset {
	lookup := make(map[string]models.Record, len(mrt.Rows))
	for _, row := range mrt.Rows {
		// last write wins on duplicate keys
		lookup[strings.TrimSpace(row[models.ColID])] = row
	}
	e.logger.Info("[enrich] Proximity table: %d keyed rows", len(lookup))

	out := &models.Dataset{Columns: e.enrichedColumns(clean.Columns)}
	dropped := 0

	for _, row := range clean.Rows {
		match := lookup[strings.TrimSpace(row[models.ColID])]

		joined := make(models.Record, len(row)+len(out.Columns))
		for col, val := range row {
			if col == models.ColID {
				continue
			}
			joined[col] = val
		}

		for _, c := range mrtCopyColumns {
			joined[c.dst] = match[c.src]
		}
		for _, line := range models.MRTLines {
			joined[line] = match[line]
		}
		for _, col := range mrtTailColumns {
			joined[col] = match[col]
		}

		active := make([]string, 0, len(models.MRTLines))
		for _, line := range models.MRTLines {
			if v, ok := parseNumber(match[line]); ok && v == 1 {
				active = append(active, line)
			}
		}
		joined[models.ColActiveLines] = strings.Join(active, ",")
		if len(active) >= 2 {
			joined[models.ColTransferOutput] = "1"
		} else {
			joined[models.ColTransferOutput] = "0"
		}

		if joined[models.ColMRTRefPrice] == "" {
			dropped++
			continue
		}
		out.Rows = append(out.Rows, joined)
	}

	e.logger.Info("[enrich] Enriched %d → %d rows (no reference price: %d)",
		len(clean.Rows), len(out.Rows), dropped)
	return out
}

// enrichedColumns is the clean column order minus the join key, followed by
// the joined and derived columns.
func (e *Enricher) enrichedColumns(cleanCols []string) []string {
	cols := make([]string, 0, len(cleanCols)+len(models.MRTLines)+8)
	for _, col := range cleanCols {
		if col != models.ColID {
			cols = append(cols, col)
		}
	}
	for _, c := range mrtCopyColumns {
		cols = append(cols, c.dst)
	}
	cols = append(cols, models.MRTLines...)
	cols = append(cols, mrtTailColumns...)
	cols = append(cols, models.ColActiveLines, models.ColTransferOutput)
	return cols
}
