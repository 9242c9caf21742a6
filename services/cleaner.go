package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"rent-etl/models"
	"rent-etl/utils"
)

const (
	// Placeholder literals the registry uses instead of a real value.
	placeholderSeeOther  = "見其他登記事項"
	placeholderSeePermit = "見使用執照"
	// compoundSubjectMarker tags land-and-building package deals, which are
	// not pure dwelling rentals.
	compoundSubjectMarker = "房地"
	// maxLayoutCount guards against data-entry errors in room/hall/bath counts.
	maxLayoutCount = 100
)

// residentialRegexp is the union of known residential-use phrases; a row
// whose 主要用途 matches none of them is not a dwelling rental.
var residentialRegexp = regexp.MustCompile(
	"住家用|住宅|集合住宅|國民住宅|共同住宅|多戶住宅|雙併住宅|公寓|套房|雅房|農舍|透天厝|住宅大樓|華廈|宿舍")

// admissionGuard is one exclusion predicate: reject reports whether the row
// must be dropped with the guard's reason.
type admissionGuard struct {
	reason models.RejectionReason
	reject func(models.RawRecord) bool
}

// admissionGuards is evaluated strictly in order and the first failing guard
// wins, so a row failing several criteria is attributed exactly one reason.
// Keep this a slice: the order is part of the contract.
var admissionGuards = []admissionGuard{
	{models.RejectUsage, func(r models.RawRecord) bool {
		return !residentialRegexp.MatchString(r.Get(models.ColUsage))
	}},
	{models.RejectSubject, func(r models.RawRecord) bool {
		return strings.Contains(r.Get(models.ColSubject), compoundSubjectMarker)
	}},
	{models.RejectParking, func(r models.RawRecord) bool {
		return strings.TrimSpace(r.Get(models.ColParkingType)) != ""
	}},
	{models.RejectUnitCount, func(r models.RawRecord) bool {
		counts := parseUnitCounts(r.Get(models.ColUnitCountStr))
		return counts.Land == 0 && counts.Building == 0
	}},
	{models.RejectFloor, func(r models.RawRecord) bool {
		return strings.TrimSpace(r.Get(models.ColFloorLevel)) == placeholderSeeOther
	}},
	{models.RejectMaterial, func(r models.RawRecord) bool {
		m := strings.TrimSpace(r.Get(models.ColMaterial))
		return m == placeholderSeeOther || m == placeholderSeePermit
	}},
	{models.RejectUnitPrice, func(r models.RawRecord) bool {
		return strings.TrimSpace(r.Get(models.ColUnitPrice)) == ""
	}},
	{models.RejectCompletionDate, func(r models.RawRecord) bool {
		_, ok := parseROCDate(r.Get(models.ColCompletionDate))
		return !ok
	}},
	{models.RejectTransactionDate, func(r models.RawRecord) bool {
		_, ok := parseROCDate(r.Get(models.ColTxnDate))
		return !ok
	}},
	{models.RejectRoomCount, layoutCountTooLarge(models.ColRooms)},
	{models.RejectHallCount, layoutCountTooLarge(models.ColHalls)},
	{models.RejectBathCount, layoutCountTooLarge(models.ColBaths)},
	{models.RejectTotalAmount, func(r models.RawRecord) bool {
		_, ok := parseNumber(r.Get(models.ColTotalAmount))
		return !ok
	}},
}

func layoutCountTooLarge(col string) func(models.RawRecord) bool {
	return func(r models.RawRecord) bool {
		v, ok := parseNumber(r.Get(col))
		return ok && v > maxLayoutCount
	}
}

// admit runs the guard chain over one raw row.
func admit(row models.RawRecord) (models.RejectionReason, bool) {
	for _, g := range admissionGuards {
		if g.reject(row) {
			return g.reason, false
		}
	}
	return "", true
}

// handledColumns lists every raw column the transformer consumes or drops;
// anything else is copied through under its original name.
var handledColumns = map[string]struct{}{
	// superseded by derived columns
	models.ColTxnDate:        {},
	models.ColCompletionDate: {},
	models.ColUsage:          {},
	models.ColMaterial:       {},
	models.ColFloorLevel:     {},
	// rewritten in place
	models.ColPartition:     {},
	models.ColManagement:    {},
	models.ColFurnished:     {},
	models.ColElevator:      {},
	models.ColDoorman:       {},
	models.ColRentalForm:    {},
	models.ColRentalService: {},
	models.ColTotalAmount:   {},
	// dropped outright
	models.ColSubject:        {},
	models.ColLandArea:       {},
	models.ColZoningUrban:    {},
	models.ColZoningRural:    {},
	models.ColZoningRuralUse: {},
	models.ColUnitCountStr:   {},
	models.ColPeriodRange:    {},
	models.ColParkingType:    {},
	models.ColParkingArea:    {},
	models.ColParkingAmount:  {},
	models.ColEquipment:      {},
	models.ColRemarks:        {},
	models.ColSourceFile:     {},
}

// cleanBaseColumns is the output column order before the equipment flags.
var cleanBaseColumns = []string{
	models.ColID,
	models.ColDistrict,
	models.ColAddress,
	models.ColBuildingType,
	models.ColTotalFloors,
	models.ColFloorBand,
	models.ColUsageBand,
	models.ColMaterialBand,
	models.ColTxnDateISO,
	models.ColCompletionDateISO,
	models.ColAgeYears,
	models.ColAgeBand,
	models.ColLandCount,
	models.ColBuildingCount,
	models.ColParkingCount,
	models.ColLeaseDays,
	models.ColBuildingArea,
	models.ColRooms,
	models.ColHalls,
	models.ColBaths,
	models.ColPartition,
	models.ColManagement,
	models.ColFurnished,
	models.ColElevator,
	models.ColDoorman,
	models.ColRentalForm,
	models.ColRentalService,
	models.ColUnitPrice,
	models.ColTotalAmount,
}

// Cleaner turns raw rent-registration rows into the cleaned dataset:
// admission filtering, field normalisation and the equipment expansion.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean processes the full raw batch in two passes: first the batch-wide
// equipment vocabulary (over every row, rejected ones included), then the
// admission filter and per-row transformation against the frozen
// vocabulary. It returns the cleaned dataset and the rejection counts.
func (c *Cleaner) Clean(raw []models.RawRecord) (*models.Dataset, map[models.RejectionReason]int) {
	vocab := equipmentVocabulary(raw)
	c.logger.Info("[cleaner] Equipment vocabulary: %d distinct items", len(vocab))

	rejections := make(map[models.RejectionReason]int)
	rows := make([]models.Record, 0, len(raw))

	for _, r := range raw {
		reason, ok := admit(r)
		if !ok {
			rejections[reason]++
			c.logger.Debug("[cleaner] Dropped %s: %s", r.Get(models.ColID), reason)
			continue
		}
		rows = append(rows, c.transform(r, vocab))
	}

	c.logger.Info("[cleaner] Cleaned %d → %d rows (dropped %d)",
		len(raw), len(rows), len(raw)-len(rows))
	for _, g := range admissionGuards {
		if n := rejections[g.reason]; n > 0 {
			c.logger.Info("[cleaner]   %-40s %d", g.reason, n)
		}
	}

	return &models.Dataset{
		Columns: c.cleanColumns(rows, vocab),
		Rows:    rows,
	}, rejections
}

// transform shapes one admitted raw row into a clean record. The input row
// is never mutated; every declared column ends up populated, with "NA"
// standing in for defined-missing values.
func (c *Cleaner) transform(row models.RawRecord, vocab []string) models.Record {
	out := make(models.Record, len(cleanBaseColumns)+len(vocab))

	txn, ok := parseROCDate(row.Get(models.ColTxnDate))
	if !ok {
		panic("cleaner: admitted row has unparsable transaction date")
	}
	completion, ok := parseROCDate(row.Get(models.ColCompletionDate))
	if !ok {
		panic("cleaner: admitted row has unparsable completion date")
	}
	out[models.ColTxnDateISO] = txn.Format("2006-01-02")
	out[models.ColCompletionDateISO] = completion.Format("2006-01-02")

	age := ageYears(completion, txn)
	out[models.ColAgeYears] = strconv.Itoa(age)
	out[models.ColAgeBand] = classifyAge(age)

	counts := parseUnitCounts(row.Get(models.ColUnitCountStr))
	out[models.ColLandCount] = strconv.Itoa(counts.Land)
	out[models.ColBuildingCount] = strconv.Itoa(counts.Building)
	out[models.ColParkingCount] = strconv.Itoa(counts.Parking)

	if days, ok := leaseDays(row.Get(models.ColPeriodRange)); ok {
		out[models.ColLeaseDays] = strconv.Itoa(days)
	} else {
		out[models.ColLeaseDays] = models.NA
	}

	out[models.ColUsageBand] = classifyUsage(row.Get(models.ColUsage))
	out[models.ColMaterialBand] = classifyMaterial(row.Get(models.ColMaterial))
	out[models.ColFloorBand] = classifyFloor(row.Get(models.ColFloorLevel))

	for _, col := range []string{
		models.ColPartition, models.ColManagement, models.ColFurnished,
		models.ColElevator, models.ColDoorman,
	} {
		out[col] = yesNoFlag(row.Get(col))
	}

	out[models.ColRentalForm] = textOrNA(row.Get(models.ColRentalForm))
	out[models.ColRentalService] = textOrNA(row.Get(models.ColRentalService))

	total, ok := parseNumber(row.Get(models.ColTotalAmount))
	if !ok {
		panic("cleaner: admitted row has unparsable total amount")
	}
	out[models.ColTotalAmount] = strconv.FormatFloat(total, 'f', -1, 64)

	for col, val := range row {
		if _, handled := handledColumns[col]; handled {
			continue
		}
		out[col] = val
	}

	for item, flag := range expandEquipment(row.Get(models.ColEquipment), vocab) {
		out[models.EquipmentPrefix+item] = flag
	}

	return out
}

// cleanColumns derives the output column order: the fixed base schema, any
// extra pass-through columns the source files happened to carry, then one
// flag column per equipment vocabulary item.
func (c *Cleaner) cleanColumns(rows []models.Record, vocab []string) []string {
	cols := make([]string, 0, len(cleanBaseColumns)+len(vocab))
	known := make(map[string]struct{}, len(cleanBaseColumns))
	for _, col := range cleanBaseColumns {
		cols = append(cols, col)
		known[col] = struct{}{}
	}

	var extras []string
	for _, row := range rows {
		for col := range row {
			if _, ok := known[col]; ok || strings.HasPrefix(col, models.EquipmentPrefix) {
				continue
			}
			known[col] = struct{}{}
			extras = append(extras, col)
		}
	}
	sort.Strings(extras)
	cols = append(cols, extras...)

	for _, item := range vocab {
		cols = append(cols, models.EquipmentPrefix+item)
	}
	return cols
}

// yesNoFlag coerces the 有/無 tokens to 1/0; anything else is NA.
func yesNoFlag(text string) string {
	switch strings.TrimSpace(text) {
	case "有":
		return "1"
	case "無":
		return "0"
	default:
		return models.NA
	}
}

func textOrNA(text string) string {
	if s := strings.TrimSpace(text); s != "" {
		return s
	}
	return models.NA
}
