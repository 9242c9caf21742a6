package services

import (
	"reflect"
	"testing"

	"rent-etl/models"
	"rent-etl/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

// validRawRow is an admissible dwelling-rental row; individual tests break
// one field at a time.
func validRawRow() models.RawRecord {
	return models.RawRecord{
		models.ColID:             "RPQNMLOJKHPFFHA87CA",
		models.ColDistrict:       "中山區",
		models.ColAddress:        "臺北市中山區南京東路二段",
		models.ColSubject:        "建物",
		models.ColUsage:          "住宅",
		models.ColBuildingType:   "住宅大樓(11層含以上有電梯)",
		models.ColTotalFloors:    "十二層",
		models.ColFloorLevel:     "5層",
		models.ColMaterial:       "加強磚造",
		models.ColUnitCountStr:   "土地1建物1車位0",
		models.ColTxnDate:        "1130601",
		models.ColCompletionDate: "0741015",
		models.ColPeriodRange:    "1130601~1140531",
		models.ColBuildingArea:   "86.5",
		models.ColRooms:          "2",
		models.ColHalls:          "1",
		models.ColBaths:          "1",
		models.ColPartition:      "有",
		models.ColManagement:     "無",
		models.ColFurnished:      "有",
		models.ColElevator:       "無",
		models.ColDoorman:        "",
		models.ColRentalForm:     "",
		models.ColRentalService:  "",
		models.ColUnitPrice:      "300000",
		models.ColTotalAmount:    "25000",
		models.ColParkingType:    "",
		models.ColEquipment:      "電視、冰箱",
		models.ColRemarks:        "",
		models.ColSourceFile:     "113S2_a_lvr_land_c.csv",
	}
}

func TestAdmitAcceptsValidRow(t *testing.T) {
	reason, ok := admit(validRawRow())
	if !ok {
		t.Fatalf("valid row rejected with reason %q", reason)
	}
}

func TestAdmitRejectionReasons(t *testing.T) {
	tests := []struct {
		name   string
		col    string
		value  string
		reason models.RejectionReason
	}{
		{"non-residential usage", models.ColUsage, "商業用", models.RejectUsage},
		{"compound subject", models.ColSubject, "房地(土地+建物)", models.RejectSubject},
		{"parking info", models.ColParkingType, "坡道平面", models.RejectParking},
		{"zero units", models.ColUnitCountStr, "土地0建物0車位0", models.RejectUnitCount},
		{"floor placeholder", models.ColFloorLevel, "見其他登記事項", models.RejectFloor},
		{"material placeholder", models.ColMaterial, "見使用執照", models.RejectMaterial},
		{"empty unit price", models.ColUnitPrice, "", models.RejectUnitPrice},
		{"bad completion date", models.ColCompletionDate, "nan", models.RejectCompletionDate},
		{"bad transaction date", models.ColTxnDate, "", models.RejectTransactionDate},
		{"huge room count", models.ColRooms, "150", models.RejectRoomCount},
		{"huge hall count", models.ColHalls, "101", models.RejectHallCount},
		{"huge bath count", models.ColBaths, "999", models.RejectBathCount},
		{"bad total amount", models.ColTotalAmount, "面議", models.RejectTotalAmount},
	}

	for _, tt := range tests {
		row := validRawRow()
		row[tt.col] = tt.value

		reason, ok := admit(row)
		if ok {
			t.Errorf("%s: row admitted, want rejection %q", tt.name, tt.reason)
			continue
		}
		if reason != tt.reason {
			t.Errorf("%s: reason = %q; want %q", tt.name, reason, tt.reason)
		}
	}
}

func TestAdmitFirstFailingGuardWins(t *testing.T) {
	// Ambiguous floor and empty unit price both apply; the floor guard runs
	// first and must be the attributed reason.
	row := validRawRow()
	row[models.ColFloorLevel] = "見其他登記事項"
	row[models.ColUnitPrice] = ""

	reason, ok := admit(row)
	if ok {
		t.Fatal("row admitted, want rejection")
	}
	if reason != models.RejectFloor {
		t.Errorf("reason = %q; want %q", reason, models.RejectFloor)
	}
}

func TestAdmitIsIdempotent(t *testing.T) {
	row := validRawRow()
	row[models.ColMaterial] = "見其他登記事項"

	r1, ok1 := admit(row)
	r2, ok2 := admit(row)
	if r1 != r2 || ok1 != ok2 {
		t.Errorf("admit not stable: (%q,%v) then (%q,%v)", r1, ok1, r2, ok2)
	}
}

func TestCleanEndToEnd(t *testing.T) {
	c := NewCleaner(newTestLogger())
	ds, rejections := c.Clean([]models.RawRecord{validRawRow()})

	if len(rejections) != 0 {
		t.Fatalf("unexpected rejections: %v", rejections)
	}
	if len(ds.Rows) != 1 {
		t.Fatalf("expected 1 clean row, got %d", len(ds.Rows))
	}

	row := ds.Rows[0]
	want := map[string]string{
		models.ColTxnDateISO:        "2024-06-01",
		models.ColCompletionDateISO: "1985-10-15",
		models.ColAgeYears:          "38",
		models.ColAgeBand:           "30-40年",
		models.ColFloorBand:         floorLow,
		models.ColUsageBand:         "住宅類",
		models.ColMaterialBand:      "加強磚造造類",
		models.ColLandCount:         "1",
		models.ColBuildingCount:     "1",
		models.ColParkingCount:      "0",
		models.ColLeaseDays:         "364",
		models.ColTotalAmount:       "25000",
		models.ColPartition:         "1",
		models.ColManagement:        "0",
		models.ColFurnished:         "1",
		models.ColElevator:          "0",
		models.ColDoorman:           models.NA,
		models.ColRentalForm:        models.NA,
		models.ColRentalService:     models.NA,
		models.ColDistrict:          "中山區",
		models.ColUnitPrice:         "300000",
	}
	want[models.EquipmentPrefix+"電視"] = "1"
	want[models.EquipmentPrefix+"冰箱"] = "1"
	for col, w := range want {
		if row[col] != w {
			t.Errorf("%s = %q; want %q", col, row[col], w)
		}
	}

	// dropped raw fields must not leak through
	for _, col := range []string{
		models.ColSubject, models.ColUnitCountStr, models.ColPeriodRange,
		models.ColEquipment, models.ColParkingType, models.ColSourceFile,
		models.ColUsage, models.ColMaterial, models.ColFloorLevel,
		models.ColTxnDate, models.ColCompletionDate,
	} {
		if _, leaked := row[col]; leaked {
			t.Errorf("raw column %q leaked into clean record", col)
		}
	}

	// every declared column is populated
	for _, col := range ds.Columns {
		if _, ok := row[col]; !ok {
			t.Errorf("column %q missing from clean record", col)
		}
	}
}

func TestCleanVocabularyIncludesRejectedRows(t *testing.T) {
	c := NewCleaner(newTestLogger())

	rejected := validRawRow()
	rejected[models.ColUsage] = "商業用"
	rejected[models.ColEquipment] = "洗衣機"

	ds, rejections := c.Clean([]models.RawRecord{validRawRow(), rejected})

	if rejections[models.RejectUsage] != 1 {
		t.Fatalf("rejections = %v; want one usage rejection", rejections)
	}
	if len(ds.Rows) != 1 {
		t.Fatalf("expected 1 clean row, got %d", len(ds.Rows))
	}

	// The vocabulary is built before admission, so the rejected row's item
	// still yields a column — set to 0 on the surviving row.
	col := models.EquipmentPrefix + "洗衣機"
	found := false
	for _, name := range ds.Columns {
		if name == col {
			found = true
		}
	}
	if !found {
		t.Fatalf("column %q missing: vocabulary must cover rejected rows", col)
	}
	if ds.Rows[0][col] != "0" {
		t.Errorf("%s = %q; want %q", col, ds.Rows[0][col], "0")
	}
}

func TestCleanDoesNotMutateInput(t *testing.T) {
	c := NewCleaner(newTestLogger())
	row := validRawRow()
	snapshot := make(models.RawRecord, len(row))
	for k, v := range row {
		snapshot[k] = v
	}

	c.Clean([]models.RawRecord{row})

	if !reflect.DeepEqual(row, snapshot) {
		t.Error("Clean mutated its input row")
	}
}

func TestCleanColumnCountIsUniform(t *testing.T) {
	c := NewCleaner(newTestLogger())

	second := validRawRow()
	second[models.ColID] = "RPQNMLOJKHPFFHA88CB"
	second[models.ColEquipment] = "" // no equipment at all

	ds, _ := c.Clean([]models.RawRecord{validRawRow(), second})
	if len(ds.Rows) != 2 {
		t.Fatalf("expected 2 clean rows, got %d", len(ds.Rows))
	}
	if len(ds.Rows[0]) != len(ds.Rows[1]) {
		t.Errorf("field counts differ: %d vs %d", len(ds.Rows[0]), len(ds.Rows[1]))
	}
}
