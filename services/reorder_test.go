package services

import (
	"reflect"
	"testing"

	"rent-etl/models"
)

func TestReorderIsPurelyCosmetic(t *testing.T) {
	ds := &models.Dataset{
		Columns: []string{"附屬設備-電視", models.ColTotalAmount, models.ColDistrict, "其他欄位"},
		Rows: []models.Record{
			{models.ColDistrict: "中山區", models.ColTotalAmount: "25000", "附屬設備-電視": "1", "其他欄位": "x"},
		},
	}

	out := Reorder(ds)

	want := []string{models.ColDistrict, models.ColTotalAmount, "附屬設備-電視", "其他欄位"}
	if !reflect.DeepEqual(out.Columns, want) {
		t.Errorf("columns = %v; want %v", out.Columns, want)
	}

	// rows are shared, values untouched
	if len(out.Rows) != 1 || !reflect.DeepEqual(out.Rows[0], ds.Rows[0]) {
		t.Error("Reorder must not touch row values")
	}
}
