package services

import "rent-etl/models"

// preferredLeadColumns is the presentation order for the most-read columns;
// everything else follows in its existing order.
var preferredLeadColumns = []string{
	models.ColDistrict,
	models.ColAddress,
	models.ColTxnDateISO,
	models.ColTotalAmount,
	models.ColUnitPrice,
	models.ColBuildingType,
	models.ColUsageBand,
	models.ColMaterialBand,
	models.ColFloorBand,
	models.ColAgeYears,
	models.ColAgeBand,
}

// Reorder projects a dataset onto the preferred column order. Purely
// cosmetic: rows are shared with the input and no value changes.
func Reorder(ds *models.Dataset) *models.Dataset {
	lead := make(map[string]struct{}, len(preferredLeadColumns))
	present := make(map[string]struct{}, len(ds.Columns))
	for _, col := range ds.Columns {
		present[col] = struct{}{}
	}

	cols := make([]string, 0, len(ds.Columns))
	for _, col := range preferredLeadColumns {
		if _, ok := present[col]; ok {
			cols = append(cols, col)
			lead[col] = struct{}{}
		}
	}
	for _, col := range ds.Columns {
		if _, ok := lead[col]; !ok {
			cols = append(cols, col)
		}
	}

	return &models.Dataset{Columns: cols, Rows: ds.Rows}
}
