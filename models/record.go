package models

// RawRecord holds one unprocessed row as read from a source CSV file,
// keyed by column name. A column missing from the file simply has no key;
// Get reports it as the empty string, never as an error.
type RawRecord map[string]string

// Get returns the cell text for a column, or "" when absent.
func (r RawRecord) Get(col string) string { return r[col] }

// Record is one cleaned (or enriched) row, keyed by canonical column name.
// Values are printable text: an ISO date, a decimal number, a category
// label, a 0/1 flag, or the literal "NA" sentinel. Empty string only ever
// appears in enrichment columns for rows that found no join match.
type Record map[string]string

// Dataset is a batch of records sharing one column set. Every row carries
// a value for every column in Columns.
type Dataset struct {
	Columns []string
	Rows    []Record
}

// NA is the sentinel written for defined-missing values, as opposed to
// zero or empty string.
const NA = "NA"

// UnitCounts is the parsed land/building/parking triple from the
// 租賃筆棟數 compound field.
type UnitCounts struct {
	Land     int
	Building int
	Parking  int
}

// RejectionReason identifies why the admission filter dropped a raw row.
// Exactly one reason is attributed per rejected row: the filter
// short-circuits on the first failing guard.
type RejectionReason string

const (
	RejectUsage           RejectionReason = "usage not residential"
	RejectSubject         RejectionReason = "compound land-and-building transaction"
	RejectParking         RejectionReason = "parking info present"
	RejectUnitCount       RejectionReason = "no land or building units"
	RejectFloor           RejectionReason = "ambiguous floor level"
	RejectMaterial        RejectionReason = "ambiguous main material"
	RejectUnitPrice       RejectionReason = "empty unit price"
	RejectCompletionDate  RejectionReason = "unparsable completion date"
	RejectTransactionDate RejectionReason = "unparsable transaction date"
	RejectRoomCount       RejectionReason = "room count out of range"
	RejectHallCount       RejectionReason = "hall count out of range"
	RejectBathCount       RejectionReason = "bath count out of range"
	RejectTotalAmount     RejectionReason = "unparsable total amount"
)

// Source CSV column names (rent registration extract).
const (
	ColID             = "編號"
	ColDistrict       = "鄉鎮市區"
	ColSubject        = "交易標的"
	ColAddress        = "土地位置建物門牌"
	ColLandArea       = "土地面積平方公尺"
	ColZoningUrban    = "都市土地使用分區"
	ColZoningRural    = "非都市土地使用分區"
	ColZoningRuralUse = "非都市土地使用編定"
	ColTxnDate        = "租賃年月日"
	ColUnitCountStr   = "租賃筆棟數"
	ColFloorLevel     = "租賃層次"
	ColTotalFloors    = "總樓層數"
	ColBuildingType   = "建物型態"
	ColUsage          = "主要用途"
	ColMaterial       = "主要建材"
	ColCompletionDate = "建築完成年月"
	ColBuildingArea   = "建物總面積平方公尺"
	ColRooms          = "建物現況格局-房"
	ColHalls          = "建物現況格局-廳"
	ColBaths          = "建物現況格局-衛"
	ColPartition      = "建物現況格局-隔間"
	ColManagement     = "有無管理組織"
	ColFurnished      = "有無附傢俱"
	ColElevator       = "有無電梯"
	ColDoorman        = "有無管理員"
	ColTotalAmount    = "總額元"
	ColUnitPrice      = "單價元平方公尺"
	ColParkingType    = "車位類別"
	ColParkingArea    = "車位面積平方公尺"
	ColParkingAmount  = "車位總額元"
	ColPeriodRange    = "租賃期間"
	ColEquipment      = "附屬設備"
	ColRentalForm     = "出租型態"
	ColRentalService  = "租賃住宅服務"
	ColRemarks        = "備註"
	ColSourceFile     = "來源檔案"
)

// Derived clean-dataset column names.
const (
	ColTxnDateISO        = "租賃日期"
	ColCompletionDateISO = "建築完成日期"
	ColAgeYears          = "屋齡"
	ColAgeBand           = "屋齡分類"
	ColLandCount         = "土地"
	ColBuildingCount     = "建物"
	ColParkingCount      = "車位"
	ColLeaseDays         = "租賃天數"
	ColUsageBand         = "主要用途分類"
	ColMaterialBand      = "主要建材分類"
	ColFloorBand         = "租賃層次分類"
)

// EquipmentPrefix marks the per-item binary columns expanded from the raw
// 附屬設備 field.
const EquipmentPrefix = "附屬設備-"

// MRT proximity dataset column names and derived enrichment columns.
const (
	ColMRTX           = "X"
	ColMRTY           = "Y"
	ColMRTStation     = "最近捷運站"
	ColMRTDistance    = "最近捷運站距離"
	ColMRTOpened      = "通車日期"
	ColMRTRefPrice    = "周邊住宅平均單價"
	ColCoordX         = "座標X"
	ColCoordY         = "座標Y"
	ColMRTDistanceM   = "最近捷運站距離(公尺)"
	ColActiveLines    = "捷運路線"
	ColTransferOutput = "轉乘站"
)

// MRTLines is the fixed line-flag column enumeration, in derivation order.
var MRTLines = []string{
	"文湖線",
	"淡水信義線",
	"松山新店線",
	"中和新蘆線",
	"板南線",
	"環狀線",
	"新北投支線",
	"小碧潭支線",
}

// CategoryCount is one value/count pair in a frequency table.
type CategoryCount struct {
	Value string
	Count int
}

// FrequencyTable holds the value distribution of one categorical column.
type FrequencyTable struct {
	Column string
	Counts []CategoryCount
}

// HistogramBin is one bucket of the rent-amount histogram.
type HistogramBin struct {
	Label string
	Count int
}

// InsightReport holds the computed profile of the final dataset.
type InsightReport struct {
	TotalRows     int
	Frequencies   []FrequencyTable
	RentHistogram []HistogramBin
	AverageRent   float64
	MinRent       float64
	MaxRent       float64
}
