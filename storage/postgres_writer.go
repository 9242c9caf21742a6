package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"rent-etl/models"
)

// PostgresWriter persists enriched rent rows to PostgreSQL as a typed
// projection of the tabular dataset.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS rents (
			id                   SERIAL PRIMARY KEY,
			district             TEXT          NOT NULL DEFAULT '',
			address              TEXT          NOT NULL DEFAULT '',
			transaction_date     DATE,
			completion_date      DATE,
			age_years            INT,
			age_band             VARCHAR(20)   NOT NULL DEFAULT '',
			floor_band           VARCHAR(20)   NOT NULL DEFAULT '',
			usage_band           VARCHAR(20)   NOT NULL DEFAULT '',
			material_band        VARCHAR(20)   NOT NULL DEFAULT '',
			land_count           INT,
			building_count       INT,
			parking_count        INT,
			lease_days           INT,
			total_amount         NUMERIC(12,2),
			unit_price           NUMERIC(12,2),
			station              TEXT          NOT NULL DEFAULT '',
			station_distance     NUMERIC(10,2),
			active_lines         TEXT          NOT NULL DEFAULT '',
			is_transfer          INT           NOT NULL DEFAULT 0,
			reference_unit_price NUMERIC(12,2),
			created_at           TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_rents_district     ON rents(district);
		CREATE INDEX IF NOT EXISTS idx_rents_total_amount ON rents(total_amount);
		CREATE INDEX IF NOT EXISTS idx_rents_station      ON rents(station);
		CREATE INDEX IF NOT EXISTS idx_rents_age_band     ON rents(age_band);
	`)
	return err
}

// Clear deletes all existing rows from the rents table.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM rents")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// insertColumns is the table column order used by the batched insert.
var insertColumns = []string{
	"district", "address", "transaction_date", "completion_date",
	"age_years", "age_band", "floor_band", "usage_band", "material_band",
	"land_count", "building_count", "parking_count", "lease_days",
	"total_amount", "unit_price", "station", "station_distance",
	"active_lines", "is_transfer", "reference_unit_price",
}

// WriteDataset batch-inserts all enriched rows, clearing old data first.
func (pw *PostgresWriter) WriteDataset(ds *models.Dataset) error {
	if len(ds.Rows) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(ds.Rows); i += batchSize {
		end := i + batchSize
		if end > len(ds.Rows) {
			end = len(ds.Rows)
		}
		if err := pw.insertBatch(ds.Rows[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []models.Record) error {
	width := len(insertColumns)
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*width)

	for idx, rec := range batch {
		base := idx * width
		marks := make([]string, width)
		for i := range marks {
			marks[i] = "$" + strconv.Itoa(base+i+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(marks, ",")+")")
		valueArgs = append(valueArgs,
			rec[models.ColDistrict],
			rec[models.ColAddress],
			nullableText(rec[models.ColTxnDateISO]),
			nullableText(rec[models.ColCompletionDateISO]),
			nullableInt(rec[models.ColAgeYears]),
			rec[models.ColAgeBand],
			rec[models.ColFloorBand],
			rec[models.ColUsageBand],
			rec[models.ColMaterialBand],
			nullableInt(rec[models.ColLandCount]),
			nullableInt(rec[models.ColBuildingCount]),
			nullableInt(rec[models.ColParkingCount]),
			nullableInt(rec[models.ColLeaseDays]),
			nullableFloat(rec[models.ColTotalAmount]),
			nullableFloat(rec[models.ColUnitPrice]),
			rec[models.ColMRTStation],
			nullableFloat(rec[models.ColMRTDistanceM]),
			rec[models.ColActiveLines],
			nullableInt(rec[models.ColTransferOutput]),
			nullableFloat(rec[models.ColMRTRefPrice]),
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO rents (%s)
		VALUES %s
	`, strings.Join(insertColumns, ", "), strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// CountRows returns the number of stored rent rows.
func (pw *PostgresWriter) CountRows() (int, error) {
	var n int
	if err := pw.db.QueryRow("SELECT COUNT(*) FROM rents").Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count: %w", err)
	}
	return n, nil
}

// nullableText maps the NA sentinel and empty strings to SQL NULL.
func nullableText(s string) interface{} {
	if s == "" || s == models.NA {
		return nil
	}
	return s
}

func nullableInt(s string) interface{} {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return n
}

func nullableFloat(s string) interface{} {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return nil
	}
	return v
}
