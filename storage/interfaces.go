package storage

import "rent-etl/models"

// DatasetWriter is the interface any tabular output backend must satisfy.
type DatasetWriter interface {
	WriteDataset(ds *models.Dataset) error
	Close() error
}

// RawReader is the interface for loading raw extract rows.
type RawReader interface {
	ReadDir(dir string) ([]models.RawRecord, error)
}
