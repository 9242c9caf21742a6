package main

import (
	"fmt"
	"os"

	"rent-etl/config"
	"rent-etl/fetcher/lvr"
	"rent-etl/services"
	"rent-etl/storage"
	"rent-etl/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Rent Registration ETL starting ===")
	logger.Info("Config — raw dir: %s | MRT table: %s | fetch: %v | concurrency: %d",
		cfg.RawDataDir, cfg.MRTDataPath, cfg.FetchEnabled, cfg.MaxConcurrency)

	if cfg.FetchEnabled {
		fetcher := lvr.New(cfg, logger)
		if _, err := fetcher.Fetch(); err != nil {
			logger.Error("Fetch failed: %v", err)
			os.Exit(1)
		}
	}

	reader := storage.NewCSVReader(logger)
	rawRecords, err := reader.ReadDir(cfg.RawDataDir)
	if err != nil {
		logger.Error("Failed to read raw extracts: %v", err)
		os.Exit(1)
	}
	if len(rawRecords) == 0 {
		logger.Error("No raw records found under %s. Exiting.", cfg.RawDataDir)
		os.Exit(1)
	}

	cleaner := services.NewCleaner(logger)
	cleanData, _ := cleaner.Clean(rawRecords)
	if len(cleanData.Rows) == 0 {
		logger.Error("All rows were rejected during cleaning. Exiting.")
		os.Exit(1)
	}

	cleanWriter, err := storage.NewCSVWriter(cfg.CleanOutputPath)
	if err != nil {
		logger.Error("Failed to create clean CSV writer: %v", err)
		os.Exit(1)
	}
	if err := cleanWriter.WriteDataset(cleanData); err != nil {
		logger.Error("Clean CSV write failed: %v", err)
	} else {
		logger.Info("Clean dataset saved to %s", cfg.CleanOutputPath)
	}
	cleanWriter.Close()

	mrtData, err := reader.ReadDataset(cfg.MRTDataPath)
	if err != nil {
		logger.Error("Failed to read MRT proximity table: %v", err)
		os.Exit(1)
	}

	enricher := services.NewEnricher(logger)
	enriched := services.Reorder(enricher.Enrich(cleanData, mrtData))
	if len(enriched.Rows) == 0 {
		logger.Error("No rows survived enrichment. Exiting.")
		os.Exit(1)
	}

	enrichedWriter, err := storage.NewCSVWriter(cfg.EnrichedOutputPath)
	if err != nil {
		logger.Error("Failed to create enriched CSV writer: %v", err)
		os.Exit(1)
	}
	if err := enrichedWriter.WriteDataset(enriched); err != nil {
		logger.Error("Enriched CSV write failed: %v", err)
	} else {
		logger.Info("Enriched dataset saved to %s", cfg.EnrichedOutputPath)
	}
	enrichedWriter.Close()

	pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Make sure Docker is running: docker compose up -d")
	} else {
		defer pgWriter.Close()
		if err := pgWriter.WriteDataset(enriched); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
		} else if n, err := pgWriter.CountRows(); err == nil {
			logger.Info("Enriched rows stored in PostgreSQL (table: rents, %d rows)", n)
		}
	}

	insightSvc := services.NewInsightService(logger)
	report := insightSvc.Generate(enriched)
	insightSvc.Print(report)

	fmt.Printf("  Done. Clean CSV → %s | Enriched CSV → %s | PostgreSQL (rents table)\n\n",
		cfg.CleanOutputPath, cfg.EnrichedOutputPath)
}
