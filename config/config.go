package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	FetchEnabled bool
	FetchBaseURL string
	FetchSeasons []string

	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int

	RawDataDir         string
	MRTDataPath        string
	CleanOutputPath    string
	EnrichedOutputPath string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "rent"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "rent123"),
		PostgresDB:       getEnv("POSTGRES_DB", "rent_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		FetchEnabled: getEnvBool("FETCH_ENABLED", false),
		FetchBaseURL: getEnv("FETCH_BASE_URL", "https://plvr.land.moi.gov.tw/DownloadSeason"),
		FetchSeasons: getEnvList("FETCH_SEASONS", "112S4,113S1,113S2,113S3"),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 2000),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		RawDataDir:         getEnv("RAW_DATA_DIR", "./data/raw"),
		MRTDataPath:        getEnv("MRT_DATA_PATH", "./data/mrt_distance.csv"),
		CleanOutputPath:    getEnv("CLEAN_OUTPUT_PATH", "./output/rent_clean.csv"),
		EnrichedOutputPath: getEnv("ENRICHED_OUTPUT_PATH", "./output/rent_mrt.csv"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
