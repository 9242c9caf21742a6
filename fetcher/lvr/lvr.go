package lvr

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"rent-etl/config"
	"rent-etl/utils"
)

const zipFileName = "lvr_landcsv.zip"

// rentCSVRegexp matches the rent-registration extracts inside each quarterly
// archive (the trailing "c" marks the rent series).
var rentCSVRegexp = regexp.MustCompile(`^[a-z]_lvr_land_c\.csv$`)

// Fetcher downloads the quarterly open-data archives and extracts the rent
// CSV files into the raw data directory.
type Fetcher struct {
	cfg     *config.Config
	logger  *utils.Logger
	pool    *utils.WorkerPool
	seasons *utils.StringSet
	retry   *utils.RetryConfig
	client  *resty.Client

	mu    sync.Mutex
	files []string
}

// New creates a ready-to-use Fetcher.
func New(cfg *config.Config, logger *utils.Logger) *Fetcher {
	client := resty.New().
		SetTimeout(120*time.Second).
		SetHeader("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")

	return &Fetcher{
		cfg:     cfg,
		logger:  logger,
		pool:    utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		seasons: utils.NewStringSet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			MaxDelay:    30 * time.Second,
			Logger:      logger,
		},
		client: client,
	}
}

// Fetch downloads every configured season and returns the extracted CSV
// paths. Seasons run through the worker pool; a season that fails after all
// retries is logged and skipped so the remaining seasons still land.
func (f *Fetcher) Fetch() ([]string, error) {
	if err := os.MkdirAll(f.cfg.RawDataDir, 0755); err != nil {
		return nil, fmt.Errorf("lvr: create raw dir: %w", err)
	}

	f.logger.Info("[lvr] Fetching %d seasons into %s", len(f.cfg.FetchSeasons), f.cfg.RawDataDir)

	for _, season := range f.cfg.FetchSeasons {
		if !f.seasons.Add(season) {
			f.logger.Debug("[lvr] Season %s already queued — skipping", season)
			continue
		}

		season := season
		f.pool.Submit(func() {
			err := f.retry.Do("download season "+season, func() error {
				return f.downloadSeason(season)
			})
			if err != nil {
				f.logger.Error("[lvr] Season %s failed: %v", season, err)
			}
		})
	}
	f.pool.Wait()

	if len(f.files) == 0 {
		return nil, fmt.Errorf("lvr: no rent CSV files extracted")
	}
	f.logger.Info("[lvr] Extracted %d rent CSV files", len(f.files))
	return f.files, nil
}

func (f *Fetcher) downloadSeason(season string) error {
	resp, err := f.client.R().
		SetQueryParams(map[string]string{
			"season":   season,
			"type":     "zip",
			"fileName": zipFileName,
		}).
		Get(f.cfg.FetchBaseURL)
	if err != nil {
		return fmt.Errorf("lvr: get %s: %w", season, err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("lvr: get %s: status %d", season, resp.StatusCode())
	}

	n, err := f.extractRentCSVs(resp.Body(), season)
	if err != nil {
		return err
	}
	f.logger.Info("[lvr] Season %s: %d rent files", season, n)
	return nil
}

// extractRentCSVs unpacks the rent CSVs from one season archive. Extracted
// files are prefixed with the season so quarters never overwrite each other.
func (f *Fetcher) extractRentCSVs(data []byte, season string) (int, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("lvr: open archive %s: %w", season, err)
	}

	count := 0
	for _, zf := range zr.File {
		if !rentCSVRegexp.MatchString(filepath.Base(zf.Name)) {
			continue
		}
		dest := filepath.Join(f.cfg.RawDataDir, season+"_"+filepath.Base(zf.Name))
		if err := f.extractFile(zf, dest); err != nil {
			return count, err
		}

		f.mu.Lock()
		f.files = append(f.files, dest)
		f.mu.Unlock()
		count++
	}
	return count, nil
}

func (f *Fetcher) extractFile(zf *zip.File, dest string) error {
	src, err := zf.Open()
	if err != nil {
		return fmt.Errorf("lvr: open %s in archive: %w", zf.Name, err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("lvr: create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("lvr: write %s: %w", dest, err)
	}
	return nil
}
