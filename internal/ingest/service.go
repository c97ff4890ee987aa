// internal/ingest/service.go
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bevora/distops/internal/cache"
	"github.com/bevora/distops/internal/storage"
	"github.com/bevora/distops/pkg/logger"
)

var ingestLog = logger.With("ingest")

// RunResult summarizes one ingest run over a day's exports.
type RunResult struct {
	Day         string   `json:"day"`
	Files       []string `json:"files"`
	RowsLoaded  int      `json:"rows_loaded"`
	DurationSec float64  `json:"duration_sec"`
}

// Service pulls a day's sales-export bundle out of object storage and loads
// every file through the Loader. After a successful run it writes a manifest
// back to the bucket and invalidates cached insight summaries, which were
// computed against the pre-ingest ledger.
type Service struct {
	store        storage.ObjectStorage
	loader       *Loader
	insightCache cache.InsightCache
	prefix       string
}

func NewService(store storage.ObjectStorage, loader *Loader, insightCache cache.InsightCache) *Service {
	if insightCache == nil {
		insightCache = cache.NewNoopInsightCache()
	}
	return &Service{
		store:        store,
		loader:       loader,
		insightCache: insightCache,
		prefix:       "exports",
	}
}

// Run ingests all export files for the given day (YYYYMMDD). Exports are laid
// out as exports/<day>/<store>.csv in the bucket.
func (s *Service) Run(ctx context.Context, day string) (*RunResult, error) {
	if _, err := time.Parse("20060102", day); err != nil {
		return nil, fmt.Errorf("invalid day %q, want YYYYMMDD: %w", day, err)
	}

	start := time.Now()
	prefix := fmt.Sprintf("%s/%s/", s.prefix, day)

	objects, err := s.store.ListObjects(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed listing exports for %s: %w", day, err)
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("no exports found under %s", prefix)
	}

	tmpDir, err := os.MkdirTemp("", "sales-exports-")
	if err != nil {
		return nil, fmt.Errorf("failed creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	result := &RunResult{Day: day}

	for _, object := range objects {
		if filepath.Ext(object.Key) != ".csv" {
			ingestLog.Warn().Str("key", object.Key).Msg("Skipping non-CSV object in export prefix")
			continue
		}

		destPath := filepath.Join(tmpDir, filepath.Base(object.Key))
		if err := s.store.DownloadObject(ctx, object.Key, destPath); err != nil {
			return nil, err
		}

		loaded, err := s.loader.LoadExport(ctx, destPath)
		if err != nil {
			return nil, fmt.Errorf("failed loading %s: %w", object.Key, err)
		}

		result.Files = append(result.Files, object.Key)
		result.RowsLoaded += loaded
	}

	result.DurationSec = time.Since(start).Seconds()

	// Summaries cached before this run no longer reflect the ledger.
	if err := s.insightCache.InvalidateAll(ctx); err != nil {
		ingestLog.Warn().Err(err).Msg("Failed to invalidate insight summaries after ingest")
	}

	s.writeManifest(ctx, result)

	ingestLog.Info().
		Str("day", day).
		Int("files", len(result.Files)).
		Int("rows", result.RowsLoaded).
		Float64("duration_sec", result.DurationSec).
		Msg("Ingest run completed")

	return result, nil
}

// writeManifest uploads the run receipt next to the exports so operators can
// tell which days have been loaded. Best-effort: the ledger rows are already
// committed.
func (s *Service) writeManifest(ctx context.Context, result *RunResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		ingestLog.Warn().Err(err).Msg("Failed to encode ingest manifest")
		return
	}

	key := fmt.Sprintf("manifests/%s.json", result.Day)
	if err := s.store.UploadObject(ctx, key, payload); err != nil {
		ingestLog.Warn().Err(err).Str("key", key).Msg("Failed to upload ingest manifest")
	}
}
