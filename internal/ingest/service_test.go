// internal/ingest/service_test.go
package ingest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bevora/distops/internal/domain"
	"github.com/bevora/distops/internal/storage"
)

// fakeStore serves a fixed object listing and records uploads.
type fakeStore struct {
	objects []storage.ObjectInfo
	content string
	uploads map[string][]byte
}

func (f *fakeStore) ListObjects(_ context.Context, _ string) ([]storage.ObjectInfo, error) {
	return f.objects, nil
}

func (f *fakeStore) DownloadObject(_ context.Context, _ string, destPath string) error {
	return os.WriteFile(destPath, []byte(f.content), 0o644)
}

func (f *fakeStore) UploadObject(_ context.Context, key string, data []byte) error {
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[key] = data
	return nil
}

// spyCache records whether cached summaries were invalidated.
type spyCache struct {
	invalidated bool
}

func (s *spyCache) GetSummary(_ context.Context, _ time.Time, _ int) (*domain.InsightSummary, bool, error) {
	return nil, false, nil
}

func (s *spyCache) SetSummary(_ context.Context, _ time.Time, _ int, _ *domain.InsightSummary) error {
	return nil
}

func (s *spyCache) InvalidateAll(_ context.Context) error {
	s.invalidated = true
	return nil
}

func TestRun_WritesManifestAndInvalidatesSummaries(t *testing.T) {
	store := &fakeStore{
		objects: []storage.ObjectInfo{{Key: "exports/20260827/store-1.csv", Size: 64}},
		content: "sku,product_name,quantity,unit_price,sold_at\n",
	}
	summaries := &spyCache{}
	svc := NewService(store, NewLoader(&stubTxRunner{}), summaries)

	result, err := svc.Run(context.Background(), "20260827")
	require.NoError(t, err)

	assert.Equal(t, []string{"exports/20260827/store-1.csv"}, result.Files)
	assert.True(t, summaries.invalidated)
	assert.Contains(t, store.uploads, "manifests/20260827.json")
}

func TestRun_RejectsMalformedDay(t *testing.T) {
	svc := NewService(&fakeStore{}, NewLoader(&stubTxRunner{}), nil)

	_, err := svc.Run(context.Background(), "2026-08-27")
	assert.Error(t, err)
}
