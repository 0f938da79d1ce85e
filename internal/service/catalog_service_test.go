package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medready/enroll-advisor-api/internal/models"
	appErrors "github.com/medready/enroll-advisor-api/pkg/errors"
)

type fakeCatalogSource struct {
	snapshot *models.CatalogSnapshot
	err      error
	calls    int
}

func (f *fakeCatalogSource) Load(context.Context) (*models.CatalogSnapshot, error) {
	f.calls++
	return f.snapshot, f.err
}

type fakeSnapshotCache struct {
	entries  map[string][]byte
	getErr   error
	setErr   error
	setCalls int
}

func newFakeSnapshotCache() *fakeSnapshotCache {
	return &fakeSnapshotCache{entries: map[string][]byte{}}
}

func (f *fakeSnapshotCache) Get(_ context.Context, key string, dest interface{}) error {
	if f.getErr != nil {
		return f.getErr
	}
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeSnapshotCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func (f *fakeSnapshotCache) Delete(_ context.Context, key string) error {
	delete(f.entries, key)
	return nil
}

func TestCatalogSnapshotCacheMissLoadsAndCaches(t *testing.T) {
	source := &fakeCatalogSource{snapshot: testSnapshot()}
	cache := newFakeSnapshotCache()
	svc := NewCatalogService(source, cache, time.Minute, nil, zap.NewNop())

	got, err := svc.Snapshot(context.Background())

	require.NoError(t, err)
	require.Len(t, got.Courses, 2)
	assert.Equal(t, 1, source.calls)
	assert.Contains(t, cache.entries, snapshotCacheKey)
}

func TestCatalogSnapshotCacheHitSkipsSource(t *testing.T) {
	source := &fakeCatalogSource{snapshot: testSnapshot()}
	cache := newFakeSnapshotCache()
	svc := NewCatalogService(source, cache, time.Minute, nil, zap.NewNop())

	_, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	got, err := svc.Snapshot(context.Background())

	require.NoError(t, err)
	require.Len(t, got.Courses, 2)
	assert.Equal(t, 1, source.calls)
}

func TestCatalogSnapshotServesLastGoodOnLoadFailure(t *testing.T) {
	source := &fakeCatalogSource{snapshot: testSnapshot()}
	svc := NewCatalogService(source, nil, time.Minute, nil, zap.NewNop())

	first, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	source.snapshot = nil
	source.err = errors.New("exports unreachable")

	got, err := svc.Snapshot(context.Background())

	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestCatalogSnapshotFailsWithoutLastGood(t *testing.T) {
	source := &fakeCatalogSource{err: errors.New("exports unreachable")}
	svc := NewCatalogService(source, nil, time.Minute, nil, zap.NewNop())

	_, err := svc.Snapshot(context.Background())

	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrCatalogUnavailable.Code, appErr.Code)
}

func TestCatalogSnapshotCacheReadErrorFallsThrough(t *testing.T) {
	source := &fakeCatalogSource{snapshot: testSnapshot()}
	cache := newFakeSnapshotCache()
	cache.getErr = errors.New("redis down")
	svc := NewCatalogService(source, cache, time.Minute, nil, zap.NewNop())

	got, err := svc.Snapshot(context.Background())

	require.NoError(t, err)
	require.Len(t, got.Courses, 2)
	assert.Equal(t, 1, source.calls)
}

func TestCatalogRefreshDropsCachedSnapshot(t *testing.T) {
	source := &fakeCatalogSource{snapshot: testSnapshot()}
	cache := newFakeSnapshotCache()
	svc := NewCatalogService(source, cache, time.Minute, nil, zap.NewNop())

	_, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	fresh := testSnapshot()
	fresh.Courses = fresh.Courses[:1]
	source.snapshot = fresh

	got, err := svc.Refresh(context.Background())

	require.NoError(t, err)
	assert.Len(t, got.Courses, 1)
	assert.Equal(t, 2, source.calls)

	// The next read serves the refreshed snapshot from cache.
	again, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, again.Courses, 1)
	assert.Equal(t, 2, source.calls)
}
