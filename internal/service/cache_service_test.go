package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"investmate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCriteriaStore struct {
	entries map[string]*models.CachedCriteria
	clock   time.Time

	getErr  error
	putErr  error
	pingErr error

	evictedTo int
}

func newFakeCriteriaStore() *fakeCriteriaStore {
	return &fakeCriteriaStore{
		entries: map[string]*models.CachedCriteria{},
		clock:   time.Now(),
	}
}

func (f *fakeCriteriaStore) Get(ctx context.Context, question string) (*models.CachedCriteria, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	entry, ok := f.entries[question]
	if !ok {
		return nil, errors.New("no rows")
	}
	return entry, nil
}

func (f *fakeCriteriaStore) Put(ctx context.Context, question, criteriaJSON string) error {
	if f.putErr != nil {
		return f.putErr
	}
	// Advance the clock so insertion order is observable in CreatedAt.
	f.clock = f.clock.Add(time.Second)
	f.entries[question] = &models.CachedCriteria{
		Question:     question,
		CriteriaJSON: criteriaJSON,
		CreatedAt:    f.clock,
	}
	return nil
}

func (f *fakeCriteriaStore) Count(ctx context.Context) (int, error) {
	return len(f.entries), nil
}

// EvictOverflow deletes oldest entries until only the newest max remain,
// matching the keep-newest DELETE the real store runs.
func (f *fakeCriteriaStore) EvictOverflow(ctx context.Context, max int) (int64, error) {
	f.evictedTo = max

	var evicted int64
	for len(f.entries) > max {
		oldest := ""
		for q, entry := range f.entries {
			if oldest == "" || entry.CreatedAt.Before(f.entries[oldest].CreatedAt) {
				oldest = q
			}
		}
		delete(f.entries, oldest)
		evicted++
	}
	return evicted, nil
}

func (f *fakeCriteriaStore) Delete(ctx context.Context, question string) error {
	delete(f.entries, question)
	return nil
}

func (f *fakeCriteriaStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for q, entry := range f.entries {
		if entry.CreatedAt.Before(cutoff) {
			delete(f.entries, q)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeCriteriaStore) Clear(ctx context.Context) (int64, error) {
	n := int64(len(f.entries))
	f.entries = map[string]*models.CachedCriteria{}
	return n, nil
}

func (f *fakeCriteriaStore) Ping(ctx context.Context) error {
	return f.pingErr
}

func TestCachePutGetRoundtrip(t *testing.T) {
	store := newFakeCriteriaStore()
	svc := NewCacheService(store, time.Hour, 100, zap.NewNop())
	ctx := context.Background()

	city := "Tel Aviv"
	criteria := &models.SearchCriteria{City: &city, DescriptionFilters: []string{"balcony"}}

	svc.Put(ctx, "  apartments in tel aviv  ", criteria)

	got, ok := svc.Get(ctx, "apartments in tel aviv")
	require.True(t, ok)
	require.NotNil(t, got.City)
	assert.Equal(t, "Tel Aviv", *got.City)
	assert.Equal(t, []string{"balcony"}, got.DescriptionFilters)
}

func TestCacheMissOnUnknownQuestion(t *testing.T) {
	svc := NewCacheService(newFakeCriteriaStore(), time.Hour, 100, zap.NewNop())

	_, ok := svc.Get(context.Background(), "never asked")
	assert.False(t, ok)
}

func TestCacheExpiredEntryIsMissAndDeleted(t *testing.T) {
	store := newFakeCriteriaStore()
	store.entries["old question"] = &models.CachedCriteria{
		Question:     "old question",
		CriteriaJSON: `{"city":"Haifa"}`,
		CreatedAt:    time.Now().Add(-48 * time.Hour),
	}
	svc := NewCacheService(store, 24*time.Hour, 100, zap.NewNop())

	_, ok := svc.Get(context.Background(), "old question")
	assert.False(t, ok)
	assert.NotContains(t, store.entries, "old question")
}

func TestCacheStoreErrorDegradesToMiss(t *testing.T) {
	store := newFakeCriteriaStore()
	store.getErr = errors.New("connection refused")
	svc := NewCacheService(store, time.Hour, 100, zap.NewNop())

	_, ok := svc.Get(context.Background(), "anything")
	assert.False(t, ok)
}

func TestCacheCorruptEntryIsMiss(t *testing.T) {
	store := newFakeCriteriaStore()
	store.entries["bad"] = &models.CachedCriteria{
		Question:     "bad",
		CriteriaJSON: "{not json",
		CreatedAt:    time.Now(),
	}
	svc := NewCacheService(store, time.Hour, 100, zap.NewNop())

	_, ok := svc.Get(context.Background(), "bad")
	assert.False(t, ok)
}

func TestCachePutEvictsOverCapacity(t *testing.T) {
	store := newFakeCriteriaStore()
	svc := NewCacheService(store, time.Hour, 2, zap.NewNop())
	ctx := context.Background()

	criteria := &models.SearchCriteria{DescriptionFilters: []string{}}
	svc.Put(ctx, "q1", criteria)
	svc.Put(ctx, "q2", criteria)
	assert.Zero(t, store.evictedTo)

	// One entry past the cap: only the oldest stops being retrievable.
	svc.Put(ctx, "q3", criteria)
	assert.Equal(t, 2, store.evictedTo)

	_, ok := svc.Get(ctx, "q1")
	assert.False(t, ok)
	_, ok = svc.Get(ctx, "q2")
	assert.True(t, ok)
	_, ok = svc.Get(ctx, "q3")
	assert.True(t, ok)
}

func TestCachePutWriteFailureIsSwallowed(t *testing.T) {
	store := newFakeCriteriaStore()
	store.putErr = errors.New("disk full")
	svc := NewCacheService(store, time.Hour, 100, zap.NewNop())

	// Must not panic or error out.
	svc.Put(context.Background(), "q", &models.SearchCriteria{DescriptionFilters: []string{}})
	assert.Empty(t, store.entries)
}

func TestCacheStats(t *testing.T) {
	store := newFakeCriteriaStore()
	svc := NewCacheService(store, time.Hour, 100, zap.NewNop())
	ctx := context.Background()

	svc.Put(ctx, "q1", &models.SearchCriteria{DescriptionFilters: []string{}})

	stats := svc.Stats(ctx)
	assert.Equal(t, "connected", stats.Status)
	assert.Equal(t, 1, stats.CachedItems)
	assert.Equal(t, 100, stats.MaxItems)

	store.pingErr = errors.New("down")
	stats = svc.Stats(ctx)
	assert.Equal(t, "unavailable", stats.Status)
}

func TestCachePurgeStale(t *testing.T) {
	store := newFakeCriteriaStore()
	store.entries["stale"] = &models.CachedCriteria{
		Question:     "stale",
		CriteriaJSON: "{}",
		CreatedAt:    time.Now().Add(-2 * time.Hour),
	}
	store.entries["fresh"] = &models.CachedCriteria{
		Question:     "fresh",
		CriteriaJSON: "{}",
		CreatedAt:    time.Now(),
	}
	svc := NewCacheService(store, time.Hour, 100, zap.NewNop())

	svc.PurgeStale(context.Background())

	assert.NotContains(t, store.entries, "stale")
	assert.Contains(t, store.entries, "fresh")
}
