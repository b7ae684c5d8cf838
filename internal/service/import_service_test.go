package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-catalog/internal/database/dbtest"
	"github.com/iliyamo/restaurant-catalog/internal/importer"
	"github.com/iliyamo/restaurant-catalog/internal/queue"
	"github.com/iliyamo/restaurant-catalog/internal/repository"
)

type recordingPublisher struct {
	events []queue.ImportCompletedEvent
	err    error
}

func (p *recordingPublisher) PublishImportCompleted(_ context.Context, ev queue.ImportCompletedEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

type countingCache struct {
	calls int
	err   error
}

func (c *countingCache) Invalidate(context.Context) error {
	c.calls++
	return c.err
}

func newService(t *testing.T, opts ...Option) *ImportService {
	t.Helper()
	store := repository.NewCatalogStore(dbtest.New(t))
	return NewImportService(importer.New(store, nil), nil, opts...)
}

const sampleDoc = `{"restaurants":[{"name":"Casa","menus":[{"name":"lunch","menu_items":[{"name":"Taco","price":3}]}]}]}`

func TestRunPublishesEventAndPurgesCache(t *testing.T) {
	pub := &recordingPublisher{}
	cache := &countingCache{}
	svc := newService(t, WithPublisher(pub, 0), WithCacheInvalidator(cache))

	out, err := svc.Run(context.Background(), "body", []byte(sampleDoc))
	require.NoError(t, err)
	assert.True(t, out.Result.Success)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, 1, cache.calls)

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, out.ID, ev.ImportID)
	assert.Equal(t, "body", ev.Source)
	assert.True(t, ev.Success)
	assert.Equal(t, 1, ev.SuccessCount)
	assert.Equal(t, []string{"Casa"}, ev.Restaurants)
	assert.False(t, ev.CompletedAt.IsZero())

	// nothing changes on a re-run, so the cache is left alone
	_, err = svc.Run(context.Background(), "body", []byte(sampleDoc))
	require.NoError(t, err)
	assert.Equal(t, 1, cache.calls)
	assert.Len(t, pub.events, 2)
}

func TestRunIgnoresSideEffectFailures(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	cache := &countingCache{err: errors.New("redis down")}
	svc := newService(t, WithPublisher(pub, 0), WithCacheInvalidator(cache))

	out, err := svc.Run(context.Background(), "file", []byte(sampleDoc))
	require.NoError(t, err)
	assert.True(t, out.Result.Success)
}

func TestRunReportsStructuralFailure(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(t, WithPublisher(pub, 0))

	out, err := svc.Run(context.Background(), "json_data", []byte(`{"restaurants":[]}`))
	require.NoError(t, err)
	assert.False(t, out.Result.Success)
	require.Len(t, pub.events, 1)
	assert.False(t, pub.events[0].Success)
	assert.Equal(t, []string{}, pub.events[0].Restaurants)
}
