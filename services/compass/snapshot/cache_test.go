// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package snapshot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeLoader returns a canned bundle or error and counts fetches. An
// optional gate blocks each fetch until released, for concurrency tests.
type fakeLoader struct {
	bundle  *datatypes.RowBundle
	err     error
	fetches atomic.Int64
	gate    chan struct{}
}

func (l *fakeLoader) FetchRows(ctx context.Context) (*datatypes.RowBundle, error) {
	l.fetches.Add(1)
	if l.gate != nil {
		select {
		case <-l.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if l.err != nil {
		return nil, l.err
	}
	return l.bundle, nil
}

func testBundle() *datatypes.RowBundle {
	return &datatypes.RowBundle{
		Organizations: []datatypes.OrganizationRow{
			{ID: "org-a", Name: "Alpha Data Initiative", OrgType: "NGO", FundingType: "Core"},
		},
		Projects: []datatypes.ProjectRow{
			{ID: "p1", Name: "Drought Monitor"},
		},
		Agencies: []datatypes.AgencyRow{
			{ID: "a-giz", Name: "GIZ", Country: "Germany"},
		},
		Themes: []datatypes.ThemeRow{
			{ID: "t1", Name: "Food Security", InvestmentType: "Data Collection"},
		},
		OrgAgencies:  []datatypes.OrgAgencyRow{{OrgID: "org-a", AgencyID: "a-giz"}},
		OrgProjects:  []datatypes.OrgProjectRow{{OrgID: "org-a", ProjectID: "p1"}},
		MemberStates: []string{"France", "Germany"},
	}
}

// =============================================================================
// Freshness and Reload Tests
// =============================================================================

func TestGet_LoadsAndAssembles(t *testing.T) {
	loader := &fakeLoader{bundle: testBundle()}
	cache := New(loader, WithClock(newFakeClock()))

	snap, err := cache.Get(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Dataset.Organizations, 1)
	assert.Equal(t, "Alpha Data Initiative", snap.Dataset.Organizations[0].Name)
	assert.Equal(t, []string{"GIZ"}, snap.Dataset.KnownAgencies["Germany"])
	assert.Equal(t, []string{"Data Collection"}, snap.Dataset.InvestmentTypes)
	assert.Equal(t, []string{"France", "Germany"}, snap.Dataset.MemberStates)
}

func TestGet_ServesCachedWithinTTL(t *testing.T) {
	clock := newFakeClock()
	loader := &fakeLoader{bundle: testBundle()}
	cache := New(loader, WithClock(clock), WithTTL(time.Minute))

	first, err := cache.Get(context.Background())
	require.NoError(t, err)

	clock.Advance(59 * time.Second)
	second, err := cache.Get(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), loader.fetches.Load())
}

func TestGet_ReloadsAfterTTL(t *testing.T) {
	clock := newFakeClock()
	loader := &fakeLoader{bundle: testBundle()}
	cache := New(loader, WithClock(clock), WithTTL(time.Minute))

	_, err := cache.Get(context.Background())
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = cache.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), loader.fetches.Load())
}

func TestInvalidate_ForcesReload(t *testing.T) {
	loader := &fakeLoader{bundle: testBundle()}
	cache := New(loader, WithClock(newFakeClock()))

	_, err := cache.Get(context.Background())
	require.NoError(t, err)

	cache.Invalidate()
	_, err = cache.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), loader.fetches.Load())
}

// =============================================================================
// Error Handling Tests
// =============================================================================

func TestGet_ErrorIsNotCached(t *testing.T) {
	loader := &fakeLoader{err: errors.New("db locked")}
	cache := New(loader, WithClock(newFakeClock()))

	_, err := cache.Get(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db locked")

	// Next call retries instead of serving a cached error.
	loader.err = nil
	loader.bundle = testBundle()
	snap, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snap)
	assert.Equal(t, int64(2), loader.fetches.Load())
}

func TestGet_FailedReloadKeepsNothingStaleServing(t *testing.T) {
	clock := newFakeClock()
	loader := &fakeLoader{bundle: testBundle()}
	cache := New(loader, WithClock(clock), WithTTL(time.Minute))

	_, err := cache.Get(context.Background())
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	loader.err = errors.New("source down")
	_, err = cache.Get(context.Background())
	require.Error(t, err, "a stale snapshot is not silently served on reload failure")

	// The previous snapshot still exists for Status reporting.
	status := cache.Status()
	assert.True(t, status.Loaded)
	assert.True(t, status.Stale)
}

// =============================================================================
// Single-flight Tests
// =============================================================================

func TestGet_ConcurrentCallersShareOneLoad(t *testing.T) {
	loader := &fakeLoader{bundle: testBundle(), gate: make(chan struct{})}
	cache := New(loader, WithClock(newFakeClock()))

	const callers = 16
	var wg sync.WaitGroup
	snaps := make([]*Snapshot, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snaps[i], errs[i] = cache.Get(context.Background())
		}(i)
	}

	// Let the goroutines pile up behind the gated fetch, then release it.
	time.Sleep(20 * time.Millisecond)
	close(loader.gate)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, snaps[0], snaps[i])
	}
	assert.Equal(t, int64(1), loader.fetches.Load())
}

func TestGet_CallerCancellationDoesNotAbortSharedLoad(t *testing.T) {
	loader := &fakeLoader{bundle: testBundle(), gate: make(chan struct{})}
	cache := New(loader, WithClock(newFakeClock()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := cache.Get(ctx)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	close(loader.gate)

	// The load completes despite the canceled caller context, so the result
	// lands in the cache for everyone else.
	<-done
	snap, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, int64(1), loader.fetches.Load())
}

// =============================================================================
// Status Tests
// =============================================================================

func TestStatus(t *testing.T) {
	clock := newFakeClock()
	loader := &fakeLoader{bundle: testBundle()}
	cache := New(loader, WithClock(clock), WithTTL(time.Minute))

	status := cache.Status()
	assert.False(t, status.Loaded)
	assert.True(t, status.Stale)

	_, err := cache.Get(context.Background())
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	status = cache.Status()
	assert.True(t, status.Loaded)
	assert.False(t, status.Stale)
	assert.Equal(t, int64(30), status.AgeSeconds)
	assert.Equal(t, 1, status.Organizations)
	assert.Equal(t, 1, status.Projects)

	clock.Advance(31 * time.Second)
	assert.True(t, cache.Status().Stale)
}
