// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package snapshot caches the assembled funding graph with a fixed TTL and
// single-flight loading.
//
// # Description
//
// The engine serves every request from an immutable snapshot: the flat row
// bundle plus the organization graph assembled from it. Snapshots are
// refreshed at most once per TTL window; during a refresh, all concurrent
// callers await the same in-flight load via singleflight, so the row source
// sees exactly one fetch regardless of request fan-in.
//
// A failed load never poisons the cache: any previous snapshot is kept
// rather than discarded, the error is propagated to every waiter of that
// load, and the next call retries. Errors are never cached.
//
// # Thread Safety
//
// Cache is safe for concurrent use.
package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/analytics"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/assembler"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/observability"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a snapshot is served without touching the source.
const DefaultTTL = 60 * time.Second

var tracer = otel.Tracer("crafd.compass.snapshot")

// Loader fetches one consistent flat-row bundle from the data source.
type Loader interface {
	FetchRows(ctx context.Context) (*datatypes.RowBundle, error)
}

// Snapshot is one immutable view of the dataset: the raw bundle, the
// assembled dataset, and the fetch timestamp.
type Snapshot struct {
	Bundle    *datatypes.RowBundle
	Dataset   analytics.Dataset
	FetchedAt time.Time
}

// Cache hands out the current snapshot, reloading it when stale.
type Cache struct {
	loader Loader
	ttl    time.Duration
	clock  Clock

	flight singleflight.Group

	mu      sync.RWMutex
	current *Snapshot
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the snapshot time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides the clock; tests use this to age snapshots without
// sleeping.
func WithClock(clock Clock) Option {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New creates a Cache over the given row loader.
func New(loader Loader, opts ...Option) *Cache {
	c := &Cache{
		loader: loader,
		ttl:    DefaultTTL,
		clock:  SystemClock(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the current snapshot, loading one if the cache is empty or
// stale. Concurrent callers during a refresh share a single load and all
// receive its result or its error.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	if snap, age := c.fresh(); snap != nil {
		observability.RecordSnapshotHit(age)
		return snap, nil
	}
	observability.RecordSnapshotMiss()

	// An in-flight fetch is never abandoned: detach the caller's
	// cancellation so one impatient client cannot fail the load for every
	// waiter sharing it.
	loadCtx := context.WithoutCancel(ctx)

	v, err, _ := c.flight.Do("snapshot", func() (interface{}, error) {
		// A waiter queued behind a completed load may arrive here after the
		// store already happened; serve the fresh snapshot instead of
		// loading again.
		if snap, _ := c.fresh(); snap != nil {
			return snap, nil
		}
		return c.load(loadCtx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Invalidate clears the cached snapshot unconditionally, forcing the next
// Get to reload. The external refresh pipeline calls this after writing new
// rows.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

// Status reports the cache state for operational checks.
func (c *Cache) Status() datatypes.SnapshotStatus {
	c.mu.RLock()
	snap := c.current
	c.mu.RUnlock()

	if snap == nil {
		return datatypes.SnapshotStatus{Loaded: false, Stale: true}
	}
	age := c.clock.Now().Sub(snap.FetchedAt)
	projects := 0
	for i := range snap.Dataset.Organizations {
		projects += len(snap.Dataset.Organizations[i].Projects)
	}
	return datatypes.SnapshotStatus{
		Loaded:        true,
		FetchedAt:     snap.FetchedAt.UTC().Format(time.RFC3339),
		AgeSeconds:    int64(age.Seconds()),
		Stale:         age >= c.ttl,
		Organizations: len(snap.Dataset.Organizations),
		Projects:      projects,
	}
}

// fresh returns the cached snapshot and its age when it is younger than the
// TTL, else nil.
func (c *Cache) fresh() (*Snapshot, time.Duration) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return nil, 0
	}
	age := c.clock.Now().Sub(c.current.FetchedAt)
	if age >= c.ttl {
		return nil, 0
	}
	return c.current, age
}

// load fetches the row bundle, assembles the graph, and installs the new
// snapshot. On failure the previous snapshot (if any) is left in place.
func (c *Cache) load(ctx context.Context) (*Snapshot, error) {
	ctx, span := tracer.Start(ctx, "snapshot.load")
	defer span.End()

	start := time.Now()
	bundle, err := c.loader.FetchRows(ctx)
	if err != nil {
		observability.RecordSnapshotRefresh(err, time.Since(start))
		return nil, fmt.Errorf("fetch rows: %w", err)
	}

	orgs := assembler.Build(bundle)
	snap := &Snapshot{
		Bundle: bundle,
		Dataset: analytics.Dataset{
			Organizations:   orgs,
			KnownAgencies:   assembler.KnownAgencies(orgs),
			ThemesByType:    assembler.ThemesByType(bundle),
			InvestmentTypes: assembler.InvestmentTypes(bundle),
			MemberStates:    bundle.MemberStates,
		},
		FetchedAt: c.clock.Now(),
	}

	c.mu.Lock()
	c.current = snap
	c.mu.Unlock()

	observability.RecordSnapshotRefresh(nil, time.Since(start))
	return snap, nil
}
