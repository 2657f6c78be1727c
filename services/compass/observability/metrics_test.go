// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics(t *testing.T) {
	m := InitMetrics()
	require.NotNil(t, m)
	assert.Same(t, m, DefaultMetrics)

	assert.NotNil(t, m.RequestsTotal)
	assert.NotNil(t, m.RequestDurationSeconds)
	assert.NotNil(t, m.SnapshotRefreshesTotal)
	assert.NotNil(t, m.SnapshotRefreshDurationSeconds)
	assert.NotNil(t, m.SnapshotCacheHitsTotal)
	assert.NotNil(t, m.SnapshotCacheMissesTotal)
	assert.NotNil(t, m.SnapshotAgeSeconds)

	t.Run("record request", func(t *testing.T) {
		before := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("dashboard", "success"))
		RecordRequest("dashboard", "success", 5*time.Millisecond)
		after := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("dashboard", "success"))
		assert.Equal(t, before+1, after)
	})

	t.Run("record refresh outcome", func(t *testing.T) {
		RecordSnapshotRefresh(nil, 10*time.Millisecond)
		assert.Equal(t, float64(1), testutil.ToFloat64(m.SnapshotRefreshesTotal.WithLabelValues("success")))

		RecordSnapshotRefresh(assert.AnError, 10*time.Millisecond)
		assert.Equal(t, float64(1), testutil.ToFloat64(m.SnapshotRefreshesTotal.WithLabelValues("error")))
	})

	t.Run("record cache traffic", func(t *testing.T) {
		RecordSnapshotHit(30 * time.Second)
		RecordSnapshotMiss()
		assert.Equal(t, float64(1), testutil.ToFloat64(m.SnapshotCacheHitsTotal))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.SnapshotCacheMissesTotal))
		assert.Equal(t, float64(30), testutil.ToFloat64(m.SnapshotAgeSeconds))
	})
}

func TestRecorders_SafeWhenUninitialized(t *testing.T) {
	prev := DefaultMetrics
	DefaultMetrics = nil
	defer func() { DefaultMetrics = prev }()

	assert.NotPanics(t, func() {
		RecordRequest("dashboard", "success", time.Millisecond)
		RecordSnapshotRefresh(nil, time.Millisecond)
		RecordSnapshotHit(time.Second)
		RecordSnapshotMiss()
	})
}
