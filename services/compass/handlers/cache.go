// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/observability"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/snapshot"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// HandleInvalidate drops the cached snapshot so the next read refetches.
// Rate limited so a misbehaving client cannot turn every dashboard request
// into a cold load.
func HandleInvalidate(cache *snapshot.Cache, limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		if !limiter.Allow() {
			observability.RecordRequest("invalidate", "throttled", time.Since(start))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Invalidation rate limit exceeded"})
			return
		}

		cache.Invalidate()
		slog.Info("Snapshot cache invalidated", "client", c.ClientIP())
		observability.RecordRequest("invalidate", "success", time.Since(start))
		c.JSON(http.StatusOK, gin.H{"status": "invalidated"})
	}
}

// HandleSnapshotStatus reports snapshot age and freshness without triggering
// a load.
func HandleSnapshotStatus(cache *snapshot.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, cache.Status())
	}
}
