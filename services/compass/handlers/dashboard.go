// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers contains the gin HTTP handlers for the compass engine.
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/analytics"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/observability"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/snapshot"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
)

var handlerTracer = otel.Tracer("crafd.compass.handlers")

// HandleDashboard serves the full filtered dashboard payload.
func HandleDashboard(cache *snapshot.Cache, topDonors int) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req datatypes.FilterSpec
		if err := c.ShouldBindJSON(&req); err != nil {
			observability.RecordRequest("dashboard", "client_error", time.Since(start))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			observability.RecordRequest("dashboard", "client_error", time.Since(start))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, span := handlerTracer.Start(c.Request.Context(), "handlers.dashboard")
		defer span.End()

		snap, err := cache.Get(ctx)
		if err != nil {
			slog.Error("Snapshot load failed", "error", err)
			observability.RecordRequest("dashboard", "error", time.Since(start))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data source unavailable"})
			return
		}

		payload := analytics.BuildDashboard(&snap.Dataset, req, topDonors)
		observability.RecordRequest("dashboard", "success", time.Since(start))
		c.JSON(http.StatusOK, payload)
	}
}

// HandleOptions serves the filter option lists for an empty filter, which
// callers use to populate a pristine filter panel.
func HandleOptions(cache *snapshot.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx, span := handlerTracer.Start(c.Request.Context(), "handlers.options")
		defer span.End()

		snap, err := cache.Get(ctx)
		if err != nil {
			slog.Error("Snapshot load failed", "error", err)
			observability.RecordRequest("options", "error", time.Since(start))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data source unavailable"})
			return
		}

		options := analytics.BuildOptions(snap.Dataset.Organizations, snap.Dataset.ThemesByType)
		observability.RecordRequest("options", "success", time.Since(start))
		c.JSON(http.StatusOK, options)
	}
}
