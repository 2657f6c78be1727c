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

	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/analytics"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/observability"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/snapshot"
	"github.com/gin-gonic/gin"
)

// HandleMatrix serves the pairwise co-financing matrix for a chosen donor set.
func HandleMatrix(cache *snapshot.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req datatypes.MatrixRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			observability.RecordRequest("matrix", "client_error", time.Since(start))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			observability.RecordRequest("matrix", "client_error", time.Since(start))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, span := handlerTracer.Start(c.Request.Context(), "handlers.matrix")
		defer span.End()

		snap, err := cache.Get(ctx)
		if err != nil {
			slog.Error("Snapshot load failed", "error", err)
			observability.RecordRequest("matrix", "error", time.Since(start))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data source unavailable"})
			return
		}

		matrix := analytics.BuildCoFinancingMatrix(&snap.Dataset, req)
		observability.RecordRequest("matrix", "success", time.Since(start))
		c.JSON(http.StatusOK, matrix)
	}
}
