// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/handlers"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/snapshot"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Options carries the handler dependencies wired by main.
type Options struct {
	Cache *snapshot.Cache

	// TopDonors is the ranking depth for the top co-financing donor list.
	TopDonors int

	// InvalidateLimiter throttles POST /v1/cache/invalidate.
	InvalidateLimiter *rate.Limiter
}

func SetupRoutes(router *gin.Engine, opts Options) {
	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		v1.POST("/dashboard", handlers.HandleDashboard(opts.Cache, opts.TopDonors))
		v1.POST("/matrix", handlers.HandleMatrix(opts.Cache))
		v1.GET("/options", handlers.HandleOptions(opts.Cache))
		v1.GET("/snapshot/status", handlers.HandleSnapshotStatus(opts.Cache))
		// Cache administration routes
		cache := v1.Group("/cache")
		{
			cache.POST("/invalidate", handlers.HandleInvalidate(opts.Cache, opts.InvalidateLimiter))
		}
	}
}
