// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package middleware provides HTTP middleware for the compass service.
//
// # Request Logging Flow
//
//	Request
//	   │
//	   ▼
//	RequestLogger
//	   │
//	   ├─► record start time
//	   │
//	   ├─► c.Next()  (handler chain runs)
//	   │
//	   └─► slog line with method, path, status, latency, client IP
package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger creates a Gin middleware that emits one structured log line
// per request after the handler chain completes.
//
// # Inputs
//
// None. Uses the process-wide slog default logger.
//
// # Outputs
//
//   - gin.HandlerFunc: Middleware function ready for use with Gin
//
// # Thread Safety
//
// Thread-safe. The returned middleware can be used concurrently.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", float64(time.Since(start).Microseconds()) / 1000.0,
			"client", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
			slog.Error("Request completed", attrs...)
			return
		}
		if c.Writer.Status() >= 500 {
			slog.Error("Request completed", attrs...)
			return
		}
		slog.Info("Request completed", attrs...)
	}
}
