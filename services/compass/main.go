// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/pkg/logging"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/config"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/middleware"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/observability"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/routes"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/snapshot"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/store"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"google.golang.org/grpc/credentials/insecure"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
)

func initTracer(endpoint string) (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("compass-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logging.ParseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	// --- Init the tracer ---
	if cfg.OTLPEndpoint != "" {
		cleanup, err := initTracer(cfg.OTLPEndpoint)
		if err != nil {
			log.Fatalf("failed to setup the OTLP tracer: %v", err)
		}
		defer cleanup(context.Background())
	} else {
		slog.Info("COMPASS_OTLP_ENDPOINT not set. Running without trace export.")
	}

	observability.InitMetrics()

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("FATAL: could not open funding database: %v", err)
	}
	defer db.Close()

	cache := snapshot.New(db,
		snapshot.WithTTL(cfg.SnapshotTTL))

	// Warm the snapshot so the first dashboard request is not a cold load.
	// A failure here is logged, not fatal; readers retry through the cache.
	warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := cache.Get(warmCtx); err != nil {
		slog.Warn("Initial snapshot load failed, serving will retry", "error", err)
	}
	cancel()

	router := gin.Default()
	router.Use(otelgin.Middleware("compass-service"))
	router.Use(middleware.RequestLogger())

	routes.SetupRoutes(router, routes.Options{
		Cache:             cache,
		TopDonors:         cfg.TopDonors,
		InvalidateLimiter: rate.NewLimiter(rate.Limit(cfg.InvalidateRPS), cfg.InvalidateBurst),
	})

	slog.Info("Starting the compass server", "addr", cfg.ListenAddr)
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
