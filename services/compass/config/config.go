// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads compass service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every operator-tunable knob for the compass service. All
// values are read once at startup.
type Config struct {
	// ListenAddr is the host:port the HTTP server binds to.
	ListenAddr string `env:"COMPASS_LISTEN_ADDR" envDefault:":8095"`

	// DBPath is the SQLite database file holding the flat funding tables.
	DBPath string `env:"COMPASS_DB_PATH" envDefault:"/app/data/compass.db"`

	// SnapshotTTL controls how long an assembled snapshot is served before
	// a reader triggers a refetch.
	SnapshotTTL time.Duration `env:"COMPASS_SNAPSHOT_TTL" envDefault:"60s"`

	// TopDonors is the ranking depth of the top co-financing donor list in
	// dashboard payloads.
	TopDonors int `env:"COMPASS_TOP_DONORS" envDefault:"10"`

	// InvalidateRPS and InvalidateBurst bound how often clients may force a
	// cache invalidation.
	InvalidateRPS   float64 `env:"COMPASS_INVALIDATE_RPS" envDefault:"0.2"`
	InvalidateBurst int     `env:"COMPASS_INVALIDATE_BURST" envDefault:"3"`

	// OTLPEndpoint is the OTLP/gRPC collector address. Empty disables
	// trace export entirely.
	OTLPEndpoint string `env:"COMPASS_OTLP_ENDPOINT" envDefault:""`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"COMPASS_LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from environment variables and validates the
// values that would otherwise fail in confusing ways at request time.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.SnapshotTTL <= 0 {
		return Config{}, fmt.Errorf("COMPASS_SNAPSHOT_TTL must be positive, got %s", cfg.SnapshotTTL)
	}
	if cfg.TopDonors <= 0 {
		return Config{}, fmt.Errorf("COMPASS_TOP_DONORS must be positive, got %d", cfg.TopDonors)
	}
	if cfg.InvalidateRPS <= 0 || cfg.InvalidateBurst <= 0 {
		return Config{}, fmt.Errorf("invalidation limiter settings must be positive")
	}
	return cfg, nil
}
