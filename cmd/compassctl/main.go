// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// compassctl is the operator CLI for the compass funding dashboard service.
package main

import (
	"log"
	"log/slog"
	"time"

	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/pkg/logging"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/pkg/ux"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL FLAGS
// =============================================================================

var (
	serverURL      string        // Base URL of the compass service
	requestTimeout time.Duration // Per-request timeout
	plainOutput    bool          // Disable color and animation
	logDir         string        // Optional directory for per-day log files
	verbose        bool          // Debug-level logging
)

var appLogger *logging.Logger

// =============================================================================
// ROOT COMMAND
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "compassctl",
	Short: "Operator CLI for the compass funding dashboard service",
	Long: `compassctl talks to a running compass service over HTTP.

Examples:
  compassctl status                      # Snapshot age and freshness
  compassctl invalidate                  # Force a refetch on next read
  compassctl query --donor Germany       # Filtered dashboard summary
  compassctl matrix Germany Finland      # Pairwise co-financing counts`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ux.SetPlain(plainOutput)

		level := logging.LevelInfo
		if verbose {
			level = logging.LevelDebug
		}
		appLogger = logging.New(logging.Config{
			Level:   level,
			LogDir:  logDir,
			Service: "compassctl",
		})
		slog.SetDefault(appLogger.Slog())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appLogger != nil {
			_ = appLogger.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s",
		"http://localhost:8095", "Base URL of the compass service")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "timeout",
		30*time.Second, "Per-request timeout")
	rootCmd.PersistentFlags().BoolVar(&plainOutput, "plain", false,
		"Disable color and animation")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "",
		"Write per-day JSON log files to this directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Debug-level logging")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(invalidateCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(matrixCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
