// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/pkg/ux"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var statusJSONOutput bool // Output as JSON

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// statusCmd reports the service's snapshot cache state without triggering
// a load.
//
// # Examples
//
//	compassctl status            # Human-readable snapshot state
//	compassctl status --json     # JSON output for scripting
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show snapshot cache age and freshness",
	Run:   runStatusCommand,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSONOutput, "json", false,
		"Output as JSON for scripting")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runStatusCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var status datatypes.SnapshotStatus
	if err := doJSON(ctx, "GET", "/v1/snapshot/status", nil, &status); err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}

	if statusJSONOutput {
		if err := printJSON(status); err != nil {
			ux.Error(err.Error())
			os.Exit(1)
		}
		return
	}

	if !status.Loaded {
		ux.Muted("Snapshot: not loaded (no reader has triggered a fetch yet)")
		return
	}
	if status.Stale {
		ux.Warning(fmt.Sprintf("Snapshot: stale (fetched %s, age %ds)", status.FetchedAt, status.AgeSeconds))
	} else {
		ux.Success(fmt.Sprintf("Snapshot: fresh (fetched %s, age %ds)", status.FetchedAt, status.AgeSeconds))
	}
	ux.KeyValue("Organizations", fmt.Sprintf("%d", status.Organizations))
	ux.KeyValue("Projects", fmt.Sprintf("%d", status.Projects))
}
