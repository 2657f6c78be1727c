// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"os"

	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/pkg/ux"
	"github.com/spf13/cobra"
)

// invalidateCmd forces the service to drop its cached snapshot. The next
// dashboard, matrix, or options request refetches from the database.
//
// The service rate limits this endpoint; a 429 here means an earlier
// invalidation is still being absorbed.
var invalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Drop the cached snapshot so the next read refetches",
	Run:   runInvalidateCommand,
}

func runInvalidateCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var resp struct {
		Status string `json:"status"`
	}
	if err := doJSON(ctx, "POST", "/v1/cache/invalidate", nil, &resp); err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}
	ux.Success("Snapshot cache invalidated")
}
