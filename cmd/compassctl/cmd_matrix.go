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

var (
	matrixSearch     string   // Constrain counted entities by free text
	matrixTypes      []string // Constrain counted projects by investment type
	matrixThemes     []string // Constrain counted projects by theme
	matrixGeneral    bool     // Inject member-state general contributions
	matrixJSONOutput bool     // Output as JSON
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// matrixCmd prints the pairwise co-financing matrix for the donor countries
// given as arguments. Diagonal cells hold each donor's own totals.
//
// # Examples
//
//	compassctl matrix Germany Finland
//	compassctl matrix Germany Finland Sweden --theme "Food Security"
var matrixCmd = &cobra.Command{
	Use:   "matrix DONOR [DONOR...]",
	Short: "Show pairwise co-financing counts for a donor set",
	Args:  cobra.MinimumNArgs(1),
	Run:   runMatrixCommand,
}

func init() {
	matrixCmd.Flags().StringVar(&matrixSearch, "search", "",
		"Free-text constraint on counted entities")
	matrixCmd.Flags().StringArrayVar(&matrixTypes, "type", nil,
		"Investment type constraint; repeat for disjunctive selection")
	matrixCmd.Flags().StringArrayVar(&matrixThemes, "theme", nil,
		"Theme constraint; repeat for disjunctive selection")
	matrixCmd.Flags().BoolVar(&matrixGeneral, "general-contributions", false,
		"Treat listed member states as donors of core-funded organizations")
	matrixCmd.Flags().BoolVar(&matrixJSONOutput, "json", false,
		"Output as JSON for scripting")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runMatrixCommand(cmd *cobra.Command, args []string) {
	req := datatypes.MatrixRequest{
		Donors:               args,
		Search:               matrixSearch,
		InvestmentTypes:      matrixTypes,
		Themes:               matrixThemes,
		GeneralContributions: matrixGeneral,
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if matrixJSONOutput {
		ux.SetPlain(true)
	}

	var matrix datatypes.CoFinancingMatrix
	err := ux.WithSpinner("Building co-financing matrix", func() error {
		return doJSON(ctx, "POST", "/v1/matrix", &req, &matrix)
	})
	if err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}

	if matrixJSONOutput {
		if err := printJSON(matrix); err != nil {
			ux.Error(err.Error())
			os.Exit(1)
		}
		return
	}

	ux.Title("Co-Financing Matrix")

	// Header row.
	fmt.Printf("%-20s", "")
	for _, col := range matrix.Donors {
		fmt.Printf("%-20s", col)
	}
	fmt.Println()

	for _, row := range matrix.Donors {
		fmt.Printf("%-20s", row)
		for _, col := range matrix.Donors {
			cell := matrix.Cells[row][col]
			fmt.Printf("%-20s", fmt.Sprintf("%d orgs / %d proj", cell.Organizations, cell.Projects))
		}
		fmt.Println()
	}
}
