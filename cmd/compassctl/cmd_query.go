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
	"strings"

	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/pkg/ux"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	queryDonors     []string // Required donor countries (conjunctive)
	queryAgencies   []string // Agency names (single-donor selections only)
	queryTypes      []string // Investment types (disjunctive)
	queryThemes     []string // Themes (disjunctive)
	querySearch     string   // Free-text search
	queryGeneral    bool     // Inject member-state general contributions
	queryJSONOutput bool     // Output full payload as JSON
	queryShowOrgs   bool     // List visible organizations
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// queryCmd runs one filtered dashboard request and prints the headline
// numbers, or the full payload with --json.
//
// # Examples
//
//	compassctl query                                  # Unfiltered totals
//	compassctl query --donor Germany --donor Finland  # Conjunctive donors
//	compassctl query --donor France --general-contributions
//	compassctl query --search famine --type Grant
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a filtered dashboard query and print the results",
	Run:   runQueryCommand,
}

func init() {
	queryCmd.Flags().StringArrayVar(&queryDonors, "donor", nil,
		"Donor country; repeat for conjunctive selection")
	queryCmd.Flags().StringArrayVar(&queryAgencies, "agency", nil,
		"Agency name; only applied with exactly one donor")
	queryCmd.Flags().StringArrayVar(&queryTypes, "type", nil,
		"Investment type; repeat for disjunctive selection")
	queryCmd.Flags().StringArrayVar(&queryThemes, "theme", nil,
		"Theme; repeat for disjunctive selection")
	queryCmd.Flags().StringVar(&querySearch, "search", "",
		"Free-text search over names, types, and descriptions")
	queryCmd.Flags().BoolVar(&queryGeneral, "general-contributions", false,
		"Treat selected member states as donors of core-funded organizations")
	queryCmd.Flags().BoolVar(&queryJSONOutput, "json", false,
		"Print the full dashboard payload as JSON")
	queryCmd.Flags().BoolVar(&queryShowOrgs, "orgs", false,
		"List visible organizations")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runQueryCommand(cmd *cobra.Command, args []string) {
	req := datatypes.FilterSpec{
		Search:               querySearch,
		Donors:               queryDonors,
		Agencies:             queryAgencies,
		InvestmentTypes:      queryTypes,
		Themes:               queryThemes,
		GeneralContributions: queryGeneral,
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if queryJSONOutput {
		ux.SetPlain(true)
	}

	var payload datatypes.DashboardPayload
	err := ux.WithSpinner("Querying dashboard", func() error {
		return doJSON(ctx, "POST", "/v1/dashboard", &req, &payload)
	})
	if err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}

	if queryJSONOutput {
		if err := printJSON(payload); err != nil {
			ux.Error(err.Error())
			os.Exit(1)
		}
		return
	}

	ux.KeyValue("Organizations", fmt.Sprintf("%d", payload.Summary.Organizations))
	ux.KeyValue("Projects", fmt.Sprintf("%d", payload.Summary.Projects))
	ux.KeyValue("Donor countries", fmt.Sprintf("%d", payload.Summary.DonorCountries))

	if len(queryDonors) > 0 {
		fmt.Println()
		ux.Title("Selected donors: " + strings.Join(queryDonors, ", "))
		ux.KeyValue("Funding streams", fmt.Sprintf("%d", payload.Stats.FundingStreams))
		ux.KeyValue("Co-funded orgs", fmt.Sprintf("%d", payload.Stats.CoFundedOrgs))
		ux.KeyValue("Avg donors/org", fmt.Sprintf("%.2f", payload.Stats.AvgDonorsPerOrg))
		ux.KeyValue("Funding overlap", fmt.Sprintf("%.1f%%", payload.Stats.FundingOverlapPct))
	}

	if len(payload.TopDonors) > 0 {
		fmt.Println()
		ux.Title("Top co-financing donors")
		for _, d := range payload.TopDonors {
			fmt.Printf("  %-30s %d orgs\n", d.Country, d.Organizations)
		}
	}

	if queryShowOrgs {
		fmt.Println()
		ux.Title("Visible organizations")
		for _, org := range payload.Organizations {
			fmt.Printf("  %-50s %d projects\n", org.Name, len(org.Projects))
		}
	}
}
