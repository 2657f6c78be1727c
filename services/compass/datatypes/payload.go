// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// SummaryStats are the headline counts over the filtered view.
type SummaryStats struct {
	DonorCountries int `json:"donorCountries"`
	Organizations  int `json:"organizations"`
	Projects       int `json:"projects"`
}

// DonorStats are the scorecard statistics derived from the selected-donor
// set and the currently visible graph.
type DonorStats struct {
	// FundingStreams sums, across selected donors, the distinct
	// organizations each funds at the org level plus the distinct projects
	// each funds at the project level. An organization funded by two
	// selected donors counts twice, once per donor.
	FundingStreams int `json:"fundingStreams"`

	// AvgDonorsPerOrg is the mean total donor count among visible
	// organizations funded by at least one selected donor.
	AvgDonorsPerOrg float64 `json:"avgDonorsPerOrg"`

	// CoFundedOrgs counts organizations funded by two or more of the
	// selected donors.
	CoFundedOrgs int `json:"coFundedOrgs"`

	// FundingOverlapPct is 100 minus the share of organizations funded by
	// exactly one selected donor.
	FundingOverlapPct float64 `json:"fundingOverlapPct"`
}

// OrgProjectCount is one row of the flattened per-organization project
// count listing.
type OrgProjectCount struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Projects int    `json:"projects"`
}

// FilterOptions are the option lists available to the caller for building
// the next filter. Donors and investment types reflect the filtered set;
// themes reflect the full dataset.
type FilterOptions struct {
	Donors          []string            `json:"donors"`
	InvestmentTypes []string            `json:"investmentTypes"`
	Themes          []string            `json:"themes"`
	ThemesByType    map[string][]string `json:"themesByType"`
}

// TopDonor is one entry of the co-financing donor suggestion list.
type TopDonor struct {
	Country       string `json:"country"`
	Organizations int    `json:"organizations"`
}

// MatrixCell holds pairwise co-financing counts for one donor pair, or a
// donor's own totals on the diagonal.
type MatrixCell struct {
	Organizations int `json:"organizations"`
	Projects      int `json:"projects"`
}

// CoFinancingMatrix is the pairwise donor collaboration matrix. Cells is
// keyed by donor country on both axes; off-diagonal cells are symmetric.
type CoFinancingMatrix struct {
	Donors []string                         `json:"donors"`
	Cells  map[string]map[string]MatrixCell `json:"cells"`
}

// DashboardPayload is the full engine output for one filter request.
type DashboardPayload struct {
	Summary SummaryStats `json:"summary"`
	Stats   DonorStats   `json:"stats"`

	// ProjectTypeHistogram maps every known investment type to its distinct
	// project count in the filtered view, zero-filled.
	ProjectTypeHistogram map[string]int `json:"projectTypeHistogram"`

	// OrgTypeHistogram maps organization type labels to organization counts
	// in the filtered view.
	OrgTypeHistogram map[string]int `json:"orgTypeHistogram"`

	ProjectCounts []OrgProjectCount `json:"projectCounts"`

	Organizations    []Organization `json:"organizations"`
	AllOrganizations []Organization `json:"allOrganizations"`

	Options FilterOptions `json:"options"`

	TopDonors []TopDonor `json:"topDonors"`
}

// MatrixRequest is the input for the co-financing matrix endpoint.
type MatrixRequest struct {
	Donors          []string `json:"donors" validate:"required,min=1,max=200,dive,min=1"`
	Search          string   `json:"search" validate:"maxsearchbytes"`
	InvestmentTypes []string `json:"investmentTypes" validate:"max=200"`
	Themes          []string `json:"themes" validate:"max=200"`

	GeneralContributions bool `json:"generalContributions"`
}

// Validate checks structural bounds on the matrix request.
func (m *MatrixRequest) Validate() error {
	return filterValidate.Struct(m)
}

// SnapshotStatus describes the cache state for operational checks.
type SnapshotStatus struct {
	Loaded        bool   `json:"loaded"`
	FetchedAt     string `json:"fetchedAt,omitempty"`
	AgeSeconds    int64  `json:"ageSeconds"`
	Stale         bool   `json:"stale"`
	Organizations int    `json:"organizations"`
	Projects      int    `json:"projects"`
}
