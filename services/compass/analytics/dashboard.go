// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analytics

import (
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/assembler"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/filtering"
)

// Dataset is one immutable assembled snapshot of the funding graph plus the
// directories the aggregator needs alongside it.
type Dataset struct {
	Organizations   []datatypes.Organization
	KnownAgencies   map[string][]string
	ThemesByType    map[string][]string
	InvestmentTypes []string
	MemberStates    []string
}

// BuildDashboard runs the full request pipeline over one dataset: donor
// injection, filtering, and aggregation into the result payload.
//
// When general contributions are enabled, AllOrganizations reflects the
// injected graph: the implicit member-state donors are part of the dataset
// the caller asked to see, filtered or not.
func BuildDashboard(ds *Dataset, req datatypes.FilterSpec, topN int) *datatypes.DashboardPayload {
	req.Normalize()

	all := ds.Organizations
	if req.GeneralContributions {
		all = assembler.InjectGeneralContributions(all, req.Donors, ds.MemberStates)
	}

	spec := filtering.NewSpec(req, ds.KnownAgencies)
	visible := filtering.Apply(all, spec)

	return &datatypes.DashboardPayload{
		Summary:              Summary(visible),
		Stats:                ComputeDonorStats(visible, all, req.Donors),
		ProjectTypeHistogram: ProjectTypeHistogram(visible, ds.InvestmentTypes),
		OrgTypeHistogram:     OrgTypeHistogram(visible),
		ProjectCounts:        ProjectCounts(visible),
		Organizations:        visible,
		AllOrganizations:     all,
		Options:              BuildOptions(visible, ds.ThemesByType),
		TopDonors:            TopCoFinancingDonors(visible, req.Donors, topN),
	}
}

// BuildCoFinancingMatrix computes the donor-pair matrix for one request over
// the dataset, applying donor injection and the search/type/theme
// constraints but no donor or agency gatekeeping.
func BuildCoFinancingMatrix(ds *Dataset, req datatypes.MatrixRequest) *datatypes.CoFinancingMatrix {
	orgs := ds.Organizations
	if req.GeneralContributions {
		orgs = assembler.InjectGeneralContributions(orgs, req.Donors, ds.MemberStates)
	}
	spec := filtering.NewConstraintSpec(req.Search, req.InvestmentTypes, req.Themes)
	return BuildMatrix(orgs, req.Donors, spec)
}
