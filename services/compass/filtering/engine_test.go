// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package filtering

import (
	"testing"

	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visibleIDs(orgs []datatypes.Organization) []string {
	ids := make([]string, 0, len(orgs))
	for i := range orgs {
		ids = append(ids, orgs[i].ID)
	}
	return ids
}

// =============================================================================
// Identity and Donor Gatekeeping
// =============================================================================

func TestApply_EmptySpecIsIdentity(t *testing.T) {
	orgs := fixtureOrgs()
	visible := Apply(orgs, NewSpec(datatypes.FilterSpec{}, nil))
	assert.Equal(t, orgs, visible)
}

func TestApply_DonorsAreConjunctive(t *testing.T) {
	orgs := fixtureOrgs()

	tests := []struct {
		name   string
		donors []string
		want   []string
	}{
		{"single donor", []string{"Germany"}, []string{"org-a", "org-b"}},
		{"two donors must both be present", []string{"Germany", "Finland"}, []string{"org-a", "org-b"}},
		{"donor only one org carries", []string{"Sweden"}, []string{"org-c"}},
		{"impossible combination", []string{"Germany", "Sweden"}, []string{}},
		{"unknown donor", []string{"Atlantis"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visible := Apply(orgs, NewSpec(datatypes.FilterSpec{Donors: tt.donors}, nil))
			assert.Equal(t, tt.want, visibleIDs(visible))
		})
	}
}

// =============================================================================
// Search Precedence
// =============================================================================

func TestApply_OrgSearchMatchKeepsAllProjects(t *testing.T) {
	orgs := fixtureOrgs()
	visible := Apply(orgs, NewSpec(datatypes.FilterSpec{
		Donors: []string{"Germany"},
		Search: "alpha",
	}, nil))

	require.Equal(t, []string{"org-a"}, visibleIDs(visible))
	// The org itself matched, so its projects are exempt from search.
	assert.Len(t, visible[0].Projects, 1)
}

func TestApply_ProjectSearchMatchSurfacesOrg(t *testing.T) {
	orgs := fixtureOrgs()
	visible := Apply(orgs, NewSpec(datatypes.FilterSpec{Search: "census"}, nil))

	require.Equal(t, []string{"org-c"}, visibleIDs(visible))
	assert.Equal(t, "p3", visible[0].Projects[0].ID)
}

func TestApply_SearchWithoutMatchHides(t *testing.T) {
	orgs := fixtureOrgs()
	visible := Apply(orgs, NewSpec(datatypes.FilterSpec{Search: "zzz-no-such-term"}, nil))
	assert.Empty(t, visible)
}

// =============================================================================
// Type and Theme Narrowing
// =============================================================================

func TestApply_TypeNarrowing(t *testing.T) {
	orgs := fixtureOrgs()
	visible := Apply(orgs, NewSpec(datatypes.FilterSpec{
		InvestmentTypes: []string{"Data Sharing"},
	}, nil))
	assert.Equal(t, []string{"org-c"}, visibleIDs(visible))
}

func TestApply_ThemeNarrowing(t *testing.T) {
	orgs := fixtureOrgs()
	visible := Apply(orgs, NewSpec(datatypes.FilterSpec{
		Themes: []string{"Displacement"},
	}, nil))
	require.Equal(t, []string{"org-b"}, visibleIDs(visible))
	assert.Equal(t, "p2", visible[0].Projects[0].ID)
}

// =============================================================================
// Agency Filtering
// =============================================================================

func TestApply_AgencyOrgLevelMatch(t *testing.T) {
	orgs := fixtureOrgs()
	visible := Apply(orgs, NewSpec(datatypes.FilterSpec{
		Donors:   []string{"Germany"},
		Agencies: []string{"GIZ"},
	}, fixtureKnownAgencies()))
	assert.Equal(t, []string{"org-a"}, visibleIDs(visible))
}

func TestApply_AgencyProjectLevelMatch(t *testing.T) {
	orgs := fixtureOrgs()
	visible := Apply(orgs, NewSpec(datatypes.FilterSpec{
		Donors:   []string{"Germany"},
		Agencies: []string{"BMZ"},
	}, fixtureKnownAgencies()))
	assert.Equal(t, []string{"org-b"}, visibleIDs(visible))
}

func TestApply_AllAgenciesEqualsNoAgencyFilter(t *testing.T) {
	orgs := fixtureOrgs()

	all := Apply(orgs, NewSpec(datatypes.FilterSpec{
		Donors:   []string{"Germany"},
		Agencies: []string{"GIZ", "BMZ"},
	}, fixtureKnownAgencies()))
	none := Apply(orgs, NewSpec(datatypes.FilterSpec{
		Donors: []string{"Germany"},
	}, fixtureKnownAgencies()))

	assert.Equal(t, none, all)
}

// =============================================================================
// DonorInfo Pruning
// =============================================================================

func TestApply_PrunesDonorInfoToVisibleProjects(t *testing.T) {
	org := datatypes.Organization{
		ID: "org-d", Name: "Delta Observatory", OrgType: "NGO",
		DonorCountries: []string{"Germany"},
		DonorInfo: []datatypes.DonorEntry{
			{Country: "Germany", IsOrgLevel: true},
			{Country: "Denmark", IsOrgLevel: false},
			{Country: "Norway", IsOrgLevel: false},
		},
		Projects: []datatypes.Project{
			{
				ID: "pA", Name: "Flood Atlas",
				DonorCountries:  []string{"Denmark"},
				InvestmentTypes: []string{"Data Collection"},
				Themes:          []string{"Flooding"},
			},
			{
				ID: "pB", Name: "Heat Atlas",
				DonorCountries:  []string{"Norway"},
				InvestmentTypes: []string{"Data Sharing"},
				Themes:          []string{"Heat"},
			},
		},
		ProjectCount: 2,
	}

	visible := Apply([]datatypes.Organization{org}, NewSpec(datatypes.FilterSpec{
		Themes: []string{"Flooding"},
	}, nil))

	require.Len(t, visible, 1)
	shown := visible[0]
	assert.Equal(t, 1, shown.ProjectCount)
	require.Len(t, shown.Projects, 1)
	assert.Equal(t, "pA", shown.Projects[0].ID)

	// Norway funded only the filtered-out project, so it disappears.
	assert.Equal(t, []datatypes.DonorEntry{
		{Country: "Germany", IsOrgLevel: true},
		{Country: "Denmark", IsOrgLevel: false},
	}, shown.DonorInfo)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	orgs := fixtureOrgs()
	before := fixtureOrgs()

	_ = Apply(orgs, NewSpec(datatypes.FilterSpec{
		Donors: []string{"Germany"},
		Themes: []string{"Displacement"},
	}, fixtureKnownAgencies()))

	assert.Equal(t, before, orgs)
}
