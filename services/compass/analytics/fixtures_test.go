// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analytics

import (
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
)

// fixtureOrgs mirrors a small assembled graph:
//
//   - Alpha: core-funded, Germany at org level, project p1 funded by Finland
//   - Beta: earmarked, no org-level donors, project p2 funded by
//     Germany + Finland at project level
//   - Gamma: core-funded, no org-level donors, project p3 funded by Sweden
func fixtureOrgs() []datatypes.Organization {
	return []datatypes.Organization{
		{
			ID: "org-a", Name: "Alpha Data Initiative", OrgType: "NGO", FundingType: "Core",
			DonorCountries:  []string{"Germany"},
			AgenciesByDonor: map[string][]string{"Germany": {"GIZ"}},
			DonorInfo: []datatypes.DonorEntry{
				{Country: "Germany", IsOrgLevel: true},
				{Country: "Finland", IsOrgLevel: false},
			},
			Projects: []datatypes.Project{{
				ID: "p1", Name: "Drought Monitor",
				Description:     "Satellite drought early warning",
				DonorCountries:  []string{"Finland"},
				InvestmentTypes: []string{"Data Collection"},
				Themes:          []string{"Food Security"},
			}},
			ProjectCount: 1,
		},
		{
			ID: "org-b", Name: "Beta Crisis Platform", OrgType: "UN Agency", FundingType: "Earmarked",
			DonorInfo: []datatypes.DonorEntry{
				{Country: "Finland", IsOrgLevel: false},
				{Country: "Germany", IsOrgLevel: false},
			},
			Projects: []datatypes.Project{{
				ID: "p2", Name: "Displacement Tracker",
				Description:     "Cross-border displacement data",
				DonorCountries:  []string{"Finland", "Germany"},
				InvestmentTypes: []string{"Data Collection"},
				Themes:          []string{"Displacement"},
			}},
			ProjectCount: 1,
		},
		{
			ID: "org-c", Name: "Gamma Statistics Fund", OrgType: "Foundation", FundingType: "Core",
			DonorInfo: []datatypes.DonorEntry{
				{Country: "Sweden", IsOrgLevel: false},
			},
			Projects: []datatypes.Project{{
				ID: "p3", Name: "Census Support",
				Description:     "National census modernization",
				DonorCountries:  []string{"Sweden"},
				InvestmentTypes: []string{"Data Sharing"},
				Themes:          []string{"Health Data"},
			}},
			ProjectCount: 1,
		},
	}
}

func fixtureDataset() *Dataset {
	return &Dataset{
		Organizations: fixtureOrgs(),
		KnownAgencies: map[string][]string{
			"Germany": {"BMZ", "GIZ"},
			"Finland": {"Ministry for Foreign Affairs"},
			"Sweden":  {"Sida"},
		},
		ThemesByType: map[string][]string{
			"Data Collection": {"Displacement", "Food Security"},
			"Data Sharing":    {"Health Data"},
		},
		InvestmentTypes: []string{"Data Collection", "Data Sharing"},
		MemberStates:    []string{"Finland", "France", "Germany", "Sweden"},
	}
}
