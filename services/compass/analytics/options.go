// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analytics

import (
	"sort"

	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
)

// BuildOptions computes the filter option lists: donor countries and
// investment types from the filtered set, themes from the full dataset.
func BuildOptions(visible []datatypes.Organization, themesByType map[string][]string) datatypes.FilterOptions {
	donorSeen := make(map[string]bool)
	typeSeen := make(map[string]bool)
	var donors, types []string
	for i := range visible {
		for _, d := range visible[i].DonorInfo {
			if !donorSeen[d.Country] {
				donorSeen[d.Country] = true
				donors = append(donors, d.Country)
			}
		}
		for j := range visible[i].Projects {
			for _, t := range visible[i].Projects[j].InvestmentTypes {
				if !typeSeen[t] {
					typeSeen[t] = true
					types = append(types, t)
				}
			}
		}
	}
	sort.Strings(donors)
	sort.Strings(types)

	themeSeen := make(map[string]bool)
	var themes []string
	for _, group := range themesByType {
		for _, t := range group {
			if !themeSeen[t] {
				themeSeen[t] = true
				themes = append(themes, t)
			}
		}
	}
	sort.Strings(themes)

	return datatypes.FilterOptions{
		Donors:          donors,
		InvestmentTypes: types,
		Themes:          themes,
		ThemesByType:    themesByType,
	}
}

// Summary computes the headline counts over the filtered view: distinct
// donor countries, organizations, and distinct projects.
func Summary(visible []datatypes.Organization) datatypes.SummaryStats {
	donorSeen := make(map[string]bool)
	projSeen := make(map[string]bool)
	for i := range visible {
		for _, d := range visible[i].DonorInfo {
			donorSeen[d.Country] = true
		}
		for j := range visible[i].Projects {
			p := &visible[i].Projects[j]
			projSeen[p.ID+"\x00"+p.Name] = true
		}
	}
	return datatypes.SummaryStats{
		DonorCountries: len(donorSeen),
		Organizations:  len(visible),
		Projects:       len(projSeen),
	}
}

// ProjectTypeHistogram counts distinct projects per investment type in the
// filtered view, zero-filled across every known type. A project carrying
// several types counts once under each.
func ProjectTypeHistogram(visible []datatypes.Organization, allTypes []string) map[string]int {
	perType := make(map[string]map[string]bool, len(allTypes))
	hist := make(map[string]int, len(allTypes))
	for _, t := range allTypes {
		hist[t] = 0
	}
	for i := range visible {
		for j := range visible[i].Projects {
			p := &visible[i].Projects[j]
			key := p.ID + "\x00" + p.Name
			for _, t := range p.InvestmentTypes {
				if perType[t] == nil {
					perType[t] = make(map[string]bool)
				}
				perType[t][key] = true
			}
		}
	}
	for t, set := range perType {
		hist[t] = len(set)
	}
	return hist
}

// OrgTypeHistogram counts organizations per type label in the filtered view.
func OrgTypeHistogram(visible []datatypes.Organization) map[string]int {
	hist := make(map[string]int)
	for i := range visible {
		if visible[i].OrgType == "" {
			continue
		}
		hist[visible[i].OrgType]++
	}
	return hist
}

// ProjectCounts flattens the per-organization visible project counts for
// simple listings, sorted by organization name.
func ProjectCounts(visible []datatypes.Organization) []datatypes.OrgProjectCount {
	out := make([]datatypes.OrgProjectCount, 0, len(visible))
	for i := range visible {
		out = append(out, datatypes.OrgProjectCount{
			ID:       visible[i].ID,
			Name:     visible[i].Name,
			Projects: visible[i].ProjectCount,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TopCoFinancingDonors ranks donors appearing in the filtered view, excluding
// the already-selected ones, by the distinct organizations they fund. Ties
// break alphabetically.
func TopCoFinancingDonors(visible []datatypes.Organization, selected []string, n int) []datatypes.TopDonor {
	if n <= 0 {
		return nil
	}
	excluded := make(map[string]bool, len(selected))
	for _, d := range selected {
		excluded[d] = true
	}

	orgsByDonor := make(map[string]map[string]bool)
	for i := range visible {
		key := orgKey(&visible[i])
		for _, d := range visible[i].DonorInfo {
			if excluded[d.Country] {
				continue
			}
			if orgsByDonor[d.Country] == nil {
				orgsByDonor[d.Country] = make(map[string]bool)
			}
			orgsByDonor[d.Country][key] = true
		}
	}

	ranked := make([]datatypes.TopDonor, 0, len(orgsByDonor))
	for country, orgs := range orgsByDonor {
		ranked = append(ranked, datatypes.TopDonor{Country: country, Organizations: len(orgs)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Organizations != ranked[j].Organizations {
			return ranked[i].Organizations > ranked[j].Organizations
		}
		return ranked[i].Country < ranked[j].Country
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
