// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package assembler converts the flat relational rows of the funding
// dataset into the nested organization graph served by the engine.
//
// # Description
//
// Assembly is a pure function over one RowBundle: group the funding and
// membership edges by owner, resolve each organization's agencies into its
// org-level donor set, resolve each project's agencies and themes, and
// accumulate the combined donor list. The resulting graph is rebuilt from
// scratch on every snapshot refresh and is never mutated afterwards; all
// downstream consumers treat it as immutable.
//
// Malformed rows are tolerated, not rejected: a funding edge pointing at an
// unknown agency, an agency without a country name, or a theme without a
// type simply contributes nothing to the derived sets.
package assembler

import (
	"sort"

	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
)

// Build assembles the nested organization graph from the flat row bundle.
// Organizations keep the bundle's row order; projects keep edge order.
func Build(bundle *datatypes.RowBundle) []datatypes.Organization {
	if bundle == nil {
		return nil
	}

	agenciesByID := make(map[string]datatypes.AgencyRow, len(bundle.Agencies))
	for _, a := range bundle.Agencies {
		agenciesByID[a.ID] = a
	}
	projectsByID := make(map[string]datatypes.ProjectRow, len(bundle.Projects))
	for _, p := range bundle.Projects {
		projectsByID[p.ID] = p
	}
	themesByID := make(map[string]datatypes.ThemeRow, len(bundle.Themes))
	for _, t := range bundle.Themes {
		themesByID[t.ID] = t
	}

	orgAgencies := make(map[string][]datatypes.AgencyRow)
	for _, edge := range bundle.OrgAgencies {
		agency, ok := agenciesByID[edge.AgencyID]
		if !ok {
			continue
		}
		orgAgencies[edge.OrgID] = append(orgAgencies[edge.OrgID], agency)
	}

	orgProjects := make(map[string][]string)
	for _, edge := range bundle.OrgProjects {
		if _, ok := projectsByID[edge.ProjectID]; !ok {
			continue
		}
		orgProjects[edge.OrgID] = append(orgProjects[edge.OrgID], edge.ProjectID)
	}

	projectAgencies := make(map[string][]datatypes.AgencyRow)
	for _, edge := range bundle.ProjectAgencies {
		agency, ok := agenciesByID[edge.AgencyID]
		if !ok {
			continue
		}
		projectAgencies[edge.ProjectID] = append(projectAgencies[edge.ProjectID], agency)
	}

	projectThemes := make(map[string][]datatypes.ThemeRow)
	for _, edge := range bundle.ProjectThemes {
		theme, ok := themesByID[edge.ThemeID]
		if !ok {
			continue
		}
		projectThemes[edge.ProjectID] = append(projectThemes[edge.ProjectID], theme)
	}

	orgs := make([]datatypes.Organization, 0, len(bundle.Organizations))
	for _, row := range bundle.Organizations {
		org := assembleOrganization(row, orgAgencies[row.ID], orgProjects[row.ID],
			projectsByID, projectAgencies, projectThemes)
		orgs = append(orgs, org)
	}
	return orgs
}

func assembleOrganization(
	row datatypes.OrganizationRow,
	agencies []datatypes.AgencyRow,
	projectIDs []string,
	projectsByID map[string]datatypes.ProjectRow,
	projectAgencies map[string][]datatypes.AgencyRow,
	projectThemes map[string][]datatypes.ThemeRow,
) datatypes.Organization {
	orgDonors, orgAgencyNames := donorSets(agencies)

	seenProject := make(map[string]bool, len(projectIDs))
	projects := make([]datatypes.Project, 0, len(projectIDs))
	ids := make([]string, 0, len(projectIDs))
	for _, pid := range projectIDs {
		if seenProject[pid] {
			continue
		}
		seenProject[pid] = true
		projects = append(projects, assembleProject(projectsByID[pid],
			projectAgencies[pid], projectThemes[pid]))
		ids = append(ids, pid)
	}

	org := datatypes.Organization{
		ID:              row.ID,
		Name:            row.Name,
		OrgType:         row.OrgType,
		Description:     row.Description,
		FundingType:     row.FundingType,
		EstBudget:       row.EstBudget,
		Website:         row.Website,
		DonorCountries:  orgDonors,
		AgenciesByDonor: orgAgencyNames,
		Projects:        projects,
		ProjectCount:    len(projects),
		Meta: datatypes.OrgMeta{
			OrgKey:       row.OrgKey,
			ShortName:    row.ShortName,
			HQCountry:    row.HQCountry,
			BudgetSource: row.BudgetSource,
			BudgetLink:   row.BudgetLink,
			HDXKey:       row.HDXKey,
			IATIKey:      row.IATIKey,
			LastUpdated:  row.LastUpdated,
			ProjectIDs:   ids,
		},
	}

	org.DonorInfo = combinedDonorInfo(orgDonors, projects)
	return org
}

func assembleProject(
	row datatypes.ProjectRow,
	agencies []datatypes.AgencyRow,
	themes []datatypes.ThemeRow,
) datatypes.Project {
	donors, agencyNames := donorSets(agencies)

	themeNames := make([]string, 0, len(themes))
	typeSet := make(map[string]bool)
	types := make([]string, 0, 2)
	for _, t := range themes {
		if t.Name != "" {
			themeNames = append(themeNames, t.Name)
		}
		if t.InvestmentType == "" || typeSet[t.InvestmentType] {
			continue
		}
		typeSet[t.InvestmentType] = true
		types = append(types, t.InvestmentType)
	}
	sort.Strings(types)

	return datatypes.Project{
		ID:              row.ID,
		Key:             row.Key,
		Name:            row.Name,
		Description:     row.Description,
		Website:         row.Website,
		DonorCountries:  donors,
		AgenciesByDonor: agencyNames,
		InvestmentTypes: types,
		Themes:          themeNames,
	}
}

// donorSets derives the deduplicated, sorted donor country set and the
// donor-to-agency-name map from a list of agency rows. Agencies with no
// country name contribute nothing.
func donorSets(agencies []datatypes.AgencyRow) ([]string, map[string][]string) {
	seen := make(map[string]bool)
	donors := make([]string, 0, len(agencies))
	byDonor := make(map[string][]string)
	for _, a := range agencies {
		if a.Country == "" {
			continue
		}
		if !seen[a.Country] {
			seen[a.Country] = true
			donors = append(donors, a.Country)
		}
		if a.Name != "" && !containsString(byDonor[a.Country], a.Name) {
			byDonor[a.Country] = append(byDonor[a.Country], a.Name)
		}
	}
	sort.Strings(donors)
	for _, names := range byDonor {
		sort.Strings(names)
	}
	if len(byDonor) == 0 {
		byDonor = nil
	}
	return donors, byDonor
}

// combinedDonorInfo builds the DonorInfo union: every org-level donor plus
// every donor on any child project, flagged by level and sorted org-level
// first, then alphabetical.
func combinedDonorInfo(orgDonors []string, projects []datatypes.Project) []datatypes.DonorEntry {
	orgLevel := make(map[string]bool, len(orgDonors))
	for _, c := range orgDonors {
		orgLevel[c] = true
	}

	seen := make(map[string]bool)
	info := make([]datatypes.DonorEntry, 0, len(orgDonors))
	for _, c := range orgDonors {
		if seen[c] {
			continue
		}
		seen[c] = true
		info = append(info, datatypes.DonorEntry{Country: c, IsOrgLevel: true})
	}
	for _, p := range projects {
		for _, c := range p.DonorCountries {
			if seen[c] {
				continue
			}
			seen[c] = true
			info = append(info, datatypes.DonorEntry{Country: c, IsOrgLevel: orgLevel[c]})
		}
	}

	sort.SliceStable(info, func(i, j int) bool {
		if info[i].IsOrgLevel != info[j].IsOrgLevel {
			return info[i].IsOrgLevel
		}
		return info[i].Country < info[j].Country
	})
	return info
}

// KnownAgencies collects every agency name known for each donor country
// across both funding levels. The filter engine uses this directory for the
// all-agencies bypass rule.
func KnownAgencies(orgs []datatypes.Organization) map[string][]string {
	byDonor := make(map[string]map[string]bool)
	add := func(m map[string][]string, country, name string) {
		set, ok := byDonor[country]
		if !ok {
			set = make(map[string]bool)
			byDonor[country] = set
		}
		if !set[name] {
			set[name] = true
			m[country] = append(m[country], name)
		}
	}

	out := make(map[string][]string)
	for i := range orgs {
		for country, names := range orgs[i].AgenciesByDonor {
			for _, n := range names {
				add(out, country, n)
			}
		}
		for _, p := range orgs[i].Projects {
			for country, names := range p.AgenciesByDonor {
				for _, n := range names {
					add(out, country, n)
				}
			}
		}
	}
	for _, names := range out {
		sort.Strings(names)
	}
	return out
}

// ThemesByType groups the theme directory by parent investment type.
// Themes with no type are skipped.
func ThemesByType(bundle *datatypes.RowBundle) map[string][]string {
	grouped := make(map[string][]string)
	seen := make(map[string]map[string]bool)
	for _, t := range bundle.Themes {
		if t.InvestmentType == "" || t.Name == "" {
			continue
		}
		if seen[t.InvestmentType] == nil {
			seen[t.InvestmentType] = make(map[string]bool)
		}
		if seen[t.InvestmentType][t.Name] {
			continue
		}
		seen[t.InvestmentType][t.Name] = true
		grouped[t.InvestmentType] = append(grouped[t.InvestmentType], t.Name)
	}
	for _, names := range grouped {
		sort.Strings(names)
	}
	return grouped
}

// InvestmentTypes returns the sorted list of every known investment type in
// the theme directory.
func InvestmentTypes(bundle *datatypes.RowBundle) []string {
	seen := make(map[string]bool)
	types := make([]string, 0, 8)
	for _, t := range bundle.Themes {
		if t.InvestmentType == "" || seen[t.InvestmentType] {
			continue
		}
		seen[t.InvestmentType] = true
		types = append(types, t.InvestmentType)
	}
	sort.Strings(types)
	return types
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
