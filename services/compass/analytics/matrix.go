// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package analytics derives statistics, chart series, and the donor-pair
// co-financing matrix from an organization graph.
package analytics

import (
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/filtering"
)

// entityDonors is one deduplicated organization or project together with its
// combined donor set.
type entityDonors struct {
	donors map[string]bool
}

// BuildMatrix computes the pairwise co-financing matrix for the given donor
// countries over the full graph, constrained by s's search/type/theme
// dimensions only.
//
// A cell (d1, d2) with d1 != d2 counts the distinct organizations and
// distinct projects whose combined donor sets contain both countries;
// organizations and projects are counted only after individually passing the
// active constraints, and are deduplicated by an (id, name) key to tolerate
// duplicate rows. Off-diagonal cells are symmetric. Diagonal cells carry the
// donor's own organization/project totals under the same rules, for
// contextual display.
func BuildMatrix(orgs []datatypes.Organization, donors []string, s filtering.Spec) *datatypes.CoFinancingMatrix {
	donors = dedupeStrings(donors)

	orgEntities := collectOrgEntities(orgs, s)
	projEntities := collectProjectEntities(orgs, s)

	cells := make(map[string]map[string]datatypes.MatrixCell, len(donors))
	for _, d1 := range donors {
		row := make(map[string]datatypes.MatrixCell, len(donors))
		for _, d2 := range donors {
			if d1 == d2 {
				row[d2] = datatypes.MatrixCell{
					Organizations: countWith(orgEntities, d1),
					Projects:      countWith(projEntities, d1),
				}
				continue
			}
			row[d2] = datatypes.MatrixCell{
				Organizations: countWithBoth(orgEntities, d1, d2),
				Projects:      countWithBoth(projEntities, d1, d2),
			}
		}
		cells[d1] = row
	}

	return &datatypes.CoFinancingMatrix{Donors: donors, Cells: cells}
}

// collectOrgEntities gathers every constraint-passing organization keyed by
// (id, name), with its combined donor set.
func collectOrgEntities(orgs []datatypes.Organization, s filtering.Spec) map[string]entityDonors {
	out := make(map[string]entityDonors, len(orgs))
	for i := range orgs {
		org := &orgs[i]
		if !orgPassesConstraints(org, s) {
			continue
		}
		key := org.ID + "\x00" + org.Name
		if _, ok := out[key]; ok {
			continue
		}
		set := make(map[string]bool, len(org.DonorInfo))
		for _, d := range org.DonorInfo {
			set[d.Country] = true
		}
		out[key] = entityDonors{donors: set}
	}
	return out
}

// collectProjectEntities gathers every constraint-passing project keyed by
// (id, name). A project's combined donor set is its parent's org-level
// donors plus its own project-level donors.
func collectProjectEntities(orgs []datatypes.Organization, s filtering.Spec) map[string]entityDonors {
	out := make(map[string]entityDonors)
	for i := range orgs {
		org := &orgs[i]
		for j := range org.Projects {
			p := &org.Projects[j]
			if !projectPassesConstraints(p, s) {
				continue
			}
			key := p.ID + "\x00" + p.Name
			if _, ok := out[key]; ok {
				continue
			}
			set := make(map[string]bool, len(org.DonorCountries)+len(p.DonorCountries))
			for _, c := range org.DonorCountries {
				set[c] = true
			}
			for _, c := range p.DonorCountries {
				set[c] = true
			}
			out[key] = entityDonors{donors: set}
		}
	}
	return out
}

// orgPassesConstraints gates an organization on the active search/type/theme
// constraints. Type and theme live on projects, so an organization passes
// those dimensions when at least one of its projects does; for search either
// the organization itself or one of its projects may match.
func orgPassesConstraints(org *datatypes.Organization, s filtering.Spec) bool {
	if s.SearchActive() && !s.OrgMatchesSearch(org) && !anyProject(org, s.ProjectMatchesSearch) {
		return false
	}
	if s.TypeActive() && !anyProject(org, s.ProjectMatchesType) {
		return false
	}
	if s.ThemeActive() && !anyProject(org, s.ProjectMatchesTheme) {
		return false
	}
	return true
}

func projectPassesConstraints(p *datatypes.Project, s filtering.Spec) bool {
	return s.ProjectMatchesSearch(p) && s.ProjectMatchesType(p) && s.ProjectMatchesTheme(p)
}

func anyProject(org *datatypes.Organization, match func(*datatypes.Project) bool) bool {
	for i := range org.Projects {
		if match(&org.Projects[i]) {
			return true
		}
	}
	return false
}

func countWith(entities map[string]entityDonors, donor string) int {
	n := 0
	for _, e := range entities {
		if e.donors[donor] {
			n++
		}
	}
	return n
}

func countWithBoth(entities map[string]entityDonors, d1, d2 string) int {
	n := 0
	for _, e := range entities {
		if e.donors[d1] && e.donors[d2] {
			n++
		}
	}
	return n
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
