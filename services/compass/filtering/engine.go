// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package filtering

import (
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
)

// Apply evaluates the filter decision table against every organization and
// returns the visible subgraph. The input graph is never mutated; every
// shown organization is a copy carrying only its visible projects, a pruned
// DonorInfo, and an updated ProjectCount.
//
// Decision order per organization:
//
//  1. Donor gatekeeping against the whole organization.
//  2. Organization meets the donor requirement: projects are narrowed by the
//     remaining dimensions, with search handled by precedence (an org-level
//     search match exempts projects from re-matching search).
//  3. Organization fails the donor requirement: each project may rescue the
//     organization by independently satisfying every active dimension,
//     donor requirement included.
//  4. Organization visibility per the retained projects and org-level
//     matches.
//  5. DonorInfo pruning to org-level donors plus visible-project donors.
func Apply(orgs []datatypes.Organization, s Spec) []datatypes.Organization {
	out := make([]datatypes.Organization, 0, len(orgs))
	for i := range orgs {
		if shown, ok := applyToOrg(&orgs[i], s); ok {
			out = append(out, shown)
		}
	}
	return out
}

func applyToOrg(org *datatypes.Organization, s Spec) (datatypes.Organization, bool) {
	if s.OrgMeetsDonors(org) {
		return applyDonorMet(org, s)
	}
	return applyDonorFailed(org, s)
}

// applyDonorMet handles rules 2 and 4(a-c): the organization as a whole
// carries every required donor.
func applyDonorMet(org *datatypes.Organization, s Spec) (datatypes.Organization, bool) {
	orgMatchedSearch := s.SearchActive() && s.OrgMatchesSearch(org)

	var visible []datatypes.Project
	if orgMatchedSearch || !s.SearchActive() {
		// Search either already satisfied at the org level or absent:
		// narrow by type, theme, and agency only.
		visible = narrowProjects(org, s, func(p *datatypes.Project) bool {
			return s.ProjectMatchesType(p) &&
				s.ProjectMatchesTheme(p) &&
				s.ProjectMatchesAgency(org, p)
		})
	} else {
		// Search is active but the org itself did not match: each project
		// must carry the search on its own. Agency is already satisfied at
		// the org level where it applies, so it is not re-checked here.
		visible = narrowProjects(org, s, func(p *datatypes.Project) bool {
			return s.ProjectMatchesSearch(p) &&
				s.ProjectMatchesType(p) &&
				s.ProjectMatchesTheme(p)
		})
	}

	narrowActive := s.TypeActive() || s.ThemeActive() || s.AgencyActive()
	var show bool
	switch {
	case !s.SearchActive() && !narrowActive:
		// Rule 4(a): donor requirement met and no other filter active.
		show = true
	case s.SearchActive() && !narrowActive:
		// Rule 4(b): only search active.
		show = orgMatchedSearch || len(visible) > 0
	default:
		// Rule 4(c): a narrowing filter is active.
		show = len(visible) > 0 || s.OrgMatchesAgency(org)
	}
	if !show {
		return datatypes.Organization{}, false
	}
	return prunedCopy(org, visible), true
}

// applyDonorFailed handles rules 3 and 4(d): the organization misses at
// least one required donor, but an individual project can still surface it
// when the project's own combined donor set satisfies the requirement.
func applyDonorFailed(org *datatypes.Organization, s Spec) (datatypes.Organization, bool) {
	visible := narrowProjects(org, s, func(p *datatypes.Project) bool {
		return s.ProjectMeetsDonors(org, p) &&
			s.ProjectMatchesAgency(org, p) &&
			s.ProjectMatchesSearch(p) &&
			s.ProjectMatchesType(p) &&
			s.ProjectMatchesTheme(p)
	})
	if len(visible) == 0 {
		return datatypes.Organization{}, false
	}
	return prunedCopy(org, visible), true
}

func narrowProjects(org *datatypes.Organization, _ Spec, keep func(*datatypes.Project) bool) []datatypes.Project {
	visible := make([]datatypes.Project, 0, len(org.Projects))
	for i := range org.Projects {
		if keep(&org.Projects[i]) {
			visible = append(visible, org.Projects[i])
		}
	}
	return visible
}

// prunedCopy builds the displayed organization: visible projects only, and
// DonorInfo rebuilt from the org-level donors plus the donors actually
// present on visible projects. Donors relevant only to filtered-out projects
// disappear from the displayed entity.
func prunedCopy(org *datatypes.Organization, visible []datatypes.Project) datatypes.Organization {
	shown := *org
	shown.Projects = visible
	shown.ProjectCount = len(visible)

	orgLevel := make(map[string]bool, len(org.DonorCountries))
	seen := make(map[string]bool, len(org.DonorCountries))
	info := make([]datatypes.DonorEntry, 0, len(org.DonorInfo))
	for _, c := range org.DonorCountries {
		orgLevel[c] = true
		if !seen[c] {
			seen[c] = true
			info = append(info, datatypes.DonorEntry{Country: c, IsOrgLevel: true})
		}
	}
	for i := range visible {
		for _, c := range visible[i].DonorCountries {
			if !seen[c] {
				seen[c] = true
				info = append(info, datatypes.DonorEntry{Country: c, IsOrgLevel: orgLevel[c]})
			}
		}
	}
	shown.DonorInfo = info
	shown.SortDonorInfo()
	return shown
}
