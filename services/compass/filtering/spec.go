// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package filtering applies the multi-dimensional cascading filter policy to
// the organization graph.
//
// # Description
//
// The policy has several non-obvious precedence rules, so it is implemented
// as an explicit ordered decision table (engine.go) over a set of named
// predicates (this file), one predicate per filter dimension. Each predicate
// is independently unit-testable and trivially inactive when its dimension
// is unset.
//
// Dimension semantics:
//
//   - donors: conjunctive, every selected country must appear in the
//     entity's combined donor set
//   - agencies: meaningful only when exactly one donor is selected;
//     selecting every agency known for that donor disables the filter
//   - investment types: disjunctive, case-insensitive substring containment
//     in either direction (captures near-duplicate labels)
//   - themes: disjunctive, exact match after trimming and case-folding
//   - search: case-insensitive substring over organization name/type and
//     project name/description
package filtering

import (
	"strings"

	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
)

// Spec is a normalized, match-ready filter specification.
type Spec struct {
	search       string
	donors       []string
	agencies     map[string]bool
	agencyActive bool
	types        []string
	themes       map[string]bool
}

// NewSpec normalizes a caller filter against the known-agency directory.
// knownAgencies maps donor country to every agency name observed for it at
// either funding level; it drives the all-agencies bypass rule.
func NewSpec(f datatypes.FilterSpec, knownAgencies map[string][]string) Spec {
	s := Spec{
		search: strings.ToLower(strings.TrimSpace(f.Search)),
		donors: f.Donors,
	}

	for _, t := range f.InvestmentTypes {
		if folded := strings.ToLower(strings.TrimSpace(t)); folded != "" {
			s.types = append(s.types, folded)
		}
	}

	if len(f.Themes) > 0 {
		s.themes = make(map[string]bool, len(f.Themes))
		for _, t := range f.Themes {
			if folded := strings.ToLower(strings.TrimSpace(t)); folded != "" {
				s.themes[folded] = true
			}
		}
	}

	// The agency dimension only means something for a single donor country.
	if len(f.Agencies) > 0 && len(f.Donors) == 1 {
		s.agencies = make(map[string]bool, len(f.Agencies))
		for _, a := range f.Agencies {
			s.agencies[a] = true
		}
		s.agencyActive = !s.coversAllKnown(knownAgencies[f.Donors[0]])
	}

	return s
}

// NewConstraintSpec builds a spec carrying only the search/type/theme
// constraints. The aggregator uses it to gate matrix counting without donor
// or agency gatekeeping.
func NewConstraintSpec(search string, investmentTypes, themes []string) Spec {
	return NewSpec(datatypes.FilterSpec{
		Search:          search,
		InvestmentTypes: investmentTypes,
		Themes:          themes,
	}, nil)
}

// coversAllKnown reports whether the selected agency set covers every known
// agency for the selected donor. Selecting "every agency" is equivalent to
// no agency filter at all.
func (s Spec) coversAllKnown(known []string) bool {
	for _, name := range known {
		if !s.agencies[name] {
			return false
		}
	}
	return true
}

// SearchActive reports whether free-text search is set.
func (s Spec) SearchActive() bool { return s.search != "" }

// DonorActive reports whether at least one donor country is required.
func (s Spec) DonorActive() bool { return len(s.donors) > 0 }

// AgencyActive reports whether the agency filter participates in decisions.
func (s Spec) AgencyActive() bool { return s.agencyActive }

// TypeActive reports whether the investment type filter is set.
func (s Spec) TypeActive() bool { return len(s.types) > 0 }

// ThemeActive reports whether the theme filter is set.
func (s Spec) ThemeActive() bool { return len(s.themes) > 0 }

// Donors returns the required donor countries.
func (s Spec) Donors() []string { return s.donors }

// OrgMeetsDonors is the donor gatekeeping predicate: every selected donor
// country must appear in the organization's combined donor set, evaluated
// against the whole organization rather than per project.
func (s Spec) OrgMeetsDonors(org *datatypes.Organization) bool {
	for _, d := range s.donors {
		if !org.HasDonor(d) {
			return false
		}
	}
	return true
}

// ProjectMeetsDonors checks the donor requirement against a single project's
// combined donor set: the parent's org-level donors plus the project's own.
// This is the rescue path for projects whose parent organization fails the
// org-wide donor requirement.
func (s Spec) ProjectMeetsDonors(org *datatypes.Organization, p *datatypes.Project) bool {
	for _, d := range s.donors {
		if !org.HasOrgLevelDonor(d) && !containsString(p.DonorCountries, d) {
			return false
		}
	}
	return true
}

// OrgMatchesSearch matches the search text against the organization's own
// name and type label.
func (s Spec) OrgMatchesSearch(org *datatypes.Organization) bool {
	if s.search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(org.Name), s.search) ||
		strings.Contains(strings.ToLower(org.OrgType), s.search)
}

// ProjectMatchesSearch matches the search text against the project's name
// and description.
func (s Spec) ProjectMatchesSearch(p *datatypes.Project) bool {
	if s.search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), s.search) ||
		strings.Contains(strings.ToLower(p.Description), s.search)
}

// ProjectMatchesType matches any selected investment type against any of the
// project's types with case-insensitive containment in either direction.
func (s Spec) ProjectMatchesType(p *datatypes.Project) bool {
	if len(s.types) == 0 {
		return true
	}
	for _, selected := range s.types {
		for _, have := range p.InvestmentTypes {
			folded := strings.ToLower(have)
			if strings.Contains(folded, selected) || strings.Contains(selected, folded) {
				return true
			}
		}
	}
	return false
}

// ProjectMatchesTheme matches any of the project's themes exactly against
// the selected themes, after trimming and case-folding.
func (s Spec) ProjectMatchesTheme(p *datatypes.Project) bool {
	if len(s.themes) == 0 {
		return true
	}
	for _, t := range p.Themes {
		if s.themes[strings.ToLower(strings.TrimSpace(t))] {
			return true
		}
	}
	return false
}

// OrgMatchesAgency reports whether the organization carries any selected
// agency at the org level for the selected donor.
func (s Spec) OrgMatchesAgency(org *datatypes.Organization) bool {
	if !s.agencyActive {
		return false
	}
	for _, name := range org.AgenciesByDonor[s.donors[0]] {
		if s.agencies[name] {
			return true
		}
	}
	return false
}

// ProjectMatchesAgency applies the agency filter to one project. An org-level
// agency match covers every project of that organization; otherwise the
// project's own agencies for the selected donor are checked.
func (s Spec) ProjectMatchesAgency(org *datatypes.Organization, p *datatypes.Project) bool {
	if !s.agencyActive {
		return true
	}
	if s.OrgMatchesAgency(org) {
		return true
	}
	for _, name := range p.AgenciesByDonor[s.donors[0]] {
		if s.agencies[name] {
			return true
		}
	}
	return false
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
