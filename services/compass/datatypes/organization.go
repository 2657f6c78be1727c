// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes defines the entity graph, flat row contracts, and API
// request/response shapes shared by the Funding Compass engine packages.
package datatypes

import "sort"

// FundingTypeCore marks organizations that receive core (un-earmarked)
// contributions. Member-state general contributions are only ever injected
// into organizations carrying this funding type.
const FundingTypeCore = "Core"

// DonorEntry is one donor country touching an organization at either level.
//
// IsOrgLevel is true only when the donor funds the organization as a whole
// (via an org-agency edge), not merely one of its projects.
type DonorEntry struct {
	Country    string `json:"country"`
	IsOrgLevel bool   `json:"isOrgLevel"`
}

// Organization is a fully assembled organization with its resolved donor
// sets and nested project list.
//
// Invariant: DonorInfo is always the union of the org-level donors and every
// donor appearing on any child project; org-level entries sort before
// project-level-only entries, alphabetical within each group.
type Organization struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	OrgType     string `json:"orgType"`
	Description string `json:"description,omitempty"`
	FundingType string `json:"fundingType,omitempty"`
	EstBudget   float64 `json:"estBudget,omitempty"`
	Website     string `json:"website,omitempty"`

	// DonorCountries holds org-level donors only, deduplicated and sorted.
	DonorCountries []string `json:"donorCountries"`

	// DonorInfo is the combined donor list, flagged per level.
	DonorInfo []DonorEntry `json:"donorInfo"`

	// AgenciesByDonor maps a donor country to the agency names funding this
	// organization at the org level.
	AgenciesByDonor map[string][]string `json:"agenciesByDonor,omitempty"`

	Projects     []Project `json:"projects"`
	ProjectCount int       `json:"projectCount"`

	Meta OrgMeta `json:"meta"`
}

// OrgMeta is the typed replacement of the legacy key/value field bag that
// presentation callers used to read off organization records.
type OrgMeta struct {
	OrgKey       string   `json:"orgKey,omitempty"`
	ShortName    string   `json:"shortName,omitempty"`
	HQCountry    string   `json:"hqCountry,omitempty"`
	BudgetSource string   `json:"budgetSource,omitempty"`
	BudgetLink   string   `json:"budgetLink,omitempty"`
	HDXKey       string   `json:"hdxKey,omitempty"`
	IATIKey      string   `json:"iatiKey,omitempty"`
	LastUpdated  string   `json:"lastUpdated,omitempty"`
	ProjectIDs   []string `json:"projectIds,omitempty"`
}

// Project is a single data ecosystem project nested under an organization.
type Project struct {
	ID          string `json:"id"`
	Key         string `json:"key,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`

	// DonorCountries holds project-level donors, deduplicated and sorted.
	DonorCountries []string `json:"donorCountries"`

	// AgenciesByDonor maps a donor country to the agency names funding this
	// project directly.
	AgenciesByDonor map[string][]string `json:"agenciesByDonor,omitempty"`

	// InvestmentTypes is the deduplicated set of types implied by Themes.
	InvestmentTypes []string `json:"investmentTypes"`

	// Themes is the raw theme name list; duplicates from source are kept.
	Themes []string `json:"themes"`
}

// Agency is a funding body belonging to exactly one donor country.
type Agency struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Website string `json:"website,omitempty"`
	Country string `json:"country"`
}

// CombinedDonors returns every donor country in DonorInfo.
func (o *Organization) CombinedDonors() []string {
	out := make([]string, 0, len(o.DonorInfo))
	for _, d := range o.DonorInfo {
		out = append(out, d.Country)
	}
	return out
}

// HasDonor reports whether country appears anywhere in DonorInfo.
func (o *Organization) HasDonor(country string) bool {
	for _, d := range o.DonorInfo {
		if d.Country == country {
			return true
		}
	}
	return false
}

// HasOrgLevelDonor reports whether country is an org-level donor.
func (o *Organization) HasOrgLevelDonor(country string) bool {
	for _, c := range o.DonorCountries {
		if c == country {
			return true
		}
	}
	return false
}

// SortDonorInfo restores the canonical DonorInfo ordering: org-level donors
// first, then project-level-only donors, alphabetical within each group.
func (o *Organization) SortDonorInfo() {
	sort.SliceStable(o.DonorInfo, func(i, j int) bool {
		a, b := o.DonorInfo[i], o.DonorInfo[j]
		if a.IsOrgLevel != b.IsOrgLevel {
			return a.IsOrgLevel
		}
		return a.Country < b.Country
	})
}
