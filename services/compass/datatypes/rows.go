// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// The flat row types mirror the funding_compass relational schema produced
// by the Airtable ingest pipeline. The row-reading layer returns them with
// no business logic attached; all nesting happens in the assembler.

// OrganizationRow is one row of the organizations table.
type OrganizationRow struct {
	ID           string
	OrgKey       string
	Name         string
	ShortName    string
	Description  string
	Website      string
	OrgType      string
	FundingType  string
	HQCountry    string
	EstBudget    float64
	BudgetSource string
	BudgetLink   string
	HDXKey       string
	IATIKey      string
	LastUpdated  string
}

// ProjectRow is one row of the projects table.
type ProjectRow struct {
	ID          string
	Key         string
	Name        string
	Description string
	Website     string
}

// AgencyRow is one row of the agencies table. Country may be empty when the
// source record carried no country name; such rows contribute no donor.
type AgencyRow struct {
	ID      string
	Name    string
	Website string
	Country string
}

// ThemeRow is one row of the themes table. Each theme belongs to exactly one
// investment type.
type ThemeRow struct {
	ID             string
	Name           string
	InvestmentType string
}

// OrgAgencyRow is one org-level funding edge.
type OrgAgencyRow struct {
	OrgID    string
	AgencyID string
}

// OrgProjectRow links a project to its provider organization.
type OrgProjectRow struct {
	OrgID     string
	ProjectID string
}

// ProjectAgencyRow is one project-level funding edge.
type ProjectAgencyRow struct {
	ProjectID string
	AgencyID  string
}

// ProjectThemeRow links a project to one of its investment themes.
type ProjectThemeRow struct {
	ProjectID string
	ThemeID   string
}

// RowBundle is the complete flat-row dataset the snapshot cache hands to the
// assembler. One bundle corresponds to one consistent read of the source.
type RowBundle struct {
	Organizations   []OrganizationRow
	Projects        []ProjectRow
	Agencies        []AgencyRow
	Themes          []ThemeRow
	OrgAgencies     []OrgAgencyRow
	OrgProjects     []OrgProjectRow
	ProjectAgencies []ProjectAgencyRow
	ProjectThemes   []ProjectThemeRow
	MemberStates    []string
}
