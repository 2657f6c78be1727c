// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"fmt"

	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
	"github.com/google/uuid"
)

// idNamespace matches the ingest pipeline's UUID namespace so seeded fixture
// rows get the same deterministic IDs the pipeline would generate.
var idNamespace = uuid.MustParse("a1b2c3d4-e5f6-7890-abcd-ef1234567890")

// DeterministicID derives a stable UUID for a record, e.g.
// DeterministicID("org", "recABC") for an organization sourced from Airtable
// record recABC. The same kind and seed always yield the same ID.
func DeterministicID(kind, seed string) string {
	return uuid.NewSHA1(idNamespace, []byte(kind+"::"+seed)).String()
}

// Seed inserts a full row bundle into the database. Existing rows with the
// same primary keys are left untouched. Intended for tests and local
// development; production data arrives via the ingest pipeline.
func (s *SQLite) Seed(bundle *datatypes.RowBundle) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("store is not configured")
	}
	tx, err := s.sqlDB.Begin()
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range bundle.Organizations {
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO organizations (
			  id, org_key, name, short_name, description, website, org_type,
			  funding_type, hq_country, est_budget, budget_source,
			  budget_link, hdx_key, iati_key, last_updated
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.OrgKey, r.Name, r.ShortName, r.Description, r.Website,
			r.OrgType, r.FundingType, r.HQCountry, r.EstBudget,
			r.BudgetSource, r.BudgetLink, r.HDXKey, r.IATIKey, r.LastUpdated); err != nil {
			return fmt.Errorf("seed organization %s: %w", r.ID, err)
		}
	}
	for _, r := range bundle.Projects {
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO projects (id, product_key, name, description, website)
			VALUES (?, ?, ?, ?, ?)`,
			r.ID, r.Key, r.Name, r.Description, r.Website); err != nil {
			return fmt.Errorf("seed project %s: %w", r.ID, err)
		}
	}
	for _, r := range bundle.Agencies {
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO agencies (id, name, website, country)
			VALUES (?, ?, ?, ?)`,
			r.ID, r.Name, r.Website, r.Country); err != nil {
			return fmt.Errorf("seed agency %s: %w", r.ID, err)
		}
	}
	for _, r := range bundle.Themes {
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO themes (id, name, investment_type)
			VALUES (?, ?, ?)`,
			r.ID, r.Name, r.InvestmentType); err != nil {
			return fmt.Errorf("seed theme %s: %w", r.ID, err)
		}
	}
	for _, r := range bundle.OrgAgencies {
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO agency_organization_funding (agency_id, organization_id)
			VALUES (?, ?)`, r.AgencyID, r.OrgID); err != nil {
			return fmt.Errorf("seed org-agency edge: %w", err)
		}
	}
	for _, r := range bundle.OrgProjects {
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO organization_project (organization_id, project_id)
			VALUES (?, ?)`, r.OrgID, r.ProjectID); err != nil {
			return fmt.Errorf("seed org-project edge: %w", err)
		}
	}
	for _, r := range bundle.ProjectAgencies {
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO agency_project_funding (agency_id, project_id)
			VALUES (?, ?)`, r.AgencyID, r.ProjectID); err != nil {
			return fmt.Errorf("seed project-agency edge: %w", err)
		}
	}
	for _, r := range bundle.ProjectThemes {
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO project_themes (project_id, theme_id)
			VALUES (?, ?)`, r.ProjectID, r.ThemeID); err != nil {
			return fmt.Errorf("seed project-theme edge: %w", err)
		}
	}
	for _, name := range bundle.MemberStates {
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO member_states (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("seed member state %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
