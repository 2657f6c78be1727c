// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"
)

// SQLite reads the funding_compass tables from a SQLite database.
type SQLite struct {
	sqlDB *sql.DB
}

// Open opens the database at path, bootstrapping the schema if needed.
func Open(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schemaDDL); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{sqlDB: sqlDB}, nil
}

// Close closes the database handle.
func (s *SQLite) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// FetchRows reads all eight row sets in parallel and returns them as one
// bundle. Any single failed read fails the whole fetch; partial bundles are
// never returned.
func (s *SQLite) FetchRows(ctx context.Context) (*datatypes.RowBundle, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("store is not configured")
	}

	bundle := &datatypes.RowBundle{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		bundle.Organizations, err = s.fetchOrganizations(ctx)
		return err
	})
	g.Go(func() (err error) {
		bundle.Projects, err = s.fetchProjects(ctx)
		return err
	})
	g.Go(func() (err error) {
		bundle.Agencies, err = s.fetchAgencies(ctx)
		return err
	})
	g.Go(func() (err error) {
		bundle.Themes, err = s.fetchThemes(ctx)
		return err
	})
	g.Go(func() (err error) {
		bundle.OrgAgencies, err = s.fetchOrgAgencyEdges(ctx)
		return err
	})
	g.Go(func() (err error) {
		bundle.OrgProjects, err = s.fetchOrgProjectEdges(ctx)
		return err
	})
	g.Go(func() (err error) {
		bundle.ProjectAgencies, err = s.fetchProjectAgencyEdges(ctx)
		return err
	})
	g.Go(func() (err error) {
		bundle.ProjectThemes, err = s.fetchProjectThemeEdges(ctx)
		return err
	})
	g.Go(func() (err error) {
		bundle.MemberStates, err = s.fetchMemberStates(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (s *SQLite) fetchOrganizations(ctx context.Context) ([]datatypes.OrganizationRow, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT id, org_key, name, short_name, description, website, org_type,
		       funding_type, hq_country, est_budget, budget_source,
		       budget_link, hdx_key, iati_key, last_updated
		FROM organizations
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query organizations: %w", err)
	}
	defer rows.Close()

	var out []datatypes.OrganizationRow
	for rows.Next() {
		var r datatypes.OrganizationRow
		var orgKey, shortName, description, website, orgType sql.NullString
		var fundingType, hqCountry, budgetSource, budgetLink sql.NullString
		var hdxKey, iatiKey, lastUpdated sql.NullString
		var estBudget sql.NullFloat64
		if err := rows.Scan(&r.ID, &orgKey, &r.Name, &shortName, &description,
			&website, &orgType, &fundingType, &hqCountry, &estBudget,
			&budgetSource, &budgetLink, &hdxKey, &iatiKey, &lastUpdated); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		r.OrgKey = orgKey.String
		r.ShortName = shortName.String
		r.Description = description.String
		r.Website = website.String
		r.OrgType = orgType.String
		r.FundingType = fundingType.String
		r.HQCountry = hqCountry.String
		r.EstBudget = estBudget.Float64
		r.BudgetSource = budgetSource.String
		r.BudgetLink = budgetLink.String
		r.HDXKey = hdxKey.String
		r.IATIKey = iatiKey.String
		r.LastUpdated = lastUpdated.String
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) fetchProjects(ctx context.Context) ([]datatypes.ProjectRow, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT id, product_key, name, description, website
		FROM projects
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var out []datatypes.ProjectRow
	for rows.Next() {
		var r datatypes.ProjectRow
		var key, description, website sql.NullString
		if err := rows.Scan(&r.ID, &key, &r.Name, &description, &website); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		r.Key = key.String
		r.Description = description.String
		r.Website = website.String
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) fetchAgencies(ctx context.Context) ([]datatypes.AgencyRow, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT id, name, website, country
		FROM agencies
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query agencies: %w", err)
	}
	defer rows.Close()

	var out []datatypes.AgencyRow
	for rows.Next() {
		var r datatypes.AgencyRow
		var name, website, country sql.NullString
		if err := rows.Scan(&r.ID, &name, &website, &country); err != nil {
			return nil, fmt.Errorf("scan agency: %w", err)
		}
		r.Name = name.String
		r.Website = website.String
		r.Country = country.String
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) fetchThemes(ctx context.Context) ([]datatypes.ThemeRow, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT id, name, investment_type
		FROM themes
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query themes: %w", err)
	}
	defer rows.Close()

	var out []datatypes.ThemeRow
	for rows.Next() {
		var r datatypes.ThemeRow
		var name, invType sql.NullString
		if err := rows.Scan(&r.ID, &name, &invType); err != nil {
			return nil, fmt.Errorf("scan theme: %w", err)
		}
		r.Name = name.String
		r.InvestmentType = invType.String
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) fetchOrgAgencyEdges(ctx context.Context) ([]datatypes.OrgAgencyRow, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT organization_id, agency_id
		FROM agency_organization_funding`)
	if err != nil {
		return nil, fmt.Errorf("query org-agency edges: %w", err)
	}
	defer rows.Close()

	var out []datatypes.OrgAgencyRow
	for rows.Next() {
		var r datatypes.OrgAgencyRow
		if err := rows.Scan(&r.OrgID, &r.AgencyID); err != nil {
			return nil, fmt.Errorf("scan org-agency edge: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) fetchOrgProjectEdges(ctx context.Context) ([]datatypes.OrgProjectRow, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT organization_id, project_id
		FROM organization_project`)
	if err != nil {
		return nil, fmt.Errorf("query org-project edges: %w", err)
	}
	defer rows.Close()

	var out []datatypes.OrgProjectRow
	for rows.Next() {
		var r datatypes.OrgProjectRow
		if err := rows.Scan(&r.OrgID, &r.ProjectID); err != nil {
			return nil, fmt.Errorf("scan org-project edge: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) fetchProjectAgencyEdges(ctx context.Context) ([]datatypes.ProjectAgencyRow, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT project_id, agency_id
		FROM agency_project_funding`)
	if err != nil {
		return nil, fmt.Errorf("query project-agency edges: %w", err)
	}
	defer rows.Close()

	var out []datatypes.ProjectAgencyRow
	for rows.Next() {
		var r datatypes.ProjectAgencyRow
		if err := rows.Scan(&r.ProjectID, &r.AgencyID); err != nil {
			return nil, fmt.Errorf("scan project-agency edge: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) fetchProjectThemeEdges(ctx context.Context) ([]datatypes.ProjectThemeRow, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT project_id, theme_id
		FROM project_themes`)
	if err != nil {
		return nil, fmt.Errorf("query project-theme edges: %w", err)
	}
	defer rows.Close()

	var out []datatypes.ProjectThemeRow
	for rows.Next() {
		var r datatypes.ProjectThemeRow
		if err := rows.Scan(&r.ProjectID, &r.ThemeID); err != nil {
			return nil, fmt.Errorf("scan project-theme edge: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) fetchMemberStates(ctx context.Context) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT name FROM member_states ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query member states: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan member state: %w", err)
		}
		if name != "" {
			out = append(out, name)
		}
	}
	return out, rows.Err()
}
