// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "compass_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedBundle() *datatypes.RowBundle {
	return &datatypes.RowBundle{
		Organizations: []datatypes.OrganizationRow{
			{
				ID: "org-a", OrgKey: "alpha-data", Name: "Alpha Data Initiative",
				OrgType: "NGO", FundingType: "Core", HQCountry: "Kenya",
				EstBudget: 12.5, Website: "https://alpha.example.org",
			},
			{ID: "org-b", Name: "Beta Crisis Platform", OrgType: "UN Agency"},
		},
		Projects: []datatypes.ProjectRow{
			{ID: "p1", Key: "drought-monitor", Name: "Drought Monitor",
				Description: "Satellite drought early warning"},
		},
		Agencies: []datatypes.AgencyRow{
			{ID: "a-giz", Name: "GIZ", Country: "Germany"},
			{ID: "a-blank", Name: "Unattributed", Country: ""},
		},
		Themes: []datatypes.ThemeRow{
			{ID: "t1", Name: "Food Security", InvestmentType: "Data Collection"},
		},
		OrgAgencies:     []datatypes.OrgAgencyRow{{OrgID: "org-a", AgencyID: "a-giz"}},
		OrgProjects:     []datatypes.OrgProjectRow{{OrgID: "org-a", ProjectID: "p1"}},
		ProjectAgencies: []datatypes.ProjectAgencyRow{{ProjectID: "p1", AgencyID: "a-giz"}},
		ProjectThemes:   []datatypes.ProjectThemeRow{{ProjectID: "p1", ThemeID: "t1"}},
		MemberStates:    []string{"France", "Germany"},
	}
}

// =============================================================================
// Open Tests
// =============================================================================

func TestOpen_EmptyPathRejected(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestOpen_BootstrapsSchema(t *testing.T) {
	s := openTestStore(t)

	// A fresh database serves an empty but well-formed bundle.
	bundle, err := s.FetchRows(context.Background())
	require.NoError(t, err)
	assert.Empty(t, bundle.Organizations)
	assert.Empty(t, bundle.MemberStates)
}

func TestOpen_ExistingDatabaseIsReusable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compass_test.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Seed(seedBundle()))
	require.NoError(t, s.Close())

	// Reopen: schema bootstrap must not clobber existing rows.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	bundle, err := s.FetchRows(context.Background())
	require.NoError(t, err)
	assert.Len(t, bundle.Organizations, 2)
}

// =============================================================================
// FetchRows Tests
// =============================================================================

func TestFetchRows_Roundtrip(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Seed(seedBundle()))

	bundle, err := s.FetchRows(context.Background())
	require.NoError(t, err)

	require.Len(t, bundle.Organizations, 2)
	alpha := bundle.Organizations[0] // ordered by name
	assert.Equal(t, "org-a", alpha.ID)
	assert.Equal(t, "alpha-data", alpha.OrgKey)
	assert.Equal(t, "Core", alpha.FundingType)
	assert.Equal(t, "Kenya", alpha.HQCountry)
	assert.Equal(t, 12.5, alpha.EstBudget)

	require.Len(t, bundle.Projects, 1)
	assert.Equal(t, "drought-monitor", bundle.Projects[0].Key)

	require.Len(t, bundle.Agencies, 2)
	require.Len(t, bundle.Themes, 1)
	assert.Equal(t, "Data Collection", bundle.Themes[0].InvestmentType)

	assert.Equal(t, []datatypes.OrgAgencyRow{{OrgID: "org-a", AgencyID: "a-giz"}}, bundle.OrgAgencies)
	assert.Equal(t, []datatypes.OrgProjectRow{{OrgID: "org-a", ProjectID: "p1"}}, bundle.OrgProjects)
	assert.Equal(t, []datatypes.ProjectAgencyRow{{ProjectID: "p1", AgencyID: "a-giz"}}, bundle.ProjectAgencies)
	assert.Equal(t, []datatypes.ProjectThemeRow{{ProjectID: "p1", ThemeID: "t1"}}, bundle.ProjectThemes)
	assert.Equal(t, []string{"France", "Germany"}, bundle.MemberStates)
}

func TestFetchRows_NullColumnsBecomeZeroValues(t *testing.T) {
	s := openTestStore(t)
	_, err := s.sqlDB.Exec(`INSERT INTO organizations (id, name) VALUES ('org-n', 'Nulls Only')`)
	require.NoError(t, err)

	bundle, err := s.FetchRows(context.Background())
	require.NoError(t, err)

	require.Len(t, bundle.Organizations, 1)
	org := bundle.Organizations[0]
	assert.Equal(t, "Nulls Only", org.Name)
	assert.Empty(t, org.OrgType)
	assert.Empty(t, org.FundingType)
	assert.Zero(t, org.EstBudget)
}

func TestFetchRows_CanceledContext(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.FetchRows(ctx)
	assert.Error(t, err)
}

// =============================================================================
// Seed Tests
// =============================================================================

func TestSeed_IsIdempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Seed(seedBundle()))
	require.NoError(t, s.Seed(seedBundle()))

	bundle, err := s.FetchRows(context.Background())
	require.NoError(t, err)
	assert.Len(t, bundle.Organizations, 2)
	assert.Len(t, bundle.MemberStates, 2)
}

func TestDeterministicID_Stable(t *testing.T) {
	a := DeterministicID("org", "recABC123")
	b := DeterministicID("org", "recABC123")
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, DeterministicID("org", "recXYZ789"))
	assert.NotEqual(t, a, DeterministicID("project", "recABC123"))
}
