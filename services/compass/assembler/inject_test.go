// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package assembler

import (
	"testing"

	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var memberStates = []string{"Finland", "France", "Germany", "Sweden"}

func TestInject_AddsMemberStateToCoreOrgs(t *testing.T) {
	orgs := Build(fixtureBundle())
	out := InjectGeneralContributions(orgs, []string{"France"}, memberStates)

	alpha := orgByID(t, out, "org-a")
	assert.Contains(t, alpha.DonorCountries, "France")
	assert.True(t, alpha.HasOrgLevelDonor("France"))

	gamma := orgByID(t, out, "org-c")
	assert.Equal(t, []string{"France"}, gamma.DonorCountries)
	require.Len(t, gamma.DonorInfo, 2)
	assert.Equal(t, datatypes.DonorEntry{Country: "France", IsOrgLevel: true}, gamma.DonorInfo[0])
	assert.Equal(t, datatypes.DonorEntry{Country: "Sweden", IsOrgLevel: false}, gamma.DonorInfo[1])
}

func TestInject_SkipsEarmarkedOrgs(t *testing.T) {
	orgs := Build(fixtureBundle())
	out := InjectGeneralContributions(orgs, []string{"France"}, memberStates)

	beta := orgByID(t, out, "org-b")
	assert.Empty(t, beta.DonorCountries)
	assert.False(t, beta.HasDonor("France"))
}

func TestInject_NonMemberStateIgnored(t *testing.T) {
	orgs := Build(fixtureBundle())
	out := InjectGeneralContributions(orgs, []string{"Atlantis"}, memberStates)
	// No intersection with member states: same slice comes back untouched.
	assert.Equal(t, orgs, out)
}

func TestInject_NoSelectionNoChange(t *testing.T) {
	orgs := Build(fixtureBundle())
	assert.Equal(t, orgs, InjectGeneralContributions(orgs, nil, memberStates))
	assert.Equal(t, orgs, InjectGeneralContributions(orgs, []string{"France"}, nil))
}

func TestInject_PromotesProjectLevelDonor(t *testing.T) {
	orgs := Build(fixtureBundle())

	// Sweden funds Gamma only through its project. Selecting Sweden with
	// general contributions promotes it to org level on the core-funded org.
	out := InjectGeneralContributions(orgs, []string{"Sweden"}, memberStates)
	gamma := orgByID(t, out, "org-c")

	assert.Equal(t, []string{"Sweden"}, gamma.DonorCountries)
	require.Len(t, gamma.DonorInfo, 1, "promotion must not duplicate the entry")
	assert.True(t, gamma.DonorInfo[0].IsOrgLevel)
}

func TestInject_DoesNotMutateInput(t *testing.T) {
	orgs := Build(fixtureBundle())
	gammaBefore := *orgByID(t, orgs, "org-c")

	_ = InjectGeneralContributions(orgs, []string{"France", "Sweden"}, memberStates)

	gammaAfter := orgByID(t, orgs, "org-c")
	assert.Equal(t, gammaBefore.DonorCountries, gammaAfter.DonorCountries)
	assert.Equal(t, gammaBefore.DonorInfo, gammaAfter.DonorInfo)
}

func TestInject_Idempotent(t *testing.T) {
	orgs := Build(fixtureBundle())
	once := InjectGeneralContributions(orgs, []string{"France"}, memberStates)
	twice := InjectGeneralContributions(once, []string{"France"}, memberStates)
	assert.Equal(t, once, twice)
}

func TestInject_DuplicateSelectionCollapses(t *testing.T) {
	orgs := Build(fixtureBundle())
	out := InjectGeneralContributions(orgs, []string{"France", "France"}, memberStates)
	gamma := orgByID(t, out, "org-c")
	assert.Equal(t, []string{"France"}, gamma.DonorCountries)
}
