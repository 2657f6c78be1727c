// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package assembler

import (
	"sort"

	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
)

// InjectGeneralContributions adds implicit member-state donors to core-funded
// organizations.
//
// Core (un-earmarked) contributions from UN member states are not recorded as
// explicit funding edges, but every core-funded organization is effectively
// funded by every contributing member state. When the caller selects one or
// more donor countries that are member states, those countries are attributed
// as org-level donors to each organization whose funding type is "Core".
//
// The input graph is shared across requests and is never mutated: any
// organization that gains a donor is replaced by a copy. Injection is
// idempotent; already-present donors are not duplicated, and a donor known
// only at the project level is promoted to org level.
func InjectGeneralContributions(orgs []datatypes.Organization, selectedDonors, memberStates []string) []datatypes.Organization {
	states := intersect(selectedDonors, memberStates)
	if len(states) == 0 {
		return orgs
	}

	out := make([]datatypes.Organization, len(orgs))
	copy(out, orgs)
	for i := range out {
		if out[i].FundingType != datatypes.FundingTypeCore {
			continue
		}
		out[i] = injectIntoOrg(out[i], states)
	}
	return out
}

func injectIntoOrg(org datatypes.Organization, states []string) datatypes.Organization {
	donors := make([]string, len(org.DonorCountries))
	copy(donors, org.DonorCountries)
	info := make([]datatypes.DonorEntry, len(org.DonorInfo))
	copy(info, org.DonorInfo)
	org.DonorCountries = donors
	org.DonorInfo = info

	for _, state := range states {
		if !containsString(org.DonorCountries, state) {
			org.DonorCountries = append(org.DonorCountries, state)
		}
		found := false
		for j := range org.DonorInfo {
			if org.DonorInfo[j].Country == state {
				org.DonorInfo[j].IsOrgLevel = true
				found = true
				break
			}
		}
		if !found {
			org.DonorInfo = append(org.DonorInfo, datatypes.DonorEntry{Country: state, IsOrgLevel: true})
		}
	}

	sort.Strings(org.DonorCountries)
	org.SortDonorInfo()
	return org
}

func intersect(selected, memberStates []string) []string {
	if len(selected) == 0 || len(memberStates) == 0 {
		return nil
	}
	states := make(map[string]bool, len(memberStates))
	for _, s := range memberStates {
		states[s] = true
	}
	out := make([]string, 0, len(selected))
	for _, d := range selected {
		if states[d] && !containsString(out, d) {
			out = append(out, d)
		}
	}
	return out
}
