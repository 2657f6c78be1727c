// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analytics

import (
	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
)

// ComputeDonorStats derives the scorecard statistics over the selected-donor
// set and the currently visible graph.
//
// Per-organization donor facts (total donor count, which selected donors
// fund it) come from the unfiltered graph: the visible copies carry pruned
// DonorInfo, but whether a donor funds an organization is a dataset fact,
// not a view fact. Visible entities decide *which* organizations and
// projects are counted.
func ComputeDonorStats(visible, full []datatypes.Organization, selected []string) datatypes.DonorStats {
	selected = dedupeStrings(selected)
	if len(selected) == 0 {
		return datatypes.DonorStats{}
	}

	fullByKey := make(map[string]*datatypes.Organization, len(full))
	for i := range full {
		fullByKey[orgKey(&full[i])] = &full[i]
	}

	stats := datatypes.DonorStats{}
	stats.FundingStreams = fundingStreams(visible, selected)

	// Per-organization selected-donor sets, deduplicated by (id, name) key.
	funders := make(map[string]map[string]bool)
	totalDonors := make(map[string]int)
	for i := range visible {
		key := orgKey(&visible[i])
		if _, ok := funders[key]; ok {
			continue
		}
		source := fullByKey[key]
		if source == nil {
			source = &visible[i]
		}
		set := make(map[string]bool)
		for _, d := range selected {
			if source.HasDonor(d) {
				set[d] = true
			}
		}
		if len(set) == 0 {
			continue
		}
		funders[key] = set
		totalDonors[key] = len(source.DonorInfo)
	}

	funded := 0
	single := 0
	donorSum := 0
	for key, set := range funders {
		funded++
		if len(set) == 1 {
			single++
		}
		if len(set) >= 2 {
			stats.CoFundedOrgs++
		}
		donorSum += totalDonors[key]
	}
	if funded > 0 {
		stats.AvgDonorsPerOrg = float64(donorSum) / float64(funded)
		stats.FundingOverlapPct = 100 - (float64(single)/float64(funded))*100
	}
	return stats
}

// fundingStreams counts, per selected donor, the distinct organizations it
// funds directly at the org level plus the distinct projects it funds
// directly at the project level, summed across donors. An organization
// funded by two selected donors counts once per donor.
func fundingStreams(visible []datatypes.Organization, selected []string) int {
	total := 0
	for _, donor := range selected {
		orgSeen := make(map[string]bool)
		projSeen := make(map[string]bool)
		for i := range visible {
			org := &visible[i]
			if org.HasOrgLevelDonor(donor) {
				orgSeen[orgKey(org)] = true
			}
			for j := range org.Projects {
				p := &org.Projects[j]
				for _, c := range p.DonorCountries {
					if c == donor {
						projSeen[p.ID+"\x00"+p.Name] = true
						break
					}
				}
			}
		}
		total += len(orgSeen) + len(projSeen)
	}
	return total
}

func orgKey(org *datatypes.Organization) string {
	return org.ID + "\x00" + org.Name
}
