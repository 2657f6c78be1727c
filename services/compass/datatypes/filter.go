// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// MaxSearchBytes bounds the free-text search input.
	MaxSearchBytes = 512

	// MaxFilterValues bounds each filter value list.
	MaxFilterValues = 200
)

// filterValidate is the validator instance for filter specifications.
var filterValidate *validator.Validate

func init() {
	filterValidate = validator.New()
	_ = filterValidate.RegisterValidation("maxsearchbytes", validateSearchBytes)
}

func validateSearchBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxSearchBytes
}

// FilterSpec is the caller-supplied filter specification. Every dimension is
// independently optional; an all-empty spec selects the full graph.
type FilterSpec struct {
	// Search is a free-text search over organization name/type and project
	// name/description.
	Search string `json:"search" validate:"maxsearchbytes"`

	// Donors are required donor countries. Conjunctive: an entity must carry
	// every listed donor to match.
	Donors []string `json:"donors" validate:"max=200,dive,min=1"`

	// Agencies are donor agency names. Only meaningful when exactly one
	// donor country is selected.
	Agencies []string `json:"agencies" validate:"max=200"`

	// InvestmentTypes are matched disjunctively with case-insensitive
	// bidirectional substring containment.
	InvestmentTypes []string `json:"investmentTypes" validate:"max=200"`

	// Themes are matched disjunctively, exact after trimming and
	// case-folding.
	Themes []string `json:"themes" validate:"max=200"`

	// GeneralContributions enables member-state donor injection for
	// core-funded organizations.
	GeneralContributions bool `json:"generalContributions"`
}

// Validate checks structural bounds on the spec. Business-level mismatches
// (unknown donors, contradictory themes) are not errors; they resolve to
// empty result sets downstream.
func (f *FilterSpec) Validate() error {
	return filterValidate.Struct(f)
}

// Normalize trims surrounding whitespace from every value and drops entries
// that are empty after trimming.
func (f *FilterSpec) Normalize() {
	f.Search = strings.TrimSpace(f.Search)
	f.Donors = trimNonEmpty(f.Donors)
	f.Agencies = trimNonEmpty(f.Agencies)
	f.InvestmentTypes = trimNonEmpty(f.InvestmentTypes)
	f.Themes = trimNonEmpty(f.Themes)
}

// IsEmpty reports whether no filter dimension is set. GeneralContributions
// alone does not make a spec non-empty: with no donors selected there is
// nothing to inject.
func (f *FilterSpec) IsEmpty() bool {
	return f.Search == "" &&
		len(f.Donors) == 0 &&
		len(f.Agencies) == 0 &&
		len(f.InvestmentTypes) == 0 &&
		len(f.Themes) == 0
}

func trimNonEmpty(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := values[:0]
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
