// Retailboard - Retail Analytics Dashboard Backend
// Copyright 2026 Retailboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/retailboard/retailboard

package database

import (
	"strings"
	"time"
)

// RangeFilter constrains every analytics query: a required inclusive
// date range plus an optional set of customer countries.
//
// An empty Countries slice means "all countries": the country fragment
// is omitted entirely rather than rendered as a zero-element IN list,
// which would match nothing.
//
// All fragments use positional `?` placeholders; filter values are
// never interpolated into query text. RangeFilter is immutable after
// creation and safe for concurrent read access.
type RangeFilter struct {
	Start     time.Time
	End       time.Time
	Countries []string
}

// countryClause builds the optional country restriction. Returns the
// empty string and no args for an empty set, otherwise a fragment of
// the form " AND c.country IN (?,?)" with one arg per value, suitable
// for appending verbatim after a date-range clause.
func (f RangeFilter) countryClause() (string, []interface{}) {
	if len(f.Countries) == 0 {
		return "", nil
	}

	placeholders := make([]string, len(f.Countries))
	args := make([]interface{}, len(f.Countries))
	for i, country := range f.Countries {
		placeholders[i] = "?"
		args[i] = country
	}

	return " AND c.country IN (" + strings.Join(placeholders, ",") + ")", args
}

// whereClause builds the full predicate shared by the analytics
// queries: the date-range restriction on dim_date followed by the
// optional country restriction on dim_customer. The fragment assumes
// the query aliases dim_date as d and dim_customer as c.
func (f RangeFilter) whereClause() (string, []interface{}) {
	clause := "d.date_key BETWEEN CAST(? AS DATE) AND CAST(? AS DATE)"
	args := []interface{}{f.startArg(), f.endArg()}

	countrySQL, countryArgs := f.countryClause()
	return clause + countrySQL, append(args, countryArgs...)
}

// startArg and endArg render the range bounds as ISO dates for binding.

func (f RangeFilter) startArg() string {
	return f.Start.Format(time.DateOnly)
}

func (f RangeFilter) endArg() string {
	return f.End.Format(time.DateOnly)
}
