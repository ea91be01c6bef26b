// Retailboard - Retail Analytics Dashboard Backend
// Copyright 2026 Retailboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/retailboard/retailboard

package validation

import (
	"fmt"
	"time"
)

// dateRangeRequest carries the raw query-string values through the
// struct validator before any parsing happens.
type dateRangeRequest struct {
	Start string `validate:"required,datetime=2006-01-02"`
	End   string `validate:"required,datetime=2006-01-02"`
}

// ParseDateRange validates and parses the start/end query parameters.
// Both must be YYYY-MM-DD calendar dates with end >= start. Malformed
// input is rejected here, before any query executes.
func ParseDateRange(start, end string) (time.Time, time.Time, *RequestValidationError) {
	req := dateRangeRequest{Start: start, End: end}
	if err := ValidateStruct(&req); err != nil {
		return time.Time{}, time.Time{}, err
	}

	startDate, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return time.Time{}, time.Time{}, newRequestValidationError(
			"Start", "datetime", start,
			"Start must be a calendar date in YYYY-MM-DD format")
	}
	endDate, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return time.Time{}, time.Time{}, newRequestValidationError(
			"End", "datetime", end,
			"End must be a calendar date in YYYY-MM-DD format")
	}

	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, newRequestValidationError(
			"End", "gtefield", end,
			fmt.Sprintf("End (%s) must not be before Start (%s)", end, start))
	}

	return startDate, endDate, nil
}
