// Retailboard - Retail Analytics Dashboard Backend
// Copyright 2026 Retailboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/retailboard/retailboard

// Package models defines the result row types produced by the analytics
// queries and the API response envelope.
//
// Ratio metrics that are undefined on an empty window (average order
// value, repeat rate) are pointers: nil means "no data", which the
// presentation layer renders as 0 or an informational state. A numeric
// zero is a real computed value and is never used as the empty signal.
package models

// RevenueKPI is the headline revenue pair for a filtered window.
// Revenue is the sum of line revenue rounded to 2 decimals;
// AvgOrderValue is revenue divided by the count of distinct invoices,
// also rounded to 2 decimals. Both are nil when the window is empty.
type RevenueKPI struct {
	Revenue       *float64 `json:"revenue"`
	AvgOrderValue *float64 `json:"avg_order_value"`
}

// RepeatPurchase reports the share of customers with more than one
// distinct order in the window. RatePct is nil when no customer ordered
// in the window.
type RepeatPurchase struct {
	RatePct *float64 `json:"repeat_rate_pct"`
}

// MonthlyRevenuePoint is one month of the revenue series.
type MonthlyRevenuePoint struct {
	YearMonth string  `json:"year_month"`
	Revenue   float64 `json:"revenue"`
}

// RankedRevenue is one row of a top-N ranking (country or product).
// Revenue is rounded to 2 decimals for display; ranking itself is done
// on full-precision sums.
type RankedRevenue struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

// RFMRow is one customer's Recency/Frequency/Monetary segmentation row.
// RecencyDays counts whole days between the customer's last in-window
// order and the as-of date; Frequency counts distinct invoices;
// Monetary sums line revenue.
type RFMRow struct {
	CustomerID  string  `json:"customer_id"`
	RecencyDays int     `json:"recency_days"`
	Frequency   int     `json:"frequency"`
	Monetary    float64 `json:"monetary"`
}

// CohortPeriod is one cell of the retention matrix: the share of a
// cohort still active N whole calendar months after its first order.
type CohortPeriod struct {
	Period          int     `json:"period"`
	ActiveCustomers int     `json:"active_customers"`
	Retention       float64 `json:"retention"`
}

// CohortRow groups the retention cells for one cohort. Cohort is the
// "YYYY-MM" label of the cohort's first-order month; Size is the number
// of distinct customers active at period 0.
type CohortRow struct {
	Cohort  string         `json:"cohort"`
	Size    int            `json:"size"`
	Periods []CohortPeriod `json:"periods"`
}

// FilterMeta describes the filterable bounds of the loaded dataset:
// the min/max fact dates and the distinct customer countries. The
// presentation layer uses it to bound its date widget and populate the
// country multiselect. Empty MinDate/MaxDate means the fact table holds
// no rows yet.
type FilterMeta struct {
	MinDate   string   `json:"min_date"`
	MaxDate   string   `json:"max_date"`
	Countries []string `json:"countries"`
}
