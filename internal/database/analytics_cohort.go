// Retailboard - Retail Analytics Dashboard Backend
// Copyright 2026 Retailboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/retailboard/retailboard

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/retailboard/retailboard/internal/metrics"
	"github.com/retailboard/retailboard/internal/models"
)

// GetCohortRetention computes a monthly cohort retention matrix.
//
// Cohort assignment is global: a customer belongs to the calendar month
// of their first order across the whole dataset, regardless of the
// requested window. The window and country filter restrict which
// activity is counted, so a cohort only appears when at least one of
// its members placed an in-window order during the cohort month itself
// (the period-0 cell, which defines the cohort size). Periods are
// whole-month offsets from the cohort month, capped at maxPeriods.
//
// Retention is active customers divided by cohort size, so period 0 is
// always exactly 1.0. Cohorts are ordered chronologically, periods
// ascending within each cohort.
func (db *DB) GetCohortRetention(ctx context.Context, filter RangeFilter, maxPeriods int) ([]models.CohortRow, error) {
	startTime := time.Now()

	where, args := filter.whereClause()
	args = append(args, maxPeriods)

	query := fmt.Sprintf(`
		WITH first_order AS (
			SELECT customer_id, MIN(date_key) AS first_date
			FROM fact_invoice_line
			GROUP BY customer_id
		),
		base AS (
			SELECT f.customer_id, f.date_key
			FROM fact_invoice_line f
			JOIN dim_date d ON f.date_key = d.date_key
			JOIN dim_customer c ON f.customer_id = c.customer_id
			WHERE %s
		),
		activity AS (
			SELECT
				strftime(fo.first_date, '%%Y-%%m') AS cohort,
				(EXTRACT(YEAR FROM b.date_key) * 12 + EXTRACT(MONTH FROM b.date_key))
					- (EXTRACT(YEAR FROM fo.first_date) * 12 + EXTRACT(MONTH FROM fo.first_date)) AS period,
				b.customer_id
			FROM base b
			JOIN first_order fo ON b.customer_id = fo.customer_id
		),
		cells AS (
			SELECT cohort, period, COUNT(DISTINCT customer_id) AS active_customers
			FROM activity
			WHERE period BETWEEN 0 AND ?
			GROUP BY cohort, period
		),
		cohort_size AS (
			SELECT cohort, active_customers AS size
			FROM cells
			WHERE period = 0
		)
		SELECT cl.cohort, cs.size, cl.period, cl.active_customers,
			ROUND(CAST(cl.active_customers AS DOUBLE) / cs.size, 4) AS retention
		FROM cells cl
		JOIN cohort_size cs ON cl.cohort = cs.cohort
		ORDER BY cl.cohort ASC, cl.period ASC`, where)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordQuery("cohort_retention", time.Since(startTime), err)
		return nil, fmt.Errorf("failed to query cohort retention: %w", err)
	}
	defer closeWithLog(rows, "cohort rows")

	matrix := make([]models.CohortRow, 0)
	for rows.Next() {
		var (
			cohort string
			size   int
			cell   models.CohortPeriod
		)
		if err := rows.Scan(&cohort, &size, &cell.Period, &cell.ActiveCustomers, &cell.Retention); err != nil {
			metrics.RecordQuery("cohort_retention", time.Since(startTime), err)
			return nil, fmt.Errorf("failed to scan cohort cell: %w", err)
		}

		// Rows arrive grouped by cohort; append cells to the current
		// row until the cohort label changes.
		if n := len(matrix); n > 0 && matrix[n-1].Cohort == cohort {
			matrix[n-1].Periods = append(matrix[n-1].Periods, cell)
		} else {
			matrix = append(matrix, models.CohortRow{
				Cohort:  cohort,
				Size:    size,
				Periods: []models.CohortPeriod{cell},
			})
		}
	}
	if err := rows.Err(); err != nil {
		metrics.RecordQuery("cohort_retention", time.Since(startTime), err)
		return nil, fmt.Errorf("cohort rows: %w", err)
	}

	metrics.RecordQuery("cohort_retention", time.Since(startTime), nil)
	return matrix, nil
}
