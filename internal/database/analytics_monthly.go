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

// GetMonthlyRevenue returns revenue summed per calendar month across
// the filtered window, ordered chronologically. Months with no matching
// invoice lines produce no point; callers receive an empty (non-nil)
// slice when the window is empty.
func (db *DB) GetMonthlyRevenue(ctx context.Context, filter RangeFilter) ([]models.MonthlyRevenuePoint, error) {
	startTime := time.Now()

	where, args := filter.whereClause()

	query := fmt.Sprintf(`
		SELECT d.year_month, ROUND(SUM(f.line_revenue), 2) AS revenue
		FROM fact_invoice_line f
		JOIN dim_date d ON f.date_key = d.date_key
		JOIN dim_customer c ON f.customer_id = c.customer_id
		WHERE %s
		GROUP BY d.year_month
		ORDER BY d.year_month ASC`, where)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordQuery("monthly_revenue", time.Since(startTime), err)
		return nil, fmt.Errorf("failed to query monthly revenue: %w", err)
	}
	defer closeWithLog(rows, "monthly revenue rows")

	series := make([]models.MonthlyRevenuePoint, 0)
	for rows.Next() {
		var point models.MonthlyRevenuePoint
		if err := rows.Scan(&point.YearMonth, &point.Revenue); err != nil {
			metrics.RecordQuery("monthly_revenue", time.Since(startTime), err)
			return nil, fmt.Errorf("failed to scan monthly revenue row: %w", err)
		}
		series = append(series, point)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordQuery("monthly_revenue", time.Since(startTime), err)
		return nil, fmt.Errorf("monthly revenue rows: %w", err)
	}

	metrics.RecordQuery("monthly_revenue", time.Since(startTime), nil)
	return series, nil
}
