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

// GetRevenueKPI computes total revenue and average order value for the
// filtered window. Revenue sums line_revenue across matching fact rows;
// AOV divides that sum by the count of distinct invoices. When no rows
// match, both fields are nil: no data is distinct from a computed
// zero, and an average over zero orders is undefined.
func (db *DB) GetRevenueKPI(ctx context.Context, filter RangeFilter) (*models.RevenueKPI, error) {
	startTime := time.Now()

	where, args := filter.whereClause()

	query := fmt.Sprintf(`
		WITH base AS (
			SELECT f.invoice_no, f.line_revenue
			FROM fact_invoice_line f
			JOIN dim_date d ON f.date_key = d.date_key
			JOIN dim_customer c ON f.customer_id = c.customer_id
			WHERE %s
		)
		SELECT
			ROUND(SUM(line_revenue), 2) AS revenue,
			CASE
				WHEN COUNT(DISTINCT invoice_no) = 0 THEN NULL
				ELSE ROUND(SUM(line_revenue) / COUNT(DISTINCT invoice_no), 2)
			END AS avg_order_value
		FROM base`, where)

	var kpi models.RevenueKPI
	err := db.conn.QueryRowContext(ctx, query, args...).Scan(&kpi.Revenue, &kpi.AvgOrderValue)
	metrics.RecordQuery("revenue_kpi", time.Since(startTime), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue KPI: %w", err)
	}

	return &kpi, nil
}
