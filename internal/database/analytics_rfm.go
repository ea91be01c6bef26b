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

// GetRFMSegmentation computes per-customer recency, frequency, and
// monetary aggregates over the filtered window:
//
//   - recency: whole days between the customer's last in-window order
//     date and the end of the window (0 when the last order falls on
//     the end date)
//   - frequency: distinct invoices in the window
//   - monetary: summed line revenue in the window, rounded to cents
//
// Rows are ordered by monetary value descending with customer_id
// ascending as a tie-break, truncated to limit. Customers with no
// in-window orders do not appear.
func (db *DB) GetRFMSegmentation(ctx context.Context, filter RangeFilter, limit int) ([]models.RFMRow, error) {
	startTime := time.Now()

	where, args := filter.whereClause()
	args = append(args, filter.endArg(), limit)

	query := fmt.Sprintf(`
		WITH customer_agg AS (
			SELECT
				f.customer_id,
				MAX(f.date_key) AS last_order_date,
				COUNT(DISTINCT f.invoice_no) AS frequency,
				SUM(f.line_revenue) AS monetary
			FROM fact_invoice_line f
			JOIN dim_date d ON f.date_key = d.date_key
			JOIN dim_customer c ON f.customer_id = c.customer_id
			WHERE %s
			GROUP BY f.customer_id
		)
		SELECT
			customer_id,
			date_diff('day', last_order_date, CAST(? AS DATE)) AS recency_days,
			frequency,
			ROUND(monetary, 2) AS monetary
		FROM customer_agg
		ORDER BY monetary DESC, customer_id ASC
		LIMIT ?`, where)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordQuery("rfm_segmentation", time.Since(startTime), err)
		return nil, fmt.Errorf("failed to query RFM segmentation: %w", err)
	}
	defer closeWithLog(rows, "rfm rows")

	segments := make([]models.RFMRow, 0, limit)
	for rows.Next() {
		var row models.RFMRow
		if err := rows.Scan(&row.CustomerID, &row.RecencyDays, &row.Frequency, &row.Monetary); err != nil {
			metrics.RecordQuery("rfm_segmentation", time.Since(startTime), err)
			return nil, fmt.Errorf("failed to scan RFM row: %w", err)
		}
		segments = append(segments, row)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordQuery("rfm_segmentation", time.Since(startTime), err)
		return nil, fmt.Errorf("rfm rows: %w", err)
	}

	metrics.RecordQuery("rfm_segmentation", time.Since(startTime), nil)
	return segments, nil
}
