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

// GetRepeatPurchaseRate computes the share of customers in the window
// with more than one distinct invoice, as a percentage of all customers
// that ordered in the window. Zero customers yields a nil rate rather
// than 0, since no population means no rate.
func (db *DB) GetRepeatPurchaseRate(ctx context.Context, filter RangeFilter) (*models.RepeatPurchase, error) {
	startTime := time.Now()

	where, args := filter.whereClause()

	query := fmt.Sprintf(`
		WITH customer_orders AS (
			SELECT f.customer_id, COUNT(DISTINCT f.invoice_no) AS order_count
			FROM fact_invoice_line f
			JOIN dim_date d ON f.date_key = d.date_key
			JOIN dim_customer c ON f.customer_id = c.customer_id
			WHERE %s
			GROUP BY f.customer_id
		)
		SELECT
			CASE
				WHEN COUNT(*) = 0 THEN NULL
				ELSE ROUND(100.0 * SUM(CASE WHEN order_count > 1 THEN 1 ELSE 0 END) / COUNT(*), 2)
			END AS repeat_rate_pct
		FROM customer_orders`, where)

	var result models.RepeatPurchase
	err := db.conn.QueryRowContext(ctx, query, args...).Scan(&result.RatePct)
	metrics.RecordQuery("repeat_purchase_rate", time.Since(startTime), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query repeat purchase rate: %w", err)
	}

	return &result, nil
}
