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

// GetTopCountries returns the top-N countries by revenue in the window.
// Customers without a recorded country are grouped under "Unknown".
func (db *DB) GetTopCountries(ctx context.Context, filter RangeFilter, limit int) ([]models.RankedRevenue, error) {
	return db.queryRevenueRanking(ctx, "top_countries", "COALESCE(c.country, 'Unknown')", filter, limit)
}

// GetTopProducts returns the top-N products by revenue in the window.
func (db *DB) GetTopProducts(ctx context.Context, filter RangeFilter, limit int) ([]models.RankedRevenue, error) {
	return db.queryRevenueRanking(ctx, "top_products", "p.product_name", filter, limit)
}

// queryRevenueRanking groups filtered invoice lines by dimExpr and
// returns the limit highest-revenue groups. Ordering is by the
// full-precision sum descending with the display name ascending as a
// tie-break, so equal-revenue entries rank deterministically; the
// reported revenue is rounded to cents.
func (db *DB) queryRevenueRanking(ctx context.Context, queryName, dimExpr string, filter RangeFilter, limit int) ([]models.RankedRevenue, error) {
	startTime := time.Now()

	where, args := filter.whereClause()
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT %s AS name, ROUND(SUM(f.line_revenue), 2) AS revenue
		FROM fact_invoice_line f
		JOIN dim_date d ON f.date_key = d.date_key
		JOIN dim_customer c ON f.customer_id = c.customer_id
		JOIN dim_product p ON f.product_id = p.product_id
		WHERE %s
		GROUP BY name
		ORDER BY SUM(f.line_revenue) DESC, name ASC
		LIMIT ?`, dimExpr, where)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordQuery(queryName, time.Since(startTime), err)
		return nil, fmt.Errorf("failed to query %s ranking: %w", queryName, err)
	}
	defer closeWithLog(rows, "revenue ranking rows")

	ranking := make([]models.RankedRevenue, 0, limit)
	for rows.Next() {
		var entry models.RankedRevenue
		if err := rows.Scan(&entry.Name, &entry.Revenue); err != nil {
			metrics.RecordQuery(queryName, time.Since(startTime), err)
			return nil, fmt.Errorf("failed to scan %s row: %w", queryName, err)
		}
		ranking = append(ranking, entry)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordQuery(queryName, time.Since(startTime), err)
		return nil, fmt.Errorf("%s rows: %w", queryName, err)
	}

	metrics.RecordQuery(queryName, time.Since(startTime), nil)
	return ranking, nil
}
