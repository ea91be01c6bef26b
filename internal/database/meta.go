// Retailboard - Retail Analytics Dashboard Backend
// Copyright 2026 Retailboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/retailboard/retailboard

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/retailboard/retailboard/internal/metrics"
	"github.com/retailboard/retailboard/internal/models"
)

// GetFilterMeta returns the data needed to populate filter controls:
// the full date span covered by fact rows and the distinct customer
// countries, sorted alphabetically. MinDate and MaxDate are empty
// strings when the fact table is empty.
func (db *DB) GetFilterMeta(ctx context.Context) (*models.FilterMeta, error) {
	startTime := time.Now()

	var meta models.FilterMeta
	var minDate, maxDate sql.NullString

	err := db.conn.QueryRowContext(ctx, `
		SELECT strftime(MIN(date_key), '%Y-%m-%d'), strftime(MAX(date_key), '%Y-%m-%d')
		FROM fact_invoice_line`).Scan(&minDate, &maxDate)
	if err != nil {
		metrics.RecordQuery("filter_meta", time.Since(startTime), err)
		return nil, fmt.Errorf("failed to query date span: %w", err)
	}
	meta.MinDate = minDate.String
	meta.MaxDate = maxDate.String

	rows, err := db.conn.QueryContext(ctx, `
		SELECT DISTINCT country
		FROM dim_customer
		WHERE country IS NOT NULL
		ORDER BY country ASC`)
	if err != nil {
		metrics.RecordQuery("filter_meta", time.Since(startTime), err)
		return nil, fmt.Errorf("failed to query countries: %w", err)
	}
	defer closeWithLog(rows, "country rows")

	meta.Countries = make([]string, 0)
	for rows.Next() {
		var country string
		if err := rows.Scan(&country); err != nil {
			metrics.RecordQuery("filter_meta", time.Since(startTime), err)
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		meta.Countries = append(meta.Countries, country)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordQuery("filter_meta", time.Since(startTime), err)
		return nil, fmt.Errorf("country rows: %w", err)
	}

	metrics.RecordQuery("filter_meta", time.Since(startTime), nil)
	return &meta, nil
}
