// Retailboard - Retail Analytics Dashboard Backend
// Copyright 2026 Retailboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/retailboard/retailboard

/*
database_schema.go - Star Schema Management

Tables:
  - dim_date: one row per calendar day appearing in the fact data, with
    the derived year_month ("YYYY-MM") used by the monthly and cohort
    queries
  - dim_customer: customer dimension; country is nullable (unknown)
  - dim_product: product dimension; product_name may repeat across ids
  - fact_invoice_line: one row per (invoice, product) line referencing
    the three dimensions; line_revenue may be negative for returns

The tables are created and fully replaced by the external ingestion
step; the analytics path only reads them. Referential integrity is
enforced at ingestion and assumed here.

Index Strategy:
Indexes cover the fact table's join keys (date_key, customer_id,
product_id), which every analytics query filters or joins on.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the star schema tables.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS dim_date (
			date_key   DATE PRIMARY KEY,
			year_month VARCHAR NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS dim_customer (
			customer_id VARCHAR PRIMARY KEY,
			country     VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS dim_product (
			product_id   VARCHAR PRIMARY KEY,
			product_name VARCHAR NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS fact_invoice_line (
			invoice_no   VARCHAR NOT NULL,
			date_key     DATE NOT NULL,
			customer_id  VARCHAR NOT NULL,
			product_id   VARCHAR NOT NULL,
			quantity     INTEGER NOT NULL,
			line_revenue DOUBLE NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// createIndexes creates indexes on the fact table's join keys.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_fact_date ON fact_invoice_line(date_key)`,
		`CREATE INDEX IF NOT EXISTS idx_fact_customer ON fact_invoice_line(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_fact_product ON fact_invoice_line(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_fact_invoice ON fact_invoice_line(invoice_no)`,
	}

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}

	return nil
}
