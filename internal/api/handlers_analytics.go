// Retailboard - Retail Analytics Dashboard Backend
// Copyright 2026 Retailboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/retailboard/retailboard

package api

import (
	"context"
	"net/http"

	"github.com/retailboard/retailboard/internal/database"
)

// The seven metric endpoints all follow the executor's cache-first
// flow; each handler contributes only its query name and the database
// call.

// AnalyticsKPI serves total revenue and average order value.
func (h *Handler) AnalyticsKPI(w http.ResponseWriter, r *http.Request) {
	NewAnalyticsQueryExecutor(h).Execute(w, r, "RevenueKPI",
		func(ctx context.Context, filter database.RangeFilter) (interface{}, error) {
			return h.db.GetRevenueKPI(ctx, filter)
		})
}

// AnalyticsRepeatRate serves the repeat-purchase rate.
func (h *Handler) AnalyticsRepeatRate(w http.ResponseWriter, r *http.Request) {
	NewAnalyticsQueryExecutor(h).Execute(w, r, "RepeatPurchaseRate",
		func(ctx context.Context, filter database.RangeFilter) (interface{}, error) {
			return h.db.GetRepeatPurchaseRate(ctx, filter)
		})
}

// AnalyticsMonthlyRevenue serves the monthly revenue series.
func (h *Handler) AnalyticsMonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	NewAnalyticsQueryExecutor(h).Execute(w, r, "MonthlyRevenue",
		func(ctx context.Context, filter database.RangeFilter) (interface{}, error) {
			return h.db.GetMonthlyRevenue(ctx, filter)
		})
}

// AnalyticsTopCountries serves the top-N countries by revenue.
func (h *Handler) AnalyticsTopCountries(w http.ResponseWriter, r *http.Request) {
	NewAnalyticsQueryExecutor(h).Execute(w, r, "TopCountries",
		func(ctx context.Context, filter database.RangeFilter) (interface{}, error) {
			return h.db.GetTopCountries(ctx, filter, h.cfg.API.TopN)
		})
}

// AnalyticsTopProducts serves the top-N products by revenue.
func (h *Handler) AnalyticsTopProducts(w http.ResponseWriter, r *http.Request) {
	NewAnalyticsQueryExecutor(h).Execute(w, r, "TopProducts",
		func(ctx context.Context, filter database.RangeFilter) (interface{}, error) {
			return h.db.GetTopProducts(ctx, filter, h.cfg.API.TopN)
		})
}

// AnalyticsRFM serves the per-customer RFM segmentation.
func (h *Handler) AnalyticsRFM(w http.ResponseWriter, r *http.Request) {
	NewAnalyticsQueryExecutor(h).Execute(w, r, "RFMSegmentation",
		func(ctx context.Context, filter database.RangeFilter) (interface{}, error) {
			return h.db.GetRFMSegmentation(ctx, filter, h.cfg.API.RFMLimit)
		})
}

// AnalyticsCohorts serves the cohort retention matrix.
func (h *Handler) AnalyticsCohorts(w http.ResponseWriter, r *http.Request) {
	NewAnalyticsQueryExecutor(h).Execute(w, r, "CohortRetention",
		func(ctx context.Context, filter database.RangeFilter) (interface{}, error) {
			return h.db.GetCohortRetention(ctx, filter, h.cfg.API.CohortPeriods)
		})
}
