// Retailboard - Retail Analytics Dashboard Backend
// Copyright 2026 Retailboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/retailboard/retailboard

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/retailboard/retailboard/internal/cache"
	"github.com/retailboard/retailboard/internal/database"
	"github.com/retailboard/retailboard/internal/metrics"
	"github.com/retailboard/retailboard/internal/models"
)

// AnalyticsQueryExecutor encapsulates the flow shared by every metric
// endpoint:
//
//  1. Build a RangeFilter from the request's query parameters
//  2. Check the result cache
//  3. Execute the query on a miss
//  4. Cache the result for subsequent requests
//  5. Respond with the JSON envelope (query time, cached flag)
//
// The cache key covers the query name and the complete filter, so two
// requests share a cached result only when their parameter tuples are
// identical.
type AnalyticsQueryExecutor struct {
	handler *Handler
}

// NewAnalyticsQueryExecutor creates an executor bound to the handler's
// database, cache, and config.
func NewAnalyticsQueryExecutor(h *Handler) *AnalyticsQueryExecutor {
	return &AnalyticsQueryExecutor{handler: h}
}

// AnalyticsQueryFunc executes one analytics query for a validated
// filter. The result must be JSON-serializable, as it is both cached
// and returned inside the APIResponse envelope.
type AnalyticsQueryFunc func(ctx context.Context, filter database.RangeFilter) (interface{}, error)

// Execute runs queryFunc with caching and the standard envelope.
// Validation failures respond 400 before any query executes; query
// failures respond 500 with a DATABASE_ERROR code and the underlying
// error confined to the log.
func (e *AnalyticsQueryExecutor) Execute(
	w http.ResponseWriter,
	r *http.Request,
	queryName string,
	queryFunc AnalyticsQueryFunc,
) {
	if e.handler.db == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "Database not available", nil)
		return
	}

	filter, apiErr := parseFilter(r)
	if apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	start := time.Now()

	cacheKey := cache.GenerateKey(queryName, cacheKeyParams(filter))

	if e.handler.cache != nil {
		if cached, found := e.handler.cache.Get(cacheKey); found {
			metrics.RecordCacheLookup(true)
			respondCached(w, cached)
			return
		}
		metrics.RecordCacheLookup(false)
	}

	data, err := queryFunc(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR",
			fmt.Sprintf("Failed to execute query: %s", queryName), err)
		return
	}

	if e.handler.cache != nil {
		e.handler.cache.Set(cacheKey, data)
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// cacheKeyParams projects the filter into the stable shape hashed into
// cache keys. Dates are rendered as ISO strings so the key is
// independent of time.Time internals like monotonic clock readings.
func cacheKeyParams(filter database.RangeFilter) map[string]interface{} {
	return map[string]interface{}{
		"start":     filter.Start.Format(time.DateOnly),
		"end":       filter.End.Format(time.DateOnly),
		"countries": filter.Countries,
	}
}
