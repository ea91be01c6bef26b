// Retailboard - Retail Analytics Dashboard Backend
// Copyright 2026 Retailboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/retailboard/retailboard

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/retailboard/retailboard/internal/cache"
	"github.com/retailboard/retailboard/internal/config"
	"github.com/retailboard/retailboard/internal/database"
	"github.com/retailboard/retailboard/internal/models"
	"github.com/retailboard/retailboard/internal/validation"
)

// Handler holds the dependencies shared by all HTTP handlers. The
// database handle and result cache are constructed once in main and
// injected here; handlers never open their own connections.
type Handler struct {
	db    *database.DB
	cache *cache.Cache
	cfg   *config.Config
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(db *database.DB, resultCache *cache.Cache, cfg *config.Config) *Handler {
	return &Handler{
		db:    db,
		cache: resultCache,
		cfg:   cfg,
	}
}

// parseFilter builds a RangeFilter from the request's query string.
// start and end are required YYYY-MM-DD dates; countries is an optional
// comma-separated list. Validation failures produce a VALIDATION_ERROR
// before any query executes.
func parseFilter(r *http.Request) (database.RangeFilter, *models.APIError) {
	query := r.URL.Query()

	start, end, verr := validation.ParseDateRange(query.Get("start"), query.Get("end"))
	if verr != nil {
		apiErr := verr.ToAPIError()
		return database.RangeFilter{}, &models.APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}
	}

	var countries []string
	if raw := query.Get("countries"); raw != "" {
		for _, country := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(country); trimmed != "" {
				countries = append(countries, trimmed)
			}
		}
	}

	return database.RangeFilter{Start: start, End: end, Countries: countries}, nil
}

// Health reports service liveness and database reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	httpStatus := http.StatusOK

	if err := h.db.Ping(r.Context()); err != nil {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	respondJSON(w, httpStatus, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"status": status,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// FilterMeta returns the dataset's date span and distinct countries so
// the dashboard can bound its date picker and populate the country
// multiselect. The result is cached like any analytics query.
func (h *Handler) FilterMeta(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	cacheKey := cache.GenerateKey("FilterMeta", nil)
	if cached, found := h.cache.Get(cacheKey); found {
		respondCached(w, cached)
		return
	}

	meta, err := h.db.GetFilterMeta(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR",
			"Failed to load filter metadata", err)
		return
	}

	h.cache.Set(cacheKey, meta)
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   meta,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
