// Retailboard - Retail Analytics Dashboard Backend
// Copyright 2026 Retailboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/retailboard/retailboard

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordQuery(t *testing.T) {
	before := testutil.CollectAndCount(QueryDuration)

	RecordQuery("RevenueKPI", 25*time.Millisecond, nil)

	after := testutil.CollectAndCount(QueryDuration)
	if after <= before-1 {
		t.Errorf("expected query duration series to be registered, before=%d after=%d", before, after)
	}
}

func TestRecordQueryError(t *testing.T) {
	RecordQuery("CohortRetention", time.Millisecond, errors.New("boom"))

	if v := testutil.ToFloat64(QueryErrors.WithLabelValues("CohortRetention")); v < 1 {
		t.Errorf("expected error counter >= 1, got %f", v)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hitsBefore := testutil.ToFloat64(ResultCacheHits)
	missesBefore := testutil.ToFloat64(ResultCacheMisses)

	RecordCacheLookup(true)
	RecordCacheLookup(false)

	if v := testutil.ToFloat64(ResultCacheHits); v != hitsBefore+1 {
		t.Errorf("expected hits %f, got %f", hitsBefore+1, v)
	}
	if v := testutil.ToFloat64(ResultCacheMisses); v != missesBefore+1 {
		t.Errorf("expected misses %f, got %f", missesBefore+1, v)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	base := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if v := testutil.ToFloat64(APIActiveRequests); v != base+1 {
		t.Errorf("expected active requests %f, got %f", base+1, v)
	}

	TrackActiveRequest(false)
	if v := testutil.ToFloat64(APIActiveRequests); v != base {
		t.Errorf("expected active requests %f, got %f", base, v)
	}
}
