// Retailboard - Retail Analytics Dashboard Backend
// Copyright 2026 Retailboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/retailboard/retailboard

package database

import (
	"context"
	"math"
	"testing"

	"github.com/retailboard/retailboard/internal/config"
	"github.com/retailboard/retailboard/internal/models"
)

const floatTolerance = 1e-6

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func checkFloatPtr(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s = nil, want %v", name, want)
	}
	if !almostEqual(*got, want) {
		t.Errorf("%s = %v, want %v", name, *got, want)
	}
}

func TestGetRevenueKPI(t *testing.T) {
	db := setupTestDB(t)
	seedAnalyticsData(t, db)
	ctx := context.Background()

	t.Run("all countries", func(t *testing.T) {
		kpi, err := db.GetRevenueKPI(ctx, q1Filter(t))
		if err != nil {
			t.Fatalf("GetRevenueKPI failed: %v", err)
		}

		// I1+I2+I3+I4 = 290 across 4 distinct invoices.
		checkFloatPtr(t, "Revenue", kpi.Revenue, 290.00)
		checkFloatPtr(t, "AvgOrderValue", kpi.AvgOrderValue, 72.50)
	})

	t.Run("country filter", func(t *testing.T) {
		kpi, err := db.GetRevenueKPI(ctx, q1Filter(t, "United Kingdom", "France"))
		if err != nil {
			t.Fatalf("GetRevenueKPI failed: %v", err)
		}

		checkFloatPtr(t, "Revenue", kpi.Revenue, 230.00)
		checkFloatPtr(t, "AvgOrderValue", kpi.AvgOrderValue, 76.67)
	})

	t.Run("empty window yields nil metrics", func(t *testing.T) {
		kpi, err := db.GetRevenueKPI(ctx, emptyFilter(t))
		if err != nil {
			t.Fatalf("GetRevenueKPI failed: %v", err)
		}

		if kpi.Revenue != nil {
			t.Errorf("Revenue = %v, want nil", *kpi.Revenue)
		}
		if kpi.AvgOrderValue != nil {
			t.Errorf("AvgOrderValue = %v, want nil", *kpi.AvgOrderValue)
		}
	})

	t.Run("aov times invoice count approximates revenue", func(t *testing.T) {
		kpi, err := db.GetRevenueKPI(ctx, q1Filter(t))
		if err != nil {
			t.Fatalf("GetRevenueKPI failed: %v", err)
		}

		if math.Abs(*kpi.AvgOrderValue*4-*kpi.Revenue) > 0.02*4 {
			t.Errorf("AOV*invoices = %v, revenue = %v", *kpi.AvgOrderValue*4, *kpi.Revenue)
		}
	})
}

func TestGetRepeatPurchaseRate(t *testing.T) {
	db := setupTestDB(t)
	seedAnalyticsData(t, db)
	ctx := context.Background()

	t.Run("all countries", func(t *testing.T) {
		result, err := db.GetRepeatPurchaseRate(ctx, q1Filter(t))
		if err != nil {
			t.Fatalf("GetRepeatPurchaseRate failed: %v", err)
		}

		// C1 has 2 invoices, C2 and C3 have 1 each: 1 of 3.
		checkFloatPtr(t, "RatePct", result.RatePct, 33.33)
	})

	t.Run("country filter", func(t *testing.T) {
		result, err := db.GetRepeatPurchaseRate(ctx, q1Filter(t, "United Kingdom", "France"))
		if err != nil {
			t.Fatalf("GetRepeatPurchaseRate failed: %v", err)
		}

		checkFloatPtr(t, "RatePct", result.RatePct, 50.00)
	})

	t.Run("no repeat customers yields zero", func(t *testing.T) {
		// France only: C2 with a single invoice.
		result, err := db.GetRepeatPurchaseRate(ctx, q1Filter(t, "France"))
		if err != nil {
			t.Fatalf("GetRepeatPurchaseRate failed: %v", err)
		}

		checkFloatPtr(t, "RatePct", result.RatePct, 0.00)
	})

	t.Run("empty window yields nil rate", func(t *testing.T) {
		result, err := db.GetRepeatPurchaseRate(ctx, emptyFilter(t))
		if err != nil {
			t.Fatalf("GetRepeatPurchaseRate failed: %v", err)
		}

		if result.RatePct != nil {
			t.Errorf("RatePct = %v, want nil", *result.RatePct)
		}
	})
}

func TestGetMonthlyRevenue(t *testing.T) {
	db := setupTestDB(t)
	seedAnalyticsData(t, db)
	ctx := context.Background()

	t.Run("series is chronological", func(t *testing.T) {
		series, err := db.GetMonthlyRevenue(ctx, q1Filter(t))
		if err != nil {
			t.Fatalf("GetMonthlyRevenue failed: %v", err)
		}

		want := []models.MonthlyRevenuePoint{
			{YearMonth: "2023-01", Revenue: 180.00},
			{YearMonth: "2023-02", Revenue: 60.00},
			{YearMonth: "2023-03", Revenue: 50.00},
		}
		if len(series) != len(want) {
			t.Fatalf("len(series) = %d, want %d", len(series), len(want))
		}
		for i := range want {
			if series[i].YearMonth != want[i].YearMonth {
				t.Errorf("series[%d].YearMonth = %q, want %q", i, series[i].YearMonth, want[i].YearMonth)
			}
			if !almostEqual(series[i].Revenue, want[i].Revenue) {
				t.Errorf("series[%d].Revenue = %v, want %v", i, series[i].Revenue, want[i].Revenue)
			}
		}
	})

	t.Run("series total matches KPI revenue", func(t *testing.T) {
		filter := q1Filter(t)
		series, err := db.GetMonthlyRevenue(ctx, filter)
		if err != nil {
			t.Fatalf("GetMonthlyRevenue failed: %v", err)
		}
		kpi, err := db.GetRevenueKPI(ctx, filter)
		if err != nil {
			t.Fatalf("GetRevenueKPI failed: %v", err)
		}

		var total float64
		for _, point := range series {
			total += point.Revenue
		}
		if math.Abs(total-*kpi.Revenue) > 0.01*float64(len(series)) {
			t.Errorf("series total = %v, KPI revenue = %v", total, *kpi.Revenue)
		}
	})

	t.Run("empty window yields empty non-nil series", func(t *testing.T) {
		series, err := db.GetMonthlyRevenue(ctx, emptyFilter(t))
		if err != nil {
			t.Fatalf("GetMonthlyRevenue failed: %v", err)
		}

		if series == nil {
			t.Fatal("series = nil, want empty slice")
		}
		if len(series) != 0 {
			t.Errorf("len(series) = %d, want 0", len(series))
		}
	})
}

func TestGetTopCountries(t *testing.T) {
	db := setupTestDB(t)
	seedAnalyticsData(t, db)
	ctx := context.Background()

	ranking, err := db.GetTopCountries(ctx, q1Filter(t), 10)
	if err != nil {
		t.Fatalf("GetTopCountries failed: %v", err)
	}

	want := []models.RankedRevenue{
		{Name: "United Kingdom", Revenue: 150.00},
		{Name: "France", Revenue: 80.00},
		{Name: "Unknown", Revenue: 60.00},
	}
	if len(ranking) != len(want) {
		t.Fatalf("len(ranking) = %d, want %d", len(ranking), len(want))
	}
	for i := range want {
		if ranking[i].Name != want[i].Name {
			t.Errorf("ranking[%d].Name = %q, want %q", i, ranking[i].Name, want[i].Name)
		}
		if !almostEqual(ranking[i].Revenue, want[i].Revenue) {
			t.Errorf("ranking[%d].Revenue = %v, want %v", i, ranking[i].Revenue, want[i].Revenue)
		}
	}
}

func TestGetTopProducts(t *testing.T) {
	db := setupTestDB(t)
	seedAnalyticsData(t, db)
	ctx := context.Background()

	t.Run("ordered by revenue", func(t *testing.T) {
		ranking, err := db.GetTopProducts(ctx, q1Filter(t), 10)
		if err != nil {
			t.Fatalf("GetTopProducts failed: %v", err)
		}

		want := []models.RankedRevenue{
			{Name: "Tea Set", Revenue: 130.00},
			{Name: "Alarm Clock", Revenue: 100.00},
			{Name: "Lantern", Revenue: 60.00},
		}
		if len(ranking) != len(want) {
			t.Fatalf("len(ranking) = %d, want %d", len(ranking), len(want))
		}
		for i := range want {
			if ranking[i].Name != want[i].Name {
				t.Errorf("ranking[%d].Name = %q, want %q", i, ranking[i].Name, want[i].Name)
			}
		}
	})

	t.Run("limit truncates", func(t *testing.T) {
		ranking, err := db.GetTopProducts(ctx, q1Filter(t), 2)
		if err != nil {
			t.Fatalf("GetTopProducts failed: %v", err)
		}

		if len(ranking) != 2 {
			t.Fatalf("len(ranking) = %d, want 2", len(ranking))
		}
		if ranking[0].Name != "Tea Set" || ranking[1].Name != "Alarm Clock" {
			t.Errorf("unexpected top-2: %v", ranking)
		}
	})

	t.Run("empty window yields empty ranking", func(t *testing.T) {
		ranking, err := db.GetTopProducts(ctx, emptyFilter(t), 10)
		if err != nil {
			t.Fatalf("GetTopProducts failed: %v", err)
		}
		if len(ranking) != 0 {
			t.Errorf("len(ranking) = %d, want 0", len(ranking))
		}
	})
}

// Equal revenue sums must rank deterministically, by name ascending.
func TestRankingTieBreakIsDeterministic(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	insertDate(t, db, "2023-05-01", "2023-05")
	insertCustomer(t, db, "C9", "Spain")
	insertProduct(t, db, "PA", "Zebra Mug")
	insertProduct(t, db, "PB", "Apple Bowl")

	insertFact(t, db, factLine{"I10", "2023-05-01", "C9", "PA", 1, 300.00})
	insertFact(t, db, factLine{"I11", "2023-05-01", "C9", "PB", 1, 300.00})

	filter := RangeFilter{
		Start: mustDate(t, "2023-05-01"),
		End:   mustDate(t, "2023-05-31"),
	}

	for i := 0; i < 5; i++ {
		ranking, err := db.GetTopProducts(ctx, filter, 10)
		if err != nil {
			t.Fatalf("GetTopProducts failed: %v", err)
		}
		if len(ranking) != 2 {
			t.Fatalf("len(ranking) = %d, want 2", len(ranking))
		}
		if ranking[0].Name != "Apple Bowl" || ranking[1].Name != "Zebra Mug" {
			t.Fatalf("run %d: unexpected tie order: %v", i, ranking)
		}
	}
}

func TestGetRFMSegmentation(t *testing.T) {
	db := setupTestDB(t)
	seedAnalyticsData(t, db)
	ctx := context.Background()

	t.Run("segments ordered by monetary", func(t *testing.T) {
		segments, err := db.GetRFMSegmentation(ctx, q1Filter(t), 100)
		if err != nil {
			t.Fatalf("GetRFMSegmentation failed: %v", err)
		}

		want := []models.RFMRow{
			{CustomerID: "C1", RecencyDays: 21, Frequency: 2, Monetary: 150.00},
			{CustomerID: "C2", RecencyDays: 70, Frequency: 1, Monetary: 80.00},
			{CustomerID: "C3", RecencyDays: 45, Frequency: 1, Monetary: 60.00},
		}
		if len(segments) != len(want) {
			t.Fatalf("len(segments) = %d, want %d", len(segments), len(want))
		}
		for i := range want {
			if segments[i].CustomerID != want[i].CustomerID {
				t.Errorf("segments[%d].CustomerID = %q, want %q", i, segments[i].CustomerID, want[i].CustomerID)
			}
			if segments[i].RecencyDays != want[i].RecencyDays {
				t.Errorf("segments[%d].RecencyDays = %d, want %d", i, segments[i].RecencyDays, want[i].RecencyDays)
			}
			if segments[i].Frequency != want[i].Frequency {
				t.Errorf("segments[%d].Frequency = %d, want %d", i, segments[i].Frequency, want[i].Frequency)
			}
			if !almostEqual(segments[i].Monetary, want[i].Monetary) {
				t.Errorf("segments[%d].Monetary = %v, want %v", i, segments[i].Monetary, want[i].Monetary)
			}
		}
	})

	t.Run("recency is never negative at window end", func(t *testing.T) {
		segments, err := db.GetRFMSegmentation(ctx, q1Filter(t), 100)
		if err != nil {
			t.Fatalf("GetRFMSegmentation failed: %v", err)
		}
		for _, seg := range segments {
			if seg.RecencyDays < 0 {
				t.Errorf("customer %s: negative recency %d", seg.CustomerID, seg.RecencyDays)
			}
		}
	})

	t.Run("limit truncates", func(t *testing.T) {
		segments, err := db.GetRFMSegmentation(ctx, q1Filter(t), 1)
		if err != nil {
			t.Fatalf("GetRFMSegmentation failed: %v", err)
		}
		if len(segments) != 1 {
			t.Fatalf("len(segments) = %d, want 1", len(segments))
		}
		if segments[0].CustomerID != "C1" {
			t.Errorf("top segment = %q, want C1", segments[0].CustomerID)
		}
	})

	t.Run("empty window yields empty result", func(t *testing.T) {
		segments, err := db.GetRFMSegmentation(ctx, emptyFilter(t), 100)
		if err != nil {
			t.Fatalf("GetRFMSegmentation failed: %v", err)
		}
		if len(segments) != 0 {
			t.Errorf("len(segments) = %d, want 0", len(segments))
		}
	})
}

func TestGetCohortRetention(t *testing.T) {
	db := setupTestDB(t)
	seedAnalyticsData(t, db)
	ctx := context.Background()

	t.Run("matrix shape and ratios", func(t *testing.T) {
		matrix, err := db.GetCohortRetention(ctx, q1Filter(t), 11)
		if err != nil {
			t.Fatalf("GetCohortRetention failed: %v", err)
		}

		// Cohort 2023-01 = {C1, C2}; only C1 returns in March (period 2).
		// Cohort 2023-02 = {C3}.
		if len(matrix) != 2 {
			t.Fatalf("len(matrix) = %d, want 2", len(matrix))
		}

		jan := matrix[0]
		if jan.Cohort != "2023-01" || jan.Size != 2 {
			t.Errorf("cohort[0] = %s size %d, want 2023-01 size 2", jan.Cohort, jan.Size)
		}
		if len(jan.Periods) != 2 {
			t.Fatalf("jan periods = %d, want 2", len(jan.Periods))
		}
		if jan.Periods[0].Period != 0 || jan.Periods[0].ActiveCustomers != 2 {
			t.Errorf("jan period 0 = %+v", jan.Periods[0])
		}
		if jan.Periods[1].Period != 2 || jan.Periods[1].ActiveCustomers != 1 {
			t.Errorf("jan period 2 = %+v", jan.Periods[1])
		}
		if !almostEqual(jan.Periods[1].Retention, 0.5) {
			t.Errorf("jan period 2 retention = %v, want 0.5", jan.Periods[1].Retention)
		}

		feb := matrix[1]
		if feb.Cohort != "2023-02" || feb.Size != 1 {
			t.Errorf("cohort[1] = %s size %d, want 2023-02 size 1", feb.Cohort, feb.Size)
		}
	})

	t.Run("period zero retention is exactly one", func(t *testing.T) {
		matrix, err := db.GetCohortRetention(ctx, q1Filter(t), 11)
		if err != nil {
			t.Fatalf("GetCohortRetention failed: %v", err)
		}
		for _, row := range matrix {
			if row.Size == 0 {
				t.Errorf("cohort %s has size 0", row.Cohort)
			}
			if len(row.Periods) == 0 || row.Periods[0].Period != 0 {
				t.Errorf("cohort %s missing period 0", row.Cohort)
				continue
			}
			if row.Periods[0].Retention != 1.0 {
				t.Errorf("cohort %s period 0 retention = %v, want exactly 1.0",
					row.Cohort, row.Periods[0].Retention)
			}
		}
	})

	t.Run("maxPeriods caps the horizon", func(t *testing.T) {
		matrix, err := db.GetCohortRetention(ctx, q1Filter(t), 1)
		if err != nil {
			t.Fatalf("GetCohortRetention failed: %v", err)
		}
		for _, row := range matrix {
			for _, cell := range row.Periods {
				if cell.Period > 1 {
					t.Errorf("cohort %s contains period %d beyond cap", row.Cohort, cell.Period)
				}
			}
		}
	})

	t.Run("empty window yields empty matrix", func(t *testing.T) {
		matrix, err := db.GetCohortRetention(ctx, emptyFilter(t), 11)
		if err != nil {
			t.Fatalf("GetCohortRetention failed: %v", err)
		}
		if len(matrix) != 0 {
			t.Errorf("len(matrix) = %d, want 0", len(matrix))
		}
	})
}

func TestGetFilterMeta(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	t.Run("empty database", func(t *testing.T) {
		meta, err := db.GetFilterMeta(ctx)
		if err != nil {
			t.Fatalf("GetFilterMeta failed: %v", err)
		}
		if meta.MinDate != "" || meta.MaxDate != "" {
			t.Errorf("dates = %q..%q, want empty", meta.MinDate, meta.MaxDate)
		}
		if len(meta.Countries) != 0 {
			t.Errorf("countries = %v, want empty", meta.Countries)
		}
	})

	t.Run("seeded database", func(t *testing.T) {
		seedAnalyticsData(t, db)

		meta, err := db.GetFilterMeta(ctx)
		if err != nil {
			t.Fatalf("GetFilterMeta failed: %v", err)
		}
		if meta.MinDate != "2023-01-05" {
			t.Errorf("MinDate = %q, want 2023-01-05", meta.MinDate)
		}
		if meta.MaxDate != "2023-04-02" {
			t.Errorf("MaxDate = %q, want 2023-04-02", meta.MaxDate)
		}

		// Sorted, and the NULL-country customer contributes nothing.
		want := []string{"France", "Germany", "United Kingdom"}
		if len(meta.Countries) != len(want) {
			t.Fatalf("countries = %v, want %v", meta.Countries, want)
		}
		for i := range want {
			if meta.Countries[i] != want[i] {
				t.Errorf("countries[%d] = %q, want %q", i, meta.Countries[i], want[i])
			}
		}
	})
}

// A customer active twelve calendar months after their first order
// falls outside the default horizon: periods run 0..11.
func TestGetCohortRetentionDefaultHorizon(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	insertDate(t, db, "2020-01-10", "2020-01")
	insertDate(t, db, "2021-01-10", "2021-01")
	insertCustomer(t, db, "C8", "Portugal")
	insertProduct(t, db, "P8", "Wall Clock")

	insertFact(t, db, factLine{"I20", "2020-01-10", "C8", "P8", 1, 25.00})
	insertFact(t, db, factLine{"I21", "2021-01-10", "C8", "P8", 1, 30.00})

	filter := RangeFilter{
		Start: mustDate(t, "2020-01-01"),
		End:   mustDate(t, "2021-12-31"),
	}

	maxPeriods := config.Default().API.CohortPeriods
	matrix, err := db.GetCohortRetention(ctx, filter, maxPeriods)
	if err != nil {
		t.Fatalf("GetCohortRetention failed: %v", err)
	}

	if len(matrix) != 1 {
		t.Fatalf("len(matrix) = %d, want 1", len(matrix))
	}
	for _, cell := range matrix[0].Periods {
		if cell.Period > 11 {
			t.Errorf("cohort %s contains period %d beyond the twelve-month horizon",
				matrix[0].Cohort, cell.Period)
		}
	}
	if got := len(matrix[0].Periods); got != 1 {
		t.Errorf("periods = %d, want only the period-0 cell", got)
	}
}
