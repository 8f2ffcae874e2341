package charts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func deref(vs []*float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		if v != nil {
			out[i] = *v
		}
	}
	return out
}

func TestBuildDailyCumulative(t *testing.T) {
	// 10-day span, progress on days 1, 3 and 5, viewed from day 10.
	start := date(2024, 5, 1)
	goal := Goal{CreatedAt: start, TargetValue: 20, Unit: "km"}
	entries := []Entry{
		{Date: date(2024, 5, 1), Value: 2},
		{Date: date(2024, 5, 3), Value: 4},
		{Date: date(2024, 5, 5), Value: 6},
	}
	today := date(2024, 5, 10)

	series := Build(goal, entries, today)

	assert.Equal(t, Daily, series.Grouping)
	require.Len(t, series.CumulativeValues, 10)
	// Running total: 2, then +4 on day 3, then +6 on day 5.
	assert.Equal(t, []float64{2, 2, 6, 6, 12, 12, 12, 12, 12, 12}, deref(series.CumulativeValues))
	assert.Equal(t, []float64{2, 0, 4, 0, 6, 0, 0, 0, 0, 0}, deref(series.PeriodValues))
	assert.Equal(t, "2024-05-01", series.Labels[0])
	assert.Equal(t, "2024-05-10", series.Labels[9])
	assert.Equal(t, "km", series.Unit)
}

func TestGroupingBySpan(t *testing.T) {
	start := date(2024, 1, 1)
	today := date(2024, 1, 10)

	tests := []struct {
		name     string
		spanDays int
		want     Grouping
	}{
		{"40-day goal", 40, Daily},
		{"60-day boundary", 60, Daily},
		{"61 days tips weekly", 61, Weekly},
		{"200-day goal", 200, Weekly},
		{"365-day boundary", 365, Weekly},
		{"400-day goal", 400, Monthly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deadline := start.AddDate(0, 0, tt.spanDays-1)
			goal := Goal{CreatedAt: start, Deadline: &deadline, TargetValue: 10}
			series := Build(goal, nil, today)
			assert.Equal(t, tt.want, series.Grouping)
		})
	}
}

func TestFutureBucketsAreNil(t *testing.T) {
	start := date(2024, 5, 1)
	goal := Goal{CreatedAt: start, Deadline: datePtr(2024, 5, 20), TargetValue: 10}
	entries := []Entry{{Date: date(2024, 5, 2), Value: 3}}
	today := date(2024, 5, 5)

	series := Build(goal, entries, today)

	// Series runs from the earliest entry (May 2) to the deadline (May 20).
	require.Len(t, series.PeriodValues, 19)
	for i := 0; i < 19; i++ {
		if i <= 3 {
			assert.NotNil(t, series.PeriodValues[i], "bucket %d should have a value", i)
			assert.NotNil(t, series.CumulativeValues[i], "bucket %d should have a value", i)
		} else {
			assert.Nil(t, series.PeriodValues[i], "bucket %d is in the future", i)
			assert.Nil(t, series.CumulativeValues[i], "bucket %d is in the future", i)
		}
	}
}

func TestPeriodSumEqualsFinalCumulative(t *testing.T) {
	start := date(2024, 1, 3) // a Wednesday
	goal := Goal{CreatedAt: start, Deadline: datePtr(2024, 7, 1), TargetValue: 500}
	entries := []Entry{
		{Date: date(2024, 1, 3), Value: 5},
		{Date: date(2024, 1, 9), Value: 7},
		{Date: date(2024, 2, 20), Value: 11},
		{Date: date(2024, 3, 1), Value: 2},
	}
	today := date(2024, 4, 1)

	series := Build(goal, entries, today)
	assert.Equal(t, Weekly, series.Grouping)

	var sum float64
	var lastCumulative float64
	for i, v := range series.PeriodValues {
		if v == nil {
			continue
		}
		sum += *v
		lastCumulative = *series.CumulativeValues[i]
	}
	assert.Equal(t, sum, lastCumulative)
	assert.Equal(t, 25.0, lastCumulative)
}

func TestWeeklyBucketsAnchorToMonday(t *testing.T) {
	start := date(2024, 1, 3) // Wednesday; that week's Monday is Jan 1
	goal := Goal{CreatedAt: start, Deadline: datePtr(2024, 4, 30), TargetValue: 10}
	series := Build(goal, []Entry{{Date: start, Value: 1}}, date(2024, 2, 1))

	assert.Equal(t, Weekly, series.Grouping)
	assert.Equal(t, "Jan 1", series.Labels[0])
	assert.Equal(t, "Jan 8", series.Labels[1])
}

func TestMonthlyBucketsAnchorToFirstOfMonth(t *testing.T) {
	start := date(2024, 3, 15)
	goal := Goal{CreatedAt: start, Deadline: datePtr(2025, 6, 1), TargetValue: 10}
	series := Build(goal, []Entry{{Date: start, Value: 1}}, date(2024, 5, 1))

	assert.Equal(t, Monthly, series.Grouping)
	assert.Equal(t, "March 2024", series.Labels[0])
	assert.Equal(t, "April 2024", series.Labels[1])
}

func TestSeriesStartsAtEarliestEntry(t *testing.T) {
	// Entries predate the goal's creation date (backfilled progress).
	goal := Goal{CreatedAt: date(2024, 5, 10), TargetValue: 10}
	entries := []Entry{{Date: date(2024, 5, 6), Value: 1}}
	series := Build(goal, entries, date(2024, 5, 12))

	assert.Equal(t, "2024-05-06", series.Labels[0])
	require.NotNil(t, series.PeriodValues[0])
	assert.Equal(t, 1.0, *series.PeriodValues[0])
}

func TestAvgPerDay(t *testing.T) {
	start := date(2024, 5, 1)
	goal := Goal{CreatedAt: start, TargetValue: 100}
	entries := []Entry{
		{Date: date(2024, 5, 1), Value: 10},
		{Date: date(2024, 5, 3), Value: 20},
	}
	// Day 3 of the series: 30 over 3 elapsed days.
	series := Build(goal, entries, date(2024, 5, 3))
	assert.InDelta(t, 10.0, series.AvgPerDay, 1e-9)
}

func TestAvgPerDayNeverDividesByZero(t *testing.T) {
	goal := Goal{CreatedAt: date(2024, 5, 10), TargetValue: 10}
	series := Build(goal, nil, date(2024, 5, 10))
	assert.Equal(t, 0.0, series.AvgPerDay)
}

func TestNeededPerDay(t *testing.T) {
	start := date(2024, 5, 1)
	entries := []Entry{{Date: start, Value: 30}}

	t.Run("deadline ahead spreads the deficit", func(t *testing.T) {
		goal := Goal{CreatedAt: start, Deadline: datePtr(2024, 5, 10), TargetValue: 100}
		series := Build(goal, entries, date(2024, 5, 3))
		// 70 remaining over 8 inclusive days.
		assert.InDelta(t, 8.75, series.NeededPerDay, 1e-9)
	})

	t.Run("passed deadline reports the full deficit", func(t *testing.T) {
		goal := Goal{CreatedAt: start, Deadline: datePtr(2024, 5, 2), TargetValue: 100}
		series := Build(goal, entries, date(2024, 5, 5))
		assert.Equal(t, 70.0, series.NeededPerDay)
	})

	t.Run("target already reached needs nothing", func(t *testing.T) {
		goal := Goal{CreatedAt: start, Deadline: datePtr(2024, 5, 10), TargetValue: 20}
		series := Build(goal, entries, date(2024, 5, 3))
		assert.Equal(t, 0.0, series.NeededPerDay)
	})

	t.Run("no deadline means no required pace", func(t *testing.T) {
		goal := Goal{CreatedAt: start, TargetValue: 100}
		series := Build(goal, entries, date(2024, 5, 3))
		assert.Equal(t, 0.0, series.NeededPerDay)
	})
}

func TestBuildIsDeterministic(t *testing.T) {
	start := date(2024, 5, 1)
	goal := Goal{CreatedAt: start, Deadline: datePtr(2024, 6, 1), TargetValue: 50, Unit: "pages"}
	entries := []Entry{
		{Date: date(2024, 5, 2), Value: 3},
		{Date: date(2024, 5, 4), Value: 9},
	}
	today := date(2024, 5, 10)

	first := Build(goal, entries, today)
	second := Build(goal, entries, today)
	assert.Equal(t, first, second)
}
