// Package charts builds the time series shown on a goal's detail page.
// Progress entries are grouped into day, week or month buckets depending on
// how long the goal runs, with a cumulative total alongside the per-bucket
// values and pace metrics derived from the remaining time. "today" is an
// explicit argument so the output is deterministic.
package charts

import "time"

type Grouping string

const (
	Daily   Grouping = "daily"
	Weekly  Grouping = "weekly"
	Monthly Grouping = "monthly"
)

// span thresholds, in inclusive days
const (
	maxDailySpan  = 60
	maxWeeklySpan = 365
)

// Goal carries the goal fields the aggregator needs.
type Goal struct {
	CreatedAt   time.Time
	Deadline    *time.Time
	TargetValue float64
	Unit        string
}

// Entry is a single progress record.
type Entry struct {
	Date  time.Time
	Value float64
}

// Series is the chart payload. Period and cumulative values are nil for
// buckets that start after today, so the chart stops at the present.
type Series struct {
	Labels           []string   `json:"labels"`
	PeriodValues     []*float64 `json:"periodValues"`
	CumulativeValues []*float64 `json:"cumulativeValues"`
	Unit             string     `json:"unit"`
	Target           float64    `json:"target"`
	AvgPerDay        float64    `json:"avgPerDay"`
	NeededPerDay     float64    `json:"neededPerDay"`
	Grouping         Grouping   `json:"grouping"`
}

// Build aggregates entries into a bucketed series for the goal.
func Build(goal Goal, entries []Entry, today time.Time) Series {
	today = day(today)

	start := day(goal.CreatedAt)
	if first, ok := earliest(entries); ok {
		start = first
	}

	end := today
	if goal.Deadline != nil {
		end = day(*goal.Deadline)
	}
	if end.Before(start) {
		end = start
	}

	grouping := chooseGrouping(daysBetween(start, end) + 1)

	series := Series{
		Unit:     goal.Unit,
		Target:   goal.TargetValue,
		Grouping: grouping,
	}

	var total float64
	for _, e := range entries {
		total += e.Value
	}

	running := 0.0
	for bucket := anchor(start, grouping); !bucket.After(end); bucket = next(bucket, grouping) {
		series.Labels = append(series.Labels, label(bucket, grouping))

		if bucket.After(today) {
			series.PeriodValues = append(series.PeriodValues, nil)
			series.CumulativeValues = append(series.CumulativeValues, nil)
			continue
		}

		bucketEnd := next(bucket, grouping).AddDate(0, 0, -1)
		if bucketEnd.After(today) {
			bucketEnd = today
		}

		v := sumRange(entries, bucket, bucketEnd)
		running += v
		pv, cv := v, running
		series.PeriodValues = append(series.PeriodValues, &pv)
		series.CumulativeValues = append(series.CumulativeValues, &cv)
	}

	series.AvgPerDay = avgPerDay(total, start, end, today)
	series.NeededPerDay = neededPerDay(goal.TargetValue, total, goal.Deadline, today)

	return series
}

func chooseGrouping(spanDays int) Grouping {
	switch {
	case spanDays <= maxDailySpan:
		return Daily
	case spanDays <= maxWeeklySpan:
		return Weekly
	default:
		return Monthly
	}
}

// anchor returns the first bucket start: the day itself for daily series,
// the Monday of its week for weekly, the first of its month for monthly.
func anchor(start time.Time, g Grouping) time.Time {
	switch g {
	case Weekly:
		offset := (int(start.Weekday()) + 6) % 7
		return start.AddDate(0, 0, -offset)
	case Monthly:
		return time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	default:
		return start
	}
}

func next(bucket time.Time, g Grouping) time.Time {
	switch g {
	case Weekly:
		return bucket.AddDate(0, 0, 7)
	case Monthly:
		return bucket.AddDate(0, 1, 0)
	default:
		return bucket.AddDate(0, 0, 1)
	}
}

func label(bucket time.Time, g Grouping) string {
	switch g {
	case Weekly:
		return bucket.Format("Jan 2")
	case Monthly:
		return bucket.Format("January 2006")
	default:
		return bucket.Format("2006-01-02")
	}
}

func sumRange(entries []Entry, from, to time.Time) float64 {
	var sum float64
	for _, e := range entries {
		d := day(e.Date)
		if !d.Before(from) && !d.After(to) {
			sum += e.Value
		}
	}
	return sum
}

// avgPerDay divides the progress total by the inclusive day count from the
// series start to today (or the series end if that comes first), never by
// less than one day.
func avgPerDay(total float64, start, end, today time.Time) float64 {
	last := today
	if end.Before(last) {
		last = end
	}
	days := 1
	if !last.Before(start) {
		days = daysBetween(start, last) + 1
	}
	return total / float64(days)
}

// neededPerDay is the daily pace required to hit the target by the
// deadline. Once the deadline has passed the whole deficit is due at once.
// Goals without a deadline have no required pace.
func neededPerDay(target, total float64, deadline *time.Time, today time.Time) float64 {
	if deadline == nil {
		return 0
	}
	d := day(*deadline)
	if !today.After(d) {
		remaining := daysBetween(today, d) + 1
		needed := (target - total) / float64(remaining)
		if needed < 0 {
			return 0
		}
		return needed
	}
	if target > total {
		return target - total
	}
	return 0
}

func earliest(entries []Entry) (time.Time, bool) {
	if len(entries) == 0 {
		return time.Time{}, false
	}
	first := day(entries[0].Date)
	for _, e := range entries[1:] {
		if d := day(e.Date); d.Before(first) {
			first = d
		}
	}
	return first, true
}

func daysBetween(from, to time.Time) int {
	return int(day(to).Sub(day(from)).Hours() / 24)
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
