// Package status derives a goal's state from its target, its progress sum
// and the current date. All functions are pure; the caller supplies "today"
// so results are reproducible.
package status

import "time"

type Status string

const (
	Active    Status = "active"
	Completed Status = "completed"
	Overdue   Status = "overdue"
)

// Valid reports whether s is one of the three known filter values.
func Valid(s string) bool {
	switch Status(s) {
	case Active, Completed, Overdue:
		return true
	}
	return false
}

// IsCompleted reports whether the progress sum has reached the target.
func IsCompleted(targetValue, currentValue float64) bool {
	return currentValue >= targetValue
}

// IsOverdue reports whether the deadline has passed without the goal being
// completed. A goal with no deadline is never overdue.
func IsOverdue(targetValue, currentValue float64, deadline *time.Time, today time.Time) bool {
	if deadline == nil {
		return false
	}
	return deadline.Before(truncateToDay(today)) && !IsCompleted(targetValue, currentValue)
}

// Compute returns the goal's status. Completed wins over overdue.
func Compute(targetValue, currentValue float64, deadline *time.Time, today time.Time) Status {
	if IsCompleted(targetValue, currentValue) {
		return Completed
	}
	if IsOverdue(targetValue, currentValue, deadline, today) {
		return Overdue
	}
	return Active
}

// Percentage returns progress toward the target as 0-100, capped at 100.
// A zero target yields 0 rather than dividing.
func Percentage(targetValue, currentValue float64) float64 {
	if targetValue <= 0 {
		return 0
	}
	pct := currentValue / targetValue * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
