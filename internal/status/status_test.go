package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var today = time.Date(2024, 5, 15, 12, 30, 0, 0, time.UTC)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestCompute(t *testing.T) {
	yesterday := datePtr(2024, 5, 14)
	tomorrow := datePtr(2024, 5, 16)

	tests := []struct {
		name     string
		target   float64
		current  float64
		deadline *time.Time
		want     Status
	}{
		{"no progress, no deadline", 10, 0, nil, Active},
		{"partial progress", 10, 5, tomorrow, Active},
		{"target reached", 10, 10, nil, Completed},
		{"target exceeded", 10, 25, nil, Completed},
		{"past deadline, incomplete", 10, 5, yesterday, Overdue},
		{"past deadline but completed wins", 10, 10, yesterday, Completed},
		{"no deadline can never be overdue", 10, 0, nil, Active},
		{"deadline today is not overdue", 10, 5, datePtr(2024, 5, 15), Active},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compute(tt.target, tt.current, tt.deadline, today))
		})
	}
}

func TestComputeNeverBothCompletedAndOverdue(t *testing.T) {
	yesterday := datePtr(2024, 5, 14)
	for _, current := range []float64{0, 5, 10, 100} {
		s := Compute(10, current, yesterday, today)
		if s == Completed {
			assert.False(t, IsOverdue(10, current, yesterday, today))
		}
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name    string
		target  float64
		current float64
		want    float64
	}{
		{"zero progress", 100, 0, 0},
		{"partial", 100, 80, 80},
		{"exact", 100, 100, 100},
		{"over-achievement capped at 100", 100, 250, 100},
		{"zero target yields zero, not a division error", 0, 50, 0},
		{"negative target yields zero", -5, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentage(tt.target, tt.current)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("active"))
	assert.True(t, Valid("completed"))
	assert.True(t, Valid("overdue"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("ongoing"))
}
