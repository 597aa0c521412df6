package dateutil

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var today = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

func TestIsPastDue(t *testing.T) {
	tests := []struct {
		name     string
		due      time.Time
		expected bool
	}{
		{"Yesterday", today.AddDate(0, 0, -1), true},
		{"Last month", today.AddDate(0, -1, 0), true},
		{"Today at midnight", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), false},
		{"Today late evening", time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC), false},
		{"Tomorrow", today.AddDate(0, 0, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsPastDue(tt.due, today))
		})
	}
}

func TestWithinDays(t *testing.T) {
	tests := []struct {
		name     string
		due      time.Time
		days     int
		expected bool
	}{
		{"Today", today, 5, true},
		{"Window edge", today.AddDate(0, 0, 5), 5, true},
		{"Past window edge", today.AddDate(0, 0, 6), 5, false},
		{"Yesterday is not within", today.AddDate(0, 0, -1), 5, false},
		{"Zero window keeps today only", today, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WithinDays(tt.due, today, tt.days))
		})
	}
}

func TestSameDate(t *testing.T) {
	morning := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)

	assert.True(t, SameDate(morning, evening))
	assert.False(t, SameDate(morning, morning.AddDate(0, 0, 1)))
}

func TestAddMonths(t *testing.T) {
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	// Go date arithmetic normalizes Jan 31 + 1 month to Mar 3.
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), AddMonths(start, 1))
	assert.Equal(t, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), AddMonths(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), 1))
}

func TestSplitAmount(t *testing.T) {
	tests := []struct {
		name         string
		total        int64
		installments int
		expected     string
	}{
		{"Even split", 12000, 12, "1000"},
		{"Rounded to paise", 1000, 3, "333.33"},
		{"Single installment", 500, 1, "500"},
		{"Zero installments returns total", 500, 0, "500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitAmount(decimal.NewFromInt(tt.total), tt.installments)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)), "got %s", got)
		})
	}
}
