package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRussianDate(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), "05 января 2025 г."},
		{time.Date(2025, 3, 8, 12, 30, 0, 0, time.UTC), "08 марта 2025 г."},
		{time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), "31 декабря 2024 г."},
		{time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), "01 сентября 2026 г."},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatRussianDate(tc.date))
	}
}
