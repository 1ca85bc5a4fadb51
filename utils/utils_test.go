package utils_test

import (
	"testing"
	"time"

	"patio-app/utils"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
}

func TestWeekNumber(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want int
	}{
		// 2023: January 1 falls on a Sunday, so weeks align with the month.
		{"2023 jan 1", date(2023, time.January, 1), 1},
		{"2023 jan 7 saturday", date(2023, time.January, 7), 1},
		{"2023 jan 8 sunday", date(2023, time.January, 8), 2},
		// 2024: January 1 is a Monday, week 1 starts Sunday December 31.
		{"2024 jan 1", date(2024, time.January, 1), 1},
		{"2024 jan 6 saturday", date(2024, time.January, 6), 1},
		{"2024 jan 7 sunday", date(2024, time.January, 7), 2},
		{"2024 mid february", date(2024, time.February, 14), 7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := utils.WeekNumber(tc.in); got != tc.want {
				t.Errorf("WeekNumber(%s) = %d, want %d", tc.in.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}
