package utils

import "time"

// WeekNumber implements the yard's week rule: weeks start on Sunday and
// week 1 contains January 1, counted from the Sunday on or before it.
func WeekNumber(t time.Time) int {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	firstSunday := jan1.AddDate(0, 0, -int(jan1.Weekday()))
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	days := int(day.Sub(firstSunday) / (24 * time.Hour))
	return days/7 + 1
}
