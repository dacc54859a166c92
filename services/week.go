package services

import "time"

// WeekStart returns the Monday of the ISO week containing t, truncated to
// midnight UTC. Sunday belongs to the week that started the previous Monday.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday
	}
	day := t.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseWeek parses an ISO date string and normalizes it to its week start.
func ParseWeek(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return WeekStart(t), nil
}
