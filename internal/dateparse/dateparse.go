// Package dateparse turns loose due-date input such as "tomorrow",
// "next friday" or "2025-3-7" into a calendar date.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Clear is the update-only literal that removes a due date.
const Clear = "clear"

var (
	isoPattern     = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	weekdayPattern = regexp.MustCompile(`^next\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)$`)
	inDaysPattern  = regexp.MustCompile(`^in\s+(\d+)\s+days?$`)
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// IsClear reports whether s is the "clear" literal.
func IsClear(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), Clear)
}

// Parse interprets s relative to now. The result is midnight in now's
// location. If the whole string is not a recognised expression and it
// contains commas, each segment is tried and the last one that parses wins.
func Parse(s string, now time.Time) (time.Time, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return time.Time{}, false
	}

	if d, ok := parseSegment(s, now); ok {
		return d, true
	}
	if !strings.Contains(s, ",") {
		return time.Time{}, false
	}

	var (
		last  time.Time
		found bool
	)
	for _, seg := range strings.Split(s, ",") {
		if d, ok := parseSegment(seg, now); ok {
			last, found = d, true
		}
	}
	return last, found
}

func parseSegment(seg string, now time.Time) (time.Time, bool) {
	seg = strings.TrimSpace(seg)
	if seg == "" {
		return time.Time{}, false
	}
	today := startOfDay(now)

	if m := isoPattern.FindStringSubmatch(seg); m != nil {
		return isoDate(m[1], m[2], m[3], now.Location())
	}

	switch seg {
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDate(0, 0, 1), true
	}

	if m := weekdayPattern.FindStringSubmatch(seg); m != nil {
		ahead := int(weekdays[m[1]]) - int(today.Weekday())
		if ahead <= 0 {
			ahead += 7
		}
		return today.AddDate(0, 0, ahead), true
	}

	if m := inDaysPattern.FindStringSubmatch(seg); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		return today.AddDate(0, 0, n), true
	}

	return time.Time{}, false
}

// isoDate rejects dates that time.Date would normalise, such as 2025-02-30.
func isoDate(year, month, day string, loc *time.Location) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if m < 1 || m > 12 || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc)
	if t.Year() != y || t.Month() != time.Month(m) || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
