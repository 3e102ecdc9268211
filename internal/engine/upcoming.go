package engine

import (
	"slices"
	"time"

	"github.com/lazypower/bestfriend/internal/store"
)

// DefaultWindowDays is the lookahead used when a caller does not pick one.
const DefaultWindowDays = 30

// lastDate is the latest date a stored YYYY-MM-DD value can hold. Windows
// reaching past it are cut there, which also keeps AddDate from overflowing.
var lastDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// Occurrence is an event paired with the date it next falls on.
type Occurrence struct {
	Event store.EventWithFriend
	On    time.Time
}

// UpcomingEvents returns the events whose next occurrence falls within
// [today, today+windowDays], ordered by that occurrence.
func UpcomingEvents(events []store.EventWithFriend, today time.Time, windowDays int) []store.EventWithFriend {
	occ := UpcomingOccurrences(events, today, windowDays)
	out := make([]store.EventWithFriend, len(occ))
	for i, o := range occ {
		out[i] = o.Event
	}
	return out
}

// UpcomingOccurrences is UpcomingEvents with the projected dates kept.
// today is treated as a calendar date; a negative window matches nothing.
func UpcomingOccurrences(events []store.EventWithFriend, today time.Time, windowDays int) []Occurrence {
	today = dateOnly(today)
	end := windowEnd(today, windowDays)

	out := []Occurrence{}
	for _, ev := range events {
		date := dateOnly(ev.Date)
		if ev.Recurrence != store.RecurYearly {
			if inRange(date, today, end) {
				out = append(out, Occurrence{Event: ev, On: date})
			}
			continue
		}
		for _, year := range []int{today.Year(), today.Year() + 1} {
			candidate := anniversary(date, year)
			if inRange(candidate, today, end) {
				out = append(out, Occurrence{Event: ev, On: candidate})
				break
			}
		}
	}

	slices.SortStableFunc(out, func(a, b Occurrence) int {
		return a.On.Compare(b.On)
	})
	return out
}

func windowEnd(today time.Time, windowDays int) time.Time {
	if maxDays := (lastDate.Unix() - today.Unix()) / 86400; int64(windowDays) > maxDays {
		return lastDate
	}
	return today.AddDate(0, 0, windowDays)
}

// anniversary moves date into year. Feb 29 lands on Feb 28 when year has
// no leap day.
func anniversary(date time.Time, year int) time.Time {
	month, day := date.Month(), date.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func inRange(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
