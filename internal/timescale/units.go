package timescale

import (
	"fmt"
	"time"
)

// Unit describes one granularity's calendar behavior: how to normalize a
// date to the start of its unit, how to step to the next unit, and how to
// label a unit column of a given pixel width. Adding a granularity is a
// single table entry.
type Unit struct {
	Start func(time.Time) time.Time
	Next  func(time.Time) time.Time
	Label func(start time.Time, columnWidth float64) string
}

var units = map[ViewMode]Unit{
	ViewDay: {
		Start: Midnight,
		Next:  func(t time.Time) time.Time { return AddDays(t, 1) },
		Label: func(t time.Time, w float64) string {
			if w < 35 {
				return t.Format("2")
			}
			return t.Format("Jan 2")
		},
	},
	ViewWeek: {
		Start: StartOfWeek,
		Next:  func(t time.Time) time.Time { return AddDays(StartOfWeek(t), 7) },
		Label: func(t time.Time, w float64) string {
			_, week := t.ISOWeek()
			switch {
			case w < 40:
				return fmt.Sprintf("%d", week)
			case w < 70:
				return t.Format("Jan 2")
			default:
				return fmt.Sprintf("W%d %s", week, t.Format("Jan 2"))
			}
		},
	},
	ViewMonth: {
		Start: StartOfMonth,
		Next:  func(t time.Time) time.Time { return StartOfMonth(t).AddDate(0, 1, 0) },
		Label: func(t time.Time, w float64) string {
			switch {
			case w < 40:
				return t.Format("Jan")
			case w < 70:
				return t.Format("Jan 06")
			default:
				return t.Format("Jan 2006")
			}
		},
	},
	ViewQuarter: {
		Start: StartOfQuarter,
		Next:  func(t time.Time) time.Time { return StartOfQuarter(t).AddDate(0, 3, 0) },
		Label: func(t time.Time, w float64) string {
			q := (int(t.Month())-1)/3 + 1
			if w < 40 {
				return fmt.Sprintf("Q%d", q)
			}
			return fmt.Sprintf("Q%d %s", q, t.Format("2006"))
		},
	},
	ViewYear: {
		Start: StartOfYear,
		Next:  func(t time.Time) time.Time { return StartOfYear(t).AddDate(1, 0, 0) },
		Label: func(t time.Time, w float64) string {
			if w < 40 {
				return t.Format("06")
			}
			return t.Format("2006")
		},
	},
}

// UnitFor returns the unit table entry for a view mode, defaulting to day.
func UnitFor(mode ViewMode) Unit {
	if u, ok := units[mode]; ok {
		return u
	}
	return units[ViewDay]
}

// Boundaries enumerates the unit starts covering [start, end] for a view
// mode. The first boundary may precede start (a week or month begins
// earlier); callers clip negative offsets.
func Boundaries(mode ViewMode, start, end time.Time) []time.Time {
	u := UnitFor(mode)
	end = Midnight(end)
	var out []time.Time
	for t := u.Start(start); !t.After(end); t = u.Next(t) {
		out = append(out, t)
	}
	return out
}

// StartOfWeek normalizes to the Monday of the date's week.
func StartOfWeek(t time.Time) time.Time {
	t = Midnight(t)
	shift := (int(t.Weekday()) + 6) % 7
	return AddDays(t, -shift)
}

// StartOfMonth normalizes to the first day of the date's month.
func StartOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// StartOfQuarter normalizes to the first day of the date's calendar quarter.
func StartOfQuarter(t time.Time) time.Time {
	t = t.UTC()
	month := time.Month((int(t.Month())-1)/3*3 + 1)
	return time.Date(t.Year(), month, 1, 0, 0, 0, 0, time.UTC)
}

// StartOfYear normalizes to January 1 of the date's year.
func StartOfYear(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}
