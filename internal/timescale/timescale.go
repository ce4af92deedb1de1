// Package timescale converts between calendar dates and pixel offsets for
// a given zoom scale, and owns the view-mode/zoom policy.
package timescale

import (
	"fmt"
	"math"
	"time"
)

// ViewMode selects the calendar unit used for grid lines and header labels.
type ViewMode string

const (
	ViewDay     ViewMode = "day"
	ViewWeek    ViewMode = "week"
	ViewMonth   ViewMode = "month"
	ViewQuarter ViewMode = "quarter"
	ViewYear    ViewMode = "year"
)

// Scale is measured in pixels per day.
const (
	MinScale = 0.05
	MaxScale = 200.0

	// MilestoneDays is the display duration of a zero-length milestone, so
	// it stays clickable at any zoom level.
	MilestoneDays = 0.2

	zoomStep = 0.1 // 10% per zoom notch
)

var viewScales = map[ViewMode]float64{
	ViewDay:     50,
	ViewWeek:    10,
	ViewMonth:   2,
	ViewQuarter: 0.5,
	ViewYear:    0.1,
}

// ParseViewMode validates a view-mode string.
func ParseViewMode(s string) (ViewMode, error) {
	mode := ViewMode(s)
	if _, ok := viewScales[mode]; !ok {
		return "", fmt.Errorf("unknown view mode %q (want day, week, month, quarter or year)", s)
	}
	return mode, nil
}

// ScaleFor returns the default pixels-per-day scale for a view mode.
func ScaleFor(mode ViewMode) float64 {
	if s, ok := viewScales[mode]; ok {
		return s
	}
	return viewScales[ViewDay]
}

// Clamp bounds a scale to [MinScale, MaxScale].
func Clamp(scale float64) float64 {
	return math.Max(MinScale, math.Min(MaxScale, scale))
}

// Zoom applies steps zoom notches (positive = in, negative = out) to a
// scale, 10% multiplicative per notch, clamped to the scale bounds.
func Zoom(scale float64, steps int) float64 {
	dir := 1.0
	n := steps
	if steps < 0 {
		dir = -1.0
		n = -steps
	}
	for i := 0; i < n; i++ {
		scale = Clamp(scale * (1 + dir*zoomStep))
	}
	return scale
}

// Date builds a UTC-midnight date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Midnight truncates a time to its UTC calendar day.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AddDays shifts a date by a whole number of days.
func AddDays(t time.Time, days int) time.Time {
	return Midnight(t).AddDate(0, 0, days)
}

// DayCount returns the signed calendar-day difference from 'from' to 'to'.
// UTC-midnight normalization keeps the division exact (no DST in UTC).
func DayCount(from, to time.Time) int {
	return int(Midnight(to).Sub(Midnight(from)) / (24 * time.Hour))
}

// PixelOffset converts a date to a pixel offset from an anchor date.
// Negative when date precedes the anchor.
func PixelOffset(date, anchor time.Time, scale float64) float64 {
	return float64(DayCount(anchor, date)) * scale
}

// SpanWidth is the pixel width of an inclusive [start, end] day span.
func SpanWidth(start, end time.Time, scale float64) float64 {
	return float64(DayCount(start, end)+1) * scale
}

// DaysFromPixels converts a gesture's pixel delta back to a whole-day
// offset, rounding to the nearest day.
func DaysFromPixels(px, scale float64) int {
	return int(math.Round(px / scale))
}
