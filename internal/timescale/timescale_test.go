package timescale

import (
	"testing"
	"time"
)

func TestScaleForViewModes(t *testing.T) {
	cases := map[ViewMode]float64{
		ViewDay:     50,
		ViewWeek:    10,
		ViewMonth:   2,
		ViewQuarter: 0.5,
		ViewYear:    0.1,
	}
	for mode, want := range cases {
		if got := ScaleFor(mode); got != want {
			t.Errorf("ScaleFor(%s) = %v, want %v", mode, got, want)
		}
	}
}

func TestScaleForUnknownModeDefaultsToDay(t *testing.T) {
	if got := ScaleFor(ViewMode("fortnight")); got != 50 {
		t.Errorf("expected day scale for unknown mode, got %v", got)
	}
}

func TestParseViewMode(t *testing.T) {
	if _, err := ParseViewMode("week"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseViewMode("decade"); err == nil {
		t.Error("expected error for unknown view mode")
	}
}

func TestClampBounds(t *testing.T) {
	if got := Clamp(0.001); got != MinScale {
		t.Errorf("Clamp(0.001) = %v, want %v", got, MinScale)
	}
	if got := Clamp(9999); got != MaxScale {
		t.Errorf("Clamp(9999) = %v, want %v", got, MaxScale)
	}
	if got := Clamp(50); got != 50 {
		t.Errorf("Clamp(50) = %v, want 50", got)
	}
}

func TestZoomStepsAndClamp(t *testing.T) {
	if got := Zoom(50, 1); got != 55 {
		t.Errorf("Zoom(50, 1) = %v, want 55", got)
	}
	if got := Zoom(50, -1); got != 45 {
		t.Errorf("Zoom(50, -1) = %v, want 45", got)
	}
	if got := Zoom(MaxScale, 3); got != MaxScale {
		t.Errorf("Zoom at max = %v, want %v", got, MaxScale)
	}
	if got := Zoom(MinScale, -3); got != MinScale {
		t.Errorf("Zoom at min = %v, want %v", got, MinScale)
	}
}

func TestDayCount(t *testing.T) {
	a := Date(2024, time.January, 1)
	if got := DayCount(a, a); got != 0 {
		t.Errorf("same-day count = %d, want 0", got)
	}
	if got := DayCount(a, Date(2024, time.January, 3)); got != 2 {
		t.Errorf("Jan 1 -> Jan 3 = %d, want 2", got)
	}
	if got := DayCount(Date(2024, time.January, 3), a); got != -2 {
		t.Errorf("Jan 3 -> Jan 1 = %d, want -2", got)
	}
	// 2024 is a leap year.
	if got := DayCount(Date(2024, time.February, 28), Date(2024, time.March, 1)); got != 2 {
		t.Errorf("leap-year Feb 28 -> Mar 1 = %d, want 2", got)
	}
}

func TestDayCountIgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2024, time.March, 10, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, time.March, 11, 0, 1, 0, 0, time.UTC)
	if got := DayCount(a, b); got != 1 {
		t.Errorf("cross-midnight count = %d, want 1", got)
	}
}

func TestPixelOffset(t *testing.T) {
	anchor := Date(2024, time.January, 1)
	if got := PixelOffset(Date(2024, time.January, 4), anchor, 50); got != 150 {
		t.Errorf("offset = %v, want 150", got)
	}
	if got := PixelOffset(Date(2023, time.December, 31), anchor, 50); got != -50 {
		t.Errorf("offset before anchor = %v, want -50", got)
	}
}

func TestSpanWidthInclusive(t *testing.T) {
	got := SpanWidth(Date(2024, time.January, 1), Date(2024, time.January, 3), 50)
	if got != 150 {
		t.Errorf("3-day span at scale 50 = %v, want 150", got)
	}
}

func TestDaysFromPixelsRounding(t *testing.T) {
	cases := []struct {
		px   float64
		want int
	}{
		{130, 3},  // 2.6 rounds up
		{-130, -3},
		{25, 1},   // half rounds away from zero
		{-25, -1},
		{24, 0},
		{0, 0},
	}
	for _, c := range cases {
		if got := DaysFromPixels(c.px, 50); got != c.want {
			t.Errorf("DaysFromPixels(%v, 50) = %d, want %d", c.px, got, c.want)
		}
	}
}
