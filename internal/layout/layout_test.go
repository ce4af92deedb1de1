package layout

import (
	"math"
	"testing"
	"time"

	"github.com/joshharrison/ganttloom/internal/task"
	"github.com/joshharrison/ganttloom/internal/timescale"
)

func day(d int) time.Time {
	return timescale.Date(2024, time.January, d)
}

func dayConfig(start, end time.Time, scale float64) Config {
	return Config{
		ViewportStart: start,
		ViewportEnd:   end,
		Scale:         scale,
		RowHeight:     40,
		BarHeight:     24,
		Mode:          timescale.ViewDay,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeAdjacentBars(t *testing.T) {
	tasks := []task.Task{
		{ID: "a", Type: task.TypeTask, Start: day(1), End: day(3)},
		{ID: "b", Type: task.TypeTask, Start: day(4), End: day(6), Dependencies: []string{"a"}},
	}
	cfg := dayConfig(day(1), day(6), 50)
	pos := Compute(tasks, cfg)

	a, ok := pos["a"]
	if !ok {
		t.Fatal("missing position for a")
	}
	if a.X != 0 || !almostEqual(a.Width, 149) {
		t.Errorf("a = {x:%v, w:%v}, want {x:0, w:149}", a.X, a.Width)
	}

	b := pos["b"]
	if b.X != 150 {
		t.Errorf("b.X = %v, want 150", b.X)
	}
	// Bars on adjacent days touch up to the 1px inset.
	if !almostEqual(b.X, a.X+a.Width+1) {
		t.Errorf("b.X = %v, want a.X+a.Width+1 = %v", b.X, a.X+a.Width+1)
	}
}

func TestComputeRowPlacement(t *testing.T) {
	tasks := []task.Task{
		{ID: "a", Type: task.TypeTask, Start: day(1), End: day(2)},
		{ID: "b", Type: task.TypeTask, Start: day(1), End: day(2)},
	}
	pos := Compute(tasks, dayConfig(day(1), day(6), 50))

	// Bar centered in a 40px row with 24px height: (40-24)/2 = 8.
	if pos["a"].Y != 8 {
		t.Errorf("a.Y = %v, want 8", pos["a"].Y)
	}
	if pos["b"].Y != 48 {
		t.Errorf("b.Y = %v, want 48", pos["b"].Y)
	}
	if pos["a"].Height != 24 {
		t.Errorf("a.Height = %v, want 24", pos["a"].Height)
	}
}

func TestComputeScaleLinearity(t *testing.T) {
	tasks := []task.Task{
		{ID: "a", Type: task.TypeTask, Start: day(3), End: day(5)},
	}
	p1 := Compute(tasks, dayConfig(day(1), day(10), 50))["a"]
	p2 := Compute(tasks, dayConfig(day(1), day(10), 100))["a"]

	if !almostEqual(p2.X, 2*p1.X) {
		t.Errorf("doubling scale: x %v -> %v, want exactly double", p1.X, p2.X)
	}
	// The 1px inset is constant, so the pre-inset width doubles exactly.
	if !almostEqual(p2.Width+1, 2*(p1.Width+1)) {
		t.Errorf("doubling scale: width %v -> %v, want pre-inset double", p1.Width, p2.Width)
	}
}

func TestComputeClipsToViewport(t *testing.T) {
	tasks := []task.Task{
		{ID: "a", Type: task.TypeTask, Start: day(1), End: day(10)},
	}
	pos := Compute(tasks, dayConfig(day(4), day(6), 50))["a"]
	if pos.X != 0 {
		t.Errorf("clipped x = %v, want 0", pos.X)
	}
	if !almostEqual(pos.Width, 149) { // 3 visible days
		t.Errorf("clipped width = %v, want 149", pos.Width)
	}
}

func TestComputeOmitsOutsideButKeepsRow(t *testing.T) {
	tasks := []task.Task{
		{ID: "gone", Type: task.TypeTask, Start: day(20), End: day(25)},
		{ID: "here", Type: task.TypeTask, Start: day(2), End: day(3)},
	}
	pos := Compute(tasks, dayConfig(day(1), day(6), 50))
	if _, ok := pos["gone"]; ok {
		t.Error("task outside the viewport should be omitted")
	}
	// The omitted task still occupies row 0; "here" stays on row 1.
	if pos["here"].Y != 48 {
		t.Errorf("here.Y = %v, want 48", pos["here"].Y)
	}
}

func TestComputeMilestoneFloorAndHeight(t *testing.T) {
	tasks := []task.Task{
		{ID: "m", Type: task.TypeMilestone, Start: day(2), End: day(2)},
		{ID: "t", Type: task.TypeTask, Start: day(2), End: day(2)},
	}
	// At scale 0.5 a one-day bar computes to -0.5px after inset.
	pos := Compute(tasks, dayConfig(day(1), day(6), 0.5))

	m := pos["m"]
	if !almostEqual(m.Width, 0.5*timescale.MilestoneDays) {
		t.Errorf("milestone width = %v, want %v", m.Width, 0.5*timescale.MilestoneDays)
	}
	if !almostEqual(m.Height, 24*0.8) {
		t.Errorf("milestone height = %v, want %v", m.Height, 24*0.8)
	}

	if got := pos["t"].Width; got != 0 {
		t.Errorf("regular task width floored at %v, want 0", got)
	}
}

func TestWidthAndHeight(t *testing.T) {
	cfg := dayConfig(day(1), day(6), 50)
	if got := Width(cfg); got != 300 {
		t.Errorf("Width = %v, want 300", got)
	}
	if got := Height(3, 40); got != 120 {
		t.Errorf("Height = %v, want 120", got)
	}
	if got := Height(0, 40); got != 40 {
		t.Errorf("Height of empty chart = %v, want one row", got)
	}
}

func TestVerticalLinesDayModeFineOnly(t *testing.T) {
	cfg := dayConfig(day(1), day(3), 50)
	lines := VerticalLines(cfg)
	if len(lines) != 3 {
		t.Fatalf("expected 3 fine day lines, got %d", len(lines))
	}
	for _, l := range lines {
		if l.Major {
			t.Errorf("day mode at high zoom should not emit major lines, got major at %v", l.X)
		}
	}
}

func TestVerticalLinesMonthMode(t *testing.T) {
	cfg := Config{
		ViewportStart: timescale.Date(2024, time.January, 15),
		ViewportEnd:   timescale.Date(2024, time.March, 10),
		Scale:         2,
		RowHeight:     40,
		BarHeight:     24,
		Mode:          timescale.ViewMonth,
	}
	lines := VerticalLines(cfg)
	var majors []VLine
	for _, l := range lines {
		if l.Major {
			majors = append(majors, l)
		}
		if !l.Major {
			t.Errorf("scale 2 is below the fine-grid threshold, got fine line at %v", l.X)
		}
	}
	// Jan 1 precedes the viewport and is dropped; Feb 1 and Mar 1 remain.
	if len(majors) != 2 {
		t.Fatalf("expected 2 major lines, got %d", len(majors))
	}
	if got := majors[0].X; got != 34 { // 17 days from Jan 15 to Feb 1
		t.Errorf("first major at %v, want 34", got)
	}
}

func TestHorizontalLines(t *testing.T) {
	got := HorizontalLines(3, 40)
	want := []float64{39, 79, 119}
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d at %v, want %v", i, got[i], want[i])
		}
	}
}

func TestColumnsClipLeadingUnit(t *testing.T) {
	cfg := Config{
		ViewportStart: timescale.Date(2024, time.January, 15),
		ViewportEnd:   timescale.Date(2024, time.March, 10),
		Scale:         2,
		RowHeight:     40,
		BarHeight:     24,
		Mode:          timescale.ViewMonth,
	}
	cols := Columns(cfg)
	if len(cols) != 3 {
		t.Fatalf("expected 3 month columns, got %d", len(cols))
	}
	if cols[0].X != 0 {
		t.Errorf("leading column clipped to x=%v, want 0", cols[0].X)
	}
	// January shows only its remaining 17 days.
	if !almostEqual(cols[0].Width, 34) {
		t.Errorf("leading column width = %v, want 34", cols[0].Width)
	}
	if cols[1].Label == "" {
		t.Error("expected a label on the February column")
	}
}
