package svg

import (
	"strings"
	"testing"
	"time"

	"github.com/joshharrison/ganttloom/internal/layout"
	"github.com/joshharrison/ganttloom/internal/task"
	"github.com/joshharrison/ganttloom/internal/timescale"
)

func testConfig() layout.Config {
	return layout.Config{
		ViewportStart: timescale.Date(2024, time.March, 1),
		ViewportEnd:   timescale.Date(2024, time.March, 10),
		Scale:         50,
		RowHeight:     40,
		BarHeight:     24,
		Mode:          timescale.ViewDay,
	}
}

func testTasks() []task.Task {
	return []task.Task{
		{ID: "a", Name: "Build", Type: task.TypeTask, Start: timescale.Date(2024, time.March, 1), End: timescale.Date(2024, time.March, 4), Progress: 50},
		{ID: "b", Name: "Ship", Type: task.TypeMilestone, Start: timescale.Date(2024, time.March, 5), End: timescale.Date(2024, time.March, 5), Dependencies: []string{"a"}},
	}
}

func TestRenderProducesDocument(t *testing.T) {
	out := Render(testTasks(), testConfig(), Options{ShowGrid: true})

	if !strings.HasPrefix(out, "<svg ") {
		t.Errorf("output does not start with an svg element:\n%.120s", out)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Error("output is not a closed document")
	}
	if !strings.Contains(out, `<marker id="ganttArrowHead"`) {
		t.Error("missing arrowhead marker definition")
	}
	if strings.Count(out, "<rect") < 3 { // header + two bars at minimum
		t.Errorf("expected header and task rects, got:\n%s", out)
	}
	if !strings.Contains(out, `marker-end="url(#ganttArrowHead)"`) {
		t.Error("dependency arrow should reference the marker")
	}
	if !strings.Contains(out, ">Build<") || !strings.Contains(out, ">Ship<") {
		t.Error("task names missing from the output")
	}
}

func TestRenderProgressOverlay(t *testing.T) {
	out := Render(testTasks(), testConfig(), Options{})
	if !strings.Contains(out, `opacity="0.3"`) {
		t.Error("expected a progress overlay for the half-done task")
	}

	tasks := testTasks()
	tasks[0].Progress = 0
	out = Render(tasks, testConfig(), Options{})
	if strings.Contains(out, `opacity="0.3"`) {
		t.Error("no overlay expected at zero progress")
	}
}

func TestRenderHighlight(t *testing.T) {
	out := Render(testTasks(), testConfig(), Options{Highlight: map[string]bool{"a": true}})
	if !strings.Contains(out, criticalFill) {
		t.Error("highlighted task should use the critical fill")
	}
}

func TestRenderGridToggle(t *testing.T) {
	with := Render(testTasks(), testConfig(), Options{ShowGrid: true})
	without := Render(testTasks(), testConfig(), Options{ShowGrid: false})
	if strings.Count(with, "<line") <= strings.Count(without, "<line") {
		t.Error("grid toggle had no effect on line count")
	}
}

func TestRenderCollapsedHidesChildren(t *testing.T) {
	tasks := []task.Task{
		{ID: "p", Name: "Parent", Type: task.TypeTask, Start: timescale.Date(2024, time.March, 1), End: timescale.Date(2024, time.March, 4)},
		{ID: "c", Name: "HiddenChild", Type: task.TypeTask, ParentID: "p", Order: 1, Start: timescale.Date(2024, time.March, 2), End: timescale.Date(2024, time.March, 3)},
	}
	out := Render(tasks, testConfig(), Options{Expanded: map[string]bool{}})
	if strings.Contains(out, "HiddenChild") {
		t.Error("collapsed parent should hide its children")
	}
}

func TestRenderEscapesNames(t *testing.T) {
	tasks := []task.Task{
		{ID: "a", Name: `QA <"smoke" & soak>`, Type: task.TypeTask, Start: timescale.Date(2024, time.March, 1), End: timescale.Date(2024, time.March, 2)},
	}
	out := Render(tasks, testConfig(), Options{})
	if strings.Contains(out, `<"smoke"`) {
		t.Error("name was not escaped")
	}
	if !strings.Contains(out, "&lt;&quot;smoke&quot; &amp; soak&gt;") {
		t.Errorf("expected escaped name in output:\n%s", out)
	}
}
