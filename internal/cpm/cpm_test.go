package cpm

import (
	"testing"
	"time"

	"github.com/joshharrison/ganttloom/internal/task"
	"github.com/joshharrison/ganttloom/internal/timescale"
)

func spanTask(id string, startDay, endDay int, deps ...string) task.Task {
	return task.Task{
		ID:           id,
		Type:         task.TypeTask,
		Start:        timescale.Date(2024, time.January, startDay),
		End:          timescale.Date(2024, time.January, endDay),
		Dependencies: deps,
	}
}

func TestAnalyzeChain(t *testing.T) {
	tasks := []task.Task{
		spanTask("a", 1, 3),      // 3 days
		spanTask("b", 4, 5, "a"), // 2 days
		spanTask("c", 6, 6, "b"), // 1 day
	}
	result, err := Analyze(tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalDays != 6 {
		t.Errorf("TotalDays = %d, want 6", result.TotalDays)
	}

	want := map[string][2]int{ // ES, EF
		"a": {0, 3},
		"b": {3, 5},
		"c": {5, 6},
	}
	for id, w := range want {
		s := result.Tasks[id]
		if s.ES != w[0] || s.EF != w[1] {
			t.Errorf("%s: ES/EF = %d/%d, want %d/%d", id, s.ES, s.EF, w[0], w[1])
		}
		if !s.IsCritical {
			t.Errorf("%s should be critical in a single chain", id)
		}
	}
	if len(result.CriticalPath) != 3 {
		t.Errorf("critical path = %v, want all 3 tasks", result.CriticalPath)
	}
}

func TestAnalyzeParallelBranchHasSlack(t *testing.T) {
	tasks := []task.Task{
		spanTask("start", 1, 1),
		spanTask("long", 2, 6, "start"),        // 5 days
		spanTask("short", 2, 2, "start"),       // 1 day
		spanTask("end", 7, 7, "long", "short"), // 1 day
	}
	result, err := Analyze(tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalDays != 7 {
		t.Errorf("TotalDays = %d, want 7", result.TotalDays)
	}

	long := result.Tasks["long"]
	short := result.Tasks["short"]
	if !long.IsCritical || long.Slack != 0 {
		t.Errorf("long branch: slack = %d, critical = %v, want 0/true", long.Slack, long.IsCritical)
	}
	if short.IsCritical {
		t.Error("short branch should not be critical")
	}
	if short.Slack != 4 {
		t.Errorf("short branch slack = %d, want 4", short.Slack)
	}
	for _, id := range result.CriticalPath {
		if id == "short" {
			t.Error("short branch appeared on the critical path")
		}
	}
}

func TestAnalyzeMilestoneCountsOneDay(t *testing.T) {
	tasks := []task.Task{
		spanTask("a", 1, 2),
		{
			ID:           "m",
			Type:         task.TypeMilestone,
			Start:        timescale.Date(2024, time.January, 3),
			End:          timescale.Date(2024, time.January, 9),
			Dependencies: []string{"a"},
		},
	}
	result, err := Analyze(tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := result.Tasks["m"]
	if m.EF-m.ES != 1 {
		t.Errorf("milestone duration = %d, want 1", m.EF-m.ES)
	}
}

func TestAnalyzeIgnoresDanglingDependencies(t *testing.T) {
	tasks := []task.Task{
		spanTask("a", 1, 2, "ghost"),
	}
	result, err := Analyze(tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s := result.Tasks["a"]; s.ES != 0 {
		t.Errorf("a.ES = %d, want 0 with dangling dep ignored", s.ES)
	}
}

func TestAnalyzeDuplicateEdgesCollapse(t *testing.T) {
	tasks := []task.Task{
		spanTask("a", 1, 2),
		spanTask("b", 3, 4, "a", "a"),
	}
	result, err := Analyze(tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s := result.Tasks["b"]; s.ES != 2 {
		t.Errorf("b.ES = %d, want 2", s.ES)
	}
}

func TestAnalyzeCycleIsError(t *testing.T) {
	tasks := []task.Task{
		spanTask("a", 1, 2, "b"),
		spanTask("b", 3, 4, "a"),
		spanTask("c", 1, 1),
	}
	if _, err := Analyze(tasks); err == nil {
		t.Fatal("expected error for dependency cycle")
	}
}

func TestAnalyzeEmptyCollection(t *testing.T) {
	result, err := Analyze(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalDays != 0 || len(result.Tasks) != 0 {
		t.Errorf("empty analysis = %+v", result)
	}
}
