package task

import (
	"time"
)

// Type distinguishes regular tasks from zero-duration milestones.
type Type string

const (
	TypeTask      Type = "task"
	TypeMilestone Type = "milestone"
)

// Task is a single row in the chart. Dates are whole-day boundaries
// normalized to UTC midnight; End is inclusive.
type Task struct {
	ID           string
	Name         string
	Type         Type
	Start        time.Time
	End          time.Time
	Progress     int      // 0-100, informational only
	Dependencies []string // predecessor task IDs
	ParentID     string   // empty for root tasks
	Order        int      // global sort key, maintained by hierarchy.Renumber
}

// IsMilestone reports whether the task renders as a milestone.
func (t *Task) IsMilestone() bool {
	return t.Type == TypeMilestone
}

// Clone returns a deep copy of the collection. Mutating operations work on
// clones so the caller's slice is never touched.
func Clone(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t
		if t.Dependencies != nil {
			out[i].Dependencies = append([]string(nil), t.Dependencies...)
		}
	}
	return out
}

// ByID indexes a collection by task ID. Later duplicates win, matching the
// lookup behavior of a plain map build.
func ByID(tasks []Task) map[string]*Task {
	m := make(map[string]*Task, len(tasks))
	for i := range tasks {
		m[tasks[i].ID] = &tasks[i]
	}
	return m
}

// Span returns the overall [min start, max end] across the collection,
// used as the default viewport. ok is false for an empty collection.
func Span(tasks []Task) (start, end time.Time, ok bool) {
	if len(tasks) == 0 {
		return time.Time{}, time.Time{}, false
	}
	start, end = tasks[0].Start, tasks[0].End
	for _, t := range tasks[1:] {
		if t.Start.Before(start) {
			start = t.Start
		}
		if t.End.After(end) {
			end = t.End
		}
	}
	return start, end, true
}
