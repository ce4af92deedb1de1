// Package gesture resolves drag gestures against the task collection. The
// resolver is an explicit state machine owned by the caller's event loop:
// at most one gesture is active at a time, previews never mutate the
// committed collection, and Commit returns a fresh collection.
package gesture

import (
	"fmt"
	"time"

	"github.com/joshharrison/ganttloom/internal/hierarchy"
	"github.com/joshharrison/ganttloom/internal/task"
	"github.com/joshharrison/ganttloom/internal/timescale"
)

// Kind identifies what part of a bar is being dragged.
type Kind string

const (
	Move        Kind = "move"
	ResizeLeft  Kind = "resize-left"
	ResizeRight Kind = "resize-right"
	Reorder     Kind = "reorder"
)

// State of the resolver state machine.
type State string

const (
	Idle     State = "idle"
	Dragging State = "dragging"
)

// Preview is the in-progress, not-yet-committed date range of the dragged
// task. It exists only while a gesture is active.
type Preview struct {
	ID    string
	Start time.Time
	End   time.Time
}

// DropTarget is where a reorder gesture releases: the new parent (empty
// for root level) and the sibling index to insert at.
type DropTarget struct {
	ParentID string
	Index    int
}

// Resolver tracks the single active gesture. The collection snapshot is
// taken at Begin, so intermediate updates always see a consistent state.
type Resolver struct {
	state    State
	kind     Kind
	orig     task.Task
	snapshot []task.Task
}

func NewResolver() *Resolver {
	return &Resolver{state: Idle}
}

func (r *Resolver) State() State { return r.state }

// Begin starts a gesture on the given task. Starting while another gesture
// is active is an error; the active gesture is left untouched.
func (r *Resolver) Begin(tasks []task.Task, id string, kind Kind) error {
	if r.state == Dragging {
		return fmt.Errorf("gesture already active (%s on %s)", r.kind, r.orig.ID)
	}
	byID := task.ByID(tasks)
	t, ok := byID[id]
	if !ok {
		return fmt.Errorf("begin %s: task %s not found", kind, id)
	}
	r.state = Dragging
	r.kind = kind
	r.orig = *t
	r.snapshot = task.Clone(tasks)
	return nil
}

// Update computes the live preview for the current pixel delta. Reorder
// gestures have no date preview; ok is false when there is nothing to show.
func (r *Resolver) Update(deltaPx, scale float64) (Preview, bool) {
	if r.state != Dragging || r.kind == Reorder {
		return Preview{}, false
	}
	start, end := r.resolveDates(timescale.DaysFromPixels(deltaPx, scale))
	return Preview{ID: r.orig.ID, Start: start, End: end}, true
}

// Commit finalizes the gesture and returns the updated collection. For
// reorder, drop names the target; a nil drop falls back to the end of the
// root level. The gesture ends whether or not the mutation is applied.
func (r *Resolver) Commit(deltaPx, scale float64, drop *DropTarget) ([]task.Task, error) {
	if r.state != Dragging {
		return nil, fmt.Errorf("no active gesture to commit")
	}
	snapshot := r.snapshot
	kind := r.kind
	orig := r.orig
	r.reset()

	if kind == Reorder {
		target := DropTarget{ParentID: "", Index: len(hierarchy.Children(snapshot, ""))}
		if drop != nil {
			target = *drop
		}
		return hierarchy.Reorder(snapshot, orig.ID, target.ParentID, target.Index)
	}

	offset := timescale.DaysFromPixels(deltaPx, scale)
	start, end := resolveDates(kind, &orig, offset)

	updated := task.Clone(snapshot)
	for i := range updated {
		if updated[i].ID == orig.ID {
			updated[i].Start = start
			updated[i].End = end
		}
	}
	return updated, nil
}

// Cancel discards the gesture with no mutation.
func (r *Resolver) Cancel() {
	r.reset()
}

func (r *Resolver) reset() {
	r.state = Idle
	r.kind = ""
	r.orig = task.Task{}
	r.snapshot = nil
}

func (r *Resolver) resolveDates(offset int) (time.Time, time.Time) {
	return resolveDates(r.kind, &r.orig, offset)
}

// resolveDates applies a whole-day offset to the snapshotted dates. Moves
// preserve the duration exactly; resizes clamp so a task keeps at least a
// one-day duration (milestones may collapse to a single day).
func resolveDates(kind Kind, orig *task.Task, offset int) (start, end time.Time) {
	start, end = orig.Start, orig.End

	minSep := 1
	if orig.IsMilestone() {
		minSep = 0
	}

	switch kind {
	case Move:
		duration := timescale.DayCount(orig.Start, orig.End)
		start = timescale.AddDays(orig.Start, offset)
		end = timescale.AddDays(start, duration)
	case ResizeLeft:
		start = timescale.AddDays(orig.Start, offset)
		if latest := timescale.AddDays(orig.End, -minSep); start.After(latest) {
			start = latest
		}
	case ResizeRight:
		end = timescale.AddDays(orig.End, offset)
		if earliest := timescale.AddDays(orig.Start, minSep); end.Before(earliest) {
			end = earliest
		}
	}

	if start.After(end) {
		// Clamps above make this unreachable, but never emit an inverted range.
		if kind == ResizeLeft {
			start = end
		} else {
			end = start
		}
	}
	return start, end
}
