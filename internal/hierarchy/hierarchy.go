// Package hierarchy maintains the parent/child forest over a flat task
// collection: depth-first flattening, expand/collapse visibility, and the
// global order renumbering applied after every structural mutation.
package hierarchy

import (
	"fmt"
	"log"
	"sort"

	"github.com/joshharrison/ganttloom/internal/task"
)

// Flatten returns every task exactly once: root tasks sorted by Order, each
// immediately followed depth-first by its children sorted by Order. A task
// whose ParentID is absent from the collection counts as a root. Members of
// a parent cycle are unreachable from any root; they are appended in
// collection order so traversal always terminates.
func Flatten(tasks []task.Task) []task.Task {
	byID := task.ByID(tasks)
	children := childIndex(tasks, byID)

	out := make([]task.Task, 0, len(tasks))
	visited := make(map[string]bool, len(tasks))

	var walk func(t task.Task)
	walk = func(t task.Task) {
		if visited[t.ID] {
			return
		}
		visited[t.ID] = true
		out = append(out, t)
		for _, c := range children[t.ID] {
			walk(c)
		}
	}

	for _, r := range roots(tasks, byID) {
		walk(r)
	}

	for _, t := range tasks {
		if !visited[t.ID] {
			log.Printf("warning: task %s unreachable from any root (parent cycle?), appending", t.ID)
			visited[t.ID] = true
			out = append(out, t)
		}
	}
	return out
}

// Visible filters the flattened sequence to the tasks currently shown: a
// task is kept iff it is a root or every ancestor is expanded. This only
// filters, it never reorders.
func Visible(tasks []task.Task, expanded map[string]bool) []task.Task {
	byID := task.ByID(tasks)
	flat := Flatten(tasks)

	out := make([]task.Task, 0, len(flat))
	for _, t := range flat {
		if ancestorsExpanded(&t, byID, expanded) {
			out = append(out, t)
		}
	}
	return out
}

// ExpandAll returns an expansion set covering every task, so the full
// hierarchy is visible.
func ExpandAll(tasks []task.Task) map[string]bool {
	m := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		m[t.ID] = true
	}
	return m
}

// Renumber assigns a fresh globally contiguous Order (0..n-1) by the
// depth-first traversal and returns the collection in that order.
func Renumber(tasks []task.Task) []task.Task {
	out := Flatten(task.Clone(tasks))
	for i := range out {
		out[i].Order = i
	}
	return out
}

// Reorder moves a task under a new parent at the given sibling index and
// renumbers the whole collection. The input is not mutated. If the rebuilt
// collection does not contain exactly the original tasks, the mutation is
// refused.
func Reorder(tasks []task.Task, movedID, newParent string, index int) ([]task.Task, error) {
	updated := task.Clone(tasks)
	byID := task.ByID(updated)

	moved, ok := byID[movedID]
	if !ok {
		return nil, fmt.Errorf("reorder: task %s not found", movedID)
	}
	moved.ParentID = newParent

	// Sibling order at the drop level, with the moved task spliced in.
	var level []*task.Task
	for i := range updated {
		t := &updated[i]
		if t.ParentID == newParent && t.ID != movedID {
			level = append(level, t)
		}
	}
	sort.SliceStable(level, func(a, b int) bool { return level[a].Order < level[b].Order })
	if index < 0 {
		index = 0
	}
	if index > len(level) {
		index = len(level)
	}
	level = append(level[:index], append([]*task.Task{moved}, level[index:]...)...)

	counter := 0
	processed := make(map[string]bool, len(updated))
	out := make([]task.Task, 0, len(updated))

	var assign func(parent string)
	assign = func(parent string) {
		var list []*task.Task
		if parent == newParent {
			list = level
		} else {
			for i := range updated {
				if updated[i].ParentID == parent {
					list = append(list, &updated[i])
				}
			}
			sort.SliceStable(list, func(a, b int) bool { return list[a].Order < list[b].Order })
		}
		for _, t := range list {
			if processed[t.ID] {
				continue
			}
			t.Order = counter
			counter++
			processed[t.ID] = true
			out = append(out, *t)
			assign(t.ID)
		}
	}
	assign("")

	for i := range updated {
		t := &updated[i]
		if processed[t.ID] {
			continue
		}
		log.Printf("warning: task %s missed in reorder traversal, appending", t.ID)
		t.Order = counter
		counter++
		processed[t.ID] = true
		out = append(out, *t)
	}

	if len(out) != len(tasks) {
		return nil, fmt.Errorf("reorder: task count mismatch after renumbering (expected %d, got %d), refusing update", len(tasks), len(out))
	}
	return out, nil
}

// Children returns a task's direct children sorted by Order.
func Children(tasks []task.Task, parentID string) []task.Task {
	var out []task.Task
	for _, t := range tasks {
		if t.ParentID == parentID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Order < out[b].Order })
	return out
}

// Depth returns a task's nesting level (0 for roots), for indentation.
// A broken or cyclic parent chain stops counting where it breaks.
func Depth(t *task.Task, byID map[string]*task.Task) int {
	depth := 0
	seen := map[string]bool{t.ID: true}
	for cur := t; cur.ParentID != ""; {
		parent, ok := byID[cur.ParentID]
		if !ok || seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		depth++
		cur = parent
	}
	return depth
}

// isRoot treats both true roots and dangling parent references as roots.
func isRoot(t *task.Task, byID map[string]*task.Task) bool {
	if t.ParentID == "" {
		return true
	}
	_, ok := byID[t.ParentID]
	return !ok
}

func roots(tasks []task.Task, byID map[string]*task.Task) []task.Task {
	var out []task.Task
	for _, t := range tasks {
		if isRoot(&t, byID) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Order < out[b].Order })
	return out
}

func childIndex(tasks []task.Task, byID map[string]*task.Task) map[string][]task.Task {
	children := make(map[string][]task.Task)
	for _, t := range tasks {
		if t.ParentID == "" {
			continue
		}
		if _, ok := byID[t.ParentID]; !ok {
			continue
		}
		children[t.ParentID] = append(children[t.ParentID], t)
	}
	for id := range children {
		group := children[id]
		sort.SliceStable(group, func(a, b int) bool { return group[a].Order < group[b].Order })
	}
	return children
}

// ancestorsExpanded walks the parent chain; every ancestor must be marked
// expanded. A dangling or cyclic chain is treated as orphaned-root, which
// is always visible.
func ancestorsExpanded(t *task.Task, byID map[string]*task.Task, expanded map[string]bool) bool {
	seen := map[string]bool{t.ID: true}
	for cur := t; cur.ParentID != ""; {
		parent, ok := byID[cur.ParentID]
		if !ok || seen[parent.ID] {
			return true
		}
		if !expanded[parent.ID] {
			return false
		}
		seen[parent.ID] = true
		cur = parent
	}
	return true
}
