// Package cpm performs critical path method analysis over a task
// collection's dependency edges, with durations in calendar days.
package cpm

import (
	"fmt"
	"sort"

	"github.com/joshharrison/ganttloom/internal/task"
	"github.com/joshharrison/ganttloom/internal/timescale"
)

// Analyze runs forward and backward passes over the dependency DAG. A
// task's duration is its inclusive day span; milestones count as one day.
// Dependency IDs not present in the collection are ignored; a dependency
// cycle is an error.
func Analyze(tasks []task.Task) (*Result, error) {
	byID := task.ByID(tasks)
	adj, revAdj := edges(tasks, byID)

	order, err := topoSort(tasks, revAdj, adj)
	if err != nil {
		return nil, err
	}

	durations := make(map[string]int, len(tasks))
	for _, t := range tasks {
		d := timescale.DayCount(t.Start, t.End) + 1
		if t.IsMilestone() || d < 1 {
			d = 1
		}
		durations[t.ID] = d
	}

	result := &Result{
		Tasks:     make(map[string]*Schedule, len(tasks)),
		TopoOrder: order,
	}
	for _, id := range order {
		result.Tasks[id] = &Schedule{TaskID: id}
	}

	// Forward pass: ES = max(EF of predecessors).
	for _, id := range order {
		s := result.Tasks[id]
		for _, pred := range revAdj[id] {
			if p := result.Tasks[pred]; p.EF > s.ES {
				s.ES = p.EF
			}
		}
		s.EF = s.ES + durations[id]
	}

	for _, s := range result.Tasks {
		if s.EF > result.TotalDays {
			result.TotalDays = s.EF
		}
	}

	// Backward pass in reverse topological order.
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		s := result.Tasks[id]
		if len(adj[id]) == 0 {
			s.LF = result.TotalDays
		} else {
			minLS := result.TotalDays
			for _, succ := range adj[id] {
				if ss := result.Tasks[succ]; ss.LS < minLS {
					minLS = ss.LS
				}
			}
			s.LF = minLS
		}
		s.LS = s.LF - durations[id]
		s.Slack = s.LS - s.ES
		s.IsCritical = s.Slack == 0
	}

	for _, id := range order {
		if result.Tasks[id].IsCritical {
			result.CriticalPath = append(result.CriticalPath, id)
		}
	}

	return result, nil
}

// edges builds deduplicated adjacency lists from Task.Dependencies
// (predecessor -> successor), skipping dangling references.
func edges(tasks []task.Task, byID map[string]*task.Task) (adj, revAdj map[string][]string) {
	adj = make(map[string][]string)
	revAdj = make(map[string][]string)
	seen := make(map[[2]string]bool)
	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			if _, ok := byID[dep]; !ok {
				continue
			}
			key := [2]string{dep, t.ID}
			if seen[key] {
				continue
			}
			seen[key] = true
			adj[dep] = append(adj[dep], t.ID)
			revAdj[t.ID] = append(revAdj[t.ID], dep)
		}
	}
	for k := range adj {
		sort.Strings(adj[k])
	}
	for k := range revAdj {
		sort.Strings(revAdj[k])
	}
	return adj, revAdj
}

// topoSort performs Kahn's algorithm over the dependency edges.
func topoSort(tasks []task.Task, revAdj, adj map[string][]string) ([]string, error) {
	inDegree := make(map[string]int, len(tasks))
	for _, t := range tasks {
		inDegree[t.ID] = len(revAdj[t.ID])
	}

	var queue []string
	for _, t := range tasks {
		if inDegree[t.ID] == 0 {
			queue = append(queue, t.ID)
		}
	}
	sort.Strings(queue)

	var order []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		var ready []string
		for _, succ := range adj[node] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				ready = append(ready, succ)
			}
		}
		sort.Strings(ready)
		queue = append(queue, ready...)
	}

	if len(order) != len(tasks) {
		return nil, fmt.Errorf("dependency cycle detected (%d of %d tasks sorted)", len(order), len(tasks))
	}
	return order, nil
}
