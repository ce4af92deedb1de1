// Package arrows routes dependency connectors between task bars as
// orthogonal elbow paths.
package arrows

import (
	"github.com/joshharrison/ganttloom/internal/layout"
	"github.com/joshharrison/ganttloom/internal/task"
)

const (
	// Length of the stub leaving/entering a bar edge.
	horizontalStub = 25.0
	// Clearance of the traversing segment above/below the predecessor bar.
	verticalOffset = 12.0
)

// Segment is one horizontal or vertical piece of an elbow path. ArrowHead
// marks the final segment entering the successor.
type Segment struct {
	X1, Y1, X2, Y2 float64
	ArrowHead      bool
}

// Path is the routed connector for one (predecessor, successor) pair.
type Path struct {
	From     string // predecessor task ID
	To       string // successor task ID
	Segments []Segment
}

// Options control routing direction.
type Options struct {
	RTL bool
}

// Route computes a connector for every dependency whose endpoints both
// have a position in this render pass. Dangling dependency IDs and tasks
// clipped out of the viewport are skipped silently.
func Route(tasks []task.Task, positions map[string]layout.Position, opts Options) []Path {
	var paths []Path
	for _, succ := range tasks {
		succPos, ok := positions[succ.ID]
		if !ok || len(succ.Dependencies) == 0 {
			continue
		}
		for _, predID := range succ.Dependencies {
			predPos, ok := positions[predID]
			if !ok {
				continue
			}
			paths = append(paths, Path{
				From:     predID,
				To:       succ.ID,
				Segments: elbow(predPos, succPos, opts.RTL),
			})
		}
	}
	return paths
}

// elbow builds the five-segment connector: stub out of the predecessor,
// vertical to the traversing level, horizontal traverse, vertical to the
// successor's row, stub in with the arrowhead.
func elbow(pred, succ layout.Position, rtl bool) []Segment {
	startY := pred.Y + pred.Height/2
	endY := succ.Y + succ.Height/2

	// Traversing level: same row stays at mid-height, otherwise clear the
	// predecessor bar on the side facing the successor.
	var connY float64
	switch {
	case succ.Y == pred.Y:
		connY = startY
	case succ.Y > pred.Y:
		connY = pred.Y + pred.Height + verticalOffset
	default:
		connY = pred.Y - verticalOffset
	}

	var x1, x2, x4, x6 float64
	if rtl {
		x1 = pred.X
		x2 = x1 - horizontalStub
		x6 = succ.X + succ.Width
		x4 = x6 + horizontalStub
		// Bars too close: collapse both verticals to the midpoint rather
		// than crossing back over the path.
		if x4 > x2 {
			mid := (x1 + x6) / 2
			x2, x4 = mid, mid
		}
	} else {
		x1 = pred.X + pred.Width
		x2 = x1 + horizontalStub
		x6 = succ.X
		x4 = x6 - horizontalStub
		if x4 < x2 {
			mid := (x1 + x6) / 2
			x2, x4 = mid, mid
		}
	}

	return []Segment{
		{X1: x1, Y1: startY, X2: x2, Y2: startY},
		{X1: x2, Y1: startY, X2: x2, Y2: connY},
		{X1: x2, Y1: connY, X2: x4, Y2: connY},
		{X1: x4, Y1: connY, X2: x4, Y2: endY},
		{X1: x4, Y1: endY, X2: x6, Y2: endY, ArrowHead: true},
	}
}
