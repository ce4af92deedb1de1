// Package layout computes pixel geometry for one render pass: per-task bar
// rectangles, grid-line positions, and timeline header columns.
package layout

import (
	"math"
	"time"

	"github.com/joshharrison/ganttloom/internal/task"
	"github.com/joshharrison/ganttloom/internal/timescale"
)

const (
	DefaultRowHeight = 40.0
	// BarHeightRatio is the task bar height as a fraction of its row.
	BarHeightRatio = 0.6
	HeaderHeight   = 50.0

	// Bars are inset by a pixel so adjacent bars stay visually separate.
	barInset             = 1.0
	milestoneHeightRatio = 0.8
	// Below this scale individual day cells are too narrow to draw.
	fineGridMinScale = 3.0
)

// Config fixes the viewport and scale for one render pass.
type Config struct {
	ViewportStart time.Time
	ViewportEnd   time.Time // inclusive
	Scale         float64   // pixels per day
	RowHeight     float64
	BarHeight     float64
	Mode          timescale.ViewMode
}

// Position is a task bar's rectangle within the current viewport. Owned by
// the layout pass; consumed by the arrow router and renderers.
type Position struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// VLine is a vertical grid line. Major lines sit on unit boundaries of the
// active view mode; fine lines are day boundaries shown when zoomed in.
type VLine struct {
	X     float64
	Major bool
}

// Column is one labeled header cell.
type Column struct {
	X     float64
	Width float64
	Label string
}

// Compute returns the bar rectangle for every renderable task in the
// visible sequence. Row index is the task's position in that sequence, so
// a task clipped out of the viewport still occupies its row. Tasks fully
// outside the viewport are omitted from the map.
func Compute(visible []task.Task, cfg Config) map[string]Position {
	positions := make(map[string]Position, len(visible))
	for i, t := range visible {
		pos, ok := barRect(&t, i, cfg)
		if !ok {
			continue
		}
		positions[t.ID] = pos
	}
	return positions
}

func barRect(t *task.Task, row int, cfg Config) (Position, bool) {
	effStart := t.Start
	if cfg.ViewportStart.After(effStart) {
		effStart = cfg.ViewportStart
	}
	effEnd := t.End
	if cfg.ViewportEnd.Before(effEnd) {
		effEnd = cfg.ViewportEnd
	}
	if effStart.After(effEnd) {
		return Position{}, false
	}

	offsetDays := timescale.DayCount(cfg.ViewportStart, effStart)
	durationDays := timescale.DayCount(effStart, effEnd) + 1
	if durationDays <= 0 && !t.IsMilestone() {
		return Position{}, false
	}
	displayDays := float64(durationDays)
	if t.IsMilestone() && durationDays <= 0 {
		displayDays = timescale.MilestoneDays
	}
	if displayDays <= 0 {
		return Position{}, false
	}

	height := cfg.BarHeight
	floor := 0.0
	if t.IsMilestone() {
		height *= milestoneHeightRatio
		floor = cfg.Scale * timescale.MilestoneDays
	}

	return Position{
		X:      float64(offsetDays) * cfg.Scale,
		Y:      float64(row)*cfg.RowHeight + (cfg.RowHeight-height)/2,
		Width:  math.Max(floor, displayDays*cfg.Scale-barInset),
		Height: height,
	}, true
}

// Width is the full pixel width of the viewport's day span.
func Width(cfg Config) float64 {
	return timescale.SpanWidth(cfg.ViewportStart, cfg.ViewportEnd, cfg.Scale)
}

// Height is the pixel height of the chart body.
func Height(rows int, rowHeight float64) float64 {
	if rows < 1 {
		rows = 1
	}
	return float64(rows) * rowHeight
}

// VerticalLines emits grid lines for the viewport: major lines at each
// whole-unit boundary of the active view mode, plus fine day lines when the
// scale is large enough to resolve them. In day mode the fine lines replace
// the major ones.
func VerticalLines(cfg Config) []VLine {
	total := Width(cfg)
	var lines []VLine

	fine := cfg.Scale >= fineGridMinScale
	if fine {
		days := timescale.DayCount(cfg.ViewportStart, cfg.ViewportEnd) + 1
		for i := 0; i < days; i++ {
			lines = append(lines, VLine{X: float64(i) * cfg.Scale})
		}
	}

	if cfg.Mode == timescale.ViewDay && fine {
		return lines
	}
	for _, b := range timescale.Boundaries(cfg.Mode, cfg.ViewportStart, cfg.ViewportEnd) {
		offset := timescale.DayCount(cfg.ViewportStart, b)
		if offset < 0 {
			continue
		}
		x := float64(offset) * cfg.Scale
		if x >= total {
			continue
		}
		lines = append(lines, VLine{X: x, Major: true})
	}
	return lines
}

// HorizontalLines returns the y coordinate of every row boundary.
func HorizontalLines(rows int, rowHeight float64) []float64 {
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = float64(i+1)*rowHeight - 1
	}
	return out
}

// Columns lays out the labeled header cells for the active view mode. A
// leading unit that begins before the viewport is clipped to x=0.
func Columns(cfg Config) []Column {
	total := Width(cfg)
	u := timescale.UnitFor(cfg.Mode)
	var out []Column
	for _, b := range timescale.Boundaries(cfg.Mode, cfg.ViewportStart, cfg.ViewportEnd) {
		next := u.Next(b)
		unitWidth := float64(timescale.DayCount(b, next)) * cfg.Scale
		x := float64(timescale.DayCount(cfg.ViewportStart, b)) * cfg.Scale
		if x < 0 {
			unitWidth += x
			x = 0
		}
		if x >= total || unitWidth <= 0 {
			continue
		}
		if x+unitWidth > total {
			unitWidth = total - x
		}
		out = append(out, Column{X: x, Width: unitWidth, Label: u.Label(b, unitWidth)})
	}
	return out
}
