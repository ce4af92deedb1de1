// Package svg renders a task collection into a standalone SVG document:
// header columns, grid, task bars with progress overlays, and dependency
// arrows. It is a thin presentation layer over layout and arrows.
package svg

import (
	"fmt"
	"strings"

	"github.com/joshharrison/ganttloom/internal/arrows"
	"github.com/joshharrison/ganttloom/internal/hierarchy"
	"github.com/joshharrison/ganttloom/internal/layout"
	"github.com/joshharrison/ganttloom/internal/task"
)

const (
	arrowHeadID = "ganttArrowHead"

	barFill       = "#4f7cac"
	milestoneFill = "#8a4fac"
	criticalFill  = "#c0504d"
	progressFill  = "#ffffff"
	arrowStroke   = "#a0a0a0"
	majorGrid     = "#b5b5b5"
	fineGrid      = "#e2e2e2"
	rowGrid       = "#e2e2e2"
	headerFill    = "#f0f0f0"
	headerStroke  = "#c9c9c9"
)

// Options control what the renderer draws beyond the bare chart.
type Options struct {
	Expanded  map[string]bool // nil expands everything
	Highlight map[string]bool // task IDs tinted as critical
	RTL       bool
	ShowGrid  bool
}

// Render lays the collection out under cfg and returns the SVG document.
func Render(tasks []task.Task, cfg layout.Config, opts Options) string {
	expanded := opts.Expanded
	if expanded == nil {
		expanded = hierarchy.ExpandAll(tasks)
	}
	visible := hierarchy.Visible(tasks, expanded)
	positions := layout.Compute(visible, cfg)
	paths := arrows.Route(visible, positions, arrows.Options{RTL: opts.RTL})

	width := layout.Width(cfg)
	bodyHeight := layout.Height(len(visible), cfg.RowHeight)
	height := bodyHeight + layout.HeaderHeight

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.2f %.2f" font-family="sans-serif">`+"\n",
		width, height, width, height)
	writeDefs(&b)

	writeHeader(&b, cfg, width)

	// Chart body sits below the header.
	fmt.Fprintf(&b, `<g transform="translate(0 %.0f)">`+"\n", layout.HeaderHeight)
	if opts.ShowGrid {
		writeGrid(&b, cfg, len(visible), width, bodyHeight)
	}
	for i, t := range visible {
		pos, ok := positions[t.ID]
		if !ok {
			continue
		}
		writeBar(&b, &visible[i], pos, opts.Highlight[t.ID])
	}
	for _, p := range paths {
		writeArrow(&b, p)
	}
	b.WriteString("</g>\n</svg>\n")
	return b.String()
}

func writeDefs(b *strings.Builder) {
	fmt.Fprintf(b, `<defs><marker id="%s" viewBox="0 -5 10 10" refX="10" refY="0" markerWidth="5" markerHeight="5" orient="auto"><path d="M0,-5L10,0L0,5" fill="%s"/></marker></defs>`+"\n",
		arrowHeadID, arrowStroke)
}

func writeHeader(b *strings.Builder, cfg layout.Config, width float64) {
	fmt.Fprintf(b, `<rect x="0" y="0" width="%.2f" height="%.0f" fill="%s"/>`+"\n", width, layout.HeaderHeight, headerFill)
	for _, col := range layout.Columns(cfg) {
		fmt.Fprintf(b, `<line x1="%.2f" y1="0" x2="%.2f" y2="%.0f" stroke="%s"/>`+"\n",
			col.X+col.Width, col.X+col.Width, layout.HeaderHeight, headerStroke)
		fmt.Fprintf(b, `<text x="%.2f" y="%.0f" text-anchor="middle" font-size="11">%s</text>`+"\n",
			col.X+col.Width/2, layout.HeaderHeight/2+4, escape(col.Label))
	}
}

func writeGrid(b *strings.Builder, cfg layout.Config, rows int, width, height float64) {
	for _, l := range layout.VerticalLines(cfg) {
		stroke := fineGrid
		if l.Major {
			stroke = majorGrid
		}
		fmt.Fprintf(b, `<line x1="%.2f" y1="0" x2="%.2f" y2="%.2f" stroke="%s"/>`+"\n", l.X, l.X, height, stroke)
	}
	for _, y := range layout.HorizontalLines(rows, cfg.RowHeight) {
		fmt.Fprintf(b, `<line x1="0" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`+"\n", y, width, y, rowGrid)
	}
}

func writeBar(b *strings.Builder, t *task.Task, pos layout.Position, critical bool) {
	fill := barFill
	switch {
	case critical:
		fill = criticalFill
	case t.IsMilestone():
		fill = milestoneFill
	}
	fmt.Fprintf(b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="4" fill="%s"/>`+"\n",
		pos.X, pos.Y, pos.Width, pos.Height, fill)
	if t.Progress > 0 && !t.IsMilestone() {
		pct := t.Progress
		if pct > 100 {
			pct = 100
		}
		fmt.Fprintf(b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="4" fill="%s" opacity="0.3"/>`+"\n",
			pos.X, pos.Y, pos.Width*float64(pct)/100, pos.Height, progressFill)
	}
	fmt.Fprintf(b, `<text x="%.2f" y="%.2f" font-size="10" fill="#333">%s</text>`+"\n",
		pos.X+pos.Width+4, pos.Y+pos.Height/2+3, escape(t.Name))
}

func writeArrow(b *strings.Builder, p arrows.Path) {
	for _, s := range p.Segments {
		marker := ""
		if s.ArrowHead {
			marker = fmt.Sprintf(` marker-end="url(#%s)"`, arrowHeadID)
		}
		fmt.Fprintf(b, `<path d="M %.2f,%.2f L %.2f,%.2f" fill="none" stroke="%s" stroke-width="1.5"%s/>`+"\n",
			s.X1, s.Y1, s.X2, s.Y2, arrowStroke, marker)
	}
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
