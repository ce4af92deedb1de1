package ui

import (
	"strings"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	Yellow      = color.New(color.FgYellow).SprintFunc()
	Magenta     = color.New(color.FgMagenta).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
)

// taskColors is a palette of distinct bold colors for differentiating tasks.
var taskColors = []func(a ...interface{}) string{
	BoldMagenta,
	BoldCyan,
	BoldYellow,
	color.New(color.Bold, color.FgGreen).SprintFunc(),
	color.New(color.Bold, color.FgHiBlue).SprintFunc(),
	color.New(color.Bold, color.FgHiRed).SprintFunc(),
}

// taskColorIndex hashes a task ID to a palette index.
func taskColorIndex(taskID string) int {
	var h uint32
	for _, c := range taskID {
		h = h*31 + uint32(c)
	}
	return int(h % uint32(len(taskColors)))
}

// TaskLabel returns a colored [task-id] prefix string. Each task ID gets a
// distinct color from the palette.
func TaskLabel(taskID string) string {
	c := taskColors[taskColorIndex(taskID)]
	return Dim("[") + c(taskID) + Dim("]")
}

// TypeIcon returns a glyph for a task type.
func TypeIcon(typ string) string {
	if typ == "milestone" {
		return BoldYellow("◆")
	}
	return Cyan("▬")
}

// Bar renders a fixed-width ASCII span for the terminal chart: filled
// between startCol and endCol (inclusive), dots elsewhere.
func Bar(width, startCol, endCol int, milestone, critical bool) string {
	if width <= 0 {
		return ""
	}
	cells := make([]string, width)
	for i := range cells {
		cells[i] = Dim("·")
	}
	if startCol < 0 {
		startCol = 0
	}
	if endCol >= width {
		endCol = width - 1
	}
	for i := startCol; i <= endCol && i >= 0; i++ {
		switch {
		case critical:
			cells[i] = Red("█")
		case milestone:
			cells[i] = BoldYellow("◆")
		default:
			cells[i] = Cyan("█")
		}
	}
	return strings.Join(cells, "")
}
