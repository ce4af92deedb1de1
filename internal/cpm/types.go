package cpm

// Result holds the complete critical path analysis for a task collection.
type Result struct {
	Tasks        map[string]*Schedule
	CriticalPath []string // ordered task IDs on the critical path
	TotalDays    int
	TopoOrder    []string
}

// Schedule holds the scheduling info for a single task, in calendar days
// relative to the project start.
type Schedule struct {
	TaskID     string
	ES, EF     int // earliest start/finish
	LS, LF     int // latest start/finish
	Slack      int
	IsCritical bool
}
