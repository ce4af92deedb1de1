package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joshharrison/ganttloom/internal/config"
	"github.com/joshharrison/ganttloom/internal/cpm"
	"github.com/joshharrison/ganttloom/internal/gesture"
	"github.com/joshharrison/ganttloom/internal/hierarchy"
	"github.com/joshharrison/ganttloom/internal/layout"
	"github.com/joshharrison/ganttloom/internal/svg"
	"github.com/joshharrison/ganttloom/internal/task"
	"github.com/joshharrison/ganttloom/internal/timescale"
	"github.com/joshharrison/ganttloom/internal/ui"
	"github.com/joshharrison/ganttloom/internal/viewer"
)

var (
	flagFile      string
	flagJSON      bool
	flagView      string
	flagScale     float64
	flagRowHeight float64
	flagRTL       bool
	flagOutput    string
	flagInPlace   bool
)

var cfg *config.Config

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ganttloom: load config: %v\n", err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "ganttloom",
		Short: "Lay out, render and manipulate Gantt charts from task files",
		Long: `Ganttloom reads a task collection from a YAML or JSON file, computes the
chart geometry (bars, grid, dependency arrows) for a chosen view mode and
zoom scale, and either renders it or applies move/resize/reorder mutations
back to the file.`,
	}

	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "tasks.yaml", "Task file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")
	rootCmd.PersistentFlags().StringVar(&flagView, "view", cfg.ViewMode, "View mode (day, week, month, quarter, year)")
	rootCmd.PersistentFlags().Float64Var(&flagScale, "scale", 0, "Pixels per day (default: the view mode's scale)")
	rootCmd.PersistentFlags().Float64Var(&flagRowHeight, "row-height", cfg.RowHeight, "Row height in pixels")
	rootCmd.PersistentFlags().BoolVar(&flagRTL, "rtl", cfg.RTL, "Right-to-left layout")

	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(layoutCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(moveCmd())
	rootCmd.AddCommand(resizeCmd())
	rootCmd.AddCommand(reorderCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(criticalCmd())
	rootCmd.AddCommand(viewCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ganttloom: %v\n", err)
		os.Exit(1)
	}
}

// loadChart reads the task file and builds the layout config from flags,
// defaulting the viewport to the collection's overall span.
func loadChart() ([]task.Task, layout.Config, error) {
	tasks, err := task.Load(flagFile)
	if err != nil {
		return nil, layout.Config{}, err
	}

	mode, err := timescale.ParseViewMode(flagView)
	if err != nil {
		return nil, layout.Config{}, err
	}
	scale := flagScale
	if scale == 0 {
		scale = timescale.ScaleFor(mode)
	}
	scale = timescale.Clamp(scale)

	start, end, ok := task.Span(tasks)
	if !ok {
		return nil, layout.Config{}, fmt.Errorf("no tasks in %s", flagFile)
	}

	return tasks, layout.Config{
		ViewportStart: start,
		ViewportEnd:   end,
		Scale:         scale,
		RowHeight:     flagRowHeight,
		BarHeight:     flagRowHeight * cfg.BarRatio,
		Mode:          mode,
	}, nil
}

func renderCmd() *cobra.Command {
	var flagHighlight bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the chart to an SVG file",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, lcfg, err := loadChart()
			if err != nil {
				return err
			}

			opts := svg.Options{RTL: flagRTL, ShowGrid: cfg.ShowGrid}
			if flagHighlight {
				result, err := cpm.Analyze(tasks)
				if err != nil {
					return fmt.Errorf("critical path: %w", err)
				}
				opts.Highlight = make(map[string]bool, len(result.CriticalPath))
				for _, id := range result.CriticalPath {
					opts.Highlight[id] = true
				}
			}

			doc := svg.Render(tasks, lcfg, opts)
			if flagOutput == "" || flagOutput == "-" {
				fmt.Print(doc)
				return nil
			}
			if err := os.WriteFile(flagOutput, []byte(doc), 0644); err != nil {
				return fmt.Errorf("write svg: %w", err)
			}
			fmt.Printf("%s wrote %s (%d tasks)\n", ui.Green("✓"), ui.Bold(flagOutput), len(tasks))
			return nil
		},
	}

	cmd.Flags().StringVarP(&flagOutput, "output", "o", "chart.svg", "Output path (- for stdout)")
	cmd.Flags().BoolVar(&flagHighlight, "critical", false, "Highlight the critical path")

	return cmd
}

func layoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print the computed geometry as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, lcfg, err := loadChart()
			if err != nil {
				return err
			}
			visible := hierarchy.Visible(tasks, hierarchy.ExpandAll(tasks))
			payload := struct {
				Positions  map[string]layout.Position `json:"positions"`
				Rows       int                        `json:"rows"`
				ChartWidth float64                    `json:"chart_width"`
				Scale      float64                    `json:"scale"`
			}{
				Positions:  layout.Compute(visible, lcfg),
				Rows:       len(visible),
				ChartWidth: layout.Width(lcfg),
				Scale:      lcfg.Scale,
			}
			return outputJSON(payload)
		},
	}
}

func listCmd() *cobra.Command {
	const chartCols = 60

	return &cobra.Command{
		Use:   "list",
		Short: "Print the task hierarchy with an ASCII chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, lcfg, err := loadChart()
			if err != nil {
				return err
			}
			flat := hierarchy.Flatten(tasks)
			if flagJSON {
				return outputJSON(flat)
			}

			byID := task.ByID(tasks)
			totalDays := timescale.DayCount(lcfg.ViewportStart, lcfg.ViewportEnd) + 1
			for i := range flat {
				t := &flat[i]
				depth := hierarchy.Depth(t, byID)
				indent := strings.Repeat("  ", depth)

				startCol := timescale.DayCount(lcfg.ViewportStart, t.Start) * chartCols / totalDays
				endCol := timescale.DayCount(lcfg.ViewportStart, t.End) * chartCols / totalDays
				bar := ui.Bar(chartCols, startCol, endCol, t.IsMilestone(), false)

				fmt.Printf("%s %s%s %-24s %s  %s → %s\n",
					ui.TaskLabel(t.ID),
					indent,
					ui.TypeIcon(string(t.Type)),
					truncate(t.Name, 24),
					bar,
					t.Start.Format("2006-01-02"),
					t.End.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func moveCmd() *cobra.Command {
	var flagDays int
	var flagDelta float64

	cmd := &cobra.Command{
		Use:   "move <task-id>",
		Short: "Shift a task by whole days (duration preserved)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyGesture(args[0], gesture.Move, flagDays, flagDelta, nil)
		},
	}

	cmd.Flags().IntVar(&flagDays, "days", 0, "Day offset (negative shifts left)")
	cmd.Flags().Float64Var(&flagDelta, "delta", 0, "Raw pixel delta (converted using the active scale)")
	cmd.Flags().BoolVarP(&flagInPlace, "in-place", "i", false, "Write the result back to the task file")

	return cmd
}

func resizeCmd() *cobra.Command {
	var flagDays int
	var flagDelta float64

	cmd := &cobra.Command{
		Use:   "resize <task-id> <left|right>",
		Short: "Resize a task edge by whole days (minimum one-day duration)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var kind gesture.Kind
			switch args[1] {
			case "left":
				kind = gesture.ResizeLeft
			case "right":
				kind = gesture.ResizeRight
			default:
				return fmt.Errorf("resize edge must be left or right, got %q", args[1])
			}
			return applyGesture(args[0], kind, flagDays, flagDelta, nil)
		},
	}

	cmd.Flags().IntVar(&flagDays, "days", 0, "Day offset (negative shrinks/extends left)")
	cmd.Flags().Float64Var(&flagDelta, "delta", 0, "Raw pixel delta (converted using the active scale)")
	cmd.Flags().BoolVarP(&flagInPlace, "in-place", "i", false, "Write the result back to the task file")

	return cmd
}

func reorderCmd() *cobra.Command {
	var flagParent string
	var flagIndex int

	cmd := &cobra.Command{
		Use:   "reorder <task-id>",
		Short: "Move a task to a new parent and sibling index, renumbering globally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			drop := &gesture.DropTarget{ParentID: flagParent, Index: flagIndex}
			return applyGesture(args[0], gesture.Reorder, 0, 0, drop)
		},
	}

	cmd.Flags().StringVar(&flagParent, "parent", "", "New parent task id (empty for root level)")
	cmd.Flags().IntVar(&flagIndex, "index", 0, "Sibling index to insert at")
	cmd.Flags().BoolVarP(&flagInPlace, "in-place", "i", false, "Write the result back to the task file")

	return cmd
}

// applyGesture runs a full Begin/Commit cycle through the resolver and
// writes or prints the updated collection.
func applyGesture(id string, kind gesture.Kind, days int, deltaPx float64, drop *gesture.DropTarget) error {
	tasks, lcfg, err := loadChart()
	if err != nil {
		return err
	}

	if deltaPx == 0 {
		deltaPx = float64(days) * lcfg.Scale
	}

	r := gesture.NewResolver()
	if err := r.Begin(tasks, id, kind); err != nil {
		return err
	}
	updated, err := r.Commit(deltaPx, lcfg.Scale, drop)
	if err != nil {
		return err
	}

	if flagInPlace {
		if err := task.Save(flagFile, updated); err != nil {
			return err
		}
		fmt.Printf("%s %s %s applied to %s\n", ui.Green("✓"), kind, ui.TaskLabel(id), ui.Bold(flagFile))
		return nil
	}
	if flagJSON {
		return outputJSON(updated)
	}
	data, err := task.MarshalYAML(updated)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

func addCmd() *cobra.Command {
	var (
		flagName     string
		flagStart    string
		flagEnd      string
		flagType     string
		flagParent   string
		flagDepends  []string
		flagProgress int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a new task to the file",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := task.Load(flagFile)
			if err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					return err
				}
				tasks = nil
			}

			start, err := time.Parse("2006-01-02", flagStart)
			if err != nil {
				return fmt.Errorf("parse --start: %w", err)
			}
			end := start
			if flagEnd != "" {
				end, err = time.Parse("2006-01-02", flagEnd)
				if err != nil {
					return fmt.Errorf("parse --end: %w", err)
				}
			}
			if end.Before(start) {
				return fmt.Errorf("--end precedes --start")
			}

			typ := task.TypeTask
			if flagType == string(task.TypeMilestone) {
				typ = task.TypeMilestone
			}

			t := task.Task{
				ID:           uuid.NewString()[:8],
				Name:         flagName,
				Type:         typ,
				Start:        start.UTC(),
				End:          end.UTC(),
				Progress:     flagProgress,
				Dependencies: flagDepends,
				ParentID:     flagParent,
				Order:        len(tasks),
			}
			updated := hierarchy.Renumber(append(task.Clone(tasks), t))

			if err := task.Save(flagFile, updated); err != nil {
				return err
			}
			fmt.Printf("%s added %s %s\n", ui.Green("✓"), ui.TaskLabel(t.ID), t.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagName, "name", "", "Task name")
	cmd.Flags().StringVar(&flagStart, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagEnd, "end", "", "End date (YYYY-MM-DD, defaults to start)")
	cmd.Flags().StringVar(&flagType, "type", "task", "Task type (task or milestone)")
	cmd.Flags().StringVar(&flagParent, "parent", "", "Parent task id")
	cmd.Flags().StringSliceVar(&flagDepends, "depends-on", nil, "Predecessor task ids")
	cmd.Flags().IntVar(&flagProgress, "progress", 0, "Progress percentage")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("start")

	return cmd
}

func criticalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "critical",
		Short: "Compute the critical path over the dependency graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := task.Load(flagFile)
			if err != nil {
				return err
			}
			result, err := cpm.Analyze(tasks)
			if err != nil {
				return err
			}
			if flagJSON {
				return outputJSON(result)
			}

			fmt.Printf("%s %d days end to end\n", ui.BoldCyan("Critical path:"), result.TotalDays)
			byID := task.ByID(tasks)
			for _, id := range result.CriticalPath {
				name := ""
				if t, ok := byID[id]; ok {
					name = t.Name
				}
				s := result.Tasks[id]
				fmt.Printf("  %s %s %s\n", ui.TaskLabel(id), name,
					ui.Dim(fmt.Sprintf("(day %d to %d)", s.ES, s.EF)))
			}
			for _, id := range result.TopoOrder {
				s := result.Tasks[id]
				if s.IsCritical {
					continue
				}
				fmt.Printf("  %s slack %s days\n", ui.TaskLabel(id), ui.Yellow(s.Slack))
			}
			return nil
		},
	}
}

func viewCmd() *cobra.Command {
	var flagAddr string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Serve an HTTP preview of the chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, lcfg, err := loadChart()
			if err != nil {
				return err
			}
			srv := viewer.New(tasks, lcfg, svg.Options{RTL: flagRTL, ShowGrid: cfg.ShowGrid})
			url := "http://" + flagAddr
			if strings.HasPrefix(flagAddr, ":") {
				url = "http://localhost" + flagAddr
			}
			fmt.Printf("%s serving %s tasks at %s\n", ui.BoldCyan("ganttloom:"), ui.Bold(len(tasks)), ui.Cyan(url))
			return srv.ListenAndServe(flagAddr)
		},
	}

	cmd.Flags().StringVar(&flagAddr, "addr", ":8787", "Listen address")

	return cmd
}

func outputJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
