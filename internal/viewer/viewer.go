// Package viewer serves a live preview of the chart over HTTP: the
// rendered SVG, the computed geometry as JSON, and an endpoint to replace
// the task collection.
package viewer

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/joshharrison/ganttloom/internal/hierarchy"
	"github.com/joshharrison/ganttloom/internal/layout"
	"github.com/joshharrison/ganttloom/internal/svg"
	"github.com/joshharrison/ganttloom/internal/task"
)

const indexPage = `<!DOCTYPE html>
<html>
<head>
  <title>ganttloom</title>
  <meta http-equiv="refresh" content="5">
  <style>body { margin: 0; font-family: sans-serif; } .chart { overflow: auto; }</style>
</head>
<body>
  <div class="chart"><img src="/chart.svg" alt="gantt chart"></div>
</body>
</html>
`

// Server holds the current collection behind a lock so a POSTed update and
// a concurrent render never observe a partial state.
type Server struct {
	mu    sync.RWMutex
	tasks []task.Task
	cfg   layout.Config
	opts  svg.Options
}

func New(tasks []task.Task, cfg layout.Config, opts svg.Options) *Server {
	return &Server{tasks: tasks, cfg: cfg, opts: opts}
}

// Router wires the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/chart.svg", s.handleSVG).Methods(http.MethodGet)
	r.HandleFunc("/geometry.json", s.handleGeometry).Methods(http.MethodGet)
	r.HandleFunc("/tasks.json", s.handleGetTasks).Methods(http.MethodGet)
	r.HandleFunc("/tasks.json", s.handlePostTasks).Methods(http.MethodPost)
	return r
}

// ListenAndServe blocks serving the viewer on addr.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) snapshot() ([]task.Task, layout.Config, svg.Options) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks, s.cfg, s.opts
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexPage)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	tasks, cfg, opts := s.snapshot()
	w.Header().Set("Content-Type", "image/svg+xml")
	fmt.Fprint(w, svg.Render(tasks, cfg, opts))
}

func (s *Server) handleGeometry(w http.ResponseWriter, r *http.Request) {
	tasks, cfg, opts := s.snapshot()
	expanded := opts.Expanded
	if expanded == nil {
		expanded = hierarchy.ExpandAll(tasks)
	}
	visible := hierarchy.Visible(tasks, expanded)

	payload := struct {
		Positions  map[string]layout.Position `json:"positions"`
		Rows       int                        `json:"rows"`
		ChartWidth float64                    `json:"chart_width"`
	}{
		Positions:  layout.Compute(visible, cfg),
		Rows:       len(visible),
		ChartWidth: layout.Width(cfg),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) handleGetTasks(w http.ResponseWriter, r *http.Request) {
	tasks, _, _ := s.snapshot()
	data, err := task.MarshalJSON(tasks)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handlePostTasks replaces the whole collection, following the "new state
// replaces old state" contract.
func (s *Server) handlePostTasks(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	tasks, err := task.ParseJSON(data)
	if err != nil {
		http.Error(w, "invalid tasks: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, `{"tasks": %d}`+"\n", len(tasks))
}
