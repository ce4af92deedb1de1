package task

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/joshharrison/ganttloom/internal/timescale"
)

// wireTask is the on-disk representation shared by the YAML and JSON codecs.
type wireTask struct {
	ID           string   `yaml:"id" json:"id"`
	Name         string   `yaml:"name" json:"name"`
	Type         string   `yaml:"type,omitempty" json:"type,omitempty"`
	Start        string   `yaml:"start" json:"start"`
	End          string   `yaml:"end" json:"end"`
	Progress     int      `yaml:"progress,omitempty" json:"progress,omitempty"`
	Dependencies []string `yaml:"depends_on,omitempty" json:"dependencies,omitempty"`
	ParentID     string   `yaml:"parent,omitempty" json:"parent_id,omitempty"`
	Order        int      `yaml:"order" json:"order"`
}

type wireFile struct {
	Tasks []wireTask `yaml:"tasks" json:"tasks"`
}

// Load reads a task collection from path, picking the codec by extension.
func Load(path string) ([]Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tasks file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

// ParseYAML decodes a YAML task file (a top-level "tasks" list).
func ParseYAML(data []byte) ([]Task, error) {
	var file wireFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse tasks yaml: %w", err)
	}
	tasks := make([]Task, 0, len(file.Tasks))
	for _, w := range file.Tasks {
		t, err := fromWire(w)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// ParseJSON decodes a JSON task file. Accepts either a top-level array or
// an object with a "tasks" key; field access is lenient so extra keys and
// either date-only or RFC 3339 timestamps are tolerated.
func ParseJSON(data []byte) ([]Task, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parse tasks json: invalid JSON")
	}
	root := gjson.ParseBytes(data)
	list := root
	if root.IsObject() {
		list = root.Get("tasks")
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("parse tasks json: expected an array of tasks")
	}

	var tasks []Task
	var parseErr error
	list.ForEach(func(_, item gjson.Result) bool {
		w := wireTask{
			ID:       item.Get("id").String(),
			Name:     item.Get("name").String(),
			Type:     item.Get("type").String(),
			Start:    item.Get("start").String(),
			End:      item.Get("end").String(),
			Progress: int(item.Get("progress").Int()),
			ParentID: item.Get("parent_id").String(),
			Order:    int(item.Get("order").Int()),
		}
		for _, dep := range item.Get("dependencies").Array() {
			w.Dependencies = append(w.Dependencies, dep.String())
		}
		t, err := fromWire(w)
		if err != nil {
			parseErr = err
			return false
		}
		tasks = append(tasks, t)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return tasks, nil
}

// Save writes the collection to path, picking the codec by extension.
func Save(path string, tasks []Task) error {
	var data []byte
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = MarshalJSON(tasks)
	} else {
		data, err = MarshalYAML(tasks)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}
	return nil
}

// MarshalYAML encodes the collection as a YAML task file.
func MarshalYAML(tasks []Task) ([]byte, error) {
	file := wireFile{Tasks: toWire(tasks)}
	data, err := yaml.Marshal(&file)
	if err != nil {
		return nil, fmt.Errorf("marshal tasks yaml: %w", err)
	}
	return data, nil
}

// MarshalJSON encodes the collection as a JSON array.
func MarshalJSON(tasks []Task) ([]byte, error) {
	data, err := json.MarshalIndent(toWire(tasks), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tasks json: %w", err)
	}
	return data, nil
}

func toWire(tasks []Task) []wireTask {
	out := make([]wireTask, len(tasks))
	for i, t := range tasks {
		out[i] = wireTask{
			ID:           t.ID,
			Name:         t.Name,
			Type:         string(t.Type),
			Start:        t.Start.Format("2006-01-02"),
			End:          t.End.Format("2006-01-02"),
			Progress:     t.Progress,
			Dependencies: t.Dependencies,
			ParentID:     t.ParentID,
			Order:        t.Order,
		}
	}
	return out
}

func fromWire(w wireTask) (Task, error) {
	if w.ID == "" {
		return Task{}, fmt.Errorf("task missing id")
	}
	start, err := parseDate(w.Start)
	if err != nil {
		return Task{}, fmt.Errorf("task %s: %w", w.ID, err)
	}
	end, err := parseDate(w.End)
	if err != nil {
		return Task{}, fmt.Errorf("task %s: %w", w.ID, err)
	}
	if end.Before(start) {
		log.Printf("warning: task %s has end before start, clamping", w.ID)
		end = start
	}
	typ := Type(w.Type)
	if typ != TypeMilestone {
		typ = TypeTask
	}
	return Task{
		ID:           w.ID,
		Name:         w.Name,
		Type:         typ,
		Start:        start,
		End:          end,
		Progress:     w.Progress,
		Dependencies: w.Dependencies,
		ParentID:     w.ParentID,
		Order:        w.Order,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return timescale.Midnight(t.UTC()), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
