package crew

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Gil-1/crewai-gamedevs/internal/mdx"
	"github.com/Gil-1/crewai-gamedevs/internal/runner"
)

// ErrNoRuns is returned when no run has been recorded yet.
var ErrNoRuns = errors.New("no recorded runs")

// ErrTaskNotFound is returned when a task id or key is not part of a run.
var ErrTaskNotFound = errors.New("task not found")

// TaskOutput is the recorded result of one task.
type TaskOutput struct {
	ID          string         `json:"id"`
	Task        string         `json:"task"`
	Agent       string         `json:"agent"`
	Description string         `json:"description"`
	Output      string         `json:"output"`
	OutputFile  string         `json:"output_file,omitempty"`
	Model       string         `json:"model"`
	Result      *runner.Result `json:"result,omitempty"`
	Validation  *mdx.Report    `json:"validation,omitempty"`
	Error       string         `json:"error,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
}

// Failed reports whether the task ended in an error.
func (t TaskOutput) Failed() bool {
	return t.Error != "" || (t.Result != nil && t.Result.IsError)
}

// Run is the persisted record of one crew execution.
type Run struct {
	ID         string       `json:"id"`
	Inputs     Inputs       `json:"inputs"`
	Profile    string       `json:"profile"`
	Agent      string       `json:"agent"`
	ReplayOf   string       `json:"replay_of,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at,omitempty"`
	Tasks      []TaskOutput `json:"tasks"`
}

// NewRun creates a run record with a fresh id.
func NewRun(inputs Inputs, profile, agent string) *Run {
	return &Run{
		ID:        uuid.New().String(),
		Inputs:    inputs.Clone(),
		Profile:   profile,
		Agent:     agent,
		StartedAt: time.Now(),
	}
}

// FindTask returns the index of the task whose id, id prefix or key is ref.
func (r *Run) FindTask(ref string) (int, error) {
	for i, t := range r.Tasks {
		if t.ID == ref || t.Task == ref {
			return i, nil
		}
	}
	if len(ref) >= 8 {
		for i, t := range r.Tasks {
			if strings.HasPrefix(t.ID, ref) {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
}

// RunStore persists run records as JSON files.
type RunStore struct {
	baseDir string
}

// NewRunStore creates a RunStore rooted at dir.
func NewRunStore(dir string) *RunStore {
	return &RunStore{baseDir: dir}
}

// Dir returns the directory holding the records.
func (s *RunStore) Dir() string {
	return s.baseDir
}

// Save writes the run record
func (s *RunStore) Save(run *Run) error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return fmt.Errorf("failed to create runs directory: %w", err)
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	path := filepath.Join(s.baseDir, run.ID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run record: %w", err)
	}
	return nil
}

// Load reads the run record with the given id
func (s *RunStore) Load(id string) (*Run, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read run record: %w", err)
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to parse run record: %w", err)
	}
	return &run, nil
}

// List returns all run records, oldest first. Malformed files are skipped.
func (s *RunStore) List() ([]*Run, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read runs directory: %w", err)
	}

	var runs []*Run
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		run, err := s.Load(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		runs = append(runs, run)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.Before(runs[j].StartedAt)
	})
	return runs, nil
}

// Latest returns the most recently started run.
func (s *RunStore) Latest() (*Run, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNoRuns
	}
	return runs[len(runs)-1], nil
}
