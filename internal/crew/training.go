package crew

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Feedback is one human review of a task output.
type Feedback struct {
	RunID     string    `json:"run_id"`
	Task      string    `json:"task"`
	Iteration int       `json:"iteration"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// TrainingData is the content of a training file, keyed by agent.
type TrainingData struct {
	Agents map[string][]Feedback `json:"agents"`
}

// LoadTraining reads a training file. An empty path or a missing file
// yields empty data.
func LoadTraining(path string) (*TrainingData, error) {
	data := &TrainingData{Agents: map[string][]Feedback{}}
	if path == "" {
		return data, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read training file: %w", err)
	}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("failed to parse training file: %w", err)
	}
	if data.Agents == nil {
		data.Agents = map[string][]Feedback{}
	}
	return data, nil
}

// Save writes the training data to path.
func (d *TrainingData) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create training directory: %w", err)
		}
	}
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal training data: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write training file: %w", err)
	}
	return nil
}

// Notes returns the feedback texts recorded for agent, oldest first.
func (d *TrainingData) Notes(agent string) []string {
	var out []string
	for _, f := range d.Agents[agent] {
		out = append(out, f.Text)
	}
	return out
}

// Train runs the crew n times. After every task it reads one line of
// feedback from feedback (empty to skip) and stores it in filename under
// the task's agent. Later iterations see the feedback in their briefs.
func (c *Crew) Train(ctx context.Context, n int, filename string, inputs Inputs, feedback io.Reader) error {
	if n < 1 {
		return fmt.Errorf("iterations must be positive, got %d", n)
	}
	if filename == "" {
		return errors.New("training filename is required")
	}

	reader := bufio.NewReader(feedback)
	saved := c.opts.TrainingFile
	c.opts.TrainingFile = filename
	defer func() { c.opts.TrainingFile = saved }()

	for iter := 1; iter <= n; iter++ {
		c.opts.Log.WithField("iteration", iter).Info("training iteration")
		after := func(run *Run, out TaskOutput) error {
			FormatFeedbackPrompt(c.opts.Out, out.Task, out.Agent)
			line, err := reader.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("failed to read feedback: %w", err)
			}
			text := strings.TrimSpace(line)
			if text == "" {
				return nil
			}

			data, err := LoadTraining(filename)
			if err != nil {
				return err
			}
			data.Agents[out.Agent] = append(data.Agents[out.Agent], Feedback{
				RunID:     run.ID,
				Task:      out.Task,
				Iteration: iter,
				Text:      text,
				CreatedAt: time.Now(),
			})
			return data.Save(filename)
		}

		if _, err := c.kickoff(ctx, inputs, after); err != nil {
			return fmt.Errorf("training iteration %d: %w", iter, err)
		}
	}
	return nil
}
