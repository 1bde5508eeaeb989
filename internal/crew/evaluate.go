package crew

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Gil-1/crewai-gamedevs/internal/runner"
)

// Score bounds.
const (
	MinScore = 1.0
	MaxScore = 10.0
)

// TaskScores aggregates the evaluation of one task across iterations.
type TaskScores struct {
	Task       string    `json:"task"`
	Agent      string    `json:"agent"`
	Scores     []float64 `json:"scores"`
	Validated  int       `json:"validated"`
	Structured int       `json:"structured"`
}

// Average returns the mean score, or 0 without scores.
func (s TaskScores) Average() float64 {
	if len(s.Scores) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.Scores {
		sum += v
	}
	return sum / float64(len(s.Scores))
}

// PassRate is the share of validated outputs that passed the structure
// check, or -1 when the task is not validated.
func (s TaskScores) PassRate() float64 {
	if s.Validated == 0 {
		return -1
	}
	return float64(s.Structured) / float64(s.Validated)
}

// TestReport is the outcome of Test.
type TestReport struct {
	Iterations int          `json:"iterations"`
	EvalModel  string       `json:"eval_model"`
	RunIDs     []string     `json:"run_ids"`
	Tasks      []TaskScores `json:"tasks"`
}

// Overall returns the mean of the task averages.
func (r *TestReport) Overall() float64 {
	var sum float64
	var n int
	for _, t := range r.Tasks {
		if len(t.Scores) > 0 {
			sum += t.Average()
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (r *TestReport) task(key, agent string) *TaskScores {
	for i := range r.Tasks {
		if r.Tasks[i].Task == key {
			return &r.Tasks[i]
		}
	}
	r.Tasks = append(r.Tasks, TaskScores{Task: key, Agent: agent})
	return &r.Tasks[len(r.Tasks)-1]
}

// Test runs the crew n times and has evalModel score every task output
// from 1 to 10 through the agent CLI.
func (c *Crew) Test(ctx context.Context, n int, evalModel string, inputs Inputs) (*TestReport, error) {
	if n < 1 {
		return nil, fmt.Errorf("iterations must be positive, got %d", n)
	}
	if evalModel == "" {
		return nil, errors.New("evaluation model is required")
	}

	tasks, err := c.Tasks(inputs)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]Task, len(tasks))
	for _, t := range tasks {
		byKey[t.Key] = t
	}

	report := &TestReport{Iterations: n, EvalModel: evalModel}
	for iter := 1; iter <= n; iter++ {
		log := c.opts.Log.WithField("iteration", iter)
		log.Info("test iteration")

		after := func(run *Run, out TaskOutput) error {
			scores := report.task(out.Task, out.Agent)
			if out.Validation != nil {
				scores.Validated++
				if out.Validation.Passed {
					scores.Structured++
				}
			}

			score, err := c.evaluate(ctx, evalModel, byKey[out.Task], out)
			if err != nil {
				log.WithError(err).WithField("task", out.Task).Warn("evaluation failed")
				return nil
			}
			scores.Scores = append(scores.Scores, score)
			log.WithFields(logrus.Fields{"task": out.Task, "score": score}).Info("task scored")
			return nil
		}

		run, err := c.kickoff(ctx, inputs, after)
		if run != nil {
			report.RunIDs = append(report.RunIDs, run.ID)
		}
		if err != nil {
			return report, fmt.Errorf("test iteration %d: %w", iter, err)
		}
	}

	FormatScoreTable(c.opts.Out, report)
	return report, nil
}

func (c *Crew) evaluate(ctx context.Context, model string, task Task, out TaskOutput) (float64, error) {
	req := runner.Request{Brief: evaluationBrief(task, out), Model: model}
	res, err := c.opts.Executor.Execute(ctx, req, nil)
	if err != nil {
		return 0, err
	}
	if res.IsError {
		return 0, fmt.Errorf("evaluation reported an error: %s", truncateText(strings.TrimSpace(res.Result), 200))
	}
	return ParseScore(res.Result)
}

func evaluationBrief(task Task, out TaskOutput) string {
	var sb strings.Builder
	sb.WriteString("You are grading the work of a game design team member.\n\n")
	fmt.Fprintf(&sb, "# Task\n%s\n\n", strings.TrimSpace(task.Description))
	fmt.Fprintf(&sb, "# Expected Output\n%s\n\n", strings.TrimSpace(task.ExpectedOutput))
	fmt.Fprintf(&sb, "# Submitted Output\n%s\n\n", out.Output)
	sb.WriteString("Rate how well the submitted output completes the task on a scale from 1 to 10.\n")
	sb.WriteString("Answer with a first line of the form \"Score: N\" followed by one sentence of justification.\n")
	return sb.String()
}

var (
	scoreLinePattern = regexp.MustCompile(`(?i)score\s*[:=]?\s*(\d+(?:\.\d+)?)`)
	numberPattern    = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// ParseScore reads a 1-10 score from an evaluation answer. A "Score: N"
// line wins over the first bare number. Values are clamped to the range.
func ParseScore(text string) (float64, error) {
	var raw string
	if m := scoreLinePattern.FindStringSubmatch(text); m != nil {
		raw = m[1]
	} else if m := numberPattern.FindString(text); m != "" {
		raw = m
	} else {
		return 0, fmt.Errorf("no score in evaluation: %q", truncateText(text, 80))
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if v < MinScore {
		v = MinScore
	}
	if v > MaxScore {
		v = MaxScore
	}
	return v, nil
}

func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
