package crew

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Gil-1/crewai-gamedevs/internal/mdx"
	"github.com/Gil-1/crewai-gamedevs/internal/runner"
)

// afterTask is called with every finished task. Returning an error stops
// the run.
type afterTask func(run *Run, out TaskOutput) error

// Kickoff runs every task in order and records the run.
func (c *Crew) Kickoff(ctx context.Context, inputs Inputs) (*Run, error) {
	return c.kickoff(ctx, inputs, nil)
}

func (c *Crew) kickoff(ctx context.Context, inputs Inputs, after afterTask) (*Run, error) {
	agents, tasks, err := c.resolve(inputs)
	if err != nil {
		return nil, err
	}
	run := NewRun(inputs, string(c.opts.Profile), c.opts.AgentCLI)
	FormatHeader(c.opts.Out, run, len(tasks))
	return run, c.execute(ctx, run, agents, tasks, 0, after)
}

// Replay re-runs the latest recorded run starting at the task named by
// ref (a task id or task key). Outputs of earlier tasks are reused.
func (c *Crew) Replay(ctx context.Context, ref string) (*Run, error) {
	prev, err := c.opts.Runs.Latest()
	if err != nil {
		return nil, err
	}
	idx, err := prev.FindTask(ref)
	if err != nil {
		return nil, err
	}

	agents, tasks, err := c.resolve(prev.Inputs)
	if err != nil {
		return nil, err
	}
	start := -1
	for i, t := range tasks {
		if t.Key == prev.Tasks[idx].Task {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("%w: %s is no longer defined", ErrTaskNotFound, prev.Tasks[idx].Task)
	}

	run := NewRun(prev.Inputs, string(c.opts.Profile), c.opts.AgentCLI)
	run.ReplayOf = prev.ID
	run.Tasks = append(run.Tasks, prev.Tasks[:idx]...)

	c.opts.Log.WithFields(logrus.Fields{
		"run":       prev.ID,
		"from_task": prev.Tasks[idx].Task,
	}).Info("replaying run")
	FormatHeader(c.opts.Out, run, len(tasks))
	return run, c.execute(ctx, run, agents, tasks, start, nil)
}

func (c *Crew) resolve(inputs Inputs) ([]Agent, []Task, error) {
	agents, err := c.Agents(inputs)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := c.Tasks(inputs)
	if err != nil {
		return nil, nil, err
	}
	return agents, tasks, nil
}

// execute runs tasks[start:], saving the run after every task.
func (c *Crew) execute(ctx context.Context, run *Run, agents []Agent, tasks []Task, start int, after afterTask) error {
	byKey := agentIndex(agents)

	training, err := LoadTraining(c.opts.TrainingFile)
	if err != nil {
		return err
	}

	for i := start; i < len(tasks); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		task := tasks[i]
		agent := byKey[task.Agent]

		FormatTaskBanner(c.opts.Out, i+1, len(tasks), task, agent)
		out := c.runTask(ctx, run, agent, task, training.Notes(agent.Key))
		run.Tasks = append(run.Tasks, out)

		if err := c.opts.Runs.Save(run); err != nil {
			return err
		}
		if out.Failed() {
			return fmt.Errorf("task %s failed: %s", task.Key, out.Error)
		}
		FormatTaskSummary(c.opts.Out, out)

		if after != nil {
			if err := after(run, out); err != nil {
				return err
			}
		}
	}

	run.FinishedAt = time.Now()
	if err := c.opts.Runs.Save(run); err != nil {
		return err
	}
	FormatRunComplete(c.opts.Out, run, c.opts.OutputDir)
	return nil
}

func (c *Crew) runTask(ctx context.Context, run *Run, agent Agent, task Task, feedback []string) TaskOutput {
	log := c.opts.Log.WithFields(logrus.Fields{
		"run":   run.ID,
		"task":  task.Key,
		"agent": agent.Key,
		"model": agent.LLM.Model,
	})

	out := TaskOutput{
		ID:          uuid.New().String(),
		Task:        task.Key,
		Agent:       agent.Key,
		Description: task.Description,
		Model:       agent.LLM.Model,
		StartedAt:   time.Now(),
	}

	brief := buildBrief(briefInput{
		Agent:            agent,
		Task:             task,
		Context:          contextOutputs(run, task.Context),
		Feedback:         feedback,
		ToolDescriptions: c.opts.ToolDescriptions,
		ContextTokens:    c.opts.ContextTokens,
		CountTokens:      c.opts.CountTokens,
	})

	req := runner.Request{Brief: brief, Model: agent.LLM.Model}
	if c.opts.MCPServer != nil && len(agent.Tools) > 0 {
		req.Tools = c.opts.MCPServer(agent.Tools)
	}

	streamLog, closeLog := c.openStreamLog(run.ID, task.Key)
	defer closeLog()

	log.WithField("brief_tokens", c.opts.CountTokens(brief)).Info("starting task")
	res, err := c.opts.Executor.Execute(ctx, req, streamLog)
	out.Result = res
	if err != nil {
		log.WithError(err).Error("task failed")
		out.Error = err.Error()
		out.FinishedAt = time.Now()
		return out
	}
	if res.IsError {
		out.Error = "agent CLI reported an error: " + truncateText(strings.TrimSpace(res.Result), 200)
		log.WithField("error", out.Error).Error("task failed")
		out.FinishedAt = time.Now()
		return out
	}
	out.Output = strings.TrimSpace(res.Result)

	if task.OutputFile != "" {
		path := filepath.Join(c.opts.OutputDir, task.OutputFile)
		if err := writeOutput(path, out.Output); err != nil {
			log.WithError(err).Error("failed to write output file")
			out.Error = err.Error()
			out.FinishedAt = time.Now()
			return out
		}
		out.OutputFile = path
	}

	if task.ValidateTemplate {
		c.validate(log, &out)
	}

	log.WithFields(logrus.Fields{
		"duration_ms": res.DurationMs,
		"turns":       res.NumTurns,
	}).Info("task finished")
	out.FinishedAt = time.Now()
	return out
}

// validate checks the task output against the template. A failed check is
// recorded, never fatal.
func (c *Crew) validate(log logrus.FieldLogger, out *TaskOutput) {
	if c.opts.Store == nil {
		return
	}
	tmpl, _, err := c.opts.Store.Template()
	if err != nil {
		log.WithError(err).Warn("skipping structure check")
		return
	}
	report := mdx.Validate(mdx.Parse(out.Output), mdx.Parse(tmpl))
	out.Validation = &report

	entry := log.WithFields(logrus.Fields{
		"required": report.RequiredCount(),
		"found":    report.FoundCount(),
		"missing":  report.MissingCount(),
	})
	if report.Passed {
		entry.Info("structure check passed")
	} else {
		entry.WithField("extra", len(report.Extra)).Warn("structure check failed")
	}
}

// openStreamLog creates the raw stream log for a task.
func (c *Crew) openStreamLog(runID, task string) (io.Writer, func()) {
	if c.opts.LogDir == "" {
		return nil, func() {}
	}
	dir := filepath.Join(c.opts.LogDir, runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.opts.Log.WithError(err).Warn("failed to create logs directory")
		return nil, func() {}
	}
	f, err := os.Create(filepath.Join(dir, task+".jsonl"))
	if err != nil {
		c.opts.Log.WithError(err).Warn("failed to create log file")
		return nil, func() {}
	}
	return f, func() { f.Close() }
}

func contextOutputs(run *Run, keys []string) []TaskOutput {
	var out []TaskOutput
	for _, key := range keys {
		for i := len(run.Tasks) - 1; i >= 0; i-- {
			if run.Tasks[i].Task == key {
				out = append(out, run.Tasks[i])
				break
			}
		}
	}
	return out
}

func writeOutput(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
