// Package crew runs the game design crew: a fixed sequence of tasks, each
// handed to an agent CLI with a brief built from the agent definition,
// the task and the outputs of earlier tasks.
package crew

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/Gil-1/crewai-gamedevs/internal/config"
	"github.com/Gil-1/crewai-gamedevs/internal/knowledge"
	"github.com/Gil-1/crewai-gamedevs/internal/mdx"
	"github.com/Gil-1/crewai-gamedevs/internal/runner"
)

// Agent is an agent definition with inputs applied and its model
// parameters resolved.
type Agent struct {
	Key       string
	Role      string
	Goal      string
	Backstory string
	LLM       config.Preset
	Tools     []string
}

// Task is a task definition with inputs applied.
type Task struct {
	Key              string
	Description      string
	ExpectedOutput   string
	Agent            string
	Context          []string
	OutputFile       string
	ValidateTemplate bool
}

// Options configure a Crew.
type Options struct {
	Profile config.Profile
	// AgentCLI is the name of the agent CLI, recorded with each run.
	AgentCLI string
	// ContextTokens bounds the context taken from earlier tasks.
	ContextTokens int
	OutputDir     string
	// LogDir receives the raw CLI stream of every task. Empty disables it.
	LogDir string
	// TrainingFile holds human feedback merged into briefs. Optional.
	TrainingFile string

	Executor runner.Executor
	Runs     *RunStore
	Store    *knowledge.Store

	// MCPServer returns the tool server for an agent's tool names.
	MCPServer func(tools []string) *runner.MCPServer
	// ToolDescriptions lists tools in briefs.
	ToolDescriptions map[string]string
	// CountTokens defaults to mdx.CountTokens.
	CountTokens func(string) int

	Out io.Writer
	Log logrus.FieldLogger
}

// Crew executes a validated crew definition.
type Crew struct {
	def  *config.CrewDef
	opts Options
}

// New creates a Crew.
func New(def *config.CrewDef, opts Options) (*Crew, error) {
	if def == nil {
		return nil, errors.New("crew definition is required")
	}
	if opts.Executor == nil {
		return nil, errors.New("executor is required")
	}
	if opts.Runs == nil {
		return nil, errors.New("run store is required")
	}
	if opts.Profile == "" {
		opts.Profile = config.ProfileProduction
	}
	if opts.CountTokens == nil {
		opts.CountTokens = mdx.CountTokens
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Log = l
	}
	return &Crew{def: def, opts: opts}, nil
}

// Agents resolves every agent definition against inputs.
func (c *Crew) Agents(inputs Inputs) ([]Agent, error) {
	return ResolveAgents(c.def, inputs, c.opts.Profile)
}

// ResolveAgents applies inputs and the profile to every agent of def.
func ResolveAgents(def *config.CrewDef, inputs Inputs, profile config.Profile) ([]Agent, error) {
	agents := make([]Agent, 0, len(def.Agents))
	for _, ad := range def.Agents {
		a, err := resolveAgent(ad, inputs, profile)
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, nil
}

// Tasks resolves every task definition against inputs, in execution order.
func (c *Crew) Tasks(inputs Inputs) ([]Task, error) {
	tasks := make([]Task, 0, len(c.def.Tasks))
	for _, def := range c.def.Tasks {
		t := Task{
			Key:              def.Key,
			Agent:            def.Agent,
			Context:          def.Context,
			OutputFile:       def.OutputFile,
			ValidateTemplate: def.ValidateTemplate,
		}
		var err error
		if t.Description, err = inputs.Interpolate(def.Description); err != nil {
			return nil, fmt.Errorf("task %s: %w", def.Key, err)
		}
		if t.ExpectedOutput, err = inputs.Interpolate(def.ExpectedOutput); err != nil {
			return nil, fmt.Errorf("task %s: %w", def.Key, err)
		}
		if t.OutputFile, err = inputs.Interpolate(def.OutputFile); err != nil {
			return nil, fmt.Errorf("task %s: %w", def.Key, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func resolveAgent(def config.AgentDef, inputs Inputs, profile config.Profile) (Agent, error) {
	llm, err := config.ResolveLLM(def.LLM, profile)
	if err != nil {
		return Agent{}, fmt.Errorf("agent %s: %w", def.Key, err)
	}
	a := Agent{Key: def.Key, LLM: llm, Tools: def.Tools}
	fields := []struct {
		dst *string
		src string
	}{
		{&a.Role, def.Role},
		{&a.Goal, def.Goal},
		{&a.Backstory, def.Backstory},
	}
	for _, f := range fields {
		v, err := inputs.Interpolate(f.src)
		if err != nil {
			return Agent{}, fmt.Errorf("agent %s: %w", def.Key, err)
		}
		*f.dst = v
	}
	return a, nil
}

func agentIndex(agents []Agent) map[string]Agent {
	m := make(map[string]Agent, len(agents))
	for _, a := range agents {
		m[a.Key] = a
	}
	return m
}
