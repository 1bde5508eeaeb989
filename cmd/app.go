package cmd

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Gil-1/crewai-gamedevs/internal/assets"
	"github.com/Gil-1/crewai-gamedevs/internal/config"
	"github.com/Gil-1/crewai-gamedevs/internal/crew"
	"github.com/Gil-1/crewai-gamedevs/internal/knowledge"
	"github.com/Gil-1/crewai-gamedevs/internal/logging"
	"github.com/Gil-1/crewai-gamedevs/internal/mdx"
	"github.com/Gil-1/crewai-gamedevs/internal/runner"
	"github.com/Gil-1/crewai-gamedevs/internal/tools"
)

// mcpServerName is how agent CLIs refer to the tool server.
const mcpServerName = "gamedevs"

// app bundles what commands share once configuration is loaded.
type app struct {
	cfg   *config.App
	log   *logrus.Logger
	store *knowledge.Store
}

func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	store := &knowledge.Store{
		Root:         cfg.Paths.Knowledge,
		TemplatePath: cfg.Paths.Template,
		GuidePath:    cfg.Paths.Guide,
		Embedded:     true,
	}
	log.WithFields(logrus.Fields{
		"profile": cfg.Profile,
		"agent":   cfg.Agent,
		"config":  v.ConfigFileUsed(),
	}).Debug("configuration loaded")
	return &app{cfg: cfg, log: log, store: store}, nil
}

// crewDef loads agents.yaml and tasks.yaml, falling back to the bundled
// definitions when neither file exists.
func (a *app) crewDef() (*config.CrewDef, error) {
	_, agentsErr := os.Stat(a.cfg.Paths.Agents)
	_, tasksErr := os.Stat(a.cfg.Paths.Tasks)
	if errors.Is(agentsErr, fs.ErrNotExist) && errors.Is(tasksErr, fs.ErrNotExist) {
		a.log.Warn("no crew definition found, using the bundled one (run \"gamedevs init\" to customize)")
		agents, err := assets.Read(assets.AgentsFile)
		if err != nil {
			return nil, err
		}
		tasks, err := assets.Read(assets.TasksFile)
		if err != nil {
			return nil, err
		}
		return config.ParseCrew(agents, tasks)
	}
	return config.LoadCrewFiles(a.cfg.Paths.Agents, a.cfg.Paths.Tasks)
}

// newCrew wires the crew to the configured agent CLI.
func (a *app) newCrew(out io.Writer) (*crew.Crew, error) {
	def, err := a.crewDef()
	if err != nil {
		return nil, err
	}
	r, err := runner.New(a.cfg.Agent)
	if err != nil {
		return nil, err
	}

	registry := tools.Default(a.store, a.cfg.Paths.Output)
	descriptions := make(map[string]string)
	for _, t := range registry.All() {
		descriptions[t.Name()] = t.Description()
	}

	return crew.New(def, crew.Options{
		Profile:          a.cfg.Profile,
		AgentCLI:         a.cfg.Agent,
		ContextTokens:    a.cfg.ContextTokens,
		OutputDir:        a.cfg.Paths.Output,
		LogDir:           filepath.Join(a.cfg.Paths.State, "logs"),
		TrainingFile:     a.cfg.Paths.Training,
		Executor:         &runner.Process{Runner: r, Display: out},
		Runs:             crew.NewRunStore(filepath.Join(a.cfg.Paths.State, "runs")),
		Store:            a.store,
		MCPServer:        a.mcpServer,
		ToolDescriptions: descriptions,
		CountTokens:      mdx.NewTokenCounter("gpt-4"),
		Out:              out,
		Log:              a.log,
	})
}

// mcpServer describes how the agent CLI starts this binary as a tool
// server restricted to the given tools.
func (a *app) mcpServer(names []string) *runner.MCPServer {
	exe, err := os.Executable()
	if err != nil {
		exe = "gamedevs"
	}
	args := []string{"mcp", "--tools", strings.Join(names, ",")}
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			args = append(args, "--config", abs)
		}
	}
	return &runner.MCPServer{Name: mcpServerName, Command: exe, Args: args}
}
