package runner

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sort"
)

// Result represents the outcome of one agent run
type Result struct {
	// Duration of the run in milliseconds
	DurationMs int `json:"duration_ms"`
	// Number of turns/exchanges in the conversation
	NumTurns int `json:"num_turns"`
	// Total cost in USD (if available)
	TotalCostUSD float64 `json:"total_cost_usd,omitempty"`
	// Whether the CLI reports cost at all
	HasCost bool `json:"has_cost,omitempty"`
	// Token usage statistics
	Usage Usage `json:"usage"`
	// Whether the run ended in an error
	IsError bool `json:"is_error"`
	// Final answer text
	Result string `json:"result"`
}

// Usage represents token usage statistics
type Usage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens,omitempty"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens,omitempty"`
}

// MCPServer describes a stdio MCP server the agent CLI should start to
// reach the document tools.
type MCPServer struct {
	Name    string
	Command string
	Args    []string
}

// Request is a single brief for the agent CLI.
type Request struct {
	// Brief is written to the command's stdin.
	Brief string
	// Model overrides the CLI's default model when set.
	Model string
	// Tools is the MCP server exposing the agent's tools, if any.
	Tools *MCPServer
	// WorkDir is the directory the CLI runs in.
	WorkDir string
}

// Runner defines the interface for AI CLI backends
type Runner interface {
	// Name returns a human-readable name for this runner (e.g., "claude", "codex")
	Name() string

	// Command creates an exec.Cmd configured for this runner.
	// The brief will be written to the command's stdin.
	Command(ctx context.Context, req Request) (*exec.Cmd, error)

	// ParseOutput reads the runner's stdout stream, writes streaming output
	// to the display writer, logs raw output to the log writer, and returns
	// the final result.
	ParseOutput(stdout io.Reader, display io.Writer, log io.Writer) (*Result, error)
}

var constructors = map[string]func() Runner{
	"claude": func() Runner { return &Claude{} },
	"codex":  func() Runner { return &Codex{} },
}

// New returns the runner registered under name.
func New(name string) (Runner, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown agent CLI %q (available: %v)", name, Names())
	}
	return ctor(), nil
}

// Names lists the supported agent CLIs.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
