package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// claudeMessage is the common envelope of Claude stream-json lines.
type claudeMessage struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype,omitempty"`
}

type claudeResult struct {
	Subtype      string  `json:"subtype"`
	IsError      bool    `json:"is_error"`
	DurationMs   int     `json:"duration_ms"`
	NumTurns     int     `json:"num_turns"`
	Result       string  `json:"result"`
	TotalCostUSD float64 `json:"total_cost_usd"`
	Usage        Usage   `json:"usage"`
}

type claudeContentBlock struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	ToolUseID string `json:"tool_use_id,omitempty"`
}

type claudeContentMessage struct {
	Message struct {
		Content []claudeContentBlock `json:"content"`
	} `json:"message"`
}

// Claude runs the Claude Code CLI in print mode with stream-json output.
type Claude struct {
	// Binary overrides the executable name.
	Binary string
}

// Name returns the runner name
func (c *Claude) Name() string {
	return "claude"
}

// Command creates the claude command
func (c *Claude) Command(ctx context.Context, req Request) (*exec.Cmd, error) {
	args := []string{
		"-p",
		"--dangerously-skip-permissions",
		"--output-format=stream-json",
		"--verbose",
	}
	if req.Model != "" {
		args = append(args, "--model", req.Model)
	}
	if req.Tools != nil {
		cfg, err := claudeMCPConfig(req.Tools)
		if err != nil {
			return nil, err
		}
		args = append(args, "--mcp-config", cfg)
	}

	bin := c.Binary
	if bin == "" {
		bin = "claude"
	}
	return exec.CommandContext(ctx, bin, args...), nil
}

// claudeMCPConfig renders the inline JSON accepted by --mcp-config.
func claudeMCPConfig(s *MCPServer) (string, error) {
	type server struct {
		Command string   `json:"command"`
		Args    []string `json:"args"`
	}
	cfg := map[string]map[string]server{
		"mcpServers": {s.Name: {Command: s.Command, Args: s.Args}},
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode MCP config: %w", err)
	}
	return string(data), nil
}

// ParseOutput parses Claude's JSON stream output
func (c *Claude) ParseOutput(r io.Reader, w io.Writer, log io.Writer) (*Result, error) {
	scanner := newLineScanner(r)

	var result *Result
	state := newStreamState()

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		logLine(log, line)

		var msg claudeMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			// Not valid JSON, skip
			continue
		}

		switch msg.Type {
		case "result":
			var res claudeResult
			if err := json.Unmarshal(line, &res); err != nil {
				continue
			}
			result = &Result{
				DurationMs:   res.DurationMs,
				NumTurns:     res.NumTurns,
				TotalCostUSD: res.TotalCostUSD,
				HasCost:      true,
				Usage:        res.Usage,
				IsError:      res.IsError,
				Result:       res.Result,
			}
		case "assistant":
			processClaudeAssistant(line, w, state)
		case "user":
			processClaudeUser(line, w, state)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = &Result{IsError: true}
	}
	if strings.TrimSpace(result.Result) == "" {
		result.Result = state.text.String()
	}
	return result, nil
}

// processClaudeAssistant streams text deltas and tool starts
func processClaudeAssistant(line []byte, w io.Writer, state *streamState) {
	var msg claudeContentMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		return
	}

	var fullText strings.Builder
	for _, block := range msg.Message.Content {
		switch block.Type {
		case "text":
			fullText.WriteString(block.Text)
		case "tool_use":
			state.toolStarted(w, block.ID, block.Name)
		}
	}

	text := fullText.String()
	if text == "" {
		return
	}
	if state.text.Len() > 0 {
		state.text.WriteString("\n")
	}
	state.text.WriteString(text)
	fmt.Fprintln(w, text)
}

// processClaudeUser marks tools as complete when their results arrive
func processClaudeUser(line []byte, w io.Writer, state *streamState) {
	var msg claudeContentMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		return
	}
	for _, block := range msg.Message.Content {
		if block.Type == "tool_result" && block.ToolUseID != "" {
			state.toolDone(w, block.ToolUseID)
		}
	}
}
