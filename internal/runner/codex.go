package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

type codexEvent struct {
	Type    string     `json:"type"`
	Message string     `json:"message,omitempty"`
	Item    codexItem  `json:"item"`
	Usage   codexUsage `json:"usage"`
}

type codexItem struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Command string `json:"command,omitempty"`
	Tool    string `json:"tool,omitempty"`
	Server  string `json:"server,omitempty"`
}

type codexUsage struct {
	InputTokens       int `json:"input_tokens"`
	CachedInputTokens int `json:"cached_input_tokens"`
	OutputTokens      int `json:"output_tokens"`
}

// Codex runs the OpenAI Codex CLI in exec mode with JSONL events.
type Codex struct {
	// Binary overrides the executable name.
	Binary string
}

// Name returns the runner name
func (c *Codex) Name() string {
	return "codex"
}

// Command creates the codex command
func (c *Codex) Command(ctx context.Context, req Request) (*exec.Cmd, error) {
	args := []string{
		"exec",
		"--json",
		"--dangerously-bypass-approvals-and-sandbox",
	}
	if req.Model != "" {
		args = append(args, "--model", req.Model)
	}
	if req.Tools != nil {
		overrides, err := codexMCPOverrides(req.Tools)
		if err != nil {
			return nil, err
		}
		args = append(args, overrides...)
	}
	args = append(args, "-")

	bin := c.Binary
	if bin == "" {
		bin = "codex"
	}
	return exec.CommandContext(ctx, bin, args...), nil
}

// codexMCPOverrides registers the tool server through -c config overrides.
func codexMCPOverrides(s *MCPServer) ([]string, error) {
	command, err := json.Marshal(s.Command)
	if err != nil {
		return nil, err
	}
	args, err := json.Marshal(s.Args)
	if err != nil {
		return nil, err
	}
	prefix := "mcp_servers." + s.Name
	return []string{
		"-c", prefix + ".command=" + string(command),
		"-c", prefix + ".args=" + string(args),
	}, nil
}

// ParseOutput parses Codex's JSON stream output
func (c *Codex) ParseOutput(r io.Reader, w io.Writer, log io.Writer) (*Result, error) {
	scanner := newLineScanner(r)

	state := newStreamState()
	var turnCount int
	var usage codexUsage
	var hasError bool
	var lastMessage string

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		logLine(log, line)

		var event codexEvent
		if err := json.Unmarshal(line, &event); err != nil {
			continue
		}

		switch event.Type {
		case "turn.completed":
			turnCount++
			usage.InputTokens += event.Usage.InputTokens
			usage.CachedInputTokens += event.Usage.CachedInputTokens
			usage.OutputTokens += event.Usage.OutputTokens
		case "turn.failed":
			hasError = true
		case "error":
			hasError = true
			if event.Message != "" {
				fmt.Fprintf(w, "\n%s\n", errorStyle.Render("Error: "+event.Message))
			}
		case "item.started":
			if name := codexToolName(event.Item); name != "" {
				state.toolStarted(w, event.Item.ID, name)
			}
		case "item.completed":
			switch event.Item.Type {
			case "agent_message":
				if event.Item.Text != "" {
					fmt.Fprintln(w, event.Item.Text)
					lastMessage = event.Item.Text
				}
			case "command_execution", "mcp_tool_call", "file_change", "web_search":
				state.toolDone(w, event.Item.ID)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &Result{
		NumTurns: turnCount,
		IsError:  hasError,
		Result:   lastMessage,
		Usage: Usage{
			InputTokens:          usage.InputTokens,
			OutputTokens:         usage.OutputTokens,
			CacheReadInputTokens: usage.CachedInputTokens,
		},
	}, nil
}

// codexToolName returns a display name for tool-like items.
func codexToolName(item codexItem) string {
	switch item.Type {
	case "command_execution":
		cmd := item.Command
		if cmd == "" {
			return "bash"
		}
		if len(cmd) > 50 {
			cmd = cmd[:47] + "..."
		}
		return cmd
	case "mcp_tool_call":
		if item.Tool != "" {
			return strings.TrimPrefix(item.Server+"."+item.Tool, ".")
		}
		return "mcp_tool"
	case "file_change", "web_search":
		return item.Type
	}
	return ""
}
