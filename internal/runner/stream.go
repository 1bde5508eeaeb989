package runner

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// toolNameStyle for tool names in streaming output
	toolNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	// toolActiveStyle for the active tool indicator
	toolActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	// toolCompleteStyle for the completed tool indicator
	toolCompleteStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42"))

	// errorStyle for error indicators
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// streamState tracks tool calls and text across stream events.
type streamState struct {
	activeTools    map[string]string
	completedTools map[string]bool
	text           strings.Builder
}

func newStreamState() *streamState {
	return &streamState{
		activeTools:    make(map[string]string),
		completedTools: make(map[string]bool),
	}
}

func (s *streamState) toolStarted(w io.Writer, id, name string) {
	if id == "" || s.activeTools[id] != "" {
		return
	}
	s.activeTools[id] = name
	formatToolStart(w, name)
}

func (s *streamState) toolDone(w io.Writer, id string) {
	name := s.activeTools[id]
	if name == "" || s.completedTools[id] {
		return
	}
	s.completedTools[id] = true
	formatToolComplete(w, name)
}

// newLineScanner returns a scanner sized for large JSON lines.
func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 8*1024*1024)
	return scanner
}

// logLine writes a raw JSON line to the log file.
func logLine(log io.Writer, line []byte) {
	if log == nil {
		return
	}
	log.Write(line)
	log.Write([]byte("\n"))
}

// formatToolStart writes a tool invocation indicator
func formatToolStart(w io.Writer, toolName string) {
	indicator := toolActiveStyle.Render("●")
	name := toolNameStyle.Render(toolName)
	fmt.Fprintf(w, "\n%s %s running...\n", indicator, name)
}

// formatToolComplete writes a tool completion indicator
func formatToolComplete(w io.Writer, toolName string) {
	indicator := toolCompleteStyle.Render("✓")
	name := toolNameStyle.Render(toolName)
	fmt.Fprintf(w, "%s %s done\n", indicator, name)
}
