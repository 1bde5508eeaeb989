package crew

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Gil-1/crewai-gamedevs/internal/mdx"
)

var (
	// titleStyle for bold red headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for success indicators
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// errorStyle for error indicators
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// warnStyle for non-fatal problems
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	// boxStyle for summary box with rounded border
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)

	// headerBoxStyle for the header
	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)

	// taskBannerStyle for task banners
	taskBannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("160")).
			Padding(0, 2)

	// cellStyle pads table cells
	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

// FormatHeader renders the crew header with the run inputs
func FormatHeader(w io.Writer, run *Run, tasks int) {
	lines := []string{
		fmt.Sprintf("%s %s  %s %s  %s %s",
			dimStyle.Render("Run:"), titleStyle.Render(shortID(run.ID)),
			dimStyle.Render("Profile:"), titleStyle.Render(run.Profile),
			dimStyle.Render("Agent:"), titleStyle.Render(orDefault(run.Agent, "claude"))),
	}
	if run.ReplayOf != "" {
		lines = append(lines, fmt.Sprintf("%s %s", dimStyle.Render("Replay of:"), shortID(run.ReplayOf)))
	}
	for _, key := range InputKeys {
		if v, ok := run.Inputs[key]; ok {
			lines = append(lines, fmt.Sprintf("%s %s", dimStyle.Render(inputLabel(key)+":"), v))
		}
	}
	lines = append(lines, fmt.Sprintf("%s %d", dimStyle.Render("Tasks:"), tasks))

	fmt.Fprintln(w, headerBoxStyle.Render(strings.Join(lines, "\n")))
}

// FormatTaskBanner renders the banner shown before a task starts
func FormatTaskBanner(w io.Writer, index, total int, task Task, agent Agent) {
	banner := fmt.Sprintf(" TASK %d/%d %s ", index, total, task.Key)
	fmt.Fprintln(w)
	fmt.Fprintln(w, taskBannerStyle.Render(banner))
	fmt.Fprintf(w, "%s %s  %s %s\n\n",
		dimStyle.Render("Agent:"), agent.Key,
		dimStyle.Render("Model:"), agent.LLM.Model)
}

// FormatTaskSummary renders the task summary box
func FormatTaskSummary(w io.Writer, out TaskOutput) {
	res := out.Result
	if res == nil {
		return
	}
	duration := float64(res.DurationMs) / 1000.0

	var statusIndicator string
	if res.IsError {
		statusIndicator = errorStyle.Render("ERROR")
	} else {
		statusIndicator = successStyle.Render("OK")
	}

	var costStr string
	if res.HasCost {
		costStr = fmt.Sprintf("$%.4f", res.TotalCostUSD)
	} else {
		costStr = dimStyle.Render("N/A")
	}

	line1 := fmt.Sprintf("%s %.1fs  %s %d  %s %s",
		dimStyle.Render("Duration:"), duration,
		dimStyle.Render("Turns:"), res.NumTurns,
		dimStyle.Render("Cost:"), costStr,
	)
	line2 := fmt.Sprintf("%s %s in %s %s out  %s",
		dimStyle.Render("Tokens:"), formatNumber(res.Usage.InputTokens),
		dimStyle.Render("->"), formatNumber(res.Usage.OutputTokens),
		statusIndicator,
	)
	lines := []string{titleStyle.Render("Task Complete: " + out.Task), line1, line2}
	if out.OutputFile != "" {
		lines = append(lines, fmt.Sprintf("%s %s", dimStyle.Render("Saved:"), out.OutputFile))
	}
	if out.Validation != nil {
		lines = append(lines, formatValidationLine(*out.Validation))
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}

func formatValidationLine(r mdx.Report) string {
	if r.Passed {
		return fmt.Sprintf("%s %s (%d sections)", dimStyle.Render("Structure:"),
			successStyle.Render("PASSED"), r.FoundCount())
	}
	return fmt.Sprintf("%s %s missing %s, extra %s", dimStyle.Render("Structure:"),
		warnStyle.Render("FAILED"), listOrNone(r.Missing), listOrNone(r.Extra))
}

// FormatRunComplete renders the end-of-run message
func FormatRunComplete(w io.Writer, run *Run, outputDir string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, successStyle.Render("Game design document generation complete"))
	fmt.Fprintf(w, "%s %s\n", dimStyle.Render("Run:"), run.ID)
	if outputDir != "" {
		fmt.Fprintf(w, "%s %s\n", dimStyle.Render("Output:"), outputDir)
	}
}

// FormatFeedbackPrompt asks for training feedback on a task
func FormatFeedbackPrompt(w io.Writer, task, agent string) {
	fmt.Fprintf(w, "\n%s %s %s\n%s ",
		titleStyle.Render("Feedback for"), task, dimStyle.Render("("+agent+")"),
		dimStyle.Render("Enter one line, or leave empty to skip >"))
}

// FormatTaskList renders the tasks of a run
func FormatTaskList(w io.Writer, run *Run) {
	fmt.Fprintf(w, "%s %s  %s %s\n", dimStyle.Render("Run:"), run.ID,
		dimStyle.Render("Started:"), run.StartedAt.Format("2006-01-02 15:04:05"))

	rows := [][]string{{"TASK ID", "TASK", "AGENT", "STATUS", "OUTPUT"}}
	for _, t := range run.Tasks {
		status := "OK"
		if t.Failed() {
			status = "ERROR"
		} else if t.Validation != nil && !t.Validation.Passed {
			status = "STRUCTURE"
		}
		rows = append(rows, []string{t.ID, t.Task, t.Agent, status, orDefault(t.OutputFile, "-")})
	}
	fmt.Fprintln(w, renderTable(rows))
}

// FormatScoreTable renders the test report
func FormatScoreTable(w io.Writer, r *TestReport) {
	rows := [][]string{{"TASK", "AGENT", "AVG SCORE", "RUNS", "STRUCTURE"}}
	for _, t := range r.Tasks {
		structure := "-"
		if rate := t.PassRate(); rate >= 0 {
			structure = fmt.Sprintf("%.0f%%", rate*100)
		}
		rows = append(rows, []string{
			t.Task, t.Agent,
			fmt.Sprintf("%.1f", t.Average()),
			fmt.Sprintf("%d", len(t.Scores)),
			structure,
		})
	}
	rows = append(rows, []string{"overall", "", fmt.Sprintf("%.1f", r.Overall()), fmt.Sprintf("%d", r.Iterations), ""})

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Evaluation by %s", r.EvalModel)))
	fmt.Fprintln(w, renderTable(rows))
}

// renderTable lays rows out in padded columns. The first row is the header.
func renderTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if n := lipgloss.Width(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var lines []string
	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			style := cellStyle.Width(widths[i] + 2)
			if r == 0 {
				style = style.Bold(true)
			}
			cells[i] = style.Render(cell)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// formatNumber adds commas to large numbers for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%d,%03d", n/1000, n%1000)
	}
	return fmt.Sprintf("%d,%03d,%03d", n/1000000, (n/1000)%1000, n%1000)
}

func inputLabel(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
