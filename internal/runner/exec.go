package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// Executor runs one brief to completion.
type Executor interface {
	Execute(ctx context.Context, req Request, log io.Writer) (*Result, error)
}

// Process executes briefs by spawning the runner's CLI.
type Process struct {
	Runner Runner
	// Display receives streamed output. Nil discards it.
	Display io.Writer
	// Stderr receives the CLI's stderr. Nil means os.Stderr.
	Stderr io.Writer
}

// Execute implements Executor.
func (p *Process) Execute(ctx context.Context, req Request, log io.Writer) (*Result, error) {
	display := p.Display
	if display == nil {
		display = io.Discard
	}
	stderr := p.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	return Run(ctx, p.Runner, req, display, log, stderr)
}

// Run starts the CLI, pipes the brief to its stdin and parses its output
// until the process exits.
func Run(ctx context.Context, r Runner, req Request, display, log, stderr io.Writer) (*Result, error) {
	cmd, err := r.Command(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.WorkDir != "" {
		cmd.Dir = req.WorkDir
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	cmd.Stderr = stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", r.Name(), err)
	}

	// The brief can exceed the pipe buffer, so write it while output is read.
	writeErr := make(chan error, 1)
	go func() {
		_, err := io.WriteString(stdin, req.Brief)
		stdin.Close()
		writeErr <- err
	}()

	result, parseErr := r.ParseOutput(stdout, display, log)
	if parseErr != nil {
		// Drain so the process is not blocked on a full pipe.
		io.Copy(io.Discard, stdout)
	}
	waitErr := cmd.Wait()

	if err := <-writeErr; err != nil && waitErr == nil {
		return nil, fmt.Errorf("failed to write to stdin: %w", err)
	}
	if parseErr != nil {
		return nil, fmt.Errorf("failed to parse output: %w", parseErr)
	}
	if waitErr != nil {
		return result, fmt.Errorf("%s exited with error: %w", r.Name(), waitErr)
	}

	if result == nil {
		result = &Result{}
	}
	if result.DurationMs == 0 {
		result.DurationMs = int(time.Since(start).Milliseconds())
	}
	return result, nil
}
