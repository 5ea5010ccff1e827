// Package runner runs external programs and reports how they exited.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command describes a single external program invocation.
type Command struct {
	Name  string
	Args  []string
	Dir   string
	Quiet bool // Capture output only, do not mirror it to the terminal.
}

// String renders the command the way an operator would type it.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is the outcome of running a Command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error // Set when the process could not be started or did not exit cleanly.
}

// OK reports whether the process started and exited with status 0.
func (r Result) OK() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Message returns the most useful text describing a failed run.
func (r Result) Message() string {
	if s := strings.TrimSpace(r.Stderr); s != "" {
		return s
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	return strings.TrimSpace(r.Stdout)
}

// Runner is the capability every stage uses to reach external tools.
type Runner interface {
	// LookPath reports whether name resolves to an executable without running it.
	LookPath(name string) bool
	// Run executes cmd and blocks until it exits.
	Run(ctx context.Context, cmd Command) Result
}

// Exec runs commands with os/exec.
type Exec struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExec returns an Exec that mirrors non-quiet output to stdout and
// stderr. A nil writer falls back to the process's own stream.
func NewExec(stdout, stderr io.Writer) *Exec {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Exec{Stdout: stdout, Stderr: stderr}
}

func (e *Exec) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func (e *Exec) Run(ctx context.Context, c Command) Result {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if c.Quiet || e.Stdout == nil {
		cmd.Stdout = &stdout
	} else {
		cmd.Stdout = io.MultiWriter(e.Stdout, &stdout)
	}
	if c.Quiet || e.Stderr == nil {
		cmd.Stderr = &stderr
	} else {
		cmd.Stderr = io.MultiWriter(e.Stderr, &stderr)
	}

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode < 0 {
			// Killed by a signal.
			res.Err = err
		}
		return res
	}
	res.ExitCode = -1
	res.Err = err
	return res
}

type announcer struct {
	Runner
	fn func(Command)
}

func (a announcer) Run(ctx context.Context, c Command) Result {
	if !c.Quiet {
		a.fn(c)
	}
	return a.Runner.Run(ctx, c)
}

// Announce wraps r so fn is called before every non-quiet command runs.
func Announce(r Runner, fn func(Command)) Runner {
	return announcer{Runner: r, fn: fn}
}
