package install

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// Command is one external process invocation.
type Command struct {
	Name string
	Args []string
	// Env is the complete environment of the process.
	Env []string
}

// Runner executes commands. The default runs them with os/exec.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands as child processes, streaming their output.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts cmd and waits for it to exit.
func (r ExecRunner) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Env = cmd.Env
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	return c.Run()
}
