// Package execx executes local commands with captured output. It wraps the
// standard library's os/exec behind the Runner interface so callers can be
// tested against fakes, and adds stdin feeding and command-prefix wrappers
// for shells reached through another command (e.g. ssh).
package execx

import (
	"context"
	"fmt"
	"io"
)

// Runner executes commands. Production code uses the concrete *Command, test
// code can substitute a fake.
type Runner interface {
	// WithEnv sets additional environment variables for subsequent runs.
	WithEnv(env map[string]string) Runner

	// WithDir sets the working directory for subsequent runs.
	WithDir(dir string) Runner

	// WithStdin feeds the given reader to the command's standard input on
	// the next run. The reader is consumed and cleared after one run.
	WithStdin(r io.Reader) Runner

	// Run executes the command with the given arguments. The command is
	// killed if the context is canceled. It returns a Result with the
	// captured output and exit code.
	Run(ctx context.Context, args ...string) (*Result, error)

	// Clone returns an independent copy with the same configuration.
	Clone() Runner
}

// Result is the outcome of one command execution.
type Result struct {
	// Stdout is the captured standard output.
	Stdout string

	// Stderr is the captured standard error.
	Stderr string

	// Combined is stdout and stderr interleaved in arrival order.
	Combined string

	// ExitCode is the exit code returned by the command.
	ExitCode int
}

// ExecError is returned when a command fails. It carries the exit code, the
// command that ran, and the captured output.
type ExecError struct {
	// Command is the full argument vector that was executed.
	Command []string

	// ExitCode is the exit code returned by the command.
	ExitCode int

	// Stdout is the captured standard output.
	Stdout string

	// Stderr is the captured standard error.
	Stderr string

	// Err is the underlying error from the execution.
	Err error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command %v failed with exit code %d: %v", e.Command, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("command %v failed with exit code %d", e.Command, e.ExitCode)
}

// Unwrap returns the underlying error.
func (e *ExecError) Unwrap() error {
	return e.Err
}
