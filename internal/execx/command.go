package execx

import (
	"bytes"
	"context"
	"io"
	"os"
	osexec "os/exec"
	"sync"
)

// Command is the concrete Runner backed by os/exec.
type Command struct {
	env        map[string]string
	dir        string
	inheritEnv bool
	stdin      io.Reader
}

// Option configures a Command at creation time.
type Option func(*Command)

// WithEnv returns an Option that sets default environment variables.
func WithEnv(env map[string]string) Option {
	return func(c *Command) {
		for k, v := range env {
			c.env[k] = v
		}
	}
}

// WithDir returns an Option that sets the default working directory.
func WithDir(dir string) Option {
	return func(c *Command) {
		c.dir = dir
	}
}

// WithInheritEnv returns an Option that inherits the parent environment.
func WithInheritEnv() Option {
	return func(c *Command) {
		c.inheritEnv = true
	}
}

// New creates a new Command with the given options.
func New(opts ...Option) *Command {
	cmd := &Command{env: make(map[string]string)}
	for _, opt := range opts {
		opt(cmd)
	}
	return cmd
}

// WithEnv sets additional environment variables for subsequent runs.
func (c *Command) WithEnv(env map[string]string) Runner {
	for k, v := range env {
		c.env[k] = v
	}
	return c
}

// WithDir sets the working directory for subsequent runs.
func (c *Command) WithDir(dir string) Runner {
	c.dir = dir
	return c
}

// WithStdin feeds the given reader to the next run's standard input.
func (c *Command) WithStdin(r io.Reader) Runner {
	c.stdin = r
	return c
}

// Run executes the command with the given arguments.
func (c *Command) Run(ctx context.Context, args ...string) (*Result, error) {
	if len(args) == 0 {
		return nil, &ExecError{Command: args, ExitCode: -1, Err: osexec.ErrNotFound}
	}

	cmd := osexec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = c.dir
	if c.inheritEnv {
		cmd.Env = os.Environ()
	}
	for k, v := range c.env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	if c.stdin != nil {
		cmd.Stdin = c.stdin
		c.stdin = nil
	}

	var stdout, stderr bytes.Buffer
	combined := newSyncBuffer()
	cmd.Stdout = io.MultiWriter(&stdout, combined)
	cmd.Stderr = io.MultiWriter(&stderr, combined)

	runErr := cmd.Run()

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Combined: combined.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}
	if runErr != nil {
		return result, &ExecError{
			Command:  args,
			ExitCode: result.ExitCode,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
			Err:      runErr,
		}
	}
	return result, nil
}

// Clone returns an independent copy with the same configuration.
func (c *Command) Clone() Runner {
	clone := &Command{
		env:        make(map[string]string, len(c.env)),
		dir:        c.dir,
		inheritEnv: c.inheritEnv,
	}
	for k, v := range c.env {
		clone.env[k] = v
	}
	return clone
}

// syncBuffer serializes writes from the stdout and stderr pipes so the
// combined stream stays in arrival order.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func newSyncBuffer() *syncBuffer {
	return &syncBuffer{}
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
