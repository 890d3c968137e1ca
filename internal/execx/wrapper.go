package execx

import (
	"context"
	"io"
)

// Wrapper prepends a fixed argument prefix to every run. It is used for
// shells reached through another command, e.g. NewWrapper(runner, "ssh",
// "host") turns Run(ctx, "cat", "f") into ssh host cat f. Wrapper
// implements Runner so it can be used anywhere a Runner is expected.
type Wrapper struct {
	runner Runner
	prefix []string
}

// NewWrapper creates a Wrapper that prepends prefix to all Run calls.
func NewWrapper(runner Runner, prefix ...string) *Wrapper {
	return &Wrapper{runner: runner, prefix: prefix}
}

// WithEnv sets additional environment variables for subsequent runs.
func (w *Wrapper) WithEnv(env map[string]string) Runner {
	w.runner = w.runner.WithEnv(env)
	return w
}

// WithDir sets the working directory for subsequent runs.
func (w *Wrapper) WithDir(dir string) Runner {
	w.runner = w.runner.WithDir(dir)
	return w
}

// WithStdin feeds the given reader to the next run's standard input.
func (w *Wrapper) WithStdin(r io.Reader) Runner {
	w.runner = w.runner.WithStdin(r)
	return w
}

// Run executes the wrapped command with the prefix prepended.
func (w *Wrapper) Run(ctx context.Context, args ...string) (*Result, error) {
	full := make([]string, 0, len(w.prefix)+len(args))
	full = append(full, w.prefix...)
	full = append(full, args...)
	return w.runner.Run(ctx, full...)
}

// Clone returns an independent copy with the same configuration.
func (w *Wrapper) Clone() Runner {
	prefix := make([]string, len(w.prefix))
	copy(prefix, w.prefix)
	return &Wrapper{runner: w.runner.Clone(), prefix: prefix}
}
