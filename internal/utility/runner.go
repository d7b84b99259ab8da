// Package utility talks to the external mod utility: it spawns one process
// per query and hands back the captured standard output as a single
// completion event.
package utility

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/shlex"

	"modlauncher/internal/errors"
)

// DefaultWaitDelay bounds how long output is still collected after the
// utility exited or its context was canceled, e.g. while a forked child
// keeps the inherited stdout open.
const DefaultWaitDelay = 2 * time.Second

// ErrorPrefix starts the utility's output when a query failed.
const ErrorPrefix = "Error:"

var (
	// ErrSpawn means the utility process could not be started.
	ErrSpawn = errors.New("utility could not be started")
	// ErrNoCommand means the configured utility command line was empty.
	ErrNoCommand = errors.New("utility command is empty")
)

// Output is the single completion event of one utility invocation.
type Output struct {
	Args       []string
	ExitStatus int
	Stdout     []byte
	Stderr     []byte
	Err        error
}

// Usable reports whether the invocation produced output worth parsing.
// Spawn failures and empty output are both "nothing to do".
func (o Output) Usable() bool {
	return o.Err == nil && len(o.Stdout) > 0
}

// Text returns stdout as a string.
func (o Output) Text() string {
	return string(o.Stdout)
}

// IsErrorEnvelope reports whether a query answer is the utility's error
// envelope.
func IsErrorEnvelope(value string) bool {
	return strings.HasPrefix(value, ErrorPrefix)
}

// Starter starts one utility invocation.
type Starter interface {
	Start(ctx context.Context, args ...string) <-chan Output
}

// Runner spawns the utility process.
type Runner struct {
	command   []string
	dir       string
	env       []string
	waitDelay time.Duration
	logger    *log.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithDir sets the working directory of the utility process.
func WithDir(dir string) RunnerOption {
	return func(r *Runner) { r.dir = dir }
}

// WithEnv adds KEY=VALUE pairs to the inherited environment.
func WithEnv(env ...string) RunnerOption {
	return func(r *Runner) { r.env = append(r.env, env...) }
}

// WithWaitDelay overrides DefaultWaitDelay.
func WithWaitDelay(d time.Duration) RunnerOption {
	return func(r *Runner) { r.waitDelay = d }
}

// WithLogger sets the logger used for invocation tracing.
func WithLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// NewRunner creates a Runner for the given command line, e.g.
// "mono OpenRA.Utility.exe". The line is split with shell quoting rules.
func NewRunner(commandLine string, opts ...RunnerOption) (*Runner, error) {
	argv, err := shlex.Split(commandLine)
	if err != nil {
		return nil, errors.WithStackTraceAndPrefix(err, "parsing utility command %q", commandLine)
	}
	if len(argv) == 0 {
		return nil, errors.WithStackTrace(ErrNoCommand)
	}

	r := &Runner{command: argv, waitDelay: DefaultWaitDelay, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Start spawns the utility with args appended to the configured command.
// The returned channel receives exactly one Output and is then closed.
// The stdout pipe is drained and closed before the Output is sent.
func (r *Runner) Start(ctx context.Context, args ...string) <-chan Output {
	done := make(chan Output, 1)
	go func() {
		defer close(done)
		done <- r.run(ctx, args)
	}()
	return done
}

// Run is the blocking form of Start.
func (r *Runner) Run(ctx context.Context, args ...string) Output {
	return <-r.Start(ctx, args...)
}

func (r *Runner) run(ctx context.Context, args []string) Output {
	out := Output{Args: args}

	argv := append(append([]string{}, r.command[1:]...), args...)
	cmd := exec.CommandContext(ctx, r.command[0], argv...)
	cmd.Dir = r.dir
	cmd.WaitDelay = r.waitDelay
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running utility", "command", r.command[0], "args", strings.Join(argv, " "))

	if err := cmd.Start(); err != nil {
		out.Err = errors.WithStackTraceAndPrefix(errors.Join(ErrSpawn, err), "%s", r.command[0])
		r.logger.Warn("utility did not start", "command", r.command[0], "err", err)
		return out
	}

	// Wait drains and closes the output pipes, giving up after WaitDelay.
	waitErr := cmd.Wait()

	out.Stdout = stdout.Bytes()
	out.Stderr = stderr.Bytes()

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
	case errors.Is(waitErr, exec.ErrWaitDelay):
		r.logger.Warn("utility output still open after exit, closed it", "args", strings.Join(args, " "))
	case errors.As(waitErr, &exitErr):
		out.ExitStatus = exitErr.ExitCode()
	default:
		out.Err = errors.WithStackTrace(waitErr)
	}

	r.logger.Debug("utility finished", "args", strings.Join(args, " "), "status", out.ExitStatus, "bytes", len(out.Stdout))
	return out
}
