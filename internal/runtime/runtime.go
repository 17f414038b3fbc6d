package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/rs/zerolog/log"
)

// Executor invokes the runtime binary. Stdout/Stderr default to the process
// streams; tests redirect them.
type Executor struct {
	Binary string
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecutor wraps the binary at path.
func NewExecutor(path string) *Executor {
	return &Executor{Binary: path, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes a .poh program and returns the child's exit code.
func (e *Executor) Run(ctx context.Context, file string) (int, error) {
	return e.invoke(ctx, "--run", file)
}

// Compile produces bytecode for a .poh program at the given output path.
func (e *Executor) Compile(ctx context.Context, file, out string) (int, error) {
	return e.invoke(ctx, "--compile", file, "-o", out)
}

// Version asks the binary for its version string.
func (e *Executor) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, e.Binary, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("runtime --version failed: %w", err)
	}

	return string(out), nil
}

func (e *Executor) invoke(ctx context.Context, args ...string) (int, error) {
	log.Debug().Str("binary", e.Binary).Strs("args", args).Msg("invoking runtime")

	cmd := exec.CommandContext(ctx, e.Binary, args...)
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	cmd.Stdin = os.Stdin

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	return -1, fmt.Errorf("failed to start runtime: %w", err)
}
