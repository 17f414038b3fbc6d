package platform

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/rs/zerolog/log"
)

// CmdResult captures one finished subprocess invocation.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Ok reports whether the command ran and exited zero.
func (r CmdResult) Ok() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Runner executes external tool commands. The interface exists so tests can
// stub subprocess calls.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) CmdResult
}

// ExecRunner runs commands with os/exec, capturing both output streams.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) CmdResult {
	log.Debug().Str("dir", dir).Str("cmd", name).Strs("args", args).Msg("running command")

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CmdResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	switch {
	case err == nil:
	case ctx.Err() != nil:
		// Timeouts collapse into a generic failure; there is no retry path.
		result.Err = ctx.Err()
		result.ExitCode = -1
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			// Typically exec.ErrNotFound: the tool is missing entirely.
			result.Err = err
			result.ExitCode = -1
		}
	}

	return result
}
