package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// RunResult captures subprocess output.
type RunResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// Runner starts argv in dir and waits for it to finish.
type Runner interface {
	Run(ctx context.Context, dir string, argv []string) (*RunResult, error)
}

// ExecRunner runs commands with os/exec. A non-zero exit is a normal
// completion; only spawn failures and context expiry are errors.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir string, argv []string) (*RunResult, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.WaitDelay = 5 * time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, err
		}
		exitCode = exitErr.ExitCode()
	}

	return &RunResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}, nil
}
