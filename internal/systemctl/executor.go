package systemctl

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// Executor runs an external binary and captures its output. Tests install a
// fake to script systemctl behavior without a systemd instance.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (stdout string, stderr string, err error)
}

type execExecutor struct {
	timeout time.Duration
}

// NewExecutor returns the production executor. Every command runs under its
// own deadline so a wedged systemctl cannot stall the whole pass.
func NewExecutor(timeout time.Duration) Executor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &execExecutor{timeout: timeout}
}

func (e *execExecutor) Run(ctx context.Context, binary string, args []string) (string, string, error) {
	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		err = runCtx.Err()
	}
	return stdout.String(), stderr.String(), err
}
