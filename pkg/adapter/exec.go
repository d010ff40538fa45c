package adapter

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/provlog/pkg/model"
	"github.com/m-mizutani/provlog/pkg/utils/logging"
)

// runTool executes an external command-line tool with the given input
// piped to stdin, bounded by timeout. Non-zero exit or timeout yields
// ErrToolExecution carrying the captured diagnostic output and exit
// status.
func runTool(ctx context.Context, timeout time.Duration, path string, args []string, stdin string) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logging.From(ctx).Debug("calling external tool",
		"path", path,
		"args", strings.Join(args, " "),
	)

	cmd := exec.CommandContext(ctx, path, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", goerr.Wrap(model.ErrToolExecution, "tool timed out",
				goerr.V("path", path),
				goerr.V("timeout", timeout),
				goerr.V("stderr", stderr.String()))
		}

		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return "", goerr.Wrap(model.ErrToolExecution, "tool exited with error",
			goerr.V("path", path),
			goerr.V("exit_code", exitCode),
			goerr.V("stdout", stdout.String()),
			goerr.V("stderr", stderr.String()))
	}

	return stdout.String(), nil
}
