package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/go-logr/logr"
	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
	"golang.org/x/sync/errgroup"
)

// ExitError reports a driver process which terminated with a non zero
// exit status. The code is surfaced in the stage report.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("driver exited with code %d", e.Code)
}

type Invoker struct {
	command []string
	workDir string
	logger  logr.Logger
}

func NewInvoker(spec v1beta1.DriverSpec, logger logr.Logger) (*Invoker, error) {
	if len(spec.Command) == 0 {
		return nil, errors.New("driver command must not be empty")
	}

	return &Invoker{
		command: spec.Command,
		workDir: spec.WorkDir,
		logger:  logger,
	}, nil
}

// Invoke runs the driver once and blocks until it terminates or ctx is
// cancelled. Both output streams are pumped live into the given writers,
// the driver itself also leaves its job logs on disk for the collector.
// A non zero exit status is returned as *ExitError, the invoker never
// retries on its own.
func (i *Invoker) Invoke(ctx context.Context, params Params, stdout, stderr io.Writer) error {
	argv := append(append([]string{}, i.command...), params.Args()...)

	i.logger.Info("invoke test driver", "command", argv)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = i.workDir

	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open stdout pipe: %w", err)
	}

	errPipe, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start driver: %w", err)
	}

	var pump errgroup.Group
	pump.Go(func() error {
		_, err := io.Copy(stdout, outPipe)
		return err
	})
	pump.Go(func() error {
		_, err := io.Copy(stderr, errPipe)
		return err
	})

	pumpErr := pump.Wait()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			return &ExitError{Code: exitErr.ExitCode()}
		}

		return fmt.Errorf("driver failed: %w", err)
	}

	if pumpErr != nil {
		return fmt.Errorf("failed to stream driver output: %w", pumpErr)
	}

	return nil
}
