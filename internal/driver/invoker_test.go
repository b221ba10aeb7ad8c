package driver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeDriver(t *testing.T, script string) v1beta1.DriverSpec {
	t.Helper()

	path := filepath.Join(t.TempDir(), "driver.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0755))

	return v1beta1.DriverSpec{
		Command: []string{path},
		WorkDir: filepath.Dir(path),
	}
}

func TestNewInvokerEmptyCommand(t *testing.T) {
	_, err := NewInvoker(v1beta1.DriverSpec{}, logr.Discard())
	assert.Error(t, err)
}

func TestInvokeSuccess(t *testing.T) {
	invoker, err := NewInvoker(fakeDriver(t, `echo "all jobs passed"; echo "warnings" >&2; exit 0`), logr.Discard())
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	err = invoker.Invoke(context.Background(), Params{}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "all jobs passed")
	assert.Contains(t, stderr.String(), "warnings")
}

func TestInvokeNonZeroExit(t *testing.T) {
	invoker, err := NewInvoker(fakeDriver(t, "exit 137"), logr.Discard())
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	err = invoker.Invoke(context.Background(), Params{}, &stdout, &stderr)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 137, exitErr.Code)
}

func TestInvokeArgsForwarded(t *testing.T) {
	invoker, err := NewInvoker(fakeDriver(t, `echo "$@"`), logr.Discard())
	require.NoError(t, err)

	params := Params{
		ServerHost: "srv",
		ClientHost: "cli",
		Repository: "repo",
		Ref:        "main",
		Libos:      "catnap",
		Debug:      true,
		Delay:      2 * time.Second,
	}

	var stdout, stderr bytes.Buffer
	require.NoError(t, invoker.Invoke(context.Background(), params, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "--server srv --client cli")
	assert.Contains(t, stdout.String(), "--debug")
}

func TestInvokeCancelled(t *testing.T) {
	invoker, err := NewInvoker(fakeDriver(t, "sleep 30"), logr.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var stdout, stderr bytes.Buffer
	err = invoker.Invoke(ctx, Params{}, &stdout, &stderr)
	assert.Error(t, err)
}

func TestInvokeMissingBinary(t *testing.T) {
	invoker, err := NewInvoker(v1beta1.DriverSpec{Command: []string{"/nonexistent/driver"}}, logr.Discard())
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	err = invoker.Invoke(context.Background(), Params{}, &stdout, &stderr)
	assert.Error(t, err)
}
