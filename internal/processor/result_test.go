package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/pairbench/pairbench/internal/driver"
	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultSuccess(t *testing.T) {
	next, err := WithResult()(debugSpec()).Bootstrap(func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		return stageContext, nil
	})
	require.NoError(t, err)

	out, err := next(context.Background(), testContext())
	require.NoError(t, err)

	result := out.Stages[v1beta1.StageDebug]
	require.NotNil(t, result)
	assert.Equal(t, v1beta1.StageStatusSucceeded, result.Status)
	assert.True(t, result.Status.Terminal())
	assert.False(t, result.StartedAt.IsZero())
	assert.False(t, result.EndedAt.IsZero())
}

func TestResultFailure(t *testing.T) {
	next, err := WithResult()(debugSpec()).Bootstrap(func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		return stageContext, errors.New("driver blew up")
	})
	require.NoError(t, err)

	out, err := next(context.Background(), testContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage debug failed")

	result := out.Stages[v1beta1.StageDebug]
	require.NotNil(t, result)
	assert.Equal(t, v1beta1.StageStatusFailed, result.Status)
}

func TestResultSurfacesExitCode(t *testing.T) {
	next, err := WithResult()(debugSpec()).Bootstrap(func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		return stageContext, &driver.ExitError{Code: 137}
	})
	require.NoError(t, err)

	out, err := next(context.Background(), testContext())
	require.Error(t, err)
	assert.Equal(t, 137, out.Stages[v1beta1.StageDebug].ExitCode)
}
