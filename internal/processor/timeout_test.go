package processor

import (
	"context"
	"testing"
	"time"

	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeoutExpires(t *testing.T) {
	spec := &StageSpec{
		Name:    v1beta1.StageDebug,
		Timeout: time.Millisecond * 20,
	}

	next, err := WithTimeout()(spec).Bootstrap(func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		<-ctx.Done()
		return stageContext, ctx.Err()
	})
	require.NoError(t, err)

	_, err = next(context.Background(), testContext())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestTimeoutNotReached(t *testing.T) {
	spec := &StageSpec{
		Name:    v1beta1.StageDebug,
		Timeout: time.Second,
	}

	next, err := WithTimeout()(spec).Bootstrap(func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		return stageContext, nil
	})
	require.NoError(t, err)

	_, err = next(context.Background(), testContext())
	assert.NoError(t, err)
}

func TestTimeoutDisabledWithoutLimit(t *testing.T) {
	spec := &StageSpec{
		Name: v1beta1.StageDebug,
	}

	assert.Nil(t, WithTimeout()(spec))
}

func TestTimeoutKeepsParentCancellation(t *testing.T) {
	spec := &StageSpec{
		Name:    v1beta1.StageDebug,
		Timeout: time.Minute,
	}

	next, err := WithTimeout()(spec).Bootstrap(func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		<-ctx.Done()
		return stageContext, ctx.Err()
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = next(ctx, testContext())
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}
