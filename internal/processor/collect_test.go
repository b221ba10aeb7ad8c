package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectRunsOnSuccess(t *testing.T) {
	collector := &fakeCollector{}

	next, err := WithCollect(collector)(debugSpec()).Bootstrap(func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		return stageContext, nil
	})
	require.NoError(t, err)

	_, err = next(context.Background(), testContext())
	require.NoError(t, err)
	assert.Equal(t, []v1beta1.StageName{v1beta1.StageDebug}, collector.calls)
}

func TestCollectRunsOnFailure(t *testing.T) {
	collector := &fakeCollector{}

	next, err := WithCollect(collector)(debugSpec()).Bootstrap(func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		return stageContext, errors.New("stage failed")
	})
	require.NoError(t, err)

	_, err = next(context.Background(), testContext())
	require.Error(t, err)
	assert.Len(t, collector.calls, 1)
}

func TestCollectRunsOnPanic(t *testing.T) {
	collector := &fakeCollector{}

	chain, err := Chain(
		WithRecover()(debugSpec()),
		WithCollect(collector)(debugSpec()),
		bootstraperFunc(func(ctx context.Context, stageContext StageContext) (StageContext, error) {
			panic("boom")
		}),
	)
	require.NoError(t, err)

	_, err = chain(context.Background(), testContext())
	require.Error(t, err)
	assert.Len(t, collector.calls, 1)
}

func TestCollectRunsAfterCancellation(t *testing.T) {
	collector := &fakeCollector{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	next, err := WithCollect(collector)(debugSpec()).Bootstrap(func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		return stageContext, ctx.Err()
	})
	require.NoError(t, err)

	_, err = next(ctx, testContext())
	require.Error(t, err)
	assert.Len(t, collector.calls, 1)
}

func TestCollectErrorDoesNotOverrideOutcome(t *testing.T) {
	collector := &fakeCollector{err: errors.New("disk full")}

	next, err := WithCollect(collector)(debugSpec()).Bootstrap(func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		return stageContext, nil
	})
	require.NoError(t, err)

	_, err = next(context.Background(), testContext())
	assert.NoError(t, err)
}

func TestCollectAttachesSetToResult(t *testing.T) {
	collector := &fakeCollector{}

	chain, err := Chain(
		WithResult()(debugSpec()),
		WithCollect(collector)(debugSpec()),
	)
	require.NoError(t, err)

	out, err := chain(context.Background(), testContext())
	require.NoError(t, err)

	result := out.Stages[v1beta1.StageDebug]
	require.NotNil(t, result)
	require.NotNil(t, result.Artifacts)
	assert.Equal(t, "debug-pipeline-logs", result.Artifacts.Name)
}

// bootstraperFunc lets a plain Next terminate a test chain.
type bootstraperFunc Next

func (f bootstraperFunc) Bootstrap(next Next) (Next, error) {
	return Next(f), nil
}
