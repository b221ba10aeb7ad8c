package pipeline

import (
	"context"
	"time"

	"github.com/pairbench/pairbench/internal/processor"
	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
)

// Run is the aggregate outcome of one campaign run.
type Run struct {
	Ref       string
	Phase     v1beta1.RunPhase
	Status    v1beta1.RunStatus
	StartedAt time.Time
	EndedAt   time.Time
	Stages    []*processor.StageResult
}

func (r *Run) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// ExitCode maps the run outcome to a process exit status. A failing
// driver propagates its own exit code.
func (r *Run) ExitCode() int {
	if r.Status == v1beta1.RunStatusSucceeded {
		return 0
	}

	for _, stage := range r.Stages {
		if stage.Status == v1beta1.StageStatusFailed && stage.ExitCode != 0 {
			return stage.ExitCode
		}
	}

	return 1
}

type pipeline struct {
	stages []*pipelineStage
}

type pipelineStage struct {
	spec       *processor.StageSpec
	entrypoint processor.Next
}

// sequence executes the stages in order and stops at the first failure.
// State provisioned by the debug chain flows into the release chain
// through the stage context, a stage never started is reported skipped.
func (p *pipeline) sequence(ctx context.Context, stageContext processor.StageContext) (*Run, error) {
	run := &Run{
		Ref:       stageContext.Ref,
		Phase:     v1beta1.RunPhaseNotStarted,
		Status:    v1beta1.RunStatusRunning,
		StartedAt: time.Now(),
	}

	var runErr error

	for _, stage := range p.stages {
		if runErr != nil {
			run.Phase = v1beta1.RunPhaseAborted
			run.Stages = append(run.Stages, &processor.StageResult{
				Stage:  stage.spec.Name,
				Status: v1beta1.StageStatusSkipped,
			})

			continue
		}

		run.Phase = runningPhase(stage.spec.Name)

		var err error
		stageContext, err = stage.entrypoint(ctx, stageContext)

		if result, ok := stageContext.Stages[stage.spec.Name]; ok {
			run.Stages = append(run.Stages, result)
		}

		if err != nil {
			runErr = err
			continue
		}

		if stage.spec.Name == v1beta1.StageDebug {
			run.Phase = v1beta1.RunPhaseDebugDone
		}
	}

	run.EndedAt = time.Now()

	if run.Phase != v1beta1.RunPhaseAborted {
		run.Phase = v1beta1.RunPhaseCompleted
	}

	if runErr != nil {
		run.Status = v1beta1.RunStatusFailed
		return run, runErr
	}

	run.Status = v1beta1.RunStatusSucceeded

	return run, nil
}

func runningPhase(stage v1beta1.StageName) v1beta1.RunPhase {
	if stage == v1beta1.StageRelease {
		return v1beta1.RunPhaseReleaseRunning
	}

	return v1beta1.RunPhaseDebugRunning
}
