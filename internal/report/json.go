package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pairbench/pairbench/internal/pipeline"
	"github.com/pairbench/pairbench/internal/processor"
	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
)

type jsonReport struct {
	w   io.Writer
	run *pipeline.Run
}

func JSON(w io.Writer) *jsonReport {
	return &jsonReport{
		w: w,
	}
}

func (r *jsonReport) Report(run *pipeline.Run) error {
	r.run = run
	return nil
}

type jsonRun struct {
	Ref      string            `json:"ref"`
	Phase    v1beta1.RunPhase  `json:"phase"`
	Status   v1beta1.RunStatus `json:"status"`
	Duration string            `json:"duration"`
	Stages   []jsonStage       `json:"stages"`
}

type jsonStage struct {
	*processor.StageResult
	Error string `json:"error,omitempty"`
}

func (r *jsonReport) Finalize() error {
	if r.run == nil {
		return nil
	}

	out := jsonRun{
		Ref:      r.run.Ref,
		Phase:    r.run.Phase,
		Status:   r.run.Status,
		Duration: r.run.Duration().String(),
	}

	for _, result := range r.run.Stages {
		stage := jsonStage{
			StageResult: result,
		}

		if result.Error != nil {
			stage.Error = result.Error.Error()
		}

		out.Stages = append(out.Stages, stage)
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(r.w, "%s\n", b)
	return err
}
