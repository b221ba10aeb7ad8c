package processor

import (
	"errors"
	"io"
	"time"

	"github.com/pairbench/pairbench/internal/artifact"
	"github.com/pairbench/pairbench/internal/credential"
	"github.com/pairbench/pairbench/internal/driver"
	"github.com/pairbench/pairbench/internal/secrets"
	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
)

// StageContext flows through one run, from the debug chain into the
// release chain. Provisioned state placed here by the first stage is
// reused by the second.
type StageContext struct {
	// Revision the run was triggered for.
	Ref string

	// Resolved secret record, populated by the provision processor.
	Material secrets.Material

	// Run scoped access credential, nil until provisioned.
	Credential *credential.AccessCredential

	// Terminal results per stage.
	Stages map[v1beta1.StageName]*StageResult

	Stdout io.Writer
	Stderr io.Writer
}

func NewContext(ref string, stdout, stderr io.Writer) StageContext {
	return StageContext{
		Ref:    ref,
		Stages: make(map[v1beta1.StageName]*StageResult),
		Stdout: stdout,
		Stderr: stderr,
	}
}

// StageSpec is the build time description of one stage chain.
type StageSpec struct {
	Name    v1beta1.StageName
	Debug   bool
	Timeout time.Duration
}

type StageResult struct {
	Stage     v1beta1.StageName   `json:"stage"`
	Status    v1beta1.StageStatus `json:"status"`
	StartedAt time.Time           `json:"startedAt"`
	EndedAt   time.Time           `json:"endedAt"`
	ExitCode  int                 `json:"exitCode"`
	Error     error               `json:"-"`
	Artifacts *artifact.Set       `json:"artifacts,omitempty"`
}

func (r *StageResult) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// Finalize derives the terminal status from the chain error, surfacing
// the driver exit code if there is one.
func (r *StageResult) Finalize(err error) {
	r.Error = err

	if err == nil {
		r.Status = v1beta1.StageStatusSucceeded
		return
	}

	r.Status = v1beta1.StageStatusFailed

	var exitErr *driver.ExitError
	if errors.As(err, &exitErr) {
		r.ExitCode = exitErr.Code
	}
}
