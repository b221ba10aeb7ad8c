package report

import (
	"fmt"
	"io"

	"github.com/pairbench/pairbench/internal/pipeline"
)

// Markdown renders the run as a summary table, e.g. for a CI job
// summary page.
func Markdown(w io.Writer, run *pipeline.Run) error {
	fmt.Fprintf(w, "## Run %s: %s\n\n", run.Ref, run.Status)
	fmt.Fprintln(w, "| # | Stage | Status | Duration | Artifacts | Error |")
	fmt.Fprintln(w, "| --- | --- | --- | --- | --- | --- |")

	for i, result := range run.Stages {
		errMsg, status, duration := stringify(result)
		fmt.Fprintf(w, "| %d | %s | %s | %s | %s | %s |\n",
			i,
			result.Stage,
			status,
			duration,
			bundle(result),
			errMsg,
		)
	}

	return nil
}
