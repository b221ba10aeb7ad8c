package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/pairbench/pairbench/internal/pipeline"
)

type table struct {
	store *store
	w     io.Writer
}

func Table(w io.Writer) *table {
	return &table{
		w:     w,
		store: &store{},
	}
}

func (r *table) Report(run *pipeline.Run) error {
	for _, result := range run.Stages {
		r.store.Add(result)
	}

	return nil
}

func (r *table) Finalize() error {
	table := tablewriter.NewWriter(r.w)
	table.SetHeader([]string{"#", "Stage", "Status", "Duration", "Artifacts", "Error"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetCenterSeparator("")
	table.SetHeaderLine(false)
	table.SetReflowDuringAutoWrap(false)

	for i, result := range r.store.Ordered() {
		errMsg, status, duration := stringify(result)

		table.Append([]string{
			fmt.Sprintf("%d", i),
			string(result.Stage),
			status,
			duration,
			bundle(result),
			errMsg})
	}

	table.Render()
	return nil
}
