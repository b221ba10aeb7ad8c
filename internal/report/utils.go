package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/pairbench/pairbench/internal/processor"
)

func stringify(result *processor.StageResult) (string, string, string) {
	var (
		errMsg   string
		duration string
	)

	if result.Error != nil {
		errMsg = strings.ReplaceAll(result.Error.Error(), "\n", " ")
	}

	if !skipped(result) {
		duration = result.Duration().Round(time.Millisecond * 10).String()
	}

	return errMsg, string(result.Status), duration
}

func bundle(result *processor.StageResult) string {
	if result.Artifacts == nil {
		return ""
	}

	return fmt.Sprintf("%s (%d files)", result.Artifacts.Name, len(result.Artifacts.Files))
}
