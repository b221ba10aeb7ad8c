package pipeline

import (
	"errors"
)

var ErrNoStageBuilder = errors.New("no stage builder configured")
