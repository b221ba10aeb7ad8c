package report

import (
	"sort"
	"sync"

	"github.com/pairbench/pairbench/internal/processor"
	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
)

type store struct {
	stages []*processor.StageResult
	mu     sync.Mutex
}

func (s *store) Add(result *processor.StageResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range s.stages {
		if v.Stage == result.Stage {
			s.stages[k] = result

			return
		}
	}

	s.stages = append(s.stages, result)
}

// Ordered returns the stages sorted by start time. A stage which never
// started keeps its insertion position.
func (s *store) Ordered() []*processor.StageResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	sort.SliceStable(s.stages, func(i, j int) bool {
		if s.stages[i].StartedAt.IsZero() || s.stages[j].StartedAt.IsZero() {
			return false
		}

		return s.stages[i].StartedAt.Before(s.stages[j].StartedAt)
	})

	return s.stages
}

func skipped(result *processor.StageResult) bool {
	return result.Status == v1beta1.StageStatusSkipped
}
