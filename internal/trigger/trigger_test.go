package trigger

import (
	"testing"

	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
	"github.com/stretchr/testify/assert"
)

func TestQualifies(t *testing.T) {
	tests := []struct {
		ref       string
		qualifies bool
	}{
		{ref: "main", qualifies: true},
		{ref: "dev", qualifies: true},
		{ref: "unstable", qualifies: true},
		{ref: "bugfix-tcp-close", qualifies: true},
		{ref: "enhancement-zero-copy", qualifies: true},
		{ref: "feature-udp-offload", qualifies: true},
		{ref: "workaround-arp-cache", qualifies: true},
		{ref: "refs/heads/main", qualifies: true},
		{ref: "refs/heads/feature-scheduler", qualifies: true},
		{ref: "release-candidate", qualifies: false},
		{ref: "master", qualifies: false},
		{ref: "maintenance", qualifies: false},
		{ref: "devel", qualifies: false},
		{ref: "bugfix", qualifies: false},
		{ref: "my-feature-branch", qualifies: false},
		{ref: "", qualifies: false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.qualifies, Qualifies(tt.ref, v1beta1.DefaultTriggerBranches))
		})
	}
}

func TestQualifiesExactStarPattern(t *testing.T) {
	assert.True(t, Qualifies("anything", []string{"*"}))
	assert.False(t, Qualifies("anything", nil))
}
