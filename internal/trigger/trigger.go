package trigger

import (
	"strings"
)

// Qualifies reports whether a push to ref creates a run. A pattern with a
// trailing `*` matches any suffix, anything else must match exactly.
// Refs may be fully qualified (refs/heads/main) or plain branch names.
func Qualifies(ref string, patterns []string) bool {
	branch := strings.TrimPrefix(ref, "refs/heads/")

	for _, pattern := range patterns {
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			if strings.HasPrefix(branch, prefix) {
				return true
			}

			continue
		}

		if branch == pattern {
			return true
		}
	}

	return false
}
