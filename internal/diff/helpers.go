package diff

import (
	"strings"

	"dbchecker/internal/core"
)

// flatten concatenates statement groups, trimming entries and dropping
// empty ones and exact repeats while keeping first-seen order.
func flatten(groups ...[]string) []string {
	var all []string
	for _, g := range groups {
		for _, stmt := range g {
			all = append(all, strings.TrimSpace(stmt))
		}
	}
	return core.Dedupe(all)
}
