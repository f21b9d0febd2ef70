// Package prompt builds the instructions sent to the language model.
// Every builder is pure: same input, same text, no I/O. Embedded repository
// content is passed through unmodified; callers bound their inputs.
package prompt

import (
	"fmt"
	"strings"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
)

// writeLanguages renders "- Go: 80.00%" lines.
func writeLanguages(b *strings.Builder, langs []domain.LanguageStat) {
	if len(langs) == 0 {
		b.WriteString("- (no language data)\n")
		return
	}
	for _, l := range langs {
		fmt.Fprintf(b, "- %s: %s%%\n", l.Name, l.Percentage)
	}
}

func writeActivity(b *strings.Builder, s domain.ProjectStats) {
	fmt.Fprintf(b, "- Total Commits: %d\n", s.Commits)
	fmt.Fprintf(b, "- Pull Requests: %d\n", s.PullRequests)
	fmt.Fprintf(b, "- Issues: %d\n", s.Issues)
	fmt.Fprintf(b, "- CI/CD Workflows: %d\n", s.Workflows)
}

// FileTree renders entries one path per line, directories with a trailing slash.
func FileTree(entries []domain.ContentEntry) string {
	var b strings.Builder
	for _, e := range entries {
		p := e.Path
		if p == "" {
			p = e.Name
		}
		b.WriteString(p)
		if e.IsDir() {
			b.WriteString("/")
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
