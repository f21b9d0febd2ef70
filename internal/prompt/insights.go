package prompt

import (
	"fmt"
	"strings"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
)

// SummaryHotspots is how many hotspots the summary prompt embeds.
const SummaryHotspots = 5

// SummaryInput is the repository fact sheet behind the insights prompts.
type SummaryInput struct {
	Role      string
	Repo      domain.RepoRef
	Stats     domain.ProjectStats
	Languages []domain.LanguageStat
	// Listing is the top-level directory listing.
	Listing  []domain.ContentEntry
	Hotspots []domain.Hotspot
}

// Summary asks for a structured free-text overview of the repository.
func Summary(in SummaryInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "As a %s, analyze this GitHub repository:\n", in.Role)
	fmt.Fprintf(&b, "Repository: %s\n", in.Repo.FullName())
	fmt.Fprintf(&b, "Recent Commits: %d\n", in.Stats.Commits)
	fmt.Fprintf(&b, "Pull Requests: %d\n", in.Stats.PullRequests)
	fmt.Fprintf(&b, "Issues: %d\n", in.Stats.Issues)
	fmt.Fprintf(&b, "CI/CD Workflows: %d\n", in.Stats.Workflows)

	b.WriteString("\nLanguages:\n")
	writeLanguages(&b, in.Languages)

	if len(in.Listing) > 0 {
		b.WriteString("\nTop-level Files and Directories:\n")
		b.WriteString(FileTree(in.Listing))
		b.WriteString("\n")
	}

	// Zero commits means no hotspots; the section is left out entirely.
	if len(in.Hotspots) > 0 {
		b.WriteString("\nCommon Changes (most frequently modified files):\n")
		for i, h := range in.Hotspots {
			if i == SummaryHotspots {
				break
			}
			fmt.Fprintf(&b, "- %s (%d changes, score %.2f)\n", h.File, h.Changes, h.Score)
		}
	}

	b.WriteString(`
Provide a comprehensive summary focusing on:
1. Key components and architecture
2. Development patterns and practices
3. Areas that need attention
4. Technology stack observations

Format the response as a clear, structured summary.`)
	return b.String()
}

// Recommendations asks for 3-5 items in a fixed "- <text>" format so the
// answer can be parsed line by line.
func Recommendations(in SummaryInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "As a %s, provide 3-5 specific recommendations for the repository %s based on:\n", in.Role, in.Repo.FullName())
	b.WriteString(`1. Code organization
2. Best practices
3. Potential improvements
4. Common pitfalls to avoid
`)
	if len(in.Languages) > 0 {
		b.WriteString("\nLanguages:\n")
		writeLanguages(&b, in.Languages)
	}
	b.WriteString(`
Format EXACTLY as follows, with each recommendation on a new line starting with '- ':
- First recommendation
- Second recommendation
- Third recommendation`)
	return b.String()
}
