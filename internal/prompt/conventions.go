package prompt

import (
	"fmt"
	"strings"
)

// ReviewedPR is a pull request with the bodies of its reviews.
type ReviewedPR struct {
	Title   string
	Body    string
	Reviews []string
}

// ReviewText joins PR blocks with blank lines.
func ReviewText(prs []ReviewedPR) string {
	blocks := make([]string, 0, len(prs))
	for _, pr := range prs {
		blocks = append(blocks, fmt.Sprintf("PR: %s\nDescription: %s\nReviews: %s",
			pr.Title, pr.Body, strings.Join(pr.Reviews, "\n")))
	}
	return strings.Join(blocks, "\n\n")
}

// Conventions asks for team conventions as JSON under a "conventions" key.
func Conventions(role string, prs []ReviewedPR) string {
	var b strings.Builder
	fmt.Fprintf(&b, "As a %s, analyze these pull request reviews and identify team conventions and practices:\n\n", role)
	b.WriteString(ReviewText(prs))
	b.WriteString(`

Identify and categorize the following:
1. Code style and formatting conventions
2. Review and approval processes
3. Testing requirements
4. Documentation standards
5. Branch naming and management
6. Commit message conventions
7. Any other notable practices

For each convention, provide:
- A clear description
- Examples from the reviews
- The source (which PR/review it came from)

Format the response as a JSON object with a "conventions" array of objects with these fields:
{
  "category": string,
  "description": string,
  "examples": string[],
  "source": string
}`)
	return b.String()
}
