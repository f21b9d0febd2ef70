package prompt

import (
	"fmt"
	"strings"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
)

// ChatSystem is the system instruction paired with Chat.
const ChatSystem = "You are a codebase analysis AI that provides detailed, well-structured responses in markdown format. Always use proper markdown syntax and maintain a clear hierarchy in your responses."

// ChatInput carries a question about a repository.
type ChatInput struct {
	Role     string
	Repo     domain.RepoRef
	Tree     []domain.ContentEntry
	Question string
}

// Chat asks for a markdown answer with fixed section headers.
func Chat(in ChatInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "As a %s, analyze this question about the codebase:\n", in.Role)
	fmt.Fprintf(&b, "Repository: %s\n", in.Repo.FullName())
	b.WriteString("File Structure:\n")
	b.WriteString(FileTree(in.Tree))
	fmt.Fprintf(&b, "\n\nQuestion: %s\n", in.Question)
	b.WriteString(`
Provide a detailed response in markdown format with the following structure:

# Analysis

## Impact Assessment
- [Detailed analysis of the potential impact]

## Affected Files
- [List of files that might be affected]
- [Explanation of how each file might be impacted]

## Implementation Guidelines
- [Step-by-step implementation approach]
- [Best practices to follow]
- [Code examples if relevant]

## Considerations & Risks
- [Potential risks and challenges]
- [Mitigation strategies]
- [Additional recommendations]

Format the response using proper markdown syntax including headers, lists, code blocks and bold text.
Make the response clear, well-structured, and easy to read.`)
	return b.String()
}
