package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
)

// PrimaryLanguageCount is how many languages count as primary.
const PrimaryLanguageCount = 3

// EvaluationSystem is the system instruction paired with AssessmentEvaluation.
const EvaluationSystem = "You are a codebase assessment AI that evaluates developers' solutions to coding tasks and provides actionable feedback. Always respond with a valid JSON object, without any markdown formatting or additional text."

// GenerationSystem is the system instruction paired with AssessmentGeneration.
func GenerationSystem(devType string) string {
	return fmt.Sprintf("You are a codebase assessment AI that generates practical coding tasks for new %s developers. Always respond with a valid JSON object, without any markdown formatting or additional text.", devType)
}

// AssessmentGeneration asks for a coding task grounded in the analysis.
func AssessmentGeneration(analysis *domain.AnalysisResult, devType string) (string, error) {
	analysisJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode analysis: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a codebase assessment AI for new %s developers onboarding to a company.\n", devType)
	b.WriteString("Analyze the following repository context and generate a practical coding assessment that tests their understanding of the codebase.\n\n")
	b.WriteString("Repository Analysis:\n")
	b.Write(analysisJSON)
	b.WriteString("\n\nPrimary Languages Used:\n")
	writeLanguages(&b, analysis.LanguageStats)
	b.WriteString("\nProject Activity:\n")
	writeActivity(&b, analysis.ProjectStats)

	fmt.Fprintf(&b, `
Generate a practical coding assessment that:
1. Focuses on the primary languages used in the project (%s)
2. Tests understanding of the project's architecture and patterns
3. Involves modifying or extending existing functionality
4. Requires following established code conventions
5. Tests understanding of the testing practices (if present)
6. Considers the project's complexity level

Format the response as a JSON object with the following structure:
{
  "task": {
    "title": string,
    "description": string,
    "targetFiles": [{
      "path": string,
      "currentContent": string,
      "expectedChanges": string
    }],
    "requirements": string[],
    "hints": string[],
    "languageSpecificTips": {
      "language": string,
      "tips": string[]
    }[]
  }
}

IMPORTANT: Return ONLY the JSON object, without any markdown formatting or additional text.`,
		strings.Join(analysis.PrimaryLanguages(PrimaryLanguageCount), ", "))
	return b.String(), nil
}

// AssessmentEvaluation asks for a score and feedback on a flattened solution.
func AssessmentEvaluation(task domain.Task, solution string, analysis *domain.AnalysisResult) (string, error) {
	taskJSON, err := json.MarshalIndent(task, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode task: %w", err)
	}
	analysisJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode analysis: %w", err)
	}

	primary := "the primary language"
	if len(analysis.LanguageStats) > 0 {
		primary = analysis.LanguageStats[0].Name
	}

	var b strings.Builder
	b.WriteString("You are a codebase assessment AI. Evaluate the following solution for a coding task:\n\n")
	b.WriteString("Task: ")
	b.Write(taskJSON)
	b.WriteString("\n\nSubmitted Solution:\n")
	b.WriteString(solution)
	b.WriteString("\n\nRepository Context:\n")
	b.Write(analysisJSON)
	b.WriteString("\n\nPrimary Languages:\n")
	writeLanguages(&b, analysis.LanguageStats)

	fmt.Fprintf(&b, `
Evaluate the solution based on:
1. Correctness of implementation
2. Code quality and best practices
3. Language-specific best practices for %s
4. Integration with existing codebase
5. Adherence to project patterns
6. Test coverage (if applicable)
7. Performance considerations

Format the response as a JSON object with the following structure:
{
  "score": number,
  "feedback": string,
  "roadmap": string[],
  "languageSpecificFeedback": {
    "language": string,
    "feedback": string[]
  }[]
}`, primary)
	return b.String(), nil
}
