package domain

// TargetFile is a file the candidate is asked to change.
type TargetFile struct {
	Path            string `json:"path"`
	CurrentContent  string `json:"currentContent"`
	ExpectedChanges string `json:"expectedChanges"`
}

// LanguageTips groups hints for a single language.
type LanguageTips struct {
	Language string   `json:"language"`
	Tips     []string `json:"tips"`
}

// LanguageFeedback groups evaluation notes for a single language.
type LanguageFeedback struct {
	Language string   `json:"language"`
	Feedback []string `json:"feedback"`
}

// Task is the generated coding exercise.
type Task struct {
	Title                string         `json:"title"`
	Description          string         `json:"description"`
	TargetFiles          []TargetFile   `json:"targetFiles"`
	Requirements         []string       `json:"requirements"`
	Hints                []string       `json:"hints"`
	LanguageSpecificTips []LanguageTips `json:"languageSpecificTips,omitempty"`
}

// Evaluation is the scored result of a submitted solution.
type Evaluation struct {
	Score                    float64            `json:"score"`
	Feedback                 string             `json:"feedback"`
	Roadmap                  []string           `json:"roadmap"`
	LanguageSpecificFeedback []LanguageFeedback `json:"languageSpecificFeedback,omitempty"`
}

// AssessmentState is either generated or evaluated. Evaluated is terminal.
type AssessmentState string

const (
	AssessmentGenerated AssessmentState = "generated"
	AssessmentEvaluated AssessmentState = "evaluated"
)

// Assessment is a task plus, once evaluated, its score and feedback.
type Assessment struct {
	ID                       string             `json:"id,omitempty"`
	Task                     Task               `json:"task"`
	Score                    *float64           `json:"score,omitempty"`
	Feedback                 string             `json:"feedback,omitempty"`
	Roadmap                  []string           `json:"roadmap,omitempty"`
	LanguageSpecificFeedback []LanguageFeedback `json:"languageSpecificFeedback,omitempty"`
}

// State derives the lifecycle state from the presence of a score.
func (a *Assessment) State() AssessmentState {
	if a.Score != nil {
		return AssessmentEvaluated
	}
	return AssessmentGenerated
}

// ApplyEvaluation moves the assessment to the evaluated state.
func (a *Assessment) ApplyEvaluation(ev Evaluation) {
	score := ev.Score
	a.Score = &score
	a.Feedback = ev.Feedback
	a.Roadmap = ev.Roadmap
	a.LanguageSpecificFeedback = ev.LanguageSpecificFeedback
}
