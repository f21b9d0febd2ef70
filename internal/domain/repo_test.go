package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  RepoRef
	}{
		{"https url", "https://github.com/golang/go", RepoRef{"golang", "go"}},
		{"http url", "http://github.com/golang/go", RepoRef{"golang", "go"}},
		{"www", "https://www.github.com/golang/go", RepoRef{"golang", "go"}},
		{"no scheme", "github.com/golang/go", RepoRef{"golang", "go"}},
		{"dot git", "https://github.com/golang/go.git", RepoRef{"golang", "go"}},
		{"trailing slash", "https://github.com/golang/go/", RepoRef{"golang", "go"}},
		{"deep path", "https://github.com/golang/go/tree/master/src", RepoRef{"golang", "go"}},
		{"fragment", "https://github.com/golang/go#readme", RepoRef{"golang", "go"}},
		{"query", "https://github.com/golang/go?tab=readme", RepoRef{"golang", "go"}},
		{"ssh", "git@github.com:golang/go.git", RepoRef{"golang", "go"}},
		{"uppercase host", "HTTPS://GitHub.com/golang/go", RepoRef{"golang", "go"}},
		{"owner repo", "golang/go", RepoRef{"golang", "go"}},
		{"owner repo dot git", "golang/go.git", RepoRef{"golang", "go"}},
		{"escaped", "golang%2Fgo", RepoRef{"golang", "go"}},
		{"whitespace", "  golang/go  ", RepoRef{"golang", "go"}},
		{"dots and dashes", "my-org/my_repo.js", RepoRef{"my-org", "my_repo.js"}},
		{"ssh without git suffix", "git@github.com:golang/go", RepoRef{"golang", "go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRepoRef(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got.Repo, "/")
		})
	}
}

func TestParseRepoRef_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"golang",
		"https://github.com/golang",
		"https://gitlab.com/golang/go",
		"a/b/c",
		"golang/.git",
		"/go",
		"owner with space/repo",
		"http://github.com:8080/a/b",
		"gitlab.com/owner",
		"example.com/x",
		"owner/re po",
		"-owner/repo",
		"owner-/repo",
		"owner/..",
		"https://github.com/golang/go extra",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := ParseRepoRef(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRepoRef_FullName(t *testing.T) {
	assert.Equal(t, "golang/go", RepoRef{Owner: "golang", Repo: "go"}.FullName())
}

func TestAssessment_State(t *testing.T) {
	a := &Assessment{Task: Task{Title: "t"}}
	assert.Equal(t, AssessmentGenerated, a.State())

	a.ApplyEvaluation(Evaluation{Score: 0, Feedback: "unchanged"})
	assert.Equal(t, AssessmentEvaluated, a.State())
	require.NotNil(t, a.Score)
	assert.Equal(t, 0.0, *a.Score)
}

func TestAnalysisResult_PrimaryLanguages(t *testing.T) {
	a := &AnalysisResult{LanguageStats: []LanguageStat{{Name: "Go"}, {Name: "Shell"}, {Name: "Makefile"}, {Name: "Dockerfile"}}}
	assert.Equal(t, []string{"Go", "Shell", "Makefile"}, a.PrimaryLanguages(3))
	assert.Empty(t, (&AnalysisResult{}).PrimaryLanguages(3))
}

func TestInvalidInputError(t *testing.T) {
	err := NewInvalidInput("assessment %s was already evaluated", "a-1")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "invalid input: assessment a-1 was already evaluated", err.Error())

	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "assessment a-1 was already evaluated", invalid.Msg)
}
