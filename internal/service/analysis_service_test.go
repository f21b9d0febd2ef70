package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
)

var sampleRef = domain.RepoRef{Owner: "acme", Repo: "widgets"}

func insightsLLM() *fakeLLM {
	return &fakeLLM{rules: []llmRule{
		{needle: "3-5 specific recommendations", reply: "- Add tests\n- Use strict mode\n- Add tests"},
		{needle: "analyze this GitHub repository", reply: "A TypeScript widget library."},
	}}
}

func TestAnalysisService_Insights(t *testing.T) {
	provider := &fakeProvider{reader: sampleReader()}
	llm := insightsLLM()
	svc := NewAnalysisService(provider, llm, AnalysisConfig{}, zerolog.Nop())

	got, err := svc.Insights(context.Background(), "user-token", sampleRef, "frontend developer")
	require.NoError(t, err)

	assert.Equal(t, sampleRef, got.Repo)
	assert.Equal(t, "frontend developer", got.Role)
	assert.Equal(t, "A TypeScript widget library.", got.Summary)
	assert.Equal(t, []string{"Add tests", "Use strict mode"}, got.Recommendations)

	require.Len(t, got.Hotspots, 2)
	assert.Equal(t, "a.ts", got.Hotspots[0].File)
	assert.InDelta(t, 2*math.Log(16), got.Hotspots[0].Score, 1e-9)

	assert.Equal(t, domain.ProjectStats{Commits: 3, PullRequests: 2, Issues: 1, Workflows: 1}, got.ProjectStats)
	require.Len(t, got.LanguageStats, 2)
	assert.Equal(t, "TypeScript", got.LanguageStats[0].Name)
	assert.Equal(t, "90.00", got.LanguageStats[0].Percentage)

	for _, tok := range provider.tokens {
		assert.Equal(t, "user-token", tok)
	}

	summaryReq, ok := llm.requestContaining("analyze this GitHub repository")
	require.True(t, ok)
	assert.Contains(t, summaryReq.Prompt, "Common Changes")
	assert.Contains(t, summaryReq.Prompt, "src/\npackage.json")
	assert.False(t, summaryReq.JSON)
}

func TestAnalysisService_InsightsWithoutCommits(t *testing.T) {
	reader := sampleReader()
	reader.commits = nil
	llm := insightsLLM()
	svc := NewAnalysisService(&fakeProvider{reader: reader}, llm, AnalysisConfig{}, zerolog.Nop())

	got, err := svc.Insights(context.Background(), "", sampleRef, "")
	require.NoError(t, err)
	assert.NotNil(t, got.Hotspots)
	assert.Empty(t, got.Hotspots)
	assert.Equal(t, DefaultRole, got.Role)

	summaryReq, ok := llm.requestContaining("analyze this GitHub repository")
	require.True(t, ok)
	assert.NotContains(t, summaryReq.Prompt, "Common Changes")
}

func TestAnalysisService_EnrichesOnlyRecentCommits(t *testing.T) {
	reader := sampleReader()
	svc := NewAnalysisService(&fakeProvider{reader: reader}, insightsLLM(), AnalysisConfig{MaxCommits: 2}, zerolog.Nop())

	got, err := svc.Insights(context.Background(), "", sampleRef, "developer")
	require.NoError(t, err)
	assert.Equal(t, 2, reader.enriched)
	assert.Equal(t, 3, got.ProjectStats.Commits, "activity still counts every commit")
	require.Len(t, got.Hotspots, 1)
	assert.Equal(t, "a.ts", got.Hotspots[0].File)
}

func TestAnalysisService_UpstreamFailure(t *testing.T) {
	reader := sampleReader()
	reader.err = &domain.UpstreamFetchError{Resource: "commits", URL: "https://api.github.com/repos/acme/widgets/commits", Status: 500}
	svc := NewAnalysisService(&fakeProvider{reader: reader}, insightsLLM(), AnalysisConfig{}, zerolog.Nop())

	_, err := svc.Insights(context.Background(), "", sampleRef, "developer")
	var upstream *domain.UpstreamFetchError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, 500, upstream.Status)
}

func TestAnalysisService_LLMFailure(t *testing.T) {
	llm := &fakeLLM{err: domain.ErrLLMUnavailable}
	svc := NewAnalysisService(&fakeProvider{reader: sampleReader()}, llm, AnalysisConfig{}, zerolog.Nop())

	_, err := svc.Insights(context.Background(), "", sampleRef, "developer")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestAnalysisService_RecommendationsFallback(t *testing.T) {
	llm := &fakeLLM{rules: []llmRule{
		{needle: "3-5 specific recommendations", reply: "I have nothing to add."},
		{needle: "analyze this GitHub repository", reply: "Summary."},
	}}
	svc := NewAnalysisService(&fakeProvider{reader: sampleReader()}, llm, AnalysisConfig{}, zerolog.Nop())

	got, err := svc.Insights(context.Background(), "", sampleRef, "developer")
	require.NoError(t, err)
	assert.Equal(t, []string{"No specific recommendations available"}, got.Recommendations)
}

func TestAnalysisService_Hotspots(t *testing.T) {
	svc := NewAnalysisService(&fakeProvider{reader: sampleReader()}, insightsLLM(), AnalysisConfig{}, zerolog.Nop())

	got, err := svc.Hotspots(context.Background(), "", sampleRef)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a.ts", got[0].File)
	assert.Equal(t, "b.ts", got[1].File)
}
