package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/arturoeanton/go-repo-onboarding/internal/adapter/ai"
	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
	"github.com/arturoeanton/go-repo-onboarding/internal/port"
	"github.com/arturoeanton/go-repo-onboarding/internal/prompt"
)

// DefaultRole is used when the caller does not name one.
const DefaultRole = "developer"

// AnalysisConfig bounds the work done per insights request.
type AnalysisConfig struct {
	// MaxCommits is how many of the most recent commits get per-commit diffs.
	MaxCommits int
}

// AnalysisService produces the insights artifact: hotspots, language and
// activity stats, an AI summary and AI recommendations.
type AnalysisService struct {
	repos  port.RepositoryProvider
	llm    port.LLMGateway
	cfg    AnalysisConfig
	logger zerolog.Logger
}

// NewAnalysisService creates a new analysis service.
func NewAnalysisService(repos port.RepositoryProvider, llm port.LLMGateway, cfg AnalysisConfig, logger zerolog.Logger) *AnalysisService {
	if cfg.MaxCommits <= 0 {
		cfg.MaxCommits = 100
	}
	return &AnalysisService{
		repos:  repos,
		llm:    llm,
		cfg:    cfg,
		logger: logger.With().Str("component", "analysis").Logger(),
	}
}

// repoFacts is everything fetched from the provider for one insights run.
type repoFacts struct {
	commits   []domain.CommitRecord
	prs       []domain.PullRequest
	issues    []domain.Issue
	languages map[string]int
	workflows []domain.Workflow
	listing   []domain.ContentEntry
}

func (s *AnalysisService) fetchFacts(ctx context.Context, reader port.RepositoryReader, ref domain.RepoRef) (*repoFacts, error) {
	var f repoFacts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { f.commits, err = reader.ListCommits(gctx, ref); return })
	g.Go(func() (err error) { f.prs, err = reader.ListPullRequests(gctx, ref); return })
	g.Go(func() (err error) { f.issues, err = reader.ListIssues(gctx, ref); return })
	g.Go(func() (err error) { f.languages, err = reader.Languages(gctx, ref); return })
	g.Go(func() (err error) { f.workflows, err = reader.ListWorkflows(gctx, ref); return })
	g.Go(func() (err error) { f.listing, err = reader.ListContents(gctx, ref, ""); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &f, nil
}

// hotspots enriches the most recent commits with file stats and ranks them.
func (s *AnalysisService) hotspots(ctx context.Context, reader port.RepositoryReader, ref domain.RepoRef, commits []domain.CommitRecord) ([]domain.Hotspot, error) {
	if len(commits) > s.cfg.MaxCommits {
		commits = commits[:s.cfg.MaxCommits]
	}
	enriched, err := reader.EnrichCommits(ctx, ref, commits)
	if err != nil {
		return nil, err
	}
	return AggregateHotspots(enriched, HotspotEnhanced), nil
}

// Hotspots returns only the ranked hotspot list.
func (s *AnalysisService) Hotspots(ctx context.Context, token string, ref domain.RepoRef) ([]domain.Hotspot, error) {
	reader := s.repos.Reader(token)
	commits, err := reader.ListCommits(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("hotspots: %w", err)
	}
	hs, err := s.hotspots(ctx, reader, ref, commits)
	if err != nil {
		return nil, fmt.Errorf("hotspots: %w", err)
	}
	return hs, nil
}

// Insights runs the full analysis pipeline for ref as seen by role.
// An empty token reads with the server credential.
func (s *AnalysisService) Insights(ctx context.Context, token string, ref domain.RepoRef, role string) (*domain.AnalysisResult, error) {
	if role == "" {
		role = DefaultRole
	}
	start := time.Now()
	reader := s.repos.Reader(token)

	facts, err := s.fetchFacts(ctx, reader, ref)
	if err != nil {
		return nil, fmt.Errorf("insights fetch: %w", err)
	}
	hotspots, err := s.hotspots(ctx, reader, ref, facts.commits)
	if err != nil {
		return nil, fmt.Errorf("insights hotspots: %w", err)
	}

	result := &domain.AnalysisResult{
		Repo:          ref,
		Role:          role,
		Hotspots:      hotspots,
		LanguageStats: ComputeLanguageStats(facts.languages),
		ProjectStats: domain.ProjectStats{
			Commits:      len(facts.commits),
			PullRequests: len(facts.prs),
			Issues:       countIssues(facts.issues),
			Workflows:    len(facts.workflows),
		},
	}

	in := prompt.SummaryInput{
		Role:      role,
		Repo:      ref,
		Stats:     result.ProjectStats,
		Languages: result.LanguageStats,
		Listing:   facts.listing,
		Hotspots:  hotspots,
	}

	var recommendations string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		result.Summary, err = s.llm.Complete(gctx, port.CompletionRequest{Prompt: prompt.Summary(in), Temperature: 0.5})
		return
	})
	g.Go(func() (err error) {
		recommendations, err = s.llm.Complete(gctx, port.CompletionRequest{Prompt: prompt.Recommendations(in), Temperature: 0.5})
		return
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("insights completion: %w", err)
	}
	result.Recommendations = ai.ParseBullets(recommendations)

	s.logger.Info().
		Str("repo", ref.FullName()).
		Str("role", role).
		Int("commits", result.ProjectStats.Commits).
		Int("hotspots", len(hotspots)).
		Dur("took", time.Since(start)).
		Msg("insights generated")
	return result, nil
}

// countIssues skips pull requests, which the issues API also returns.
func countIssues(issues []domain.Issue) int {
	n := 0
	for _, is := range issues {
		if !is.IsPullRequest {
			n++
		}
	}
	return n
}
