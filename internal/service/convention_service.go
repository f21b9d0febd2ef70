package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/arturoeanton/go-repo-onboarding/internal/adapter/ai"
	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
	"github.com/arturoeanton/go-repo-onboarding/internal/port"
	"github.com/arturoeanton/go-repo-onboarding/internal/prompt"
)

// ConventionConfig bounds the review data sent to the model.
type ConventionConfig struct {
	// MaxPullRequests is how many of the most recent PRs are inspected.
	MaxPullRequests int
	// ReviewConcurrency bounds parallel review requests.
	ReviewConcurrency int
}

// ConventionService infers team conventions from pull-request reviews.
type ConventionService struct {
	repos  port.RepositoryProvider
	llm    port.LLMGateway
	cfg    ConventionConfig
	logger zerolog.Logger
}

// NewConventionService creates a new convention service.
func NewConventionService(repos port.RepositoryProvider, llm port.LLMGateway, cfg ConventionConfig, logger zerolog.Logger) *ConventionService {
	if cfg.MaxPullRequests <= 0 {
		cfg.MaxPullRequests = 50
	}
	if cfg.ReviewConcurrency <= 0 {
		cfg.ReviewConcurrency = 8
	}
	return &ConventionService{
		repos:  repos,
		llm:    llm,
		cfg:    cfg,
		logger: logger.With().Str("component", "conventions").Logger(),
	}
}

type conventionEnvelope struct {
	Conventions *[]domain.Convention `json:"conventions"`
}

// Extract returns the conventions the model finds in recent PR reviews.
func (s *ConventionService) Extract(ctx context.Context, token string, ref domain.RepoRef, role string) ([]domain.Convention, error) {
	if role == "" {
		role = DefaultRole
	}
	reader := s.repos.Reader(token)

	prs, err := reader.ListPullRequests(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("conventions pulls: %w", err)
	}
	if len(prs) > s.cfg.MaxPullRequests {
		prs = prs[:s.cfg.MaxPullRequests]
	}

	reviewed := make([]prompt.ReviewedPR, len(prs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.ReviewConcurrency)
	for i, pr := range prs {
		g.Go(func() error {
			reviews, err := reader.ListReviews(gctx, ref, pr.Number)
			if err != nil {
				return err
			}
			bodies := make([]string, 0, len(reviews))
			for _, r := range reviews {
				if b := strings.TrimSpace(r.Body); b != "" {
					bodies = append(bodies, b)
				}
			}
			reviewed[i] = prompt.ReviewedPR{Title: pr.Title, Body: pr.Body, Reviews: bodies}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("conventions reviews: %w", err)
	}

	raw, err := s.llm.Complete(ctx, port.CompletionRequest{
		Prompt:      prompt.Conventions(role, reviewed),
		JSON:        true,
		Temperature: 0.5,
	})
	if err != nil {
		return nil, fmt.Errorf("conventions completion: %w", err)
	}

	conventions, err := parseConventions(raw)
	if err != nil {
		s.logger.Error().Err(err).Str("stage", "conventions.parse").Str("repo", ref.FullName()).Str("raw", raw).Msg("unparseable model output")
		return nil, fmt.Errorf("conventions parse: %w", err)
	}
	return conventions, nil
}

// parseConventions accepts the {"conventions": [...]} envelope or a bare array.
func parseConventions(raw string) ([]domain.Convention, error) {
	if strings.HasPrefix(ai.StripCodeFence(raw), "[") {
		return ai.ParseJSON[[]domain.Convention](raw)
	}
	env, err := ai.ParseJSON[conventionEnvelope](raw)
	if err != nil {
		return nil, err
	}
	if env.Conventions == nil {
		return nil, &domain.MalformedAIResponseError{Raw: raw, Err: errors.New(`reply has no "conventions" list`)}
	}
	return *env.Conventions, nil
}
