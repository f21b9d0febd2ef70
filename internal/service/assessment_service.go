package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arturoeanton/go-repo-onboarding/internal/adapter/ai"
	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
	"github.com/arturoeanton/go-repo-onboarding/internal/port"
	"github.com/arturoeanton/go-repo-onboarding/internal/prompt"
)

// InsightsRunner produces the analysis an assessment is grounded in.
type InsightsRunner interface {
	Insights(ctx context.Context, token string, ref domain.RepoRef, role string) (*domain.AnalysisResult, error)
}

// AssessmentConfig tunes the model calls of the assessment engine.
type AssessmentConfig struct {
	MaxTokens   int
	Temperature float32
}

// AssessmentService generates coding tasks and evaluates submitted solutions.
type AssessmentService struct {
	insights     InsightsRunner
	llm          port.LLMGateway
	tracker      *AssessmentTracker
	requirements LanguageRequirements
	cfg          AssessmentConfig
	logger       zerolog.Logger
}

// NewAssessmentService creates a new assessment engine.
func NewAssessmentService(insights InsightsRunner, llm port.LLMGateway, tracker *AssessmentTracker, reqs LanguageRequirements, cfg AssessmentConfig, logger zerolog.Logger) *AssessmentService {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if reqs == nil {
		reqs = DefaultLanguageRequirements()
	}
	return &AssessmentService{
		insights:     insights,
		llm:          llm,
		tracker:      tracker,
		requirements: reqs,
		cfg:          cfg,
		logger:       logger.With().Str("component", "assessment").Logger(),
	}
}

type generatedTask struct {
	Task domain.Task `json:"task"`
}

// Start analyzes ref with the server credential and generates a task for
// devType. The result is tracked in the generated state.
func (s *AssessmentService) Start(ctx context.Context, ref domain.RepoRef, devType string) (*domain.Assessment, error) {
	analysis, err := s.insights.Insights(ctx, "", ref, DefaultRole)
	if err != nil {
		return nil, fmt.Errorf("assessment analysis: %w", err)
	}

	p, err := prompt.AssessmentGeneration(analysis, devType)
	if err != nil {
		return nil, fmt.Errorf("assessment prompt: %w", err)
	}
	raw, err := s.llm.Complete(ctx, port.CompletionRequest{
		System:      prompt.GenerationSystem(devType),
		Prompt:      p,
		JSON:        true,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("assessment generation: %w", err)
	}

	out, err := ai.ParseJSON[generatedTask](raw)
	if err == nil && strings.TrimSpace(out.Task.Title) == "" {
		err = &domain.MalformedAIResponseError{Raw: raw, Err: errors.New("task has no title")}
	}
	if err != nil {
		s.logger.Error().Err(err).Str("stage", "assessment.generate").Str("repo", ref.FullName()).Str("raw", raw).Msg("unparseable model output")
		return nil, fmt.Errorf("assessment generation: %w", err)
	}

	task := out.Task
	task.Requirements = append(task.Requirements, s.requirements.For(analysis.PrimaryLanguages(prompt.PrimaryLanguageCount))...)

	a := domain.Assessment{ID: uuid.NewString(), Task: task}
	if s.tracker != nil {
		s.tracker.Add(a)
	}

	s.logger.Info().Str("assessment_id", a.ID).Str("repo", ref.FullName()).Str("type", devType).Msg("assessment generated")
	return &a, nil
}

// EvaluateInput is a submitted solution for a task.
type EvaluateInput struct {
	// AssessmentID is optional. When set it must name a tracked assessment
	// that has not been evaluated yet.
	AssessmentID string
	Task         domain.Task
	// Solution maps file path to submitted content.
	Solution map[string]string
	Repo     domain.RepoRef
}

// scoredEvaluation is the model's evaluation reply. A missing score is a
// malformed reply, not a zero.
type scoredEvaluation struct {
	Score                    *float64                  `json:"score"`
	Feedback                 string                    `json:"feedback"`
	Roadmap                  []string                  `json:"roadmap"`
	LanguageSpecificFeedback []domain.LanguageFeedback `json:"languageSpecificFeedback"`
}

// Evaluate scores a solution against its task and the repository context.
func (s *AssessmentService) Evaluate(ctx context.Context, in EvaluateInput) (*domain.Assessment, error) {
	if in.AssessmentID != "" && s.tracker != nil {
		if err := s.tracker.CheckEvaluable(in.AssessmentID); err != nil {
			return nil, err
		}
	}

	analysis, err := s.insights.Insights(ctx, "", in.Repo, DefaultRole)
	if err != nil {
		return nil, fmt.Errorf("evaluation analysis: %w", err)
	}

	p, err := prompt.AssessmentEvaluation(in.Task, FlattenSolution(in.Solution), analysis)
	if err != nil {
		return nil, fmt.Errorf("evaluation prompt: %w", err)
	}
	raw, err := s.llm.Complete(ctx, port.CompletionRequest{
		System:      prompt.EvaluationSystem,
		Prompt:      p,
		JSON:        true,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluation: %w", err)
	}

	reply, err := ai.ParseJSON[scoredEvaluation](raw)
	if err == nil && reply.Score == nil {
		err = &domain.MalformedAIResponseError{Raw: raw, Err: errors.New("evaluation has no score")}
	}
	if err != nil {
		s.logger.Error().Err(err).Str("stage", "assessment.evaluate").Str("repo", in.Repo.FullName()).Str("raw", raw).Msg("unparseable model output")
		return nil, fmt.Errorf("evaluation: %w", err)
	}

	ev := domain.Evaluation{
		Score:                    *reply.Score,
		Feedback:                 reply.Feedback,
		Roadmap:                  reply.Roadmap,
		LanguageSpecificFeedback: reply.LanguageSpecificFeedback,
	}
	if in.AssessmentID != "" && s.tracker != nil {
		return s.tracker.Complete(in.AssessmentID, ev)
	}
	a := &domain.Assessment{Task: in.Task}
	a.ApplyEvaluation(ev)
	return a, nil
}

// Get returns a tracked assessment.
func (s *AssessmentService) Get(id string) (*domain.Assessment, error) {
	if s.tracker != nil {
		if a, ok := s.tracker.Get(id); ok {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", port.ErrAssessmentNotFound, id)
}

// FlattenSolution renders "<path>:\n<content>" blocks sorted by path and
// separated by blank lines.
func FlattenSolution(files map[string]string) string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	blocks := make([]string, 0, len(paths))
	for _, p := range paths {
		blocks = append(blocks, p+":\n"+files[p])
	}
	return strings.Join(blocks, "\n\n")
}
