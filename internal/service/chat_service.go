package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
	"github.com/arturoeanton/go-repo-onboarding/internal/port"
	"github.com/arturoeanton/go-repo-onboarding/internal/prompt"
)

// ChatService answers free-text questions about a repository.
type ChatService struct {
	repos  port.RepositoryProvider
	llm    port.LLMGateway
	logger zerolog.Logger
}

// NewChatService creates a new chat service.
func NewChatService(repos port.RepositoryProvider, llm port.LLMGateway, logger zerolog.Logger) *ChatService {
	return &ChatService{
		repos:  repos,
		llm:    llm,
		logger: logger.With().Str("component", "chat").Logger(),
	}
}

// Ask returns a markdown answer grounded in the repository file tree.
func (s *ChatService) Ask(ctx context.Context, token string, ref domain.RepoRef, role, message string) (string, error) {
	if role == "" {
		role = DefaultRole
	}
	tree, err := s.repos.Reader(token).ListContentsRecursive(ctx, ref, "")
	if err != nil {
		return "", fmt.Errorf("chat tree: %w", err)
	}

	answer, err := s.llm.Complete(ctx, port.CompletionRequest{
		System:      prompt.ChatSystem,
		Prompt:      prompt.Chat(prompt.ChatInput{Role: role, Repo: ref, Tree: tree, Question: message}),
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	s.logger.Debug().Str("repo", ref.FullName()).Int("tree_entries", len(tree)).Msg("chat answered")
	return answer, nil
}
