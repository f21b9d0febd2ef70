package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
	"github.com/arturoeanton/go-repo-onboarding/internal/port"
)

// RepoService exposes raw repository data: file trees and activity lists.
type RepoService struct {
	repos  port.RepositoryProvider
	logger zerolog.Logger
}

// NewRepoService creates a new repository service.
func NewRepoService(repos port.RepositoryProvider, logger zerolog.Logger) *RepoService {
	return &RepoService{repos: repos, logger: logger.With().Str("component", "repo").Logger()}
}

// Structure returns every entry of the repository, depth-first.
func (s *RepoService) Structure(ctx context.Context, token string, ref domain.RepoRef) ([]domain.ContentEntry, error) {
	entries, err := s.repos.Reader(token).ListContentsRecursive(ctx, ref, "")
	if err != nil {
		return nil, fmt.Errorf("structure: %w", err)
	}
	return entries, nil
}

// Tree lists a single directory ("" is the root).
func (s *RepoService) Tree(ctx context.Context, token string, ref domain.RepoRef, path string) ([]domain.ContentEntry, error) {
	entries, err := s.repos.Reader(token).ListContents(ctx, ref, path)
	if err != nil {
		return nil, fmt.Errorf("tree: %w", err)
	}
	return entries, nil
}

// Commits lists every commit, newest first.
func (s *RepoService) Commits(ctx context.Context, token string, ref domain.RepoRef) ([]domain.CommitRecord, error) {
	commits, err := s.repos.Reader(token).ListCommits(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("commits: %w", err)
	}
	return commits, nil
}

// PullRequests lists open and closed pull requests.
func (s *RepoService) PullRequests(ctx context.Context, token string, ref domain.RepoRef) ([]domain.PullRequest, error) {
	prs, err := s.repos.Reader(token).ListPullRequests(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("pull requests: %w", err)
	}
	return prs, nil
}

// Issues lists open and closed issues.
func (s *RepoService) Issues(ctx context.Context, token string, ref domain.RepoRef) ([]domain.Issue, error) {
	issues, err := s.repos.Reader(token).ListIssues(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("issues: %w", err)
	}
	return issues, nil
}

// Snapshot fetches every resource of the repository at once.
func (s *RepoService) Snapshot(ctx context.Context, token string, ref domain.RepoRef) (*domain.RepoSnapshot, error) {
	snap, err := s.repos.Reader(token).FetchSnapshot(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	s.logger.Debug().
		Str("repo", ref.FullName()).
		Int("commits", len(snap.Commits)).
		Int("contributors", len(snap.Contributors)).
		Msg("snapshot fetched")
	return snap, nil
}
