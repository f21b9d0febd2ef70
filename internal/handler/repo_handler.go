package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
	"github.com/arturoeanton/go-repo-onboarding/internal/middleware"
)

// RepositoryData reads raw repository data.
type RepositoryData interface {
	Structure(ctx context.Context, token string, ref domain.RepoRef) ([]domain.ContentEntry, error)
	Tree(ctx context.Context, token string, ref domain.RepoRef, path string) ([]domain.ContentEntry, error)
	Commits(ctx context.Context, token string, ref domain.RepoRef) ([]domain.CommitRecord, error)
	PullRequests(ctx context.Context, token string, ref domain.RepoRef) ([]domain.PullRequest, error)
	Issues(ctx context.Context, token string, ref domain.RepoRef) ([]domain.Issue, error)
	Snapshot(ctx context.Context, token string, ref domain.RepoRef) (*domain.RepoSnapshot, error)
}

const missingURLMessage = `Missing or invalid "url" query parameter`

// RepoHandler serves file trees and raw activity lists.
type RepoHandler struct {
	repos  RepositoryData
	tokens TokenSource
	logger zerolog.Logger
}

// NewRepoHandler creates a new repo handler.
func NewRepoHandler(repos RepositoryData, tokens TokenSource, logger zerolog.Logger) *RepoHandler {
	return &RepoHandler{
		repos:  repos,
		tokens: tokens,
		logger: logger.With().Str("component", "repo_handler").Logger(),
	}
}

// Register sets up repository routes. File trees need a session; the
// fetch_repo_* endpoints read with the server credential.
func (h *RepoHandler) Register(router fiber.Router, session fiber.Handler) {
	repo := router.Group("/repo", session)
	repo.Get("/structure", h.Structure)
	repo.Get("/tree", h.Tree)

	router.Get("/fetch_repo_commits", h.FetchCommits)
	router.Get("/fetch_repo_prs", h.FetchPullRequests)
	router.Get("/fetch_repo_issues", h.FetchIssues)
	router.Get("/fetch_repo_data", h.FetchData)
}

// Structure returns every entry of the repository, depth-first.
func (h *RepoHandler) Structure(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	ref, err := parseRepo(c.Query("repo"))
	if err != nil {
		return respondError(c, h.logger, "repo.structure", c.Query("repo"), err)
	}

	entries, err := h.repos.Structure(c.Context(), h.tokens.GitHubToken(c.Context(), uc), ref)
	if err != nil {
		return respondError(c, h.logger, "repo.structure", ref.FullName(), err)
	}
	return c.JSON(entries)
}

// Tree lists one directory, the root unless ?path= is given.
func (h *RepoHandler) Tree(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	ref, err := parseRepo(c.Query("repo"))
	if err != nil {
		return respondError(c, h.logger, "repo.tree", c.Query("repo"), err)
	}

	entries, err := h.repos.Tree(c.Context(), h.tokens.GitHubToken(c.Context(), uc), ref, c.Query("path"))
	if err != nil {
		return respondError(c, h.logger, "repo.tree", ref.FullName(), err)
	}
	return c.JSON(fiber.Map{"tree": entries})
}

func (h *RepoHandler) urlParam(c fiber.Ctx) (domain.RepoRef, error) {
	raw := c.Query("url")
	if raw == "" {
		return domain.RepoRef{}, newBadRequest(missingURLMessage)
	}
	ref, err := domain.ParseRepoRef(raw)
	if err != nil {
		return domain.RepoRef{}, &badRequest{msg: missingURLMessage, err: err}
	}
	return ref, nil
}

// FetchCommits lists every commit.
func (h *RepoHandler) FetchCommits(c fiber.Ctx) error {
	ref, err := h.urlParam(c)
	if err != nil {
		return respondError(c, h.logger, "fetch.commits", c.Query("url"), err)
	}
	commits, err := h.repos.Commits(c.Context(), "", ref)
	if err != nil {
		return respondError(c, h.logger, "fetch.commits", ref.FullName(), err)
	}
	return c.JSON(commits)
}

// FetchPullRequests lists every pull request.
func (h *RepoHandler) FetchPullRequests(c fiber.Ctx) error {
	ref, err := h.urlParam(c)
	if err != nil {
		return respondError(c, h.logger, "fetch.prs", c.Query("url"), err)
	}
	prs, err := h.repos.PullRequests(c.Context(), "", ref)
	if err != nil {
		return respondError(c, h.logger, "fetch.prs", ref.FullName(), err)
	}
	return c.JSON(prs)
}

// FetchIssues lists every issue.
func (h *RepoHandler) FetchIssues(c fiber.Ctx) error {
	ref, err := h.urlParam(c)
	if err != nil {
		return respondError(c, h.logger, "fetch.issues", c.Query("url"), err)
	}
	issues, err := h.repos.Issues(c.Context(), "", ref)
	if err != nil {
		return respondError(c, h.logger, "fetch.issues", ref.FullName(), err)
	}
	return c.JSON(issues)
}

// FetchData returns the full repository snapshot.
func (h *RepoHandler) FetchData(c fiber.Ctx) error {
	ref, err := h.urlParam(c)
	if err != nil {
		return respondError(c, h.logger, "fetch.data", c.Query("url"), err)
	}
	snap, err := h.repos.Snapshot(c.Context(), "", ref)
	if err != nil {
		return respondError(c, h.logger, "fetch.data", ref.FullName(), err)
	}
	return c.JSON(snap)
}
