package vcs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
	"github.com/arturoeanton/go-repo-onboarding/internal/metrics"
	"github.com/arturoeanton/go-repo-onboarding/internal/port"
)

const perPage = 100

// GitHubConfig configures the REST client.
type GitHubConfig struct {
	// BaseURL overrides https://api.github.com/ (tests, GitHub Enterprise).
	BaseURL      string
	DefaultToken string
	// MaxTreeDepth bounds recursive content listing. The root listing is level 0.
	MaxTreeDepth int
	// DiffConcurrency bounds parallel per-commit requests.
	DiffConcurrency int
}

// GitHubProvider implements port.RepositoryProvider with go-github.
type GitHubProvider struct {
	client  *github.Client
	cfg     GitHubConfig
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewGitHubProvider creates a provider. httpClient may be nil.
func NewGitHubProvider(cfg GitHubConfig, httpClient *http.Client, logger zerolog.Logger, m *metrics.Metrics) (*GitHubProvider, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	client := github.NewClient(httpClient)
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse github base url: %w", err)
		}
		client.BaseURL = u
	}
	if cfg.MaxTreeDepth <= 0 {
		cfg.MaxTreeDepth = 8
	}
	if cfg.DiffConcurrency <= 0 {
		cfg.DiffConcurrency = 8
	}

	return &GitHubProvider{
		client:  client,
		cfg:     cfg,
		logger:  logger.With().Str("component", "github").Logger(),
		metrics: m,
	}, nil
}

// Reader returns a reader bound to token, or to the default token when empty.
func (p *GitHubProvider) Reader(token string) port.RepositoryReader {
	if token == "" {
		token = p.cfg.DefaultToken
	}
	client := p.client
	if token != "" {
		client = p.client.WithAuthToken(token)
	}
	return &githubReader{
		client:          client,
		maxTreeDepth:    p.cfg.MaxTreeDepth,
		diffConcurrency: p.cfg.DiffConcurrency,
		logger:          p.logger,
		metrics:         p.metrics,
	}
}

type githubReader struct {
	client          *github.Client
	maxTreeDepth    int
	diffConcurrency int
	logger          zerolog.Logger
	metrics         *metrics.Metrics
}

// paginate requests pages until the response has no next page. Any error
// discards what was already read.
func paginate[T any](r *githubReader, resource string, fetch func(opts github.ListOptions) ([]T, *github.Response, error)) ([]T, error) {
	all := []T{}
	opts := github.ListOptions{Page: 1, PerPage: perPage}
	for {
		start := time.Now()
		items, resp, err := fetch(opts)
		r.metrics.RecordUpstream("github", resource, metrics.Outcome(err), time.Since(start).Seconds())
		if err != nil {
			return nil, fetchError(resource, resp, err)
		}
		all = append(all, items...)
		if resp == nil || resp.NextPage == 0 {
			return all, nil
		}
		opts.Page = resp.NextPage
	}
}

// single wraps a non-paginated call with the same error and metrics handling.
func single[T any](r *githubReader, resource string, fetch func() (T, *github.Response, error)) (T, error) {
	start := time.Now()
	v, resp, err := fetch()
	r.metrics.RecordUpstream("github", resource, metrics.Outcome(err), time.Since(start).Seconds())
	if err != nil {
		var zero T
		return zero, fetchError(resource, resp, err)
	}
	return v, nil
}

func fetchError(resource string, resp *github.Response, err error) error {
	fe := &domain.UpstreamFetchError{Resource: resource, Err: err}
	if resp != nil && resp.Response != nil {
		fe.Status = resp.StatusCode
		if resp.Request != nil {
			fe.URL = resp.Request.URL.String()
		}
	}
	var ge *github.ErrorResponse
	if fe.Status == 0 && errors.As(err, &ge) && ge.Response != nil {
		fe.Status = ge.Response.StatusCode
		if ge.Response.Request != nil {
			fe.URL = ge.Response.Request.URL.String()
		}
	}
	var ue *url.Error
	if fe.URL == "" && errors.As(err, &ue) {
		fe.URL = ue.URL
	}
	return fe
}

func (r *githubReader) Details(ctx context.Context, ref domain.RepoRef) (*domain.RepoDetails, error) {
	repo, err := single(r, "details", func() (*github.Repository, *github.Response, error) {
		return r.client.Repositories.Get(ctx, ref.Owner, ref.Repo)
	})
	if err != nil {
		return nil, err
	}
	return &domain.RepoDetails{
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		DefaultBranch: repo.GetDefaultBranch(),
		Language:      repo.GetLanguage(),
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		OpenIssues:    repo.GetOpenIssuesCount(),
		Private:       repo.GetPrivate(),
		HTMLURL:       repo.GetHTMLURL(),
		CreatedAt:     repo.GetCreatedAt().Time,
		PushedAt:      repo.GetPushedAt().Time,
	}, nil
}

func (r *githubReader) ListCommits(ctx context.Context, ref domain.RepoRef) ([]domain.CommitRecord, error) {
	commits, err := paginate(r, "commits", func(opts github.ListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
		return r.client.Repositories.ListCommits(ctx, ref.Owner, ref.Repo, &github.CommitsListOptions{ListOptions: opts})
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.CommitRecord, 0, len(commits))
	for _, c := range commits {
		out = append(out, toCommitRecord(c))
	}
	r.logger.Debug().Str("repo", ref.FullName()).Int("count", len(out)).Msg("commits fetched")
	return out, nil
}

// EnrichCommits fetches file stats for each commit, one request per commit,
// with at most diffConcurrency requests in flight.
func (r *githubReader) EnrichCommits(ctx context.Context, ref domain.RepoRef, commits []domain.CommitRecord) ([]domain.CommitRecord, error) {
	out := make([]domain.CommitRecord, len(commits))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.diffConcurrency)
	for i, c := range commits {
		g.Go(func() error {
			rc, err := single(r, "commit", func() (*github.RepositoryCommit, *github.Response, error) {
				return r.client.Repositories.GetCommit(gctx, ref.Owner, ref.Repo, c.SHA, &github.ListOptions{PerPage: perPage})
			})
			if err != nil {
				return err
			}
			c.Files = toFileChanges(rc.Files)
			out[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *githubReader) ListPullRequests(ctx context.Context, ref domain.RepoRef) ([]domain.PullRequest, error) {
	prs, err := paginate(r, "pulls", func(opts github.ListOptions) ([]*github.PullRequest, *github.Response, error) {
		return r.client.PullRequests.List(ctx, ref.Owner, ref.Repo, &github.PullRequestListOptions{State: "all", ListOptions: opts})
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.PullRequest, 0, len(prs))
	for _, pr := range prs {
		out = append(out, toPullRequest(pr))
	}
	return out, nil
}

func (r *githubReader) ListReviews(ctx context.Context, ref domain.RepoRef, number int) ([]domain.Review, error) {
	reviews, err := paginate(r, "reviews", func(opts github.ListOptions) ([]*github.PullRequestReview, *github.Response, error) {
		return r.client.PullRequests.ListReviews(ctx, ref.Owner, ref.Repo, number, &opts)
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, domain.Review{
			Author: rv.GetUser().GetLogin(),
			State:  rv.GetState(),
			Body:   rv.GetBody(),
		})
	}
	return out, nil
}

func (r *githubReader) ListIssues(ctx context.Context, ref domain.RepoRef) ([]domain.Issue, error) {
	issues, err := paginate(r, "issues", func(opts github.ListOptions) ([]*github.Issue, *github.Response, error) {
		return r.client.Issues.ListByRepo(ctx, ref.Owner, ref.Repo, &github.IssueListByRepoOptions{State: "all", ListOptions: opts})
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Issue, 0, len(issues))
	for _, is := range issues {
		out = append(out, toIssue(is))
	}
	return out, nil
}

func (r *githubReader) ListContents(ctx context.Context, ref domain.RepoRef, path string) ([]domain.ContentEntry, error) {
	start := time.Now()
	file, dir, resp, err := r.client.Repositories.GetContents(ctx, ref.Owner, ref.Repo, path, nil)
	r.metrics.RecordUpstream("github", "contents", metrics.Outcome(err), time.Since(start).Seconds())
	if err != nil {
		return nil, fetchError("contents", resp, err)
	}
	if file != nil {
		return []domain.ContentEntry{toContentEntry(file)}, nil
	}
	out := make([]domain.ContentEntry, 0, len(dir))
	for _, c := range dir {
		out = append(out, toContentEntry(c))
	}
	return out, nil
}

// ListContentsRecursive lists path and every directory below it depth-first:
// each directory entry is followed by its children before the next sibling.
func (r *githubReader) ListContentsRecursive(ctx context.Context, ref domain.RepoRef, path string) ([]domain.ContentEntry, error) {
	return r.walk(ctx, ref, path, 0)
}

func (r *githubReader) walk(ctx context.Context, ref domain.RepoRef, path string, depth int) ([]domain.ContentEntry, error) {
	entries, err := r.ListContents(ctx, ref, path)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ContentEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
		if !e.IsDir() {
			continue
		}
		if depth+1 >= r.maxTreeDepth {
			r.logger.Debug().Str("repo", ref.FullName()).Str("path", e.Path).Msg("tree depth limit reached")
			continue
		}
		children, err := r.walk(ctx, ref, e.Path, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, children...)
	}
	return out, nil
}

func (r *githubReader) ListContributors(ctx context.Context, ref domain.RepoRef) ([]domain.Contributor, error) {
	contributors, err := paginate(r, "contributors", func(opts github.ListOptions) ([]*github.Contributor, *github.Response, error) {
		return r.client.Repositories.ListContributors(ctx, ref.Owner, ref.Repo, &github.ListContributorsOptions{ListOptions: opts})
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Contributor, 0, len(contributors))
	for _, c := range contributors {
		out = append(out, domain.Contributor{Login: c.GetLogin(), Contributions: c.GetContributions()})
	}
	return out, nil
}

func (r *githubReader) Languages(ctx context.Context, ref domain.RepoRef) (map[string]int, error) {
	langs, err := single(r, "languages", func() (map[string]int, *github.Response, error) {
		return r.client.Repositories.ListLanguages(ctx, ref.Owner, ref.Repo)
	})
	if err != nil {
		return nil, err
	}
	if langs == nil {
		langs = map[string]int{}
	}
	return langs, nil
}

func (r *githubReader) ListReleases(ctx context.Context, ref domain.RepoRef) ([]domain.Release, error) {
	releases, err := paginate(r, "releases", func(opts github.ListOptions) ([]*github.RepositoryRelease, *github.Response, error) {
		return r.client.Repositories.ListReleases(ctx, ref.Owner, ref.Repo, &opts)
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Release, 0, len(releases))
	for _, rel := range releases {
		out = append(out, domain.Release{
			TagName:     rel.GetTagName(),
			Name:        rel.GetName(),
			Prerelease:  rel.GetPrerelease(),
			PublishedAt: rel.GetPublishedAt().Time,
		})
	}
	return out, nil
}

func (r *githubReader) ListBranches(ctx context.Context, ref domain.RepoRef) ([]domain.Branch, error) {
	branches, err := paginate(r, "branches", func(opts github.ListOptions) ([]*github.Branch, *github.Response, error) {
		return r.client.Repositories.ListBranches(ctx, ref.Owner, ref.Repo, &github.BranchListOptions{ListOptions: opts})
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Branch, 0, len(branches))
	for _, b := range branches {
		out = append(out, domain.Branch{Name: b.GetName(), Protected: b.GetProtected()})
	}
	return out, nil
}

func (r *githubReader) ListTags(ctx context.Context, ref domain.RepoRef) ([]domain.Tag, error) {
	tags, err := paginate(r, "tags", func(opts github.ListOptions) ([]*github.RepositoryTag, *github.Response, error) {
		return r.client.Repositories.ListTags(ctx, ref.Owner, ref.Repo, &opts)
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, domain.Tag{Name: t.GetName(), SHA: t.GetCommit().GetSHA()})
	}
	return out, nil
}

func (r *githubReader) ListWorkflows(ctx context.Context, ref domain.RepoRef) ([]domain.Workflow, error) {
	workflows, err := paginate(r, "workflows", func(opts github.ListOptions) ([]*github.Workflow, *github.Response, error) {
		wf, resp, err := r.client.Actions.ListWorkflows(ctx, ref.Owner, ref.Repo, &opts)
		if err != nil {
			return nil, resp, err
		}
		return wf.Workflows, resp, nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Workflow, 0, len(workflows))
	for _, w := range workflows {
		out = append(out, domain.Workflow{ID: w.GetID(), Name: w.GetName(), Path: w.GetPath(), State: w.GetState()})
	}
	return out, nil
}

// FetchSnapshot fetches all eleven resources in parallel. The first failure
// cancels the rest and no partial snapshot is returned.
func (r *githubReader) FetchSnapshot(ctx context.Context, ref domain.RepoRef) (*domain.RepoSnapshot, error) {
	snap := &domain.RepoSnapshot{Repo: ref}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d, err := r.Details(gctx, ref)
		if err == nil {
			snap.Details = *d
		}
		return err
	})
	g.Go(func() (err error) { snap.Commits, err = r.ListCommits(gctx, ref); return })
	g.Go(func() (err error) { snap.PullRequests, err = r.ListPullRequests(gctx, ref); return })
	g.Go(func() (err error) { snap.Issues, err = r.ListIssues(gctx, ref); return })
	g.Go(func() (err error) { snap.Contents, err = r.ListContents(gctx, ref, ""); return })
	g.Go(func() (err error) { snap.Contributors, err = r.ListContributors(gctx, ref); return })
	g.Go(func() (err error) { snap.Languages, err = r.Languages(gctx, ref); return })
	g.Go(func() (err error) { snap.Releases, err = r.ListReleases(gctx, ref); return })
	g.Go(func() (err error) { snap.Branches, err = r.ListBranches(gctx, ref); return })
	g.Go(func() (err error) { snap.Tags, err = r.ListTags(gctx, ref); return })
	g.Go(func() (err error) { snap.Workflows, err = r.ListWorkflows(gctx, ref); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// --- conversions ---

func toCommitRecord(c *github.RepositoryCommit) domain.CommitRecord {
	author := c.GetAuthor().GetLogin()
	if author == "" {
		author = c.GetCommit().GetAuthor().GetName()
	}
	return domain.CommitRecord{
		SHA:     c.GetSHA(),
		Message: c.GetCommit().GetMessage(),
		Author:  author,
		Date:    c.GetCommit().GetAuthor().GetDate().Time,
		HTMLURL: c.GetHTMLURL(),
		Files:   toFileChanges(c.Files),
	}
}

func toFileChanges(files []*github.CommitFile) []domain.FileChange {
	if len(files) == 0 {
		return nil
	}
	out := make([]domain.FileChange, 0, len(files))
	for _, f := range files {
		out = append(out, domain.FileChange{
			Filename:  f.GetFilename(),
			Status:    f.GetStatus(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
		})
	}
	return out
}

func toPullRequest(pr *github.PullRequest) domain.PullRequest {
	out := domain.PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		Body:      pr.GetBody(),
		State:     pr.GetState(),
		Author:    pr.GetUser().GetLogin(),
		HTMLURL:   pr.GetHTMLURL(),
		CreatedAt: pr.GetCreatedAt().Time,
	}
	if pr.MergedAt != nil {
		merged := pr.GetMergedAt().Time
		out.MergedAt = &merged
	}
	return out
}

func toIssue(is *github.Issue) domain.Issue {
	labels := make([]string, 0, len(is.Labels))
	for _, l := range is.Labels {
		labels = append(labels, l.GetName())
	}
	return domain.Issue{
		Number:        is.GetNumber(),
		Title:         is.GetTitle(),
		State:         is.GetState(),
		Author:        is.GetUser().GetLogin(),
		Labels:        labels,
		Comments:      is.GetComments(),
		IsPullRequest: is.IsPullRequest(),
		HTMLURL:       is.GetHTMLURL(),
		CreatedAt:     is.GetCreatedAt().Time,
	}
}

func toContentEntry(c *github.RepositoryContent) domain.ContentEntry {
	return domain.ContentEntry{
		Name:        c.GetName(),
		Path:        c.GetPath(),
		Type:        c.GetType(),
		Size:        c.GetSize(),
		DownloadURL: c.GetDownloadURL(),
	}
}
