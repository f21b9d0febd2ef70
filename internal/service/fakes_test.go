package service

import (
	"context"
	"strings"
	"sync"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
	"github.com/arturoeanton/go-repo-onboarding/internal/port"
)

// fakeReader serves canned repository data. A non-nil err fails every call.
type fakeReader struct {
	commits   []domain.CommitRecord
	files     map[string][]domain.FileChange // by SHA
	prs       []domain.PullRequest
	reviews   map[int][]domain.Review
	issues    []domain.Issue
	listing   []domain.ContentEntry
	tree      []domain.ContentEntry
	languages map[string]int
	workflows []domain.Workflow
	err       error

	mu       sync.Mutex
	enriched int
}

func (f *fakeReader) Details(context.Context, domain.RepoRef) (*domain.RepoDetails, error) {
	return &domain.RepoDetails{}, f.err
}
func (f *fakeReader) ListCommits(context.Context, domain.RepoRef) ([]domain.CommitRecord, error) {
	return f.commits, f.err
}
func (f *fakeReader) EnrichCommits(_ context.Context, _ domain.RepoRef, commits []domain.CommitRecord) ([]domain.CommitRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	f.enriched += len(commits)
	f.mu.Unlock()
	out := make([]domain.CommitRecord, len(commits))
	for i, c := range commits {
		c.Files = f.files[c.SHA]
		out[i] = c
	}
	return out, nil
}
func (f *fakeReader) ListPullRequests(context.Context, domain.RepoRef) ([]domain.PullRequest, error) {
	return f.prs, f.err
}
func (f *fakeReader) ListReviews(_ context.Context, _ domain.RepoRef, number int) ([]domain.Review, error) {
	return f.reviews[number], f.err
}
func (f *fakeReader) ListIssues(context.Context, domain.RepoRef) ([]domain.Issue, error) {
	return f.issues, f.err
}
func (f *fakeReader) ListContents(context.Context, domain.RepoRef, string) ([]domain.ContentEntry, error) {
	return f.listing, f.err
}
func (f *fakeReader) ListContentsRecursive(context.Context, domain.RepoRef, string) ([]domain.ContentEntry, error) {
	return f.tree, f.err
}
func (f *fakeReader) ListContributors(context.Context, domain.RepoRef) ([]domain.Contributor, error) {
	return nil, f.err
}
func (f *fakeReader) Languages(context.Context, domain.RepoRef) (map[string]int, error) {
	return f.languages, f.err
}
func (f *fakeReader) ListReleases(context.Context, domain.RepoRef) ([]domain.Release, error) {
	return nil, f.err
}
func (f *fakeReader) ListBranches(context.Context, domain.RepoRef) ([]domain.Branch, error) {
	return nil, f.err
}
func (f *fakeReader) ListTags(context.Context, domain.RepoRef) ([]domain.Tag, error) {
	return nil, f.err
}
func (f *fakeReader) ListWorkflows(context.Context, domain.RepoRef) ([]domain.Workflow, error) {
	return f.workflows, f.err
}
func (f *fakeReader) FetchSnapshot(_ context.Context, ref domain.RepoRef) (*domain.RepoSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.RepoSnapshot{Repo: ref, Commits: f.commits}, nil
}

// fakeProvider records which token each reader was requested with.
type fakeProvider struct {
	reader *fakeReader
	mu     sync.Mutex
	tokens []string
}

func (p *fakeProvider) Reader(token string) port.RepositoryReader {
	p.mu.Lock()
	p.tokens = append(p.tokens, token)
	p.mu.Unlock()
	return p.reader
}

// fakeLLM answers by the first rule whose needle appears in the prompt.
type fakeLLM struct {
	rules []llmRule
	err   error

	mu       sync.Mutex
	requests []port.CompletionRequest
}

type llmRule struct {
	needle string
	reply  string
}

func (f *fakeLLM) ModelName() string { return "fake" }

func (f *fakeLLM) Complete(_ context.Context, req port.CompletionRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	for _, r := range f.rules {
		if strings.Contains(req.Prompt, r.needle) {
			return r.reply, nil
		}
	}
	return "", nil
}

func (f *fakeLLM) requestContaining(needle string) (port.CompletionRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if strings.Contains(r.Prompt, needle) {
			return r, true
		}
	}
	return port.CompletionRequest{}, false
}

// sampleReader is a small repository with two hot files.
func sampleReader() *fakeReader {
	return &fakeReader{
		commits: []domain.CommitRecord{{SHA: "c1"}, {SHA: "c2"}, {SHA: "c3"}},
		files: map[string][]domain.FileChange{
			"c1": {{Filename: "a.ts", Additions: 10}},
			"c2": {{Filename: "a.ts", Additions: 5}},
			"c3": {{Filename: "b.ts", Additions: 100}},
		},
		prs: []domain.PullRequest{
			{Number: 1, Title: "Add linting", Body: "Adds eslint"},
			{Number: 2, Title: "Fix typo", Body: "docs"},
		},
		reviews: map[int][]domain.Review{
			1: {{Body: "Please use camelCase"}, {Body: "  "}},
			2: {{Body: "LGTM"}},
		},
		issues: []domain.Issue{
			{Number: 3, Title: "Bug"},
			{Number: 1, Title: "Add linting", IsPullRequest: true},
		},
		listing: []domain.ContentEntry{
			{Name: "src", Path: "src", Type: "dir"},
			{Name: "package.json", Path: "package.json", Type: "file"},
		},
		tree: []domain.ContentEntry{
			{Name: "src", Path: "src", Type: "dir"},
			{Name: "index.ts", Path: "src/index.ts", Type: "file"},
			{Name: "package.json", Path: "package.json", Type: "file"},
		},
		languages: map[string]int{"TypeScript": 900, "Python": 100},
		workflows: []domain.Workflow{{ID: 1, Name: "CI"}},
	}
}

// fakeUserStore keeps users in memory, keyed by GitHub ID.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*domain.User
	err   error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*domain.User)}
}

func (s *fakeUserStore) UpsertUser(_ context.Context, u domain.UserUpsert) (*domain.User, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[u.GitHubID]
	if !ok {
		existing = &domain.User{ID: "id-" + u.GitHubID, GitHubID: u.GitHubID, Name: domain.DefaultUserName, Email: domain.DefaultEmail(u.GitHubID)}
		s.users[u.GitHubID] = existing
	}
	if u.Name != "" {
		existing.Name = u.Name
	}
	if u.Email != "" {
		existing.Email = u.Email
	}
	if u.Login != "" {
		existing.Login = u.Login
	}
	if u.AccessToken != "" {
		existing.AccessToken = u.AccessToken
	}
	snapshot := *existing
	return &snapshot, !ok, nil
}

func (s *fakeUserStore) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			snapshot := *u
			return &snapshot, nil
		}
	}
	return nil, port.ErrUserNotFound
}

// fakeAuthProvider accepts the code "good".
type fakeAuthProvider struct{}

func (fakeAuthProvider) ProviderName() string         { return "github" }
func (fakeAuthProvider) AuthURL(state string) string { return "https://github.test/authorize?state=" + state }
func (fakeAuthProvider) ExchangeCode(_ context.Context, code string) (*domain.TokenPair, error) {
	if code != "good" {
		return nil, port.ErrTokenInvalid
	}
	return &domain.TokenPair{AccessToken: "gho_user"}, nil
}
func (fakeAuthProvider) GetUserProfile(_ context.Context, token string) (*domain.UserUpsert, error) {
	return &domain.UserUpsert{GitHubID: "42", Login: "octocat", Name: "Mona"}, nil
}
