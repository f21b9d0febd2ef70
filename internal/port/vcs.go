package port

import (
	"context"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
)

// RepositoryReader reads repository data from the hosting provider with a
// fixed credential. List operations return every page or fail as a whole.
type RepositoryReader interface {
	Details(ctx context.Context, ref domain.RepoRef) (*domain.RepoDetails, error)
	ListCommits(ctx context.Context, ref domain.RepoRef) ([]domain.CommitRecord, error)
	// EnrichCommits fills Files on each commit, preserving order.
	EnrichCommits(ctx context.Context, ref domain.RepoRef, commits []domain.CommitRecord) ([]domain.CommitRecord, error)
	ListPullRequests(ctx context.Context, ref domain.RepoRef) ([]domain.PullRequest, error)
	ListReviews(ctx context.Context, ref domain.RepoRef, number int) ([]domain.Review, error)
	ListIssues(ctx context.Context, ref domain.RepoRef) ([]domain.Issue, error)
	// ListContents lists a single directory ("" is the repository root).
	ListContents(ctx context.Context, ref domain.RepoRef, path string) ([]domain.ContentEntry, error)
	// ListContentsRecursive walks the tree depth-first from path.
	ListContentsRecursive(ctx context.Context, ref domain.RepoRef, path string) ([]domain.ContentEntry, error)
	ListContributors(ctx context.Context, ref domain.RepoRef) ([]domain.Contributor, error)
	Languages(ctx context.Context, ref domain.RepoRef) (map[string]int, error)
	ListReleases(ctx context.Context, ref domain.RepoRef) ([]domain.Release, error)
	ListBranches(ctx context.Context, ref domain.RepoRef) ([]domain.Branch, error)
	ListTags(ctx context.Context, ref domain.RepoRef) ([]domain.Tag, error)
	ListWorkflows(ctx context.Context, ref domain.RepoRef) ([]domain.Workflow, error)
	// FetchSnapshot fetches every resource concurrently; any failure fails the whole call.
	FetchSnapshot(ctx context.Context, ref domain.RepoRef) (*domain.RepoSnapshot, error)
}

// RepositoryProvider hands out readers bound to a credential. An empty token
// selects the server's default credential.
type RepositoryProvider interface {
	Reader(token string) RepositoryReader
}
