package domain

import "time"

// RepoDetails is the subset of repository metadata the pipeline consumes.
type RepoDetails struct {
	FullName      string    `json:"fullName"`
	Description   string    `json:"description"`
	DefaultBranch string    `json:"defaultBranch"`
	Language      string    `json:"language"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	OpenIssues    int       `json:"openIssues"`
	Private       bool      `json:"private"`
	HTMLURL       string    `json:"htmlUrl"`
	CreatedAt     time.Time `json:"createdAt"`
	PushedAt      time.Time `json:"pushedAt"`
}

// FileChange is one file touched by a commit.
type FileChange struct {
	Filename  string `json:"filename"`
	Status    string `json:"status,omitempty"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// CommitRecord is a commit as listed by the provider. Files is only
// populated after per-commit enrichment.
type CommitRecord struct {
	SHA     string       `json:"sha"`
	Message string       `json:"message"`
	Author  string       `json:"author"`
	Date    time.Time    `json:"date"`
	HTMLURL string       `json:"htmlUrl,omitempty"`
	Files   []FileChange `json:"files,omitempty"`
}

type PullRequest struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	State     string     `json:"state"`
	Author    string     `json:"author"`
	HTMLURL   string     `json:"htmlUrl"`
	CreatedAt time.Time  `json:"createdAt"`
	MergedAt  *time.Time `json:"mergedAt,omitempty"`
}

type Review struct {
	Author string `json:"author"`
	State  string `json:"state"`
	Body   string `json:"body"`
}

// Issue as listed by the issues API. GitHub reports pull requests there too;
// IsPullRequest marks them.
type Issue struct {
	Number        int       `json:"number"`
	Title         string    `json:"title"`
	State         string    `json:"state"`
	Author        string    `json:"author"`
	Labels        []string  `json:"labels,omitempty"`
	Comments      int       `json:"comments"`
	IsPullRequest bool      `json:"isPullRequest"`
	HTMLURL       string    `json:"htmlUrl"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ContentEntry is a file or directory from the contents API.
type ContentEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	Size        int    `json:"size,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
}

// IsDir reports whether the entry is a directory.
func (e ContentEntry) IsDir() bool { return e.Type == "dir" }

type Contributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
}

type Release struct {
	TagName     string    `json:"tagName"`
	Name        string    `json:"name"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"publishedAt"`
}

type Branch struct {
	Name      string `json:"name"`
	Protected bool   `json:"protected"`
}

type Tag struct {
	Name string `json:"name"`
	SHA  string `json:"sha"`
}

type Workflow struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Path  string `json:"path"`
	State string `json:"state"`
}

// RepoSnapshot bundles every resource fetched for one repository.
type RepoSnapshot struct {
	Repo         RepoRef        `json:"repo"`
	Details      RepoDetails    `json:"details"`
	Commits      []CommitRecord `json:"commits"`
	PullRequests []PullRequest  `json:"pullRequests"`
	Issues       []Issue        `json:"issues"`
	Contents     []ContentEntry `json:"contents"`
	Contributors []Contributor  `json:"contributors"`
	Languages    map[string]int `json:"languages"`
	Releases     []Release      `json:"releases"`
	Branches     []Branch       `json:"branches"`
	Tags         []Tag          `json:"tags"`
	Workflows    []Workflow     `json:"workflows"`
}
