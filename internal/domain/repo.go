package domain

import (
	"net/url"
	"regexp"
	"strings"
)

// RepoRef identifies a GitHub repository by owner and name.
type RepoRef struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// FullName returns "owner/repo".
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Repo
}

func (r RepoRef) String() string {
	return r.FullName()
}

// Owners follow GitHub login rules; repository names allow letters, digits,
// dot, dash and underscore.
const (
	ownerPart = `([A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?)`
	repoPart  = `([A-Za-z0-9._-]+)`
)

var (
	githubURLPattern = regexp.MustCompile(`(?i)^(?:https?://(?:www\.)?github\.com/|git@github\.com:|(?:www\.)?github\.com/)` +
		ownerPart + `/` + repoPart + `(?:[/#?].*)?$`)
	ownerRepoPattern = regexp.MustCompile(`^` + ownerPart + `/` + repoPart + `$`)
)

// ParseRepoRef normalizes a GitHub URL or an "owner/repo" string.
// A trailing ".git" is stripped from the repository name.
func ParseRepoRef(raw string) (RepoRef, error) {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, "%") {
		if unescaped, err := url.PathUnescape(s); err == nil {
			s = unescaped
		}
	}

	m := githubURLPattern.FindStringSubmatch(s)
	if m == nil {
		m = ownerRepoPattern.FindStringSubmatch(s)
	}
	if m == nil {
		return RepoRef{}, NewInvalidInput("%q is not a GitHub URL or owner/repo", raw)
	}

	ref := RepoRef{
		Owner: m[1],
		Repo:  strings.TrimSuffix(m[2], ".git"),
	}
	if ref.Repo == "" || ref.Repo == "." || ref.Repo == ".." {
		return RepoRef{}, NewInvalidInput("%q is not a GitHub URL or owner/repo", raw)
	}
	return ref, nil
}
