package domain

// FileChangeStat accumulates per-file activity across commits.
type FileChangeStat struct {
	Filename  string `json:"filename"`
	Changes   int    `json:"changes"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// Hotspot is a file ranked by its change-weighted score.
type Hotspot struct {
	File      string  `json:"file"`
	Score     float64 `json:"score"`
	Changes   int     `json:"changes"`
	Additions int     `json:"additions,omitempty"`
	Deletions int     `json:"deletions,omitempty"`
}

// LanguageStat is one language's share of the repository bytes.
type LanguageStat struct {
	Name       string `json:"name"`
	Percentage string `json:"percentage"`
	Bytes      int    `json:"bytes"`
}

// ProjectStats counts repository activity.
type ProjectStats struct {
	Commits      int `json:"commits"`
	PullRequests int `json:"pullRequests"`
	Issues       int `json:"issues"`
	Workflows    int `json:"workflows"`
}

// AnalysisResult is the artifact shared by insights, chat and assessments.
type AnalysisResult struct {
	Repo            RepoRef        `json:"repo"`
	Role            string         `json:"role"`
	Hotspots        []Hotspot      `json:"hotspots"`
	Summary         string         `json:"summary"`
	Recommendations []string       `json:"recommendations"`
	LanguageStats   []LanguageStat `json:"languageStats"`
	ProjectStats    ProjectStats   `json:"projectStats"`
}

// PrimaryLanguages returns up to n language names, largest first.
func (a *AnalysisResult) PrimaryLanguages(n int) []string {
	names := make([]string, 0, n)
	for i, l := range a.LanguageStats {
		if i == n {
			break
		}
		names = append(names, l.Name)
	}
	return names
}

// Convention is a team practice inferred from pull-request reviews.
type Convention struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Examples    []string `json:"examples"`
	Source      string   `json:"source"`
}
