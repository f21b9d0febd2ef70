package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
)

// HotspotMode selects the scoring formula.
type HotspotMode string

const (
	// HotspotBasic scores a file by how many commits touched it.
	HotspotBasic HotspotMode = "basic"
	// HotspotEnhanced damps the change count by diff size:
	// changes * ln(additions + deletions + 1).
	HotspotEnhanced HotspotMode = "enhanced"
)

// MaxHotspots is the length of the ranked list.
const MaxHotspots = 10

// AggregateHotspots accumulates per-file stats over commits and returns the
// top files by score. Ties keep first-occurrence order. Never returns nil.
func AggregateHotspots(commits []domain.CommitRecord, mode HotspotMode) []domain.Hotspot {
	var order []string
	stats := make(map[string]*domain.FileChangeStat)
	for _, c := range commits {
		for _, f := range c.Files {
			s, ok := stats[f.Filename]
			if !ok {
				s = &domain.FileChangeStat{Filename: f.Filename}
				stats[f.Filename] = s
				order = append(order, f.Filename)
			}
			s.Changes++
			s.Additions += f.Additions
			s.Deletions += f.Deletions
		}
	}

	hotspots := make([]domain.Hotspot, 0, len(order))
	for _, name := range order {
		s := stats[name]
		h := domain.Hotspot{File: name, Changes: s.Changes, Score: float64(s.Changes)}
		if mode == HotspotEnhanced {
			h.Score = float64(s.Changes) * math.Log(float64(s.Additions+s.Deletions+1))
			h.Additions = s.Additions
			h.Deletions = s.Deletions
		}
		hotspots = append(hotspots, h)
	}

	sort.SliceStable(hotspots, func(i, j int) bool {
		return hotspots[i].Score > hotspots[j].Score
	})
	if len(hotspots) > MaxHotspots {
		hotspots = hotspots[:MaxHotspots]
	}
	return hotspots
}

// ComputeLanguageStats converts a bytes-per-language map into percentages,
// largest first (name ascending on ties). A map with no bytes yields an
// empty slice.
func ComputeLanguageStats(languages map[string]int) []domain.LanguageStat {
	total := 0
	for _, n := range languages {
		if n > 0 {
			total += n
		}
	}
	stats := make([]domain.LanguageStat, 0, len(languages))
	if total == 0 {
		return stats
	}

	for name, n := range languages {
		if n <= 0 {
			continue
		}
		stats = append(stats, domain.LanguageStat{
			Name:       name,
			Bytes:      n,
			Percentage: fmt.Sprintf("%.2f", float64(n)/float64(total)*100),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Bytes != stats[j].Bytes {
			return stats[i].Bytes > stats[j].Bytes
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}
