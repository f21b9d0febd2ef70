package service

import (
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
)

func commitTouching(files ...domain.FileChange) domain.CommitRecord {
	return domain.CommitRecord{SHA: "sha", Files: files}
}

func TestAggregateHotspots_EnhancedDampsLargeDiffs(t *testing.T) {
	commits := []domain.CommitRecord{
		commitTouching(domain.FileChange{Filename: "a.ts", Additions: 10}),
		commitTouching(domain.FileChange{Filename: "a.ts", Additions: 5}),
		commitTouching(domain.FileChange{Filename: "b.ts", Additions: 100}),
	}

	got := AggregateHotspots(commits, HotspotEnhanced)
	require.Len(t, got, 2)

	assert.Equal(t, "a.ts", got[0].File)
	assert.InDelta(t, 2*math.Log(16), got[0].Score, 1e-9)
	assert.Equal(t, 2, got[0].Changes)
	assert.Equal(t, 15, got[0].Additions)

	assert.Equal(t, "b.ts", got[1].File)
	assert.InDelta(t, math.Log(101), got[1].Score, 1e-9)
}

func TestAggregateHotspots_Basic(t *testing.T) {
	commits := []domain.CommitRecord{
		commitTouching(domain.FileChange{Filename: "x.go"}, domain.FileChange{Filename: "y.go"}),
		commitTouching(domain.FileChange{Filename: "y.go", Additions: 50}),
	}

	got := AggregateHotspots(commits, HotspotBasic)
	require.Len(t, got, 2)
	assert.Equal(t, domain.Hotspot{File: "y.go", Score: 2, Changes: 2}, got[0])
	assert.Equal(t, domain.Hotspot{File: "x.go", Score: 1, Changes: 1}, got[1])
}

func TestAggregateHotspots_TiesKeepFirstOccurrence(t *testing.T) {
	commits := []domain.CommitRecord{
		commitTouching(domain.FileChange{Filename: "c"}, domain.FileChange{Filename: "a"}, domain.FileChange{Filename: "b"}),
	}
	got := AggregateHotspots(commits, HotspotBasic)
	assert.Equal(t, "c", got[0].File)
	assert.Equal(t, "a", got[1].File)
	assert.Equal(t, "b", got[2].File)
}

func TestAggregateHotspots_TopTenNonIncreasing(t *testing.T) {
	var commits []domain.CommitRecord
	for i := 0; i < 25; i++ {
		var files []domain.FileChange
		for j := 0; j <= i%7; j++ {
			files = append(files, domain.FileChange{Filename: fmt.Sprintf("f%d.go", (i+j)%15), Additions: i, Deletions: j})
		}
		commits = append(commits, commitTouching(files...))
	}

	for _, mode := range []HotspotMode{HotspotBasic, HotspotEnhanced} {
		got := AggregateHotspots(commits, mode)
		assert.LessOrEqual(t, len(got), MaxHotspots)
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score, "%s: ranked out of order at %d", mode, i)
		}
		for _, h := range got {
			assert.False(t, math.IsNaN(h.Score))
		}
	}
}

func TestAggregateHotspots_Empty(t *testing.T) {
	got := AggregateHotspots(nil, HotspotEnhanced)
	require.NotNil(t, got)
	assert.Empty(t, got)

	// commits without file data
	got = AggregateHotspots([]domain.CommitRecord{{SHA: "a"}}, HotspotEnhanced)
	assert.Empty(t, got)
}

func TestAggregateHotspots_ZeroSizedDiffScoresZero(t *testing.T) {
	got := AggregateHotspots([]domain.CommitRecord{commitTouching(domain.FileChange{Filename: "empty"})}, HotspotEnhanced)
	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].Score)
}

func TestComputeLanguageStats(t *testing.T) {
	got := ComputeLanguageStats(map[string]int{"Go": 700, "Shell": 200, "Makefile": 100, "Awk": 100})
	require.Len(t, got, 4)
	assert.Equal(t, domain.LanguageStat{Name: "Go", Percentage: "63.64", Bytes: 700}, got[0])
	assert.Equal(t, "Shell", got[1].Name)
	assert.Equal(t, "Awk", got[2].Name, "ties sort by name")
	assert.Equal(t, "Makefile", got[3].Name)
}

func TestComputeLanguageStats_SumsToHundred(t *testing.T) {
	inputs := []map[string]int{
		{"Go": 1},
		{"Go": 1, "C": 1, "Rust": 1},
		{"TypeScript": 123456, "CSS": 7890, "HTML": 321, "JavaScript": 17},
	}
	for _, in := range inputs {
		sum := 0.0
		for _, s := range ComputeLanguageStats(in) {
			p, err := strconv.ParseFloat(s.Percentage, 64)
			require.NoError(t, err)
			sum += p
		}
		assert.InDelta(t, 100, sum, 0.5)
	}
}

func TestComputeLanguageStats_Empty(t *testing.T) {
	assert.Empty(t, ComputeLanguageStats(nil))
	got := ComputeLanguageStats(map[string]int{"Go": 0})
	require.NotNil(t, got)
	assert.Empty(t, got)
}
