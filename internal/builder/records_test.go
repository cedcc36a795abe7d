package builder

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IgorBayerl/showcov/internal/model"
)

func TestMergeStatements(t *testing.T) {
	t.Run("MaxHitsWins", func(t *testing.T) {
		records := []model.Record{
			{File: "a.py", Line: 10, Hits: 0},
			{File: "a.py", Line: 10, Hits: 3},
			{File: "a.py", Line: 10, Hits: 1},
		}
		got := MergeStatements("a.py", records)
		assert.Equal(t, []StatementLine{{Line: 10, Hits: 3}}, got)
	})

	t.Run("OtherFilesIgnored", func(t *testing.T) {
		records := []model.Record{
			{File: "a.py", Line: 1, Hits: 1},
			{File: "b.py", Line: 1, Hits: 9},
		}
		got := MergeStatements("a.py", records)
		assert.Equal(t, []StatementLine{{Line: 1, Hits: 1}}, got)
	})

	t.Run("OrderedByLine", func(t *testing.T) {
		records := []model.Record{
			{File: "a.py", Line: 30, Hits: 0},
			{File: "a.py", Line: 10, Hits: 2},
			{File: "a.py", Line: 20, Hits: 0},
		}
		got := MergeStatements("a.py", records)
		want := []StatementLine{{Line: 10, Hits: 2}, {Line: 20, Hits: 0}, {Line: 30, Hits: 0}}
		assert.Equal(t, want, got)
	})

	t.Run("OrderIndependent", func(t *testing.T) {
		records := []model.Record{
			{File: "a.py", Line: 1, Hits: 0},
			{File: "a.py", Line: 1, Hits: 5},
			{File: "a.py", Line: 2, Hits: 2},
			{File: "a.py", Line: 3, Hits: 0},
		}
		want := MergeStatements("a.py", records)

		rng := rand.New(rand.NewSource(1))
		for i := 0; i < 20; i++ {
			shuffled := append([]model.Record(nil), records...)
			rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
			got := MergeStatements("a.py", shuffled)
			require.Empty(t, cmp.Diff(want, got), "shuffle %d changed the merge result", i)
		}
	})

	t.Run("CoverageMonotonicUnderMoreRecords", func(t *testing.T) {
		base := []model.Record{
			{File: "a.py", Line: 1, Hits: 0},
			{File: "a.py", Line: 2, Hits: 1},
		}
		more := append(append([]model.Record(nil), base...),
			model.Record{File: "a.py", Line: 1, Hits: 4},
			model.Record{File: "a.py", Line: 2, Hits: 0},
		)

		before := MergeStatements("a.py", base)
		after := MergeStatements("a.py", more)
		require.Len(t, after, len(before))
		for i := range before {
			assert.GreaterOrEqual(t, after[i].Hits, before[i].Hits,
				"line %d lost hits after adding records", before[i].Line)
		}
	})
}

func TestMergeBranches(t *testing.T) {
	t.Run("LargestTotalWins", func(t *testing.T) {
		records := []model.Record{
			{File: "a.py", Line: 5, BranchCounts: &model.BranchCounts{Covered: 1, Total: 2}},
			{File: "a.py", Line: 5, BranchCounts: &model.BranchCounts{Covered: 2, Total: 4}},
		}
		got := MergeBranches("a.py", records)
		require.Len(t, got, 1)
		assert.Equal(t, &model.BranchCounts{Covered: 2, Total: 4}, got[0].Counts)
	})

	t.Run("TotalTieLargerCoveredWins", func(t *testing.T) {
		forward := []model.Record{
			{File: "a.py", Line: 5, BranchCounts: &model.BranchCounts{Covered: 1, Total: 4}},
			{File: "a.py", Line: 5, BranchCounts: &model.BranchCounts{Covered: 3, Total: 4}},
		}
		reversed := []model.Record{forward[1], forward[0]}

		want := &model.BranchCounts{Covered: 3, Total: 4}
		assert.Equal(t, want, MergeBranches("a.py", forward)[0].Counts)
		assert.Equal(t, want, MergeBranches("a.py", reversed)[0].Counts)
	})

	t.Run("MissingIndicesUnioned", func(t *testing.T) {
		records := []model.Record{
			{File: "a.py", Line: 7, BranchCounts: &model.BranchCounts{Covered: 2, Total: 4}, MissingBranches: []int{0, 2}},
			{File: "a.py", Line: 7, MissingBranches: []int{2, 3}},
		}
		got := MergeBranches("a.py", records)
		require.Len(t, got, 1)
		assert.Equal(t, []int{0, 2, 3}, got[0].Missing)
	})

	t.Run("DerivedPairFromMissingOnly", func(t *testing.T) {
		// No explicit pair: total = max(len(missing), maxIdx+1).
		records := []model.Record{
			{File: "a.py", Line: 9, MissingBranches: []int{0, 3}},
		}
		got := MergeBranches("a.py", records)
		require.Len(t, got, 1)
		// indices reach 3, so four branches exist; two of them missing
		assert.Equal(t, &model.BranchCounts{Covered: 2, Total: 4}, got[0].Counts)
	})

	t.Run("DerivedPairConsidersConditionNumbers", func(t *testing.T) {
		records := []model.Record{
			{
				File:            "a.py",
				Line:            9,
				MissingBranches: []int{1},
				Conditions: []model.BranchCondition{
					{Number: 5, Type: "jump", Coverage: model.CoverageOf(100)},
					{Number: -1, Type: "line", Coverage: model.CoverageOf(50)},
				},
			},
		}
		got := MergeBranches("a.py", records)
		require.Len(t, got, 1)
		// "line" aggregates never extend the index range; jump 5 does.
		assert.Equal(t, &model.BranchCounts{Covered: 5, Total: 6}, got[0].Counts)
	})

	t.Run("NoBranchDataNoLines", func(t *testing.T) {
		records := []model.Record{{File: "a.py", Line: 1, Hits: 3}}
		assert.Empty(t, MergeBranches("a.py", records))
	})

	t.Run("OrderIndependent", func(t *testing.T) {
		records := []model.Record{
			{File: "a.py", Line: 1, BranchCounts: &model.BranchCounts{Covered: 0, Total: 2}, MissingBranches: []int{0, 1}},
			{File: "a.py", Line: 1, BranchCounts: &model.BranchCounts{Covered: 1, Total: 2}},
			{File: "a.py", Line: 4, MissingBranches: []int{2}},
			{File: "a.py", Line: 4, BranchCounts: &model.BranchCounts{Covered: 3, Total: 4}},
		}
		want := MergeBranches("a.py", records)

		rng := rand.New(rand.NewSource(2))
		for i := 0; i < 20; i++ {
			shuffled := append([]model.Record(nil), records...)
			rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
			got := MergeBranches("a.py", shuffled)
			require.Empty(t, cmp.Diff(want, got), "shuffle %d changed the merge result", i)
		}
	})
}

func TestMultiReportMerge(t *testing.T) {
	t.Run("SecondRunCoversLine", func(t *testing.T) {
		records := []model.Record{
			{File: "pkg/mod.py", Line: 2, Hits: 0},
			{File: "pkg/mod.py", Line: 2, Hits: 1},
		}
		got := BuildLines(records, LinesOptions{})
		assert.Empty(t, got.Files, "a line hit in either run is covered")
	})

	t.Run("FinerRunWinsBranchPair", func(t *testing.T) {
		records := []model.Record{
			{File: "pkg/mod.py", Line: 3, BranchCounts: &model.BranchCounts{Covered: 1, Total: 2}},
			{File: "pkg/mod.py", Line: 3, BranchCounts: &model.BranchCounts{Covered: 2, Total: 2}},
		}
		got := MergeBranches("pkg/mod.py", records)
		require.Len(t, got, 1)
		assert.Equal(t, &model.BranchCounts{Covered: 2, Total: 2}, got[0].Counts)
	})
}

func TestRecordFiles(t *testing.T) {
	records := []model.Record{
		{File: "b.py", Line: 1},
		{File: "a.py", Line: 1},
		{File: "b.py", Line: 2},
	}
	assert.Equal(t, []string{"a.py", "b.py"}, RecordFiles(records))
	assert.Empty(t, RecordFiles(nil))
}

func TestDisplayPath(t *testing.T) {
	tests := []struct {
		name string
		file string
		base string
		want string
	}{
		{"RelativeUnderBase", "/proj/src/app.py", "/proj", "src/app.py"},
		{"OutsideBaseStaysAbsolute", "/other/app.py", "/proj", "/other/app.py"},
		{"RelativeInputUntouched", "src/app.py", "/proj", "src/app.py"},
		{"NoBase", "/proj/src/app.py", "", "/proj/src/app.py"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayPath(tt.file, tt.base))
		})
	}
}
