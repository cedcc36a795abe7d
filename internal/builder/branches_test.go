package builder

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IgorBayerl/showcov/internal/model"
)

func TestBuildBranchesModes(t *testing.T) {
	records := []model.Record{
		{
			File: "a.py", Line: 10,
			Conditions: []model.BranchCondition{
				{Number: 0, Type: "jump", Coverage: model.CoverageOf(0)},
				{Number: 1, Type: "jump", Coverage: model.CoverageOf(50)},
				{Number: 2, Type: "jump", Coverage: model.CoverageOf(100)},
				{Number: 3, Type: "jump"},
			},
		},
	}

	t.Run("MissingOnly", func(t *testing.T) {
		got := BuildBranches(records, BranchesOptions{Mode: model.BranchModeMissingOnly})
		require.Len(t, got.Gaps, 1)
		var numbers []int
		for _, c := range got.Gaps[0].Conditions {
			numbers = append(numbers, c.Number)
		}
		// zero coverage and unknown coverage only
		assert.Equal(t, []int{0, 3}, numbers)
	})

	t.Run("Partial", func(t *testing.T) {
		got := BuildBranches(records, BranchesOptions{Mode: model.BranchModePartial})
		require.Len(t, got.Gaps, 1)
		var numbers []int
		for _, c := range got.Gaps[0].Conditions {
			numbers = append(numbers, c.Number)
		}
		// everything below 100 plus unknown
		assert.Equal(t, []int{0, 1, 3}, numbers)
	})

	t.Run("All", func(t *testing.T) {
		got := BuildBranches(records, BranchesOptions{Mode: model.BranchModeAll})
		require.Len(t, got.Gaps, 1)
		assert.Len(t, got.Gaps[0].Conditions, 4)
	})
}

func TestBuildBranchesAllIncludesBareInstrumentation(t *testing.T) {
	// A line with only a fully-covered counts pair has no reportable
	// conditions, but "all" mode still reports the line itself.
	records := []model.Record{
		{File: "a.py", Line: 3, BranchCounts: &model.BranchCounts{Covered: 2, Total: 2}},
	}

	all := BuildBranches(records, BranchesOptions{Mode: model.BranchModeAll})
	require.Len(t, all.Gaps, 1)
	assert.Equal(t, 3, all.Gaps[0].Line)
	assert.NotNil(t, all.Gaps[0].Conditions, "a bare instrumented line keeps an empty condition list")
	assert.Empty(t, all.Gaps[0].Conditions)

	encoded, err := json.Marshal(all.Gaps[0])
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"conditions":[]`,
		"empty conditions serialize as an array, not null")

	partial := BuildBranches(records, BranchesOptions{Mode: model.BranchModePartial})
	assert.Empty(t, partial.Gaps)
}

func TestBuildBranchesMissingIndicesBecomeConditions(t *testing.T) {
	records := []model.Record{
		{File: "a.py", Line: 8, MissingBranches: []int{1, 4}},
	}
	got := BuildBranches(records, BranchesOptions{Mode: model.BranchModeMissingOnly})
	require.Len(t, got.Gaps, 1)

	conds := got.Gaps[0].Conditions
	require.Len(t, conds, 2)
	assert.Equal(t, model.BranchCondition{Number: 1, Type: "branch"}, conds[0])
	assert.Equal(t, model.BranchCondition{Number: 4, Type: "branch"}, conds[1])
	_, known := conds[0].CoveragePct()
	assert.False(t, known, "synthesized conditions have unknown coverage")
}

func TestBuildBranchesConditionMerge(t *testing.T) {
	t.Run("MinimumPercentageWins", func(t *testing.T) {
		records := []model.Record{
			{File: "a.py", Line: 2, Conditions: []model.BranchCondition{{Number: 0, Type: "jump", Coverage: model.CoverageOf(80)}}},
			{File: "a.py", Line: 2, Conditions: []model.BranchCondition{{Number: 0, Type: "jump", Coverage: model.CoverageOf(40)}}},
		}
		got := BuildBranches(records, BranchesOptions{Mode: model.BranchModeAll})
		require.Len(t, got.Gaps, 1)
		require.Len(t, got.Gaps[0].Conditions, 1)
		pct, ok := got.Gaps[0].Conditions[0].CoveragePct()
		require.True(t, ok)
		assert.Equal(t, 40, pct)
	})

	t.Run("UnknownWins", func(t *testing.T) {
		records := []model.Record{
			{File: "a.py", Line: 2, Conditions: []model.BranchCondition{{Number: 0, Type: "jump", Coverage: model.CoverageOf(80)}}},
			{File: "a.py", Line: 2, Conditions: []model.BranchCondition{{Number: 0, Type: "jump"}}},
		}
		got := BuildBranches(records, BranchesOptions{Mode: model.BranchModeAll})
		require.Len(t, got.Gaps, 1)
		_, ok := got.Gaps[0].Conditions[0].CoveragePct()
		assert.False(t, ok)
	})

	t.Run("TypeMatchIsCaseInsensitive", func(t *testing.T) {
		records := []model.Record{
			{File: "a.py", Line: 2, Conditions: []model.BranchCondition{{Number: 0, Type: "Jump", Coverage: model.CoverageOf(80)}}},
			{File: "a.py", Line: 2, Conditions: []model.BranchCondition{{Number: 0, Type: "jump", Coverage: model.CoverageOf(60)}}},
		}
		got := BuildBranches(records, BranchesOptions{Mode: model.BranchModeAll})
		require.Len(t, got.Gaps, 1)
		assert.Len(t, got.Gaps[0].Conditions, 1, "differently-cased types must merge")
	})

	t.Run("RicherConditionClaimsMissingIndex", func(t *testing.T) {
		records := []model.Record{
			{File: "a.py", Line: 2, MissingBranches: []int{0}},
			{File: "a.py", Line: 2, Conditions: []model.BranchCondition{{Number: 0, Type: "branch", Coverage: model.CoverageOf(25)}}},
		}
		got := BuildBranches(records, BranchesOptions{Mode: model.BranchModeAll})
		require.Len(t, got.Gaps, 1)
		require.Len(t, got.Gaps[0].Conditions, 1)
		pct, ok := got.Gaps[0].Conditions[0].CoveragePct()
		require.True(t, ok)
		assert.Equal(t, 25, pct)
	})
}

func TestBuildBranchesConditionOrder(t *testing.T) {
	records := []model.Record{
		{
			File: "a.py", Line: 1,
			Conditions: []model.BranchCondition{
				{Number: -1, Type: "line", Coverage: model.CoverageOf(50)},
				{Number: 2, Type: "jump", Coverage: model.CoverageOf(0)},
				{Number: 0, Type: "jump", Coverage: model.CoverageOf(0)},
				{Number: 1, Type: "branch"},
			},
		},
	}
	got := BuildBranches(records, BranchesOptions{Mode: model.BranchModeAll})
	require.Len(t, got.Gaps, 1)

	var keys []string
	for _, c := range got.Gaps[0].Conditions {
		keys = append(keys, c.Type)
	}
	// concrete conditions by type then number, per-line aggregate last
	assert.Equal(t, []string{"branch", "jump", "jump", "line"}, keys)
	assert.Equal(t, 0, got.Gaps[0].Conditions[1].Number)
	assert.Equal(t, 2, got.Gaps[0].Conditions[2].Number)
}

func TestBuildBranchesFileAndLineOrder(t *testing.T) {
	records := []model.Record{
		{File: "b.py", Line: 2, MissingBranches: []int{0}},
		{File: "a.py", Line: 9, MissingBranches: []int{0}},
		{File: "a.py", Line: 3, MissingBranches: []int{0}},
	}
	got := BuildBranches(records, BranchesOptions{Mode: model.BranchModeMissingOnly})
	require.Len(t, got.Gaps, 3)
	assert.Equal(t, "a.py", got.Gaps[0].File)
	assert.Equal(t, 3, got.Gaps[0].Line)
	assert.Equal(t, 9, got.Gaps[1].Line)
	assert.Equal(t, "b.py", got.Gaps[2].File)
}
