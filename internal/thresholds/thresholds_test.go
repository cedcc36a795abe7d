package thresholds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IgorBayerl/showcov/internal/model"
)

func TestParse(t *testing.T) {
	t.Run("AllMetrics", func(t *testing.T) {
		got, err := Parse("statements=90,branches=80,misses=10")
		require.NoError(t, err)
		require.NotNil(t, got.Statement)
		assert.Equal(t, 90.0, *got.Statement)
		require.NotNil(t, got.Branch)
		assert.Equal(t, 80.0, *got.Branch)
		require.NotNil(t, got.Misses)
		assert.Equal(t, 10, *got.Misses)
	})

	t.Run("Aliases", func(t *testing.T) {
		got, err := Parse("stmt=85 br=70 miss=3")
		require.NoError(t, err)
		assert.Equal(t, 85.0, *got.Statement)
		assert.Equal(t, 70.0, *got.Branch)
		assert.Equal(t, 3, *got.Misses)
	})

	t.Run("PercentSignTolerated", func(t *testing.T) {
		got, err := Parse("statements=92.5%")
		require.NoError(t, err)
		assert.Equal(t, 92.5, *got.Statement)
	})

	t.Run("CaseInsensitiveKeys", func(t *testing.T) {
		got, err := Parse("STATEMENTS=50")
		require.NoError(t, err)
		assert.Equal(t, 50.0, *got.Statement)
	})

	tests := []struct {
		name string
		expr string
	}{
		{"Empty", ""},
		{"Whitespace", "   "},
		{"UnknownMetric", "functions=90"},
		{"MissingValue", "statements"},
		{"NonNumericValue", "statements=lots"},
		{"PercentageAbove100", "statements=101"},
		{"NegativePercentage", "statements=-1"},
		{"NegativeMisses", "misses=-2"},
		{"FractionalMisses", "misses=1.5"},
		{"DuplicateKey", "statements=90,stmt=80"},
	}
	for _, tt := range tests {
		t.Run("Invalid"+tt.name, func(t *testing.T) {
			_, err := Parse(tt.expr)
			assert.Error(t, err, "expression %q should not parse", tt.expr)
		})
	}
}

func summaryReport(stmtCovered, stmtTotal, brCovered, brTotal int) model.Report {
	return model.Report{
		Sections: model.ReportSections{
			Summary: &model.SummarySection{
				Totals: model.SummaryTotals{
					Statements: model.NewSummaryCounts(stmtTotal, stmtCovered),
					Branches:   model.NewSummaryCounts(brTotal, brCovered),
				},
			},
		},
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("NoLimitsPasses", func(t *testing.T) {
		got, err := Evaluate(model.Report{}, nil)
		require.NoError(t, err)
		assert.True(t, got.Passed)
	})

	t.Run("ExactBoundaryPasses", func(t *testing.T) {
		rep := summaryReport(90, 100, 80, 100)
		limit, err := Parse("statements=90,branches=80")
		require.NoError(t, err)

		got, err := Evaluate(rep, []Threshold{limit})
		require.NoError(t, err)
		assert.True(t, got.Passed, "actual == required must pass")
	})

	t.Run("BelowBoundaryFails", func(t *testing.T) {
		rep := summaryReport(89, 100, 80, 100)
		limit, err := Parse("statements=90,branches=80")
		require.NoError(t, err)

		got, err := Evaluate(rep, []Threshold{limit})
		require.NoError(t, err)
		assert.False(t, got.Passed)
		require.Len(t, got.Failures, 1)
		assert.Equal(t, "statement", got.Failures[0].Metric)
		assert.Equal(t, ">=", got.Failures[0].Comparison)
	})

	t.Run("VacuousTotalsPass", func(t *testing.T) {
		rep := summaryReport(0, 0, 0, 0)
		limit, err := Parse("statements=100,branches=100")
		require.NoError(t, err)

		got, err := Evaluate(rep, []Threshold{limit})
		require.NoError(t, err)
		assert.True(t, got.Passed, "no statements means nothing was missed")
	})

	t.Run("MissesBoundary", func(t *testing.T) {
		rep := model.Report{
			Sections: model.ReportSections{
				Lines: &model.LinesSection{
					Files: []model.UncoveredFile{
						{File: "a.py", Uncovered: []model.UncoveredRange{{Start: 1, End: 5}}},
					},
				},
			},
		}
		atLimit, err := Parse("misses=5")
		require.NoError(t, err)
		overLimit, err := Parse("misses=4")
		require.NoError(t, err)

		got, err := Evaluate(rep, []Threshold{atLimit})
		require.NoError(t, err)
		assert.True(t, got.Passed, "actual == required must pass")

		got, err = Evaluate(rep, []Threshold{overLimit})
		require.NoError(t, err)
		assert.False(t, got.Passed)
		require.Len(t, got.Failures, 1)
		assert.Equal(t, "misses", got.Failures[0].Metric)
		assert.Equal(t, "<=", got.Failures[0].Comparison)
	})

	t.Run("MissingSummarySectionIsError", func(t *testing.T) {
		limit, err := Parse("statements=90")
		require.NoError(t, err)
		_, err = Evaluate(model.Report{}, []Threshold{limit})
		assert.Error(t, err)
	})

	t.Run("MissingLinesSectionIsError", func(t *testing.T) {
		limit, err := Parse("misses=0")
		require.NoError(t, err)
		_, err = Evaluate(model.Report{}, []Threshold{limit})
		assert.Error(t, err)
	})

	t.Run("MultipleThresholdsAllReported", func(t *testing.T) {
		rep := summaryReport(50, 100, 50, 100)
		first, err := Parse("statements=90")
		require.NoError(t, err)
		second, err := Parse("branches=60")
		require.NoError(t, err)

		got, err := Evaluate(rep, []Threshold{first, second})
		require.NoError(t, err)
		assert.False(t, got.Passed)
		assert.Len(t, got.Failures, 2)
	})
}

func TestFailureString(t *testing.T) {
	f := Failure{Metric: "statement", Required: 90, Actual: 87.5, Comparison: ">="}
	assert.Equal(t, "statement: required >= 90, got 87.5", f.String())
}
