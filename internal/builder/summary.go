package builder

import (
	"sort"

	"github.com/IgorBayerl/showcov/internal/model"
	"github.com/IgorBayerl/showcov/internal/pathfilter"
)

// tinyStatementThreshold marks files with very few executable statements;
// their percentages are too coarse to act on.
const tinyStatementThreshold = 3

// SummaryOptions controls the summary section builder.
type SummaryOptions struct {
	BaseDir string
	Filter  *pathfilter.PathFilter
	Sort    model.SummarySort
}

// BuildSummary computes per-file and total statement/branch counts with
// derived percentages and orders the rows by the selected sort key.
func BuildSummary(records []model.Record, opts SummaryOptions) model.SummarySection {
	files := filterFiles(RecordFiles(records), opts.Filter)

	rows := make([]model.SummaryRow, 0, len(files))
	for _, file := range files {
		rows = append(rows, buildSummaryRow(file, records, opts.BaseDir))
	}
	sortSummaryRows(rows, opts.Sort)

	filesWithBranches := 0
	for _, r := range rows {
		if r.Branches.Total > 0 {
			filesWithBranches++
		}
	}

	return model.SummarySection{
		Files:             rows,
		Totals:            summaryTotals(rows),
		FilesWithBranches: filesWithBranches,
		TotalFiles:        len(rows),
	}
}

func buildSummaryRow(file string, records []model.Record, base string) model.SummaryRow {
	stmt := MergeStatements(file, records)
	branch := MergeBranches(file, records)

	covered := 0
	for _, s := range stmt {
		if s.Hits > 0 {
			covered++
		}
	}
	statements := model.NewSummaryCounts(len(stmt), covered)

	brTotal, brCovered := 0, 0
	for _, b := range branch {
		if b.Counts == nil {
			continue
		}
		brTotal += b.Counts.Total
		brCovered += b.Counts.Covered
	}
	branches := model.NewSummaryCounts(brTotal, brCovered)

	ranges := uncoveredRanges(stmt)
	uncoveredLines := 0
	for _, r := range ranges {
		uncoveredLines += r.LineCount()
	}

	var branchPct *float64
	if branches.Total > 0 {
		p := model.Pct(branches.Covered, branches.Total)
		branchPct = &p
	}

	return model.SummaryRow{
		File:            displayPath(file, base),
		Statements:      statements,
		Branches:        branches,
		StatementPct:    model.Pct(statements.Covered, statements.Total),
		BranchPct:       branchPct,
		UncoveredLines:  uncoveredLines,
		UncoveredRanges: len(ranges),
		Untested:        statements.Total > 0 && statements.Covered == 0,
		Tiny:            statements.Total > 0 && statements.Total <= tinyStatementThreshold,
	}
}

func sortSummaryRows(rows []model.SummaryRow, key model.SummarySort) {
	less := summaryLess(key)
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}

func summaryLess(key model.SummarySort) func(a, b model.SummaryRow) bool {
	switch key {
	case model.SortFile:
		return func(a, b model.SummaryRow) bool { return a.File < b.File }
	case model.SortStatementCoverage:
		// worst coverage first; larger miss count breaks percentage ties
		return func(a, b model.SummaryRow) bool {
			if a.StatementPct != b.StatementPct {
				return a.StatementPct < b.StatementPct
			}
			if a.Statements.Missed != b.Statements.Missed {
				return a.Statements.Missed > b.Statements.Missed
			}
			return a.File < b.File
		}
	case model.SortBranchCoverage:
		return func(a, b model.SummaryRow) bool {
			ap, bp := branchSortPct(a), branchSortPct(b)
			if ap != bp {
				return ap < bp
			}
			return a.File < b.File
		}
	case model.SortMissedBranches:
		return func(a, b model.SummaryRow) bool {
			if a.Branches.Missed != b.Branches.Missed {
				return a.Branches.Missed > b.Branches.Missed
			}
			if a.UncoveredLines != b.UncoveredLines {
				return a.UncoveredLines > b.UncoveredLines
			}
			return a.File < b.File
		}
	case model.SortUncoveredLines:
		return func(a, b model.SummaryRow) bool {
			if a.UncoveredLines != b.UncoveredLines {
				return a.UncoveredLines > b.UncoveredLines
			}
			if a.Statements.Missed != b.Statements.Missed {
				return a.Statements.Missed > b.Statements.Missed
			}
			return a.File < b.File
		}
	default: // model.SortMissedStatements
		return func(a, b model.SummaryRow) bool {
			if a.Statements.Missed != b.Statements.Missed {
				return a.Statements.Missed > b.Statements.Missed
			}
			if a.UncoveredLines != b.UncoveredLines {
				return a.UncoveredLines > b.UncoveredLines
			}
			return a.File < b.File
		}
	}
}

// branchSortPct treats files without branch instrumentation as fully covered
// so they sort after genuinely partial files.
func branchSortPct(r model.SummaryRow) float64 {
	if r.BranchPct == nil {
		return model.FullCoverage
	}
	return *r.BranchPct
}

// summaryTotals sums all rows' counts elementwise; totals are never derived
// from the per-file percentages.
func summaryTotals(rows []model.SummaryRow) model.SummaryTotals {
	var st, br model.SummaryCounts
	for _, r := range rows {
		st.Total += r.Statements.Total
		st.Covered += r.Statements.Covered
		st.Missed += r.Statements.Missed
		br.Total += r.Branches.Total
		br.Covered += r.Branches.Covered
		br.Missed += r.Branches.Missed
	}
	return model.SummaryTotals{Statements: st, Branches: br}
}
