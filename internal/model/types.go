package model

import "fmt"

// FullCoverage is the percentage value representing complete coverage.
const FullCoverage = 100

// BranchMode selects which branch conditions are worth reporting.
type BranchMode string

const (
	BranchModeMissingOnly BranchMode = "missing-only"
	BranchModePartial     BranchMode = "partial"
	BranchModeAll         BranchMode = "all"
)

// ParseBranchMode validates a user-supplied branch mode string.
func ParseBranchMode(s string) (BranchMode, error) {
	switch BranchMode(s) {
	case BranchModeMissingOnly, BranchModePartial, BranchModeAll:
		return BranchMode(s), nil
	}
	return "", fmt.Errorf("branch mode must be one of %q, %q, %q; got %q",
		BranchModeMissingOnly, BranchModePartial, BranchModeAll, s)
}

// SummarySort identifies an ordering for coverage summary rows.
type SummarySort string

const (
	SortFile              SummarySort = "file"
	SortStatementCoverage SummarySort = "stmt_cov"       // ascending, worst first
	SortBranchCoverage    SummarySort = "br_cov"         // ascending, worst first
	SortMissedStatements  SummarySort = "miss_stmt"      // descending, worst first
	SortMissedBranches    SummarySort = "miss_br"        // descending, worst first
	SortUncoveredLines    SummarySort = "uncovered_lines" // descending, worst first
)

// ParseSummarySort validates a user-supplied sort key.
func ParseSummarySort(s string) (SummarySort, error) {
	switch SummarySort(s) {
	case SortFile, SortStatementCoverage, SortBranchCoverage,
		SortMissedStatements, SortMissedBranches, SortUncoveredLines:
		return SummarySort(s), nil
	}
	return "", fmt.Errorf("sort must be one of: file, stmt_cov, br_cov, miss_stmt, miss_br, uncovered_lines; got %q", s)
}

// SectionName identifies one of the optional report sections.
type SectionName string

const (
	SectionLines    SectionName = "lines"
	SectionBranches SectionName = "branches"
	SectionSummary  SectionName = "summary"
	SectionDiff     SectionName = "diff"
)

// ParseSectionName validates a user-supplied section name.
func ParseSectionName(s string) (SectionName, error) {
	switch SectionName(s) {
	case SectionLines, SectionBranches, SectionSummary, SectionDiff:
		return SectionName(s), nil
	}
	return "", fmt.Errorf("unknown report section %q", s)
}

// Pct returns 100*covered/total, defaulting to full coverage when total is 0
// (no denominator means nothing to miss).
func Pct(covered, total int) float64 {
	if total == 0 {
		return FullCoverage
	}
	return float64(FullCoverage) * float64(covered) / float64(total)
}
