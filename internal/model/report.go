// Package model holds the value objects that make up a coverage report: the
// normalized input Record, the section containers (lines, branches, summary,
// diff) and the assembled Report surface consumed by renderers.
//
// Everything here is constructed once per report build and never mutated in
// place; enrichment steps produce new values.
package model

import "fmt"

// EnvironmentMeta describes where the coverage facts came from.
type EnvironmentMeta struct {
	CoverageXML string `json:"coverage_xml"`
}

// OptionsMeta records the build/enrichment options the report was produced
// with, so consumers can interpret optional fields.
type OptionsMeta struct {
	ContextLines    int  `json:"context_lines"`
	WithCode        bool `json:"with_code"`
	ShowPaths       bool `json:"show_paths"`
	ShowLineNumbers bool `json:"show_line_numbers"`
	AggregateStats  bool `json:"aggregate_stats"`
	FileStats       bool `json:"file_stats"`
}

// ReportMeta is the top-level report metadata.
type ReportMeta struct {
	Environment EnvironmentMeta `json:"environment"`
	Options     OptionsMeta     `json:"options"`
}

// SourceLine is one line of source text attached to an uncovered range by the
// enrichment step. Line is 0 when line numbers were not requested.
type SourceLine struct {
	Code string `json:"code"`
	Line int    `json:"line,omitempty"`
	Tag  string `json:"tag,omitempty"`
}

// UncoveredRange is an inclusive [Start, End] span of uncovered 1-indexed
// line numbers.
type UncoveredRange struct {
	Start  int          `json:"start"`
	End    int          `json:"end"`
	Source []SourceLine `json:"source,omitempty"`
}

// NewUncoveredRange constructs a range, enforcing 1 <= start <= end. A
// violation is a programming defect in the grouping logic, not user input,
// so it fails loudly.
func NewUncoveredRange(start, end int) UncoveredRange {
	if start < 1 || end < start {
		panic(fmt.Sprintf("invalid uncovered range [%d, %d]", start, end))
	}
	return UncoveredRange{Start: start, End: end}
}

// LineCount returns the number of lines covered by the range.
func (r UncoveredRange) LineCount() int {
	return r.End - r.Start + 1
}

// FileCounts carries optional per-file statistics for the lines section.
// Total is filled in by the enrichment step, which can see the source file;
// it stays zero when the file is unreadable.
type FileCounts struct {
	Uncovered int `json:"uncovered"`
	Total     int `json:"total"`
}

// UncoveredFile is a file label plus its ordered, non-adjacent uncovered
// ranges. File may be empty when paths are hidden.
type UncoveredFile struct {
	File      string           `json:"file,omitempty"`
	Uncovered []UncoveredRange `json:"uncovered"`
	Counts    *FileCounts      `json:"counts,omitempty"`
}

// LineSummary is the optional aggregate total for the lines section.
type LineSummary struct {
	Uncovered int `json:"uncovered"`
}

// LinesSection lists uncovered statement ranges per file.
type LinesSection struct {
	Files   []UncoveredFile `json:"files"`
	Summary *LineSummary    `json:"summary,omitempty"`
}

// BranchGap is a line with reportable branch conditions.
type BranchGap struct {
	File       string            `json:"file,omitempty"`
	Line       int               `json:"line"`
	Conditions []BranchCondition `json:"conditions"`
}

// BranchesSection lists branch gaps selected by the active branch mode.
type BranchesSection struct {
	Gaps []BranchGap `json:"gaps"`
}

// SummaryCounts is a (total, covered, missed) triple with the invariant
// covered + missed == total.
type SummaryCounts struct {
	Total   int `json:"total"`
	Covered int `json:"covered"`
	Missed  int `json:"missed"`
}

// NewSummaryCounts builds counts from total and covered.
func NewSummaryCounts(total, covered int) SummaryCounts {
	if total < 0 || covered < 0 || covered > total {
		panic(fmt.Sprintf("invalid summary counts: total=%d covered=%d", total, covered))
	}
	return SummaryCounts{Total: total, Covered: covered, Missed: total - covered}
}

// SummaryRow is the per-file rollup of statement and branch counts with
// derived percentages and hotness counters.
type SummaryRow struct {
	File       string        `json:"file"`
	Statements SummaryCounts `json:"statements"`
	Branches   SummaryCounts `json:"branches"`

	StatementPct float64  `json:"statement_pct"`
	BranchPct    *float64 `json:"branch_pct"` // nil when Branches.Total == 0

	UncoveredLines  int `json:"uncovered_lines"`
	UncoveredRanges int `json:"uncovered_ranges"`

	Untested bool `json:"untested"` // Statements.Total > 0 and none covered
	Tiny     bool `json:"tiny"`     // very few statements (heuristic)
}

// SummaryTotals is the elementwise sum of all rows' counts.
type SummaryTotals struct {
	Statements SummaryCounts `json:"statements"`
	Branches   SummaryCounts `json:"branches"`
}

// SummarySection holds ordered summary rows plus aggregate totals.
type SummarySection struct {
	Files  []SummaryRow  `json:"files"`
	Totals SummaryTotals `json:"totals"`

	FilesWithBranches int `json:"files_with_branches"`
	TotalFiles        int `json:"total_files"`
}

// DiffSection is the set of uncovered-range changes between a baseline and a
// current coverage snapshot.
type DiffSection struct {
	New      []UncoveredFile `json:"new"`
	Resolved []UncoveredFile `json:"resolved"`
}

// ReportSections is the typed container for the optional sections. Only
// sections that were requested/built are non-nil; consumers must tolerate any
// of them being absent.
type ReportSections struct {
	Lines    *LinesSection    `json:"lines,omitempty"`
	Branches *BranchesSection `json:"branches,omitempty"`
	Summary  *SummarySection  `json:"summary,omitempty"`
	Diff     *DiffSection     `json:"diff,omitempty"`
}

// Present lists the sections that were built, in canonical order.
func (s ReportSections) Present() []SectionName {
	var out []SectionName
	if s.Lines != nil {
		out = append(out, SectionLines)
	}
	if s.Branches != nil {
		out = append(out, SectionBranches)
	}
	if s.Summary != nil {
		out = append(out, SectionSummary)
	}
	if s.Diff != nil {
		out = append(out, SectionDiff)
	}
	return out
}

// Report is the unified report surface consumed by renderers and other
// downstream tooling.
type Report struct {
	Meta     ReportMeta     `json:"meta"`
	Sections ReportSections `json:"sections"`
}
