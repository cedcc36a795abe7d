package builder

import (
	"github.com/IgorBayerl/showcov/internal/model"
	"github.com/IgorBayerl/showcov/internal/pathfilter"
)

// LinesOptions controls the lines section builder.
type LinesOptions struct {
	BaseDir        string
	Filter         *pathfilter.PathFilter
	AggregateStats bool
	FileStats      bool
}

// BuildLines converts merged statement records into contiguous uncovered
// ranges per file. Files with no uncovered lines are omitted entirely.
func BuildLines(records []model.Record, opts LinesOptions) model.LinesSection {
	files := filterFiles(RecordFiles(records), opts.Filter)

	out := make([]model.UncoveredFile, 0, len(files))
	uncoveredTotal := 0

	for _, file := range files {
		stmt := MergeStatements(file, records)
		ranges := uncoveredRanges(stmt)
		if len(ranges) == 0 {
			continue
		}

		fileUncovered := 0
		for _, r := range ranges {
			fileUncovered += r.LineCount()
		}
		uncoveredTotal += fileUncovered

		uf := model.UncoveredFile{
			File:      displayPath(file, opts.BaseDir),
			Uncovered: ranges,
		}
		if opts.FileStats {
			uf.Counts = &model.FileCounts{Uncovered: fileUncovered}
		}
		out = append(out, uf)
	}

	section := model.LinesSection{Files: out}
	if opts.AggregateStats {
		section.Summary = &model.LineSummary{Uncovered: uncoveredTotal}
	}
	return section
}

// uncoveredRanges selects lines with merged hits == 0 and groups them into
// maximal runs of consecutive line numbers.
func uncoveredRanges(stmt []StatementLine) []model.UncoveredRange {
	var lines []int
	for _, s := range stmt {
		if s.Hits == 0 {
			lines = append(lines, s.Line)
		}
	}
	return groupConsecutive(lines)
}

// groupConsecutive packs a sorted, duplicate-free list of line numbers into
// inclusive ranges. Adjacent and overlapping runs are always merged, so no
// two emitted ranges touch.
func groupConsecutive(lines []int) []model.UncoveredRange {
	if len(lines) == 0 {
		return nil
	}
	var out []model.UncoveredRange
	start, prev := lines[0], lines[0]
	for _, n := range lines[1:] {
		if n == prev || n == prev+1 {
			prev = n
			continue
		}
		out = append(out, model.NewUncoveredRange(start, prev))
		start, prev = n, n
	}
	out = append(out, model.NewUncoveredRange(start, prev))
	return out
}
