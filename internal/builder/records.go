// Package builder is the aggregation/merge/report-building engine. It folds
// a multiset of normalized per-line coverage Records, possibly from several
// independent report runs over overlapping files, into one coherent Report.
//
// All merge rules are commutative, associative reductions (max hits, largest
// branch denominator, minimum condition coverage), so the order in which
// Records arrive never affects the result.
package builder

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/IgorBayerl/showcov/internal/model"
	"github.com/IgorBayerl/showcov/internal/pathfilter"
)

// StatementLine is one merged statement fact: a line and the highest hit
// count any input reported for it.
type StatementLine struct {
	Line int
	Hits int
}

// BranchLine is one merged branch fact for a line: the best (covered,total)
// pair plus the union of missing-branch indices across inputs.
type BranchLine struct {
	Line    int
	Counts  *model.BranchCounts
	Missing []int
}

// MergeStatements folds all Records for one file into one hit count per
// line: hits(line) = max across inputs. A line is covered if any input
// exercised it, which keeps multi-report merges order-independent and
// monotonic. Output is ordered by line.
func MergeStatements(file string, records []model.Record) []StatementLine {
	byLine := make(map[int]int)
	for _, r := range records {
		if r.File != file {
			continue
		}
		if hits, ok := byLine[r.Line]; !ok || r.Hits > hits {
			byLine[r.Line] = r.Hits
		}
	}

	out := make([]StatementLine, 0, len(byLine))
	for line, hits := range byLine {
		out = append(out, StatementLine{Line: line, Hits: hits})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}

// MergeBranches folds all Records for one file into one branch-count pair
// per line. The pair with the largest total wins (larger denominators mean
// finer-grained instrumentation); on a total tie, the larger covered count
// wins so the result cannot depend on input order. Missing-branch indices
// are unioned.
//
// When a line has missing indices but no explicit pair, a conservative pair
// is derived: total = max(len(missing), maxIndex+1), covered = total -
// len(missing). The maximum index also considers explicit non-"line"
// condition numbers. The heuristic is only as good as the completeness of
// the input's branch numbering.
func MergeBranches(file string, records []model.Record) []BranchLine {
	countsByLine := make(map[int]model.BranchCounts)
	missingByLine := make(map[int]map[int]struct{})
	maxIdxByLine := make(map[int]int)

	noteIdx := func(line, idx int) {
		if cur, ok := maxIdxByLine[line]; !ok || idx > cur {
			maxIdxByLine[line] = idx
		}
	}

	for _, r := range records {
		if r.File != file {
			continue
		}
		if bc := r.BranchCounts; bc != nil {
			prev, ok := countsByLine[r.Line]
			if !ok || betterCounts(*bc, prev) {
				countsByLine[r.Line] = *bc
			}
		}
		if len(r.MissingBranches) > 0 {
			bucket := missingByLine[r.Line]
			if bucket == nil {
				bucket = make(map[int]struct{})
				missingByLine[r.Line] = bucket
			}
			for _, b := range r.MissingBranches {
				bucket[b] = struct{}{}
				noteIdx(r.Line, b)
			}
		}
		for _, c := range r.Conditions {
			if c.Number >= 0 && !strings.EqualFold(c.Type, "line") {
				noteIdx(r.Line, c.Number)
			}
		}
	}

	lines := make(map[int]struct{}, len(countsByLine)+len(missingByLine))
	for ln := range countsByLine {
		lines[ln] = struct{}{}
	}
	for ln := range missingByLine {
		lines[ln] = struct{}{}
	}

	out := make([]BranchLine, 0, len(lines))
	for ln := range lines {
		var counts *model.BranchCounts
		if bc, ok := countsByLine[ln]; ok {
			c := bc
			counts = &c
		}
		missing := sortedKeys(missingByLine[ln])

		if counts == nil && len(missing) > 0 {
			maxIdx := missing[len(missing)-1]
			if idx, ok := maxIdxByLine[ln]; ok && idx > maxIdx {
				maxIdx = idx
			}
			total := len(missing)
			if maxIdx+1 > total {
				total = maxIdx + 1
			}
			counts = &model.BranchCounts{Covered: total - len(missing), Total: total}
		}

		out = append(out, BranchLine{Line: ln, Counts: counts, Missing: missing})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}

// betterCounts reports whether a should replace b as the merged pair.
func betterCounts(a, b model.BranchCounts) bool {
	if a.Total != b.Total {
		return a.Total > b.Total
	}
	return a.Covered > b.Covered
}

// RecordFiles returns the sorted distinct file identifiers present in the
// records.
func RecordFiles(records []model.Record) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[r.File] = struct{}{}
	}
	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// filterFiles applies the optional path filter; a nil filter allows all.
func filterFiles(files []string, filter *pathfilter.PathFilter) []string {
	if filter == nil {
		return files
	}
	return filter.FilterFiles(files)
}

// displayPath turns a raw file identifier into the label shown in report
// output: relative to base when possible, always in slash form.
func displayPath(file, base string) string {
	if filepath.IsAbs(file) && base != "" {
		if rel, err := filepath.Rel(base, file); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(filepath.Clean(file))
}

func sortedKeys(set map[int]struct{}) []int {
	if len(set) == 0 {
		return nil
	}
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
