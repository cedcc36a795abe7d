package builder

import (
	"sort"

	"github.com/IgorBayerl/showcov/internal/model"
)

// rangeKey flattens one uncovered range into a set element. Exact boundary
// equality is what cancels a range between snapshots; a range that split or
// merged shows up as both new and resolved for its changed portion, which is
// acceptable because line-level granularity is finer than range granularity.
type rangeKey struct {
	file  string
	start int
	end   int
}

// BuildDiff computes the set difference of uncovered ranges between a
// baseline and a current lines section: new = current - baseline, resolved =
// baseline - current.
func BuildDiff(baseline, current model.LinesSection) model.DiffSection {
	baseSet := rangeSet(baseline)
	curSet := rangeSet(current)

	newSet := make(map[rangeKey]struct{})
	for k := range curSet {
		if _, ok := baseSet[k]; !ok {
			newSet[k] = struct{}{}
		}
	}
	resolvedSet := make(map[rangeKey]struct{})
	for k := range baseSet {
		if _, ok := curSet[k]; !ok {
			resolvedSet[k] = struct{}{}
		}
	}

	return model.DiffSection{
		New:      packRanges(newSet),
		Resolved: packRanges(resolvedSet),
	}
}

func rangeSet(section model.LinesSection) map[rangeKey]struct{} {
	out := make(map[rangeKey]struct{})
	for _, f := range section.Files {
		for _, r := range f.Uncovered {
			out[rangeKey{file: f.File, start: r.Start, end: r.End}] = struct{}{}
		}
	}
	return out
}

// packRanges folds a flat range set back into per-file sorted sequences.
func packRanges(set map[rangeKey]struct{}) []model.UncoveredFile {
	byFile := make(map[string][]model.UncoveredRange)
	for k := range set {
		byFile[k.file] = append(byFile[k.file], model.UncoveredRange{Start: k.start, End: k.end})
	}

	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	out := make([]model.UncoveredFile, 0, len(files))
	for _, f := range files {
		ranges := byFile[f]
		sort.Slice(ranges, func(i, j int) bool {
			if ranges[i].Start != ranges[j].Start {
				return ranges[i].Start < ranges[j].Start
			}
			return ranges[i].End < ranges[j].End
		})
		out = append(out, model.UncoveredFile{File: f, Uncovered: ranges})
	}
	return out
}
