package builder

import (
	"sort"
	"strings"

	"github.com/IgorBayerl/showcov/internal/model"
	"github.com/IgorBayerl/showcov/internal/pathfilter"
)

// BranchesOptions controls the branches section builder.
type BranchesOptions struct {
	BaseDir string
	Filter  *pathfilter.PathFilter
	Mode    model.BranchMode
}

// condKey is the merge identity of a branch condition: normalized type plus
// branch number. Conditions without a type count as plain "branch" outcomes.
type condKey struct {
	typ    string
	number int
}

// lineBranches accumulates reconciled conditions for one (file, line).
type lineBranches struct {
	instrumented bool
	conds        map[condKey]model.BranchCondition
}

// BuildBranches selects which reconciled branch conditions are reportable
// under the given mode and emits them as per-line gaps, ordered by file label
// and line.
func BuildBranches(records []model.Record, opts BranchesOptions) model.BranchesSection {
	files := filterFiles(RecordFiles(records), opts.Filter)

	var gaps []model.BranchGap
	for _, file := range files {
		accum := reconcileConditions(file, records)

		lines := make([]int, 0, len(accum))
		for ln := range accum {
			lines = append(lines, ln)
		}
		sort.Ints(lines)

		label := displayPath(file, opts.BaseDir)
		for _, ln := range lines {
			lb := accum[ln]
			shown := selectConditions(lb.conds, opts.Mode)
			if len(shown) == 0 {
				// In "all" mode a line with any branch instrumentation is
				// reported even when no per-condition detail survived. The
				// condition list stays an empty array, not null, on the wire.
				if opts.Mode != model.BranchModeAll || !lb.instrumented {
					continue
				}
				shown = []model.BranchCondition{}
			}
			gaps = append(gaps, model.BranchGap{File: label, Line: ln, Conditions: shown})
		}
	}

	return model.BranchesSection{Gaps: gaps}
}

// reconcileConditions merges every Record's branch data for one file into a
// per-line condition map. Missing-branch indices materialize as synthetic
// "branch"-typed conditions with unknown coverage unless a richer condition
// already claims that index. When two conditions share a key, an unknown
// coverage on either side stays unknown; otherwise the minimum percentage
// wins so a regression in any merged report surfaces.
func reconcileConditions(file string, records []model.Record) map[int]*lineBranches {
	byLine := make(map[int]*lineBranches)

	get := func(line int) *lineBranches {
		lb := byLine[line]
		if lb == nil {
			lb = &lineBranches{conds: make(map[condKey]model.BranchCondition)}
			byLine[line] = lb
		}
		return lb
	}

	for _, r := range records {
		if r.File != file {
			continue
		}
		hasBranchData := r.BranchCounts != nil || len(r.MissingBranches) > 0 || len(r.Conditions) > 0
		if !hasBranchData {
			continue
		}
		lb := get(r.Line)
		lb.instrumented = true

		for _, b := range r.MissingBranches {
			k := condKey{typ: "branch", number: b}
			if _, ok := lb.conds[k]; !ok {
				lb.conds[k] = model.BranchCondition{Number: b, Type: "branch"}
			}
		}

		for _, c := range r.Conditions {
			k := condKey{typ: normalizeCondType(c.Type), number: c.Number}
			if existing, ok := lb.conds[k]; ok {
				lb.conds[k] = mergeCondition(existing, c)
			} else {
				lb.conds[k] = c
			}
		}
	}

	return byLine
}

func normalizeCondType(typ string) string {
	if typ == "" {
		return "branch"
	}
	return strings.ToLower(typ)
}

// mergeCondition reconciles two conditions with the same identity.
func mergeCondition(existing, incoming model.BranchCondition) model.BranchCondition {
	merged := existing
	if merged.Type == "" {
		merged.Type = incoming.Type
	}
	if existing.Coverage == nil || incoming.Coverage == nil {
		merged.Coverage = nil
		return merged
	}
	if *incoming.Coverage < *existing.Coverage {
		merged.Coverage = incoming.Coverage
	}
	return merged
}

// selectConditions applies the branch mode and returns conditions in stable
// display order: non-"line" conditions first (by type, then number), the
// per-line aggregate last.
func selectConditions(conds map[condKey]model.BranchCondition, mode model.BranchMode) []model.BranchCondition {
	var out []model.BranchCondition
	for _, c := range conds {
		switch mode {
		case model.BranchModeAll:
			out = append(out, c)
		case model.BranchModePartial:
			if c.Coverage == nil || *c.Coverage < model.FullCoverage {
				out = append(out, c)
			}
		case model.BranchModeMissingOnly:
			if c.Coverage == nil || *c.Coverage == 0 {
				out = append(out, c)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		aLine, bLine := strings.EqualFold(a.Type, "line"), strings.EqualFold(b.Type, "line")
		if aLine != bLine {
			return bLine
		}
		at, bt := strings.ToLower(a.Type), strings.ToLower(b.Type)
		if at != bt {
			return at < bt
		}
		return a.Number < b.Number
	})
	return out
}
