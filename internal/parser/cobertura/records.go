package cobertura

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/IgorBayerl/showcov/internal/inputxml"
	"github.com/IgorBayerl/showcov/internal/model"
)

// conditionCoverageRegex extracts the (covered/total) pair from a Cobertura
// condition-coverage attribute like "50% (1/2)".
var conditionCoverageRegex = regexp.MustCompile(`(?P<pct>\d+)\s*%\s*\(\s*(?P<covered>\d+)\s*/\s*(?P<total>\d+)\s*\)`)

// lineRecords normalizes one <class> element's lines into Records keyed by
// the class's filename attribute.
func lineRecords(classXML inputxml.ClassXML) []model.Record {
	var out []model.Record
	for _, lineXML := range classXML.Lines.Line {
		number, err := strconv.Atoi(lineXML.Number)
		if err != nil || number < 1 {
			continue
		}
		hits, err := strconv.Atoi(lineXML.Hits)
		if err != nil || hits < 0 {
			continue
		}

		out = append(out, model.Record{
			File:            classXML.Filename,
			Line:            number,
			Hits:            hits,
			BranchCounts:    parseConditionCoverage(lineXML.ConditionCoverage),
			MissingBranches: parseMissingBranches(lineXML.MissingBranches),
			Conditions:      parseConditions(lineXML),
		})
	}
	return out
}

// parseConditionCoverage parses "50% (1/2)" into a (covered,total) pair.
func parseConditionCoverage(text string) *model.BranchCounts {
	if text == "" {
		return nil
	}
	m := conditionCoverageRegex.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return nil
	}
	covered, _ := strconv.Atoi(m[conditionCoverageRegex.SubexpIndex("covered")])
	total, _ := strconv.Atoi(m[conditionCoverageRegex.SubexpIndex("total")])
	return &model.BranchCounts{Covered: covered, Total: total}
}

// parseMissingBranches parses the coverage.py style missing-branches
// attribute: a comma-separated list of branch indices.
func parseMissingBranches(text string) []int {
	if text == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(strings.ReplaceAll(text, " ", ""), ",") {
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// parseConditions collects per-condition branch detail for one line:
// explicit <condition> elements, synthetic unknown-coverage conditions for
// missing-branch indices not already listed, and a synthetic "line"-typed
// aggregate derived from the condition-coverage pair.
func parseConditions(lineXML inputxml.LineXML) []model.BranchCondition {
	var out []model.BranchCondition
	seen := make(map[int]struct{})

	for _, condXML := range lineXML.Conditions.Condition {
		number := -1
		if n, err := strconv.Atoi(condXML.Number); err == nil {
			number = n
		}
		out = append(out, model.BranchCondition{
			Number:   number,
			Type:     condXML.Type,
			Coverage: parseCoveragePct(condXML.Coverage),
		})
		seen[number] = struct{}{}
	}

	for _, b := range parseMissingBranches(lineXML.MissingBranches) {
		if _, ok := seen[b]; ok {
			continue
		}
		out = append(out, model.BranchCondition{Number: b, Type: "branch"})
	}

	if cc := parseConditionCoverage(lineXML.ConditionCoverage); cc != nil {
		pct := 0
		if cc.Total > 0 {
			pct = int(math.Round(float64(model.FullCoverage) * float64(cc.Covered) / float64(cc.Total)))
		}
		out = append(out, model.BranchCondition{Number: -1, Type: "line", Coverage: model.CoverageOf(pct)})
	}

	return out
}

// parseCoveragePct parses a condition coverage attribute like "75%". An
// unparseable or absent value stays unknown.
func parseCoveragePct(text string) *int {
	if text == "" {
		return nil
	}
	s := strings.TrimSuffix(strings.TrimSpace(text), "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return model.CoverageOf(int(v))
}
