// Package thresholds parses and evaluates coverage policy gates against a
// built report. A failed threshold is a policy result, not a data error; the
// CLI maps it to an exit status.
package thresholds

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/IgorBayerl/showcov/internal/model"
)

// Threshold is one user-defined set of coverage limits. Percentage limits
// are minimums; Misses is a maximum.
type Threshold struct {
	Statement *float64 // minimum statement coverage percentage
	Branch    *float64 // minimum branch coverage percentage
	Misses    *int     // maximum uncovered statement lines
}

// IsEmpty reports whether the threshold constrains nothing.
func (t Threshold) IsEmpty() bool {
	return t.Statement == nil && t.Branch == nil && t.Misses == nil
}

// Failure describes one unmet constraint.
type Failure struct {
	Metric     string  `json:"metric"`
	Required   float64 `json:"required"`
	Actual     float64 `json:"actual"`
	Comparison string  `json:"comparison"`
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: required %s %s, got %s",
		f.Metric, f.Comparison, trimFloat(f.Required), trimFloat(f.Actual))
}

// Result is the outcome of evaluating a collection of thresholds.
type Result struct {
	Passed   bool      `json:"passed"`
	Failures []Failure `json:"failures,omitempty"`
}

var tokenPattern = regexp.MustCompile(`^[a-zA-Z_-]+=`)

// Parse reads a threshold expression such as
// "statements=90,branches=80,misses=10". Percent signs are tolerated, keys
// have short aliases (stmt, br, miss), and at least one metric is required.
func Parse(expression string) (Threshold, error) {
	if strings.TrimSpace(expression) == "" {
		return Threshold{}, errors.New("threshold expression must be non-empty")
	}

	var out Threshold
	for _, token := range strings.FieldsFunc(expression, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if !tokenPattern.MatchString(token) {
			return Threshold{}, fmt.Errorf("invalid threshold token %q", token)
		}

		key, rawValue, _ := strings.Cut(token, "=")
		value := strings.TrimSuffix(strings.TrimSpace(rawValue), "%")

		switch strings.ToLower(strings.TrimSpace(key)) {
		case "stmt", "statement", "statements":
			pct, err := parsePercentage(value, out.Statement, token)
			if err != nil {
				return Threshold{}, err
			}
			out.Statement = pct
		case "br", "branch", "branches":
			pct, err := parsePercentage(value, out.Branch, token)
			if err != nil {
				return Threshold{}, err
			}
			out.Branch = pct
		case "miss", "misses":
			n, err := parseCount(value, out.Misses, token)
			if err != nil {
				return Threshold{}, err
			}
			out.Misses = n
		default:
			return Threshold{}, fmt.Errorf("unknown threshold metric %q", key)
		}
	}

	if out.IsEmpty() {
		return Threshold{}, errors.New("threshold must specify at least one metric")
	}
	return out, nil
}

// Evaluate checks every threshold against the report. Statement/branch
// checks need the summary section and misses checks need the lines section;
// a missing section is a usage error on the caller's part, reported as an
// error rather than a failed threshold.
func Evaluate(report model.Report, limits []Threshold) (Result, error) {
	if len(limits) == 0 {
		return Result{Passed: true}, nil
	}

	needStmt, needBranch, needMisses := false, false, false
	for _, t := range limits {
		needStmt = needStmt || t.Statement != nil
		needBranch = needBranch || t.Branch != nil
		needMisses = needMisses || t.Misses != nil
	}

	var stmtPct, branchPct float64
	if needStmt || needBranch {
		summary := report.Sections.Summary
		if summary == nil {
			return Result{}, errors.New("threshold evaluation requires the summary section in the report")
		}
		stmtPct = model.Pct(summary.Totals.Statements.Covered, summary.Totals.Statements.Total)
		branchPct = model.Pct(summary.Totals.Branches.Covered, summary.Totals.Branches.Total)
	}

	var missTotal int
	if needMisses {
		lines := report.Sections.Lines
		if lines == nil {
			return Result{}, errors.New("misses threshold evaluation requires the lines section in the report")
		}
		missTotal = countLineMisses(*lines)
	}

	var failures []Failure
	for _, t := range limits {
		if t.Statement != nil && stmtPct < *t.Statement {
			failures = append(failures, Failure{
				Metric: "statement", Required: *t.Statement, Actual: stmtPct, Comparison: ">=",
			})
		}
	}
	for _, t := range limits {
		if t.Branch != nil && branchPct < *t.Branch {
			failures = append(failures, Failure{
				Metric: "branch", Required: *t.Branch, Actual: branchPct, Comparison: ">=",
			})
		}
	}
	for _, t := range limits {
		if t.Misses != nil && missTotal > *t.Misses {
			failures = append(failures, Failure{
				Metric: "misses", Required: float64(*t.Misses), Actual: float64(missTotal), Comparison: "<=",
			})
		}
	}

	return Result{Passed: len(failures) == 0, Failures: failures}, nil
}

// countLineMisses sums uncovered line counts across all ranges in the lines
// section.
func countLineMisses(lines model.LinesSection) int {
	total := 0
	for _, f := range lines.Files {
		for _, r := range f.Uncovered {
			total += r.LineCount()
		}
	}
	return total
}

func parsePercentage(value string, existing *float64, token string) (*float64, error) {
	if existing != nil {
		return nil, fmt.Errorf("duplicate percentage constraint in %q", token)
	}
	pct, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid percentage value in %q: %q", token, value)
	}
	if pct < 0 || pct > model.FullCoverage {
		return nil, fmt.Errorf("percentage out of range in %q: %v", token, pct)
	}
	return &pct, nil
}

func parseCount(value string, existing *int, token string) (*int, error) {
	if existing != nil {
		return nil, fmt.Errorf("duplicate numeric constraint in %q", token)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid integer value in %q: %q", token, value)
	}
	if n < 0 {
		return nil, fmt.Errorf("numeric threshold must be non-negative in %q: %d", token, n)
	}
	return &n, nil
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
