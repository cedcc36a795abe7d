package model

// BranchCounts is a (covered, total) branch pair for one line, as reported by
// a single coverage input.
type BranchCounts struct {
	Covered int `json:"covered"`
	Total   int `json:"total"`
}

// BranchCondition is a single decision-point outcome with an optional
// coverage percentage. A nil Coverage means the branch is known to exist but
// its coverage is unknown/uninstrumented; renderers must not invent a value.
type BranchCondition struct {
	Number   int    `json:"number"`
	Type     string `json:"type,omitempty"`
	Coverage *int   `json:"coverage"` // 0..100, nil when unknown
}

// CoveragePct returns coverage and true, or 0 and false when unknown.
func (c BranchCondition) CoveragePct() (int, bool) {
	if c.Coverage == nil {
		return 0, false
	}
	return *c.Coverage, true
}

// Record is one normalized line-coverage fact from one input report. It is
// produced by an ingestion parser and treated as read-only by the builders.
// Several Records may share (File, Line); that is the expected multi-report
// merge case.
type Record struct {
	File            string
	Line            int
	Hits            int
	BranchCounts    *BranchCounts
	MissingBranches []int
	Conditions      []BranchCondition
}

// CoverageOf is a small helper for building conditions with a known
// percentage in one expression.
func CoverageOf(pct int) *int {
	return &pct
}
