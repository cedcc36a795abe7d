package builder

import (
	"errors"

	"github.com/IgorBayerl/showcov/internal/model"
	"github.com/IgorBayerl/showcov/internal/pathfilter"
)

// ErrDiffBaseMissing is returned when the diff section is requested without
// baseline records to diff against.
var ErrDiffBaseMissing = errors.New("diff section requested but no baseline records were provided")

// BuildOptions configures one report build.
type BuildOptions struct {
	// Sections to build; anything not named stays nil in the Report.
	Sections []model.SectionName

	BranchMode  model.BranchMode
	SummarySort model.SummarySort

	// BaseDir anchors display paths and the path filter.
	BaseDir string
	Filter  *pathfilter.PathFilter

	AggregateStats bool
	FileStats      bool

	// BaselineRecords feed the diff section.
	BaselineRecords []model.Record

	// Meta fields recorded on the report.
	CoverageXML     string
	ContextBefore   int
	ContextAfter    int
	WithCode        bool
	ShowPaths       bool
	ShowLineNumbers bool
}

func (o BuildOptions) wants(name model.SectionName) bool {
	for _, s := range o.Sections {
		if s == name {
			return true
		}
	}
	return false
}

// BuildReport folds the records into one immutable Report, building only the
// requested sections. The build is a one-shot synchronous operation; the
// result never changes after it is returned.
func BuildReport(records []model.Record, opts BuildOptions) (model.Report, error) {
	contextLines := opts.ContextBefore
	if opts.ContextAfter > contextLines {
		contextLines = opts.ContextAfter
	}
	meta := model.ReportMeta{
		Environment: model.EnvironmentMeta{CoverageXML: opts.CoverageXML},
		Options: model.OptionsMeta{
			ContextLines:    contextLines,
			WithCode:        opts.WithCode,
			ShowPaths:       opts.ShowPaths,
			ShowLineNumbers: opts.ShowLineNumbers,
			AggregateStats:  opts.AggregateStats,
			FileStats:       opts.FileStats,
		},
	}

	var sections model.ReportSections

	linesOpts := LinesOptions{
		BaseDir:        opts.BaseDir,
		Filter:         opts.Filter,
		AggregateStats: opts.AggregateStats,
		FileStats:      opts.FileStats,
	}

	// The diff builder consumes lines sections, so one is built whenever
	// lines or diff is requested; it is only attached to the report when
	// lines was asked for.
	var current *model.LinesSection
	if opts.wants(model.SectionLines) || opts.wants(model.SectionDiff) {
		sec := BuildLines(records, linesOpts)
		current = &sec
	}
	if opts.wants(model.SectionLines) {
		sections.Lines = current
	}

	if opts.wants(model.SectionBranches) {
		sec := BuildBranches(records, BranchesOptions{
			BaseDir: opts.BaseDir,
			Filter:  opts.Filter,
			Mode:    opts.BranchMode,
		})
		sections.Branches = &sec
	}

	if opts.wants(model.SectionSummary) {
		sec := BuildSummary(records, SummaryOptions{
			BaseDir: opts.BaseDir,
			Filter:  opts.Filter,
			Sort:    opts.SummarySort,
		})
		sections.Summary = &sec
	}

	if opts.wants(model.SectionDiff) {
		if opts.BaselineRecords == nil {
			return model.Report{}, ErrDiffBaseMissing
		}
		baseOpts := linesOpts
		baseOpts.AggregateStats = false
		baseOpts.FileStats = false
		baseline := BuildLines(opts.BaselineRecords, baseOpts)
		sec := BuildDiff(baseline, *current)
		sections.Diff = &sec
	}

	return model.Report{Meta: meta, Sections: sections}, nil
}
