package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IgorBayerl/showcov/internal/builder"
	"github.com/IgorBayerl/showcov/internal/enrich"
	"github.com/IgorBayerl/showcov/internal/filereader"
	"github.com/IgorBayerl/showcov/internal/filesystem"
	"github.com/IgorBayerl/showcov/internal/inputs"
	"github.com/IgorBayerl/showcov/internal/model"
	"github.com/IgorBayerl/showcov/internal/pathfilter"
	"github.com/IgorBayerl/showcov/internal/render"
	"github.com/IgorBayerl/showcov/internal/thresholds"
)

// sourceCacheSize bounds how many source files enrichment keeps in memory
// at once.
const sourceCacheSize = 256

// reportFlags collects everything a report-producing command needs. The
// diff command reuses it with a fixed section set.
type reportFlags struct {
	covPaths []string
	sections []string

	branchMode string
	sortKey    string

	include     []string
	exclude     []string
	includeFrom []string
	excludeFrom []string

	baseDir        string
	aggregateStats bool
	fileStats      bool

	withCode      bool
	context       int
	contextBefore int
	contextAfter  int

	hidePaths       bool
	hideLineNumbers bool

	thresholdExprs []string

	format string
	color  bool
}

func (rf *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&rf.covPaths, "cov", nil, "coverage XML file or glob pattern (repeatable; default ./coverage.xml)")
	cmd.Flags().StringSliceVar(&rf.sections, "sections", []string{"lines"}, "report sections to build (lines,branches,summary)")
	cmd.Flags().StringVar(&rf.branchMode, "branch-mode", string(model.BranchModePartial), "branch conditions to report (all, partial, missing-only)")
	cmd.Flags().StringVar(&rf.sortKey, "sort", string(model.SortFile), "summary row order (file, stmt_cov, br_cov, miss_stmt, miss_br, uncovered_lines)")
	cmd.Flags().StringArrayVar(&rf.include, "include", nil, "only report files matching this glob (repeatable)")
	cmd.Flags().StringArrayVar(&rf.exclude, "exclude", nil, "skip files matching this glob (repeatable)")
	cmd.Flags().StringArrayVar(&rf.includeFrom, "include-from", nil, "file with include patterns, one per line")
	cmd.Flags().StringArrayVar(&rf.excludeFrom, "exclude-from", nil, "file with exclude patterns, one per line")
	cmd.Flags().StringVar(&rf.baseDir, "base-dir", "", "directory paths are displayed relative to (default: working directory)")
	cmd.Flags().BoolVar(&rf.aggregateStats, "aggregate-stats", false, "include the aggregate uncovered-lines total")
	cmd.Flags().BoolVar(&rf.fileStats, "file-stats", false, "include per-file uncovered counts")
	cmd.Flags().BoolVar(&rf.withCode, "with-code", false, "attach source snippets to uncovered ranges")
	cmd.Flags().IntVar(&rf.context, "context", 0, "context lines around snippets (sets both before and after)")
	cmd.Flags().IntVar(&rf.contextBefore, "context-before", 0, "context lines before snippets")
	cmd.Flags().IntVar(&rf.contextAfter, "context-after", 0, "context lines after snippets")
	cmd.Flags().BoolVar(&rf.hidePaths, "no-paths", false, "omit file paths from output")
	cmd.Flags().BoolVar(&rf.hideLineNumbers, "no-line-numbers", false, "omit line numbers from snippets")
	cmd.Flags().StringArrayVar(&rf.thresholdExprs, "threshold", nil, "coverage gate like 'statements=90,branches=80,misses=10' (repeatable)")
	cmd.Flags().StringVar(&rf.format, "format", "human", "output format (human, json, markdown, rg, html)")
	cmd.Flags().BoolVar(&rf.color, "color", false, "colorize human output")
}

// buildOptions validates the flags and assembles builder options plus the
// path filter.
func (rf *reportFlags) buildOptions(cmd *cobra.Command, state *rootState, sections []model.SectionName) (builder.BuildOptions, error) {
	branchMode, err := model.ParseBranchMode(state.configString(cmd, "branch-mode", "branch_mode", rf.branchMode))
	if err != nil {
		return builder.BuildOptions{}, err
	}
	sortKey, err := model.ParseSummarySort(state.configString(cmd, "sort", "sort", rf.sortKey))
	if err != nil {
		return builder.BuildOptions{}, err
	}

	baseDir := rf.baseDir
	if baseDir == "" {
		if baseDir, err = (filesystem.DefaultFS{}).Getwd(); err != nil {
			return builder.BuildOptions{}, err
		}
	}

	filter, err := rf.loadFilter(state, baseDir)
	if err != nil {
		return builder.BuildOptions{}, err
	}

	before, after := rf.contextBefore, rf.contextAfter
	if rf.context > 0 {
		before, after = rf.context, rf.context
	}

	return builder.BuildOptions{
		Sections:        sections,
		BranchMode:      branchMode,
		SummarySort:     sortKey,
		BaseDir:         baseDir,
		Filter:          filter,
		AggregateStats:  rf.aggregateStats,
		FileStats:       rf.fileStats,
		ContextBefore:   before,
		ContextAfter:    after,
		WithCode:        rf.withCode,
		ShowPaths:       !rf.hidePaths,
		ShowLineNumbers: !rf.hideLineNumbers,
	}, nil
}

func (rf *reportFlags) loadFilter(state *rootState, baseDir string) (*pathfilter.PathFilter, error) {
	include := state.configStrings("include", rf.include)
	exclude := state.configStrings("exclude", rf.exclude)

	for _, path := range rf.includeFrom {
		patterns, err := pathfilter.LoadPatternFile(path)
		if err != nil {
			return nil, err
		}
		include = append(include, patterns...)
	}
	for _, path := range rf.excludeFrom {
		patterns, err := pathfilter.LoadPatternFile(path)
		if err != nil {
			return nil, err
		}
		exclude = append(exclude, patterns...)
	}

	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}
	return pathfilter.New(include, exclude, baseDir)
}

func (rf *reportFlags) parseSections() ([]model.SectionName, error) {
	var out []model.SectionName
	for _, raw := range rf.sections {
		name, err := model.ParseSectionName(strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		if name == model.SectionDiff {
			return nil, fmt.Errorf("the diff section is built by the diff command")
		}
		out = append(out, name)
	}
	if len(out) == 0 {
		out = []model.SectionName{model.SectionLines}
	}
	return out, nil
}

func (rf *reportFlags) parseThresholds() ([]thresholds.Threshold, error) {
	var out []thresholds.Threshold
	for _, expr := range rf.thresholdExprs {
		t, err := thresholds.Parse(expr)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// runPipeline executes the shared tail of the report and diff commands:
// build, enrich, render, evaluate thresholds.
func (rf *reportFlags) runPipeline(cmd *cobra.Command, state *rootState, records []model.Record, opts builder.BuildOptions) error {
	rep, err := builder.BuildReport(records, opts)
	if err != nil {
		return err
	}

	if rf.withCode || rf.fileStats {
		cache := filereader.NewCache(sourceCacheSize)
		rep = enrich.Report(rep, cache, enrich.Options{
			BaseDir:         opts.BaseDir,
			WithCode:        rf.withCode,
			ContextBefore:   opts.ContextBefore,
			ContextAfter:    opts.ContextAfter,
			ShowLineNumbers: opts.ShowLineNumbers,
		})
	}

	format := state.configString(cmd, "format", "format", rf.format)
	renderer, err := render.FindRenderer(format)
	if err != nil {
		return err
	}
	output, err := renderer.Render(rep, render.Options{
		Color:           rf.color,
		ShowPaths:       opts.ShowPaths,
		ShowLineNumbers: opts.ShowLineNumbers,
	})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), output)

	limits, err := rf.parseThresholds()
	if err != nil {
		return err
	}
	if len(limits) == 0 {
		return nil
	}
	result, err := thresholds.Evaluate(rep, limits)
	if err != nil {
		return err
	}
	if !result.Passed {
		for _, f := range result.Failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "threshold failed: %s\n", f)
		}
		return ErrThresholdNotMet
	}
	return nil
}

// collectRecords resolves and parses the requested coverage inputs.
func collectRecords(covPaths []string) ([]model.Record, []string, error) {
	paths, err := inputs.ResolveReportPaths(filesystem.DefaultFS{}, covPaths)
	if err != nil {
		return nil, nil, err
	}
	records, err := inputs.CollectRecords(paths)
	if err != nil {
		return nil, nil, err
	}
	return records, paths, nil
}
