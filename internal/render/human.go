package render

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/IgorBayerl/showcov/internal/model"
)

// HumanRenderer writes terminal-friendly text: per-file range listings,
// branch gap lists and an aligned summary table.
type HumanRenderer struct {
}

func NewHumanRenderer() Renderer {
	return &HumanRenderer{}
}

func init() {
	RegisterRenderer(NewHumanRenderer())
}

func (hr *HumanRenderer) Name() string {
	return "human"
}

func (hr *HumanRenderer) Render(rep model.Report, opts Options) (string, error) {
	heading := color.New(color.Bold).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()
	if !opts.Color {
		identity := func(a ...interface{}) string { return fmt.Sprint(a...) }
		heading = identity
		warn = identity
	}

	var blocks []string
	if lines := rep.Sections.Lines; lines != nil {
		blocks = append(blocks, hr.renderLines(*lines, heading, opts))
	}
	if branches := rep.Sections.Branches; branches != nil {
		blocks = append(blocks, hr.renderBranches(*branches, heading, warn, opts))
	}
	if summary := rep.Sections.Summary; summary != nil {
		blocks = append(blocks, hr.renderSummary(*summary, heading))
	}
	if diff := rep.Sections.Diff; diff != nil {
		blocks = append(blocks, hr.renderDiff(*diff, heading, opts))
	}
	if len(blocks) == 0 {
		return "", nil
	}
	return strings.Join(blocks, "\n\n") + "\n", nil
}

func (hr *HumanRenderer) renderLines(lines model.LinesSection, heading func(...interface{}) string, opts Options) string {
	var b strings.Builder
	b.WriteString(heading("Uncovered lines"))
	b.WriteString("\n")

	if len(lines.Files) == 0 {
		b.WriteString(msgNoLines)
	}
	for _, f := range lines.Files {
		if opts.ShowPaths && f.File != "" {
			fmt.Fprintf(&b, "%s\n", f.File)
		}
		for _, r := range f.Uncovered {
			fmt.Fprintf(&b, "  %s", rangeLabel(r))
			if r.LineCount() > 1 {
				fmt.Fprintf(&b, " (%d lines)", r.LineCount())
			}
			b.WriteString("\n")
			for _, sl := range r.Source {
				if sl.Line > 0 && opts.ShowLineNumbers {
					fmt.Fprintf(&b, "    %6d  %s\n", sl.Line, sl.Code)
				} else {
					fmt.Fprintf(&b, "    %s\n", sl.Code)
				}
			}
		}
		if f.Counts != nil {
			fmt.Fprintf(&b, "  %d uncovered line(s)\n", f.Counts.Uncovered)
		}
	}
	if lines.Summary != nil {
		fmt.Fprintf(&b, "Total uncovered lines: %d\n", lines.Summary.Uncovered)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (hr *HumanRenderer) renderBranches(branches model.BranchesSection, heading, warn func(...interface{}) string, opts Options) string {
	var b strings.Builder
	b.WriteString(heading("Uncovered branches"))
	b.WriteString("\n")

	if len(branches.Gaps) == 0 {
		b.WriteString(msgNoBranches)
		return b.String()
	}
	for _, gap := range branches.Gaps {
		prefix := fmt.Sprintf("line %d", gap.Line)
		if opts.ShowPaths && gap.File != "" {
			prefix = fmt.Sprintf("%s:%d", gap.File, gap.Line)
		}
		labels := make([]string, 0, len(gap.Conditions))
		for _, c := range gap.Conditions {
			labels = append(labels, conditionLabel(c))
		}
		if len(labels) == 0 {
			fmt.Fprintf(&b, "  %s\n", prefix)
			continue
		}
		fmt.Fprintf(&b, "  %s  %s\n", prefix, warn(strings.Join(labels, ", ")))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (hr *HumanRenderer) renderSummary(summary model.SummarySection, heading func(...interface{}) string) string {
	var b strings.Builder
	b.WriteString(heading("Coverage summary"))
	b.WriteString("\n")

	if len(summary.Files) == 0 {
		b.WriteString(msgNoSummary)
		return b.String()
	}

	tw := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "File\tStmts\tStmt%\tBranches\tBranch%\tUncovered\t")
	for _, row := range summary.Files {
		tags := summaryTags(row)
		fmt.Fprintf(tw, "%s%s\t%d/%d\t%s\t%d/%d\t%s\t%d\t\n",
			row.File, tags,
			row.Statements.Covered, row.Statements.Total,
			formatPct(row.StatementPct),
			row.Branches.Covered, row.Branches.Total,
			formatOptionalPct(row.BranchPct),
			row.UncoveredLines,
		)
	}
	totals := summary.Totals
	fmt.Fprintf(tw, "TOTAL\t%d/%d\t%s\t%d/%d\t%s\t\t\n",
		totals.Statements.Covered, totals.Statements.Total,
		formatPct(model.Pct(totals.Statements.Covered, totals.Statements.Total)),
		totals.Branches.Covered, totals.Branches.Total,
		formatPct(model.Pct(totals.Branches.Covered, totals.Branches.Total)),
	)
	tw.Flush()

	if summary.FilesWithBranches == 0 && summary.TotalFiles > 0 {
		b.WriteString("Note: no branch instrumentation found in any file.\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (hr *HumanRenderer) renderDiff(diff model.DiffSection, heading func(...interface{}) string, opts Options) string {
	var b strings.Builder
	b.WriteString(heading("Coverage diff"))
	b.WriteString("\n")

	b.WriteString("New uncovered:\n")
	b.WriteString(renderDiffFiles(diff.New, msgNoDiffNew, opts))
	b.WriteString("\nResolved:\n")
	b.WriteString(renderDiffFiles(diff.Resolved, msgNoDiffResolved, opts))
	return strings.TrimRight(b.String(), "\n")
}

func renderDiffFiles(files []model.UncoveredFile, emptyMsg string, opts Options) string {
	if len(files) == 0 {
		return "  " + emptyMsg + "\n"
	}
	var b strings.Builder
	for _, f := range files {
		labels := make([]string, 0, len(f.Uncovered))
		for _, r := range f.Uncovered {
			labels = append(labels, rangeLabel(r))
		}
		if opts.ShowPaths && f.File != "" {
			fmt.Fprintf(&b, "  %s: %s\n", f.File, strings.Join(labels, ", "))
		} else {
			fmt.Fprintf(&b, "  %s\n", strings.Join(labels, ", "))
		}
	}
	return b.String()
}

func summaryTags(row model.SummaryRow) string {
	var tags []string
	if row.Untested {
		tags = append(tags, "untested")
	}
	if row.Tiny {
		tags = append(tags, "tiny")
	}
	if len(tags) == 0 {
		return ""
	}
	return " [" + strings.Join(tags, ",") + "]"
}

func formatPct(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

func formatOptionalPct(pct *float64) string {
	if pct == nil {
		return "-"
	}
	return formatPct(*pct)
}
