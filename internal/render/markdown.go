package render

import (
	"fmt"
	"strings"

	"github.com/IgorBayerl/showcov/internal/model"
)

// MarkdownRenderer writes the report as GitHub-flavored markdown, suitable
// for CI job summaries and pull request comments.
type MarkdownRenderer struct {
}

func NewMarkdownRenderer() Renderer {
	return &MarkdownRenderer{}
}

func init() {
	RegisterRenderer(NewMarkdownRenderer())
}

func (mr *MarkdownRenderer) Name() string {
	return "markdown"
}

func (mr *MarkdownRenderer) Render(rep model.Report, opts Options) (string, error) {
	var blocks []string
	if lines := rep.Sections.Lines; lines != nil {
		blocks = append(blocks, mr.renderLines(*lines, opts))
	}
	if branches := rep.Sections.Branches; branches != nil {
		blocks = append(blocks, mr.renderBranches(*branches, opts))
	}
	if summary := rep.Sections.Summary; summary != nil {
		blocks = append(blocks, mr.renderSummary(*summary))
	}
	if diff := rep.Sections.Diff; diff != nil {
		blocks = append(blocks, mr.renderDiff(*diff, opts))
	}
	if len(blocks) == 0 {
		return "", nil
	}
	return strings.Join(blocks, "\n\n") + "\n", nil
}

func (mr *MarkdownRenderer) renderLines(lines model.LinesSection, opts Options) string {
	var b strings.Builder
	b.WriteString("## Uncovered lines\n\n")
	if len(lines.Files) == 0 {
		b.WriteString(msgNoLines)
		return b.String()
	}

	b.WriteString("| File | Ranges | Lines |\n|---|---|---:|\n")
	for _, f := range lines.Files {
		labels := make([]string, 0, len(f.Uncovered))
		total := 0
		for _, r := range f.Uncovered {
			labels = append(labels, rangeLabel(r))
			total += r.LineCount()
		}
		label := f.File
		if !opts.ShowPaths || label == "" {
			label = "-"
		}
		fmt.Fprintf(&b, "| `%s` | %s | %d |\n", label, strings.Join(labels, ", "), total)
	}
	if lines.Summary != nil {
		fmt.Fprintf(&b, "\nTotal uncovered lines: **%d**\n", lines.Summary.Uncovered)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (mr *MarkdownRenderer) renderBranches(branches model.BranchesSection, opts Options) string {
	var b strings.Builder
	b.WriteString("## Uncovered branches\n\n")
	if len(branches.Gaps) == 0 {
		b.WriteString(msgNoBranches)
		return b.String()
	}

	b.WriteString("| Location | Conditions |\n|---|---|\n")
	for _, gap := range branches.Gaps {
		loc := fmt.Sprintf("line %d", gap.Line)
		if opts.ShowPaths && gap.File != "" {
			loc = fmt.Sprintf("`%s:%d`", gap.File, gap.Line)
		}
		labels := make([]string, 0, len(gap.Conditions))
		for _, c := range gap.Conditions {
			labels = append(labels, conditionLabel(c))
		}
		fmt.Fprintf(&b, "| %s | %s |\n", loc, strings.Join(labels, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (mr *MarkdownRenderer) renderSummary(summary model.SummarySection) string {
	var b strings.Builder
	b.WriteString("## Coverage summary\n\n")
	if len(summary.Files) == 0 {
		b.WriteString(msgNoSummary)
		return b.String()
	}

	b.WriteString("| File | Stmts | Stmt % | Branches | Branch % | Uncovered |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|\n")
	for _, row := range summary.Files {
		fmt.Fprintf(&b, "| `%s`%s | %d/%d | %s | %d/%d | %s | %d |\n",
			row.File, summaryTags(row),
			row.Statements.Covered, row.Statements.Total,
			formatPct(row.StatementPct),
			row.Branches.Covered, row.Branches.Total,
			formatOptionalPct(row.BranchPct),
			row.UncoveredLines,
		)
	}
	totals := summary.Totals
	fmt.Fprintf(&b, "| **TOTAL** | %d/%d | %s | %d/%d | %s | |\n",
		totals.Statements.Covered, totals.Statements.Total,
		formatPct(model.Pct(totals.Statements.Covered, totals.Statements.Total)),
		totals.Branches.Covered, totals.Branches.Total,
		formatPct(model.Pct(totals.Branches.Covered, totals.Branches.Total)),
	)
	return strings.TrimRight(b.String(), "\n")
}

func (mr *MarkdownRenderer) renderDiff(diff model.DiffSection, opts Options) string {
	var b strings.Builder
	b.WriteString("## Coverage diff\n\n")
	b.WriteString("### New uncovered\n\n")
	b.WriteString(markdownDiffFiles(diff.New, msgNoDiffNew, opts))
	b.WriteString("\n\n### Resolved\n\n")
	b.WriteString(markdownDiffFiles(diff.Resolved, msgNoDiffResolved, opts))
	return strings.TrimRight(b.String(), "\n")
}

func markdownDiffFiles(files []model.UncoveredFile, emptyMsg string, opts Options) string {
	if len(files) == 0 {
		return emptyMsg
	}
	var b strings.Builder
	for _, f := range files {
		labels := make([]string, 0, len(f.Uncovered))
		for _, r := range f.Uncovered {
			labels = append(labels, rangeLabel(r))
		}
		if opts.ShowPaths && f.File != "" {
			fmt.Fprintf(&b, "- `%s`: %s\n", f.File, strings.Join(labels, ", "))
		} else {
			fmt.Fprintf(&b, "- %s\n", strings.Join(labels, ", "))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
