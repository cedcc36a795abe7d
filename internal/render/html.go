package render

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/IgorBayerl/showcov/internal/model"
)

// HTMLRenderer writes the report as a standalone HTML document. The document
// is assembled as an html.Node tree and serialized with html.Render, which
// takes care of escaping file paths and source snippets.
type HTMLRenderer struct {
}

func NewHTMLRenderer() Renderer {
	return &HTMLRenderer{}
}

func init() {
	RegisterRenderer(NewHTMLRenderer())
}

func (hr *HTMLRenderer) Name() string {
	return "html"
}

func (hr *HTMLRenderer) Render(rep model.Report, opts Options) (string, error) {
	body := elem("body")
	if lines := rep.Sections.Lines; lines != nil {
		hr.renderLines(body, *lines, opts)
	}
	if branches := rep.Sections.Branches; branches != nil {
		hr.renderBranches(body, *branches, opts)
	}
	if summary := rep.Sections.Summary; summary != nil {
		hr.renderSummary(body, *summary)
	}
	if diff := rep.Sections.Diff; diff != nil {
		hr.renderDiff(body, *diff, opts)
	}

	doc := elem("html", body)
	var b strings.Builder
	if err := html.Render(&b, doc); err != nil {
		return "", fmt.Errorf("render html report: %w", err)
	}
	return b.String() + "\n", nil
}

func (hr *HTMLRenderer) renderLines(body *html.Node, lines model.LinesSection, opts Options) {
	if len(lines.Files) == 0 {
		body.AppendChild(elem("p", text(msgNoLines)))
		return
	}
	for _, f := range lines.Files {
		label := f.File
		if !opts.ShowPaths || label == "" {
			label = "-"
		}
		body.AppendChild(elem("h2", text(label)))
		for _, r := range f.Uncovered {
			header := fmt.Sprintf("Lines %d-%d", r.Start, r.End)
			if r.Start == r.End {
				header = fmt.Sprintf("Line %d", r.Start)
			}
			body.AppendChild(elem("h3", text(header)))
			if len(r.Source) > 0 {
				body.AppendChild(elem("pre", text(snippetText(r.Source))))
			}
		}
	}
	if lines.Summary != nil {
		body.AppendChild(elem("p", text(fmt.Sprintf("Total uncovered lines: %d", lines.Summary.Uncovered))))
	}
}

func (hr *HTMLRenderer) renderBranches(body *html.Node, branches model.BranchesSection, opts Options) {
	body.AppendChild(elem("h2", text("Uncovered branches")))
	if len(branches.Gaps) == 0 {
		body.AppendChild(elem("p", text(msgNoBranches)))
		return
	}
	list := elem("ul")
	for _, gap := range branches.Gaps {
		loc := fmt.Sprintf("line %d", gap.Line)
		if opts.ShowPaths && gap.File != "" {
			loc = fmt.Sprintf("%s:%d", gap.File, gap.Line)
		}
		labels := make([]string, 0, len(gap.Conditions))
		for _, c := range gap.Conditions {
			labels = append(labels, conditionLabel(c))
		}
		entry := loc
		if len(labels) > 0 {
			entry = fmt.Sprintf("%s  %s", loc, strings.Join(labels, ", "))
		}
		list.AppendChild(elem("li", text(entry)))
	}
	body.AppendChild(list)
}

func (hr *HTMLRenderer) renderSummary(body *html.Node, summary model.SummarySection) {
	body.AppendChild(elem("h2", text("Coverage summary")))
	if len(summary.Files) == 0 {
		body.AppendChild(elem("p", text(msgNoSummary)))
		return
	}
	table := elem("table")
	table.AppendChild(summaryHeaderRow())
	for _, row := range summary.Files {
		table.AppendChild(summaryDataRow(
			row.File+summaryTags(row),
			row.Statements, formatPct(row.StatementPct),
			row.Branches, formatOptionalPct(row.BranchPct),
			fmt.Sprintf("%d", row.UncoveredLines),
		))
	}
	totals := summary.Totals
	table.AppendChild(summaryDataRow(
		"TOTAL",
		totals.Statements, formatPct(model.Pct(totals.Statements.Covered, totals.Statements.Total)),
		totals.Branches, formatPct(model.Pct(totals.Branches.Covered, totals.Branches.Total)),
		"",
	))
	body.AppendChild(table)
}

func (hr *HTMLRenderer) renderDiff(body *html.Node, diff model.DiffSection, opts Options) {
	body.AppendChild(elem("h2", text("Coverage diff")))
	body.AppendChild(elem("h3", text("New uncovered")))
	htmlDiffFiles(body, diff.New, msgNoDiffNew, opts)
	body.AppendChild(elem("h3", text("Resolved")))
	htmlDiffFiles(body, diff.Resolved, msgNoDiffResolved, opts)
}

func htmlDiffFiles(body *html.Node, files []model.UncoveredFile, emptyMsg string, opts Options) {
	if len(files) == 0 {
		body.AppendChild(elem("p", text(emptyMsg)))
		return
	}
	list := elem("ul")
	for _, f := range files {
		labels := make([]string, 0, len(f.Uncovered))
		for _, r := range f.Uncovered {
			labels = append(labels, rangeLabel(r))
		}
		entry := strings.Join(labels, ", ")
		if opts.ShowPaths && f.File != "" {
			entry = fmt.Sprintf("%s: %s", f.File, entry)
		}
		list.AppendChild(elem("li", text(entry)))
	}
	body.AppendChild(list)
}

func summaryHeaderRow() *html.Node {
	tr := elem("tr")
	for _, h := range []string{"File", "Stmts", "Stmt %", "Branches", "Branch %", "Uncovered"} {
		tr.AppendChild(elem("th", text(h)))
	}
	return tr
}

func summaryDataRow(file string, stmts model.SummaryCounts, stmtPct string, branches model.SummaryCounts, branchPct, uncovered string) *html.Node {
	tr := elem("tr")
	for _, v := range []string{
		file,
		fmt.Sprintf("%d/%d", stmts.Covered, stmts.Total),
		stmtPct,
		fmt.Sprintf("%d/%d", branches.Covered, branches.Total),
		branchPct,
		uncovered,
	} {
		tr.AppendChild(elem("td", text(v)))
	}
	return tr
}

// snippetText flattens enriched source lines into the text of a pre block,
// prefixing line numbers when the enrichment step kept them.
func snippetText(source []model.SourceLine) string {
	lines := make([]string, 0, len(source))
	for _, sl := range source {
		if sl.Line > 0 {
			lines = append(lines, fmt.Sprintf("%d: %s", sl.Line, sl.Code))
		} else {
			lines = append(lines, sl.Code)
		}
	}
	return strings.Join(lines, "\n")
}

func elem(tag string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
