package render

import (
	"fmt"
	"strings"

	"github.com/IgorBayerl/showcov/internal/model"
)

// RgRenderer emits grep-style output: "file:line:code" for uncovered lines
// and "file:line-code" for surrounding context, so the report can be piped
// into tools that already understand ripgrep output.
type RgRenderer struct {
}

func NewRgRenderer() Renderer {
	return &RgRenderer{}
}

func init() {
	RegisterRenderer(NewRgRenderer())
}

func (rr *RgRenderer) Name() string {
	return "rg"
}

func (rr *RgRenderer) Render(rep model.Report, opts Options) (string, error) {
	var b strings.Builder

	if lines := rep.Sections.Lines; lines != nil {
		for _, f := range lines.Files {
			rr.renderFile(&b, f, opts)
		}
	}
	if branches := rep.Sections.Branches; branches != nil {
		for _, gap := range branches.Gaps {
			labels := make([]string, 0, len(gap.Conditions))
			for _, c := range gap.Conditions {
				labels = append(labels, conditionLabel(c))
			}
			b.WriteString(location(gap.File, fmt.Sprint(gap.Line), opts))
			b.WriteString(":")
			b.WriteString(strings.Join(labels, ", "))
			b.WriteString("\n")
		}
	}
	if diff := rep.Sections.Diff; diff != nil {
		for _, f := range diff.New {
			for _, r := range f.Uncovered {
				fmt.Fprintf(&b, "+%s\n", location(f.File, rangeLabel(r), opts))
			}
		}
		for _, f := range diff.Resolved {
			for _, r := range f.Uncovered {
				fmt.Fprintf(&b, "-%s\n", location(f.File, rangeLabel(r), opts))
			}
		}
	}

	return b.String(), nil
}

func (rr *RgRenderer) renderFile(b *strings.Builder, f model.UncoveredFile, opts Options) {
	for _, r := range f.Uncovered {
		if len(r.Source) == 0 {
			fmt.Fprintf(b, "%s\n", location(f.File, rangeLabel(r), opts))
			continue
		}
		for _, sl := range r.Source {
			sep := ":"
			if sl.Line != 0 && (sl.Line < r.Start || sl.Line > r.End) {
				sep = "-"
			}
			if sl.Line != 0 {
				fmt.Fprintf(b, "%s%s%s\n", location(f.File, fmt.Sprint(sl.Line), opts), sep, sl.Code)
			} else {
				fmt.Fprintf(b, "%s%s%s\n", fileOnly(f.File, opts), sep, sl.Code)
			}
		}
	}
}

func location(file, pos string, opts Options) string {
	if opts.ShowPaths && file != "" {
		return file + ":" + pos
	}
	return pos
}

func fileOnly(file string, opts Options) string {
	if opts.ShowPaths && file != "" {
		return file
	}
	return ""
}
