// Package enrich attaches source snippets to a built report's uncovered
// ranges and fills in per-file line totals. Enrichment never mutates the
// input report; it returns a new value with the lines section rebuilt. It
// is a best-effort step: files that cannot be read simply contribute no
// snippet and no total.
package enrich

import (
	"path/filepath"
	"strings"

	"github.com/IgorBayerl/showcov/internal/filereader"
	"github.com/IgorBayerl/showcov/internal/model"
)

// Options controls snippet extraction. WithCode selects snippet
// attachment; per-file totals are filled in either way.
type Options struct {
	BaseDir         string
	WithCode        bool
	ContextBefore   int
	ContextAfter    int
	ShowLineNumbers bool
}

// Report returns a copy of rep whose lines-section ranges carry source
// snippets. File reads go through the caller-owned cache.
func Report(rep model.Report, cache *filereader.Cache, opts Options) model.Report {
	lines := rep.Sections.Lines
	if lines == nil {
		return rep
	}

	out := rep
	enriched := model.LinesSection{
		Files:   make([]model.UncoveredFile, len(lines.Files)),
		Summary: lines.Summary,
	}
	for i, f := range lines.Files {
		enriched.Files[i] = enrichFile(f, cache, opts)
	}
	out.Sections.Lines = &enriched
	return out
}

func enrichFile(f model.UncoveredFile, cache *filereader.Cache, opts Options) model.UncoveredFile {
	path := resolveSourcePath(f.File, opts.BaseDir)
	out := f

	// Per-file stats built from coverage records alone cannot know the file
	// length; fill the total in now that the source is at hand.
	if f.Counts != nil && f.Counts.Total == 0 {
		if total, err := filereader.CountLinesInFile(path); err == nil {
			counts := *f.Counts
			counts.Total = total
			out.Counts = &counts
		}
	}

	if !opts.WithCode {
		return out
	}
	fileLines := cache.ReadLines(path)
	if len(fileLines) == 0 {
		return out
	}

	out.Uncovered = make([]model.UncoveredRange, len(f.Uncovered))
	for i, r := range f.Uncovered {
		out.Uncovered[i] = enrichRange(r, fileLines, opts)
	}
	return out
}

func enrichRange(r model.UncoveredRange, fileLines []string, opts Options) model.UncoveredRange {
	maxLine := len(fileLines)
	start := r.Start - opts.ContextBefore
	if start < 1 {
		start = 1
	}
	end := r.End + opts.ContextAfter
	if end > maxLine {
		end = maxLine
	}

	var src []model.SourceLine
	for lineno := start; lineno <= end; lineno++ {
		code := ""
		if lineno >= 1 && lineno <= maxLine {
			code = fileLines[lineno-1]
		}
		sl := model.SourceLine{Code: code, Tag: detectLineTag(code)}
		if opts.ShowLineNumbers {
			sl.Line = lineno
		}
		src = append(src, sl)
	}

	out := r
	out.Source = src
	return out
}

func resolveSourcePath(fileLabel, base string) string {
	if filepath.IsAbs(fileLabel) || base == "" {
		return fileLabel
	}
	return filepath.Join(base, fileLabel)
}

// detectLineTag classifies a source line for renderers that want a little
// structure. The heuristic is deliberately shallow and language-agnostic.
func detectLineTag(code string) string {
	s := strings.TrimSpace(code)
	switch {
	case s == "":
		return "blank"
	case strings.HasPrefix(s, "#") || strings.HasPrefix(s, "//"):
		return "comment"
	case hasAnyPrefix(s, "def ", "class ", "func ", "fn "):
		return "def"
	case hasAnyPrefix(s, "if ", "elif ", "else", "for ", "while ", "switch ", "case ", "try", "except", "catch", "with "):
		return "control"
	}
	return ""
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
