// Package pathfilter implements the include/exclude path predicate applied to
// every file label before it enters a report section.
//
// Patterns are doublestar globs (`*`, `?`, `**`, `{a,b}`, `[...]`). A path is
// matched in two normalized forms, relative to the filter's base directory and
// as given, so absolute and relative inputs behave uniformly.
package pathfilter

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PathFilter combines include and exclude glob patterns against a base
// directory. The zero-pattern filter allows everything. A PathFilter is
// immutable once constructed.
type PathFilter struct {
	include []string
	exclude []string
	base    string
}

// New compiles a filter from include/exclude patterns. Invalid glob syntax is
// reported up front rather than silently matching nothing.
func New(include, exclude []string, base string) (*PathFilter, error) {
	inc := dedupe(include)
	exc := dedupe(exclude)
	for _, pat := range append(append([]string{}, inc...), exc...) {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid filter pattern %q", pat)
		}
	}
	return &PathFilter{include: inc, exclude: exc, base: base}, nil
}

// LoadPatternFile reads glob patterns from a file, one per line. Blank lines
// and lines starting with '#' are ignored.
func LoadPatternFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern file: %w", err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pattern file %s: %w", path, err)
	}
	return out, nil
}

// HasPatterns reports whether any include or exclude patterns were given.
func (pf *PathFilter) HasPatterns() bool {
	return len(pf.include) > 0 || len(pf.exclude) > 0
}

// Allow reports whether the path passes the filter: if include patterns
// exist, the path must match at least one; a matching exclude pattern rejects
// the path regardless of includes.
func (pf *PathFilter) Allow(path string) bool {
	rel, raw := pf.labels(path)

	if len(pf.include) > 0 {
		if !matchAny(pf.include, rel, raw) {
			return false
		}
	}
	if matchAny(pf.exclude, rel, raw) {
		return false
	}
	return true
}

// FilterFiles returns the paths that pass the filter, preserving order.
func (pf *PathFilter) FilterFiles(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if pf.Allow(p) {
			out = append(out, p)
		}
	}
	return out
}

// labels normalizes a path two ways: relative to the base directory and as
// given, both in slash form.
func (pf *PathFilter) labels(path string) (rel string, raw string) {
	raw = filepath.ToSlash(filepath.Clean(path))

	abs := path
	if !filepath.IsAbs(abs) && pf.base != "" {
		abs = filepath.Join(pf.base, abs)
	}
	if pf.base != "" {
		if r, err := filepath.Rel(pf.base, abs); err == nil && !strings.HasPrefix(r, "..") {
			return filepath.ToSlash(r), raw
		}
	}
	return raw, raw
}

func matchAny(patterns []string, rel, raw string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pat, raw); err == nil && ok {
			return true
		}
	}
	return false
}

func dedupe(patterns []string) []string {
	seen := make(map[string]struct{}, len(patterns))
	var out []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
