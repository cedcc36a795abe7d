// Package inputs resolves coverage report files on disk and turns them into
// normalized records via the parser registry. All fallibility of the
// ingestion boundary lives here; the builders downstream are pure.
package inputs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/IgorBayerl/showcov/internal/filesystem"
	"github.com/IgorBayerl/showcov/internal/model"
	"github.com/IgorBayerl/showcov/internal/parser"
)

// DefaultReportName is tried in the working directory when no inputs are
// given.
const DefaultReportName = "coverage.xml"

// ErrNoCoverageInput indicates that no coverage report could be located.
var ErrNoCoverageInput = errors.New("no coverage report found")

// ResolveReportPaths expands the given paths/glob patterns into a
// deduplicated list of existing report files. With no arguments it falls
// back to ./coverage.xml. An argument that matches nothing is an error, not
// a silent skip.
func ResolveReportPaths(fsys filesystem.Filesystem, args []string) ([]string, error) {
	if len(args) == 0 {
		if _, err := fsys.Stat(DefaultReportName); err != nil {
			return nil, fmt.Errorf("%w: no report given and %s does not exist (use --cov)", ErrNoCoverageInput, DefaultReportName)
		}
		abs, err := fsys.Abs(DefaultReportName)
		if err != nil {
			return nil, err
		}
		return []string{abs}, nil
	}

	var out []string
	seen := make(map[string]struct{})
	add := func(path string) error {
		abs, err := fsys.Abs(path)
		if err != nil {
			return err
		}
		if _, ok := seen[abs]; ok {
			return nil
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
		return nil
	}

	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		if !isGlobPattern(arg) {
			if info, err := fsys.Stat(arg); err != nil || info.IsDir() {
				return nil, fmt.Errorf("%w: %s", ErrNoCoverageInput, arg)
			}
			if err := add(arg); err != nil {
				return nil, err
			}
			continue
		}

		matches, err := fsys.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid report pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: pattern %q matched no files", ErrNoCoverageInput, arg)
		}
		for _, m := range matches {
			if info, err := fsys.Stat(m); err == nil && !info.IsDir() {
				if err := add(m); err != nil {
					return nil, err
				}
			}
		}
	}

	if len(out) == 0 {
		return nil, ErrNoCoverageInput
	}
	return out, nil
}

// CollectRecords parses every report file into one flat record multiset.
// Parsing of independent files could be done concurrently since the merge
// rules are order-independent, but report files are small enough that a
// sequential pass keeps the error handling simple.
func CollectRecords(paths []string) ([]model.Record, error) {
	var out []model.Record
	for _, path := range paths {
		p, err := parser.FindParserForFile(path)
		if err != nil {
			return nil, err
		}
		records, err := p.Parse(path)
		if err != nil {
			return nil, err
		}
		out = append(out, records...)
	}
	return out, nil
}

func isGlobPattern(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
