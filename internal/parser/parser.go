// Package parser defines the contract between coverage report files on disk
// and the normalized Records the builders consume, plus a registry used to
// pick a parser for a given file.
package parser

import (
	"fmt"

	"github.com/IgorBayerl/showcov/internal/model"
)

// IParser is the contract for all coverage report parsers. Parse returns the
// normalized per-line records for one report file; it never touches the
// filesystem beyond the report itself.
type IParser interface {
	Name() string
	SupportsFile(filePath string) bool
	Parse(filePath string) ([]model.Record, error)
}

// InvalidReportError marks a report file that was readable but does not
// contain a valid coverage document.
type InvalidReportError struct {
	Path string
	Err  error
}

func (e *InvalidReportError) Error() string {
	return fmt.Sprintf("%s: invalid coverage report: %v", e.Path, e.Err)
}

func (e *InvalidReportError) Unwrap() error {
	return e.Err
}

var registeredParsers []IParser

// RegisterParser adds a parser to the list of available parsers. Each parser
// implementation calls this from its init function.
func RegisterParser(p IParser) {
	registeredParsers = append(registeredParsers, p)
}

// GetParsers returns all registered parsers.
func GetParsers() []IParser {
	return registeredParsers
}

// FindParserForFile returns the first registered parser that claims the
// file.
func FindParserForFile(filePath string) (IParser, error) {
	for _, p := range registeredParsers {
		if p.SupportsFile(filePath) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no suitable parser found for file: %s", filePath)
}
