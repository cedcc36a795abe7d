// Package cobertura parses Cobertura-style coverage XML into normalized
// line records.
package cobertura

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/IgorBayerl/showcov/internal/inputxml"
	"github.com/IgorBayerl/showcov/internal/model"
	"github.com/IgorBayerl/showcov/internal/parser"
)

// CoberturaParser implements parser.IParser for Cobertura XML reports.
type CoberturaParser struct {
}

// NewCoberturaParser creates a new CoberturaParser.
func NewCoberturaParser() parser.IParser {
	return &CoberturaParser{}
}

func init() {
	parser.RegisterParser(NewCoberturaParser())
}

// Name returns the name of the parser.
func (cp *CoberturaParser) Name() string {
	return "Cobertura"
}

// SupportsFile checks whether the file is likely a Cobertura XML report by
// sniffing its root element.
func (cp *CoberturaParser) SupportsFile(filePath string) bool {
	if !strings.HasSuffix(strings.ToLower(filePath), ".xml") {
		return false
	}
	f, err := os.Open(filePath)
	if err != nil {
		return false
	}
	defer f.Close()

	decoder := xml.NewDecoder(f)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return false
		}
		if se, ok := token.(xml.StartElement); ok {
			return se.Name.Local == "coverage"
		}
	}
	return false
}

// Parse reads the report and returns its normalized line records. A file
// whose root element is not <coverage> is a malformed-data error carrying
// the file path; it is never silently skipped.
func (cp *CoberturaParser) Parse(filePath string) ([]model.Record, error) {
	raw, err := cp.loadAndUnmarshal(filePath)
	if err != nil {
		return nil, err
	}

	var records []model.Record
	for _, pkgXML := range raw.Packages.Package {
		for _, classXML := range pkgXML.Classes.Class {
			if classXML.Filename == "" {
				continue
			}
			records = append(records, lineRecords(classXML)...)
		}
	}
	return records, nil
}

func (cp *CoberturaParser) loadAndUnmarshal(path string) (*inputxml.CoverageXML, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var raw inputxml.CoverageXML
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, &parser.InvalidReportError{Path: path, Err: err}
	}
	return &raw, nil
}
