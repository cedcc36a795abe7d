// Package inputxml defines the raw XML shapes of Cobertura-style coverage
// reports. Attribute values stay as strings here; interpretation happens in
// the parser layer.
package inputxml

import "encoding/xml"

// CoverageXML is the root <coverage> element.
type CoverageXML struct {
	XMLName    xml.Name    `xml:"coverage"`
	LineRate   string      `xml:"line-rate,attr"`
	BranchRate string      `xml:"branch-rate,attr"`
	Timestamp  string      `xml:"timestamp,attr"`
	Sources    SourcesXML  `xml:"sources"`
	Packages   PackagesXML `xml:"packages"`
}

type SourcesXML struct {
	Source []string `xml:"source"`
}

type PackagesXML struct {
	Package []PackageXML `xml:"package"`
}

type PackageXML struct {
	Name    string     `xml:"name,attr"`
	Classes ClassesXML `xml:"classes"`
}

type ClassesXML struct {
	Class []ClassXML `xml:"class"`
}

// ClassXML carries the filename attribute the records are keyed by.
type ClassXML struct {
	Name     string   `xml:"name,attr"`
	Filename string   `xml:"filename,attr"`
	Lines    LinesXML `xml:"lines"`
}

type LinesXML struct {
	Line []LineXML `xml:"line"`
}

// LineXML is one <line> element. Branch metadata may appear as a
// condition-coverage attribute ("50% (1/2)"), a missing-branches attribute
// (comma-separated indices), nested <conditions>, or any combination.
type LineXML struct {
	Number            string        `xml:"number,attr"`
	Hits              string        `xml:"hits,attr"`
	Branch            string        `xml:"branch,attr"`
	ConditionCoverage string        `xml:"condition-coverage,attr"`
	MissingBranches   string        `xml:"missing-branches,attr"`
	Conditions        ConditionsXML `xml:"conditions"`
}

type ConditionsXML struct {
	Condition []ConditionXML `xml:"condition"`
}

type ConditionXML struct {
	Number   string `xml:"number,attr"`
	Type     string `xml:"type,attr"`
	Coverage string `xml:"coverage,attr"`
}
