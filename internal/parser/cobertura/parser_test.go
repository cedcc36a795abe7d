package cobertura

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IgorBayerl/showcov/internal/model"
	"github.com/IgorBayerl/showcov/internal/parser"
)

func writeReport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coverage.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleReport = `<?xml version="1.0" ?>
<coverage version="7.4.1" timestamp="1700000000">
  <sources>
    <source>/project</source>
  </sources>
  <packages>
    <package name="app">
      <classes>
        <class name="app.py" filename="src/app.py">
          <lines>
            <line number="1" hits="4"/>
            <line number="2" hits="0"/>
            <line number="3" hits="2" branch="true" condition-coverage="50% (1/2)" missing-branches="4">
              <conditions>
                <condition number="0" type="jump" coverage="50%"/>
              </conditions>
            </line>
          </lines>
        </class>
        <class name="orphan" filename="">
          <lines>
            <line number="1" hits="1"/>
          </lines>
        </class>
      </classes>
    </package>
  </packages>
</coverage>`

func TestSupportsFile(t *testing.T) {
	t.Run("CoberturaReport", func(t *testing.T) {
		path := writeReport(t, sampleReport)
		p := NewCoberturaParser()
		assert.True(t, p.SupportsFile(path))
	})

	t.Run("WrongRootElement", func(t *testing.T) {
		path := writeReport(t, `<?xml version="1.0"?><testsuite name="x"></testsuite>`)
		p := NewCoberturaParser()
		assert.False(t, p.SupportsFile(path))
	})

	t.Run("NotXMLExtension", func(t *testing.T) {
		p := NewCoberturaParser()
		assert.False(t, p.SupportsFile("coverage.out"))
	})

	t.Run("MissingFile", func(t *testing.T) {
		p := NewCoberturaParser()
		assert.False(t, p.SupportsFile(filepath.Join(t.TempDir(), "nope.xml")))
	})
}

func TestParse(t *testing.T) {
	path := writeReport(t, sampleReport)
	p := NewCoberturaParser()

	records, err := p.Parse(path)
	require.NoError(t, err)
	require.Len(t, records, 3, "classes without a filename are skipped")

	assert.Equal(t, model.Record{File: "src/app.py", Line: 1, Hits: 4}, records[0])
	assert.Equal(t, model.Record{File: "src/app.py", Line: 2, Hits: 0}, records[1])

	branched := records[2]
	assert.Equal(t, "src/app.py", branched.File)
	assert.Equal(t, 3, branched.Line)
	assert.Equal(t, 2, branched.Hits)
	require.NotNil(t, branched.BranchCounts)
	assert.Equal(t, model.BranchCounts{Covered: 1, Total: 2}, *branched.BranchCounts)
	assert.Equal(t, []int{4}, branched.MissingBranches)

	require.Len(t, branched.Conditions, 3)
	assert.Equal(t, model.BranchCondition{Number: 0, Type: "jump", Coverage: model.CoverageOf(50)}, branched.Conditions[0])
	assert.Equal(t, model.BranchCondition{Number: 4, Type: "branch"}, branched.Conditions[1],
		"missing indices not claimed by a condition become unknown-coverage conditions")
	assert.Equal(t, model.BranchCondition{Number: -1, Type: "line", Coverage: model.CoverageOf(50)}, branched.Conditions[2],
		"the condition-coverage pair becomes a per-line aggregate")
}

func TestParseSkipsMalformedLines(t *testing.T) {
	report := `<?xml version="1.0" ?>
<coverage>
  <packages>
    <package name="p">
      <classes>
        <class name="c" filename="a.py">
          <lines>
            <line number="0" hits="1"/>
            <line number="x" hits="1"/>
            <line number="2" hits="-1"/>
            <line number="3" hits="oops"/>
            <line number="4" hits="1"/>
          </lines>
        </class>
      </classes>
    </package>
  </packages>
</coverage>`
	path := writeReport(t, report)

	records, err := NewCoberturaParser().Parse(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 4, records[0].Line)
}

func TestParseInvalidXML(t *testing.T) {
	path := writeReport(t, "this is not xml at all <<<")

	_, err := NewCoberturaParser().Parse(path)
	require.Error(t, err)

	var invalid *parser.InvalidReportError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, path, invalid.Path)
}

func TestParseMissingFile(t *testing.T) {
	_, err := NewCoberturaParser().Parse(filepath.Join(t.TempDir(), "nope.xml"))
	assert.Error(t, err)
}

func TestParseConditionCoverage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *model.BranchCounts
	}{
		{"Standard", "50% (1/2)", &model.BranchCounts{Covered: 1, Total: 2}},
		{"SpacesTolerated", " 75 % ( 3 / 4 ) ", &model.BranchCounts{Covered: 3, Total: 4}},
		{"Empty", "", nil},
		{"PercentOnly", "50%", nil},
		{"Garbage", "n/a", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseConditionCoverage(tt.text))
		})
	}
}

func TestParseMissingBranches(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int
	}{
		{"Single", "4", []int{4}},
		{"List", "2, 14,15", []int{2, 14, 15}},
		{"Empty", "", nil},
		{"JunkSkipped", "3,exit,5", []int{3, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseMissingBranches(tt.text))
		})
	}
}
