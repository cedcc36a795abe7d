// Package render turns a built Report into output for people and machines.
// Renderers are consumers of the report surface: they read public fields
// only and tolerate any section being absent.
package render

import (
	"fmt"
	"sort"

	"github.com/IgorBayerl/showcov/internal/model"
)

// Options carries presentation choices shared by all renderers.
type Options struct {
	Color           bool
	ShowPaths       bool
	ShowLineNumbers bool
}

// Renderer writes one output format of a report.
type Renderer interface {
	Name() string
	Render(rep model.Report, opts Options) (string, error)
}

var registeredRenderers = make(map[string]Renderer)

// RegisterRenderer adds a renderer to the registry. Each implementation
// calls this from its init function.
func RegisterRenderer(r Renderer) {
	registeredRenderers[r.Name()] = r
}

// FindRenderer returns the renderer for the given format name.
func FindRenderer(format string) (Renderer, error) {
	if r, ok := registeredRenderers[format]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("unsupported output format %q (supported: %v)", format, RendererNames())
}

// RendererNames lists the registered formats, sorted.
func RendererNames() []string {
	names := make([]string, 0, len(registeredRenderers))
	for name := range registeredRenderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Shared empty-section messages so every format reports absence the same
// way.
const (
	msgNoLines        = "No uncovered lines."
	msgNoBranches     = "No uncovered branches."
	msgNoSummary      = "No summary data."
	msgNoDiffNew      = "No new uncovered lines."
	msgNoDiffResolved = "No resolved uncovered lines."
)

// rangeLabel renders an uncovered range as "7" or "2-4".
func rangeLabel(r model.UncoveredRange) string {
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// conditionLabel renders a branch condition as "jump 0: 50%" or
// "branch 2: ?" when the coverage is unknown.
func conditionLabel(c model.BranchCondition) string {
	typ := c.Type
	if typ == "" {
		typ = "branch"
	}
	if pct, ok := c.CoveragePct(); ok {
		return fmt.Sprintf("%s %d: %d%%", typ, c.Number, pct)
	}
	return fmt.Sprintf("%s %d: ?", typ, c.Number)
}
