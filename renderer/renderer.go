// Package renderer turns treasury state and emitted actions into markdown
// reports.
//
// Reports are assembled from embedded templates: a main "assembly" template
// pulls in named partials, and every template is covered by a golden-file
// test. The data types in this package are plain render models, built from
// the engine's types by their New constructors and kept JSON-serializable so
// test fixtures can describe them directly.
package renderer

import (
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

// RenderStatus renders the whole-treasury report: the configuration header
// and one summary row per registered asset.
func RenderStatus(s *Status) string {
	partials := map[string]string{
		"status_title":  "status_title.md",
		"status_assets": "status_assets.md",
	}
	return renderTemplate("status", "status.md", partials, s)
}

// RenderAllocations renders one asset's allocation list in full.
func RenderAllocations(av *AssetView) string {
	partials := map[string]string{
		"allocations_title":   "allocations_title.md",
		"allocations_entries": "allocations_entries.md",
	}
	return renderTemplate("allocations", "allocations.md", partials, av)
}

// RenderActions renders the outbound actions an operation emitted, in the
// order they must be submitted. It renders an empty string when there is
// nothing to submit.
func RenderActions(r *ActionReport) string {
	if len(r.Actions) == 0 {
		return ""
	}
	return renderTemplate("actions", "actions.md", nil, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
