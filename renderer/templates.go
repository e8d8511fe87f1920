package renderer

import "embed"

// templates holds the markdown templates this package renders. Assemblies
// (e.g. "status.md") glue partials (e.g. "status_title.md") together; the
// naming convention is what renderer_test.go uses to check coverage.
//
//go:embed *.md
var templates embed.FS
