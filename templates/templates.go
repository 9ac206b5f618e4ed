// Package templates embeds the storefront pages so deployments ship one
// binary.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.gohtml
var files embed.FS

// Pages holds every parsed page template, keyed by file name.
var Pages = template.Must(template.ParseFS(files, "*.gohtml"))
