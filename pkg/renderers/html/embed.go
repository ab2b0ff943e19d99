package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// Template names inside TemplatesFS.
const (
	FormTemplate = "templates/form.tmpl"
	PageTemplate = "templates/page.tmpl"
)

// TemplatesFS exposes the embedded template bundle so callers can copy and
// customise it before passing it back through WithTemplatesFS.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
