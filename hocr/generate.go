package hocr

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"strings"
	"text/template"
)

//go:embed templates/hocr.tmpl
var templateFS embed.FS

// Generate renders the document as a complete hOCR HTML file.
func Generate(doc *Document) (string, error) {
	tmpl, err := template.New("hocr.tmpl").Funcs(template.FuncMap{
		"trim": strings.TrimSpace,
		"esc":  html.EscapeString,
	}).ParseFS(templateFS, "templates/hocr.tmpl")
	if err != nil {
		return "", fmt.Errorf("error parsing hOCR template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("error rendering hOCR template: %w", err)
	}

	return buf.String(), nil
}
