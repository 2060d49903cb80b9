// Package report renders a built digest as markdown with YAML frontmatter.
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"feedwatch/internal/digest"
	"feedwatch/internal/model"
)

// Data carries everything one rendered digest needs.
type Data struct {
	Title      string
	List       string
	Datetime   string
	WindowDays int
	Digest     digest.Digest
	Research   []model.SearchResult // merged discourse results, newest first
	Reddit     []model.SearchResult
}

//go:embed digest.tmpl
var digestTpl string

var compiled = template.Must(template.New("digest").Funcs(template.FuncMap{
	"sectionTitle": sectionTitle,
	"frontmatter":  frontmatter,
}).Parse(digestTpl))

// Render produces the final markdown document.
func Render(d Data) (string, error) {
	var buf bytes.Buffer
	if err := compiled.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return buf.String(), nil
}

// sectionTitle maps a category onto its digest heading.
func sectionTitle(c model.Category) string {
	switch c {
	case model.CategoryAnnouncement:
		return "Updates"
	case model.CategoryInformative:
		return "Resources"
	case model.CategoryEvents:
		return "Events"
	default:
		return "Other"
	}
}
