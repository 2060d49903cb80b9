package report

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// meta is the frontmatter block at the top of a rendered digest.
type meta struct {
	Title      string `yaml:"title"`
	List       string `yaml:"list"`
	Datetime   string `yaml:"datetime"`
	WindowDays int    `yaml:"window_days"`
}

func frontmatter(d Data) string {
	b, err := yaml.Marshal(meta{
		Title:      d.Title,
		List:       d.List,
		Datetime:   d.Datetime,
		WindowDays: d.WindowDays,
	})
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(b), "\n")
}
