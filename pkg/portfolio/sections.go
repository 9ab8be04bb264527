package portfolio

import (
	"strings"
)

// ParseSections splits a markdown body into its top-level sections.
//
// A line opens a section when it starts with "# " and not "## "; deeper
// headings stay in the enclosing section's body. Lines before the first
// heading are dropped, as are lines under a heading with a blank title.
// Each body is trimmed of surrounding blank lines and whitespace, internal
// blank lines are kept.
func ParseSections(body string) *Sections {
	sections := NewSections()

	var (
		current string
		open    bool
		buf     []string
	)
	commit := func() {
		if open {
			sections.Set(current, strings.TrimSpace(strings.Join(buf, "\n")))
		}
	}

	for _, line := range strings.Split(body, "\n") {
		if isTopLevelHeading(line) {
			commit()
			current = strings.TrimSpace(line[2:])
			open = current != ""
			buf = buf[:0]
			continue
		}
		if open {
			buf = append(buf, line)
		}
	}
	commit()

	return sections
}

func isTopLevelHeading(line string) bool {
	return strings.HasPrefix(line, "# ") && !strings.HasPrefix(line, "## ")
}

// RenderSections rebuilds a markdown body from sections as
// "# Title\n\nBody" blocks separated by a blank line. Sub-heading structure
// and the original spacing are not preserved.
func RenderSections(sections *Sections) string {
	blocks := make([]string, 0, sections.Len())
	for _, s := range sections.All() {
		blocks = append(blocks, "# "+s.Title+"\n\n"+s.Body)
	}
	return strings.Join(blocks, "\n\n")
}

func validTitle(title string) bool {
	return strings.TrimSpace(title) != "" && !strings.ContainsAny(title, "\r\n")
}
