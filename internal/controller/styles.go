package controller

import "strings"

// StyleChangelog renders release headings (`# <tag>:` lines) in the
// heading style, leaving the release bodies untouched.
func StyleChangelog(changelog string) string {
	lines := strings.Split(changelog, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "# ") {
			lines[i] = tuiHeadingStyle.Render(line)
		}
	}

	return strings.Join(lines, "\n")
}
