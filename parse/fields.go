package parse

import (
	"regexp"
	"strings"
)

// columnGap matches the separator between two columns: two or more spaces,
// or any run of tabs.
var columnGap = regexp.MustCompile(` {2,}|\t+`)

// Fields splits a line into ordered column candidates. A single space is
// kept inside a candidate, so multi-word names and clubs survive as one
// field while wider gaps separate neighbouring columns.
//
// A line with no column gap yields a single candidate (the trimmed line) and
// a blank line yields none.
func Fields(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	parts := columnGap.Split(line, -1)
	fields := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}
