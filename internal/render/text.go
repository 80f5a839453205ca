// Package render turns diff forests and databases into changelog output.
package render

import (
	"strings"

	"apidiff/internal/descriptor"
	"apidiff/internal/diff"
)

// CRLF is the default line ending of text output.
const CRLF = "\r\n"

// TextRenderer writes tab-indented plain text.
type TextRenderer struct {
	// LineEnding separates lines; empty means CRLF.
	LineEnding string
}

// Text renders diffs with the default options.
func Text(diffs []*diff.Diff) string {
	return TextRenderer{}.Render(diffs)
}

// Render returns one line per diff, body line and child diff. Top-level
// entries whose lead phrase differs from the previous entry's are separated
// by a blank line. An empty forest renders as the empty string.
func (r TextRenderer) Render(diffs []*diff.Diff) string {
	var lines []string
	prevLead := ""
	for i, d := range diffs {
		header := d.HeaderText()
		lead := LeadPhrase(header)
		if i > 0 && lead != prevLead {
			lines = append(lines, "")
		}
		prevLead = lead
		lines = appendDiff(lines, d, header, 0)
	}
	return strings.Join(lines, r.lineEnding())
}

func (r TextRenderer) lineEnding() string {
	if r.LineEnding == "" {
		return CRLF
	}
	return r.LineEnding
}

func appendDiff(lines []string, d *diff.Diff, header string, depth int) []string {
	indent := strings.Repeat("\t", depth)
	lines = append(lines, indent+header)
	for _, body := range d.Body() {
		lines = append(lines, indent+"\t"+descriptor.FormatText(body))
	}
	for _, child := range d.Children {
		lines = appendDiff(lines, child, child.HeaderText(), depth+1)
	}
	return lines
}

// LeadPhrase returns the first two words of line, skipping "the".
func LeadPhrase(line string) string {
	words := make([]string, 0, 2)
	for _, w := range strings.Fields(line) {
		if w == "the" {
			continue
		}
		words = append(words, w)
		if len(words) == 2 {
			break
		}
	}
	return strings.Join(words, " ")
}

// DescribeText lists every class with its members and every enum with its
// items in detailed form, one descriptor per line.
func (r TextRenderer) DescribeText(db *descriptor.Database) string {
	var lines []string
	for _, group := range describeGroups(db) {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, descriptor.DescribeText(group.owner, true))
		for _, child := range group.children {
			lines = append(lines, "\t"+descriptor.DescribeText(child, true))
		}
	}
	return strings.Join(lines, r.lineEnding())
}

// DescribeText lists db with the default options.
func DescribeText(db *descriptor.Database) string {
	return TextRenderer{}.DescribeText(db)
}

type describeGroup struct {
	owner    descriptor.Descriptor
	children []descriptor.Descriptor
}

// describeGroups orders classes then enums by name, and members and items in
// canonical order. Shadowed duplicate names are listed once.
func describeGroups(db *descriptor.Database) []describeGroup {
	var groups []describeGroup
	for _, class := range db.Classes() {
		g := describeGroup{owner: class}
		for _, m := range class.Members {
			if class.Member(m.Name) == m {
				g.children = append(g.children, m)
			}
		}
		groups = append(groups, g)
	}
	for _, enum := range db.Enums() {
		g := describeGroup{owner: enum}
		for _, item := range enum.Items {
			if enum.Item(item.Name) == item {
				g.children = append(g.children, item)
			}
		}
		groups = append(groups, g)
	}
	for _, g := range groups {
		sortDescriptors(g.children)
	}
	return groups
}
