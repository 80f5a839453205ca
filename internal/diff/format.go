package diff

import (
	"strconv"

	"apidiff/internal/descriptor"
)

func verbToken(t Type) descriptor.Token {
	return descriptor.Token{Label: "DiffType", Class: descriptor.ClassDiffType, Text: t.Verb()}
}

func textToken(s string) descriptor.Token {
	return descriptor.Token{Class: descriptor.ClassText, Text: s}
}

// Header returns the tokens of the diff's first rendered line.
func (d *Diff) Header() []descriptor.Token {
	out := []descriptor.Token{verbToken(d.Type)}

	switch d.Type {
	case Add, Remove:
		if d.IsTagDiff() {
			word, prep := "tag", "to"
			if len(d.Tags) != 1 {
				word = "tags"
			}
			if d.Type == Remove {
				prep = "from"
			}
			out = append(out, textToken(word), descriptor.Token{Class: descriptor.ClassTags, Text: d.Tags.String()}, textToken(prep))
			return append(out, descriptor.Describe(d.Target, false)...)
		}
		return append(out, descriptor.Describe(d.Target, d.Detailed)...)

	case Change:
		out = append(out, textToken("the"), descriptor.Token{Label: "Field", Class: descriptor.ClassText, Text: d.Field}, textToken("of"))
		if d.Field == FieldClassName {
			return append(out, descriptor.Token{Class: descriptor.ClassName, Text: d.Target.QualifiedName()})
		}
		return append(out, descriptor.Describe(d.Target, false)...)

	case Move:
		out = append(out,
			descriptor.Token{Class: descriptor.ClassDescriptorType, Text: d.Target.Kind().String()},
			descriptor.Token{Class: descriptor.ClassName, Text: d.Target.Common().Name},
			textToken("from"))
		out = append(out, valueTokens(d.From)...)
		out = append(out, textToken("to"))
		return append(out, valueTokens(d.To)...)

	case Merge:
		out = append(out, textToken(strconv.Itoa(len(d.From))), textToken("members"), textToken("into"))
		return append(out, descriptor.Describe(d.Target, false)...)
	}
	return out
}

// Body returns the detail lines rendered one level below the header, before
// any child diffs.
func (d *Diff) Body() [][]descriptor.Token {
	switch d.Type {
	case Change:
		from := append([]descriptor.Token{labelToken("from:")}, valueTokens(d.From)...)
		to := append([]descriptor.Token{labelToken("  to:")}, valueTokens(d.To)...)
		return [][]descriptor.Token{from, to}
	case Merge:
		lines := make([][]descriptor.Token, 0, len(d.From))
		for _, v := range d.From {
			lines = append(lines, append([]descriptor.Token{labelToken("from:")}, v.Tokens()...))
		}
		return lines
	}
	return nil
}

func labelToken(s string) descriptor.Token {
	return descriptor.Token{Label: "ListLabel", Class: descriptor.ClassSymbol, Text: s}
}

func valueTokens(values []Value) []descriptor.Token {
	var out []descriptor.Token
	for _, v := range values {
		out = append(out, v.Tokens()...)
	}
	return out
}

// HeaderText renders the header as plain text.
func (d *Diff) HeaderText() string {
	return descriptor.FormatText(d.Header())
}
