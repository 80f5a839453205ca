package descriptor

import "strings"

// TokenClass tells renderers how to present a token.
type TokenClass string

const (
	ClassDiffType       TokenClass = "DiffType"
	ClassDescriptorType TokenClass = "DescriptorType"
	ClassName           TokenClass = "Name"
	ClassType           TokenClass = "Type"
	ClassParameters     TokenClass = "Parameters"
	ClassSecurity       TokenClass = "Security"
	ClassTags           TokenClass = "Tags"
	ClassNumber         TokenClass = "Number"
	ClassString         TokenClass = "String"
	ClassSymbol         TokenClass = "Symbol"
	ClassText           TokenClass = "Text"
)

// Token is one resolved piece of a signature.
type Token struct {
	Label string
	Class TokenClass
	Text  string
	// Attach suppresses the separating space before the token.
	Attach bool
}

// Schema token labels shared by the descriptor kinds.
const (
	LabelDescriptorType = "DescriptorType"
	LabelName           = "Name"
	LabelInherits       = "Inherits"
	LabelSuperclass     = "Superclass"
	LabelColon          = "Colon"
	LabelValueType      = "ValueType"
	LabelReturnType     = "ReturnType"
	LabelParameters     = "Parameters"
	LabelSecurity       = "Security"
	LabelValue          = "Value"
	LabelLegacyNames    = "LegacyNames"
	LabelTags           = "Tags"
)

// Resolve walks a schema and returns the tokens it names, in schema order.
// Labels without a token, or whose token renders empty, are elided.
func Resolve(schema []string, tokens map[string]Token) []Token {
	out := make([]Token, 0, len(schema))
	for _, label := range schema {
		tok, ok := tokens[label]
		if !ok || tok.Text == "" {
			continue
		}
		if tok.Label == "" {
			tok.Label = label
		}
		out = append(out, tok)
	}
	return out
}

// Describe resolves d's schema at the given detail level.
func Describe(d Descriptor, detailed bool) []Token {
	return Resolve(d.Schema(detailed), d.Tokens())
}

// DescribeText renders d's signature as plain text.
func DescribeText(d Descriptor, detailed bool) string {
	return FormatText(Describe(d, detailed))
}

// TextOf renders one token for plain text output. Names and types are
// wrapped in backticks and string literals in double quotes.
func TextOf(tok Token) string {
	switch tok.Class {
	case ClassName, ClassType:
		return "`" + tok.Text + "`"
	case ClassString:
		return `"` + tok.Text + `"`
	default:
		return tok.Text
	}
}

// FormatText joins tokens with single spaces, honoring Attach.
func FormatText(tokens []Token) string {
	var b strings.Builder
	for i, tok := range tokens {
		if i > 0 && !tok.Attach {
			b.WriteByte(' ')
		}
		b.WriteString(TextOf(tok))
	}
	return b.String()
}

func keyword(text string) Token {
	return Token{Class: ClassDescriptorType, Text: text}
}

func name(text string) Token {
	return Token{Class: ClassName, Text: text}
}

func typeToken(t TypeRef) Token {
	return Token{Class: ClassType, Text: t.String()}
}

func colon() Token {
	return Token{Class: ClassSymbol, Text: ":", Attach: true}
}

func securityToken(text string) Token {
	return Token{Class: ClassSecurity, Text: text}
}

func tagsToken(t Tags) Token {
	return Token{Class: ClassTags, Text: t.String()}
}
