package descriptor

import "strings"

// Kind identifies the descriptor variant. Its numeric value is the type
// priority used when sorting.
type Kind int

const (
	KindClass Kind = iota
	KindProperty
	KindFunction
	KindEvent
	KindCallback
	KindEnum
	KindEnumItem
)

var kindNames = [...]string{
	KindClass:    "Class",
	KindProperty: "Property",
	KindFunction: "Function",
	KindEvent:    "Event",
	KindCallback: "Callback",
	KindEnum:     "Enum",
	KindEnumItem: "EnumItem",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// IsMember reports whether k is one of the four member kinds.
func (k Kind) IsMember() bool {
	return k >= KindProperty && k <= KindCallback
}

// ParseMemberKind maps a dump MemberType discriminator to a Kind.
func ParseMemberKind(s string) (Kind, bool) {
	switch s {
	case "Property":
		return KindProperty, true
	case "Function":
		return KindFunction, true
	case "Event":
		return KindEvent, true
	case "Callback":
		return KindCallback, true
	}
	return 0, false
}

// Base holds the fields every descriptor shares.
type Base struct {
	Name string
	Tags Tags
}

// Common returns the shared fields.
func (b *Base) Common() *Base {
	return b
}

// Descriptor is one named API construct.
type Descriptor interface {
	Common() *Base
	Kind() Kind
	// QualifiedName is Name for classes and enums and Owner.Name otherwise.
	QualifiedName() string
	// Schema lists token labels in display order.
	Schema(detailed bool) []string
	// Tokens resolves every label this descriptor knows about.
	Tokens() map[string]Token
}

// Compare orders descriptors by type priority, then by qualified name.
// Enum items of the same enum are ordered by value first.
func Compare(a, b Descriptor) int {
	if a.Kind() != b.Kind() {
		if a.Kind() < b.Kind() {
			return -1
		}
		return 1
	}
	if ai, ok := a.(*EnumItem); ok {
		bi := b.(*EnumItem)
		if ai.Enum != nil && bi.Enum != nil && ai.Enum.Name == bi.Enum.Name && ai.Value != bi.Value {
			if ai.Value < bi.Value {
				return -1
			}
			return 1
		}
	}
	return strings.Compare(a.QualifiedName(), b.QualifiedName())
}

// Rename returns tokens with every Name token that refers to from, or to a
// member of from, rewritten to refer to to.
func Rename(tokens []Token, from, to string) []Token {
	out := make([]Token, len(tokens))
	for i, tok := range tokens {
		if tok.Class == ClassName {
			switch {
			case tok.Text == from:
				tok.Text = to
			case strings.HasPrefix(tok.Text, from+"."):
				tok.Text = to + tok.Text[len(from):]
			}
		}
		out[i] = tok
	}
	return out
}
