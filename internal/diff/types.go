// Package diff computes structural differences between two API snapshots.
//
// Compare produces a raw forest of Diff nodes: additions, removals and field
// changes keyed by name. The merge package later rewrites that forest into
// renames, moves and aggregated edits.
package diff

import (
	"strconv"

	"apidiff/internal/descriptor"
)

// Type is the kind of recorded change. Its numeric order is the primary sort key.
type Type int

const (
	Add Type = iota
	Remove
	Change
	Move
	Merge
	Rename
)

var typeNames = [...]string{"Add", "Remove", "Change", "Move", "Merge", "Rename"}
var typeVerbs = [...]string{"Added", "Removed", "Changed", "Moved", "Merged", "Renamed"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "Unknown"
	}
	return typeNames[t]
}

// Verb is the past-tense word that opens a rendered diff line.
func (t Type) Verb() string {
	if t < 0 || int(t) >= len(typeVerbs) {
		return "Unknown"
	}
	return typeVerbs[t]
}

// Field names used by Change diffs.
const (
	FieldTags             = "tags"
	FieldSuperclass       = "superclass"
	FieldMemoryCategory   = "memory category"
	FieldSecurity         = "security"
	FieldReadPermissions  = "read permissions"
	FieldWritePermissions = "write permissions"
	FieldValueType        = "value type"
	FieldSerialization    = "serialization"
	FieldCategory         = "category"
	FieldReturnType       = "return type"
	FieldParameters       = "parameters"
	FieldThreadSafety     = "thread safety"
	FieldCapabilities     = "capabilities"
	FieldValue            = "value"
	FieldClassName        = "ClassName"
)

// Value is one entry of a Change diff's from or to list: a literal rendered
// as a single token, or a reference to a descriptor.
type Value struct {
	Token      descriptor.Token
	Descriptor descriptor.Descriptor
}

// Literal wraps a string that renders quoted.
func Literal(s string) Value {
	return Value{Token: descriptor.Token{Class: descriptor.ClassString, Text: s}}
}

// TypeValue wraps a type reference.
func TypeValue(t descriptor.TypeRef) Value {
	return Value{Token: descriptor.Token{Class: descriptor.ClassType, Text: t.String()}}
}

// SecurityValue wraps anything that renders as a security level or pair.
func SecurityValue(s interface{ String() string }) Value {
	return Value{Token: descriptor.Token{Class: descriptor.ClassSecurity, Text: s.String()}}
}

// ParametersValue wraps a parameter list.
func ParametersValue(ps descriptor.Parameters) Value {
	return Value{Token: descriptor.Token{Class: descriptor.ClassParameters, Text: ps.String()}}
}

// NumberValue wraps an integer.
func NumberValue(n int) Value {
	return Value{Token: descriptor.Token{Class: descriptor.ClassNumber, Text: strconv.Itoa(n)}}
}

// TextValue wraps unquoted text.
func TextValue(s string) Value {
	return Value{Token: descriptor.Token{Class: descriptor.ClassText, Text: s}}
}

// NameValue wraps the name of a class or other symbol.
func NameValue(s string) Value {
	return Value{Token: descriptor.Token{Class: descriptor.ClassName, Text: s}}
}

// DescriptorValue references d; it renders as d's summary signature.
func DescriptorValue(d descriptor.Descriptor) Value {
	return Value{Descriptor: d}
}

// Tokens renders the value. An empty value still yields one token, an empty
// string literal, so from and to lists of coalesced changes stay aligned.
func (v Value) Tokens() []descriptor.Token {
	if v.Descriptor != nil {
		return descriptor.Describe(v.Descriptor, false)
	}
	if v.Token.Text == "" {
		return []descriptor.Token{{Label: v.Token.Label, Class: descriptor.ClassString}}
	}
	return []descriptor.Token{v.Token}
}

// String is the canonical comparison text of the value.
func (v Value) String() string {
	if v.Descriptor != nil {
		return descriptor.DescribeText(v.Descriptor, false)
	}
	return v.Token.Text
}

// Diff is one recorded change. Class and enum additions and removals own the
// diffs of their members or items as Children.
type Diff struct {
	Type     Type
	Target   descriptor.Descriptor
	Field    string
	Detailed bool
	From     []Value
	To       []Value
	Children []*Diff
	// Tags is the tag set carried by tag diffs.
	Tags descriptor.Tags
}

// IsTagDiff reports whether d records added or removed tags.
func (d *Diff) IsTagDiff() bool {
	return d.Field == FieldTags && (d.Type == Add || d.Type == Remove)
}

// TagSignature identifies a tag edit independent of its target, so the same
// edit on a class and on its members can be matched.
func (d *Diff) TagSignature() string {
	return d.Type.String() + " " + d.Tags.String()
}

// Owner returns the class or enum that owns the diff's target, or the target
// itself when it is a class or enum.
func (d *Diff) Owner() descriptor.Descriptor {
	switch t := d.Target.(type) {
	case *descriptor.Member:
		if t.Class == nil {
			panic("diff: member target " + t.Name + " has no owning class")
		}
		return t.Class
	case *descriptor.EnumItem:
		if t.Enum == nil {
			panic("diff: enum item target " + t.Name + " has no owning enum")
		}
		return t.Enum
	default:
		return d.Target
	}
}

// RemoveChild detaches child from d and reports whether it was found.
func (d *Diff) RemoveChild(child *Diff) bool {
	for i, c := range d.Children {
		if c == child {
			d.Children = append(d.Children[:i:i], d.Children[i+1:]...)
			return true
		}
	}
	return false
}

// Count returns the number of diffs in the forest including children.
func Count(diffs []*Diff) int {
	n := 0
	for _, d := range diffs {
		n += 1 + Count(d.Children)
	}
	return n
}
