package descriptor

import (
	"strconv"
	"strings"
)

// Enum describes one reflected enum.
type Enum struct {
	Base
	Items []*EnumItem

	itemByName map[string]*EnumItem
}

// NewEnum creates an empty enum.
func NewEnum(name string) *Enum {
	return &Enum{
		Base:       Base{Name: name},
		itemByName: make(map[string]*EnumItem),
	}
}

// Kind implements Descriptor.
func (e *Enum) Kind() Kind { return KindEnum }

// QualifiedName implements Descriptor.
func (e *Enum) QualifiedName() string { return e.Name }

// AddItem appends item and points its back-reference at e.
func (e *Enum) AddItem(item *EnumItem) {
	item.Enum = e
	e.Items = append(e.Items, item)
	if e.itemByName == nil {
		e.itemByName = make(map[string]*EnumItem)
	}
	e.itemByName[item.Name] = item
}

// Item looks up an item by name.
func (e *Enum) Item(name string) *EnumItem {
	return e.itemByName[name]
}

// Schema implements Descriptor.
func (e *Enum) Schema(detailed bool) []string {
	if !detailed {
		return []string{LabelDescriptorType, LabelName}
	}
	return []string{LabelDescriptorType, LabelName, LabelTags}
}

// Tokens implements Descriptor.
func (e *Enum) Tokens() map[string]Token {
	return map[string]Token{
		LabelDescriptorType: keyword("Enum"),
		LabelName:           name(e.Name),
		LabelTags:           tagsToken(e.Tags),
	}
}

// EnumItem is one named value of an Enum.
type EnumItem struct {
	Base
	Value       int
	LegacyNames []string
	Enum        *Enum
}

// NewEnumItem creates a detached item.
func NewEnumItem(name string, value int) *EnumItem {
	return &EnumItem{Base: Base{Name: name}, Value: value}
}

// Kind implements Descriptor.
func (i *EnumItem) Kind() Kind { return KindEnumItem }

// QualifiedName implements Descriptor.
func (i *EnumItem) QualifiedName() string {
	if i.Enum == nil {
		return i.Name
	}
	return i.Enum.Name + "." + i.Name
}

// Schema implements Descriptor.
func (i *EnumItem) Schema(detailed bool) []string {
	if !detailed {
		return []string{LabelDescriptorType, LabelName}
	}
	return []string{LabelDescriptorType, LabelName, LabelColon, LabelValue, LabelLegacyNames, LabelTags}
}

// Tokens implements Descriptor.
func (i *EnumItem) Tokens() map[string]Token {
	tokens := map[string]Token{
		LabelDescriptorType: keyword("EnumItem"),
		LabelName:           name(i.QualifiedName()),
		LabelColon:          colon(),
		LabelValue:          {Class: ClassNumber, Text: strconv.Itoa(i.Value)},
		LabelTags:           tagsToken(i.Tags),
	}
	if len(i.LegacyNames) > 0 {
		tokens[LabelLegacyNames] = Token{
			Class: ClassText,
			Text:  "(legacy: " + strings.Join(i.LegacyNames, ", ") + ")",
		}
	}
	return tokens
}
