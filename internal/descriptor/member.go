package descriptor

// Member describes a property, function, event or callback. Which fields are
// meaningful depends on MemberKind.
type Member struct {
	Base
	MemberKind Kind
	Class      *Class

	ValueType     TypeRef
	ReturnType    TypeRef
	Parameters    Parameters
	Security      ReadWriteSecurity
	Serialization Serialization
	Category      string
	ThreadSafety  ThreadSafety
	Capabilities  Capabilities
}

// NewMember creates a member of the given kind. kind must be a member kind.
func NewMember(kind Kind, name string) *Member {
	if !kind.IsMember() {
		panic("descriptor: NewMember called with non-member kind " + kind.String())
	}
	return &Member{
		Base:       Base{Name: name},
		MemberKind: kind,
		Security:   Uniform(SecurityNone),
	}
}

// Kind implements Descriptor.
func (m *Member) Kind() Kind { return m.MemberKind }

// QualifiedName implements Descriptor.
func (m *Member) QualifiedName() string {
	if m.Class == nil {
		return m.Name
	}
	return m.Class.Name + "." + m.Name
}

// Schema implements Descriptor.
func (m *Member) Schema(detailed bool) []string {
	if !detailed {
		return []string{LabelDescriptorType, LabelName}
	}
	switch m.MemberKind {
	case KindProperty:
		return []string{LabelDescriptorType, LabelName, LabelColon, LabelValueType, LabelSecurity, LabelTags}
	case KindEvent:
		return []string{LabelDescriptorType, LabelName, LabelParameters, LabelSecurity, LabelTags}
	default:
		return []string{LabelDescriptorType, LabelName, LabelParameters, LabelColon, LabelReturnType, LabelSecurity, LabelTags}
	}
}

// Tokens implements Descriptor.
func (m *Member) Tokens() map[string]Token {
	tokens := map[string]Token{
		LabelDescriptorType: keyword(m.MemberKind.String()),
		LabelName:           name(m.QualifiedName()),
		LabelTags:           tagsToken(m.Tags),
	}
	if !m.Security.IsUniform() || !m.Security.Read.IsNone() {
		tokens[LabelSecurity] = securityToken(m.Security.String())
	}

	switch m.MemberKind {
	case KindProperty:
		tokens[LabelColon] = colon()
		tokens[LabelValueType] = typeToken(m.ValueType)
	case KindEvent:
		tokens[LabelParameters] = m.parametersToken()
	case KindFunction, KindCallback:
		tokens[LabelParameters] = m.parametersToken()
		tokens[LabelColon] = colon()
		tokens[LabelReturnType] = typeToken(m.ReturnType)
	}
	return tokens
}

func (m *Member) parametersToken() Token {
	return Token{Class: ClassParameters, Text: m.Parameters.String(), Attach: true}
}

// IsDeprecated reports whether the member carries the Deprecated tag.
func (m *Member) IsDeprecated() bool {
	return m.Tags.Has(TagDeprecated)
}

// TagDeprecated marks APIs that should no longer be used.
const TagDeprecated = "Deprecated"
