package descriptor

import (
	"sort"
	"strings"
)

// RootSuperclass is the Superclass value of classes at the top of the tree.
const RootSuperclass = "<<<ROOT>>>"

// Tags is a sorted, duplicate-free set of tag strings.
type Tags []string

// NewTags builds a tag set from arbitrary input.
func NewTags(tags ...string) Tags {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make(Tags, 0, len(tags))
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Has reports whether tag is in the set.
func (t Tags) Has(tag string) bool {
	i := sort.SearchStrings(t, tag)
	return i < len(t) && t[i] == tag
}

// With returns a copy of the set with tag added.
func (t Tags) With(tag string) Tags {
	if t.Has(tag) {
		return t
	}
	return NewTags(append(append([]string{}, t...), tag)...)
}

// Minus returns the tags in t that are not in other.
func (t Tags) Minus(other Tags) Tags {
	var out Tags
	for _, tag := range t {
		if !other.Has(tag) {
			out = append(out, tag)
		}
	}
	return out
}

func (t Tags) String() string {
	if len(t) == 0 {
		return ""
	}
	parts := make([]string, len(t))
	for i, tag := range t {
		parts[i] = "[" + tag + "]"
	}
	return strings.Join(parts, " ")
}

// Security is a named access level such as PluginSecurity.
type Security string

// Known security levels, in increasing order of restriction.
const (
	SecurityNone          Security = "None"
	PluginSecurity        Security = "PluginSecurity"
	LocalUserSecurity     Security = "LocalUserSecurity"
	RobloxScriptSecurity  Security = "RobloxScriptSecurity"
	RobloxSecurity        Security = "RobloxSecurity"
	NotAccessibleSecurity Security = "NotAccessibleSecurity"
)

var securityLevels = map[Security]int{
	SecurityNone:          0,
	PluginSecurity:        1,
	LocalUserSecurity:     2,
	RobloxScriptSecurity:  3,
	RobloxSecurity:        4,
	NotAccessibleSecurity: 5,
}

// unknownSecurityLevel ranks names we do not recognize above every known one.
const unknownSecurityLevel = 6

// Normalize maps the empty level to None.
func (s Security) Normalize() Security {
	if s == "" {
		return SecurityNone
	}
	return s
}

// Level returns the numeric rank of the level.
func (s Security) Level() int {
	if lvl, ok := securityLevels[s.Normalize()]; ok {
		return lvl
	}
	return unknownSecurityLevel
}

// IsInternal reports whether the level hides the API from ordinary scripts
// and plugins.
func (s Security) IsInternal() bool {
	return s.Level() >= securityLevels[LocalUserSecurity]
}

// IsNone reports whether the level is unrestricted.
func (s Security) IsNone() bool {
	return s.Normalize() == SecurityNone
}

func (s Security) String() string {
	return "{" + string(s.Normalize()) + "}"
}

// ReadWriteSecurity is the access pair carried by every member. Members other
// than properties store the same level in both halves.
type ReadWriteSecurity struct {
	Read  Security
	Write Security
}

// Uniform returns a pair with the same level on both sides.
func Uniform(s Security) ReadWriteSecurity {
	return ReadWriteSecurity{Read: s, Write: s}
}

// IsUniform reports whether read and write render identically.
func (rw ReadWriteSecurity) IsUniform() bool {
	return rw.Read.Normalize() == rw.Write.Normalize()
}

// IsInternal reports whether both halves are internal.
func (rw ReadWriteSecurity) IsInternal() bool {
	return rw.Read.IsInternal() && rw.Write.IsInternal()
}

func (rw ReadWriteSecurity) String() string {
	if rw.IsUniform() {
		return rw.Read.String()
	}
	return "{Read: " + string(rw.Read.Normalize()) + ", Write: " + string(rw.Write.Normalize()) + "}"
}

// Capabilities is a sorted set of sandbox capability names.
type Capabilities []string

// NewCapabilities builds a sorted, duplicate-free capability set.
func NewCapabilities(caps ...string) Capabilities {
	return Capabilities(NewTags(caps...))
}

func (c Capabilities) String() string {
	if len(c) == 0 {
		return ""
	}
	return "[" + strings.Join(c, ", ") + "]"
}

// Serialization records whether a property is read from and written to
// saved places.
type Serialization struct {
	CanLoad bool
	CanSave bool
}

func (s Serialization) String() string {
	switch {
	case s.CanLoad && s.CanSave:
		return "LoadAndSave"
	case s.CanLoad:
		return "LoadOnly"
	case s.CanSave:
		return "SaveOnly"
	default:
		return "None"
	}
}

// ThreadSafety is the raw thread-safety marker from the dump.
type ThreadSafety string

func (t ThreadSafety) String() string {
	return string(t)
}

// TypeRef names the type of a value, parameter or return.
type TypeRef struct {
	Category string
	Name     string
}

func (t TypeRef) String() string {
	if t.Category == "Enum" && t.Name != "" {
		return "Enum." + t.Name
	}
	return t.Name
}

// Parameter is one entry of a function, event or callback signature.
type Parameter struct {
	Name    string
	Type    TypeRef
	Default *string
}

func (p Parameter) String() string {
	var b strings.Builder
	b.WriteString(p.Name)
	b.WriteString(": ")
	b.WriteString(p.Type.String())
	if p.Default != nil {
		b.WriteString(" = ")
		b.WriteString(*p.Default)
	}
	return b.String()
}

// Parameters is an ordered parameter list.
type Parameters []Parameter

func (ps Parameters) String() string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
