package apidump

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"apidiff/internal/descriptor"
)

// Schema versions understood by the loader.
const (
	// FullSchemaVersion is the complete class/member/enum dump.
	FullSchemaVersion = 1
	// SecuritySchemaVersion carries only class name, superclass and security.
	SecuritySchemaVersion = 2
)

type versionProbe struct {
	Version int `json:"Version"`
}

type rawDump struct {
	Version int        `json:"Version"`
	Classes []rawClass `json:"Classes"`
	Enums   []rawEnum  `json:"Enums"`
}

type rawClass struct {
	Name           string            `json:"Name"`
	Superclass     string            `json:"Superclass"`
	MemoryCategory string            `json:"MemoryCategory"`
	Tags           []json.RawMessage `json:"Tags"`
	Members        []rawMember       `json:"Members"`
}

type rawMember struct {
	MemberType    string            `json:"MemberType"`
	Name          string            `json:"Name"`
	ValueType     rawType           `json:"ValueType"`
	ReturnType    rawType           `json:"ReturnType"`
	Parameters    []rawParameter    `json:"Parameters"`
	Security      json.RawMessage   `json:"Security"`
	Serialization rawSerialization  `json:"Serialization"`
	Category      string            `json:"Category"`
	ThreadSafety  string            `json:"ThreadSafety"`
	Capabilities  json.RawMessage   `json:"Capabilities"`
	Tags          []json.RawMessage `json:"Tags"`
}

type rawType struct {
	Category string `json:"Category"`
	Name     string `json:"Name"`
}

func (t rawType) typeRef() descriptor.TypeRef {
	return descriptor.TypeRef{Category: t.Category, Name: t.Name}
}

type rawParameter struct {
	Name    string          `json:"Name"`
	Type    rawType         `json:"Type"`
	Default json.RawMessage `json:"Default"`
}

type rawSerialization struct {
	CanLoad bool `json:"CanLoad"`
	CanSave bool `json:"CanSave"`
}

type rawEnum struct {
	Name  string            `json:"Name"`
	Tags  []json.RawMessage `json:"Tags"`
	Items []rawEnumItem     `json:"Items"`
}

type rawEnumItem struct {
	Name        string            `json:"Name"`
	Value       int               `json:"Value"`
	LegacyNames []string          `json:"LegacyNames"`
	Tags        []json.RawMessage `json:"Tags"`
}

type rawSecurityDump struct {
	Version int                `json:"Version"`
	Classes []rawSecurityClass `json:"Classes"`
}

type rawSecurityClass struct {
	Name       string `json:"Name"`
	Superclass string `json:"Superclass"`
	Security   string `json:"Security"`
}

type rawReadWrite struct {
	Read  string `json:"Read"`
	Write string `json:"Write"`
}

// parseSecurity accepts either a bare level name or a {Read, Write} object.
func parseSecurity(raw json.RawMessage) (descriptor.ReadWriteSecurity, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return descriptor.Uniform(descriptor.SecurityNone), nil
	}
	var level string
	if err := json.Unmarshal(raw, &level); err == nil {
		return descriptor.Uniform(descriptor.Security(level).Normalize()), nil
	}
	var pair rawReadWrite
	if err := json.Unmarshal(raw, &pair); err != nil {
		return descriptor.ReadWriteSecurity{}, fmt.Errorf("security must be a string or {Read, Write}: %w", err)
	}
	return descriptor.ReadWriteSecurity{
		Read:  descriptor.Security(pair.Read).Normalize(),
		Write: descriptor.Security(pair.Write).Normalize(),
	}, nil
}

// parseTags flattens string tags and {Key: Value} object tags.
func parseTags(raws []json.RawMessage) (descriptor.Tags, error) {
	tags := make([]string, 0, len(raws))
	for _, raw := range raws {
		var tag string
		if err := json.Unmarshal(raw, &tag); err == nil {
			tags = append(tags, tag)
			continue
		}
		var obj map[string]interface{}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("tag must be a string or an object: %w", err)
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			tags = append(tags, fmt.Sprintf("%s=%v", k, obj[k]))
		}
	}
	return descriptor.NewTags(tags...), nil
}

// parseCapabilities accepts a list, or a {Read: [...], Write: [...]} object
// whose entries are prefixed with their side.
func parseCapabilities(raw json.RawMessage) (descriptor.Capabilities, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return descriptor.NewCapabilities(list...), nil
	}
	var sides map[string][]string
	if err := json.Unmarshal(raw, &sides); err != nil {
		return nil, fmt.Errorf("capabilities must be a list or an object of lists: %w", err)
	}
	var caps []string
	for side, names := range sides {
		for _, n := range names {
			caps = append(caps, side+":"+n)
		}
	}
	return descriptor.NewCapabilities(caps...), nil
}

// parseDefault keeps string defaults verbatim and other JSON values as text.
func parseDefault(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	text := strings.TrimSpace(string(raw))
	return &text
}
