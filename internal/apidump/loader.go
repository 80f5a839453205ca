// Package apidump turns raw API dump payloads into a descriptor.Database.
package apidump

import (
	"encoding/json"
	"fmt"

	"apidiff/internal/descriptor"
	apierrors "apidiff/internal/errors"
	"apidiff/internal/logging"
)

// Loader parses API dump payloads.
type Loader struct {
	logger *logging.Logger
}

// NewLoader creates a loader. A nil logger discards output.
func NewLoader(logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Loader{logger: logger}
}

// Load parses payload with a silent loader.
func Load(payload []byte) (*descriptor.Database, error) {
	return NewLoader(nil).Load(payload)
}

// Load parses a full dump. Payloads may be plain, gzip or zstd encoded.
// Any error is an ApiDiffError with a parse code and no database is returned.
func (l *Loader) Load(payload []byte) (*descriptor.Database, error) {
	data, err := decodePayload(payload)
	if err != nil {
		return nil, err
	}

	if err := checkVersion(data, FullSchemaVersion); err != nil {
		return nil, err
	}

	var dump rawDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, apierrors.New(apierrors.ParseFailed, "malformed API dump", err)
	}

	db := descriptor.NewDatabase()
	skipped := 0
	for i := range dump.Classes {
		class, n, err := l.buildClass(&dump.Classes[i])
		if err != nil {
			return nil, apierrors.New(apierrors.ParseFailed,
				fmt.Sprintf("malformed class %q", dump.Classes[i].Name), err)
		}
		skipped += n
		db.AddClass(class)
	}
	for i := range dump.Enums {
		enum, err := buildEnum(&dump.Enums[i])
		if err != nil {
			return nil, apierrors.New(apierrors.ParseFailed,
				fmt.Sprintf("malformed enum %q", dump.Enums[i].Name), err)
		}
		db.AddEnum(enum)
	}

	l.logger.Debug("API dump loaded", map[string]interface{}{
		"classes":        db.ClassCount(),
		"enums":          db.EnumCount(),
		"skippedMembers": skipped,
	})
	return db, nil
}

// ApplySecurity patches class security levels from a security-only dump.
// Classes missing from db are ignored. It returns how many classes changed.
func (l *Loader) ApplySecurity(db *descriptor.Database, payload []byte) (int, error) {
	data, err := decodePayload(payload)
	if err != nil {
		return 0, err
	}
	if err := checkVersion(data, SecuritySchemaVersion); err != nil {
		return 0, err
	}

	var dump rawSecurityDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return 0, apierrors.New(apierrors.ParseFailed, "malformed security dump", err)
	}

	patched := 0
	for _, rc := range dump.Classes {
		class := db.Class(rc.Name)
		if class == nil {
			continue
		}
		class.Security = descriptor.Security(rc.Security).Normalize()
		patched++
	}

	l.logger.Debug("Security dump applied", map[string]interface{}{
		"classes": len(dump.Classes),
		"patched": patched,
	})
	return patched, nil
}

func checkVersion(data []byte, want int) error {
	var probe versionProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return apierrors.New(apierrors.ParseFailed, "payload is not a JSON object", err)
	}
	if probe.Version != want {
		return apierrors.Newf(apierrors.UnsupportedSchema,
			"unsupported schema version %d (expected %d)", probe.Version, want).
			WithDetails(map[string]int{"version": probe.Version})
	}
	return nil
}

// buildClass converts one raw class and returns how many members it skipped.
func (l *Loader) buildClass(rc *rawClass) (*descriptor.Class, int, error) {
	class := descriptor.NewClass(rc.Name, rc.Superclass)
	class.MemoryCategory = rc.MemoryCategory

	tags, err := parseTags(rc.Tags)
	if err != nil {
		return nil, 0, err
	}
	class.Tags = tags

	skipped := 0
	for i := range rc.Members {
		rm := &rc.Members[i]
		kind, ok := descriptor.ParseMemberKind(rm.MemberType)
		if !ok {
			l.logger.Debug("Skipping member with unknown kind", map[string]interface{}{
				"class":      rc.Name,
				"member":     rm.Name,
				"memberType": rm.MemberType,
			})
			skipped++
			continue
		}
		member, err := buildMember(kind, rm)
		if err != nil {
			return nil, 0, fmt.Errorf("member %q: %w", rm.Name, err)
		}
		class.AddMember(member)
	}

	inferClassSecurity(class)
	propagateDeprecation(class)
	return class, skipped, nil
}

func buildMember(kind descriptor.Kind, rm *rawMember) (*descriptor.Member, error) {
	m := descriptor.NewMember(kind, rm.Name)

	tags, err := parseTags(rm.Tags)
	if err != nil {
		return nil, err
	}
	m.Tags = tags

	if m.Security, err = parseSecurity(rm.Security); err != nil {
		return nil, err
	}
	if m.Capabilities, err = parseCapabilities(rm.Capabilities); err != nil {
		return nil, err
	}
	m.ThreadSafety = descriptor.ThreadSafety(rm.ThreadSafety)

	switch kind {
	case descriptor.KindProperty:
		m.ValueType = rm.ValueType.typeRef()
		m.Serialization = descriptor.Serialization{
			CanLoad: rm.Serialization.CanLoad,
			CanSave: rm.Serialization.CanSave,
		}
		m.Category = rm.Category
	case descriptor.KindFunction, descriptor.KindCallback:
		m.ReturnType = rm.ReturnType.typeRef()
		m.Parameters = buildParameters(rm.Parameters)
	case descriptor.KindEvent:
		m.Parameters = buildParameters(rm.Parameters)
	}
	return m, nil
}

func buildParameters(raws []rawParameter) descriptor.Parameters {
	params := make(descriptor.Parameters, len(raws))
	for i, rp := range raws {
		params[i] = descriptor.Parameter{
			Name:    rp.Name,
			Type:    rp.Type.typeRef(),
			Default: parseDefault(rp.Default),
		}
	}
	return params
}

func buildEnum(re *rawEnum) (*descriptor.Enum, error) {
	enum := descriptor.NewEnum(re.Name)
	tags, err := parseTags(re.Tags)
	if err != nil {
		return nil, err
	}
	enum.Tags = tags

	for _, ri := range re.Items {
		item := descriptor.NewEnumItem(ri.Name, ri.Value)
		item.LegacyNames = ri.LegacyNames
		if item.Tags, err = parseTags(ri.Tags); err != nil {
			return nil, fmt.Errorf("item %q: %w", ri.Name, err)
		}
		enum.AddItem(item)
	}
	return enum, nil
}

// inferClassSecurity assigns a class-level security when every member is
// internal: the level L with the smallest count(L)*1000 + rank(L).
func inferClassSecurity(class *descriptor.Class) {
	if len(class.Members) == 0 {
		return
	}
	counts := make(map[descriptor.Security]int)
	for _, m := range class.Members {
		if !m.Security.IsInternal() {
			return
		}
		counts[memberLevel(m.Security)]++
	}

	best := descriptor.SecurityNone
	bestScore := -1
	for level, count := range counts {
		score := count*1000 + level.Level()
		if bestScore < 0 || score < bestScore || (score == bestScore && level < best) {
			best, bestScore = level, score
		}
	}
	class.Security = best
}

// memberLevel picks the less restrictive half of a read/write pair.
func memberLevel(rw descriptor.ReadWriteSecurity) descriptor.Security {
	if rw.Write.Level() < rw.Read.Level() {
		return rw.Write.Normalize()
	}
	return rw.Read.Normalize()
}

// propagateDeprecation marks the class deprecated when it already is, or when
// every member is, and then tags every member.
func propagateDeprecation(class *descriptor.Class) {
	deprecated := class.Tags.Has(descriptor.TagDeprecated)
	if !deprecated && len(class.Members) > 0 {
		deprecated = true
		for _, m := range class.Members {
			if !m.IsDeprecated() {
				deprecated = false
				break
			}
		}
	}
	if !deprecated {
		return
	}
	class.Tags = class.Tags.With(descriptor.TagDeprecated)
	for _, m := range class.Members {
		m.Tags = m.Tags.With(descriptor.TagDeprecated)
	}
}
