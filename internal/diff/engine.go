package diff

import (
	"sort"

	"apidiff/internal/descriptor"
)

// Compare structurally diffs two databases. Matching is by name within each
// scope; value comparisons use canonical rendered text. The result is sorted.
func Compare(oldDB, newDB *descriptor.Database) []*Diff {
	var c collector
	c.compareClasses(oldDB, newDB)
	c.compareEnums(oldDB, newDB)
	Sort(c.diffs)
	return c.diffs
}

type collector struct {
	diffs []*Diff
}

func (c *collector) emit(d *Diff) {
	c.diffs = append(c.diffs, d)
}

// changed emits a Change diff when the two values render differently.
func (c *collector) changed(target descriptor.Descriptor, field string, from, to Value) {
	if from.String() == to.String() {
		return
	}
	c.emit(&Diff{
		Type:   Change,
		Target: target,
		Field:  field,
		From:   []Value{from},
		To:     []Value{to},
	})
}

func unionNames(oldNames, newNames []string) []string {
	seen := make(map[string]struct{}, len(oldNames)+len(newNames))
	var out []string
	for _, list := range [][]string{oldNames, newNames} {
		for _, n := range list {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

func classNames(db *descriptor.Database) []string {
	var out []string
	for _, class := range db.Classes() {
		out = append(out, class.Name)
	}
	return out
}

func (c *collector) compareClasses(oldDB, newDB *descriptor.Database) {
	for _, name := range unionNames(classNames(oldDB), classNames(newDB)) {
		oldClass, newClass := oldDB.Class(name), newDB.Class(name)
		switch {
		case oldClass == nil:
			c.emit(addedClass(newClass))
		case newClass == nil:
			c.emit(removedClass(oldClass))
		default:
			c.compareClass(oldClass, newClass)
		}
	}
}

func addedClass(class *descriptor.Class) *Diff {
	d := &Diff{Type: Add, Target: class, Detailed: true}
	for _, m := range class.Members {
		d.Children = append(d.Children, &Diff{Type: Add, Target: m, Detailed: true})
	}
	return d
}

func removedClass(class *descriptor.Class) *Diff {
	d := &Diff{Type: Remove, Target: class}
	for _, m := range class.Members {
		d.Children = append(d.Children, &Diff{Type: Remove, Target: m})
	}
	return d
}

// tagDiffs returns at most one Add and one Remove diff for target.
func tagDiffs(target descriptor.Descriptor, oldTags, newTags descriptor.Tags) []*Diff {
	var out []*Diff
	if added := newTags.Minus(oldTags); len(added) > 0 {
		out = append(out, &Diff{Type: Add, Target: target, Field: FieldTags, Tags: added})
	}
	if removed := oldTags.Minus(newTags); len(removed) > 0 {
		out = append(out, &Diff{Type: Remove, Target: target, Field: FieldTags, Tags: removed})
	}
	return out
}

// emitTags emits the tag diffs of target, skipping those whose signature the
// owner already reported.
func (c *collector) emitTags(target descriptor.Descriptor, oldTags, newTags descriptor.Tags, ownerSigs map[string]bool) map[string]bool {
	sigs := make(map[string]bool)
	for _, d := range tagDiffs(target, oldTags, newTags) {
		sig := d.TagSignature()
		sigs[sig] = true
		if ownerSigs[sig] {
			continue
		}
		c.emit(d)
	}
	return sigs
}

func (c *collector) compareClass(oldClass, newClass *descriptor.Class) {
	classSigs := c.emitTags(newClass, oldClass.Tags, newClass.Tags, nil)
	c.changed(newClass, FieldSuperclass, NameValue(oldClass.Superclass), NameValue(newClass.Superclass))
	c.changed(newClass, FieldMemoryCategory, Literal(oldClass.MemoryCategory), Literal(newClass.MemoryCategory))

	for _, m := range newClass.Members {
		if m != newClass.Member(m.Name) {
			continue // shadowed duplicate
		}
		old := oldClass.Member(m.Name)
		if old == nil || old.MemberKind != m.MemberKind {
			c.emit(&Diff{Type: Add, Target: m, Detailed: true})
			continue
		}
		c.emitTags(m, old.Tags, m.Tags, classSigs)
		c.compareMember(old, m)
	}
	for _, m := range oldClass.Members {
		if m != oldClass.Member(m.Name) {
			continue
		}
		if now := newClass.Member(m.Name); now == nil || now.MemberKind != m.MemberKind {
			c.emit(&Diff{Type: Remove, Target: m})
		}
	}
}

func (c *collector) compareMember(old, now *descriptor.Member) {
	switch now.MemberKind {
	case descriptor.KindProperty:
		c.compareReadWrite(old, now)
		c.changed(now, FieldValueType, TypeValue(old.ValueType), TypeValue(now.ValueType))
		c.changed(now, FieldSerialization, TextValue(old.Serialization.String()), TextValue(now.Serialization.String()))
		c.changed(now, FieldCategory, Literal(old.Category), Literal(now.Category))
	case descriptor.KindFunction, descriptor.KindCallback:
		c.changed(now, FieldSecurity, SecurityValue(old.Security), SecurityValue(now.Security))
		c.changed(now, FieldReturnType, TypeValue(old.ReturnType), TypeValue(now.ReturnType))
		c.changed(now, FieldParameters, ParametersValue(old.Parameters), ParametersValue(now.Parameters))
	case descriptor.KindEvent:
		c.changed(now, FieldSecurity, SecurityValue(old.Security), SecurityValue(now.Security))
		c.changed(now, FieldParameters, ParametersValue(old.Parameters), ParametersValue(now.Parameters))
	}
	c.changed(now, FieldThreadSafety, TextValue(old.ThreadSafety.String()), TextValue(now.ThreadSafety.String()))
	c.changed(now, FieldCapabilities, TextValue(old.Capabilities.String()), TextValue(now.Capabilities.String()))
}

// compareReadWrite reports one security change when both sides are uniform,
// and separate read and write changes otherwise.
func (c *collector) compareReadWrite(old, now *descriptor.Member) {
	if old.Security.IsUniform() && now.Security.IsUniform() {
		c.changed(now, FieldSecurity, SecurityValue(old.Security), SecurityValue(now.Security))
		return
	}
	c.changed(now, FieldReadPermissions, SecurityValue(old.Security.Read), SecurityValue(now.Security.Read))
	c.changed(now, FieldWritePermissions, SecurityValue(old.Security.Write), SecurityValue(now.Security.Write))
}

func enumNames(db *descriptor.Database) []string {
	var out []string
	for _, e := range db.Enums() {
		out = append(out, e.Name)
	}
	return out
}

func (c *collector) compareEnums(oldDB, newDB *descriptor.Database) {
	for _, name := range unionNames(enumNames(oldDB), enumNames(newDB)) {
		oldEnum, newEnum := oldDB.Enum(name), newDB.Enum(name)
		switch {
		case oldEnum == nil:
			d := &Diff{Type: Add, Target: newEnum, Detailed: true}
			for _, item := range newEnum.Items {
				d.Children = append(d.Children, &Diff{Type: Add, Target: item, Detailed: true})
			}
			c.emit(d)
		case newEnum == nil:
			d := &Diff{Type: Remove, Target: oldEnum}
			for _, item := range oldEnum.Items {
				d.Children = append(d.Children, &Diff{Type: Remove, Target: item})
			}
			c.emit(d)
		default:
			c.compareEnum(oldEnum, newEnum)
		}
	}
}

func (c *collector) compareEnum(oldEnum, newEnum *descriptor.Enum) {
	enumSigs := c.emitTags(newEnum, oldEnum.Tags, newEnum.Tags, nil)

	for _, item := range newEnum.Items {
		if item != newEnum.Item(item.Name) {
			continue
		}
		old := oldEnum.Item(item.Name)
		if old == nil {
			c.emit(&Diff{Type: Add, Target: item, Detailed: true})
			continue
		}
		c.emitTags(item, old.Tags, item.Tags, enumSigs)
		c.changed(item, FieldValue, NumberValue(old.Value), NumberValue(item.Value))
	}
	for _, item := range oldEnum.Items {
		if item != oldEnum.Item(item.Name) {
			continue
		}
		if newEnum.Item(item.Name) == nil {
			c.emit(&Diff{Type: Remove, Target: item})
		}
	}
}
