package merge

import (
	"strings"

	"apidiff/internal/descriptor"
	"apidiff/internal/diff"
)

// RenamePass pairs a removed class with an added class whose full signature,
// members included, is identical once the old name is replaced by the new.
// The pair becomes one ClassName change.
type RenamePass struct{}

// Name implements Pass.
func (RenamePass) Name() string { return "rename" }

// Apply implements Pass.
func (RenamePass) Apply(ctx *Context, diffs []*diff.Diff) []*diff.Diff {
	var added, removed []*diff.Diff
	for _, d := range diffs {
		class, ok := d.Target.(*descriptor.Class)
		if !ok || d.Field != "" || len(class.Members) == 0 {
			continue
		}
		switch d.Type {
		case diff.Add:
			added = append(added, d)
		case diff.Remove:
			removed = append(removed, d)
		}
	}
	if len(added) == 0 || len(removed) == 0 {
		return diffs
	}

	drop := make(map[*diff.Diff]bool)
	var renames []*diff.Diff
	for _, r := range removed {
		oldClass := r.Target.(*descriptor.Class)
		for _, a := range added {
			if drop[a] {
				continue
			}
			newClass := a.Target.(*descriptor.Class)
			if classSignature(oldClass, oldClass.Name, newClass.Name) != classSignature(newClass, "", "") {
				continue
			}
			drop[r], drop[a] = true, true
			renames = append(renames, &diff.Diff{
				Type:   diff.Change,
				Target: oldClass,
				Field:  diff.FieldClassName,
				From:   []diff.Value{diff.Literal(oldClass.Name)},
				To:     []diff.Value{diff.Literal(newClass.Name)},
			})
			ctx.Logger.Debug("Detected class rename", map[string]interface{}{
				"from": oldClass.Name,
				"to":   newClass.Name,
			})
			break
		}
	}
	return append(without(diffs, drop), renames...)
}

// classSignature renders the class and its members in detailed form, one per
// line, members in name order. When from is set, names referring to from are
// rewritten to to.
func classSignature(class *descriptor.Class, from, to string) string {
	members := make([]*descriptor.Member, 0, len(class.Members))
	for _, m := range class.Members {
		if class.Member(m.Name) == m {
			members = append(members, m)
		}
	}
	sortMembers(members)

	lines := make([]string, 0, len(members)+1)
	render := func(d descriptor.Descriptor) {
		tokens := descriptor.Describe(d, true)
		if from != "" {
			tokens = descriptor.Rename(tokens, from, to)
		}
		lines = append(lines, descriptor.FormatText(tokens))
	}
	render(class)
	for _, m := range members {
		render(m)
	}
	return strings.Join(lines, "\n")
}
