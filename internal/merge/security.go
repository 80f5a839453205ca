package merge

import (
	"apidiff/internal/descriptor"
	"apidiff/internal/diff"
)

// SecurityPass folds member security changes into one class-level change
// when every member of the class moved between the same two levels.
type SecurityPass struct{}

// Name implements Pass.
func (SecurityPass) Name() string { return "security" }

// Apply implements Pass.
func (SecurityPass) Apply(ctx *Context, diffs []*diff.Diff) []*diff.Diff {
	groups := make(map[*descriptor.Class][]*diff.Diff)
	var classes []*descriptor.Class
	for _, d := range diffs {
		if d.Type != diff.Change || d.Field != diff.FieldSecurity {
			continue
		}
		if _, ok := d.Target.(*descriptor.Member); !ok {
			continue
		}
		class := d.Owner().(*descriptor.Class)
		if _, ok := groups[class]; !ok {
			classes = append(classes, class)
		}
		groups[class] = append(groups[class], d)
	}

	drop := make(map[*diff.Diff]bool)
	var synthesized []*diff.Diff
	for _, class := range classes {
		group := groups[class]
		if !coversClass(class, group) {
			continue
		}
		for _, d := range group {
			drop[d] = true
		}
		synthesized = append(synthesized, &diff.Diff{
			Type:   diff.Change,
			Target: class,
			Field:  diff.FieldSecurity,
			From:   group[0].From,
			To:     group[0].To,
		})
		ctx.Logger.Debug("Aggregated security change", map[string]interface{}{
			"class":   class.Name,
			"members": len(group),
		})
	}
	return append(without(diffs, drop), synthesized...)
}

// coversClass reports whether group holds one identical change for every
// member of class.
func coversClass(class *descriptor.Class, group []*diff.Diff) bool {
	from, to := valuesText(group[0].From), valuesText(group[0].To)
	covered := make(map[string]bool, len(group))
	for _, d := range group {
		if valuesText(d.From) != from || valuesText(d.To) != to {
			return false
		}
		covered[d.Target.Common().Name] = true
	}
	for _, m := range class.Members {
		if !covered[m.Name] {
			return false
		}
	}
	return len(covered) > 0
}

func valuesText(values []diff.Value) string {
	var s string
	for i, v := range values {
		if i > 0 {
			s += " "
		}
		s += v.String()
	}
	return s
}
