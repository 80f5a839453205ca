package merge

import (
	"sort"
	"strings"

	"apidiff/internal/descriptor"
	"apidiff/internal/diff"
)

// CoalescePass merges Change diffs that share a target into one diff whose
// field names every changed field.
type CoalescePass struct{}

// Name implements Pass.
func (CoalescePass) Name() string { return "coalesce" }

// Apply implements Pass.
func (CoalescePass) Apply(ctx *Context, diffs []*diff.Diff) []*diff.Diff {
	groups := make(map[descriptor.Descriptor][]*diff.Diff)
	for _, d := range diffs {
		if d.Type == diff.Change {
			groups[d.Target] = append(groups[d.Target], d)
		}
	}

	out := make([]*diff.Diff, 0, len(diffs))
	for _, d := range diffs {
		if d.Type != diff.Change {
			out = append(out, d)
			continue
		}
		group := groups[d.Target]
		switch {
		case len(group) == 1:
			out = append(out, d)
		case group[0] == d:
			out = append(out, coalesce(group))
			ctx.Logger.Debug("Coalesced changes", map[string]interface{}{
				"target": d.Target.QualifiedName(),
				"fields": len(group),
			})
		}
	}
	return out
}

func coalesce(group []*diff.Diff) *diff.Diff {
	sorted := append([]*diff.Diff(nil), group...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Field < sorted[j].Field })

	merged := &diff.Diff{Type: diff.Change, Target: sorted[0].Target}
	fields := make([]string, len(sorted))
	for i, d := range sorted {
		fields[i] = d.Field
		merged.From = append(merged.From, d.From...)
		merged.To = append(merged.To, d.To...)
	}
	merged.Field = JoinFields(fields)
	return merged
}

// JoinFields renders a field list as "a", "a and b" or "a, b and c".
func JoinFields(fields []string) string {
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return fields[0]
	}
	return strings.Join(fields[:len(fields)-1], ", ") + " and " + fields[len(fields)-1]
}
