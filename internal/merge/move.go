package merge

import (
	"sort"

	"apidiff/internal/descriptor"
	"apidiff/internal/diff"
)

// MovePass recognizes members removed from a class and added, under the same
// name and kind, to one of that class's ancestors. A destination fed by one
// source becomes a Move; one fed by several becomes a Merge. Either way the
// matched Remove and Add diffs are consumed.
type MovePass struct{}

// Name implements Pass.
func (MovePass) Name() string { return "move" }

type addSite struct {
	diff   *diff.Diff
	parent *diff.Diff // class Add owning the diff, nil when top-level
}

// Apply implements Pass.
func (MovePass) Apply(ctx *Context, diffs []*diff.Diff) []*diff.Diff {
	adds := memberAdds(diffs)
	if len(adds) == 0 {
		return diffs
	}

	drop := make(map[*diff.Diff]bool)
	sources := make(map[*diff.Diff][]*descriptor.Member)
	var order []addSite

	for _, d := range diffs {
		if d.Type != diff.Remove || d.Field != "" {
			continue
		}
		removed, ok := d.Target.(*descriptor.Member)
		if !ok {
			continue
		}
		current := ctx.New.Class(removed.Class.Name)
		if current == nil {
			continue
		}
		for _, site := range adds[moveKey(removed)] {
			dest := site.diff.Target.(*descriptor.Member)
			if !dest.Class.IsAncestorOf(current) {
				continue
			}
			if _, seen := sources[site.diff]; !seen {
				order = append(order, site)
			}
			sources[site.diff] = append(sources[site.diff], removed)
			drop[d] = true
			break
		}
	}
	if len(order) == 0 {
		return diffs
	}

	var synthesized []*diff.Diff
	for _, site := range order {
		dest := site.diff.Target.(*descriptor.Member)
		from := sources[site.diff]
		sortMembers(from)

		if len(from) == 1 {
			synthesized = append(synthesized, &diff.Diff{
				Type:   diff.Move,
				Target: dest,
				From:   []diff.Value{diff.DescriptorValue(from[0].Class)},
				To:     []diff.Value{diff.DescriptorValue(dest.Class)},
			})
		} else {
			values := make([]diff.Value, len(from))
			for i, m := range from {
				values[i] = diff.DescriptorValue(m)
			}
			synthesized = append(synthesized, &diff.Diff{
				Type:   diff.Merge,
				Target: dest,
				From:   values,
				To:     []diff.Value{diff.DescriptorValue(dest)},
			})
		}

		if site.parent != nil {
			site.parent.RemoveChild(site.diff)
		} else {
			drop[site.diff] = true
		}
		ctx.Logger.Debug("Detected member move", map[string]interface{}{
			"member":  dest.QualifiedName(),
			"sources": len(from),
		})
	}
	return append(without(diffs, drop), synthesized...)
}

func moveKey(m *descriptor.Member) string {
	return m.MemberKind.String() + " " + m.Name
}

// memberAdds indexes every member Add, top-level or under a class Add, by
// kind and name. Candidates for one key are in canonical order so the first
// acceptable ancestor wins deterministically.
func memberAdds(diffs []*diff.Diff) map[string][]addSite {
	index := make(map[string][]addSite)
	visit := func(d, parent *diff.Diff) {
		if d.Type != diff.Add || d.Field != "" {
			return
		}
		if m, ok := d.Target.(*descriptor.Member); ok {
			index[moveKey(m)] = append(index[moveKey(m)], addSite{diff: d, parent: parent})
		}
	}
	for _, d := range diffs {
		visit(d, nil)
		if _, ok := d.Target.(*descriptor.Class); ok && d.Type == diff.Add {
			for _, child := range d.Children {
				visit(child, d)
			}
		}
	}
	for _, sites := range index {
		sort.SliceStable(sites, func(i, j int) bool {
			return descriptor.Compare(sites[i].diff.Target, sites[j].diff.Target) < 0
		})
	}
	return index
}

func sortMembers(members []*descriptor.Member) {
	sort.SliceStable(members, func(i, j int) bool {
		return descriptor.Compare(members[i], members[j]) < 0
	})
}
