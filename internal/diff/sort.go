package diff

import (
	"sort"

	"apidiff/internal/descriptor"
)

// Less orders diffs by type, target type priority, field, then target.
func Less(a, b *Diff) bool {
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	if a.Target.Kind() != b.Target.Kind() {
		return a.Target.Kind() < b.Target.Kind()
	}
	if a.Field != b.Field {
		return a.Field < b.Field
	}
	if cmp := descriptor.Compare(a.Target, b.Target); cmp != 0 {
		return cmp < 0
	}
	// Tag diffs on the same target differ only by tag set.
	return a.Tags.String() < b.Tags.String()
}

// Sort orders diffs and, recursively, their children.
func Sort(diffs []*Diff) {
	sort.SliceStable(diffs, func(i, j int) bool { return Less(diffs[i], diffs[j]) })
	for _, d := range diffs {
		if len(d.Children) > 0 {
			Sort(d.Children)
		}
	}
}
