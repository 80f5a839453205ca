// Package merge rewrites a raw diff forest into higher-level edits.
//
// Each Pass consumes the forest produced by the previous one and returns a
// new forest. Passes never mark diffs as disposed; a diff that is consumed is
// simply left out of the returned slice. The pass order is fixed and
// significant: renames are detected before moves, and aggregation runs last.
package merge

import (
	"apidiff/internal/descriptor"
	"apidiff/internal/diff"
	"apidiff/internal/logging"
)

// Context carries the two databases a forest was computed from.
type Context struct {
	Old    *descriptor.Database
	New    *descriptor.Database
	Logger *logging.Logger
}

// Pass is one heuristic rewrite step.
type Pass interface {
	Name() string
	Apply(ctx *Context, diffs []*diff.Diff) []*diff.Diff
}

// PrePasses run on the raw forest before reconciliation. None are registered.
var PrePasses = []Pass{}

// PostPasses run after the structural diff, in this order.
var PostPasses = []Pass{
	RenamePass{},
	MovePass{},
	SecurityPass{},
	CoalescePass{},
}

// Pipeline is an ordered set of passes.
type Pipeline struct {
	Pre  []Pass
	Post []Pass
}

// Default returns the pipeline built from PrePasses and PostPasses.
func Default() *Pipeline {
	return &Pipeline{Pre: PrePasses, Post: PostPasses}
}

// Compare diffs ctx.Old against ctx.New and runs the pipeline over the result.
func (p *Pipeline) Compare(ctx *Context) []*diff.Diff {
	return p.Run(ctx, diff.Compare(ctx.Old, ctx.New))
}

// Run applies every pass in order and returns the sorted result. The input
// forest must not be shared with another Run.
func (p *Pipeline) Run(ctx *Context, diffs []*diff.Diff) []*diff.Diff {
	diff.Sort(diffs)
	for _, phase := range [][]Pass{p.Pre, p.Post} {
		for _, pass := range phase {
			before := len(diffs)
			diffs = pass.Apply(ctx, diffs)
			diff.Sort(diffs)
			ctx.Logger.Debug("Merge pass applied", map[string]interface{}{
				"pass":   pass.Name(),
				"before": before,
				"after":  len(diffs),
			})
		}
	}
	return diffs
}

// without returns diffs minus the entries in drop, preserving order.
func without(diffs []*diff.Diff, drop map[*diff.Diff]bool) []*diff.Diff {
	if len(drop) == 0 {
		return diffs
	}
	out := make([]*diff.Diff, 0, len(diffs))
	for _, d := range diffs {
		if !drop[d] {
			out = append(out, d)
		}
	}
	return out
}
