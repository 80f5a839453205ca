package render

import (
	"apidiff/internal/descriptor"
	"apidiff/internal/diff"
	"apidiff/internal/errors"
	"apidiff/internal/output"
)

// Report is the structured export of a diff forest.
type Report struct {
	Total   int            `json:"total"`
	Counts  map[string]int `json:"counts"`
	Entries []Entry        `json:"entries"`
}

// Entry is one exported diff.
type Entry struct {
	Type     string   `json:"type"`
	Kind     string   `json:"kind"`
	Target   string   `json:"target"`
	Field    string   `json:"field,omitempty"`
	Summary  string   `json:"summary"`
	From     []string `json:"from,omitempty"`
	To       []string `json:"to,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Children []Entry  `json:"children,omitempty"`
}

// BuildReport converts diffs into a Report. Counts are keyed by diff type and
// cover child diffs too.
func BuildReport(diffs []*diff.Diff) *Report {
	r := &Report{Counts: make(map[string]int)}
	r.Entries = entries(diffs, r.Counts)
	r.Total = diff.Count(diffs)
	return r
}

func entries(diffs []*diff.Diff, counts map[string]int) []Entry {
	if len(diffs) == 0 {
		return nil
	}
	out := make([]Entry, 0, len(diffs))
	for _, d := range diffs {
		counts[d.Type.String()]++
		out = append(out, Entry{
			Type:     d.Type.String(),
			Kind:     d.Target.Kind().String(),
			Target:   d.Target.QualifiedName(),
			Field:    d.Field,
			Summary:  descriptor.FormatText(d.Header()),
			From:     valueStrings(d.From),
			To:       valueStrings(d.To),
			Tags:     []string(d.Tags),
			Children: entries(d.Children, counts),
		})
	}
	return out
}

func valueStrings(values []diff.Value) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

// EncodeReport renders diffs as a structured report. An empty forest renders
// as the empty string.
func EncodeReport(diffs []*diff.Diff, format output.Format) (string, error) {
	if len(diffs) == 0 {
		return "", nil
	}
	data, err := output.Encode(BuildReport(diffs), format)
	if err != nil {
		return "", errors.New(errors.RenderFailed, "failed to encode report", err)
	}
	return string(data), nil
}
